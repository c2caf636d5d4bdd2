package sunset

import (
	"math"
	"time"

	"github.com/sundash/sundash/pkg/solar"
)

// GetSunEvents returns a list of ordered sun events from the starting time to
// the end time in the given place. The first result will always be a sunrise,
// except in polar conditions where days without events are skipped entirely.
func GetSunEvents(start time.Time, duration time.Duration, place Place) SunEvents {
	sun := solar.New(place.Lat, place.Long)

	numDays := int(math.Ceil(duration.Hours() / 24))
	ret := make(SunEvents, 0, numDays*2)
	for day := 0; day < numDays; day++ {
		date := start.AddDate(0, 0, day)
		if rise, ok := sun.TimeOK(solar.Sunrise, date, place.Location); ok {
			ret = append(ret, SunEvent{rise, Sunrise})
		}
		if set, ok := sun.TimeOK(solar.Sunset, date, place.Location); ok {
			ret = append(ret, SunEvent{set, Sunset})
		}
	}
	return ret
}

// Package visualize renders sun event data as inline SVG.
package visualize

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/sundash/sundash/pkg/solar"
	"github.com/sundash/sundash/pkg/splines"
	"github.com/sundash/sundash/pkg/timetricks"
)

const (
	width  = 1200
	height = 300
)

// Daylight draws one civil day as a horizontal band: night at the edges,
// twilight bands stacked toward the center, and full daylight between
// sunrise and sunset.
type Daylight struct {
	date    time.Time
	days    []solar.Times
	lengths []splines.Point
}

// NewDaylight prepares an image over consecutive days of sun events. The
// day to draw is chosen with SetDate.
func NewDaylight(days []solar.Times) *Daylight {
	img := &Daylight{days: days}
	for _, day := range days {
		if day.Sunrise == nil || day.Sunset == nil || day.SolarNoon == nil {
			continue
		}
		img.lengths = append(img.lengths, splines.Point{
			Time:  *day.SolarNoon,
			Value: day.Sunset.Sub(*day.Sunrise).Hours(),
		})
	}
	return img
}

func (img *Daylight) SetDate(t time.Time) {
	img.date = timetricks.TrimClock(t)
}

func (img *Daylight) Encode(w io.Writer) (int, error) {
	var n int
	var err error
	io := func(nextn int, nexterr error) {
		n += nextn
		if nexterr != nil {
			err = nexterr
		}
	}

	day, ok := img.dayFor(img.date)
	if !ok {
		return n, fmt.Errorf("no sun data for %s", img.date.Format("2006-01-02"))
	}

	io(fmt.Fprintf(w, `<svg viewBox="0 0 %d %d" onclick="" xmlns="http://www.w3.org/2000/svg">`, width, height))

	// Night fills the whole band; every twilight layer is drawn over it,
	// widest and darkest first.
	io(fmt.Fprintf(w, `<rect class="night" fill="#1d2d44" x="0" y="0" width="%d" height="%d"/>`, width, height))

	for _, band := range []struct {
		class      string
		fill       string
		from, till *time.Time
	}{
		{"astronomical", "#3e5c76", day.AstronomicalDawn, day.AstronomicalDusk},
		{"nautical", "#748cab", day.NauticalDawn, day.NauticalDusk},
		{"civil", "#f0ebd8", day.CivilDawn, day.CivilDusk},
		{"daytime", "lightyellow", day.Sunrise, day.Sunset},
	} {
		if band.from == nil || band.till == nil {
			continue
		}
		fromx := img.timeToX(*band.from)
		tillx := img.timeToX(*band.till)
		io(fmt.Fprintf(w, `<rect class="%s" fill="%s" x="%d" y="%d" width="%d" height="%d"/>`,
			band.class, band.fill,
			fromx, 0,
			tillx-fromx, height))
	}

	// Mark solar noon.
	if day.SolarNoon != nil {
		noonx := img.timeToX(*day.SolarNoon)
		io(fmt.Fprintf(w, `<line class="noon" stroke="#e76f51" stroke-dasharray="8" x1="%d" y1="0" x2="%d" y2="%d"/>`,
			noonx, noonx, height))
	}

	// Insert the day length curve as JSON for client side scripting.
	spline := splines.CurvesBetween(img.lengths)
	io(fmt.Fprintf(w, `<text class="spline" visibility="hidden">`))
	json.NewEncoder(w).Encode(spline)
	io(fmt.Fprintf(w, `</text>`))

	// Insert date of this graph as unix.
	io(fmt.Fprintf(w, `<text class="unixtime" visibility="hidden">%d</text>`, img.date.Unix()))

	io(fmt.Fprintf(w, `</svg>`))

	return n, err
}

// dayFor finds the event table whose events fall on the calendar day of t.
func (img *Daylight) dayFor(t time.Time) (solar.Times, bool) {
	for _, day := range img.days {
		if day.SolarNoon != nil && timetricks.SameDay(*day.SolarNoon, t) {
			return day, true
		}
	}
	return solar.Times{}, false
}

func (img *Daylight) timeToX(t time.Time) int {
	return int(t.Unix()-img.date.Unix()) * width / (60 * 60 * 24)
}

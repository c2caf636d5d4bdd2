package solar

import (
	"time"
)

// Event names one of the nine sun events of a civil date, in chronological
// order.
type Event int

const (
	AstronomicalDawn Event = iota
	NauticalDawn
	CivilDawn
	Sunrise
	Noon
	Sunset
	CivilDusk
	NauticalDusk
	AstronomicalDusk
)

// Altitude of the sun's center at each event class, in degrees. Rise and set
// use the conventional refraction-corrected horizon.
const (
	horizonAltitude      = -0.8333
	civilAltitude        = -6.0
	nauticalAltitude     = -12.0
	astronomicalAltitude = -18.0
)

func (e Event) String() string {
	switch e {
	case AstronomicalDawn:
		return "astronomical dawn"
	case NauticalDawn:
		return "nautical dawn"
	case CivilDawn:
		return "civil dawn"
	case Sunrise:
		return "sunrise"
	case Noon:
		return "solar noon"
	case Sunset:
		return "sunset"
	case CivilDusk:
		return "civil dusk"
	case NauticalDusk:
		return "nautical dusk"
	case AstronomicalDusk:
		return "astronomical dusk"
	default:
		return "invalid"
	}
}

// altitude returns the altitude threshold for e and whether e is on the
// rising side of transit. Noon has no threshold and is not handled here.
func (e Event) altitude() (degrees float64, rising bool) {
	switch e {
	case AstronomicalDawn:
		return astronomicalAltitude, true
	case NauticalDawn:
		return nauticalAltitude, true
	case CivilDawn:
		return civilAltitude, true
	case Sunrise:
		return horizonAltitude, true
	case Sunset:
		return horizonAltitude, false
	case CivilDusk:
		return civilAltitude, false
	case NauticalDusk:
		return nauticalAltitude, false
	default:
		return astronomicalAltitude, false
	}
}

// Time returns the instant of event e on the given civil date, expressed in
// loc (UTC when loc is nil). It returns ErrNoEvent when the sun never
// reaches the event's altitude on that date.
func (s Sun) Time(e Event, date time.Time, loc *time.Location) (time.Time, error) {
	if e == Noon {
		return s.SolarNoon(date, loc)
	}
	alt, rising := e.altitude()
	return s.solve(date, alt, rising, loc)
}

// TimeOK is the non-failing form of Time: instead of an error it reports
// whether the event occurs at all.
func (s Sun) TimeOK(e Event, date time.Time, loc *time.Location) (time.Time, bool) {
	t, err := s.Time(e, date, loc)
	return t, err == nil
}

// Sunrise is shorthand for Time(Sunrise, ...).
func (s Sun) Sunrise(date time.Time, loc *time.Location) (time.Time, error) {
	return s.Time(Sunrise, date, loc)
}

// Sunset is shorthand for Time(Sunset, ...).
func (s Sun) Sunset(date time.Time, loc *time.Location) (time.Time, error) {
	return s.Time(Sunset, date, loc)
}

// SolarNoon returns the sun's transit of the local meridian on the given
// civil date. Unlike the other events it always occurs.
func (s Sun) SolarNoon(date time.Time, loc *time.Location) (time.Time, error) {
	pos := s.position(julianDay(date))
	return toTime(pos.transit, loc)
}

// DayLength returns the duration between sunrise and sunset on the given
// civil date, or zero if either does not occur.
func (s Sun) DayLength(date time.Time) time.Duration {
	rise, ok := s.TimeOK(Sunrise, date, nil)
	if !ok {
		return 0
	}
	set, ok := s.TimeOK(Sunset, date, nil)
	if !ok {
		return 0
	}
	return set.Sub(rise)
}

// Times collects every sun event of a single civil date. Events that do not
// occur are nil, which serializes to an explicit JSON null rather than being
// omitted.
type Times struct {
	AstronomicalDawn *time.Time `json:"astronomical_dawn"`
	NauticalDawn     *time.Time `json:"nautical_dawn"`
	CivilDawn        *time.Time `json:"civil_dawn"`
	Sunrise          *time.Time `json:"sunrise"`
	SolarNoon        *time.Time `json:"solar_noon"`
	Sunset           *time.Time `json:"sunset"`
	CivilDusk        *time.Time `json:"civil_dusk"`
	NauticalDusk     *time.Time `json:"nautical_dusk"`
	AstronomicalDusk *time.Time `json:"astronomical_dusk"`
}

// Day computes all nine events for the given civil date, expressed in loc
// (UTC when loc is nil).
func (s Sun) Day(date time.Time, loc *time.Location) Times {
	var ts Times
	for _, field := range []struct {
		e   Event
		dst **time.Time
	}{
		{AstronomicalDawn, &ts.AstronomicalDawn},
		{NauticalDawn, &ts.NauticalDawn},
		{CivilDawn, &ts.CivilDawn},
		{Sunrise, &ts.Sunrise},
		{Noon, &ts.SolarNoon},
		{Sunset, &ts.Sunset},
		{CivilDusk, &ts.CivilDusk},
		{NauticalDusk, &ts.NauticalDusk},
		{AstronomicalDusk, &ts.AstronomicalDusk},
	} {
		if t, ok := s.TimeOK(field.e, date, loc); ok {
			t := t
			*field.dst = &t
		}
	}
	return ts
}

package solar

import (
	"errors"
	"math"
	"time"
)

// Calibration constants, anchored at the J2000.0 epoch (2000-01-01 12:00 UT).
const (
	epochJD     = 2451545.0 // J2000.0 as a Julian Day
	unixEpochJD = 2440587.5 // 1970-01-01 00:00 UT as a Julian Day

	secondsPerDay = 86400.0

	meanAnomalyAtEpoch = 357.5291    // degrees
	meanDailyMotion    = 0.98564736  // degrees per day
	perihelionArgument = 102.9373    // degrees
	obliquity          = 23.43929111 // degrees
)

var (
	// ErrNoEvent reports that the sun never crosses the requested altitude
	// on the given date. This is the normal state of affairs in polar
	// summer and winter, not a failure of the computation.
	ErrNoEvent = errors.New("sun does not cross the requested altitude on this date")

	// ErrBadJulianDay reports that an intermediate Julian Day value was not
	// finite. It indicates degenerate input (such as a NaN coordinate) that
	// slipped past the no-event check, never a polar condition.
	ErrBadJulianDay = errors.New("computed julian day is not finite")
)

// Coordinate is a point on the Earth in decimal degrees. North and east are
// positive. Out of range values are not rejected; they produce the
// degenerate results the trigonometry implies.
type Coordinate struct {
	Lat, Long float64
}

// Sun computes sun event times for one coordinate. The zero value computes
// times for the null island at 0, 0. Sun is immutable and safe for
// concurrent use.
type Sun struct {
	coord Coordinate
}

// New returns a Sun fixed at the given latitude and longitude.
func New(lat, long float64) Sun {
	return Sun{coord: Coordinate{Lat: lat, Long: long}}
}

// At is New for callers that already hold a Coordinate. It is exactly
// equivalent to New(c.Lat, c.Long).
func At(c Coordinate) Sun {
	return Sun{coord: c}
}

// julianDay converts a civil date to the Julian Day of 00:00 UT of the
// following day, using the standard Meeus formula. Only the calendar date of
// t is read; any clock time or zone on it is discarded. The one day advance
// is deliberate: the position pipeline walks half a day back from this
// midnight to land on mean solar noon of the civil date itself.
func julianDay(t time.Time) float64 {
	y, m, d := t.Date()
	y, m, d = time.Date(y, m, d+1, 0, 0, 0, 0, time.UTC).Date()

	yy, mm := float64(y), float64(m)
	if mm <= 2 {
		yy--
		mm += 12
	}
	a := math.Floor(yy / 100)
	b := 2 - a + math.Floor(a/4)
	return math.Floor(365.25*(yy+4716)) + math.Floor(30.6001*(mm+1)) + float64(d) + b - 1524.5
}

// position is the sun's state for one civil date at the receiver's
// longitude. Angles are in degrees; transit is a Julian Day.
type position struct {
	meanAnomaly  float64
	eclipticLong float64
	declination  float64
	transit      float64
}

// position evaluates the solar position pipeline at mean solar noon of the
// date that produced jd: mean anomaly, equation of center, ecliptic
// longitude, declination, and the transit time corrected by the equation
// of time terms.
func (s Sun) position(jd float64) position {
	// Half a day back from the following midnight is noon of the civil
	// date; shifting by longitude makes it the local mean solar noon.
	n := jd - epochJD - 0.5 - s.coord.Long/360

	m := normalize360(meanAnomalyAtEpoch + meanDailyMotion*n)
	c := 1.9148*sinDeg(m) + 0.0200*sinDeg(2*m) + 0.0003*sinDeg(3*m)
	l := normalize360(m + c + perihelionArgument + 180.0)

	return position{
		meanAnomaly:  m,
		eclipticLong: l,
		declination:  asinDeg(sinDeg(l) * sinDeg(obliquity)),
		transit:      epochJD + n + 0.00534*sinDeg(m) - 0.00692*sinDeg(2*l),
	}
}

// hourAngle solves for the angle between local noon and the moment the sun's
// center reaches altitude degrees, at the given latitude and solar
// declination. ok is false when there is no real solution, which is the
// polar night or polar day condition. The check is on magnitude alone; no
// clamping or extrapolation is done.
func hourAngle(lat, declination, altitude float64) (degrees float64, ok bool) {
	v := (sinDeg(altitude) - sinDeg(lat)*sinDeg(declination)) /
		(cosDeg(lat) * cosDeg(declination))
	if math.Abs(v) > 1 {
		return 0, false
	}
	return acosDeg(v), true
}

// solve computes the instant the sun crosses altitude on the given civil
// date, before transit when rising is true and after it otherwise.
func (s Sun) solve(date time.Time, altitude float64, rising bool, loc *time.Location) (time.Time, error) {
	pos := s.position(julianDay(date))
	h0, ok := hourAngle(s.coord.Lat, pos.declination, altitude)
	if !ok {
		return time.Time{}, ErrNoEvent
	}
	jd := pos.transit + h0/360
	if rising {
		jd = pos.transit - h0/360
	}
	return toTime(jd, loc)
}

// toTime converts a Julian Day to an absolute instant, expressed in loc, or
// UTC when loc is nil. The seconds offset is kept in double precision until
// the final split into whole seconds and nanoseconds.
func toTime(jd float64, loc *time.Location) (time.Time, error) {
	if math.IsNaN(jd) || math.IsInf(jd, 0) {
		return time.Time{}, ErrBadJulianDay
	}
	if loc == nil {
		loc = time.UTC
	}
	seconds := (jd - unixEpochJD) * secondsPerDay
	whole, frac := math.Modf(seconds)
	return time.Unix(int64(whole), int64(frac*1e9)).In(loc), nil
}

func normalize360(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

func sinDeg(deg float64) float64 { return math.Sin(deg * math.Pi / 180) }
func cosDeg(deg float64) float64 { return math.Cos(deg * math.Pi / 180) }
func asinDeg(x float64) float64  { return math.Asin(x) * 180 / math.Pi }
func acosDeg(x float64) float64  { return math.Acos(x) * 180 / math.Pi }

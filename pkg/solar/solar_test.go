package solar

import (
	"errors"
	"math"
	"testing"
	"time"

	sunrisesunset "github.com/nathan-osman/go-sunrise"
)

// within fails the test unless got is within tol of want.
func within(t *testing.T, name string, got, want time.Time, tol time.Duration) {
	t.Helper()
	diff := got.Sub(want)
	if diff < 0 {
		diff = -diff
	}
	if diff > tol {
		t.Errorf("%s = %s, want %s (off by %s)", name, got, want, diff)
	}
}

func TestPublishedAlmanacTimes(t *testing.T) {
	cet := time.FixedZone("CET", 3600)
	table := []struct {
		name             string
		lat, long        float64
		date             time.Time
		loc              *time.Location
		rise, noon, set  time.Time
	}{{
		name: "Paris",
		lat:  48.87, long: 2.67,
		date: time.Date(2025, time.November, 2, 0, 0, 0, 0, cet),
		loc:  cet,
		rise: time.Date(2025, time.November, 2, 7, 39, 0, 0, cet),
		noon: time.Date(2025, time.November, 2, 12, 32, 0, 0, cet),
		set:  time.Date(2025, time.November, 2, 17, 27, 0, 0, cet),
	}, {
		name: "London",
		lat:  51.5, long: -0.13,
		date: time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC),
		loc:  time.UTC,
		rise: time.Date(2025, time.November, 5, 7, 1, 0, 0, time.UTC),
		noon: time.Date(2025, time.November, 5, 11, 44, 0, 0, time.UTC),
		set:  time.Date(2025, time.November, 5, 16, 26, 0, 0, time.UTC),
	}}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			sun := New(tc.lat, tc.long)
			rise, err := sun.Sunrise(tc.date, tc.loc)
			if err != nil {
				t.Fatalf("Sunrise: %v", err)
			}
			noon, err := sun.SolarNoon(tc.date, tc.loc)
			if err != nil {
				t.Fatalf("SolarNoon: %v", err)
			}
			set, err := sun.Sunset(tc.date, tc.loc)
			if err != nil {
				t.Fatalf("Sunset: %v", err)
			}
			within(t, "sunrise", rise, tc.rise, 2*time.Minute)
			within(t, "noon", noon, tc.noon, 2*time.Minute)
			within(t, "sunset", set, tc.set, 2*time.Minute)
		})
	}
}

func TestLondonDayLength(t *testing.T) {
	sun := New(51.5, -0.13)
	date := time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC)

	got := sun.DayLength(date)
	want := 9*time.Hour + 25*time.Minute
	diff := got - want
	if diff < 0 {
		diff = -diff
	}
	if diff > time.Minute {
		t.Errorf("DayLength = %s, want %s +/- 1m", got, want)
	}

	rise, _ := sun.Sunrise(date, nil)
	set, _ := sun.Sunset(date, nil)
	if got != set.Sub(rise) {
		t.Errorf("DayLength = %s, but sunset-sunrise = %s", got, set.Sub(rise))
	}
}

// TestEventOrder checks that whichever of the nine events occur on a date,
// they occur in chronological order, and that rise, noon, and set always
// occur below the polar circles.
func TestEventOrder(t *testing.T) {
	lats := []float64{-55, -35, 0, 35, 48.87, 55}
	dates := []time.Time{
		time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.June, 21, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.September, 22, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.November, 2, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.December, 21, 0, 0, 0, 0, time.UTC),
	}

	for _, lat := range lats {
		for _, date := range dates {
			sun := New(lat, 0)
			day := sun.Day(date, nil)

			if day.Sunrise == nil || day.SolarNoon == nil || day.Sunset == nil {
				t.Errorf("lat %v %s: rise, noon, or set missing", lat, date.Format("2006-01-02"))
				continue
			}
			if !(day.Sunrise.Before(*day.SolarNoon) && day.SolarNoon.Before(*day.Sunset)) {
				t.Errorf("lat %v %s: want sunrise < noon < sunset, got %s %s %s",
					lat, date.Format("2006-01-02"), day.Sunrise, day.SolarNoon, day.Sunset)
			}

			ordered := []*time.Time{
				day.AstronomicalDawn, day.NauticalDawn, day.CivilDawn,
				day.Sunrise, day.SolarNoon, day.Sunset,
				day.CivilDusk, day.NauticalDusk, day.AstronomicalDusk,
			}
			var prev *time.Time
			for i, next := range ordered {
				if next == nil {
					continue
				}
				if prev != nil && !prev.Before(*next) {
					t.Errorf("lat %v %s: event %d at %s not after previous %s",
						lat, date.Format("2006-01-02"), i, next, prev)
				}
				prev = next
			}

			if dl := sun.DayLength(date); dl < 0 {
				t.Errorf("lat %v %s: negative day length %s", lat, date.Format("2006-01-02"), dl)
			}
		}
	}
}

func TestEquatorEquinox(t *testing.T) {
	sun := New(0, 0)
	date := time.Date(2025, time.March, 20, 0, 0, 0, 0, time.UTC)
	got := sun.DayLength(date)
	diff := got - 12*time.Hour
	if diff < 0 {
		diff = -diff
	}
	if diff > 30*time.Minute {
		t.Errorf("equinox day length at the equator = %s, want about 12h", got)
	}
}

func TestPolarNight(t *testing.T) {
	sun := New(85, 0)
	date := time.Date(2025, time.December, 21, 0, 0, 0, 0, time.UTC)

	if _, err := sun.Sunrise(date, nil); !errors.Is(err, ErrNoEvent) {
		t.Errorf("Sunrise err = %v, want ErrNoEvent", err)
	}
	if _, err := sun.Sunset(date, nil); !errors.Is(err, ErrNoEvent) {
		t.Errorf("Sunset err = %v, want ErrNoEvent", err)
	}
	if _, ok := sun.TimeOK(Sunrise, date, nil); ok {
		t.Error("TimeOK(Sunrise) = true during polar night")
	}
	if dl := sun.DayLength(date); dl != 0 {
		t.Errorf("DayLength = %s, want 0 during polar night", dl)
	}

	// Noon still occurs even when the sun stays below the horizon.
	day := sun.Day(date, nil)
	if day.Sunrise != nil || day.Sunset != nil {
		t.Error("Day reported a sunrise or sunset during polar night")
	}
	if day.SolarNoon == nil {
		t.Error("Day did not report solar noon during polar night")
	}
}

func TestConstructorsAgree(t *testing.T) {
	date := time.Date(2025, time.November, 2, 0, 0, 0, 0, time.UTC)
	a := New(48.87, 2.67)
	b := At(Coordinate{Lat: 48.87, Long: 2.67})

	ra, err := a.Sunrise(date, nil)
	if err != nil {
		t.Fatal(err)
	}
	rb, err := b.Sunrise(date, nil)
	if err != nil {
		t.Fatal(err)
	}
	if ra.UnixNano() != rb.UnixNano() {
		t.Errorf("New and At disagree: %s vs %s", ra, rb)
	}
}

func TestDeterministic(t *testing.T) {
	sun := New(51.5, -0.13)
	date := time.Date(2025, time.November, 5, 0, 0, 0, 0, time.UTC)
	for _, e := range []Event{AstronomicalDawn, Sunrise, Noon, Sunset, AstronomicalDusk} {
		first, err := sun.Time(e, date, nil)
		if err != nil {
			t.Fatalf("%s: %v", e, err)
		}
		second, err := sun.Time(e, date, nil)
		if err != nil {
			t.Fatalf("%s: %v", e, err)
		}
		if first.UnixNano() != second.UnixNano() {
			t.Errorf("%s drifted between calls: %s vs %s", e, first, second)
		}
	}
}

// A NaN coordinate slips past the no-event magnitude check and must surface
// as the internal consistency error, never as a polar condition.
func TestBadCoordinate(t *testing.T) {
	sun := New(math.NaN(), 0)
	date := time.Date(2025, time.November, 2, 0, 0, 0, 0, time.UTC)
	_, err := sun.Sunrise(date, nil)
	if !errors.Is(err, ErrBadJulianDay) {
		t.Errorf("err = %v, want ErrBadJulianDay", err)
	}
	if errors.Is(err, ErrNoEvent) {
		t.Error("NaN coordinate reported as a missing event")
	}
}

// Cross-check rise and set against an independent implementation of the
// same NOAA approximation.
func TestAgainstGoSunrise(t *testing.T) {
	table := []struct {
		name      string
		lat, long float64
	}{
		{"SantaCruz", 36.9741, -122.0308},
		{"London", 51.5, -0.13},
		{"Sydney", -33.8688, 151.2093},
		{"Reykjavik", 64.1466, -21.9426},
	}
	dates := []time.Time{
		time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.April, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.October, 31, 0, 0, 0, 0, time.UTC),
	}

	for _, tc := range table {
		t.Run(tc.name, func(t *testing.T) {
			sun := New(tc.lat, tc.long)
			for _, date := range dates {
				wantRise, wantSet := sunrisesunset.SunriseSunset(
					tc.lat, tc.long, date.Year(), date.Month(), date.Day())
				gotRise, err := sun.Sunrise(date, nil)
				if err != nil {
					t.Fatalf("%s Sunrise: %v", date.Format("2006-01-02"), err)
				}
				gotSet, err := sun.Sunset(date, nil)
				if err != nil {
					t.Fatalf("%s Sunset: %v", date.Format("2006-01-02"), err)
				}
				// The reference evaluates the sun's position at a
				// slightly different point in the day, so allow a
				// few minutes of disagreement.
				within(t, "sunrise "+date.Format("2006-01-02"), gotRise, wantRise, 5*time.Minute)
				within(t, "sunset "+date.Format("2006-01-02"), gotSet, wantSet, 5*time.Minute)
			}
		})
	}
}

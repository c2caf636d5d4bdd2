package meta

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/sundash/sundash/pkg/solar"
)

func tp(t time.Time) *time.Time {
	return &t
}

// day builds the event table for a tame mid-latitude day.
func day(date time.Time) solar.Times {
	at := func(h, m int) *time.Time {
		return tp(time.Date(date.Year(), date.Month(), date.Day(), h, m, 0, 0, time.UTC))
	}
	return solar.Times{
		AstronomicalDawn: at(5, 0),
		NauticalDawn:     at(5, 40),
		CivilDawn:        at(6, 20),
		Sunrise:          at(7, 0),
		SolarNoon:        at(12, 30),
		Sunset:           at(18, 0),
		CivilDusk:        at(18, 40),
		NauticalDusk:     at(19, 20),
		AstronomicalDusk: at(20, 0),
	}
}

func TestGoodTimesWindows(t *testing.T) {
	date := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	got := GoodTimes(Conditions{Days: []solar.Times{day(date)}})

	want := []GoodTime{{
		Time:     time.Date(2025, time.March, 10, 6, 20, 0, 0, time.UTC),
		Duration: 40*time.Minute + defaultGoldenSpan,
		Reasons: []string{
			"first light 40 minutes before sunrise",
			"low golden sun after sunrise",
		},
	}, {
		Time:     time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC).Add(-defaultGoldenSpan),
		Duration: defaultGoldenSpan + 40*time.Minute,
		Reasons: []string{
			"low golden sun before sunset",
			"last light 40 minutes after sunset",
		},
	}, {
		Time:     time.Date(2025, time.March, 10, 18, 40, 0, 0, time.UTC),
		Duration: 40 * time.Minute,
		Reasons: []string{
			"blue hour after dusk",
		},
	}}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("GoodTimes mismatch (-want,+got):\n%s", diff)
	}
}

func TestGoodTimesOptions(t *testing.T) {
	date := time.Date(2025, time.March, 10, 0, 0, 0, 0, time.UTC)
	span := 10 * time.Minute
	got := GoodTimesWithOptions(
		Conditions{Days: []solar.Times{day(date)}},
		Options{GoldenSpan: &span, SkipBlueHour: true},
	)

	if len(got) != 2 {
		t.Fatalf("got %d windows, want 2 with blue hour skipped", len(got))
	}
	wantDur := 40*time.Minute + span
	if got[0].Duration != wantDur {
		t.Errorf("morning duration = %s, want %s", got[0].Duration, wantDur)
	}
	wantStart := time.Date(2025, time.March, 10, 18, 0, 0, 0, time.UTC).Add(-span)
	if !got[1].Time.Equal(wantStart) {
		t.Errorf("evening start = %s, want %s", got[1].Time, wantStart)
	}
}

func TestGoodTimesPolarNight(t *testing.T) {
	// All nine events absent: the sun never comes up, so there are no
	// windows to report.
	got := GoodTimes(Conditions{Days: []solar.Times{{}}})
	if len(got) != 0 {
		t.Errorf("got %d windows during polar night, want 0", len(got))
	}
}

package meta

import (
	"fmt"
	"time"

	"github.com/sundash/sundash/pkg/solar"
)

const (
	// defaultGoldenSpan is how long the light stays low and warm on either
	// side of the horizon crossing.
	defaultGoldenSpan = 40 * time.Minute
)

// Conditions is the set of data we can perform meta analysis on.
type Conditions struct {
	Days []solar.Times
}

// Options tunes the analysis for a particular user.
type Options struct {
	// GoldenSpan overrides how far past sunrise (and before sunset) the
	// light is still considered good.
	GoldenSpan *time.Duration
	// SkipBlueHour drops the after-dusk windows from the result.
	SkipBlueHour bool

	// Defaults shown to the user when they have no saved preference.
	DefaultGoldenSpan *time.Duration
}

// GoodTimes analyzes a set of Conditions to find good times for outdoor
// light: the windows around dawn and dusk when the sun sits low, plus the
// blue hour between civil and nautical dusk.
func GoodTimes(c Conditions) []GoodTime {
	return GoodTimesWithOptions(c, Options{})
}

// GoodTimesWithOptions is GoodTimes with user preferences applied.
func GoodTimesWithOptions(c Conditions, opts Options) []GoodTime {
	golden := defaultGoldenSpan
	if opts.GoldenSpan != nil {
		golden = *opts.GoldenSpan
	}

	result := []GoodTime{}
	for _, day := range c.Days {
		// Days the sun never crosses the horizon have no windows at all.
		if day.Sunrise == nil || day.Sunset == nil {
			continue
		}

		if day.CivilDawn != nil {
			firstLight := day.Sunrise.Sub(*day.CivilDawn)
			result = append(result, GoodTime{
				Time:     *day.CivilDawn,
				Duration: firstLight + golden,
				Reasons: []string{
					fmt.Sprintf("first light %.0f minutes before sunrise", firstLight.Minutes()),
					"low golden sun after sunrise",
				},
			})
		}

		if day.CivilDusk != nil {
			lastLight := day.CivilDusk.Sub(*day.Sunset)
			result = append(result, GoodTime{
				Time:     day.Sunset.Add(-golden),
				Duration: golden + lastLight,
				Reasons: []string{
					"low golden sun before sunset",
					fmt.Sprintf("last light %.0f minutes after sunset", lastLight.Minutes()),
				},
			})
		}

		if !opts.SkipBlueHour && day.CivilDusk != nil && day.NauticalDusk != nil {
			result = append(result, GoodTime{
				Time:     *day.CivilDusk,
				Duration: day.NauticalDusk.Sub(*day.CivilDusk),
				Reasons: []string{
					"blue hour after dusk",
				},
			})
		}
	}

	return result
}

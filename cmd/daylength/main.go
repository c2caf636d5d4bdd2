// Command daylength prints a smoothed day length series for a place, one
// sample per week, suitable for piping into a plotter.
package main

import (
	"flag"
	"fmt"
	"time"

	"github.com/sundash/sundash/pkg/solar"
	"github.com/sundash/sundash/pkg/splines"
	"github.com/sundash/sundash/pkg/sunset"
)

func main() {
	lat := flag.Float64("lat", sunset.Paris.Lat, "latitude of the place")
	long := flag.Float64("long", sunset.Paris.Long, "longitude of the place")
	days := flag.Int("days", 365, "number of days to compute")
	flag.Parse()

	sun := solar.New(*lat, *long)
	start := time.Now()

	points := make([]splines.Point, 0, *days)
	for i := 0; i < *days; i++ {
		date := start.AddDate(0, 0, i)
		length := sun.DayLength(date)
		if length == 0 {
			// Polar night or day; the curve just skips it.
			continue
		}
		noon, err := sun.SolarNoon(date, nil)
		if err != nil {
			fmt.Printf("failed to compute solar noon: %v\n", err)
			return
		}
		points = append(points, splines.Point{Time: noon, Value: length.Hours()})
	}

	spl := splines.CurvesBetween(points)
	for _, hours := range splines.Discrete(spl, *days/7) {
		fmt.Printf("%f ", hours)
	}
	fmt.Println()
}

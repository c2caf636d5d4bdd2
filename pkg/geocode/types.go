package geocode

import (
	"fmt"
	"time"

	"github.com/sundash/sundash/pkg/sunset"
)

// Query describes a place name lookup.
type Query struct {
	// Name of the place to search for, e.g. "Paris".
	Name string
	// Count limits the number of matches. Zero means one match.
	Count int
}

// Result is a single place match.
type Result struct {
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Admin1    string  `json:"admin1"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Timezone  string  `json:"timezone"`
}

// searchResult is the data type returned by the API.
type searchResult struct {
	Results []Result `json:"results"`
}

// Place converts a match to a sunset.Place, loading its time zone.
func (r Result) Place() (sunset.Place, error) {
	loc, err := time.LoadLocation(r.Timezone)
	if err != nil {
		return sunset.Place{}, fmt.Errorf("place %q has bad time zone %q: %w", r.Name, r.Timezone, err)
	}
	return sunset.Place{
		Lat:      r.Latitude,
		Long:     r.Longitude,
		Location: loc,
	}, nil
}

func (r Result) String() string {
	name := r.Name
	if r.Admin1 != "" {
		name += ", " + r.Admin1
	}
	if r.Country != "" {
		name += ", " + r.Country
	}
	return fmt.Sprintf("%s (%.4f, %.4f)", name, r.Latitude, r.Longitude)
}

package handlers

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/sundash/sundash/pkg/cache"
	"github.com/sundash/sundash/pkg/geocode"
	"github.com/sundash/sundash/pkg/metrics"
	"github.com/sundash/sundash/pkg/solar"
	"github.com/sundash/sundash/pkg/sunset"
	"github.com/sundash/sundash/pkg/timetricks"

	"github.com/gorilla/mux"
)

const (
	day            = 24 * time.Hour
	forecastLength = 7 * day

	maxForecastDays = 366
)

func Register(r *mux.Router, prefix string, content embed.FS) {
	r.Handle("/", makeServerSideIndex(content))
	r.Handle("/config", makeConfigPlace(prefix, content))
	r.Handle("/api/v1/sun", makeServeSun())
	r.PathPrefix("/static/").Handler(http.StripPrefix(prefix, http.FileServer(http.FS(content))))
}

// resolvePlace reads the place a request asks about: a place name to
// geocode, a bare lat/long pair, or the default when neither is given.
func resolvePlace(r *http.Request) (sunset.Place, string, error) {
	if name := r.FormValue("place"); name != "" {
		results, err := geocode.Lookup(&geocode.Query{Name: name})
		if err != nil {
			return sunset.Place{}, "", fmt.Errorf("failed to geocode %q: %w", name, err)
		}
		place, err := results[0].Place()
		if err != nil {
			return sunset.Place{}, "", err
		}
		return place, results[0].String(), nil
	}

	latString, longString := r.FormValue("lat"), r.FormValue("long")
	if latString != "" && longString != "" {
		lat, err := strconv.ParseFloat(latString, 64)
		if err != nil {
			return sunset.Place{}, "", fmt.Errorf("bad lat %q: %w", latString, err)
		}
		long, err := strconv.ParseFloat(longString, 64)
		if err != nil {
			return sunset.Place{}, "", fmt.Errorf("bad long %q: %w", longString, err)
		}
		loc := time.UTC
		if tz := r.FormValue("tz"); tz != "" {
			loc, err = time.LoadLocation(tz)
			if err != nil {
				return sunset.Place{}, "", fmt.Errorf("bad tz %q: %w", tz, err)
			}
		}
		name := fmt.Sprintf("%.4f, %.4f", lat, long)
		return sunset.Place{Lat: lat, Long: long, Location: loc}, name, nil
	}

	return sunset.Paris, "Paris", nil
}

// fetchSunDays computes event tables for numDays consecutive days.
func fetchSunDays(place sunset.Place, start time.Time, numDays int) []solar.Times {
	sun := solar.New(place.Lat, place.Long)
	days := make([]solar.Times, numDays)
	for i := range days {
		days[i] = sun.Day(start.AddDate(0, 0, i), place.Location)
		if days[i].Sunrise == nil {
			metrics.ObserveNoEvent(solar.Sunrise)
		}
		if days[i].Sunset == nil {
			metrics.ObserveNoEvent(solar.Sunset)
		}
	}
	return days
}

func makeServeSun() http.Handler {
	// cache for slightly less than one day so daily clients don't see stale
	// data
	timeCache := cache.NewTimed(23 * time.Hour)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// cache based on method, URL, and day, which should encapsulate
		// the query
		key := fmt.Sprintf("%s %s %s", r.Method, r.URL, timetricks.UniqueDay(time.Now()))

		// serve cache version from memory if possible
		if cached, ok := timeCache.Get(key); ok {
			w.Header().Add("Content-Type", "text/plain")
			w.WriteHeader(http.StatusOK)
			w.Write(cached)
			return
		}
		log.Println("No cache data")

		place, name, err := resolvePlace(r)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintf(w, "Failed to resolve place: %+v", err)
			log.Printf("Failed to resolve place: %+v", err)
			return
		}

		numDays := int(forecastLength / day)
		if daysString := r.FormValue("days"); daysString != "" {
			parsed, err := strconv.Atoi(daysString)
			if err != nil || parsed < 1 || parsed > maxForecastDays {
				w.WriteHeader(http.StatusBadRequest)
				fmt.Fprintf(w, "Bad day count %q", daysString)
				return
			}
			numDays = parsed
		}

		days := fetchSunDays(place, time.Now().In(place.Location), numDays)

		// duplicate the http response onto a buffer for the cache
		var toCache bytes.Buffer
		mw := io.MultiWriter(w, &toCache)

		// serve result
		outputFormat := r.FormValue("o")
		if outputFormat == "json" {
			w.Header().Add("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			if err := json.NewEncoder(mw).Encode(days); err != nil {
				log.Printf("Failed to encode JSON result: %+v", err)
			}
		} else {
			w.Header().Add("Content-Type", "text/plain")
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(mw, "%s\n", name)
			writeDaysText(mw, days)
		}

		// save the result asynchonously as the cache may block
		go func() {
			timeCache.Set(key, toCache.Bytes())
		}()
	})
}

func writeDaysText(w io.Writer, days []solar.Times) {
	clock := func(t *time.Time) string {
		if t == nil {
			return "none"
		}
		return t.Format("15:04")
	}
	for _, d := range days {
		if d.SolarNoon == nil {
			continue
		}
		length := time.Duration(0)
		if d.Sunrise != nil && d.Sunset != nil {
			length = d.Sunset.Sub(*d.Sunrise)
		}
		fmt.Fprintf(w, "%s: sunrise %s, noon %s, sunset %s, daylight %s\n",
			d.SolarNoon.Format("2006-01-02"),
			clock(d.Sunrise),
			clock(d.SolarNoon),
			clock(d.Sunset),
			length.Round(time.Minute))
	}
}

package geocode

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

const (
	SEARCH_URL = "https://geocoding-api.open-meteo.com/v1/search"
)

// ErrNotFound reports that no place matched the query.
var ErrNotFound = errors.New("no matching place")

// Lookup resolves a place name to its best matches.
func Lookup(q *Query) ([]Result, error) {
	var result searchResult

	resp, err := http.Get(q.url().String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocode lookup %q: status %s", q.Name, resp.Status)
	}

	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, err
	}

	if len(result.Results) == 0 {
		return nil, fmt.Errorf("geocode lookup %q: %w", q.Name, ErrNotFound)
	}
	return result.Results, nil
}

func (q *Query) url() *url.URL {
	addr, err := url.Parse(SEARCH_URL)
	if err != nil {
		// The base URL is a compile time constant.
		panic(err)
	}

	count := q.Count
	if count == 0 {
		count = 1
	}

	vals := make(url.Values)
	vals.Add("name", q.Name)
	vals.Add("count", strconv.Itoa(count))
	vals.Add("language", "en")
	vals.Add("format", "json")
	addr.RawQuery = vals.Encode()
	return addr
}

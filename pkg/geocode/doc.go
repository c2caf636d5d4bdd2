// Package geocode implements queries to the Open-Meteo geocoding API to
// resolve a place name into coordinates and an IANA time zone (see Query).
// A successful lookup returns the best matching places ordered by relevance.
package geocode

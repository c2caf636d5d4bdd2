package metrics

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:      "request_latency",
			Subsystem: "sundash",
			Help:      "HTTP request latencies in seconds.",
			Buckets:   []float64{0.001, 0.01, 0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 4.0, 8.0, 16.0, 32.0},
		},
		[]string{"verb", "path", "code"},
	)
	userRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "user_requests",
			Subsystem: "sundash",
			Help:      "Requests partitioned by whether the user has saved preferences.",
		},
		[]string{"known"},
	)
	noEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:      "no_events",
			Subsystem: "sundash",
			Help:      "Sun event queries that resolved to no event (polar night or day).",
		},
		[]string{"event"},
	)
)

func init() {
	prometheus.MustRegister(
		requestLatency,
		userRequests,
		noEvents,
	)
}

func ObserveRequestLatency(verb, path, code string, latency float64) {
	requestLatency.With(prometheus.Labels{
		"code": code,
		"verb": verb,
		"path": path,
	}).Observe(latency)
}

// ObserveUserRequest counts a request from a session, partitioned by whether
// the session maps to a saved user.
func ObserveUserRequest(userID interface{}) {
	known := "false"
	if userID != nil {
		known = "true"
	}
	userRequests.With(prometheus.Labels{"known": known}).Inc()
}

// ObserveNoEvent counts a query that found no occurrence of the named event.
func ObserveNoEvent(event fmt.Stringer) {
	noEvents.With(prometheus.Labels{"event": event.String()}).Inc()
}

func LatencyHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t := time.Now()
		verb := r.Method
		path := ""
		if r.URL != nil {
			path = r.URL.Path
		}

		// Defer metric observing. Any panics in next are reported as 500 errors
		// and then re-thrown.
		defer func() {
			if err := recover(); err != nil {
				ObserveRequestLatency(verb, path, "500", time.Now().Sub(t).Seconds())
				panic(err)
			}
			code := getStatusCode(w)
			ObserveRequestLatency(verb, path, code, time.Now().Sub(t).Seconds())
		}()

		next.ServeHTTP(w, r)
	})
}

func getStatusCode(w http.ResponseWriter) string {
	statusFields, ok := w.Header()["Status-Code"]
	if !ok {
		// Unset, will be set to 200 by stdlib.
		return "200"
	}
	if len(statusFields) < 1 {
		// Not normal behavior.
		return "0"
	}
	return statusFields[0]
}

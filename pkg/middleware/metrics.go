package middleware

import (
	"net/http"
	"time"

	"github.com/JaimeStill/djedi/pkg/metrics"
)

// Instrument returns middleware that records request counts and latency under route.
func Instrument(route string) func(http.Handler) http.Handler {
	return InstrumentBy(func(*http.Request) string { return route })
}

// InstrumentBy is Instrument with the route label computed per request.
// Requests for which route returns "" are labelled "unmatched".
func InstrumentBy(route func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := newStatusRecorder(w)
			label := route(r)
			if label == "" {
				label = "unmatched"
			}

			next.ServeHTTP(rec, r)

			metrics.RecordRequest(label, r.Method, rec.status, time.Since(start))
		})
	}
}

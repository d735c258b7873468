package middleware

import (
	"net/http"
	"regexp"
	"time"

	"carrental/pkg/metrics"
)

var objectIDSegment = regexp.MustCompile(`/[0-9a-fA-F]{24}(/|$)`)

// Metrics records request counts and latency. Object ids in the path are
// collapsed so routes keep a bounded label set.
func Metrics() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)
			metrics.ObserveHTTP(r.Method, routeLabel(r.URL.Path), wrapped.statusCode, time.Since(start))
		})
	}
}

func routeLabel(path string) string {
	for objectIDSegment.MatchString(path) {
		path = objectIDSegment.ReplaceAllString(path, "/:id$1")
	}
	return path
}

package httpserver

import (
	"context"
	"net/http"
)

// HealthCheckHandler runs the given checks and reports 200 when all pass,
// 503 otherwise. Checks typically come from pg.Healthcheck and
// redis.Healthcheck.
func HealthCheckHandler(checks ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}

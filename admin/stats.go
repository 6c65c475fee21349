package admin

import (
	"errors"
	"log"
	"net/http"
	"time"

	"leadfilter/config"
	aphttp "leadfilter/http"
	"leadfilter/stats"

	"github.com/gorilla/handlers"
)

// RouteStats routes the endpoint for sampling pipeline counters.
func RouteStats(router aphttp.Router, sampler stats.Sampler) {
	router.Handle("/stats",
		handlers.MethodHandler{
			"GET": aphttp.ErrorCatchingHandler(SampleStatsHandler(sampler)),
		})
}

// SampleStatsHandler returns a handler that samples logged measurements.
// from and to are RFC 3339 timestamps; to defaults to now and from to an
// hour before. Repeat the measurement parameter to restrict names.
func SampleStatsHandler(sampler stats.Sampler) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		r.ParseForm()

		to := time.Now().UTC()
		from := to.Add(-time.Hour)
		var err error
		if raw := r.Form.Get("to"); raw != "" {
			if to, err = time.Parse(time.RFC3339, raw); err != nil {
				return aphttp.NewError(errors.New("invalid 'to' timestamp"),
					http.StatusBadRequest)
			}
		}
		if raw := r.Form.Get("from"); raw != "" {
			if from, err = time.Parse(time.RFC3339, raw); err != nil {
				return aphttp.NewError(errors.New("invalid 'from' timestamp"),
					http.StatusBadRequest)
			}
		}

		result, err := sampler.Sample(from, to, r.Form["measurement"]...)
		if err != nil {
			log.Printf("%s Error sampling stats: %v", config.System, err)
			return aphttp.DefaultServerError()
		}

		wrapped := struct {
			Stats stats.Result `json:"stats"`
		}{result}
		return serialize(wrapped, w)
	}
}

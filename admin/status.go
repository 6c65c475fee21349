package admin

import (
	"log"
	"net/http"

	"leadfilter/config"
	aphttp "leadfilter/http"
	"leadfilter/model"
	apsql "leadfilter/sql"

	"github.com/gorilla/handlers"
)

// RouteStatus routes the process status endpoint.
func RouteStatus(router aphttp.Router, db *apsql.DB, configuration config.Configuration) {
	router.Handle("/status",
		handlers.MethodHandler{
			"GET": aphttp.ErrorCatchingHandler(StatusHandler(db, configuration)),
		})
}

// StatusHandler returns a handler reporting the version and aggregate
// counts of what the process is managing.
func StatusHandler(db *apsql.DB, configuration config.Configuration) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		status := struct {
			Version         string `json:"version"`
			Guilds          int64  `json:"guilds"`
			WatchedChannels int64  `json:"watched_channels"`
			ChannelLinks    int64  `json:"channel_links"`
			Leads           int64  `json:"leads"`
			RelayEnabled    bool   `json:"relay_enabled"`
		}{
			Version:      config.SystemVersion,
			RelayEnabled: configuration.Relay.Enabled,
		}

		counts := []struct {
			dest  *int64
			count func(*apsql.DB) (int64, error)
		}{
			{&status.Guilds, model.CountGuildSettings},
			{&status.WatchedChannels, model.CountWatchedChannels},
			{&status.ChannelLinks, model.CountChannelLinks},
			{&status.Leads, model.CountLeads},
		}
		for _, c := range counts {
			value, err := c.count(db)
			if err != nil {
				log.Printf("%s Error counting for status: %v", config.System, err)
				return aphttp.DefaultServerError()
			}
			*c.dest = value
		}

		wrapped := struct {
			Status interface{} `json:"status"`
		}{status}
		return serialize(wrapped, w)
	}
}

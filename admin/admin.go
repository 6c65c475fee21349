// Package admin serves the HTTP API operators use to inspect and change
// guild configuration, plus the log streaming socket.
package admin

import (
	"leadfilter/config"
	aphttp "leadfilter/http"
	apsql "leadfilter/sql"
	"leadfilter/stats"

	"github.com/gorilla/mux"
)

// Setup adds the admin routes to the router.
func Setup(router *mux.Router, db *apsql.DB, configuration config.Configuration) {
	conf := configuration.Admin
	var admin aphttp.Router
	admin = aphttp.NewAccessLoggingRouter(config.AdminPrefix, conf.RequestIDHeader,
		subrouter(router, conf))

	if conf.CORSEnabled {
		admin = aphttp.NewCORSAwareRouter(conf.CORSOrigin, admin)
	}

	if !conf.DevMode {
		admin = aphttp.NewHTTPBasicRouter(conf.Username, conf.Password,
			conf.Realm, admin)
	}

	RouteGuildSettings(admin, db, configuration)
	RouteWatchedChannels(admin, db)
	RouteChannelLinks(admin, db)
	RouteFilterScripts(admin, db)
	RouteLeads(admin, db)
	RouteStatus(admin, db, configuration)
	RouteStats(admin, &stats.SQL{Node: "leadfilter", DB: db})
	RouteLogging("/logs/socket", admin)
}

func subrouter(router *mux.Router, conf config.Admin) *mux.Router {
	adminRoute := router.NewRoute()
	if conf.PathPrefix != "" {
		adminRoute = adminRoute.PathPrefix(conf.PathPrefix)
	}
	return adminRoute.Subrouter()
}

package admin

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"leadfilter/config"
	aphttp "leadfilter/http"
	"leadfilter/model"
	apsql "leadfilter/sql"

	"github.com/gorilla/handlers"
)

const defaultLeadLimit = 20

// RouteLeads routes the endpoints for the approved-lead audit log.
func RouteLeads(router aphttp.Router, db *apsql.DB) {
	router.Handle("/guilds/{guildID}/leads",
		handlers.MethodHandler{
			"GET": aphttp.ErrorCatchingHandler(ListLeadsHandler(db)),
		})
}

// ListLeadsHandler returns a handler that lists the guild's newest leads.
// The limit query parameter caps the page size.
func ListLeadsHandler(db *apsql.DB) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		limit := int64(defaultLeadLimit)
		if raw := r.FormValue("limit"); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed < 1 {
				return aphttp.NewError(errors.New("limit must be a positive integer"),
					http.StatusBadRequest)
			}
			limit = parsed
		}

		guildID := guildIDFromPath(r)
		leads, err := model.RecentLeadsForGuildID(db, guildID, limit)
		if err != nil {
			log.Printf("%s Error listing leads: %v", config.System, err)
			return aphttp.DefaultServerError()
		}
		count, err := model.CountLeadsForGuildID(db, guildID)
		if err != nil {
			log.Printf("%s Error counting leads: %v", config.System, err)
			return aphttp.DefaultServerError()
		}

		wrapped := struct {
			Leads []*model.Lead `json:"leads"`
			Count int64         `json:"count"`
		}{leads, count}
		return serialize(wrapped, w)
	}
}

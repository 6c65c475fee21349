package admin

import (
	"database/sql"
	"log"
	"net/http"
	"strings"

	"leadfilter/config"
	aphttp "leadfilter/http"
	"leadfilter/model"
	apsql "leadfilter/sql"

	"github.com/gorilla/handlers"
)

// RouteFilterScripts routes the endpoints for per-guild filter hooks.
func RouteFilterScripts(router aphttp.Router, db *apsql.DB) {
	router.Handle("/guilds/{guildID}/script",
		handlers.HTTPMethodOverrideHandler(handlers.MethodHandler{
			"GET":    aphttp.ErrorCatchingHandler(ShowFilterScriptHandler(db)),
			"PUT":    aphttp.ErrorCatchingHandler(UpsertFilterScriptHandler(db)),
			"DELETE": aphttp.ErrorCatchingHandler(DeleteFilterScriptHandler(db)),
		}))
}

// ShowFilterScriptHandler returns a handler that shows the guild's script.
func ShowFilterScriptHandler(db *apsql.DB) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		script, err := model.FindFilterScript(db, guildIDFromPath(r))
		if err == sql.ErrNoRows {
			return aphttp.NewError(err, http.StatusNotFound)
		}
		if err != nil {
			log.Printf("%s Error finding filter script: %v", config.System, err)
			return aphttp.DefaultServerError()
		}

		return serialize(wrappedFilterScript{script}, w)
	}
}

// UpsertFilterScriptHandler returns a handler that writes the guild's
// script.
func UpsertFilterScriptHandler(db *apsql.DB) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		script, httpErr := readFilterScript(r)
		if httpErr != nil {
			return httpErr
		}
		script.GuildID = guildIDFromPath(r)

		validationErrors := script.Validate()
		if !validationErrors.Empty() {
			return serialize(wrappedErrors{validationErrors}, w)
		}

		err := performInTransaction(db, script.Upsert)
		if err != nil {
			validationErrors = script.ValidateFromDatabaseError(err)
			if !validationErrors.Empty() {
				return serialize(wrappedErrors{validationErrors}, w)
			}
			log.Printf("%s Error upserting filter script: %v", config.System, err)
			return aphttp.DefaultServerError()
		}

		return serialize(wrappedFilterScript{script}, w)
	}
}

// DeleteFilterScriptHandler returns a handler that removes the guild's
// script.
func DeleteFilterScriptHandler(db *apsql.DB) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		err := performInTransaction(db, func(tx *apsql.Tx) error {
			return model.DeleteFilterScript(tx, guildIDFromPath(r))
		})
		if err != nil {
			if strings.Contains(err.Error(), "no rows") {
				return aphttp.NewError(err, http.StatusNotFound)
			}
			log.Printf("%s Error deleting filter script: %v", config.System, err)
			return aphttp.DefaultServerError()
		}

		w.WriteHeader(http.StatusOK)
		return nil
	}
}

type wrappedFilterScript struct {
	FilterScript *model.FilterScript `json:"filter_script"`
}

func readFilterScript(r *http.Request) (*model.FilterScript, aphttp.Error) {
	var wrapped wrappedFilterScript
	if err := deserialize(&wrapped, r); err != nil {
		return nil, err
	}
	if wrapped.FilterScript == nil {
		wrapped.FilterScript = &model.FilterScript{}
	}
	return wrapped.FilterScript, nil
}

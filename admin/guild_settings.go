package admin

import (
	"database/sql"
	"log"
	"net/http"

	"leadfilter/config"
	aphttp "leadfilter/http"
	"leadfilter/model"
	apsql "leadfilter/sql"

	"github.com/gorilla/handlers"
)

// RouteGuildSettings routes the endpoints for per-guild filter settings.
func RouteGuildSettings(router aphttp.Router, db *apsql.DB,
	configuration config.Configuration) {
	router.Handle("/guilds",
		handlers.MethodHandler{
			"GET": aphttp.ErrorCatchingHandler(ListGuildSettingsHandler(db)),
		})
	router.Handle("/guilds/{guildID}/settings",
		handlers.HTTPMethodOverrideHandler(handlers.MethodHandler{
			"GET":    aphttp.ErrorCatchingHandler(ShowGuildSettingsHandler(db, configuration)),
			"PUT":    aphttp.ErrorCatchingHandler(UpsertGuildSettingsHandler(db)),
			"DELETE": aphttp.ErrorCatchingHandler(DeleteGuildSettingsHandler(db)),
		}))
}

// ListGuildSettingsHandler returns a handler that lists every guild's
// settings.
func ListGuildSettingsHandler(db *apsql.DB) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		settings, err := model.AllGuildSettings(db)
		if err != nil {
			log.Printf("%s Error listing guild settings: %v", config.System, err)
			return aphttp.DefaultServerError()
		}

		return serializeGuildSettings(settings, w)
	}
}

// ShowGuildSettingsHandler returns a handler that shows the guild's
// settings, falling back to the configured defaults.
func ShowGuildSettingsHandler(db *apsql.DB,
	configuration config.Configuration) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		settings, err := model.FindOrDefaultGuildSettings(db,
			configuration.Discord, guildIDFromPath(r))
		if err != nil {
			log.Printf("%s Error finding guild settings: %v", config.System, err)
			return aphttp.DefaultServerError()
		}

		return serialize(wrappedGuildSettings{settings}, w)
	}
}

// UpsertGuildSettingsHandler returns a handler that writes the guild's
// settings.
func UpsertGuildSettingsHandler(db *apsql.DB) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		settings, httpErr := readGuildSettings(r)
		if httpErr != nil {
			return httpErr
		}
		settings.GuildID = guildIDFromPath(r)

		validationErrors := settings.Validate()
		if !validationErrors.Empty() {
			return serialize(wrappedErrors{validationErrors}, w)
		}

		err := performInTransaction(db, settings.Upsert)
		if err != nil {
			validationErrors = settings.ValidateFromDatabaseError(err)
			if !validationErrors.Empty() {
				return serialize(wrappedErrors{validationErrors}, w)
			}
			log.Printf("%s Error upserting guild settings: %v", config.System, err)
			return aphttp.DefaultServerError()
		}

		return serialize(wrappedGuildSettings{settings}, w)
	}
}

// DeleteGuildSettingsHandler returns a handler that resets the guild to
// the configured defaults.
func DeleteGuildSettingsHandler(db *apsql.DB) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		err := performInTransaction(db, func(tx *apsql.Tx) error {
			return model.DeleteGuildSettings(tx, guildIDFromPath(r))
		})
		if err == sql.ErrNoRows {
			return aphttp.NewError(err, http.StatusNotFound)
		}
		if err != nil {
			log.Printf("%s Error deleting guild settings: %v", config.System, err)
			return aphttp.DefaultServerError()
		}

		w.WriteHeader(http.StatusOK)
		return nil
	}
}

type wrappedGuildSettings struct {
	GuildSettings *model.GuildSettings `json:"guild_settings"`
}

func readGuildSettings(r *http.Request) (*model.GuildSettings, aphttp.Error) {
	var wrapped wrappedGuildSettings
	if err := deserialize(&wrapped, r); err != nil {
		return nil, err
	}
	if wrapped.GuildSettings == nil {
		wrapped.GuildSettings = &model.GuildSettings{}
	}
	return wrapped.GuildSettings, nil
}

func serializeGuildSettings(settings []*model.GuildSettings,
	w http.ResponseWriter) aphttp.Error {
	wrapped := struct {
		GuildSettings []*model.GuildSettings `json:"guild_settings"`
	}{settings}
	return serialize(wrapped, w)
}

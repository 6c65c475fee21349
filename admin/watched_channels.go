package admin

import (
	"log"
	"net/http"
	"strings"

	"leadfilter/config"
	aphttp "leadfilter/http"
	"leadfilter/model"
	apsql "leadfilter/sql"

	"github.com/gorilla/handlers"
)

// RouteWatchedChannels routes the endpoints for the guild watch lists.
func RouteWatchedChannels(router aphttp.Router, db *apsql.DB) {
	router.Handle("/guilds/{guildID}/watched_channels",
		handlers.MethodHandler{
			"GET":  aphttp.ErrorCatchingHandler(ListWatchedChannelsHandler(db)),
			"POST": aphttp.ErrorCatchingHandler(CreateWatchedChannelHandler(db)),
		})
	router.Handle("/guilds/{guildID}/watched_channels/{channelID}",
		handlers.HTTPMethodOverrideHandler(handlers.MethodHandler{
			"DELETE": aphttp.ErrorCatchingHandler(DeleteWatchedChannelHandler(db)),
		}))
}

// ListWatchedChannelsHandler returns a handler that lists the guild's
// watched channels.
func ListWatchedChannelsHandler(db *apsql.DB) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		channels, err := model.AllWatchedChannelsForGuildID(db, guildIDFromPath(r))
		if err != nil {
			log.Printf("%s Error listing watched channels: %v", config.System, err)
			return aphttp.DefaultServerError()
		}

		return serializeWatchedChannels(channels, w)
	}
}

// CreateWatchedChannelHandler returns a handler that adds a channel to the
// guild's watch list.
func CreateWatchedChannelHandler(db *apsql.DB) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		channel, httpErr := readWatchedChannel(r)
		if httpErr != nil {
			return httpErr
		}
		channel.GuildID = guildIDFromPath(r)

		validationErrors := channel.Validate()
		if !validationErrors.Empty() {
			return serialize(wrappedErrors{validationErrors}, w)
		}

		err := performInTransaction(db, channel.Insert)
		if err != nil {
			validationErrors = channel.ValidateFromDatabaseError(err)
			if !validationErrors.Empty() {
				return serialize(wrappedErrors{validationErrors}, w)
			}
			log.Printf("%s Error inserting watched channel: %v", config.System, err)
			return aphttp.DefaultServerError()
		}

		return serialize(wrappedWatchedChannel{channel}, w)
	}
}

// DeleteWatchedChannelHandler returns a handler that removes a channel
// from the guild's watch list.
func DeleteWatchedChannelHandler(db *apsql.DB) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		err := performInTransaction(db, func(tx *apsql.Tx) error {
			return model.DeleteWatchedChannel(tx, guildIDFromPath(r),
				channelIDFromPath(r))
		})
		if err != nil {
			if strings.Contains(err.Error(), "no rows") {
				return aphttp.NewError(err, http.StatusNotFound)
			}
			log.Printf("%s Error deleting watched channel: %v", config.System, err)
			return aphttp.DefaultServerError()
		}

		w.WriteHeader(http.StatusOK)
		return nil
	}
}

type wrappedWatchedChannel struct {
	WatchedChannel *model.WatchedChannel `json:"watched_channel"`
}

func readWatchedChannel(r *http.Request) (*model.WatchedChannel, aphttp.Error) {
	var wrapped wrappedWatchedChannel
	if err := deserialize(&wrapped, r); err != nil {
		return nil, err
	}
	if wrapped.WatchedChannel == nil {
		wrapped.WatchedChannel = &model.WatchedChannel{}
	}
	return wrapped.WatchedChannel, nil
}

func serializeWatchedChannels(channels []*model.WatchedChannel,
	w http.ResponseWriter) aphttp.Error {
	wrapped := struct {
		WatchedChannels []*model.WatchedChannel `json:"watched_channels"`
	}{channels}
	return serialize(wrapped, w)
}

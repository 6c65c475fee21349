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

// RouteChannelLinks routes the endpoints for relay channel links.
func RouteChannelLinks(router aphttp.Router, db *apsql.DB) {
	router.Handle("/guilds/{guildID}/links",
		handlers.MethodHandler{
			"GET":  aphttp.ErrorCatchingHandler(ListChannelLinksHandler(db)),
			"POST": aphttp.ErrorCatchingHandler(UpsertChannelLinkHandler(db)),
		})
	router.Handle("/guilds/{guildID}/links/{channelID}",
		handlers.HTTPMethodOverrideHandler(handlers.MethodHandler{
			"DELETE": aphttp.ErrorCatchingHandler(DeleteChannelLinkHandler(db)),
		}))
}

// ListChannelLinksHandler returns a handler that lists the guild's links.
func ListChannelLinksHandler(db *apsql.DB) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		links, err := model.AllChannelLinksForGuildID(db, guildIDFromPath(r))
		if err != nil {
			log.Printf("%s Error listing channel links: %v", config.System, err)
			return aphttp.DefaultServerError()
		}

		return serializeChannelLinks(links, w)
	}
}

// UpsertChannelLinkHandler returns a handler that links a source channel
// to a destination, replacing any existing destination.
func UpsertChannelLinkHandler(db *apsql.DB) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		link, httpErr := readChannelLink(r)
		if httpErr != nil {
			return httpErr
		}
		link.GuildID = guildIDFromPath(r)

		validationErrors := link.Validate()
		if !validationErrors.Empty() {
			return serialize(wrappedErrors{validationErrors}, w)
		}

		err := performInTransaction(db, func(tx *apsql.Tx) error {
			existing, err := model.FindChannelLinkForSource(db, link.SourceChannelID)
			if err == sql.ErrNoRows {
				return link.Insert(tx)
			}
			if err != nil {
				return err
			}
			existing.DestinationChannelID = link.DestinationChannelID
			*link = *existing
			return link.Update(tx)
		})
		if err != nil {
			log.Printf("%s Error upserting channel link: %v", config.System, err)
			return aphttp.DefaultServerError()
		}

		return serialize(wrappedChannelLink{link}, w)
	}
}

// DeleteChannelLinkHandler returns a handler that removes the link whose
// source channel is in the path.
func DeleteChannelLinkHandler(db *apsql.DB) aphttp.ErrorReturningHandler {
	return func(w http.ResponseWriter, r *http.Request) aphttp.Error {
		err := performInTransaction(db, func(tx *apsql.Tx) error {
			return model.DeleteChannelLinkForSource(tx, guildIDFromPath(r),
				channelIDFromPath(r))
		})
		if err != nil {
			if strings.Contains(err.Error(), "no rows") {
				return aphttp.NewError(err, http.StatusNotFound)
			}
			log.Printf("%s Error deleting channel link: %v", config.System, err)
			return aphttp.DefaultServerError()
		}

		w.WriteHeader(http.StatusOK)
		return nil
	}
}

type wrappedChannelLink struct {
	ChannelLink *model.ChannelLink `json:"channel_link"`
}

func readChannelLink(r *http.Request) (*model.ChannelLink, aphttp.Error) {
	var wrapped wrappedChannelLink
	if err := deserialize(&wrapped, r); err != nil {
		return nil, err
	}
	if wrapped.ChannelLink == nil {
		wrapped.ChannelLink = &model.ChannelLink{}
	}
	return wrapped.ChannelLink, nil
}

func serializeChannelLinks(links []*model.ChannelLink,
	w http.ResponseWriter) aphttp.Error {
	wrapped := struct {
		ChannelLinks []*model.ChannelLink `json:"channel_links"`
	}{links}
	return serialize(wrapped, w)
}

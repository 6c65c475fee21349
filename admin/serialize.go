package admin

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"leadfilter/config"
	aperrors "leadfilter/errors"
	aphttp "leadfilter/http"

	"github.com/gorilla/mux"
)

func guildIDFromPath(r *http.Request) string {
	return mux.Vars(r)["guildID"]
}

func channelIDFromPath(r *http.Request) string {
	return mux.Vars(r)["channelID"]
}

func deserialize(dest interface{}, r *http.Request) aphttp.Error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return aphttp.NewError(err, http.StatusInternalServerError)
	}

	err = json.Unmarshal(body, dest)
	if err != nil {
		return aphttp.NewError(err, http.StatusBadRequest)
	}

	return nil
}

func serialize(data interface{}, w http.ResponseWriter) aphttp.Error {
	dataJSON, err := json.MarshalIndent(data, "", "    ")
	if err != nil {
		log.Printf("%s Error serializing data: %v, %v", config.System, err, data)
		return aphttp.DefaultServerError()
	}

	fmt.Fprintf(w, "%s\n", string(dataJSON))
	return nil
}

type wrappedErrors struct {
	Errors aperrors.Errors `json:"errors"`
}

package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/dharsanguruparan/Pokedex/internal/catalog"
	"github.com/dharsanguruparan/Pokedex/internal/model"
)

// envelope is the body shape of every JSON response.
type envelope struct {
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Data: data})
}

func writeText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// writeError maps a catalog error to its status. List-shaped endpoints pass
// emptyList so clients that expect an array still receive one.
func writeError(w http.ResponseWriter, log *slog.Logger, err error, emptyList bool) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		log.Error("request failed", slog.String("error", err.Error()))
		writeJSON(w, status, envelope{Message: "internal error"})
		return
	}
	var ce *catalog.Error
	msg := err.Error()
	if errors.As(err, &ce) {
		msg = ce.Message
	}
	if emptyList {
		writeJSON(w, status, struct {
			Message string                 `json:"message"`
			Data    []model.DisplayPokemon `json:"data"`
		}{Message: msg, Data: []model.DisplayPokemon{}})
		return
	}
	writeJSON(w, status, envelope{Message: msg})
}

func statusFor(err error) int {
	switch catalog.KindOf(err) {
	case catalog.KindNotFound:
		return http.StatusNotFound
	case catalog.KindInvalidArgument, catalog.KindMissingFields, catalog.KindInvalidTypeCount,
		catalog.KindInvalidTypeValue, catalog.KindDuplicate:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads exactly one JSON value from body.
func decodeJSON(body io.Reader, v any) error {
	dec := json.NewDecoder(body)
	if err := dec.Decode(v); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return errors.New("body must contain a single JSON object")
	}
	return nil
}

// Package handler implements the JSON API over the ledger engine and the
// state snapshot.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vinnybad/choremander/internal/ledger"
	"github.com/vinnybad/choremander/internal/metrics"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	var notFound *ledger.NotFoundError
	var limit *ledger.LimitExceededError
	var insufficient *ledger.InsufficientPointsError

	switch {
	case errors.As(err, &notFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.As(err, &limit), errors.As(err, &insufficient):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
	}
}

// recordCommand tallies a command outcome under the metric categories the
// error mapping uses.
func recordCommand(command string, err error) {
	status := "ok"
	if err != nil {
		var notFound *ledger.NotFoundError
		var limit *ledger.LimitExceededError
		var insufficient *ledger.InsufficientPointsError
		switch {
		case errors.As(err, &notFound):
			status = "not_found"
		case errors.As(err, &limit), errors.As(err, &insufficient):
			status = "conflict"
		default:
			status = "error"
		}
	}
	metrics.RecordCommand(command, status)
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
		return false
	}
	return true
}

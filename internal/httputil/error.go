package httputil

import (
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	apperrors "github.com/AdamBeresnev/mariolympics/internal/errors"
)

func InternalServerError(w http.ResponseWriter, msg string, err error) {
	slog.Error(msg, "error", err)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

func BadRequest(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("bad request", "message", msg, "error", err)
	} else {
		slog.Warn("bad request", "message", msg)
	}
	http.Error(w, msg, http.StatusBadRequest)
}

func NotFound(w http.ResponseWriter, msg string, err error) {
	if err != nil {
		slog.Warn("not found", "message", msg, "error", err)
	} else {
		slog.Warn("not found", "message", msg)
	}
	http.Error(w, msg, http.StatusNotFound)
}

func Conflict(w http.ResponseWriter, msg string, err error) {
	slog.Warn("conflict", "message", msg, "error", err)
	http.Error(w, msg, http.StatusConflict)
}

// StatusOf maps an error to the HTTP status it should be reported with.
func StatusOf(err error) int {
	if errors.Is(err, sql.ErrNoRows) {
		return http.StatusNotFound
	}
	kind, ok := apperrors.KindOf(err)
	if !ok {
		return http.StatusInternalServerError
	}
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindNotReady:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// Error writes err with the status StatusOf picks. Domain errors keep their
// message, anything else is reported as msg.
func Error(w http.ResponseWriter, msg string, err error) {
	switch StatusOf(err) {
	case http.StatusNotFound:
		NotFound(w, msg, err)
	case http.StatusBadRequest:
		BadRequest(w, err.Error(), err)
	case http.StatusConflict:
		Conflict(w, err.Error(), err)
	default:
		InternalServerError(w, msg, err)
	}
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

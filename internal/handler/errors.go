package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/tripledger/api/internal/domain"
	"github.com/tripledger/api/internal/scanning"
)

// ErrorResponse is the JSON body for every non-2xx answer.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries a stable machine-readable code and a human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON serializes v with the given status. Encoding failures are only
// loggable at this point — the status line is already on the wire.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// writeError maps a service error onto an HTTP status and JSON body using
// the domain sentinel errors. Anything unrecognized becomes a 500 with a
// generic message — internals never leak to clients.
func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errBody("not_found", unwrapMessage(err)))
	case errors.Is(err, domain.ErrValidation):
		writeJSON(w, http.StatusUnprocessableEntity, errBody("validation_error", unwrapMessage(err)))
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, errBody("forbidden", unwrapMessage(err)))
	case errors.Is(err, domain.ErrTripClosed):
		writeJSON(w, http.StatusConflict, errBody("trip_closed", "trip is closed"))
	case errors.Is(err, scanning.ErrUnsupportedType):
		writeJSON(w, http.StatusUnsupportedMediaType, errBody("unsupported_media_type", "receipt must be a PNG or JPEG image"))
	default:
		slog.Error("internal error", "error", err)
		writeJSON(w, http.StatusInternalServerError, errBody("internal", "internal server error"))
	}
}

// writeBadRequest rejects a request before it reaches the service layer
// (malformed body, bad UUID, missing header).
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errBody("bad_request", message))
}

func errBody(code, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorDetail{Code: code, Message: message}}
}

// unwrapMessage extracts the human-readable tail from a wrapped sentinel
// error, e.g. "service.TripService.Create: validation error: name is
// required" → "name is required".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, marker := range []string{"validation error: ", "forbidden: ", "not found: "} {
		if i := strings.LastIndex(msg, marker); i != -1 {
			return msg[i+len(marker):]
		}
	}
	// Drop "layer.Type.Op:" prefixes when no sentinel message follows.
	if i := strings.LastIndex(msg, ": "); i != -1 {
		return msg[i+2:]
	}
	return msg
}

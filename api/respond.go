package api

import (
	"encoding/json"
	"net/http"

	"log/slog"
)

// debug controls whether 500 responses carry the underlying error detail.
// Production deployments keep it off.
var debug bool

// SetDebug toggles diagnostic detail in server error responses.
func SetDebug(d bool) {
	debug = d
}

type errorResponse struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, v any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response", slog.Any("err", err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, errorResponse{Message: message}, status)
}

// writeServerError logs the cause and answers with a generic 500. The detail
// is echoed to the client only in debug mode.
func writeServerError(w http.ResponseWriter, message string, err error) {
	logger.Error(message, slog.Any("err", err))

	resp := errorResponse{Message: message}
	if debug && err != nil {
		resp.Error = err.Error()
	}
	writeJSON(w, resp, http.StatusInternalServerError)
}

// Package service implements the HTTP handlers for LandOBooks.
//
// Handlers speak form-encoded requests in and JSON out. The JSON
// envelope carries a human-readable notice plus a level matching the
// flash categories the UI renders (success, info, warning, danger).
package service

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// notice is the transient user-visible message attached to responses.
type notice struct {
	Notice string `json:"notice"`
	Level  string `json:"level"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func writeNotice(w http.ResponseWriter, status int, level, message string) {
	writeJSON(w, status, notice{Notice: message, Level: level})
}

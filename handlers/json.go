package handlers

import (
	"encoding/json"
	"net/http"
)

// writeJSON writes payload with the given status. Encoding errors at this
// point are unrecoverable mid-response and are ignored.
func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// jsonError writes a JSON error body with the given status.
func jsonError(w http.ResponseWriter, message string, status int) {
	writeJSON(w, status, map[string]interface{}{
		"error": message,
	})
}

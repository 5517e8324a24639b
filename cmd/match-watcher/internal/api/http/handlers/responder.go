package handlers

import (
	"encoding/json"
	"net/http"
)

// errorResponse is the body of every non-2xx API answer.
type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// writeJSON marks responses as uncacheable: the page state changes with
// every snapshot.
func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message, Status: status})
}

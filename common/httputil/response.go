// Package httputil carries the small HTTP helpers shared by the relay's
// intake and admin handlers.
package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

// WriteJSON encodes data as the JSON response body with the given status.
// Encoding failures surface after the header has been flushed, so they are
// logged rather than returned.
func WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: encoding response body: %v", err)
	}
}

// WriteError writes the flat {"error": ...} body every relay endpoint
// uses for non-2xx responses.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}

package httputil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		data           interface{}
		expectedStatus int
	}{
		{
			name:           "accepted response with map",
			status:         http.StatusAccepted,
			data:           map[string]string{"status": "classified", "tag": "set"},
			expectedStatus: http.StatusAccepted,
		},
		{
			name:           "response with struct",
			status:         http.StatusOK,
			data:           struct{ Fingerprint string }{"0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9"},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "response with slice",
			status:         http.StatusOK,
			data:           []string{"rejected", "degraded"},
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteJSON(w, tt.status, tt.data)

			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if ct := w.Header().Get("Content-Type"); ct != "application/json" {
				t.Errorf("expected content type application/json, got %q", ct)
			}

			var result interface{}
			if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
				t.Errorf("response is not valid JSON: %v", err)
			}
		})
	}
}

func TestWriteJSON_InvalidData(t *testing.T) {
	// Channels cannot be marshaled; the helper must not panic.
	w := httptest.NewRecorder()
	WriteJSON(w, http.StatusOK, make(chan int))

	if w.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("expected Content-Type to be set")
	}
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusUnauthorized, "signature mismatch")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, w.Code)
	}

	var response map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response["error"] != "signature mismatch" {
		t.Errorf("expected error message %q, got %q", "signature mismatch", response["error"])
	}
}

func TestWriteError_EscapesMessage(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, http.StatusUnprocessableEntity, `status "ghosted" is outside the appointment enumeration`)

	var response map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to unmarshal response: %v", err)
	}
	if response["error"] != `status "ghosted" is outside the appointment enumeration` {
		t.Errorf("quoted message did not round-trip: %q", response["error"])
	}
}

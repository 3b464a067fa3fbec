package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteJSON(w, http.StatusCreated, map[string]string{"text": "hello"})
	if err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	if w.Code != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", w.Code)
	}
	if w.Header().Get("Content-Type") != "application/json" {
		t.Errorf("Expected Content-Type application/json, got %s", w.Header().Get("Content-Type"))
	}

	var result map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if result["text"] != "hello" {
		t.Errorf("Expected text 'hello', got '%s'", result["text"])
	}
}

func TestWriteErrors(t *testing.T) {
	tests := []struct {
		name     string
		write    func(http.ResponseWriter, string) error
		expected int
	}{
		{"bad request", WriteBadRequest, http.StatusBadRequest},
		{"internal", WriteInternalError, http.StatusInternalServerError},
		{"unavailable", WriteServiceUnavailable, http.StatusServiceUnavailable},
		{"method", WriteMethodNotAllowed, http.StatusMethodNotAllowed},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			if err := test.write(w, "test error"); err != nil {
				t.Fatalf("Write failed: %v", err)
			}
			if w.Code != test.expected {
				t.Errorf("Expected status %d, got %d", test.expected, w.Code)
			}

			var body ErrorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if body.Error != "test error" {
				t.Errorf("Expected error 'test error', got '%s'", body.Error)
			}
		})
	}
}

func TestWritePNG(t *testing.T) {
	w := httptest.NewRecorder()

	if err := WritePNG(w, "Card-1-IQ-Craft-Flashcard.png", []byte("png")); err != nil {
		t.Fatalf("WritePNG failed: %v", err)
	}

	if w.Header().Get("Content-Type") != "image/png" {
		t.Errorf("Expected image/png, got %s", w.Header().Get("Content-Type"))
	}
	expected := `attachment; filename="Card-1-IQ-Craft-Flashcard.png"`
	if got := w.Header().Get("Content-Disposition"); got != expected {
		t.Errorf("Expected %s, got %s", expected, got)
	}
	if w.Body.String() != "png" {
		t.Errorf("Unexpected body: %q", w.Body.String())
	}
}

// Package response writes JSON and PNG HTTP responses.
package response

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

// ErrorBody is the body of every error response.
type ErrorBody struct {
	Error string `json:"error"`
}

// WriteJSON writes body as JSON with the given status code
func WriteJSON(w http.ResponseWriter, statusCode int, body interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(body)
}

// WriteOK writes a 200 JSON response
func WriteOK(w http.ResponseWriter, body interface{}) error {
	return WriteJSON(w, http.StatusOK, body)
}

// WriteError writes an error response
func WriteError(w http.ResponseWriter, statusCode int, message string) error {
	return WriteJSON(w, statusCode, ErrorBody{Error: message})
}

// WriteBadRequest writes a 400 Bad Request error
func WriteBadRequest(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusBadRequest, message)
}

// WriteInternalError writes a 500 Internal Server Error
func WriteInternalError(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusInternalServerError, message)
}

// WriteServiceUnavailable writes a 503 Service Unavailable error
func WriteServiceUnavailable(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusServiceUnavailable, message)
}

// WriteMethodNotAllowed writes a 405 Method Not Allowed error
func WriteMethodNotAllowed(w http.ResponseWriter, message string) error {
	return WriteError(w, http.StatusMethodNotAllowed, message)
}

// WritePNG writes a PNG attachment named filename
func WritePNG(w http.ResponseWriter, filename string, data []byte) error {
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	_, err := w.Write(data)
	return err
}

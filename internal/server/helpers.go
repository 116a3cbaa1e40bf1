package server

import (
	"encoding/json"
	"net/http"
	"strings"
)

// writeJSON serializes v to the response with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// errorResponse is the error envelope every failing endpoint returns.
type errorResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

// writeError writes the standard error envelope.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{OK: false, Error: message})
}

// readJSON decodes the request body into v, closing the body.
func readJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// statusForError maps a source or query error to an HTTP status. Lookup
// failures are 404s, validation complaints are 400s, everything else is
// a 500.
func statusForError(err error) int {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "not found"):
		return http.StatusNotFound
	case strings.Contains(msg, "unknown table"),
		strings.Contains(msg, "unknown field"),
		strings.Contains(msg, "unknown aggregate"),
		strings.Contains(msg, "unknown window function"),
		strings.Contains(msg, "unknown operator"),
		strings.Contains(msg, "unknown time bucket"),
		strings.Contains(msg, "requires"),
		strings.Contains(msg, "unsupported"),
		strings.Contains(msg, "must not be negative"),
		strings.Contains(msg, "takes no value"):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

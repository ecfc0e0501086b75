package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
)

const (
	invalidJSONMessage = "Invalid JSON"
	nullBodyMessage    = "request body must be a JSON object, got null"
)

// writeJSON writes v as two-space indented JSON with an exact Content-Length.
func writeJSON(w http.ResponseWriter, status int, v any) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	body := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeError writes message as a plain-text body, without a trailing newline.
func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Length", strconv.Itoa(len(message)))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, message)
}

// decodeBody reads the request body into v. On failure it writes the error
// response and returns false: 400 for malformed JSON, 500 for anything else,
// including a top-level null.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return false
	}
	if !json.Valid(body) {
		writeError(w, http.StatusBadRequest, invalidJSONMessage)
		return false
	}
	if bytes.Equal(bytes.TrimSpace(body), []byte("null")) {
		writeError(w, http.StatusInternalServerError, nullBodyMessage)
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return false
	}
	return true
}

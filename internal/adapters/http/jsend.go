package web

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// jsend status values.
const (
	statusSuccess = "success"
	statusFail    = "fail"
	statusError   = "error"
)

// envelope is the jsend response body shared by every API endpoint.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// success wraps data in a jsend success envelope. A nil data is written as null.
func success(data any) any {
	return struct {
		Status string `json:"status"`
		Data   any    `json:"data"`
	}{Status: statusSuccess, Data: data}
}

// fail reports a client-side problem, optionally with data describing it.
func fail(message string, data any) envelope {
	return envelope{Status: statusFail, Message: message, Data: data}
}

// errorEnvelope reports a server-side or request-level error.
func errorEnvelope(message string) envelope {
	return envelope{Status: statusError, Message: message}
}

// writeJSON encodes v with the given status.
// PRE: headers not yet written
// POST: Content-Type is application/json; encode failures are logged only
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response_encode_failed", "error", err)
	}
}

// internal/app/features/errors/render.go
package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/converge/internal/app/system/regerr"
	"github.com/dalemusser/converge/internal/app/system/requestid"
	"go.uber.org/zap"
)

// Body is the JSON shape of every error response.
//
//	{ "error":"GROUP_NOT_EMPTY", "message":"deleteGroup \"g\": group not empty" }
type Body struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// WriteJSON writes v as the JSON response body with status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes a Body carrying r's request id.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	WriteJSON(w, status, Body{
		Error:     code,
		Message:   message,
		RequestID: requestid.FromContext(r.Context()),
	})
}

// ErrorLogger writes JSON error responses and logs the ones that indicate a
// server-side problem.
type ErrorLogger struct {
	Log *zap.Logger
}

// NewErrorLogger creates an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{Log: logger}
}

// RegistryError responds to a failed registry call. Registry failures are
// expected outcomes and map to 4xx; anything else is treated as a server error.
func (e *ErrorLogger) RegistryError(w http.ResponseWriter, r *http.Request, err error) {
	kind := regerr.KindOf(err)
	if kind == "" {
		e.LogServerError(w, r, "registry call failed", err)
		return
	}
	WriteError(w, r, kind.HTTPStatus(), string(kind), err.Error())
}

// LogBadRequest responds 400 for input that could not be parsed.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, msg string, err error, userMsg string) {
	e.Log.Debug(msg,
		zap.String("path", r.URL.Path),
		zap.String("request_id", requestid.FromContext(r.Context())),
		zap.Error(err))
	WriteError(w, r, http.StatusBadRequest, "BAD_REQUEST", userMsg)
}

// LogServerError logs err and responds 500 without exposing its text.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	e.Log.Error(msg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", requestid.FromContext(r.Context())),
		zap.Error(err))
	WriteError(w, r, http.StatusInternalServerError, "INTERNAL", "internal error")
}

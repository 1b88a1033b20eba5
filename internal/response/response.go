// internal/response/response.go
//
// Uniform success / error result envelope.
//
// Context
// -------
// Every operation the backend exposes resolves to one envelope shape:
//
//	{ "success": bool, "message": string, "errors": {field: [msg]}, "data": any }
//
// Handlers build a Response with the Success or Error constructors and emit
// it as JSON; nothing else crosses the HTTP boundary.  The envelope is
// immutable once constructed.
//
// Notes
// -----
//   - Message and Errors are omitted from the JSON when empty, so success
//     payloads stay flat.
//   - WriteJSON never fails the request over an encode error; it logs and
//     moves on, since the status line has already been sent.
package response

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// Response is the wire-level result wrapper.
type Response struct {
	OK      bool                `json:"success"`
	Message string              `json:"message,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
	Data    any                 `json:"data,omitempty"`
}

// Success builds a success envelope carrying data.
func Success(data any, message string) Response {
	return Response{OK: true, Message: message, Data: data}
}

// Error builds an error envelope.  errs may be nil.
func Error(message string, errs map[string][]string) Response {
	return Response{OK: false, Message: message, Errors: errs}
}

// WriteJSON emits the envelope with the given HTTP status.
func (r Response) WriteJSON(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(r); err != nil {
		zap.S().Errorw("response encode failed", "err", err)
	}
}

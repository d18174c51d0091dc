package httpx

import (
	"encoding/json"
	"net/http"
)

// ErrorEnvelope is the body of every failed response. Code mirrors the HTTP
// status so clients that only read the body see the same contract.
type ErrorEnvelope struct {
	Error   bool              `json:"error"             example:"true"`
	Message string            `json:"message"           example:"item not found"`
	Code    int               `json:"code"              example:"422"`
	Fields  map[string]string `json:"fields,omitempty"`
} // @name ErrorEnvelope

// SuccessEnvelope is the body of every successful catalog response.
type SuccessEnvelope struct {
	Success bool `json:"success" example:"true"`
	Data    any  `json:"data"`
} // @name SuccessEnvelope

// JSON writes v as JSON with the given status code. Content-Type and
// X-Content-Type-Options headers are set automatically. Encoding errors are
// silently discarded; use this for handler responses, not for streaming.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes a {"error":true,"message":...,"code":status} response.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, ErrorEnvelope{Error: true, Message: message, Code: status})
}

// JSONFieldErrors writes an error envelope that also lists per-field messages.
func JSONFieldErrors(w http.ResponseWriter, status int, message string, fields map[string]string) {
	JSON(w, status, ErrorEnvelope{Error: true, Message: message, Code: status, Fields: fields})
}

// Success writes a {"success":true,"data":data} response.
func Success(w http.ResponseWriter, status int, data any) {
	JSON(w, status, SuccessEnvelope{Success: true, Data: data})
}

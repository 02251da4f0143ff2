package responses

import (
	"encoding/json"
	"net/http"
)

// Status classification strings carried in every error body.
const (
	StatusAuthError  = "authError"
	StatusValidation = "validationError"
	StatusCreate     = "createError"
	StatusFind       = "findError"
	StatusUpdate     = "updateError"
	StatusDelete     = "deleteError"
)

type ErrorBody struct {
	Status      string            `json:"status"`
	Message     string            `json:"message"`
	Name        string            `json:"name,omitempty"`
	ErrorObject map[string]string `json:"errorObject,omitempty"`
	// MessageOrig carries the raw underlying error. Only populated when
	// the server runs with EXPOSE_ERRORS.
	MessageOrig string `json:"messageOrig,omitempty"`
}

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func Error(w http.ResponseWriter, status int, body ErrorBody) {
	JSON(w, status, body)
}

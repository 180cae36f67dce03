package core

import (
	"errors"
	"fmt"
)

// Storage errors
var (
	ErrKeyNotFound = errors.New("key not found in storage")
)

// Config errors (facade construction)
var (
	ErrBaseURLRequired = errors.New("API base URL is required")
)

// User-facing login messages. The backend and its operators are
// Spanish-speaking; these strings are displayed verbatim by the UI layer.
const (
	MsgInvalidCredentials = "Credenciales inválidas"
	MsgLoginFallback      = "Error al iniciar sesión"
	MsgLoginSuperseded    = "La sesión se cerró durante el inicio de sesión"
)

// APIError is a non-2xx backend response, decoded from the standard
// {message, error, statusCode} error envelope when possible.
type APIError struct {
	StatusCode int    `json:"statusCode"`
	Message    string `json:"message"`
	Detail     string `json:"error,omitempty"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("api error %d", e.StatusCode)
}

// IsStatus reports whether err is an APIError with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == status
	}
	return false
}

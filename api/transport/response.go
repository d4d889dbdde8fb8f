package transport

import (
	"encoding/json"

	"github.com/skillmart/backend/internal/validation"
)

// Envelope is the uniform API response wrapper for both success and error
// payloads.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody carries the client-facing failure description. Issues are only
// present for validation failures.
type ErrorBody struct {
	Message string            `json:"message"`
	Issues  validation.Issues `json:"issues,omitempty"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}) Envelope {
	return Envelope{
		Success: true,
		Data:    data,
	}
}

// NewError returns an error envelope.
func NewError(message string) Envelope {
	return Envelope{
		Success: false,
		Error:   &ErrorBody{Message: message},
	}
}

// NewValidationError returns an error envelope carrying itemized issues.
func NewValidationError(issues validation.Issues) Envelope {
	return Envelope{
		Success: false,
		Error: &ErrorBody{
			Message: "validation failed",
			Issues:  issues,
		},
	}
}

// LoginResponse pairs the issued token with the identity summary.
type LoginResponse struct {
	Token     string      `json:"token"`
	SessionID string      `json:"session_id"`
	User      interface{} `json:"user"`
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}

package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// FallbackMessage is shown when the platform gives no usable error text.
const FallbackMessage = "Request failed"

var (
	ErrTransitionNotAllowed = errors.New("transition not allowed")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrInFlight             = errors.New("request already in progress")
	ErrEmptySelection       = errors.New("no transactions selected")
	ErrInvalidBulkStatus    = errors.New("invalid bulk status")
	ErrConfirmationRequired = errors.New("bulk update must be confirmed")
)

// ErrorKind classifies a failed platform call.
type ErrorKind string

const (
	KindTransport ErrorKind = "transport"
	KindRejected  ErrorKind = "rejected"
	KindUpstream  ErrorKind = "upstream"
)

// APIError is a failed platform call. Message is safe to show operators.
type APIError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsAPIError reports whether err is a platform failure and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

func transportError(err error) *APIError {
	return &APIError{Kind: KindTransport, Message: FallbackMessage, Err: err}
}

// errorFromResponse builds an APIError for a non-2xx platform response,
// preferring the body's "error" field, then "message".
func errorFromResponse(status int, body []byte) *APIError {
	kind := KindRejected
	if status >= http.StatusInternalServerError {
		kind = KindUpstream
	}

	message := extractMessage(body)
	if message == "" {
		message = FallbackMessage
	}

	return &APIError{
		Kind:    kind,
		Status:  status,
		Message: message,
		Err:     fmt.Errorf("platform responded %d", status),
	}
}

func extractMessage(body []byte) string {
	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}

	if len(payload.Error) > 0 {
		var text string
		if err := json.Unmarshal(payload.Error, &text); err == nil && strings.TrimSpace(text) != "" {
			return text
		}
		var nested struct {
			Message string `json:"message"`
		}
		if err := json.Unmarshal(payload.Error, &nested); err == nil && strings.TrimSpace(nested.Message) != "" {
			return nested.Message
		}
	}

	return strings.TrimSpace(payload.Message)
}

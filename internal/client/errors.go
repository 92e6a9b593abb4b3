package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// FallbackMessage is shown when a failed response carries no usable message.
const FallbackMessage = "Something went wrong, please try again"

// APIError is a non-2xx response from the marketplace backend or a gateway.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

func newAPIError(statusCode int, body []byte) *APIError {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = payload.Message
		if msg == "" {
			msg = payload.Error
		}
	}
	msg = strings.TrimSpace(msg)
	if msg == "" {
		msg = FallbackMessage
	}
	return &APIError{StatusCode: statusCode, Message: msg}
}

// UserMessage returns the message to show for err: the server's message when
// the error came from the API, otherwise the generic fallback.
func UserMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return FallbackMessage
}

package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

var (
	// ErrEndpointNotConfigured is returned when the operation's URL is unset.
	ErrEndpointNotConfigured = errors.New("endpoint not configured")
	// ErrNoIDPlaceholder is returned when a per-record URL lacks {id}.
	ErrNoIDPlaceholder = errors.New("endpoint url has no {id} placeholder")
	// ErrMissingID is returned when a per-record operation gets a blank id.
	ErrMissingID = errors.New("recipe id is required")
	// ErrMissingPK is wrapped in a pk ValidationError when a partition key is blank.
	ErrMissingPK = errors.New("partition key is required")
)

const maxErrorMessage = 512

// APIError is a non-2xx reply from an upstream endpoint.
type APIError struct {
	Op      string
	Status  int
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	prefix := "api error"
	if e.Op != "" {
		prefix = e.Op
	}
	status := fmt.Sprintf("%d %s", e.Status, http.StatusText(e.Status))
	if e.Message != "" {
		return fmt.Sprintf("%s: %s: %s", prefix, strings.TrimSpace(status), e.Message)
	}
	if e.Status > 0 {
		return fmt.Sprintf("%s: %s", prefix, strings.TrimSpace(status))
	}
	return prefix
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// decodeError builds an APIError from a failed reply. The message comes from
// a JSON error or message field when present, else from the trimmed body.
func decodeError(op string, resp *response) error {
	apiErr := &APIError{Op: op, Status: resp.status, Body: resp.body}

	var payload struct {
		Error   json.RawMessage `json:"error"`
		Message string          `json:"message"`
	}
	trimmed := bytes.TrimSpace(resp.body)
	if len(trimmed) > 0 && trimmed[0] == '{' && json.Unmarshal(trimmed, &payload) == nil {
		apiErr.Message = errorMessage(payload.Error, payload.Message)
	}
	if apiErr.Message == "" {
		apiErr.Message = string(trimmed)
	}
	if len(apiErr.Message) > maxErrorMessage {
		apiErr.Message = apiErr.Message[:maxErrorMessage] + "..."
	}
	return apiErr
}

// errorMessage accepts both {"error": "text"} and the Azure-style
// {"error": {"code": "...", "message": "..."}}.
func errorMessage(raw json.RawMessage, fallback string) string {
	var text string
	if err := json.Unmarshal(raw, &text); err == nil && text != "" {
		return text
	}
	var nested struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &nested); err == nil {
		switch {
		case nested.Code != "" && nested.Message != "":
			return nested.Code + ": " + nested.Message
		case nested.Message != "":
			return nested.Message
		}
	}
	return fallback
}

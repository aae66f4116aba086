package clickup

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrMissingToken is returned when a client is built without an API token.
var ErrMissingToken = errors.New("clickup API token is required")

// APIError is a non-2xx response from the ClickUp API.
type APIError struct {
	StatusCode int
	// Code is the ClickUp ECODE, e.g. "OAUTH_025".
	Code    string
	Message string
	Body    string
}

func (e *APIError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "clickup API returned %d", e.StatusCode)
	if e.Code != "" {
		fmt.Fprintf(&b, " (%s)", e.Code)
	}
	if e.Message != "" {
		fmt.Fprintf(&b, ": %s", e.Message)
	}
	return b.String()
}

func newAPIError(status int, body []byte) *APIError {
	apiErr := &APIError{StatusCode: status, Body: string(body)}

	var payload struct {
		Err   string `json:"err"`
		ECode string `json:"ECODE"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		apiErr.Message = payload.Err
		apiErr.Code = payload.ECode
	}
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(status)
	}
	return apiErr
}

// IsNotFound reports whether err is a 404 from the ClickUp API.
func IsNotFound(err error) bool {
	return hasStatus(err, http.StatusNotFound)
}

// IsUnauthorized reports whether err is a 401 from the ClickUp API.
func IsUnauthorized(err error) bool {
	return hasStatus(err, http.StatusUnauthorized)
}

func hasStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

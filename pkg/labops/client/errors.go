package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound is returned when the service has no record for a lookup.
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response from the inventory service.
type APIError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Details)
	}
	return e.Message
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.Code == http.StatusNotFound
}

// newAPIError builds an APIError from a response body. The service reports
// problems as {"detail": "..."}, {"error": "..."} or {"message": "..."}.
func newAPIError(code int, body []byte) *APIError {
	apiErr := &APIError{
		Code:    code,
		Message: fmt.Sprintf("HTTP %d %s", code, http.StatusText(code)),
	}

	var payload struct {
		Detail  json.RawMessage `json:"detail"`
		Error   string          `json:"error"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Message != "":
			apiErr.Details = payload.Message
		case payload.Error != "":
			apiErr.Details = payload.Error
		case len(payload.Detail) > 0:
			var s string
			if json.Unmarshal(payload.Detail, &s) == nil {
				apiErr.Details = s
			} else {
				apiErr.Details = string(payload.Detail)
			}
		}
		return apiErr
	}

	if text := strings.TrimSpace(string(body)); text != "" && len(text) <= 200 {
		apiErr.Details = text
	}
	return apiErr
}

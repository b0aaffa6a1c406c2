package disk

import (
	"errors"
	"fmt"
)

// ErrNoToken is returned by a TokenSource when no OAuth token could be
// obtained.
var ErrNoToken = errors.New("no cloud storage OAuth token provided")

// APIError carries the status and the remote message/description fields
// for a failed cloud API call. StatusCode 0 means the failure happened
// before an HTTP status was received.
type APIError struct {
	StatusCode  int    `json:"-"`
	Message     string `json:"message"`
	Description string `json:"description"`
	Code        string `json:"error"`
}

func (e *APIError) Error() string {
	if e.Description != "" {
		return fmt.Sprintf("cloud API error %d: %s (%s)", e.StatusCode, e.Message, e.Description)
	}
	return fmt.Sprintf("cloud API error %d: %s", e.StatusCode, e.Message)
}

package vk

import (
	"errors"
	"fmt"
)

// ErrInvalidResponse marks a payload that does not match the documented
// shape (no response envelope, or items is not a list).
var ErrInvalidResponse = errors.New("unexpected photo API response structure")

// ErrNoToken is returned by a TokenSource when no access token is stored.
var ErrNoToken = errors.New("no VK access token stored, run \"vkdisk auth vk\" first")

// Remote API error codes with dedicated user-facing messages.
const (
	errCodeUnknown     = 1
	errCodeServer      = 10
	errCodeDenied      = 15
	errCodeDeactivated = 18
	errCodePrivate     = 30
)

// RemoteError is the API-level error envelope.
type RemoteError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("photo API error %d: %s", e.Code, e.Message)
}

// UserMessage maps the remote error code to a message fit for display.
// Unmapped codes fall back to a generic message.
func (e *RemoteError) UserMessage() string {
	switch e.Code {
	case errCodeUnknown:
		return "An unknown error occurred. Please retry the request later."
	case errCodeServer:
		return "The photo service hit an internal error. Please retry the request later."
	case errCodeDenied, errCodeDeactivated:
		return "Access denied: the profile you requested has been deleted or blocked."
	case errCodePrivate:
		return "This profile is private, its photos are not available."
	default:
		return fmt.Sprintf("The photo service rejected the request (code %d): %s", e.Code, e.Message)
	}
}

package core

import "errors"

// Error codes for rejected commands.
const (
	ErrCodeBadRequest    = "bad_request"
	ErrCodeUnknownFlag   = "unknown_flag"
	ErrCodeFlagNotServer = "flag_not_server_owned"
	ErrCodeUnknownType   = "invalid_message"
)

// ErrHubStopped is returned once the control loop has exited.
var ErrHubStopped = errors.New("hub stopped")

// CoreError wraps a code and human-readable message.
type CoreError struct {
	Code    string
	Message string
}

func (e *CoreError) Error() string {
	return e.Message
}

func coreError(code, msg string) *CoreError {
	return &CoreError{Code: code, Message: msg}
}

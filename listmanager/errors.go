package listmanager

import (
	"errors"
	"strings"
)

var (
	ErrBusy        = errors.New("another request is in flight")
	ErrNoSelection = errors.New("no record selected")
	ErrWrongMode   = errors.New("operation not allowed in the current mode")
)

// ValidationError is returned when a draft fails its schema. No request
// has been sent.
type ValidationError struct {
	Violations []Violation
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		msgs = append(msgs, v.Message)
	}
	return "validation failed: " + strings.Join(msgs, ", ")
}

// userMessenger is implemented by transport errors that carry a message
// meant for the operator (the optional {message} field of the API).
type userMessenger interface {
	UserMessage() string
}

// UserMessage picks the server supplied text out of err, or the generic
// message.
func UserMessage(err error) string {
	var um userMessenger
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	return MsgGenericError
}

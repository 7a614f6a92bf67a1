package webhook

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound marks a permanent failure: the subject user of an
	// event does not exist. It is stored on the event as "User not found".
	ErrUserNotFound = errors.New("User not found")
	// ErrAlreadyProcessed is returned when replaying a processed event.
	ErrAlreadyProcessed = errors.New("webhook event already processed")
	// ErrEventNotFound is returned when replaying an unknown event id.
	ErrEventNotFound = errors.New("webhook event not found")
)

// SchemaError reports an envelope or payload that does not match the schema
// of its source. No event row is written for it.
type SchemaError struct {
	Source string
	Reason string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid %s webhook: %s", e.Source, e.Reason)
}

// HandlerError wraps an unexpected failure while applying an event. Callers
// may retry the delivery.
type HandlerError struct {
	EventID string
	Err     error
}

func (e *HandlerError) Error() string {
	return fmt.Sprintf("webhook event %s failed: %v", e.EventID, e.Err)
}

func (e *HandlerError) Unwrap() error { return e.Err }

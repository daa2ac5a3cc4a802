package core

import (
	"fmt"
	"strings"
)

var (
	// ErrNoRecipients is returned when a send resolved to an empty target
	// set, e.g. only the sender itself remained after self-filtering. It is
	// a recoverable no-op condition, never fatal.
	ErrNoRecipients = fmt.Errorf("no recipients after resolution")
)

// MissingFieldError reports a required field absent from a request (e.g. no
// message body supplied). It is recoverable: the caller should retry with
// the field populated.
type MissingFieldError struct {
	Field string
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// UnknownRecipientError reports an addressing target that resolved to no
// known agent. Known carries the currently registered aliases in
// registration order so the caller can retry with a valid target.
type UnknownRecipientError struct {
	Target string
	Known  []string
}

// Error implements the error interface.
func (e *UnknownRecipientError) Error() string {
	if len(e.Known) == 0 {
		return fmt.Sprintf("unknown recipient %q (no agents registered)", e.Target)
	}
	return fmt.Sprintf("unknown recipient %q (known agents: %s)", e.Target, strings.Join(e.Known, ", "))
}

package core

import (
	"crypto/rand"
	"fmt"

	"github.com/google/uuid"
)

// NewID generates a new unique identifier for threads.
//
// This function creates a UUID-based unique identifier that can be used
// for conversation tracking and correlation throughout the coordinator.
//
// Returns a string representation of a new UUID.
func NewID() string { return uuid.NewString() }

// NewShortID creates a compact random hex token. Message ids use this form
// because they are surfaced verbatim to agents for reply/acknowledge
// addressing, where a full UUID is needlessly long.
func NewShortID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return fmt.Sprintf("%x", b)
}

package testutil

import (
	"time"

	"github.com/hupe1980/agentcomm/core"
)

// ThreadBuilder helps construct threads with fluent chaining for tests.
// Example:
//
//	th := NewThreadBuilder("t-1").Location("notes/sync.md").Participants("a", "b").Build()
type ThreadBuilder struct {
	id           string
	location     string
	subject      string
	participants []string
	lastAuthor   string
}

// NewThreadBuilder creates a new builder for a thread with the given id.
// Use chainable methods (Location, Subject, Participants, LastAuthor) then
// call Build.
func NewThreadBuilder(id string) *ThreadBuilder {
	return &ThreadBuilder{id: id}
}

// Location sets the backing location of the resulting thread (chainable).
func (b *ThreadBuilder) Location(loc string) *ThreadBuilder {
	b.location = loc
	return b
}

// Subject sets the subject label of the resulting thread (chainable).
func (b *ThreadBuilder) Subject(s string) *ThreadBuilder {
	b.subject = s
	return b
}

// Participants appends participant ids (chainable).
func (b *ThreadBuilder) Participants(ids ...string) *ThreadBuilder {
	b.participants = append(b.participants, ids...)
	return b
}

// LastAuthor sets the most recent contributor (chainable).
func (b *ThreadBuilder) LastAuthor(id string) *ThreadBuilder {
	b.lastAuthor = id
	return b
}

// Build returns a *core.Thread with pre-populated fields.
func (b *ThreadBuilder) Build() *core.Thread {
	now := time.Now()
	return &core.Thread{
		ID:           b.id,
		Location:     b.location,
		Subject:      b.subject,
		Participants: append([]string{}, b.participants...),
		Created:      now,
		Updated:      now,
		LastAuthor:   b.lastAuthor,
	}
}

// ConversationMeta builds the parsed metadata the host would hand to
// DetectThread for content flagged as a conversation with the given
// recipient.
func ConversationMeta(recipient string) core.ThreadMetadata {
	return core.ThreadMetadata{Conversation: true, Recipient: recipient}
}

package core

import "time"

// Thread is a tracked multi-party conversation. The same Thread entity is
// reachable whether the conversation was started through the coordinator's
// own send path or detected by inspecting externally produced content that
// carries conversation metadata.
//
// Contract:
//   - Participants is append-only: it grows as senders/recipients join and
//     never shrinks
//   - Updated is refreshed on every new contribution; Updated >= Created
//   - Location, when set, is a durable external reference (e.g. a backing
//     file); empty for purely in-memory threads.
type Thread struct {
	ID           string    `json:"id"`
	Location     string    `json:"location,omitempty"`
	Subject      string    `json:"subject,omitempty"`
	Participants []string  `json:"participants"`
	Created      time.Time `json:"created"`
	Updated      time.Time `json:"updated"`
	LastAuthor   string    `json:"last_author"`
}

// Clone returns a deep copy of the thread safe for independent mutation.
func (t *Thread) Clone() *Thread {
	clone := *t
	clone.Participants = make([]string, len(t.Participants))
	copy(clone.Participants, t.Participants)
	return &clone
}

// HasParticipant reports whether the given identity is already part of the
// conversation.
func (t *Thread) HasParticipant(id string) bool {
	for _, p := range t.Participants {
		if p == id {
			return true
		}
	}
	return false
}

// PendingUpdate is a coalesced thread-level notification record. At most
// one update exists per (thread, recipient) pair: a later update replaces
// an unconsumed earlier one in place, so a recipient sees a single
// up-to-date nudge per thread no matter how many contributions arrived
// since its last turn. An existing record is by definition unconsumed —
// consumption (MarkRead) removes it rather than flagging it.
type PendingUpdate struct {
	ThreadID  string    `json:"thread_id"`
	Location  string    `json:"location,omitempty"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Subject   string    `json:"subject,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// ThreadRequest describes a create-or-reply operation against the tracker.
// ThreadID and Location are optional hints used to resolve an existing
// thread (id match takes precedence over location match).
type ThreadRequest struct {
	From     string
	To       []string
	Subject  string
	Location string
	ThreadID string
}

// ThreadMetadata is the strict parse result of conversation metadata the
// host extracted from content it controls (e.g. key-value frontmatter of an
// externally authored file). The coordinator only consumes the parsed
// structure; it never does the parsing itself.
//
// Conversation and Recipient are required for the content to count as a
// conversation; everything else is optional. Malformed input degrades to
// "not a conversation" rather than a partially populated thread.
type ThreadMetadata struct {
	Conversation bool
	Recipient    string
	ThreadID     string
	Subject      string
	Participants []string
}

// ThreadTracker groups related messages into ongoing conversations with
// participant lists and queues coalesced per-recipient pending updates.
type ThreadTracker interface {
	// CreateOrUpdate resolves an existing thread (by id, then by location)
	// or allocates a new one, unions participants with {from, to...} and
	// refreshes Updated/LastAuthor. Returns a copy.
	CreateOrUpdate(req ThreadRequest) (*Thread, error)
	// TrackExternal registers or merges a thread whose existence was
	// detected externally rather than created through this tracker. Same
	// matching precedence and union semantics as CreateOrUpdate.
	TrackExternal(location string, req ThreadRequest) (*Thread, error)
	// QueueUpdate upserts a pending update for every participant of the
	// thread except fromAlias's identity. Coalescing: an unconsumed update
	// for the same (thread, participant) pair is overwritten in place.
	QueueUpdate(threadID, fromID, fromAlias string) error
	// PendingFor returns copies of the unread pending updates addressed to
	// recipient.
	PendingFor(recipient string) []PendingUpdate
	// AllPending returns copies of every unread pending update.
	AllPending() []PendingUpdate
	// MarkRead clears the recipient's pending update whose location matches
	// ref exactly or by suffix (tolerating absolute vs. relative path
	// variants). For location-less threads ref is matched against the
	// thread id.
	MarkRead(recipient, ref string)
	// ByLocation returns a copy of the thread backed by the given location.
	ByLocation(location string) (*Thread, bool)
	// ByID returns a copy of the thread with the given id.
	ByID(id string) (*Thread, bool)
}

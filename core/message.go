package core

import "time"

// Message is a direct mailbox message between two agents. After creation it
// is mutated only by the monotone read/handled transitions; it is never
// deleted and never delivered to its own sender.
//
// From records the sender's alias (senders are always addressed by alias);
// To records the recipient's raw id (resolved from its alias at send time).
type Message struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
	Handled   bool      `json:"handled"`
}

// MailboxStore keeps a per-recipient FIFO queue of messages with
// read/handled state tracking. The store is volatile by design: undelivered
// messages do not survive a process restart.
//
// The store has no notion of caller identity, so the no-self-message rule
// is enforced by the sending layer, not here.
type MailboxStore interface {
	// Send appends a new message to toID's queue and returns a copy of it.
	// Fails only when toID is empty.
	Send(fromAlias, toID, body string) (Message, error)
	// Unread returns copies of all unread messages for toID in send order.
	Unread(toID string) []Message
	// TakeUnread snapshots toID's unread messages in send order and flips
	// read=true on exactly that set, as one atomic unit. A message appended
	// by a concurrent sender is either part of the returned snapshot or
	// left unread for the next take; it is never marked read unsurfaced.
	TakeUnread(toID string) []Message
	// All returns copies of every message ever queued for toID in send order.
	All(toID string) []Message
	// Find looks a message up by id across all queues.
	Find(messageID string) (Message, bool)
	// MarkAllRead flips read=true on every message queued for toID.
	MarkAllRead(toID string)
	// MarkReadFromSender flips read=true only on toID's unread messages
	// whose From matches senderAlias, leaving other senders' messages
	// flagged.
	MarkReadFromSender(toID, senderAlias string)
	// MarkHandled acknowledges the given message ids for toID. Idempotent
	// on already-handled ids; unknown ids are ignored.
	MarkHandled(toID string, ids ...string)
}

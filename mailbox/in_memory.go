package mailbox

import (
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/agentcomm/core"
)

var (
	// ErrEmptyRecipient is returned when a send names no recipient id.
	ErrEmptyRecipient = fmt.Errorf("empty recipient id")
)

// InMemoryStore is a process-local core.MailboxStore keeping one ordered
// queue per recipient in a map guarded by an RWMutex. Messages are copied
// on return to avoid accidental external mutation of queue state; read and
// handled flags only ever transition from false to true.
//
// Layout: recipientID -> ordered slice of messages, plus a flat index by
// message id for reply/acknowledge lookups.
type InMemoryStore struct {
	mu     sync.RWMutex
	queues map[string][]*core.Message
	byID   map[string]*core.Message
}

// NewInMemoryStore returns an empty in-memory mailbox store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		queues: make(map[string][]*core.Message),
		byID:   make(map[string]*core.Message),
	}
}

// Send appends a new message to toID's queue and returns a copy of it.
// The store has no notion of caller identity; the no-self-message rule is
// enforced by the sending layer.
func (s *InMemoryStore) Send(fromAlias, toID, body string) (core.Message, error) {
	if toID == "" {
		return core.Message{}, ErrEmptyRecipient
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	msg := &core.Message{
		ID:        core.NewShortID(),
		From:      fromAlias,
		To:        toID,
		Body:      body,
		Timestamp: time.Now(),
	}
	s.queues[toID] = append(s.queues[toID], msg)
	s.byID[msg.ID] = msg
	return *msg, nil
}

// Unread returns copies of all unread messages for toID in send order.
func (s *InMemoryStore) Unread(toID string) []core.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]core.Message, 0, len(s.queues[toID]))
	for _, m := range s.queues[toID] {
		if !m.Read {
			res = append(res, *m)
		}
	}
	return res
}

// All returns copies of every message ever queued for toID in send order.
func (s *InMemoryStore) All(toID string) []core.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res := make([]core.Message, 0, len(s.queues[toID]))
	for _, m := range s.queues[toID] {
		res = append(res, *m)
	}
	return res
}

// Find looks a message up by id across all queues.
func (s *InMemoryStore) Find(messageID string) (core.Message, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.byID[messageID]
	if !ok {
		return core.Message{}, false
	}
	return *m, true
}

// TakeUnread snapshots toID's unread messages in send order and marks
// exactly that set read under one lock. The returned copies still carry
// read=false: they describe the messages as surfaced, pre-transition.
func (s *InMemoryStore) TakeUnread(toID string) []core.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := make([]core.Message, 0, len(s.queues[toID]))
	for _, m := range s.queues[toID] {
		if !m.Read {
			res = append(res, *m)
			m.Read = true
		}
	}
	return res
}

// MarkAllRead flips read=true on every message queued for toID.
func (s *InMemoryStore) MarkAllRead(toID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.queues[toID] {
		m.Read = true
	}
}

// MarkReadFromSender flips read=true only on toID's unread messages whose
// From matches senderAlias, so other senders' pending messages remain
// flagged.
func (s *InMemoryStore) MarkReadFromSender(toID, senderAlias string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.queues[toID] {
		if m.From == senderAlias {
			m.Read = true
		}
	}
}

// MarkHandled acknowledges the given message ids for toID. Idempotent on
// already-handled ids; ids unknown or queued for another recipient are
// ignored.
func (s *InMemoryStore) MarkHandled(toID string, ids ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		if m, ok := s.byID[id]; ok && m.To == toID {
			m.Handled = true
		}
	}
}

package thread

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/hupe1980/agentcomm/core"
)

var (
	// ErrUnknownThread is returned when an update is queued for a thread id
	// the tracker has never seen.
	ErrUnknownThread = fmt.Errorf("unknown thread")
)

// InMemoryTracker is a process-local core.ThreadTracker. Threads live in a
// map by id with a secondary index by backing location; pending updates are
// kept as a single latest record per (thread, recipient) pair, never a
// list, so repeated contributions before the recipient's next turn replace
// the outstanding notification instead of queueing duplicates.
type InMemoryTracker struct {
	mu         sync.RWMutex
	byID       map[string]*core.Thread
	byLocation map[string]string // location -> thread id
	// pending is keyed recipient -> thread id -> latest unread update; a
	// single record per pair, never a list.
	pending map[string]map[string]*core.PendingUpdate
}

// NewInMemoryTracker constructs an empty in-memory thread tracker.
func NewInMemoryTracker() *InMemoryTracker {
	return &InMemoryTracker{
		byID:       make(map[string]*core.Thread),
		byLocation: make(map[string]string),
		pending:    make(map[string]map[string]*core.PendingUpdate),
	}
}

// CreateOrUpdate resolves an existing thread (id match takes precedence
// over location match) or allocates a new one, unions participants with
// {From} ∪ To and refreshes Updated/LastAuthor. Returns a copy.
func (t *InMemoryTracker) CreateOrUpdate(req core.ThreadRequest) (*core.Thread, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	th := t.resolveLocked(req.ThreadID, req.Location)
	if th == nil {
		th = t.createLocked(req)
	}
	t.mergeLocked(th, req)
	return th.Clone(), nil
}

// TrackExternal registers or merges a thread whose existence was detected
// externally (conversation metadata embedded in content the recipient
// read). Matching precedence and union semantics are identical to
// CreateOrUpdate; the detected location always takes part in the merge.
func (t *InMemoryTracker) TrackExternal(location string, req core.ThreadRequest) (*core.Thread, error) {
	req.Location = location
	return t.CreateOrUpdate(req)
}

// resolveLocked looks a thread up by id first, then by location.
func (t *InMemoryTracker) resolveLocked(threadID, location string) *core.Thread {
	if threadID != "" {
		if th, ok := t.byID[threadID]; ok {
			return th
		}
	}
	if location != "" {
		if id, ok := t.byLocation[location]; ok {
			return t.byID[id]
		}
	}
	return nil
}

// createLocked allocates and indexes a new thread; caller must already hold
// the write lock. Subject is fixed at creation.
func (t *InMemoryTracker) createLocked(req core.ThreadRequest) *core.Thread {
	id := req.ThreadID
	if id == "" {
		id = core.NewID()
	}
	now := time.Now()
	th := &core.Thread{
		ID:       id,
		Location: req.Location,
		Subject:  req.Subject,
		Created:  now,
		Updated:  now,
	}
	t.byID[id] = th
	if th.Location != "" {
		t.byLocation[th.Location] = id
	}
	return th
}

// mergeLocked unions participants and refreshes authorship. A location
// discovered after creation (an in-memory thread later found on disk) is
// adopted and indexed.
func (t *InMemoryTracker) mergeLocked(th *core.Thread, req core.ThreadRequest) {
	for _, p := range append([]string{req.From}, req.To...) {
		if p != "" && !th.HasParticipant(p) {
			th.Participants = append(th.Participants, p)
		}
	}
	if th.Location == "" && req.Location != "" {
		th.Location = req.Location
		t.byLocation[req.Location] = th.ID
	}
	if req.From != "" {
		th.LastAuthor = req.From
	}
	th.Updated = time.Now()
}

// QueueUpdate upserts a pending update for every participant of the thread
// except the author. An unconsumed update for the same (thread,
// participant) pair is overwritten in place — latest wins.
func (t *InMemoryTracker) QueueUpdate(threadID, fromID, fromAlias string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	th, ok := t.byID[threadID]
	if !ok {
		return ErrUnknownThread
	}
	now := time.Now()
	for _, p := range th.Participants {
		if p == fromID {
			continue
		}
		if t.pending[p] == nil {
			t.pending[p] = make(map[string]*core.PendingUpdate)
		}
		t.pending[p][th.ID] = &core.PendingUpdate{
			ThreadID:  th.ID,
			Location:  th.Location,
			From:      fromAlias,
			To:        p,
			Subject:   th.Subject,
			Timestamp: now,
		}
	}
	return nil
}

// PendingFor returns copies of the unread pending updates addressed to
// recipient, oldest first.
func (t *InMemoryTracker) PendingFor(recipient string) []core.PendingUpdate {
	t.mu.RLock()
	defer t.mu.RUnlock()
	res := make([]core.PendingUpdate, 0, len(t.pending[recipient]))
	for _, u := range t.pending[recipient] {
		res = append(res, *u)
	}
	sortUpdates(res)
	return res
}

// AllPending returns copies of every unread pending update, oldest first.
func (t *InMemoryTracker) AllPending() []core.PendingUpdate {
	t.mu.RLock()
	defer t.mu.RUnlock()
	var res []core.PendingUpdate
	for _, byThread := range t.pending {
		for _, u := range byThread {
			res = append(res, *u)
		}
	}
	sortUpdates(res)
	return res
}

func sortUpdates(updates []core.PendingUpdate) {
	sort.Slice(updates, func(i, j int) bool {
		if updates[i].Timestamp.Equal(updates[j].Timestamp) {
			return updates[i].ThreadID < updates[j].ThreadID
		}
		return updates[i].Timestamp.Before(updates[j].Timestamp)
	})
}

// MarkRead clears the recipient's pending update whose location matches ref
// exactly or by suffix in either direction, tolerating absolute vs.
// relative path variants. Location-less threads match on thread id.
func (t *InMemoryTracker) MarkRead(recipient, ref string) {
	if ref == "" {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	for threadID, u := range t.pending[recipient] {
		if matchesRef(u, ref) {
			delete(t.pending[recipient], threadID)
		}
	}
}

func matchesRef(u *core.PendingUpdate, ref string) bool {
	if u.ThreadID == ref {
		return true
	}
	if u.Location == "" {
		return false
	}
	return u.Location == ref ||
		strings.HasSuffix(u.Location, "/"+strings.TrimPrefix(ref, "/")) ||
		strings.HasSuffix(ref, "/"+strings.TrimPrefix(u.Location, "/"))
}

// ByLocation returns a copy of the thread backed by the given location.
func (t *InMemoryTracker) ByLocation(location string) (*core.Thread, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	id, ok := t.byLocation[location]
	if !ok {
		return nil, false
	}
	return t.byID[id].Clone(), true
}

// ByID returns a copy of the thread with the given id.
func (t *InMemoryTracker) ByID(id string) (*core.Thread, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	th, ok := t.byID[id]
	if !ok {
		return nil, false
	}
	return th.Clone(), true
}

package registry

import (
	"fmt"
	"sync"
	"time"

	"github.com/hupe1980/agentcomm/core"
)

// InMemoryRegistry is a volatile core.IdentityRegistry implementation
// storing identities in process local maps. It is safe for concurrent
// access. Aliases are allocated from a monotonic counter that is never
// rewound, so an alias is never reused within the process lifetime even
// after its id has been removed.
type InMemoryRegistry struct {
	mu      sync.RWMutex
	byID    map[string]*core.Identity
	byAlias map[string]string // alias -> id
	order   []string          // ids in registration order
	next    int
}

// NewInMemoryRegistry constructs an empty in-memory identity registry.
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{
		byID:    make(map[string]*core.Identity),
		byAlias: make(map[string]string),
	}
}

// RegisterOrGetAlias returns the alias for id, allocating the next one in
// sequence on first contact. Idempotent.
func (r *InMemoryRegistry) RegisterOrGetAlias(id string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.registerLocked(id).Alias
}

// registerLocked allocates and stores a new identity if id is unknown;
// caller must already hold the write lock.
func (r *InMemoryRegistry) registerLocked(id string) *core.Identity {
	if ident, ok := r.byID[id]; ok {
		return ident
	}
	r.next++
	ident := &core.Identity{
		ID:         id,
		Alias:      fmt.Sprintf("agent%d", r.next),
		Registered: time.Now(),
	}
	r.byID[id] = ident
	r.byAlias[ident.Alias] = id
	r.order = append(r.order, id)
	return ident
}

// SetStatus overwrites the description for id, registering it first if this
// is its initial contact with the registry.
func (r *InMemoryRegistry) SetStatus(id, description string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.registerLocked(id).Description = description
}

// Status returns the description stored for the given alias.
func (r *InMemoryRegistry) Status(alias string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byAlias[alias]
	if !ok {
		return "", false
	}
	return r.byID[id].Description, true
}

// List returns every known identity in registration order. The slice and
// its elements are copies safe for caller mutation.
func (r *InMemoryRegistry) List() []core.Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked("")
}

// ListOthers returns every known identity except excludingID, in
// registration order.
func (r *InMemoryRegistry) ListOthers(excludingID string) []core.Identity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.listLocked(excludingID)
}

func (r *InMemoryRegistry) listLocked(excludingID string) []core.Identity {
	res := make([]core.Identity, 0, len(r.order))
	for _, id := range r.order {
		if id == excludingID {
			continue
		}
		res = append(res, *r.byID[id])
	}
	return res
}

// Resolve maps an alias, a known raw id, or a reserved contextual token to
// a raw id. Unknown targets fail with *core.UnknownRecipientError carrying
// the registration-ordered alias list.
func (r *InMemoryRegistry) Resolve(target string, rctx core.ResolveContext) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if id, ok := r.byAlias[target]; ok {
		return id, nil
	}
	if _, ok := r.byID[target]; ok {
		return target, nil
	}
	if target == core.TokenParent && rctx.ParentID != "" {
		if _, ok := r.byID[rctx.ParentID]; ok {
			return rctx.ParentID, nil
		}
	}
	known := make([]string, 0, len(r.order))
	for _, id := range r.order {
		known = append(known, r.byID[id].Alias)
	}
	return "", &core.UnknownRecipientError{Target: target, Known: known}
}

// Remove forgets the identity. The alias counter is not rewound, so the
// removed alias is never reallocated.
func (r *InMemoryRegistry) Remove(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ident, ok := r.byID[id]
	if !ok {
		return
	}
	delete(r.byID, id)
	delete(r.byAlias, ident.Alias)
	for i, oid := range r.order {
		if oid == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

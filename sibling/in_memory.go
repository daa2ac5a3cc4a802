package sibling

import "sync"

// InMemoryRegistry is a process-local core.SiblingRegistry maintaining both
// directions of the parent/child edge under one RWMutex. Children are kept
// in registration order per parent.
type InMemoryRegistry struct {
	mu       sync.RWMutex
	parents  map[string]string   // child -> parent
	children map[string][]string // parent -> children in registration order
}

// NewInMemoryRegistry constructs an empty in-memory sibling registry.
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{
		parents:  make(map[string]string),
		children: make(map[string][]string),
	}
}

// Register records (or re-records) the parent edge for childID. Idempotent:
// re-registering the same edge is a no-op; registering under a new parent
// moves the child.
func (r *InMemoryRegistry) Register(childID, parentID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.parents[childID]; ok {
		if prev == parentID {
			return
		}
		r.removeChildLocked(prev, childID)
	}
	r.parents[childID] = parentID
	r.children[parentID] = append(r.children[parentID], childID)
}

// ParentOf returns the registered parent of childID.
func (r *InMemoryRegistry) ParentOf(childID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.parents[childID]
	return p, ok
}

// ChildrenOf returns a snapshot of parentID's children in registration
// order, safe for caller mutation.
func (r *InMemoryRegistry) ChildrenOf(parentID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	res := make([]string, len(r.children[parentID]))
	copy(res, r.children[parentID])
	return res
}

// SiblingsOf returns the other children of childID's parent, excluding
// childID itself. Empty when no parent is recorded.
func (r *InMemoryRegistry) SiblingsOf(childID string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	parent, ok := r.parents[childID]
	if !ok {
		return []string{}
	}
	res := make([]string, 0, len(r.children[parent]))
	for _, c := range r.children[parent] {
		if c != childID {
			res = append(res, c)
		}
	}
	return res
}

// Cleanup removes id as a child of its parent and drops its own parent
// pointer. Its children are orphaned, not removed: they report no parent
// (hence no siblings) until possibly re-registered, but their own child
// edges stay intact.
func (r *InMemoryRegistry) Cleanup(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if parent, ok := r.parents[id]; ok {
		r.removeChildLocked(parent, id)
		delete(r.parents, id)
	}
	for _, orphan := range r.children[id] {
		delete(r.parents, orphan)
	}
	delete(r.children, id)
}

// removeChildLocked drops childID from parentID's child list; caller must
// already hold the write lock.
func (r *InMemoryRegistry) removeChildLocked(parentID, childID string) {
	kids := r.children[parentID]
	for i, c := range kids {
		if c == childID {
			r.children[parentID] = append(kids[:i], kids[i+1:]...)
			return
		}
	}
}

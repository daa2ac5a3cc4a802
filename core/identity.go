package core

import "time"

// Identity binds an opaque, externally supplied agent id to the stable
// human-readable alias assigned by the registry on first contact. Aliases
// exist because raw ids are long opaque tokens unsuitable for
// natural-language addressing between agents.
//
// Contract:
//   - The id ↔ alias mapping is a bijection for the process lifetime
//   - Aliases are assigned monotonically and never reused, even after the
//     underlying id has been removed
//   - Description is overwritten (not appended) on re-announce.
type Identity struct {
	ID          string    `json:"id"`
	Alias       string    `json:"alias"`
	Description string    `json:"description,omitempty"`
	Registered  time.Time `json:"registered"`
}

// ResolveContext carries the caller-side facts the registry needs to expand
// reserved contextual tokens. The registry itself holds no hierarchy state;
// the caller supplies its own id and (if known) its parent's id.
type ResolveContext struct {
	CallerID string
	ParentID string
}

// TokenParent is the reserved addressing token that resolves to the
// caller's parent agent, when one is registered.
const TokenParent = "parent"

// TokenAll is the reserved addressing token meaning "every known agent
// except the caller".
const TokenAll = "all"

// IdentityRegistry assigns and resolves aliases for agent identities and
// holds each agent's self-reported status description.
type IdentityRegistry interface {
	// RegisterOrGetAlias returns the alias for id, allocating the next one
	// in sequence on first contact. Idempotent.
	RegisterOrGetAlias(id string) string
	// SetStatus overwrites the stored description for id. No error if the
	// description was previously unset or the id unknown (it is registered
	// implicitly).
	SetStatus(id, description string)
	// Status returns the description stored for the given alias.
	Status(alias string) (string, bool)
	// List returns every known identity in registration order.
	List() []Identity
	// ListOthers returns every known identity except the given id, in
	// registration order.
	ListOthers(excludingID string) []Identity
	// Resolve maps an alias, a known raw id, or a reserved contextual token
	// to a raw id. Unknown targets fail with *UnknownRecipientError carrying
	// the currently known aliases.
	Resolve(target string, rctx ResolveContext) (string, error)
	// Remove forgets the identity. Its alias is never reallocated.
	Remove(id string)
}

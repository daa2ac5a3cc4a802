package core

// SiblingRegistry tracks parent → children spawn relationships so that a
// newly created agent can be told who its peers are. Both directions of the
// edge are maintained: "who are my siblings" resolves to "other children of
// my parent".
//
// Contract:
//   - Every registered child has exactly one parent
//   - A child with no registered parent has no siblings
//   - Cleanup removes a single node's edges only; its children are orphaned,
//     not removed.
type SiblingRegistry interface {
	// Register records (or re-records) the parent edge for childID.
	// Idempotent upsert.
	Register(childID, parentID string)
	// ParentOf returns the registered parent of childID.
	ParentOf(childID string) (string, bool)
	// ChildrenOf returns the children of parentID in registration order.
	ChildrenOf(parentID string) []string
	// SiblingsOf returns the other children of childID's parent, excluding
	// childID itself. Empty when no parent is recorded.
	SiblingsOf(childID string) []string
	// Cleanup removes id as a child of its parent and drops its own parent
	// pointer. Children of id keep their edges until their own cleanup.
	Cleanup(id string)
}

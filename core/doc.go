// Package core provides the foundational domain types and interfaces used by
// AgentComm. It defines the core abstractions for:
//
//   - Identities (opaque agent ids mapped to stable human-readable aliases)
//   - Messages (direct mailbox traffic with monotone read/handled state)
//   - Threads (tracked multi-party conversations, optionally file-backed)
//   - Pending updates (coalesced per-(thread, recipient) notification records)
//   - Sibling relations (the parent/child spawn hierarchy)
//
// The package intentionally keeps implementation concerns (concrete stores,
// the coordinator façade, notification rendering) out of scope, exposing
// small interfaces to enable custom backends and extensions. All exported
// identifiers include concise documentation to aid discoverability and
// external consumption.
package core

// Package notify implements the notification injector: the per-recipient
// decision of what pending communication must be surfaced on an agent's
// next turn, and the state transitions that accompany surfacing it.
//
// Direct messages self-clear on delivery (they have no state outside the
// coordinator); thread updates persist until the recipient confirms the
// corresponding external read, because a thread's true state lives in its
// backing content.
package notify

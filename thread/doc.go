// Package thread houses the concrete implementation of the
// core.ThreadTracker: the group-conversation abstraction layered on top of
// raw messages. A thread is reachable whether it was created through the
// coordinator's own send path or detected in externally authored content,
// and its pending updates are coalesced to at most one unread record per
// (thread, recipient) pair.
package thread

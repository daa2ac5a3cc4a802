// Package mailbox houses the concrete implementation of the
// core.MailboxStore: per-recipient FIFO queues with read/handled state
// tracking. The store is deliberately volatile — messages that were never
// surfaced before the process exits are lost, which is the documented
// delivery model (exactly-once within a single process lifetime).
package mailbox

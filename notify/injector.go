package notify

import (
	"fmt"
	"strings"

	"github.com/hupe1980/agentcomm/core"
	"github.com/hupe1980/agentcomm/logging"
)

// AgentStatus pairs an alias with its self-reported description for the
// roster section of a notification.
type AgentStatus struct {
	Alias       string `json:"alias"`
	Description string `json:"description,omitempty"`
}

// Notification is the consolidated payload surfaced to one recipient on its
// turn. Agents is always populated on an emitted notification so peer
// discovery stays continuous rather than one-shot; Messages and Threads
// carry the actionable items with stable ids usable in a reply.
type Notification struct {
	Recipient string               `json:"recipient"`
	Alias     string               `json:"alias"`
	Agents    []AgentStatus        `json:"agents"`
	Messages  []core.Message       `json:"messages,omitempty"`
	Threads   []core.PendingUpdate `json:"threads,omitempty"`
}

// Injector evaluates the per-recipient notification state machine against
// snapshots of the registry, mailbox and thread tracker.
type Injector struct {
	registry core.IdentityRegistry
	mailbox  core.MailboxStore
	threads  core.ThreadTracker
	logger   logging.Logger
}

// NewInjector wires an injector over the given services.
func NewInjector(reg core.IdentityRegistry, mb core.MailboxStore, tt core.ThreadTracker, logger logging.Logger) *Injector {
	if logger == nil {
		logger = logging.NoOpLogger{}
	}
	return &Injector{registry: reg, mailbox: mb, threads: tt, logger: logger}
}

// Collect returns the notification for recipientID and applies the
// associated transitions: surfaced direct messages become read, surfaced
// thread updates stay unread until the recipient performs the external read
// action. With no pending work it returns (nil, false) and mutates nothing.
func (i *Injector) Collect(recipientID string) (*Notification, bool) {
	// Snapshot and transition are one atomic store operation: a message a
	// concurrent sender appends during this turn either lands in this
	// snapshot or stays unread for the next one, never read-but-unsurfaced.
	unread := i.mailbox.TakeUnread(recipientID)
	pending := i.threads.PendingFor(recipientID)
	if len(unread) == 0 && len(pending) == 0 {
		return nil, false
	}

	alias := i.registry.RegisterOrGetAlias(recipientID)
	others := i.registry.ListOthers(recipientID)
	agents := make([]AgentStatus, 0, len(others))
	for _, o := range others {
		agents = append(agents, AgentStatus{Alias: o.Alias, Description: o.Description})
	}

	i.logger.Debug("notification collected", "recipient", alias, "messages", len(unread), "threads", len(pending))

	return &Notification{
		Recipient: recipientID,
		Alias:     alias,
		Agents:    agents,
		Messages:  unread,
		Threads:   pending,
	}, true
}

// Render formats the notification as host-facing text. The exact shape is a
// presentation default; hosts that want another rendering can consume the
// structured fields directly.
func (n *Notification) Render() string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are %s.\n", n.Alias)
	if len(n.Agents) > 0 {
		b.WriteString("Other agents:\n")
		for _, a := range n.Agents {
			if a.Description != "" {
				fmt.Fprintf(&b, "  - %s: %s\n", a.Alias, a.Description)
			} else {
				fmt.Fprintf(&b, "  - %s\n", a.Alias)
			}
		}
	}
	if len(n.Messages) > 0 {
		b.WriteString("New messages:\n")
		for _, m := range n.Messages {
			fmt.Fprintf(&b, "  - [%s] from %s: %s\n", m.ID, m.From, m.Body)
		}
	}
	if len(n.Threads) > 0 {
		b.WriteString("Updated conversations:\n")
		for _, u := range n.Threads {
			ref := u.Location
			if ref == "" {
				ref = u.ThreadID
			}
			if u.Subject != "" {
				fmt.Fprintf(&b, "  - %s (%q) updated by %s\n", ref, u.Subject, u.From)
			} else {
				fmt.Fprintf(&b, "  - %s updated by %s\n", ref, u.From)
			}
		}
	}
	return b.String()
}

// Package agentcomm provides a high-level façade over the coordination core
// services (identity registry, mailbox, thread tracker, sibling registry &
// logging) enabling independently running agents, spawned in parallel on a
// shared task, to discover each other, exchange asynchronous messages and
// maintain multi-turn threaded conversations without a broker process or
// database. Most host runtimes interact with this package by:
//  1. Creating a Coordinator via New() (optionally overriding default in-memory services)
//  2. Calling Register/Announce/RegisterChild from their lifecycle hooks
//  3. Calling Send/PostToThread/DetectThread as agents communicate
//  4. Calling NextTurn before producing each agent's next output
//
// The façade delegates state keeping to the per-concern services while
// owning the cross-service rules they cannot enforce alone: addressing
// syntax, self-filtering, and best-effort delivery signals. All defaults
// are safe for local development and testing; state is deliberately
// volatile and does not survive the process.
package agentcomm

import (
	"strings"

	"github.com/hupe1980/agentcomm/core"
	"github.com/hupe1980/agentcomm/logging"
	"github.com/hupe1980/agentcomm/mailbox"
	"github.com/hupe1980/agentcomm/notify"
	"github.com/hupe1980/agentcomm/registry"
	"github.com/hupe1980/agentcomm/sibling"
	"github.com/hupe1980/agentcomm/thread"
)

// Options configures the Coordinator instance.
type Options struct {
	// Services (default to in-memory implementations if not provided)
	Registry core.IdentityRegistry
	Mailbox  core.MailboxStore
	Threads  core.ThreadTracker
	Siblings core.SiblingRegistry

	// OnDeliver, when set, is invoked once per recipient id after a message
	// or thread update has been queued for it, as a best-effort wake-up
	// signal to the host. A failure is caught and logged as a warning; it
	// never fails the primary operation.
	OnDeliver func(recipientID string) error

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Coordinator is the single owner of all coordination state for one
// process. Construct one per process (or per test case) and pass it by
// reference to every operation; there are no package-level singletons.
type Coordinator struct {
	opts     Options
	registry core.IdentityRegistry
	mailbox  core.MailboxStore
	threads  core.ThreadTracker
	siblings core.SiblingRegistry
	injector *notify.Injector
	logger   logging.Logger
}

// New creates a new Coordinator with optional overrides. Any unset service
// is initialized with an in-memory implementation.
func New(optFns ...func(o *Options)) *Coordinator {
	opts := Options{
		Registry: registry.NewInMemoryRegistry(),
		Mailbox:  mailbox.NewInMemoryStore(),
		Threads:  thread.NewInMemoryTracker(),
		Siblings: sibling.NewInMemoryRegistry(),
		Logger:   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Coordinator{
		opts:     opts,
		registry: opts.Registry,
		mailbox:  opts.Mailbox,
		threads:  opts.Threads,
		siblings: opts.Siblings,
		injector: notify.NewInjector(opts.Registry, opts.Mailbox, opts.Threads, opts.Logger),
		logger:   opts.Logger,
	}
}

// Register makes id known to the coordinator and returns its stable alias.
// Idempotent: repeat calls return the existing alias.
func (c *Coordinator) Register(id string) string {
	return c.registry.RegisterOrGetAlias(id)
}

// Announce registers id (if needed) and overwrites its status description.
// Returns the agent's alias.
func (c *Coordinator) Announce(id, description string) string {
	alias := c.registry.RegisterOrGetAlias(id)
	c.registry.SetStatus(id, description)
	return alias
}

// Roster returns every known agent except excludingID as {alias, status}
// pairs in registration order, for host presentation ("who is working on
// what").
func (c *Coordinator) Roster(excludingID string) []notify.AgentStatus {
	others := c.registry.ListOthers(excludingID)
	res := make([]notify.AgentStatus, 0, len(others))
	for _, o := range others {
		res = append(res, notify.AgentStatus{Alias: o.Alias, Description: o.Description})
	}
	return res
}

// Send queues body for every agent the addressing expression resolves to.
// The expression is a single alias, a comma-separated alias list, the
// literal "all", or the reserved "parent" token. The sender itself is
// always filtered out of the resolved set.
//
// Errors: *core.MissingFieldError for an empty body or target expression,
// *core.UnknownRecipientError (carrying the known aliases) for an
// unresolvable token, core.ErrNoRecipients when only the sender remained
// after filtering.
func (c *Coordinator) Send(fromID, to, body string) ([]core.Message, error) {
	fromAlias := c.registry.RegisterOrGetAlias(fromID)
	if strings.TrimSpace(body) == "" {
		err := &core.MissingFieldError{Field: "body"}
		c.logger.Warn("send rejected", "from", fromAlias, "error", err.Error())
		return nil, err
	}

	targets, err := c.resolveTargets(fromID, to)
	if err != nil {
		c.logger.Warn("send rejected", "from", fromAlias, "error", err.Error())
		return nil, err
	}

	msgs := make([]core.Message, 0, len(targets))
	for _, target := range targets {
		msg, err := c.mailbox.Send(fromAlias, target, body)
		if err != nil {
			return msgs, err
		}
		msgs = append(msgs, msg)
		c.signalDelivery(target)
	}
	c.logger.Info("message sent", "from", fromAlias, "recipients", len(msgs))
	return msgs, nil
}

// resolveTargets expands an addressing expression into a deduplicated,
// self-filtered list of recipient ids in expression order.
func (c *Coordinator) resolveTargets(fromID, to string) ([]string, error) {
	if strings.TrimSpace(to) == "" {
		return nil, &core.MissingFieldError{Field: "to"}
	}

	rctx := core.ResolveContext{CallerID: fromID}
	if parent, ok := c.siblings.ParentOf(fromID); ok {
		rctx.ParentID = parent
	}

	seen := make(map[string]bool)
	var targets []string
	add := func(id string) {
		if id == fromID || seen[id] {
			return
		}
		seen[id] = true
		targets = append(targets, id)
	}

	for _, token := range strings.Split(to, ",") {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		if token == core.TokenAll {
			for _, other := range c.registry.ListOthers(fromID) {
				add(other.ID)
			}
			continue
		}
		id, err := c.registry.Resolve(token, rctx)
		if err != nil {
			return nil, err
		}
		add(id)
	}

	if len(targets) == 0 {
		return nil, core.ErrNoRecipients
	}
	return targets, nil
}

// ThreadPost describes one contribution to a new or existing conversation.
// To uses the same addressing syntax as Send. ThreadID and Location are
// optional resolution hints; Body is required even though the backing
// content itself is written by the host (an empty contribution is a caller
// mistake, not a thread update).
type ThreadPost struct {
	To       string
	Body     string
	Subject  string
	Location string
	ThreadID string
}

// PostToThread creates a conversation or appends to an existing one
// (matched by thread id first, then by location), then queues a coalesced
// pending update for every participant except the author.
func (c *Coordinator) PostToThread(fromID string, post ThreadPost) (*core.Thread, error) {
	fromAlias := c.registry.RegisterOrGetAlias(fromID)
	if strings.TrimSpace(post.Body) == "" {
		return nil, &core.MissingFieldError{Field: "body"}
	}

	targets, err := c.resolveTargets(fromID, post.To)
	if err != nil {
		c.logger.Warn("thread post rejected", "from", fromAlias, "error", err.Error())
		return nil, err
	}

	th, err := c.threads.CreateOrUpdate(core.ThreadRequest{
		From:     fromID,
		To:       targets,
		Subject:  post.Subject,
		Location: post.Location,
		ThreadID: post.ThreadID,
	})
	if err != nil {
		return nil, err
	}
	if err := c.threads.QueueUpdate(th.ID, fromID, fromAlias); err != nil {
		return nil, err
	}
	for _, p := range th.Participants {
		if p != fromID {
			c.signalDelivery(p)
		}
	}
	c.logger.Info("thread updated", "from", fromAlias, "thread", th.ID, "participants", len(th.Participants))
	return th, nil
}

// DetectThread registers a conversation that authorID started outside the
// coordinator, from metadata the host parsed out of the authored content.
// Strict degradation: content not flagged as a conversation, or flagged but
// missing its required recipient, yields (nil, false, nil) — never a
// partially populated thread.
func (c *Coordinator) DetectThread(authorID, location string, meta core.ThreadMetadata) (*core.Thread, bool, error) {
	if !meta.Conversation || strings.TrimSpace(meta.Recipient) == "" {
		return nil, false, nil
	}
	fromAlias := c.registry.RegisterOrGetAlias(authorID)

	targets, err := c.resolveTargets(authorID, meta.Recipient)
	if err != nil {
		return nil, false, err
	}
	// Explicitly listed participants are best-effort: an unresolvable entry
	// is skipped, not fatal, since the required recipient already anchors
	// the thread.
	rctx := core.ResolveContext{CallerID: authorID}
	for _, p := range meta.Participants {
		id, err := c.registry.Resolve(strings.TrimSpace(p), rctx)
		if err != nil {
			c.logger.Warn("skipping unresolvable thread participant", "participant", p)
			continue
		}
		if id != authorID {
			targets = append(targets, id)
		}
	}

	th, err := c.threads.TrackExternal(location, core.ThreadRequest{
		From:     authorID,
		To:       targets,
		Subject:  meta.Subject,
		ThreadID: meta.ThreadID,
	})
	if err != nil {
		return nil, false, err
	}
	if err := c.threads.QueueUpdate(th.ID, authorID, fromAlias); err != nil {
		return nil, false, err
	}
	for _, p := range th.Participants {
		if p != authorID {
			c.signalDelivery(p)
		}
	}
	return th, true, nil
}

// ReadThread records that recipientID consumed the thread behind ref (a
// location, tolerated in absolute or relative form, or a thread id),
// clearing its pending update.
func (c *Coordinator) ReadThread(recipientID, ref string) {
	c.threads.MarkRead(recipientID, ref)
}

// MarkHandled acknowledges the given message ids for recipientID.
// Idempotent.
func (c *Coordinator) MarkHandled(recipientID string, ids ...string) {
	c.mailbox.MarkHandled(recipientID, ids...)
}

// NextTurn is the turn hook: the host calls it before producing
// recipientID's next output. It returns the consolidated notification (or
// ok=false when there is no pending work) and applies the delivery
// transitions — surfaced messages become read, surfaced thread updates stay
// pending until ReadThread.
func (c *Coordinator) NextTurn(recipientID string) (*notify.Notification, bool) {
	n, ok := c.injector.Collect(recipientID)
	if ok {
		c.logger.Info("notification emitted", "recipient", n.Alias, "messages", len(n.Messages), "threads", len(n.Threads))
	}
	return n, ok
}

// RegisterChild is the spawn-completion hook: the host calls it once a
// child-agent creation finished. It registers the child's identity, records
// the hierarchy edge and stores the optional description.
func (c *Coordinator) RegisterChild(childID, parentID, description string) string {
	alias := c.registry.RegisterOrGetAlias(childID)
	c.registry.RegisterOrGetAlias(parentID)
	c.siblings.Register(childID, parentID)
	if description != "" {
		c.registry.SetStatus(childID, description)
	}
	return alias
}

// Siblings resolves id's registered siblings (other children of the same
// parent) to identities. Empty when id has no registered parent.
func (c *Coordinator) Siblings(id string) []core.Identity {
	return c.identities(c.siblings.SiblingsOf(id))
}

// Children resolves id's registered children to identities in registration
// order.
func (c *Coordinator) Children(id string) []core.Identity {
	return c.identities(c.siblings.ChildrenOf(id))
}

func (c *Coordinator) identities(ids []string) []core.Identity {
	res := make([]core.Identity, 0, len(ids))
	for _, ident := range c.registry.List() {
		for _, id := range ids {
			if ident.ID == id {
				res = append(res, ident)
				break
			}
		}
	}
	return res
}

// Cleanup forgets id: its identity (the alias is never reused) and its
// hierarchy edges. Queued messages and threads are left untouched; the
// store never deletes messages.
func (c *Coordinator) Cleanup(id string) {
	c.registry.Remove(id)
	c.siblings.Cleanup(id)
}

// signalDelivery fires the best-effort OnDeliver hook. A failure is logged
// and swallowed: the primary operation has already succeeded.
func (c *Coordinator) signalDelivery(recipientID string) {
	if c.opts.OnDeliver == nil {
		return
	}
	if err := c.opts.OnDeliver(recipientID); err != nil {
		c.logger.Warn("delivery signal failed", "recipient", recipientID, "error", err.Error())
	}
}

package blackboard

import (
	"fmt"
	"iter"
	"sort"
	"sync"

	"github.com/dyluth/warren/pkg/concept"
	"github.com/dyluth/warren/pkg/vocabulary"
)

// Subscriber is the surface the board requires of an agent: a stable
// identity and a fire-and-forget signal sink. Signal must not block; the
// agent runtime satisfies this with a mailbox, but any implementation with
// the same property may participate.
type Subscriber interface {
	ID() string
	Signal(source, message *concept.Concept)
}

// NoticeEvent names the board-originated notices delivered to agents when
// their publications and subscriptions change.
type NoticeEvent string

const (
	// NoticePublished is delivered to the publisher after a publish.
	NoticePublished NoticeEvent = "published"

	// NoticeUnpublished is delivered to the publisher of record after an
	// unpublish.
	NoticeUnpublished NoticeEvent = "unpublished"

	// NoticeSubscribed is delivered to an agent when its subscription is
	// made manifest, directly or by class promotion.
	NoticeSubscribed NoticeEvent = "subscribed"

	// NoticeUnsubscribed is delivered to an agent when its subscription is
	// withdrawn.
	NoticeUnsubscribed NoticeEvent = "unsubscribed"

	// NoticeClassSubscribed is delivered to an agent when its class
	// subscription is recorded.
	NoticeClassSubscribed NoticeEvent = "class_subscribed"

	// NoticeClassUnsubscribed is delivered to an agent when its class
	// subscription is withdrawn.
	NoticeClassUnsubscribed NoticeEvent = "class_unsubscribed"
)

// Validate checks if the NoticeEvent is a valid enum value.
func (n NoticeEvent) Validate() error {
	switch n {
	case NoticePublished, NoticeUnpublished, NoticeSubscribed,
		NoticeUnsubscribed, NoticeClassSubscribed, NoticeClassUnsubscribed:
		return nil
	default:
		return fmt.Errorf("unknown notice event: %q", n)
	}
}

// SubjectProperty is the property class carried by every notice message; its
// value is the concept or class the notice concerns.
var SubjectProperty = concept.MustNewClass("NoticeSubject", concept.BaseProperty, nil)

// Board is a publish/subscribe registry over a bounded set of concepts and
// concept classes. It defines the shared context in which a society of
// agents collaborates: agents publish concepts, subscribe to concepts or
// concept classes, and signal each other through the board without sharing
// a concurrency model.
//
// Closure holds at all times: subscriptions and publication records refer
// only to currently published concepts. Class subscriptions are latent —
// they bind to no concept until a conforming instance is published, at which
// point the class subscriber is promoted to a concept subscriber
// synchronously and atomically with the publish. Promotion is re-resolved on
// every publish; unpublishing a concept discards its promoted subscriptions.
//
// Every operation is linearizable under a single RWMutex. Signal delivery
// goes to the recipient snapshot taken atomically with the signaling call,
// and each recipient is signaled in its own goroutine: a slow recipient
// delays nobody.
type Board struct {
	name     string
	registry *concept.Registry
	self     *concept.Concept

	mu                 sync.RWMutex
	concepts           map[*concept.Concept]struct{}
	publications       map[*concept.Concept]Subscriber
	subscriptions      map[*concept.Concept]map[string]Subscriber
	classSubscriptions map[*concept.Class]map[string]Subscriber
}

// New creates an empty board. When registry is nil, a fresh registry loaded
// with the inherent vocabulary is used. Class subscriptions are only
// accepted for registered classes.
func New(name string, registry *concept.Registry) *Board {
	if registry == nil {
		registry = concept.NewRegistry()
		// A fresh registry cannot collide with the inherent catalog.
		_ = vocabulary.Register(registry)
	}
	self, err := concept.NewOfClass(name, vocabulary.Source)
	if err != nil {
		self = concept.New(name)
	}
	return &Board{
		name:               name,
		registry:           registry,
		self:               self,
		concepts:           make(map[*concept.Concept]struct{}),
		publications:       make(map[*concept.Concept]Subscriber),
		subscriptions:      make(map[*concept.Concept]map[string]Subscriber),
		classSubscriptions: make(map[*concept.Class]map[string]Subscriber),
	}
}

// Name returns the board's name.
func (b *Board) Name() string { return b.name }

// Registry returns the class registry backing class subscriptions.
func (b *Board) Registry() *concept.Registry { return b.registry }

// Publish registers agent as the sole publisher of c and makes c visible on
// the board. Publishing an already-published concept reassigns the publisher
// and is not an error.
//
// All active class subscriptions whose class c instantiates are resolved
// here, synchronously and atomically with the publication: each matching
// class subscriber becomes a concept subscriber of c before Publish returns.
// The publisher and each newly promoted subscriber are then signaled
// asynchronously with a notice.
func (b *Board) Publish(c *concept.Concept, agent Subscriber) error {
	if c == nil {
		return concept.NewError(concept.KindTypeMismatch, "concept is not well-formed")
	}
	if agent == nil {
		return concept.NewError(concept.KindTypeMismatch, "agent is not well-formed")
	}

	b.mu.Lock()
	b.concepts[c] = struct{}{}
	b.publications[c] = agent

	var promoted []Subscriber
	for class, subs := range b.classSubscriptions {
		if !c.Class().ConformsTo(class) {
			continue
		}
		for id, sub := range subs {
			if b.subscriptions[c] == nil {
				b.subscriptions[c] = make(map[string]Subscriber)
			}
			if _, already := b.subscriptions[c][id]; !already {
				b.subscriptions[c][id] = sub
				promoted = append(promoted, sub)
			}
		}
	}
	b.mu.Unlock()

	b.deliver([]Subscriber{agent}, b.notice(NoticePublished, c))
	if len(promoted) > 0 {
		b.deliver(promoted, b.notice(NoticeSubscribed, c))
	}
	return nil
}

// Unpublish removes c from the board, clearing its publication record and
// all its subscriptions. Unpublishing a concept that was never published is
// a silent no-op, which makes Unpublish idempotent. The publisher of record
// and every subscriber are signaled asynchronously.
func (b *Board) Unpublish(c *concept.Concept) {
	if c == nil {
		return
	}

	b.mu.Lock()
	if _, published := b.concepts[c]; !published {
		b.mu.Unlock()
		return
	}
	publisher := b.publications[c]
	dropped := subscriberList(b.subscriptions[c])
	delete(b.concepts, c)
	delete(b.publications, c)
	delete(b.subscriptions, c)
	b.mu.Unlock()

	if publisher != nil {
		b.deliver([]Subscriber{publisher}, b.notice(NoticeUnpublished, c))
	}
	if len(dropped) > 0 {
		b.deliver(dropped, b.notice(NoticeUnsubscribed, c))
	}
}

// Publisher returns the agent that published c.
// Returns a KindNotPublished error if c is not currently published.
func (b *Board) Publisher(c *concept.Concept) (Subscriber, error) {
	if c == nil {
		return nil, concept.NewError(concept.KindTypeMismatch, "concept is not well-formed")
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if _, published := b.concepts[c]; !published {
		return nil, concept.NewError(concept.KindNotPublished, "concept %q is not published", c.Name())
	}
	return b.publications[c], nil
}

// SignalPublisher signals the publisher of record of c with the given
// source and message. The notification path from subscriber back to
// publisher. Delivery is asynchronous; SignalPublisher does not wait on the
// recipient.
func (b *Board) SignalPublisher(c, source, message *concept.Concept) error {
	if err := validateSignal(source, message); err != nil {
		return err
	}
	if c == nil {
		return concept.NewError(concept.KindTypeMismatch, "concept is not well-formed")
	}
	b.mu.RLock()
	if _, published := b.concepts[c]; !published {
		b.mu.RUnlock()
		return concept.NewError(concept.KindNotPublished, "concept %q is not published", c.Name())
	}
	publisher := b.publications[c]
	b.mu.RUnlock()

	if publisher != nil {
		b.deliverFrom(source, []Subscriber{publisher}, message)
	}
	return nil
}

// Subscribe records agent as a subscriber of c.
// Returns a KindNotPublished error if c is not currently published (the
// closure invariant) and a KindValidation error if the agent is already
// subscribed. The agent is signaled asynchronously that the subscription
// was made manifest.
func (b *Board) Subscribe(c *concept.Concept, agent Subscriber) error {
	if c == nil {
		return concept.NewError(concept.KindTypeMismatch, "concept is not well-formed")
	}
	if agent == nil {
		return concept.NewError(concept.KindTypeMismatch, "agent is not well-formed")
	}

	b.mu.Lock()
	if _, published := b.concepts[c]; !published {
		b.mu.Unlock()
		return concept.NewError(concept.KindNotPublished, "concept %q is not published", c.Name())
	}
	if _, already := b.subscriptions[c][agent.ID()]; already {
		b.mu.Unlock()
		return concept.NewError(concept.KindValidation, "agent %q is already subscribed to %q", agent.ID(), c.Name())
	}
	if b.subscriptions[c] == nil {
		b.subscriptions[c] = make(map[string]Subscriber)
	}
	b.subscriptions[c][agent.ID()] = agent
	b.mu.Unlock()

	b.deliver([]Subscriber{agent}, b.notice(NoticeSubscribed, c))
	return nil
}

// Unsubscribe withdraws agent's subscription to c. Once Unsubscribe
// returns, no signal issued afterwards reaches the agent for this concept.
// Withdrawing a subscription that does not exist is a no-op; the concept
// itself must still be published.
func (b *Board) Unsubscribe(c *concept.Concept, agent Subscriber) error {
	if c == nil {
		return concept.NewError(concept.KindTypeMismatch, "concept is not well-formed")
	}
	if agent == nil {
		return concept.NewError(concept.KindTypeMismatch, "agent is not well-formed")
	}

	b.mu.Lock()
	if _, published := b.concepts[c]; !published {
		b.mu.Unlock()
		return concept.NewError(concept.KindNotPublished, "concept %q is not published", c.Name())
	}
	_, subscribed := b.subscriptions[c][agent.ID()]
	if subscribed {
		delete(b.subscriptions[c], agent.ID())
	}
	b.mu.Unlock()

	if subscribed {
		b.deliver([]Subscriber{agent}, b.notice(NoticeUnsubscribed, c))
	}
	return nil
}

// UnsubscribeAgent withdraws every subscription — concept and class — held
// by the agent. Agent shutdown uses this to guarantee no further signals
// after stop.
func (b *Board) UnsubscribeAgent(agent Subscriber) {
	if agent == nil {
		return
	}
	id := agent.ID()

	b.mu.Lock()
	for _, subs := range b.subscriptions {
		delete(subs, id)
	}
	for _, subs := range b.classSubscriptions {
		delete(subs, id)
	}
	b.mu.Unlock()
}

// Subscribers returns the agents currently subscribed to c, sorted by
// identity. Returns a KindNotPublished error if c is not published.
func (b *Board) Subscribers(c *concept.Concept) ([]Subscriber, error) {
	if c == nil {
		return nil, concept.NewError(concept.KindTypeMismatch, "concept is not well-formed")
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if _, published := b.concepts[c]; !published {
		return nil, concept.NewError(concept.KindNotPublished, "concept %q is not published", c.Name())
	}
	return subscriberList(b.subscriptions[c]), nil
}

// SignalSubscribers signals every agent subscribed to c at the moment of
// the call. The recipient snapshot is taken atomically with the call: an
// agent whose Unsubscribe returned before this call receives nothing; a
// subscribed agent receives exactly one copy. Delivery to each recipient is
// asynchronous and independent.
func (b *Board) SignalSubscribers(c, source, message *concept.Concept) error {
	if err := validateSignal(source, message); err != nil {
		return err
	}
	if c == nil {
		return concept.NewError(concept.KindTypeMismatch, "concept is not well-formed")
	}

	b.mu.RLock()
	if _, published := b.concepts[c]; !published {
		b.mu.RUnlock()
		return concept.NewError(concept.KindNotPublished, "concept %q is not published", c.Name())
	}
	recipients := subscriberList(b.subscriptions[c])
	b.mu.RUnlock()

	b.deliverFrom(source, recipients, message)
	return nil
}

// SubscribeClass records a latent subscription to every current and future
// instance of the class. The class must specialize BaseConcept and be
// registered with the board's registry. The subscription binds to concrete
// concepts only at publish time, when promotion resolves it.
func (b *Board) SubscribeClass(class *concept.Class, agent Subscriber) error {
	if class == nil || class.Base() != concept.BaseConcept {
		return concept.NewError(concept.KindTypeMismatch, "concept class is not well-formed")
	}
	if agent == nil {
		return concept.NewError(concept.KindTypeMismatch, "agent is not well-formed")
	}
	if !b.registry.Registered(class) {
		return concept.NewError(concept.KindValidation, "concept class %q is not registered", class.Name())
	}

	b.mu.Lock()
	if _, already := b.classSubscriptions[class][agent.ID()]; already {
		b.mu.Unlock()
		return concept.NewError(concept.KindValidation, "agent %q is already subscribed to class %q", agent.ID(), class.Name())
	}
	if b.classSubscriptions[class] == nil {
		b.classSubscriptions[class] = make(map[string]Subscriber)
	}
	b.classSubscriptions[class][agent.ID()] = agent
	b.mu.Unlock()

	b.deliver([]Subscriber{agent}, b.classNotice(NoticeClassSubscribed, class))
	return nil
}

// UnsubscribeClass withdraws agent's class subscription. Concept
// subscriptions already promoted from it remain until withdrawn or
// unpublished. Withdrawing an absent class subscription is a no-op.
func (b *Board) UnsubscribeClass(class *concept.Class, agent Subscriber) error {
	if class == nil {
		return concept.NewError(concept.KindTypeMismatch, "concept class is not well-formed")
	}
	if agent == nil {
		return concept.NewError(concept.KindTypeMismatch, "agent is not well-formed")
	}

	b.mu.Lock()
	_, subscribed := b.classSubscriptions[class][agent.ID()]
	if subscribed {
		delete(b.classSubscriptions[class], agent.ID())
		if len(b.classSubscriptions[class]) == 0 {
			delete(b.classSubscriptions, class)
		}
	}
	b.mu.Unlock()

	if subscribed {
		b.deliver([]Subscriber{agent}, b.classNotice(NoticeClassUnsubscribed, class))
	}
	return nil
}

// ClassSubscribers returns the agents holding a class subscription for
// exactly this class, sorted by identity.
func (b *Board) ClassSubscribers(class *concept.Class) []Subscriber {
	if class == nil {
		return nil
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	return subscriberList(b.classSubscriptions[class])
}

// SignalClassSubscribers signals every agent holding a subscription for
// exactly this class. Returns a KindValidation error when the class has no
// active subscription on the board.
func (b *Board) SignalClassSubscribers(class *concept.Class, source, message *concept.Concept) error {
	if err := validateSignal(source, message); err != nil {
		return err
	}
	if class == nil {
		return concept.NewError(concept.KindTypeMismatch, "concept class is not well-formed")
	}

	b.mu.RLock()
	subs, active := b.classSubscriptions[class]
	recipients := subscriberList(subs)
	b.mu.RUnlock()

	if !active {
		return concept.NewError(concept.KindValidation, "concept class %q has no subscriptions", class.Name())
	}
	b.deliverFrom(source, recipients, message)
	return nil
}

// ConceptExists reports whether c is currently published.
func (b *Board) ConceptExists(c *concept.Concept) bool {
	if c == nil {
		return false
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	_, published := b.concepts[c]
	return published
}

// NumberOfConcepts returns the count of published concepts.
func (b *Board) NumberOfConcepts() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.concepts)
}

// Concepts iterates the published concepts matching the filter, in name
// order. Snapshot-at-start, restartable.
func (b *Board) Concepts(f concept.Filter) iter.Seq[*concept.Concept] {
	return func(yield func(*concept.Concept) bool) {
		b.mu.RLock()
		out := make([]*concept.Concept, 0, len(b.concepts))
		for c := range b.concepts {
			if f.Matches(c) {
				out = append(out, c)
			}
		}
		b.mu.RUnlock()
		sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
		for _, c := range out {
			if !yield(c) {
				return
			}
		}
	}
}

// notice builds a board-originated message about a concept.
func (b *Board) notice(event NoticeEvent, subject *concept.Concept) *concept.Concept {
	m, err := concept.NewOfClass(string(event), vocabulary.Message)
	if err != nil {
		m = concept.New(string(event))
	}
	p, err := concept.NewPropertyOfClass("subject", SubjectProperty, subject)
	if err == nil {
		_ = m.AddProperty(p)
	}
	return m
}

// classNotice builds a board-originated message about a concept class.
func (b *Board) classNotice(event NoticeEvent, subject *concept.Class) *concept.Concept {
	m, err := concept.NewOfClass(string(event), vocabulary.Message)
	if err != nil {
		m = concept.New(string(event))
	}
	p, err := concept.NewPropertyOfClass("subject", SubjectProperty, subject)
	if err == nil {
		_ = m.AddProperty(p)
	}
	return m
}

// deliver fans a board-sourced notice out to the recipients, one goroutine
// per recipient so that a slow recipient delays nobody.
func (b *Board) deliver(recipients []Subscriber, message *concept.Concept) {
	b.deliverFrom(b.self, recipients, message)
}

func (b *Board) deliverFrom(source *concept.Concept, recipients []Subscriber, message *concept.Concept) {
	for _, r := range recipients {
		go r.Signal(source, message)
	}
}

func validateSignal(source, message *concept.Concept) error {
	if source == nil {
		return concept.NewError(concept.KindTypeMismatch, "source is not well-formed")
	}
	if message == nil {
		return concept.NewError(concept.KindTypeMismatch, "message is not well-formed")
	}
	return nil
}

func subscriberList(subs map[string]Subscriber) []Subscriber {
	if len(subs) == 0 {
		return nil
	}
	out := make([]Subscriber, 0, len(subs))
	for _, s := range subs {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

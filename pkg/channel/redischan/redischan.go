// Package redischan provides a Redis-backed point-to-point channel between
// agents, suitable for societies whose members run in separate processes.
//
// # Overview
//
// Each agent owns one Pub/Sub channel, namespaced by society so that
// multiple societies can safely coexist on a single Redis server:
//
//	warren:{society}:agent:{agent_id}:signals
//
// A Channel is the sending side, bound to one recipient. A Subscription is
// the receiving side; Bind pumps a subscription straight into an agent's
// mailbox. Delivery is ordered and at-most-once: a recipient that is not
// subscribed at send time receives nothing.
//
// Signals travel as JSON envelopes carrying the source and message names
// and their class names. Classes are resolved against the receiver's
// registry; a class name unknown to the receiver degrades to the root
// Concept class.
package redischan

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dyluth/warren/pkg/concept"
)

// SignalChannel returns the Pub/Sub channel name for an agent's signals.
// Pattern: warren:{society}:agent:{agent_id}:signals
func SignalChannel(society, agentID string) string {
	return fmt.Sprintf("warren:%s:agent:%s:signals", society, agentID)
}

// Envelope is the wire form of a signal.
type Envelope struct {
	Source       string `json:"source"`
	SourceClass  string `json:"source_class"`
	Message      string `json:"message"`
	MessageClass string `json:"message_class"`
	SentAtMs     int64  `json:"sent_at_ms"`
}

// Validate checks that the envelope is well-formed.
func (e *Envelope) Validate() error {
	if e.Source == "" {
		return fmt.Errorf("envelope source cannot be empty")
	}
	if e.Message == "" {
		return fmt.Errorf("envelope message cannot be empty")
	}
	return nil
}

// Channel is the sending side of a Redis-backed signal path to one agent.
// It implements the agent package's Channel contract. Safe for concurrent
// use.
type Channel struct {
	rdb     *redis.Client
	society string
	agentID string
}

// New creates a channel to the agent identified by agentID within the named
// society.
func New(redisOpts *redis.Options, society, agentID string) (*Channel, error) {
	if society == "" {
		return nil, fmt.Errorf("society name cannot be empty")
	}
	if agentID == "" {
		return nil, fmt.Errorf("agent id cannot be empty")
	}
	return &Channel{
		rdb:     redis.NewClient(redisOpts),
		society: society,
		agentID: agentID,
	}, nil
}

// Ping verifies Redis connectivity. Useful for health checks.
func (c *Channel) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Signal publishes the signal to the recipient's channel. At-most-once: if
// the recipient is not subscribed when Signal runs, the signal is lost.
func (c *Channel) Signal(ctx context.Context, source, message *concept.Concept) error {
	if source == nil {
		return concept.NewError(concept.KindTypeMismatch, "source is not well-formed")
	}
	if message == nil {
		return concept.NewError(concept.KindTypeMismatch, "message is not well-formed")
	}

	env := Envelope{
		Source:       source.Name(),
		SourceClass:  source.Class().Name(),
		Message:      message.Name(),
		MessageClass: message.Class().Name(),
		SentAtMs:     time.Now().UnixMilli(),
	}
	payload, err := json.Marshal(&env)
	if err != nil {
		return fmt.Errorf("failed to marshal signal envelope: %w", err)
	}

	channel := SignalChannel(c.society, c.agentID)
	if err := c.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish signal: %w", err)
	}
	return nil
}

// Close closes the Redis connection. Implements io.Closer.
func (c *Channel) Close() error {
	return c.rdb.Close()
}

// Subscription represents an active Pub/Sub subscription to an agent's
// signals. Caller must call Close() when done to clean up resources.
type Subscription struct {
	signals <-chan *Envelope
	errors  <-chan error
	cancel  func()
	once    sync.Once
}

// Signals returns the channel of incoming signal envelopes.
// The channel is closed when the subscription is closed or the context is
// cancelled.
func (s *Subscription) Signals() <-chan *Envelope {
	return s.signals
}

// Errors returns the channel of subscription errors.
// Errors are non-fatal unmarshaling failures; the subscription continues
// and the malformed message is skipped.
func (s *Subscription) Errors() <-chan error {
	return s.errors
}

// Close stops the subscription and cleans up resources. Implements
// io.Closer. Safe to call multiple times.
func (s *Subscription) Close() error {
	s.once.Do(s.cancel)
	return nil
}

// Subscribe opens the receiving side of an agent's signal channel.
// Caller must call subscription.Close() when done; context cancellation
// also stops the subscription.
//
// Envelopes are delivered on a buffered channel (size 10). A subscriber
// that falls behind may lose signals to Redis Pub/Sub's at-most-once
// delivery.
func Subscribe(ctx context.Context, redisOpts *redis.Options, society, agentID string) (*Subscription, error) {
	if society == "" {
		return nil, fmt.Errorf("society name cannot be empty")
	}
	if agentID == "" {
		return nil, fmt.Errorf("agent id cannot be empty")
	}

	rdb := redis.NewClient(redisOpts)
	pubsub := rdb.Subscribe(ctx, SignalChannel(society, agentID))

	// Confirm the subscription is live before returning, so a signal sent
	// after Subscribe returns is not lost to setup latency.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		rdb.Close()
		return nil, fmt.Errorf("failed to subscribe to signal channel: %w", err)
	}

	signalsChan := make(chan *Envelope, 10)
	errorsChan := make(chan error, 10)
	subCtx, cancelFunc := context.WithCancel(ctx)

	go func() {
		defer close(signalsChan)
		defer close(errorsChan)
		defer pubsub.Close()
		defer rdb.Close()

		ch := pubsub.Channel()

		for {
			select {
			case <-subCtx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}

				var env Envelope
				if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
					select {
					case errorsChan <- fmt.Errorf("failed to unmarshal signal envelope: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}
				if err := env.Validate(); err != nil {
					select {
					case errorsChan <- fmt.Errorf("invalid signal envelope: %w", err):
					case <-subCtx.Done():
						return
					}
					continue
				}

				select {
				case signalsChan <- &env:
				case <-subCtx.Done():
					return
				}
			}
		}
	}()

	return &Subscription{
		signals: signalsChan,
		errors:  errorsChan,
		cancel:  cancelFunc,
	}, nil
}

// Endpoint is the local delivery target for received signals. The agent
// runtime satisfies it.
type Endpoint interface {
	Signal(source, message *concept.Concept)
}

// Bind pumps a subscription into an endpoint until the subscription closes
// or the context is cancelled. Envelope class names are resolved against
// registry; unknown classes degrade to the root Concept class. Bind blocks
// and is normally run in its own goroutine.
func Bind(ctx context.Context, sub *Subscription, registry *concept.Registry, endpoint Endpoint) {
	for {
		select {
		case <-ctx.Done():
			return
		case env, ok := <-sub.Signals():
			if !ok {
				return
			}
			endpoint.Signal(
				conceptFromWire(registry, env.Source, env.SourceClass),
				conceptFromWire(registry, env.Message, env.MessageClass),
			)
		}
	}
}

func conceptFromWire(registry *concept.Registry, name, className string) *concept.Concept {
	if registry != nil {
		if class, ok := registry.Lookup(className); ok {
			if c, err := concept.NewOfClass(name, class); err == nil {
				return c
			}
		}
	}
	return concept.New(name)
}

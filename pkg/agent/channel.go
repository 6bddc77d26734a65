package agent

import (
	"context"
	"sync"

	"github.com/dyluth/warren/pkg/concept"
)

// Channel is a point-to-point signal path to a single agent, independent of
// the blackboard. Implementations decide the transport; the contract is
// ordered, at-most-once delivery. Signal may block on the transport and
// honors ctx cancellation. Close releases the transport and is idempotent.
type Channel interface {
	Signal(ctx context.Context, source, message *concept.Concept) error
	Close() error
}

// Endpoint is the receiving side of an in-process channel. *Runtime
// satisfies it.
type Endpoint interface {
	Signal(source, message *concept.Concept)
}

// Local is an in-process Channel delivering directly to an endpoint's
// mailbox. It exists for societies that run in a single process and for
// tests; cross-process societies use a transport-backed Channel instead.
type Local struct {
	mu       sync.Mutex
	endpoint Endpoint
	closed   bool
}

// NewLocal wires a local channel to the given endpoint.
func NewLocal(endpoint Endpoint) *Local {
	return &Local{endpoint: endpoint}
}

// Signal delivers the signal to the endpoint's mailbox. Returns a
// KindValidation error once the channel is closed.
func (l *Local) Signal(ctx context.Context, source, message *concept.Concept) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if source == nil {
		return concept.NewError(concept.KindTypeMismatch, "source is not well-formed")
	}
	if message == nil {
		return concept.NewError(concept.KindTypeMismatch, "message is not well-formed")
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return concept.NewError(concept.KindValidation, "channel is closed")
	}
	l.endpoint.Signal(source, message)
	return nil
}

// Close marks the channel closed. Subsequent signals fail; Close is
// idempotent.
func (l *Local) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	return nil
}

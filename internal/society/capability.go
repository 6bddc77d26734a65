package society

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/dyluth/warren/pkg/agent"
	"github.com/dyluth/warren/pkg/concept"
	"github.com/dyluth/warren/pkg/vocabulary"
)

// capabilityForRole builds the built-in capability for a configured role.
func capabilityForRole(role string) (agent.Capability, error) {
	switch role {
	case "watcher":
		return &watcherCapability{}, nil
	case "heartbeat":
		return &heartbeatCapability{}, nil
	case "echo":
		return &echoCapability{}, nil
	default:
		return nil, fmt.Errorf("unknown capability role: %s", role)
	}
}

// watcherCapability observes the signals its subscriptions bring in and
// keeps a running count.
type watcherCapability struct {
	observed atomic.Int64
}

func (w *watcherCapability) Activity(ctx context.Context, rt *agent.Runtime) {
	log.Printf("[DEBUG] watcher %s has observed %d signals", rt.Name(), w.observed.Load())
}

func (w *watcherCapability) HandleSignal(ctx context.Context, rt *agent.Runtime, source, message *concept.Concept) {
	w.observed.Add(1)
	log.Printf("[INFO] watcher %s observed %q from %q", rt.Name(), message.Name(), source.Name())
}

// Observed returns the number of signals the watcher has handled.
func (w *watcherCapability) Observed() int64 {
	return w.observed.Load()
}

// heartbeatCapability publishes an Event concept on every activity tick,
// giving class subscribers something to watch.
type heartbeatCapability struct {
	beats atomic.Int64
}

func (h *heartbeatCapability) Activity(ctx context.Context, rt *agent.Runtime) {
	board := rt.Board()
	if board == nil {
		return
	}
	n := h.beats.Add(1)
	pulse, err := concept.NewOfClass(fmt.Sprintf("%s-pulse-%d", rt.Name(), n), vocabulary.Class("Event"))
	if err != nil {
		log.Printf("[DEBUG] heartbeat %s failed to build pulse: %v", rt.Name(), err)
		return
	}
	if err := board.Publish(pulse, rt); err != nil {
		log.Printf("[DEBUG] heartbeat %s failed to publish pulse: %v", rt.Name(), err)
	}
}

func (h *heartbeatCapability) HandleSignal(ctx context.Context, rt *agent.Runtime, source, message *concept.Concept) {
	log.Printf("[DEBUG] heartbeat %s ignoring signal %q", rt.Name(), message.Name())
}

// Beats returns the number of pulses published so far.
func (h *heartbeatCapability) Beats() int64 {
	return h.beats.Load()
}

// echoCapability sends every signal it receives back out through its
// "reply" channel, when one is wired.
type echoCapability struct{}

func (e *echoCapability) Activity(ctx context.Context, rt *agent.Runtime) {}

func (e *echoCapability) HandleSignal(ctx context.Context, rt *agent.Runtime, source, message *concept.Concept) {
	ch := rt.Channel("reply")
	if ch == nil {
		log.Printf("[DEBUG] echo %s has no reply channel, dropping %q", rt.Name(), message.Name())
		return
	}
	if err := ch.Signal(ctx, rt.Self(), message); err != nil {
		log.Printf("[INFO] echo %s failed to reply: %v", rt.Name(), err)
	}
}

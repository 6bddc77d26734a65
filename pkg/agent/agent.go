package agent

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dyluth/warren/pkg/blackboard"
	"github.com/dyluth/warren/pkg/concept"
	"github.com/dyluth/warren/pkg/vocabulary"
)

// Status represents the lifecycle state of an agent runtime.
type Status string

const (
	// StatusCreated means the runtime exists but has never been started.
	StatusCreated Status = "created"

	// StatusRunning means the runtime is dispatching signals and running
	// its periodic activity.
	StatusRunning Status = "running"

	// StatusPaused means the runtime still accepts and dispatches signals
	// but skips its periodic activity.
	StatusPaused Status = "paused"

	// StatusStopped is terminal. A stopped runtime drops signals and
	// cannot be restarted.
	StatusStopped Status = "stopped"
)

// Validate checks if the Status is a valid enum value.
func (s Status) Validate() error {
	switch s {
	case StatusCreated, StatusRunning, StatusPaused, StatusStopped:
		return nil
	default:
		return fmt.Errorf("invalid agent status: %q", s)
	}
}

// Capability is the behavior an agent carries. The runtime owns the
// lifecycle and the mailbox; the capability owns what the agent actually
// does with its time and its signals.
//
// Activity is invoked repeatedly on the runtime's activity interval while
// the agent is running, never while paused. HandleSignal is invoked for
// each queued signal in arrival order; calls are serialized per agent, so
// implementations need no internal locking against themselves.
type Capability interface {
	Activity(ctx context.Context, rt *Runtime)
	HandleSignal(ctx context.Context, rt *Runtime, source, message *concept.Concept)
}

// Config holds everything needed to build an agent runtime.
type Config struct {
	// Name is the human-facing agent name. Required.
	Name string

	// Capability supplies the agent's behavior. Optional; a runtime
	// without a capability still participates in subscriptions but
	// discards its signals.
	Capability Capability

	// Board is the blackboard the agent collaborates through. Optional;
	// a board-less agent can still be signaled point to point.
	Board *blackboard.Board

	// ActivityInterval is the period of the capability's Activity loop.
	// Zero disables the loop.
	ActivityInterval time.Duration
}

// Validate checks the config for required fields.
func (c *Config) Validate() error {
	if c.Name == "" {
		return concept.NewError(concept.KindValidation, "agent name is required")
	}
	if c.ActivityInterval < 0 {
		return concept.NewError(concept.KindValidation, "activity interval must not be negative")
	}
	return nil
}

type envelope struct {
	source  *concept.Concept
	message *concept.Concept
}

// Runtime is the lifecycle shell around a capability: a uuid identity, a
// guarded state machine, an unbounded FIFO mailbox drained by a dispatcher
// goroutine, and an optional periodic activity loop.
//
// Runtime satisfies blackboard.Subscriber. Signal never blocks the caller;
// it appends to the mailbox and returns. Handling is serialized in arrival
// order by the dispatcher.
type Runtime struct {
	id         string
	name       string
	self       *concept.Concept
	capability Capability
	board      *blackboard.Board
	interval   time.Duration

	mu       sync.Mutex
	status   Status
	mailbox  []envelope
	channels map[string]Channel
	ctx      context.Context
	cancel   context.CancelFunc

	wake chan struct{}
	wg   sync.WaitGroup
}

// New creates an agent runtime in the created state.
func New(cfg Config) (*Runtime, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid agent config: %w", err)
	}
	self, err := concept.NewOfClass(cfg.Name, vocabulary.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to build agent identity: %w", err)
	}
	return &Runtime{
		id:         uuid.New().String(),
		name:       cfg.Name,
		self:       self,
		capability: cfg.Capability,
		board:      cfg.Board,
		interval:   cfg.ActivityInterval,
		status:     StatusCreated,
		channels:   make(map[string]Channel),
		wake:       make(chan struct{}, 1),
	}, nil
}

// ID returns the agent's uuid identity.
func (r *Runtime) ID() string { return r.id }

// Name returns the agent's configured name.
func (r *Runtime) Name() string { return r.name }

// Self returns the concept that reifies this agent as a signal source.
func (r *Runtime) Self() *concept.Concept { return r.self }

// Board returns the blackboard the agent collaborates through, or nil.
func (r *Runtime) Board() *blackboard.Board { return r.board }

// Status returns the current lifecycle state.
func (r *Runtime) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.status
}

// IsAlive reports whether the agent is running or paused.
func (r *Runtime) IsAlive() bool {
	s := r.Status()
	return s == StatusRunning || s == StatusPaused
}

// Start moves the agent into the running state. From created it launches
// the dispatcher and activity goroutines under the given context; from
// paused it resumes the activity loop. Any other state returns a
// KindInvalidStateTransition error and leaves the state unchanged.
func (r *Runtime) Start(ctx context.Context) error {
	r.mu.Lock()
	switch r.status {
	case StatusPaused:
		r.status = StatusRunning
		r.mu.Unlock()
		log.Printf("[INFO] agent %s (%s) resumed", r.name, r.id)
		return nil
	case StatusCreated:
		// fall through to the fresh start below
	default:
		current := r.status
		r.mu.Unlock()
		return concept.NewError(concept.KindInvalidStateTransition,
			"cannot start agent %q from state %q", r.name, current)
	}

	r.ctx, r.cancel = context.WithCancel(ctx)
	r.status = StatusRunning
	r.mu.Unlock()

	r.wg.Add(1)
	go r.dispatch()
	if r.capability != nil && r.interval > 0 {
		r.wg.Add(1)
		go r.activityLoop()
	}

	log.Printf("[INFO] agent %s (%s) started", r.name, r.id)
	return nil
}

// Pause suspends the activity loop. Only a running agent can pause; signals
// are still accepted and dispatched while paused.
func (r *Runtime) Pause() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.status != StatusRunning {
		return concept.NewError(concept.KindInvalidStateTransition,
			"cannot pause agent %q from state %q", r.name, r.status)
	}
	r.status = StatusPaused
	log.Printf("[INFO] agent %s (%s) paused", r.name, r.id)
	return nil
}

// Stop terminates the agent. It cancels the runtime context, withdraws
// every board subscription so no further signals arrive, and waits for the
// dispatcher and activity goroutines to exit. Stop is terminal; a stopped
// agent cannot be restarted. Stopping a stopped agent returns a
// KindInvalidStateTransition error.
func (r *Runtime) Stop() error {
	r.mu.Lock()
	if r.status == StatusStopped {
		r.mu.Unlock()
		return concept.NewError(concept.KindInvalidStateTransition,
			"agent %q is already stopped", r.name)
	}
	r.status = StatusStopped
	cancel := r.cancel
	r.mu.Unlock()

	if r.board != nil {
		r.board.UnsubscribeAgent(r)
	}
	if cancel != nil {
		cancel()
	}
	r.wg.Wait()

	log.Printf("[INFO] agent %s (%s) stopped", r.name, r.id)
	return nil
}

// Signal queues a signal for the agent. It never blocks: the mailbox is
// unbounded and handling happens on the dispatcher goroutine in arrival
// order. Signals sent to a stopped agent are dropped.
func (r *Runtime) Signal(source, message *concept.Concept) {
	r.mu.Lock()
	if r.status == StatusStopped {
		r.mu.Unlock()
		return
	}
	r.mailbox = append(r.mailbox, envelope{source: source, message: message})
	r.mu.Unlock()

	select {
	case r.wake <- struct{}{}:
	default:
	}
}

// Connect attaches a named outbound channel. Wiring only: the runtime does
// not own the channel's lifecycle and does not close it on Stop.
func (r *Runtime) Connect(name string, ch Channel) error {
	if name == "" {
		return concept.NewError(concept.KindValidation, "channel name is required")
	}
	if ch == nil {
		return concept.NewError(concept.KindTypeMismatch, "channel is not well-formed")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.channels[name]; exists {
		return concept.NewError(concept.KindValidation,
			"agent %q already has a channel named %q", r.name, name)
	}
	r.channels[name] = ch
	return nil
}

// Disconnect detaches a named channel. Detaching an unknown name is a no-op.
func (r *Runtime) Disconnect(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.channels, name)
}

// Channel returns the channel attached under name, or nil.
func (r *Runtime) Channel(name string) Channel {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.channels[name]
}

// ChannelNames returns the attached channel names in sorted order.
func (r *Runtime) ChannelNames() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.channels))
	for name := range r.channels {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// dispatch drains the mailbox, one signal at a time, until the runtime
// context is canceled.
func (r *Runtime) dispatch() {
	defer r.wg.Done()
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-r.wake:
		}
		for {
			r.mu.Lock()
			if len(r.mailbox) == 0 {
				r.mu.Unlock()
				break
			}
			env := r.mailbox[0]
			r.mailbox = r.mailbox[1:]
			r.mu.Unlock()

			if r.capability != nil {
				r.capability.HandleSignal(r.ctx, r, env.source, env.message)
			} else {
				log.Printf("[DEBUG] agent %s discarding signal: no capability", r.name)
			}
		}
	}
}

// activityLoop ticks the capability's Activity while the agent is running.
// Ticks that land while paused are skipped, not deferred.
func (r *Runtime) activityLoop() {
	defer r.wg.Done()
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-r.ctx.Done():
			return
		case <-ticker.C:
			if r.Status() != StatusRunning {
				continue
			}
			r.capability.Activity(r.ctx, r)
		}
	}
}

// Package society wires a configured set of agents to a shared blackboard
// and runs them as one unit.
//
// The engine builds a class registry loaded with the inherent vocabulary, a
// blackboard named after the society, and one agent runtime per configured
// agent. Class subscriptions from the config are taken out at start. When
// Redis is configured, each agent also gets an inbound signal subscription,
// so collaborators in other processes can signal it point to point.
package society

import (
	"context"
	"fmt"
	"log"
	"sort"

	"github.com/redis/go-redis/v9"

	"github.com/dyluth/warren/internal/config"
	"github.com/dyluth/warren/pkg/agent"
	"github.com/dyluth/warren/pkg/blackboard"
	"github.com/dyluth/warren/pkg/channel/redischan"
	"github.com/dyluth/warren/pkg/concept"
	"github.com/dyluth/warren/pkg/vocabulary"
)

// Engine owns the lifecycle of a society: its blackboard, its agent
// runtimes, and their optional Redis signal subscriptions.
type Engine struct {
	cfg          *config.WarrenConfig
	registry     *concept.Registry
	board        *blackboard.Board
	runtimes     map[string]*agent.Runtime
	capabilities map[string]agent.Capability
}

// New builds a society from its configuration. Agents are created but not
// started.
func New(cfg *config.WarrenConfig) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid society config: %w", err)
	}

	registry := concept.NewRegistry()
	if err := vocabulary.Register(registry); err != nil {
		return nil, fmt.Errorf("failed to register vocabulary: %w", err)
	}
	board := blackboard.New(cfg.Society, registry)

	runtimes := make(map[string]*agent.Runtime, len(cfg.Agents))
	capabilities := make(map[string]agent.Capability, len(cfg.Agents))
	for name, agentCfg := range cfg.Agents {
		capability, err := capabilityForRole(agentCfg.Role)
		if err != nil {
			return nil, fmt.Errorf("agent '%s': %w", name, err)
		}
		capabilities[name] = capability
		rt, err := agent.New(agent.Config{
			Name:             name,
			Capability:       capability,
			Board:            board,
			ActivityInterval: agentCfg.Interval(),
		})
		if err != nil {
			return nil, fmt.Errorf("agent '%s': %w", name, err)
		}
		runtimes[name] = rt
	}

	return &Engine{
		cfg:          cfg,
		registry:     registry,
		board:        board,
		runtimes:     runtimes,
		capabilities: capabilities,
	}, nil
}

// Board returns the society's blackboard.
func (e *Engine) Board() *blackboard.Board { return e.board }

// Runtime returns the named agent runtime, or nil.
func (e *Engine) Runtime(name string) *agent.Runtime { return e.runtimes[name] }

// AgentNames returns the configured agent names in sorted order.
func (e *Engine) AgentNames() []string {
	names := make([]string, 0, len(e.runtimes))
	for name := range e.runtimes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start launches every agent, takes out the configured class subscriptions,
// opens Redis signal subscriptions when Redis is configured, and blocks
// until the context is cancelled. On cancellation it stops every agent and
// closes the Redis subscriptions before returning.
func (e *Engine) Start(ctx context.Context) error {
	log.Printf("[INFO] society '%s' starting with %d agents", e.cfg.Society, len(e.runtimes))

	// Deterministic start order.
	names := e.AgentNames()

	for _, name := range names {
		if err := e.runtimes[name].Start(ctx); err != nil {
			return fmt.Errorf("failed to start agent '%s': %w", name, err)
		}
	}

	if err := e.subscribeClasses(); err != nil {
		return err
	}

	var subs []*redischan.Subscription
	if e.cfg.Redis != nil {
		opts := &redis.Options{
			Addr:     e.cfg.Redis.Addr,
			Password: e.cfg.Redis.Password,
			DB:       e.cfg.Redis.DB,
		}
		for _, name := range names {
			rt := e.runtimes[name]
			sub, err := redischan.Subscribe(ctx, opts, e.cfg.Society, rt.ID())
			if err != nil {
				return fmt.Errorf("failed to open signal subscription for agent '%s': %w", name, err)
			}
			subs = append(subs, sub)
			go redischan.Bind(ctx, sub, e.registry, rt)
			log.Printf("[DEBUG] agent %s listening on %s", name, redischan.SignalChannel(e.cfg.Society, rt.ID()))
		}
	}

	// Wait for context cancellation
	<-ctx.Done()
	log.Printf("[INFO] Shutdown signal received, initiating graceful shutdown")

	for _, sub := range subs {
		_ = sub.Close()
	}
	for _, name := range names {
		if err := e.runtimes[name].Stop(); err != nil {
			log.Printf("[DEBUG] agent %s stop: %v", name, err)
		}
	}

	log.Printf("[INFO] society '%s' shutdown complete", e.cfg.Society)
	return nil
}

// subscribeClasses takes out the class subscriptions the config asks for,
// resolving class names against the registry.
func (e *Engine) subscribeClasses() error {
	for name, agentCfg := range e.cfg.Agents {
		rt := e.runtimes[name]
		for _, className := range agentCfg.Subscribes {
			class, ok := e.registry.Lookup(className)
			if !ok {
				return fmt.Errorf("agent '%s': unknown concept class: %s", name, className)
			}
			if err := e.board.SubscribeClass(class, rt); err != nil {
				return fmt.Errorf("agent '%s': failed to subscribe to class %s: %w", name, className, err)
			}
		}
	}
	return nil
}

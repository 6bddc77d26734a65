// Package agent provides the lifecycle runtime that turns a capability into
// a long-lived collaborator on a blackboard.
//
// # Overview
//
// A Runtime pairs a uuid identity with a guarded state machine
// (created → running → paused → stopped, with resume) and an unbounded FIFO
// mailbox. The
// runtime owns concurrency; the Capability owns behavior. Signal handling is
// serialized per agent in arrival order, and the capability's Activity runs
// on a configurable tick while the agent is running.
//
// Stop is terminal: it withdraws the agent's board subscriptions before
// waiting for its goroutines, so once Stop returns no further signals can
// arrive and none are in flight.
//
// # Channels
//
// A Channel is a point-to-point signal path to one agent, used when two
// agents need to talk without publishing on the board. Local delivers in
// process; channel/redischan delivers over Redis. The runtime only wires
// channels (Connect/Disconnect); it does not own their lifecycle.
//
// # Usage Example
//
//	rt, err := agent.New(agent.Config{
//		Name:             "observer",
//		Capability:       cap,
//		Board:            board,
//		ActivityInterval: time.Second,
//	})
//	if err != nil {
//		return err
//	}
//	if err := rt.Start(ctx); err != nil {
//		return err
//	}
//	defer rt.Stop()
package agent

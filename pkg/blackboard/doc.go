// Package blackboard provides the shared publish/subscribe workspace through
// which a society of agents collaborates.
//
// # Overview
//
// The board implements the Blackboard architectural pattern: a common context
// where independent agents publish concepts, subscribe to concepts they care
// about, and signal one another without sharing a concurrency model. The
// board holds no opinion about what agents do with a signal; it guarantees
// only who receives it and when the recipient set was decided.
//
// # Subscriptions and Promotion
//
// Agents subscribe to individual published concepts or to concept classes.
// A class subscription is latent: it binds to no concept until a conforming
// instance is published. At publish time the board resolves every class
// subscription against the new concept's class, synchronously and atomically
// with the publication, promoting each match to a concept subscription.
// Promotion is re-resolved on every publish, so a class subscription taken
// out after a concept was unpublished still catches its republication.
//
// # Ordering and Delivery
//
// All board operations are linearizable. A signaling call snapshots its
// recipients under the same lock that orders the call, so an agent whose
// Unsubscribe has returned receives no later signal. Delivery itself is
// asynchronous, one goroutine per recipient; the board never blocks a
// publisher on a slow subscriber.
//
// # Usage Example
//
//	import (
//		"github.com/dyluth/warren/pkg/blackboard"
//		"github.com/dyluth/warren/pkg/concept"
//		"github.com/dyluth/warren/pkg/vocabulary"
//	)
//
//	board := blackboard.New("warren", nil)
//	alert, _ := concept.NewOfClass("overload", vocabulary.Class("Event"))
//
//	if err := board.SubscribeClass(vocabulary.Class("Event"), responder); err != nil {
//		return err
//	}
//	// Publishing promotes responder to a subscriber of alert.
//	if err := board.Publish(alert, monitor); err != nil {
//		return err
//	}
package blackboard

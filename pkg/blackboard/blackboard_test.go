package blackboard

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dyluth/warren/pkg/concept"
	"github.com/dyluth/warren/pkg/vocabulary"
)

// stubAgent records every signal it receives. Signal is safe to call from
// multiple goroutines, matching the board's delivery model.
type stubAgent struct {
	id string

	mu      sync.Mutex
	signals []receivedSignal
}

type receivedSignal struct {
	source  *concept.Concept
	message *concept.Concept
}

func newStubAgent(id string) *stubAgent {
	return &stubAgent{id: id}
}

func (a *stubAgent) ID() string { return a.id }

func (a *stubAgent) Signal(source, message *concept.Concept) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.signals = append(a.signals, receivedSignal{source: source, message: message})
}

func (a *stubAgent) received() []receivedSignal {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]receivedSignal, len(a.signals))
	copy(out, a.signals)
	return out
}

// waitForSignals blocks until the agent has received at least n signals.
// Delivery is asynchronous, so tests that assert on received notices must
// wait rather than check immediately.
func waitForSignals(t *testing.T, a *stubAgent, n int) []receivedSignal {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(a.received()) >= n
	}, 2*time.Second, 5*time.Millisecond, "agent %s never received %d signals", a.id, n)
	return a.received()
}

func messageNames(signals []receivedSignal) []string {
	names := make([]string, len(signals))
	for i, s := range signals {
		names[i] = s.message.Name()
	}
	return names
}

func TestPublish(t *testing.T) {
	t.Run("publish makes concept visible", func(t *testing.T) {
		board := New("test", nil)
		agent := newStubAgent("publisher")
		c := concept.New("door")

		require.NoError(t, board.Publish(c, agent))

		assert.True(t, board.ConceptExists(c))
		assert.Equal(t, 1, board.NumberOfConcepts())

		publisher, err := board.Publisher(c)
		require.NoError(t, err)
		assert.Equal(t, agent, publisher)
	})

	t.Run("publisher receives published notice", func(t *testing.T) {
		board := New("test", nil)
		agent := newStubAgent("publisher")
		c := concept.New("door")

		require.NoError(t, board.Publish(c, agent))

		signals := waitForSignals(t, agent, 1)
		assert.Equal(t, string(NoticePublished), signals[0].message.Name())
		assert.Equal(t, "test", signals[0].source.Name())
		assert.Equal(t, vocabulary.Message, signals[0].message.Class())
		require.True(t, signals[0].message.PropertyExists(SubjectProperty))
		subject, ok := signals[0].message.Property(SubjectProperty)
		require.True(t, ok)
		assert.Same(t, c, subject.Value())
	})

	t.Run("republish reassigns publisher", func(t *testing.T) {
		board := New("test", nil)
		first := newStubAgent("first")
		second := newStubAgent("second")
		c := concept.New("door")

		require.NoError(t, board.Publish(c, first))
		require.NoError(t, board.Publish(c, second))

		assert.Equal(t, 1, board.NumberOfConcepts())
		publisher, err := board.Publisher(c)
		require.NoError(t, err)
		assert.Equal(t, second, publisher)
	})

	t.Run("nil concept is a type mismatch", func(t *testing.T) {
		board := New("test", nil)
		err := board.Publish(nil, newStubAgent("a"))
		assert.True(t, concept.IsTypeMismatch(err))
	})

	t.Run("nil agent is a type mismatch", func(t *testing.T) {
		board := New("test", nil)
		err := board.Publish(concept.New("door"), nil)
		assert.True(t, concept.IsTypeMismatch(err))
	})
}

func TestUnpublish(t *testing.T) {
	t.Run("unpublish clears publication and subscriptions", func(t *testing.T) {
		board := New("test", nil)
		publisher := newStubAgent("publisher")
		subscriber := newStubAgent("subscriber")
		c := concept.New("door")

		require.NoError(t, board.Publish(c, publisher))
		require.NoError(t, board.Subscribe(c, subscriber))

		board.Unpublish(c)

		assert.False(t, board.ConceptExists(c))
		assert.Equal(t, 0, board.NumberOfConcepts())

		_, err := board.Publisher(c)
		assert.True(t, concept.IsNotPublished(err))
		_, err = board.Subscribers(c)
		assert.True(t, concept.IsNotPublished(err))
	})

	t.Run("publisher and subscribers receive notices", func(t *testing.T) {
		board := New("test", nil)
		publisher := newStubAgent("publisher")
		subscriber := newStubAgent("subscriber")
		c := concept.New("door")

		require.NoError(t, board.Publish(c, publisher))
		require.NoError(t, board.Subscribe(c, subscriber))
		board.Unpublish(c)

		pubSignals := waitForSignals(t, publisher, 2)
		assert.Contains(t, messageNames(pubSignals), string(NoticeUnpublished))

		subSignals := waitForSignals(t, subscriber, 2)
		assert.Contains(t, messageNames(subSignals), string(NoticeUnsubscribed))
	})

	t.Run("unpublishing an unpublished concept is a no-op", func(t *testing.T) {
		board := New("test", nil)
		board.Unpublish(concept.New("ghost"))
		board.Unpublish(nil)
		assert.Equal(t, 0, board.NumberOfConcepts())
	})
}

func TestSubscribe(t *testing.T) {
	t.Run("subscribe records the agent", func(t *testing.T) {
		board := New("test", nil)
		publisher := newStubAgent("publisher")
		subscriber := newStubAgent("subscriber")
		c := concept.New("door")

		require.NoError(t, board.Publish(c, publisher))
		require.NoError(t, board.Subscribe(c, subscriber))

		subs, err := board.Subscribers(c)
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, "subscriber", subs[0].ID())

		signals := waitForSignals(t, subscriber, 1)
		assert.Equal(t, string(NoticeSubscribed), signals[0].message.Name())
	})

	t.Run("subscribing to an unpublished concept fails", func(t *testing.T) {
		board := New("test", nil)
		err := board.Subscribe(concept.New("ghost"), newStubAgent("a"))
		assert.True(t, concept.IsNotPublished(err))
	})

	t.Run("duplicate subscription is a validation error", func(t *testing.T) {
		board := New("test", nil)
		subscriber := newStubAgent("subscriber")
		c := concept.New("door")

		require.NoError(t, board.Publish(c, newStubAgent("publisher")))
		require.NoError(t, board.Subscribe(c, subscriber))

		err := board.Subscribe(c, subscriber)
		assert.True(t, concept.IsValidation(err))
	})

	t.Run("subscribers are sorted by identity", func(t *testing.T) {
		board := New("test", nil)
		c := concept.New("door")
		require.NoError(t, board.Publish(c, newStubAgent("publisher")))

		for _, id := range []string{"charlie", "alpha", "bravo"} {
			require.NoError(t, board.Subscribe(c, newStubAgent(id)))
		}

		subs, err := board.Subscribers(c)
		require.NoError(t, err)
		ids := make([]string, len(subs))
		for i, s := range subs {
			ids[i] = s.ID()
		}
		assert.Equal(t, []string{"alpha", "bravo", "charlie"}, ids)
	})
}

func TestUnsubscribe(t *testing.T) {
	t.Run("unsubscribe removes the agent", func(t *testing.T) {
		board := New("test", nil)
		subscriber := newStubAgent("subscriber")
		c := concept.New("door")

		require.NoError(t, board.Publish(c, newStubAgent("publisher")))
		require.NoError(t, board.Subscribe(c, subscriber))
		require.NoError(t, board.Unsubscribe(c, subscriber))

		subs, err := board.Subscribers(c)
		require.NoError(t, err)
		assert.Empty(t, subs)
	})

	t.Run("unsubscribing a non-subscriber is a no-op", func(t *testing.T) {
		board := New("test", nil)
		c := concept.New("door")
		require.NoError(t, board.Publish(c, newStubAgent("publisher")))
		assert.NoError(t, board.Unsubscribe(c, newStubAgent("stranger")))
	})

	t.Run("unsubscribing from an unpublished concept fails", func(t *testing.T) {
		board := New("test", nil)
		err := board.Unsubscribe(concept.New("ghost"), newStubAgent("a"))
		assert.True(t, concept.IsNotPublished(err))
	})

	t.Run("no signal after unsubscribe returns", func(t *testing.T) {
		board := New("test", nil)
		subscriber := newStubAgent("subscriber")
		source := concept.New("caller")
		c := concept.New("door")

		require.NoError(t, board.Publish(c, newStubAgent("publisher")))
		require.NoError(t, board.Subscribe(c, subscriber))
		waitForSignals(t, subscriber, 1)
		require.NoError(t, board.Unsubscribe(c, subscriber))
		waitForSignals(t, subscriber, 2)

		before := len(subscriber.received())
		require.NoError(t, board.SignalSubscribers(c, source, concept.New("knock")))
		time.Sleep(50 * time.Millisecond)
		assert.Len(t, subscriber.received(), before)
	})
}

func TestUnsubscribeAgent(t *testing.T) {
	board := New("test", nil)
	agent := newStubAgent("roamer")
	door := concept.New("door")
	room := concept.New("room")

	require.NoError(t, board.Publish(door, newStubAgent("p1")))
	require.NoError(t, board.Publish(room, newStubAgent("p2")))
	require.NoError(t, board.Subscribe(door, agent))
	require.NoError(t, board.Subscribe(room, agent))
	require.NoError(t, board.SubscribeClass(vocabulary.Class("Event"), agent))

	board.UnsubscribeAgent(agent)

	for _, c := range []*concept.Concept{door, room} {
		subs, err := board.Subscribers(c)
		require.NoError(t, err)
		assert.Empty(t, subs)
	}
	assert.Empty(t, board.ClassSubscribers(vocabulary.Class("Event")))
}

func TestSignalSubscribers(t *testing.T) {
	t.Run("all subscribers receive the signal", func(t *testing.T) {
		board := New("test", nil)
		source := concept.New("caller")
		message := concept.New("knock")
		c := concept.New("door")

		require.NoError(t, board.Publish(c, newStubAgent("publisher")))

		agents := []*stubAgent{newStubAgent("a"), newStubAgent("b"), newStubAgent("c")}
		for _, a := range agents {
			require.NoError(t, board.Subscribe(c, a))
		}

		require.NoError(t, board.SignalSubscribers(c, source, message))

		for _, a := range agents {
			signals := waitForSignals(t, a, 2)
			assert.Contains(t, messageNames(signals), "knock")
		}
	})

	t.Run("signaling an unpublished concept fails", func(t *testing.T) {
		board := New("test", nil)
		err := board.SignalSubscribers(concept.New("ghost"), concept.New("src"), concept.New("msg"))
		assert.True(t, concept.IsNotPublished(err))
	})

	t.Run("nil source or message is a type mismatch", func(t *testing.T) {
		board := New("test", nil)
		c := concept.New("door")
		require.NoError(t, board.Publish(c, newStubAgent("publisher")))

		assert.True(t, concept.IsTypeMismatch(board.SignalSubscribers(c, nil, concept.New("msg"))))
		assert.True(t, concept.IsTypeMismatch(board.SignalSubscribers(c, concept.New("src"), nil)))
	})
}

func TestSignalPublisher(t *testing.T) {
	t.Run("publisher receives the signal", func(t *testing.T) {
		board := New("test", nil)
		publisher := newStubAgent("publisher")
		c := concept.New("door")

		require.NoError(t, board.Publish(c, publisher))
		require.NoError(t, board.SignalPublisher(c, concept.New("caller"), concept.New("knock")))

		signals := waitForSignals(t, publisher, 2)
		assert.Contains(t, messageNames(signals), "knock")
	})

	t.Run("unpublished concept fails", func(t *testing.T) {
		board := New("test", nil)
		err := board.SignalPublisher(concept.New("ghost"), concept.New("src"), concept.New("msg"))
		assert.True(t, concept.IsNotPublished(err))
	})
}

func TestClassSubscription(t *testing.T) {
	t.Run("publish promotes class subscribers", func(t *testing.T) {
		board := New("test", nil)
		watcher := newStubAgent("watcher")
		event := vocabulary.Class("Event")

		require.NoError(t, board.SubscribeClass(event, watcher))

		alarm, err := concept.NewOfClass("alarm", event)
		require.NoError(t, err)
		require.NoError(t, board.Publish(alarm, newStubAgent("publisher")))

		subs, err := board.Subscribers(alarm)
		require.NoError(t, err)
		require.Len(t, subs, 1)
		assert.Equal(t, "watcher", subs[0].ID())

		signals := waitForSignals(t, watcher, 2)
		assert.Contains(t, messageNames(signals), string(NoticeSubscribed))
	})

	t.Run("promotion matches specializations", func(t *testing.T) {
		board := New("test", nil)
		watcher := newStubAgent("watcher")
		event := vocabulary.Class("Event")
		fire := concept.MustNewClass("Fire", concept.BaseConcept, event)
		require.NoError(t, board.Registry().Register(fire))

		require.NoError(t, board.SubscribeClass(event, watcher))

		blaze, err := concept.NewOfClass("blaze", fire)
		require.NoError(t, err)
		require.NoError(t, board.Publish(blaze, newStubAgent("publisher")))

		subs, err := board.Subscribers(blaze)
		require.NoError(t, err)
		require.Len(t, subs, 1)
	})

	t.Run("non-conforming publish does not promote", func(t *testing.T) {
		board := New("test", nil)
		watcher := newStubAgent("watcher")
		require.NoError(t, board.SubscribeClass(vocabulary.Class("Event"), watcher))

		thing, err := concept.NewOfClass("thing", vocabulary.Class("State"))
		require.NoError(t, err)
		require.NoError(t, board.Publish(thing, newStubAgent("publisher")))

		subs, err := board.Subscribers(thing)
		require.NoError(t, err)
		assert.Empty(t, subs)
	})

	t.Run("promotion is re-resolved on republication", func(t *testing.T) {
		board := New("test", nil)
		watcher := newStubAgent("watcher")
		event := vocabulary.Class("Event")
		require.NoError(t, board.SubscribeClass(event, watcher))

		alarm, err := concept.NewOfClass("alarm", event)
		require.NoError(t, err)
		require.NoError(t, board.Publish(alarm, newStubAgent("publisher")))
		board.Unpublish(alarm)
		require.NoError(t, board.Publish(alarm, newStubAgent("publisher")))

		subs, err := board.Subscribers(alarm)
		require.NoError(t, err)
		require.Len(t, subs, 1)
	})

	t.Run("class subscription survives promotion", func(t *testing.T) {
		board := New("test", nil)
		watcher := newStubAgent("watcher")
		event := vocabulary.Class("Event")
		require.NoError(t, board.SubscribeClass(event, watcher))

		alarm, err := concept.NewOfClass("alarm", event)
		require.NoError(t, err)
		require.NoError(t, board.Publish(alarm, newStubAgent("publisher")))

		subs := board.ClassSubscribers(event)
		require.Len(t, subs, 1)
		assert.Equal(t, "watcher", subs[0].ID())
	})

	t.Run("unregistered class is a validation error", func(t *testing.T) {
		board := New("test", nil)
		rogue := concept.MustNewClass("Rogue", concept.BaseConcept, nil)
		err := board.SubscribeClass(rogue, newStubAgent("a"))
		assert.True(t, concept.IsValidation(err))
	})

	t.Run("non-concept class is a type mismatch", func(t *testing.T) {
		board := New("test", nil)
		err := board.SubscribeClass(concept.ClassProperty, newStubAgent("a"))
		assert.True(t, concept.IsTypeMismatch(err))
	})

	t.Run("duplicate class subscription is a validation error", func(t *testing.T) {
		board := New("test", nil)
		watcher := newStubAgent("watcher")
		require.NoError(t, board.SubscribeClass(vocabulary.Class("Event"), watcher))
		err := board.SubscribeClass(vocabulary.Class("Event"), watcher)
		assert.True(t, concept.IsValidation(err))
	})

	t.Run("unsubscribe class stops future promotion", func(t *testing.T) {
		board := New("test", nil)
		watcher := newStubAgent("watcher")
		event := vocabulary.Class("Event")

		require.NoError(t, board.SubscribeClass(event, watcher))
		require.NoError(t, board.UnsubscribeClass(event, watcher))

		alarm, err := concept.NewOfClass("alarm", event)
		require.NoError(t, err)
		require.NoError(t, board.Publish(alarm, newStubAgent("publisher")))

		subs, err := board.Subscribers(alarm)
		require.NoError(t, err)
		assert.Empty(t, subs)
	})

	t.Run("unsubscribe class keeps promoted subscriptions", func(t *testing.T) {
		board := New("test", nil)
		watcher := newStubAgent("watcher")
		event := vocabulary.Class("Event")

		require.NoError(t, board.SubscribeClass(event, watcher))
		alarm, err := concept.NewOfClass("alarm", event)
		require.NoError(t, err)
		require.NoError(t, board.Publish(alarm, newStubAgent("publisher")))
		require.NoError(t, board.UnsubscribeClass(event, watcher))

		subs, err := board.Subscribers(alarm)
		require.NoError(t, err)
		require.Len(t, subs, 1)
	})
}

func TestSignalClassSubscribers(t *testing.T) {
	t.Run("class subscribers receive the signal", func(t *testing.T) {
		board := New("test", nil)
		watcher := newStubAgent("watcher")
		event := vocabulary.Class("Event")
		require.NoError(t, board.SubscribeClass(event, watcher))

		require.NoError(t, board.SignalClassSubscribers(event, concept.New("src"), concept.New("drill")))

		signals := waitForSignals(t, watcher, 2)
		assert.Contains(t, messageNames(signals), "drill")
	})

	t.Run("class without subscriptions fails", func(t *testing.T) {
		board := New("test", nil)
		err := board.SignalClassSubscribers(vocabulary.Class("Event"), concept.New("src"), concept.New("msg"))
		assert.True(t, concept.IsValidation(err))
	})
}

func TestConcepts(t *testing.T) {
	board := New("test", nil)
	publisher := newStubAgent("publisher")
	event := vocabulary.Class("Event")

	for i := 0; i < 3; i++ {
		c, err := concept.NewOfClass(fmt.Sprintf("event-%d", i), event)
		require.NoError(t, err)
		require.NoError(t, board.Publish(c, publisher))
	}
	require.NoError(t, board.Publish(concept.New("plain"), publisher))

	t.Run("unfiltered iteration is sorted by name", func(t *testing.T) {
		var names []string
		for c := range board.Concepts(concept.Filter{}) {
			names = append(names, c.Name())
		}
		assert.Equal(t, []string{"event-0", "event-1", "event-2", "plain"}, names)
	})

	t.Run("class filter matches instances", func(t *testing.T) {
		count := 0
		for range board.Concepts(concept.Filter{Class: event}) {
			count++
		}
		assert.Equal(t, 3, count)
	})

	t.Run("name filter matches exactly", func(t *testing.T) {
		var names []string
		for c := range board.Concepts(concept.Filter{Name: "plain"}) {
			names = append(names, c.Name())
		}
		assert.Equal(t, []string{"plain"}, names)
	})
}

func TestConcurrentBoard(t *testing.T) {
	board := New("test", nil)
	event := vocabulary.Class("Event")

	const agents = 8
	const perAgent = 25

	var wg sync.WaitGroup
	for i := 0; i < agents; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			a := newStubAgent(fmt.Sprintf("agent-%d", n))
			for j := 0; j < perAgent; j++ {
				c, err := concept.NewOfClass(fmt.Sprintf("c-%d-%d", n, j), event)
				assert.NoError(t, err)
				assert.NoError(t, board.Publish(c, a))
				assert.NoError(t, board.Subscribe(c, a))
				assert.NoError(t, board.SignalSubscribers(c, board.self, concept.New("ping")))
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, agents*perAgent, board.NumberOfConcepts())
}

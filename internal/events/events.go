// Package events carries progress signals from the engine to outside
// collaborators such as quest and achievement trackers.
package events

import "sync"

// Kind tags what kind of progress happened.
type Kind string

const (
	// KindCombine is emitted after a successful combination.
	KindCombine Kind = "combine"
	// KindUpgrade is emitted after every upgrade attempt, whatever its outcome.
	KindUpgrade Kind = "upgrade"
)

// Event is one progress signal.
type Event struct {
	Kind  Kind `json:"kind"`
	Count int  `json:"count"`
}

// Bus delivers events to subscribers.
type Bus interface {
	// Subscribe registers handler under name, replacing any previous handler
	// with the same name.
	Subscribe(name string, handler func(Event))

	// Unsubscribe removes the handler registered under name.
	Unsubscribe(name string)

	// Publish sends an event to every subscriber.
	Publish(event Event)
}

// SimpleBus is an in-memory bus. Handlers run synchronously on the
// publishing goroutine; delivery order between handlers is unspecified.
type SimpleBus struct {
	mu       sync.RWMutex
	handlers map[string]func(Event)
}

// NewSimpleBus creates an empty bus.
func NewSimpleBus() *SimpleBus {
	return &SimpleBus{handlers: make(map[string]func(Event))}
}

func (bus *SimpleBus) Subscribe(name string, handler func(Event)) {
	if handler == nil {
		return
	}
	bus.mu.Lock()
	defer bus.mu.Unlock()
	bus.handlers[name] = handler
}

func (bus *SimpleBus) Unsubscribe(name string) {
	bus.mu.Lock()
	defer bus.mu.Unlock()
	delete(bus.handlers, name)
}

func (bus *SimpleBus) Publish(event Event) {
	bus.mu.RLock()
	hs := make([]func(Event), 0, len(bus.handlers))
	for _, h := range bus.handlers {
		hs = append(hs, h)
	}
	bus.mu.RUnlock()

	for _, h := range hs {
		h(event)
	}
}

// NullBus drops every event.
type NullBus struct{}

func (NullBus) Subscribe(string, func(Event)) {}
func (NullBus) Unsubscribe(string)            {}
func (NullBus) Publish(Event)                 {}

// Counter tallies events by kind. It is the minimal collaborator a quest
// tracker would embed.
type Counter struct {
	mu     sync.Mutex
	totals map[Kind]int
}

// Handle adds the event's count to its kind's total.
func (c *Counter) Handle(e Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.totals == nil {
		c.totals = make(map[Kind]int)
	}
	c.totals[e.Kind] += e.Count
}

// Total returns the running total for kind.
func (c *Counter) Total(kind Kind) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totals[kind]
}

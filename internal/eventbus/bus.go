// Package eventbus delivers classified chat events to subscribers.
//
// Delivery is synchronous and ordered: Publish returns only after every
// handler subscribed to the event's kind, followed by every wildcard handler,
// has run. A panicking handler is logged and skipped.
package eventbus

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/Guliveer/twitch-chat-go/internal/logger"
	"github.com/Guliveer/twitch-chat-go/internal/metrics"
	"github.com/Guliveer/twitch-chat-go/internal/model"
)

// Envelope wraps an event with its delivery metadata.
type Envelope struct {
	ID      uuid.UUID
	Account string
	FiredAt time.Time
	Event   model.Event
}

// Kind returns the kind of the wrapped event.
func (e Envelope) Kind() model.Kind {
	return e.Event.Kind()
}

// Channel returns the channel of the wrapped event, or nil for events that
// are not tied to a channel.
func (e Envelope) Channel() *model.Channel {
	if scoped, ok := e.Event.(model.ChannelScoped); ok {
		return scoped.EventChannel()
	}
	return nil
}

func (e Envelope) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID      uuid.UUID   `json:"id"`
		Account string      `json:"account"`
		FiredAt time.Time   `json:"fired_at"`
		Kind    model.Kind  `json:"kind"`
		Event   model.Event `json:"event"`
	}{
		ID:      e.ID,
		Account: e.Account,
		FiredAt: e.FiredAt,
		Kind:    e.Kind(),
		Event:   e.Event,
	})
}

// Handler receives published envelopes.
type Handler func(Envelope)

type subscription struct {
	id      uint64
	handler Handler
}

// Option configures a Bus.
type Option func(*Bus)

// WithClock sets the clock used to stamp envelopes.
func WithClock(clock clockwork.Clock) Option {
	return func(b *Bus) {
		b.clock = clock
	}
}

// WithMetrics enables prometheus accounting of published events and
// recovered handler panics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(b *Bus) {
		b.metrics = m
	}
}

// Bus fans events out to subscribers. It is safe for concurrent use.
type Bus struct {
	account string
	log     *logger.Logger
	clock   clockwork.Clock
	metrics *metrics.Metrics

	mu       sync.RWMutex
	nextID   uint64
	byKind   map[model.Kind][]subscription
	wildcard []subscription
	counts   map[model.Kind]int64
}

// New creates a Bus for the given account.
func New(account string, log *logger.Logger, opts ...Option) *Bus {
	b := &Bus{
		account: account,
		log:     log,
		clock:   clockwork.NewRealClock(),
		byKind:  make(map[model.Kind][]subscription),
		counts:  make(map[model.Kind]int64),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Subscribe registers h for events of the given kind. The returned function
// removes the subscription.
func (b *Bus) Subscribe(kind model.Kind, h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.byKind[kind] = append(b.byKind[kind], subscription{id: id, handler: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.byKind[kind] = removeSubscription(b.byKind[kind], id)
		if len(b.byKind[kind]) == 0 {
			delete(b.byKind, kind)
		}
	}
}

// SubscribeAll registers h for every event. The returned function removes
// the subscription.
func (b *Bus) SubscribeAll(h Handler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.wildcard = append(b.wildcard, subscription{id: id, handler: h})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.wildcard = removeSubscription(b.wildcard, id)
	}
}

// Publish stamps event and delivers it to the subscribers of its kind, then
// to wildcard subscribers.
func (b *Bus) Publish(event model.Event) {
	if event == nil {
		return
	}

	env := Envelope{
		ID:      uuid.New(),
		Account: b.account,
		FiredAt: b.clock.Now(),
		Event:   event,
	}
	kind := event.Kind()

	b.mu.Lock()
	b.counts[kind]++
	handlers := make([]Handler, 0, len(b.byKind[kind])+len(b.wildcard))
	for _, s := range b.byKind[kind] {
		handlers = append(handlers, s.handler)
	}
	for _, s := range b.wildcard {
		handlers = append(handlers, s.handler)
	}
	b.mu.Unlock()

	if b.metrics != nil {
		b.metrics.EventsTotal.WithLabelValues(b.account, string(kind)).Inc()
	}

	for _, h := range handlers {
		b.deliver(h, env)
	}
}

// Counts returns the number of published events per kind.
func (b *Bus) Counts() map[model.Kind]int64 {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make(map[model.Kind]int64, len(b.counts))
	for k, v := range b.counts {
		out[k] = v
	}
	return out
}

func (b *Bus) deliver(h Handler, env Envelope) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("Event handler panicked",
				"kind", string(env.Kind()), "id", env.ID.String(), "panic", r)
			if b.metrics != nil {
				b.metrics.HandlerPanicsTotal.WithLabelValues(string(env.Kind())).Inc()
			}
		}
	}()
	h(env)
}

func removeSubscription(subs []subscription, id uint64) []subscription {
	for i, s := range subs {
		if s.id == id {
			out := make([]subscription, 0, len(subs)-1)
			out = append(out, subs[:i]...)
			return append(out, subs[i+1:]...)
		}
	}
	return subs
}

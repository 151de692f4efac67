// Package bus provides a named-channel publish/subscribe mechanism.
//
// Publishers and subscribers only share channel names; neither knows the
// other's identity. Delivery is synchronous and ordered by registration.
package bus

import (
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// Channel names a category of events.
type Channel string

// Handler receives the payload published on a channel.
type Handler func(payload any)

// Subscription identifies one registration of a handler on a channel.
type Subscription uint64

// Options configures a Bus.
type Options struct {
	// Logger receives handler failures. Defaults to a no-op logger.
	Logger *zap.Logger
}

type registration struct {
	id      Subscription
	handler Handler
}

// Bus dispatches payloads to the handlers registered for a channel.
type Bus struct {
	logger *zap.Logger

	mu       sync.Mutex
	next     Subscription
	channels map[Channel][]registration
}

// New creates an empty bus.
func New(opts Options) *Bus {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Bus{
		logger:   logger,
		channels: make(map[Channel][]registration),
	}
}

// Subscribe registers handler for channel and returns its subscription.
// Registering the same handler twice yields two subscriptions, and the
// handler runs once for each of them.
func (b *Bus) Subscribe(channel Channel, handler Handler) Subscription {
	if handler == nil {
		return 0
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.next++
	id := b.next
	b.channels[channel] = append(b.channels[channel], registration{id: id, handler: handler})
	return id
}

// Unsubscribe removes a subscription. Unknown subscriptions are ignored.
func (b *Bus) Unsubscribe(channel Channel, sub Subscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	regs := b.channels[channel]
	for i, reg := range regs {
		if reg.id != sub {
			continue
		}
		updated := make([]registration, 0, len(regs)-1)
		updated = append(updated, regs[:i]...)
		updated = append(updated, regs[i+1:]...)
		if len(updated) == 0 {
			delete(b.channels, channel)
		} else {
			b.channels[channel] = updated
		}
		return
	}
}

// Publish delivers payload to every handler registered on channel when
// Publish is called, in registration order. A panicking handler is logged
// and does not stop delivery to the handlers after it.
func (b *Bus) Publish(channel Channel, payload any) {
	b.mu.Lock()
	regs := b.channels[channel]
	b.mu.Unlock()

	for _, reg := range regs {
		b.deliver(channel, reg, payload)
	}
}

// Subscribers reports how many handlers are registered on channel.
func (b *Bus) Subscribers(channel Channel) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.channels[channel])
}

func (b *Bus) deliver(channel Channel, reg registration, payload any) {
	defer func() {
		if recovered := recover(); recovered != nil {
			b.logger.Error("bus handler panicked",
				zap.String("channel", string(channel)),
				zap.Uint64("subscription", uint64(reg.id)),
				zap.String("panic", fmt.Sprint(recovered)),
			)
		}
	}()
	reg.handler(payload)
}

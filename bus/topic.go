package bus

import (
	"fmt"

	"go.uber.org/zap"
)

// Topic is a channel whose payloads all have type T.
type Topic[T any] struct {
	Channel Channel
}

// NewTopic declares a typed topic on the named channel.
func NewTopic[T any](name string) Topic[T] {
	return Topic[T]{Channel: Channel(name)}
}

// Emit publishes payload on topic.
func Emit[T any](b *Bus, topic Topic[T], payload T) {
	if b == nil {
		return
	}
	b.Publish(topic.Channel, payload)
}

// Listen subscribes fn to topic. Payloads of another type are dropped and
// logged instead of reaching fn.
func Listen[T any](b *Bus, topic Topic[T], fn func(T)) Subscription {
	if b == nil || fn == nil {
		return 0
	}
	return b.Subscribe(topic.Channel, func(payload any) {
		value, ok := payload.(T)
		if !ok {
			b.logger.Warn("bus payload type mismatch",
				zap.String("channel", string(topic.Channel)),
				zap.String("payload", fmt.Sprintf("%T", payload)),
			)
			return
		}
		fn(value)
	})
}

// Forget removes a subscription made with Listen.
func Forget[T any](b *Bus, topic Topic[T], sub Subscription) {
	if b == nil {
		return
	}
	b.Unsubscribe(topic.Channel, sub)
}

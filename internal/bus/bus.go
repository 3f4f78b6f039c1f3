package bus

import (
	"context"
	"sync"
)

// MessageBus decouples the Slack events channel from the gateway. Inbound
// carries mentions toward the gateway; Outbound fans replies back out to the
// subscriber that owns the chat transport.
type MessageBus struct {
	Inbound  chan InboundMention
	Outbound chan OutboundReply

	mu          sync.RWMutex
	subscribers map[string]func(OutboundReply)
}

func NewMessageBus(bufSize int) *MessageBus {
	return &MessageBus{
		Inbound:     make(chan InboundMention, bufSize),
		Outbound:    make(chan OutboundReply, bufSize),
		subscribers: make(map[string]func(OutboundReply)),
	}
}

// SubscribeOutbound registers a handler for outbound replies. The name keys
// the subscription so a channel can be replaced without leaking the old one.
func (b *MessageBus) SubscribeOutbound(name string, fn func(OutboundReply)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers[name] = fn
}

// DispatchOutbound pumps outbound replies to all subscribers until ctx ends.
func (b *MessageBus) DispatchOutbound(ctx context.Context) {
	for {
		select {
		case msg := <-b.Outbound:
			b.mu.RLock()
			for _, fn := range b.subscribers {
				fn(msg)
			}
			b.mu.RUnlock()
		case <-ctx.Done():
			return
		}
	}
}

// Package channel hosts the inbound chat surfaces. A channel receives
// platform events, verifies them, and posts mentions onto the bus; the
// gateway answers through Send.
package channel

import (
	"context"

	"github.com/stellarlinkco/slackclaw/internal/bus"
)

type Channel interface {
	Name() string
	Start(ctx context.Context) error
	Stop() error
	Send(msg bus.OutboundReply) error
}

type BaseChannel struct {
	name      string
	bus       *bus.MessageBus
	allowFrom []string
}

func NewBaseChannel(name string, b *bus.MessageBus, allowFrom []string) BaseChannel {
	return BaseChannel{name: name, bus: b, allowFrom: allowFrom}
}

func (b *BaseChannel) Name() string {
	return b.name
}

// IsAllowed reports whether a sender passes the allowlist; an empty
// allowlist admits everyone.
func (b *BaseChannel) IsAllowed(sender string) bool {
	if len(b.allowFrom) == 0 {
		return true
	}
	for _, allowed := range b.allowFrom {
		if allowed == sender {
			return true
		}
	}
	return false
}

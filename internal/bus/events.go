package bus

import "time"

// InboundMention is one app_mention event as delivered by Slack, already
// signature-verified by the channel. Immutable after construction.
type InboundMention struct {
	Channel    string
	UserID     string
	Text       string
	Timestamp  string // Slack message ts, e.g. "1726000000.000100"
	ThreadTS   string // thread root ts, empty outside threads
	EventID    string
	ReceivedAt time.Time
}

// ThreadRoot returns the ts the reply thread hangs off: the thread root when
// the mention is inside a thread, otherwise the mention itself.
func (m *InboundMention) ThreadRoot() string {
	if m.ThreadTS != "" {
		return m.ThreadTS
	}
	return m.Timestamp
}

// InThread reports whether the mention arrived inside an existing thread.
func (m *InboundMention) InThread() bool {
	return m.ThreadTS != ""
}

// OutboundReply is a message the gateway wants posted back to Slack.
type OutboundReply struct {
	Channel  string
	Text     string
	ThreadTS string
}

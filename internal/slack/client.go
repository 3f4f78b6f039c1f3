// Package slack wraps the Slack Web API behind the narrow transport the
// gateway consumes: post a message, fetch thread replies, resolve display
// names. Thread fetches and name lookups are cached in the shared kv store.
package slack

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	slackapi "github.com/slack-go/slack"

	"github.com/stellarlinkco/slackclaw/internal/config"
	"github.com/stellarlinkco/slackclaw/internal/kvstore"
)

const (
	// Freshness window for reusing a cached thread without re-fetching.
	threadFreshWindow = 60 * time.Second
	// Store-level TTLs.
	threadTTL   = 300 * time.Second
	userNameTTL = 24 * time.Hour
)

// API is the subset of the slack-go client the transport uses (mockable).
type API interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
	GetConversationRepliesContext(ctx context.Context, params *slackapi.GetConversationRepliesParameters) ([]slackapi.Message, bool, string, error)
	GetUserInfoContext(ctx context.Context, user string) (*slackapi.User, error)
}

type Client struct {
	api        API
	store      kvstore.Store
	fetchLimit int
	log        zerolog.Logger
	now        func() time.Time
}

func NewClient(cfg config.SlackConfig, store kvstore.Store, log zerolog.Logger) *Client {
	return NewClientWithAPI(slackapi.New(cfg.BotToken), cfg, store, log)
}

// NewClientWithAPI allows injecting a fake API in tests.
func NewClientWithAPI(api API, cfg config.SlackConfig, store kvstore.Store, log zerolog.Logger) *Client {
	limit := cfg.ThreadFetchLimit
	if limit <= 0 {
		limit = config.DefaultThreadFetchLimit
	}
	return &Client{
		api:        api,
		store:      store,
		fetchLimit: limit,
		log:        log.With().Str("component", "slack").Logger(),
		now:        time.Now,
	}
}

// PostMessage posts text to a channel, threading onto threadTS when set.
// Returns the ts of the posted message.
func (c *Client) PostMessage(ctx context.Context, channel, text, threadTS string) (string, error) {
	opts := []slackapi.MsgOption{
		slackapi.MsgOptionText(text, false),
		slackapi.MsgOptionDisableLinkUnfurl(),
		slackapi.MsgOptionDisableMediaUnfurl(),
	}
	if threadTS != "" {
		opts = append(opts, slackapi.MsgOptionTS(threadTS))
	}
	_, ts, err := c.api.PostMessageContext(ctx, channel, opts...)
	if err != nil {
		return "", fmt.Errorf("post message: %w", err)
	}
	return ts, nil
}

// ThreadContext returns the resolved messages of a thread. A cache entry
// younger than the freshness window is reused as-is; otherwise the thread is
// re-fetched and written back with the store TTL.
func (c *Client) ThreadContext(ctx context.Context, channel, threadTS string) ([]Message, error) {
	cacheKey := "thread:" + channel + ":" + threadTS

	if raw, ok := c.store.Get(cacheKey); ok {
		var cached threadEntry
		if err := json.Unmarshal([]byte(raw), &cached); err == nil {
			age := c.now().UnixMilli() - cached.CachedAt
			if age >= 0 && age < threadFreshWindow.Milliseconds() {
				return cached.Messages, nil
			}
		}
	}

	replies, _, _, err := c.api.GetConversationRepliesContext(ctx, &slackapi.GetConversationRepliesParameters{
		ChannelID: channel,
		Timestamp: threadTS,
		Limit:     c.fetchLimit,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch thread replies: %w", err)
	}

	messages := make([]Message, 0, len(replies))
	for _, msg := range replies {
		messages = append(messages, Message{
			Text:  msg.Text,
			User:  c.resolveUserName(ctx, msg.User),
			TS:    msg.Timestamp,
			IsBot: msg.BotID != "",
		})
	}

	entry := threadEntry{Messages: messages, CachedAt: c.now().UnixMilli()}
	if data, err := json.Marshal(entry); err == nil {
		c.store.Put(cacheKey, string(data), threadTTL)
	}

	return messages, nil
}

// resolveUserName maps a user ID to a display name, caching hits for a day.
// Lookups are best-effort: on failure the raw ID is returned so the thread
// context still renders.
func (c *Client) resolveUserName(ctx context.Context, userID string) string {
	if userID == "" {
		return "Unknown"
	}

	cacheKey := "user:" + userID
	if name, ok := c.store.Get(cacheKey); ok {
		return name
	}

	user, err := c.api.GetUserInfoContext(ctx, userID)
	if err != nil || user == nil {
		c.log.Debug().Str("user", userID).Msg("user info lookup failed")
		return userID
	}

	name := user.RealName
	if name == "" {
		name = user.Name
	}
	if name == "" {
		return userID
	}

	c.store.Put(cacheKey, name, userNameTTL)
	return name
}

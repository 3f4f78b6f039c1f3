package slack

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	slackapi "github.com/slack-go/slack"

	"github.com/stellarlinkco/slackclaw/internal/config"
	"github.com/stellarlinkco/slackclaw/internal/kvstore"
)

type fakeAPI struct {
	postedChannel string
	postedOpts    int
	postTS        string
	postErr       error

	replies    []slackapi.Message
	replyCalls int
	replyErr   error

	users     map[string]*slackapi.User
	userCalls int
}

func (f *fakeAPI) PostMessageContext(_ context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	f.postedChannel = channelID
	f.postedOpts = len(options)
	return channelID, f.postTS, f.postErr
}

func (f *fakeAPI) GetConversationRepliesContext(_ context.Context, _ *slackapi.GetConversationRepliesParameters) ([]slackapi.Message, bool, string, error) {
	f.replyCalls++
	return f.replies, false, "", f.replyErr
}

func (f *fakeAPI) GetUserInfoContext(_ context.Context, user string) (*slackapi.User, error) {
	f.userCalls++
	u, ok := f.users[user]
	if !ok {
		return nil, errors.New("user_not_found")
	}
	return u, nil
}

func newTestClient(api *fakeAPI) (*Client, *kvstore.MemoryStore, *time.Time) {
	store := kvstore.NewMemoryStore()
	c := NewClientWithAPI(api, config.SlackConfig{ThreadFetchLimit: 50}, store, zerolog.Nop())
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	return c, store, &now
}

func apiMessage(text, user, ts, botID string) slackapi.Message {
	return slackapi.Message{Msg: slackapi.Msg{Text: text, User: user, Timestamp: ts, BotID: botID}}
}

func TestPostMessage_Threaded(t *testing.T) {
	api := &fakeAPI{postTS: "1700000001.000100"}
	c, _, _ := newTestClient(api)

	ts, err := c.PostMessage(context.Background(), "C1", "hello", "1700000000.000100")
	if err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if ts != "1700000001.000100" {
		t.Errorf("ts = %q", ts)
	}
	if api.postedChannel != "C1" {
		t.Errorf("channel = %q", api.postedChannel)
	}
	// text + both unfurl options + thread ts
	if api.postedOpts != 4 {
		t.Errorf("options = %d, want 4", api.postedOpts)
	}
}

func TestPostMessage_TopLevel(t *testing.T) {
	api := &fakeAPI{postTS: "1.2"}
	c, _, _ := newTestClient(api)

	if _, err := c.PostMessage(context.Background(), "C1", "hello", ""); err != nil {
		t.Fatalf("PostMessage: %v", err)
	}
	if api.postedOpts != 3 {
		t.Errorf("options = %d, want 3 without thread ts", api.postedOpts)
	}
}

func TestThreadContext_ResolvesAndCaches(t *testing.T) {
	api := &fakeAPI{
		replies: []slackapi.Message{
			apiMessage("first question", "U1", "1700000000.000100", ""),
			apiMessage("working on it", "", "1700000000.000200", "B0001"),
		},
		users: map[string]*slackapi.User{
			"U1": {ID: "U1", Name: "jane", RealName: "Jane Doe"},
		},
	}
	c, _, _ := newTestClient(api)

	msgs, err := c.ThreadContext(context.Background(), "C1", "1700000000.000100")
	if err != nil {
		t.Fatalf("ThreadContext: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("messages = %d", len(msgs))
	}
	if msgs[0].User != "Jane Doe" {
		t.Errorf("user = %q, want resolved real name", msgs[0].User)
	}
	if msgs[0].IsBot || !msgs[1].IsBot {
		t.Errorf("bot flags = %v/%v", msgs[0].IsBot, msgs[1].IsBot)
	}
	if msgs[1].User != "Unknown" {
		t.Errorf("bot message user = %q, want Unknown", msgs[1].User)
	}

	// Second fetch inside the freshness window must reuse the cache.
	if _, err := c.ThreadContext(context.Background(), "C1", "1700000000.000100"); err != nil {
		t.Fatalf("ThreadContext: %v", err)
	}
	if api.replyCalls != 1 {
		t.Errorf("reply calls = %d, want 1", api.replyCalls)
	}
}

func TestThreadContext_RefetchAfterFreshWindow(t *testing.T) {
	api := &fakeAPI{replies: []slackapi.Message{apiMessage("hi", "", "1.2", "B1")}}
	c, _, now := newTestClient(api)

	if _, err := c.ThreadContext(context.Background(), "C1", "1.2"); err != nil {
		t.Fatal(err)
	}
	*now = now.Add(61 * time.Second)
	if _, err := c.ThreadContext(context.Background(), "C1", "1.2"); err != nil {
		t.Fatal(err)
	}
	if api.replyCalls != 2 {
		t.Errorf("reply calls = %d, want refetch after fresh window", api.replyCalls)
	}
}

func TestResolveUserName_CachedAndFallback(t *testing.T) {
	api := &fakeAPI{
		replies: []slackapi.Message{
			apiMessage("a", "U1", "1.1", ""),
			apiMessage("b", "U1", "1.2", ""),
			apiMessage("c", "U404", "1.3", ""),
		},
		users: map[string]*slackapi.User{
			"U1": {ID: "U1", Name: "jane"},
		},
	}
	c, _, _ := newTestClient(api)

	msgs, err := c.ThreadContext(context.Background(), "C1", "1.1")
	if err != nil {
		t.Fatal(err)
	}
	if msgs[0].User != "jane" || msgs[1].User != "jane" {
		t.Errorf("users = %q/%q, want handle fallback", msgs[0].User, msgs[1].User)
	}
	if api.userCalls != 2 {
		t.Errorf("user lookups = %d, want 1 cached hit plus 1 failed lookup", api.userCalls)
	}
	if msgs[2].User != "U404" {
		t.Errorf("failed lookup user = %q, want raw id", msgs[2].User)
	}
}

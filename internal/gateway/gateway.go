// Package gateway wires the mention pipeline together: rate limiting,
// thread context, intent extraction, budgeting, session continuity and the
// final workflow dispatch.
package gateway

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/stellarlinkco/slackclaw/internal/budget"
	"github.com/stellarlinkco/slackclaw/internal/bus"
	"github.com/stellarlinkco/slackclaw/internal/channel"
	"github.com/stellarlinkco/slackclaw/internal/config"
	"github.com/stellarlinkco/slackclaw/internal/dispatch"
	"github.com/stellarlinkco/slackclaw/internal/intent"
	"github.com/stellarlinkco/slackclaw/internal/kvstore"
	"github.com/stellarlinkco/slackclaw/internal/ratelimit"
	"github.com/stellarlinkco/slackclaw/internal/session"
	slackclient "github.com/stellarlinkco/slackclaw/internal/slack"
)

const thinkingMessage = ":thinking_face: Working on your request..."

// Messenger is the chat transport the gateway consumes.
type Messenger interface {
	PostMessage(ctx context.Context, channel, text, threadTS string) (string, error)
	ThreadContext(ctx context.Context, channel, threadTS string) ([]slackclient.Message, error)
}

// JobDispatcher hands a finished job to the execution backend.
type JobDispatcher interface {
	Dispatch(ctx context.Context, job *dispatch.Job) error
}

// Options allow injecting collaborators in tests.
type Options struct {
	Messenger  Messenger
	Dispatcher JobDispatcher
	SignalChan chan os.Signal
}

type Gateway struct {
	cfg        *config.Config
	bus        *bus.MessageBus
	channels   *channel.Manager
	limiter    *ratelimit.Limiter
	store      *kvstore.MemoryStore
	janitor    *kvstore.Janitor
	messenger  Messenger
	dispatcher JobDispatcher
	log        zerolog.Logger
	now        func() time.Time
	signalChan chan os.Signal
}

func New(cfg *config.Config, log zerolog.Logger) (*Gateway, error) {
	return NewWithOptions(cfg, log, Options{})
}

func NewWithOptions(cfg *config.Config, log zerolog.Logger, opts Options) (*Gateway, error) {
	g := &Gateway{
		cfg: cfg,
		log: log.With().Str("component", "gateway").Logger(),
		now: time.Now,
	}

	g.bus = bus.NewMessageBus(config.DefaultBufSize)
	g.store = kvstore.NewMemoryStore()
	g.limiter = ratelimit.NewLimiter(cfg.RateLimit.MaxRequests,
		time.Duration(cfg.RateLimit.WindowMs)*time.Millisecond)

	g.janitor = kvstore.NewJanitor(g.store, log)
	g.janitor.AddSweep(g.limiter.Cleanup)

	g.messenger = opts.Messenger
	if g.messenger == nil {
		g.messenger = slackclient.NewClient(cfg.Slack, g.store, log)
	}

	g.dispatcher = opts.Dispatcher
	if g.dispatcher == nil {
		g.dispatcher = dispatch.NewDispatcher(cfg.GitHub, log)
	}

	chMgr, err := channel.NewManager(*cfg, g.bus, g.messenger, log)
	if err != nil {
		return nil, fmt.Errorf("create channel manager: %w", err)
	}
	g.channels = chMgr

	g.signalChan = opts.SignalChan

	return g, nil
}

func (g *Gateway) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go g.bus.DispatchOutbound(ctx)

	if err := g.channels.StartAll(ctx); err != nil {
		return fmt.Errorf("start channels: %w", err)
	}
	g.log.Info().Strs("channels", g.channels.EnabledChannels()).Msg("channels started")

	if err := g.janitor.Start(g.cfg.Gateway.JanitorSpec); err != nil {
		g.log.Warn().Err(err).Msg("janitor start warning")
	}

	go g.processLoop(ctx)

	g.log.Info().
		Str("host", g.cfg.Gateway.Host).
		Int("port", g.cfg.Gateway.Port).
		Msg("gateway running")

	sigCh := g.signalChan
	if sigCh == nil {
		sigCh = make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	}
	<-sigCh

	g.log.Info().Msg("shutting down")
	return g.Shutdown()
}

// processLoop consumes mentions off the bus. Each mention is an independent
// unit of work; nothing sequences concurrent mentions except the shared
// limiter and cache.
func (g *Gateway) processLoop(ctx context.Context) {
	for {
		select {
		case m := <-g.bus.Inbound:
			go func(m bus.InboundMention) {
				if err := g.HandleMention(ctx, m); err != nil {
					g.log.Error().Err(err).
						Str("channel", m.Channel).
						Str("user", m.UserID).
						Msg("mention failed")
					g.bus.Outbound <- bus.OutboundReply{
						Channel:  m.Channel,
						Text:     "Sorry, I couldn't start that job. Please try again.",
						ThreadTS: m.ThreadRoot(),
					}
				}
			}(m)
		case <-ctx.Done():
			return
		}
	}
}

// HandleMention runs the full pipeline for one mention. Rate-limited
// mentions are acknowledged without dispatch; every other failure is
// surfaced to the caller and never retried here.
func (g *Gateway) HandleMention(ctx context.Context, m bus.InboundMention) error {
	if m.Channel == "" || m.UserID == "" || m.Timestamp == "" {
		return fmt.Errorf("malformed mention event: channel=%q user=%q ts=%q", m.Channel, m.UserID, m.Timestamp)
	}

	start := g.now()
	log := g.log.With().
		Str("correlation_id", uuid.NewString()).
		Str("event_id", m.EventID).
		Str("channel", m.Channel).
		Str("user", m.UserID).
		Logger()

	if !g.limiter.IsAllowed(m.UserID) {
		log.Warn().Msg("rate limited, mention acknowledged without dispatch")
		return nil
	}

	placeholderTS, err := g.messenger.PostMessage(ctx, m.Channel, thinkingMessage, m.ThreadRoot())
	if err != nil {
		return fmt.Errorf("post placeholder: %w", err)
	}

	var history []slackclient.Message
	if m.InThread() {
		history, err = g.messenger.ThreadContext(ctx, m.Channel, m.ThreadTS)
		if err != nil {
			return fmt.Errorf("fetch thread context: %w", err)
		}
	}

	in := intent.Extract(m.Text, g.cfg.GitHub.Username, len(history))

	turns, timeoutMinutes, profile := budget.Estimate(budget.Inputs{
		Question:     in.Question,
		Capabilities: in.Capabilities,
		ThreadLen:    len(history),
	})

	autoContinuation := session.DetectAutoContinuation(m.Text, history)
	sessionID := session.Resolve(in.SessionID, m.Channel, m.ThreadRoot(), m.InThread(), autoContinuation, g.now())

	systemPrompt := dispatch.BuildThreadPrompt(history)
	repoBlob := ""
	if in.Repo != nil {
		systemPrompt += intent.BuildRepoPrompt(in.Repo)
		repoBlob = in.Repo.Serialize()
	}

	job := &dispatch.Job{
		Question:       in.Question,
		SlackChannel:   m.Channel,
		SlackTS:        placeholderTS,
		SlackThreadTS:  m.ThreadRoot(),
		SystemPrompt:   systemPrompt,
		Model:          in.Model,
		GitHubContext:  repoBlob,
		MaxTurns:       turns,
		TimeoutMinutes: timeoutMinutes,
		SessionID:      sessionID,
	}

	if err := g.dispatcher.Dispatch(ctx, job); err != nil {
		return fmt.Errorf("dispatch job: %w", err)
	}

	log.Info().
		Int("max_turns", turns).
		Int("timeout_minutes", timeoutMinutes).
		Str("model", in.Model).
		Str("session_id", sessionID).
		Strs("capabilities", in.Capabilities).
		Strs("phases", profile.Phases).
		Int("score", profile.Score).
		Bool("write_intent", profile.HasWriteIntent).
		Dur("duration", g.now().Sub(start)).
		Msg("job dispatched")

	return nil
}

func (g *Gateway) Shutdown() error {
	g.janitor.Stop()
	_ = g.channels.StopAll()
	g.log.Info().Msg("shutdown complete")
	return nil
}

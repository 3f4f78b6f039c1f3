package channel

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
	slackapi "github.com/slack-go/slack"
	"github.com/slack-go/slack/slackevents"

	"github.com/stellarlinkco/slackclaw/internal/budget"
	"github.com/stellarlinkco/slackclaw/internal/bus"
	"github.com/stellarlinkco/slackclaw/internal/config"
	"github.com/stellarlinkco/slackclaw/internal/intent"
	"github.com/stellarlinkco/slackclaw/internal/version"
)

const slackChannelName = "slack"

// maxEventBody bounds how much of a request body is read.
const maxEventBody = 1 << 20

// Poster is the outbound transport a SlackChannel replies through.
type Poster interface {
	PostMessage(ctx context.Context, channel, text, threadTS string) (string, error)
}

// SlackChannel serves the Slack Events API over HTTP: signature-verified
// event callbacks, the URL-verification handshake, plus health and debug
// surfaces. Mentions are acknowledged immediately and processed off the bus.
type SlackChannel struct {
	BaseChannel
	cfg      config.Config
	poster   Poster
	server   *http.Server
	log      zerolog.Logger
	verifyFn func(r *http.Request, body []byte) error
}

func NewSlackChannel(cfg config.Config, b *bus.MessageBus, poster Poster, log zerolog.Logger) *SlackChannel {
	ch := &SlackChannel{
		BaseChannel: NewBaseChannel(slackChannelName, b, cfg.Slack.AllowFrom),
		cfg:         cfg,
		poster:      poster,
		log:         log.With().Str("component", "slack-channel").Logger(),
	}
	ch.verifyFn = func(r *http.Request, body []byte) error {
		return verifySignature(r, body, cfg.Slack.SigningSecret)
	}
	return ch
}

func verifySignature(r *http.Request, body []byte, secret string) error {
	verifier, err := slackapi.NewSecretsVerifier(r.Header, secret)
	if err != nil {
		return fmt.Errorf("init signature verifier: %w", err)
	}
	if _, err := verifier.Write(body); err != nil {
		return fmt.Errorf("hash request body: %w", err)
	}
	if err := verifier.Ensure(); err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}
	return nil
}

func (s *SlackChannel) router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowCredentials: false,
	}))

	r.Post("/slack/events", s.handleEvents)
	r.Get("/health", s.handleHealth)
	r.Get("/debug/extract", s.handleDebugExtract)

	return r
}

func (s *SlackChannel) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", s.cfg.Gateway.Host, s.cfg.Gateway.Port),
		Handler:           s.router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		s.log.Info().Str("addr", s.server.Addr).Msg("listening")
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.log.Error().Err(err).Msg("server error")
		}
	}()

	return nil
}

func (s *SlackChannel) handleEvents(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventBody))
	if err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	if err := s.verifyFn(r, body); err != nil {
		s.log.Warn().Err(err).Msg("rejected event")
		http.Error(w, "bad signature", http.StatusUnauthorized)
		return
	}

	event, err := slackevents.ParseEvent(json.RawMessage(body), slackevents.OptionNoVerifyToken())
	if err != nil {
		http.Error(w, "bad payload", http.StatusBadRequest)
		return
	}

	switch event.Type {
	case slackevents.URLVerification:
		var challenge slackevents.ChallengeResponse
		if err := json.Unmarshal(body, &challenge); err != nil {
			http.Error(w, "bad challenge", http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain")
		_, _ = w.Write([]byte(challenge.Challenge))
		return

	case slackevents.CallbackEvent:
		if mention, ok := event.InnerEvent.Data.(*slackevents.AppMentionEvent); ok {
			eventID := ""
			if cb, ok := event.Data.(*slackevents.EventsAPICallbackEvent); ok {
				eventID = cb.EventID
			}
			if !s.IsAllowed(mention.User) {
				s.log.Warn().Str("user", mention.User).Msg("sender not allowed")
			} else {
				s.bus.Inbound <- bus.InboundMention{
					Channel:    mention.Channel,
					UserID:     mention.User,
					Text:       mention.Text,
					Timestamp:  mention.TimeStamp,
					ThreadTS:   mention.ThreadTimeStamp,
					EventID:    eventID,
					ReceivedAt: time.Now(),
				}
			}
		}
	}

	// Slack wants a fast ack regardless of what the event was.
	w.Header().Set("Content-Type", "text/plain")
	_, _ = w.Write([]byte("ok"))
}

func (s *SlackChannel) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"version":   version.Version,
	})
}

// handleDebugExtract dry-runs extraction and budgeting for a text without
// dispatching anything. Operator-facing; do not expose publicly.
func (s *SlackChannel) handleDebugExtract(w http.ResponseWriter, r *http.Request) {
	text := r.URL.Query().Get("text")
	if text == "" {
		http.Error(w, "missing text parameter", http.StatusBadRequest)
		return
	}

	in := intent.Extract(text, s.cfg.GitHub.Username, 0)
	turns, timeoutMinutes, profile := budget.Estimate(budget.Inputs{
		Question:     in.Question,
		Capabilities: in.Capabilities,
		ThreadLen:    0,
	})

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"question":       in.Question,
		"model":          in.Model,
		"capabilities":   in.Capabilities,
		"repo":           in.Repo,
		"sessionId":      in.SessionID,
		"maxTurns":       turns,
		"timeoutMinutes": timeoutMinutes,
		"profile":        profile,
	})
}

func (s *SlackChannel) Send(msg bus.OutboundReply) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := s.poster.PostMessage(ctx, msg.Channel, msg.Text, msg.ThreadTS)
	return err
}

func (s *SlackChannel) Stop() error {
	if s.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(ctx); err != nil {
			s.log.Error().Err(err).Msg("shutdown error")
		}
	}
	s.log.Info().Msg("stopped")
	return nil
}

package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/stellarlinkco/slackclaw/internal/config"
)

const (
	baseURLDefault = "https://api.github.com"
	defaultTimeout = 15 * time.Second
	defaultUA      = "slackclaw/1.0"
	apiVersion     = "2022-11-28"
)

// ErrorKind classifies dispatch failures by response status.
type ErrorKind string

const (
	KindWorkflowNotFound ErrorKind = "workflow_not_found" // 404: configuration error
	KindAuth             ErrorKind = "auth_failed"        // 401: credential error
	KindScope            ErrorKind = "permission_denied"  // 403: token scope error
	KindPayload          ErrorKind = "invalid_inputs"     // 422: payload-shape error
	KindTransport        ErrorKind = "transport"          // anything else
)

// Error is a classified dispatch failure. It is surfaced, never retried.
type Error struct {
	Kind   ErrorKind
	Status int
	Body   string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindWorkflowNotFound:
		return fmt.Sprintf("workflow not found (status %d): check the workflow file name", e.Status)
	case KindAuth:
		return fmt.Sprintf("github authentication failed (status %d): check the token", e.Status)
	case KindScope:
		return fmt.Sprintf("github permission denied (status %d): token needs repo and workflow scopes", e.Status)
	case KindPayload:
		return fmt.Sprintf("invalid workflow inputs (status %d): %s", e.Status, e.Body)
	default:
		return fmt.Sprintf("github api error (status %d): %s", e.Status, e.Body)
	}
}

// Options configures the Dispatcher.
type Options struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
}

// Dispatcher sends workflow_dispatch events. Exactly one call per
// qualifying mention; failures propagate to the caller.
type Dispatcher struct {
	http *http.Client
	opts Options
	cfg  config.GitHubConfig
	log  zerolog.Logger
}

func NewDispatcher(cfg config.GitHubConfig, log zerolog.Logger) *Dispatcher {
	return NewDispatcherWithOptions(cfg, log, Options{})
}

func NewDispatcherWithOptions(cfg config.GitHubConfig, log zerolog.Logger, o Options) *Dispatcher {
	if o.BaseURL == "" {
		o.BaseURL = baseURLDefault
	}
	if o.UserAgent == "" {
		o.UserAgent = defaultUA
	}
	if o.Timeout <= 0 {
		o.Timeout = defaultTimeout
	}
	client := o.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: o.Timeout}
	}
	return &Dispatcher{
		http: client,
		opts: o,
		cfg:  cfg,
		log:  log.With().Str("component", "dispatch").Logger(),
	}
}

// Dispatch posts the job to the workflow_dispatch endpoint.
func (d *Dispatcher) Dispatch(ctx context.Context, job *Job) error {
	inputs, err := job.Inputs()
	if err != nil {
		return err
	}

	payload, err := json.Marshal(map[string]any{
		"ref":    d.cfg.Ref,
		"inputs": inputs,
	})
	if err != nil {
		return fmt.Errorf("marshal dispatch payload: %w", err)
	}

	url := fmt.Sprintf("%s/repos/%s/%s/actions/workflows/%s/dispatches",
		d.opts.BaseURL, d.cfg.Owner, d.cfg.Repo, d.cfg.WorkflowFile)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("create dispatch request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+d.cfg.Token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", d.opts.UserAgent)
	req.Header.Set("X-GitHub-Api-Version", apiVersion)

	d.log.Info().
		Str("workflow", d.cfg.WorkflowFile).
		Int("max_turns", job.MaxTurns).
		Int("timeout_minutes", job.TimeoutMinutes).
		Int("system_prompt_chars", len(job.SystemPrompt)).
		Msg("dispatching workflow")

	resp, err := d.http.Do(req)
	if err != nil {
		return fmt.Errorf("dispatch workflow: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return classify(resp.StatusCode, string(body))
}

func classify(status int, body string) *Error {
	kind := KindTransport
	switch status {
	case http.StatusNotFound:
		kind = KindWorkflowNotFound
	case http.StatusUnauthorized:
		kind = KindAuth
	case http.StatusForbidden:
		kind = KindScope
	case http.StatusUnprocessableEntity:
		kind = KindPayload
	}
	return &Error{Kind: kind, Status: status, Body: body}
}

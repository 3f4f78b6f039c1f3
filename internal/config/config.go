package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DefaultHost              = "0.0.0.0"
	DefaultPort              = 18791
	DefaultBufSize           = 100
	DefaultWorkflowRef       = "main"
	DefaultRateLimitMax      = 10
	DefaultRateLimitWindowMs = 60000
	DefaultThreadFetchLimit  = 50
	DefaultJanitorSpec       = "@every 5m"
)

type Config struct {
	Slack     SlackConfig     `json:"slack"`
	GitHub    GitHubConfig    `json:"github"`
	Gateway   GatewayConfig   `json:"gateway"`
	RateLimit RateLimitConfig `json:"rateLimit"`
}

type SlackConfig struct {
	SigningSecret string `json:"signingSecret" validate:"required"`
	BotToken      string `json:"botToken" validate:"required,startswith=xoxb-"`
	// ThreadFetchLimit bounds conversations.replies page size.
	ThreadFetchLimit int `json:"threadFetchLimit,omitempty" validate:"omitempty,min=1,max=1000"`
	// AllowFrom restricts mentions to these Slack user IDs; empty admits
	// everyone.
	AllowFrom []string `json:"allowFrom,omitempty"`
}

type GitHubConfig struct {
	Token        string `json:"token" validate:"required"`
	Owner        string `json:"owner" validate:"required"`
	Repo         string `json:"repo" validate:"required"`
	WorkflowFile string `json:"workflowFile" validate:"required"`
	// Username is the operator identity used for repository ownership checks.
	Username string `json:"username,omitempty"`
	// Ref is the git ref the workflow is dispatched against.
	Ref string `json:"ref,omitempty"`
}

type GatewayConfig struct {
	Host string `json:"host"`
	Port int    `json:"port" validate:"omitempty,min=1,max=65535"`
	// JanitorSpec is the cron schedule for cache/limiter sweeps.
	JanitorSpec string `json:"janitorSpec,omitempty"`
}

type RateLimitConfig struct {
	MaxRequests int `json:"maxRequests" validate:"omitempty,min=1"`
	WindowMs    int `json:"windowMs" validate:"omitempty,min=1000"`
}

func DefaultConfig() *Config {
	return &Config{
		Gateway: GatewayConfig{
			Host:        DefaultHost,
			Port:        DefaultPort,
			JanitorSpec: DefaultJanitorSpec,
		},
		GitHub: GitHubConfig{
			Ref: DefaultWorkflowRef,
		},
		Slack: SlackConfig{
			ThreadFetchLimit: DefaultThreadFetchLimit,
		},
		RateLimit: RateLimitConfig{
			MaxRequests: DefaultRateLimitMax,
			WindowMs:    DefaultRateLimitWindowMs,
		},
	}
}

func ConfigDir() string {
	home := os.Getenv("HOME")
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	return filepath.Join(home, ".slackclaw")
}

func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.json")
}

func LoadConfig() (*Config, error) {
	// .env is optional; real deployments inject env vars directly.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	data, err := os.ReadFile(ConfigPath())
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	} else {
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if cfg.Gateway.Host == "" {
		cfg.Gateway.Host = DefaultHost
	}
	if cfg.Gateway.Port == 0 {
		cfg.Gateway.Port = DefaultPort
	}
	if cfg.Gateway.JanitorSpec == "" {
		cfg.Gateway.JanitorSpec = DefaultJanitorSpec
	}
	if cfg.GitHub.Ref == "" {
		cfg.GitHub.Ref = DefaultWorkflowRef
	}
	if cfg.Slack.ThreadFetchLimit == 0 {
		cfg.Slack.ThreadFetchLimit = DefaultThreadFetchLimit
	}
	if cfg.RateLimit.MaxRequests == 0 {
		cfg.RateLimit.MaxRequests = DefaultRateLimitMax
	}
	if cfg.RateLimit.WindowMs == 0 {
		cfg.RateLimit.WindowMs = DefaultRateLimitWindowMs
	}

	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SLACK_SIGNING_SECRET"); v != "" {
		cfg.Slack.SigningSecret = v
	}
	if v := os.Getenv("SLACK_BOT_TOKEN"); v != "" {
		cfg.Slack.BotToken = v
	}
	if v := os.Getenv("SLACK_ALLOW_FROM"); v != "" {
		var ids []string
		for _, id := range strings.Split(v, ",") {
			if id = strings.TrimSpace(id); id != "" {
				ids = append(ids, id)
			}
		}
		cfg.Slack.AllowFrom = ids
	}
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		cfg.GitHub.Token = v
	}
	if v := os.Getenv("GITHUB_OWNER"); v != "" {
		cfg.GitHub.Owner = v
	}
	if v := os.Getenv("GITHUB_REPO"); v != "" {
		cfg.GitHub.Repo = v
	}
	if v := os.Getenv("GITHUB_WORKFLOW_FILE"); v != "" {
		cfg.GitHub.WorkflowFile = v
	}
	if v := os.Getenv("GITHUB_USERNAME"); v != "" {
		cfg.GitHub.Username = v
	}
	if v := os.Getenv("SLACKCLAW_HOST"); v != "" {
		cfg.Gateway.Host = v
	}
	if v := os.Getenv("SLACKCLAW_PORT"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Gateway.Port = parsed
		}
	}
	if v := os.Getenv("SLACKCLAW_RATE_LIMIT_MAX"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.MaxRequests = parsed
		}
	}
	if v := os.Getenv("SLACKCLAW_RATE_LIMIT_WINDOW_MS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.RateLimit.WindowMs = parsed
		}
	}
}

// Validate checks the fields required to actually serve traffic. LoadConfig
// does not call it so commands like onboard can work with a partial config.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func SaveConfig(cfg *Config) error {
	dir := ConfigDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(ConfigPath(), data, 0600)
}

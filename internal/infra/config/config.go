// Package config resolves runtime configuration for kagimcp.
//
// Precedence, highest first: environment variables, an optional YAML config
// file (KAGIMCP_CONFIG, falling back to ~/.config/kagimcp/config.yaml when it
// exists), and finally the ~/.kagi_session_token dotfile for the session
// token alone. Resolution happens once at startup; the rest of the program
// receives plain values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds runtime configuration for kagimcp.
type Config struct {
	// Kagi credentials. SessionToken is the kagi_session cookie value,
	// SearchCookie the secondary _kagi_search_ cookie.
	SessionToken string
	SearchCookie string

	// Assistant model allow-list plus the optional preferred default.
	AssistantModels []string
	DefaultModel    string

	// BaseURL of the Kagi web origin.
	BaseURL string

	// HTTPAddr enables the HTTP transport when non-empty (stdio otherwise).
	// AuthSecret, when set, guards the HTTP listener with bearer tokens.
	HTTPAddr   string
	AuthSecret string

	// HistoryDB enables the SQLite invocation log when non-empty.
	HistoryDB string

	// RequestTimeout bounds the assistant/summarizer calls, SearchTimeout
	// each individual search query.
	RequestTimeout time.Duration
	SearchTimeout  time.Duration

	LogLevel string
}

const (
	envSessionToken    = "KAGI_SESSION_TOKEN"
	envSearchCookie    = "KAGI_SEARCH_COOKIE"
	envAssistantModels = "KAGI_ASSISTANT_MODELS"
	envDefaultModel    = "KAGI_DEFAULT_MODEL"
	envBaseURL         = "KAGI_BASE_URL"
	envHTTPAddr        = "KAGIMCP_HTTP_ADDR"
	envAuthSecret      = "KAGIMCP_AUTH_SECRET"
	envHistoryDB       = "KAGIMCP_HISTORY_DB"
	envRequestTimeout  = "KAGIMCP_TIMEOUT_SECONDS"
	envSearchTimeout   = "KAGIMCP_SEARCH_TIMEOUT_SECONDS"
	envLogLevel        = "KAGIMCP_LOG_LEVEL"
	envConfigFile      = "KAGIMCP_CONFIG"
)

const (
	defaultBaseURL        = "https://kagi.com"
	defaultRequestTimeout = 120 * time.Second
	defaultSearchTimeout  = 10 * time.Second

	tokenDotfile = ".kagi_session_token"
)

// fileConfig mirrors Config for the YAML file, with durations in seconds.
type fileConfig struct {
	SessionToken          string   `yaml:"session_token"`
	SearchCookie          string   `yaml:"search_cookie"`
	AssistantModels       []string `yaml:"assistant_models"`
	DefaultModel          string   `yaml:"default_model"`
	BaseURL               string   `yaml:"base_url"`
	HTTPAddr              string   `yaml:"http_addr"`
	AuthSecret            string   `yaml:"auth_secret"`
	HistoryDB             string   `yaml:"history_db"`
	RequestTimeoutSeconds int      `yaml:"request_timeout_seconds"`
	SearchTimeoutSeconds  int      `yaml:"search_timeout_seconds"`
	LogLevel              string   `yaml:"log_level"`
}

// Load resolves configuration from the YAML file, environment, and dotfile.
func Load() (Config, error) {
	cfg := Config{
		BaseURL:        defaultBaseURL,
		RequestTimeout: defaultRequestTimeout,
		SearchTimeout:  defaultSearchTimeout,
		LogLevel:       "info",
	}

	if path := configFilePath(); path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}

	applyEnv(&cfg)

	if cfg.SessionToken == "" {
		cfg.SessionToken = tokenFromDotfile()
	}

	return cfg, nil
}

// Validate checks that the credentials every tool depends on are present.
// The model allow-list is deliberately not checked here: only the assistant
// tool needs it, and the resolver reports its own configuration error.
func (c Config) Validate() error {
	if c.SessionToken == "" {
		return fmt.Errorf("config: session token missing (set %s or write ~/%s)", envSessionToken, tokenDotfile)
	}
	if c.SearchCookie == "" {
		return fmt.Errorf("config: search cookie missing (set %s)", envSearchCookie)
	}
	return nil
}

// configFilePath returns the YAML config path: the env override when set,
// else the conventional location when it exists.
func configFilePath() string {
	if p := os.Getenv(envConfigFile); p != "" {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	p := filepath.Join(home, ".config", "kagimcp", "config.yaml")
	if _, err := os.Stat(p); err != nil {
		return ""
	}
	return p
}

func applyFile(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(raw, &fc); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}

	setString(&cfg.SessionToken, fc.SessionToken)
	setString(&cfg.SearchCookie, fc.SearchCookie)
	setString(&cfg.DefaultModel, fc.DefaultModel)
	setString(&cfg.BaseURL, fc.BaseURL)
	setString(&cfg.HTTPAddr, fc.HTTPAddr)
	setString(&cfg.AuthSecret, fc.AuthSecret)
	setString(&cfg.HistoryDB, fc.HistoryDB)
	setString(&cfg.LogLevel, fc.LogLevel)
	if len(fc.AssistantModels) > 0 {
		cfg.AssistantModels = fc.AssistantModels
	}
	if fc.RequestTimeoutSeconds > 0 {
		cfg.RequestTimeout = time.Duration(fc.RequestTimeoutSeconds) * time.Second
	}
	if fc.SearchTimeoutSeconds > 0 {
		cfg.SearchTimeout = time.Duration(fc.SearchTimeoutSeconds) * time.Second
	}
	return nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.SessionToken, os.Getenv(envSessionToken))
	setString(&cfg.SearchCookie, os.Getenv(envSearchCookie))
	setString(&cfg.DefaultModel, os.Getenv(envDefaultModel))
	setString(&cfg.BaseURL, os.Getenv(envBaseURL))
	setString(&cfg.HTTPAddr, os.Getenv(envHTTPAddr))
	setString(&cfg.AuthSecret, os.Getenv(envAuthSecret))
	setString(&cfg.HistoryDB, os.Getenv(envHistoryDB))
	setString(&cfg.LogLevel, os.Getenv(envLogLevel))

	if models := splitModels(os.Getenv(envAssistantModels)); len(models) > 0 {
		cfg.AssistantModels = models
	}
	if d := envSeconds(envRequestTimeout); d > 0 {
		cfg.RequestTimeout = d
	}
	if d := envSeconds(envSearchTimeout); d > 0 {
		cfg.SearchTimeout = d
	}
}

// tokenFromDotfile reads ~/.kagi_session_token, returning "" when absent.
func tokenFromDotfile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	raw, err := os.ReadFile(filepath.Join(home, tokenDotfile))
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(raw))
}

// splitModels parses a comma-separated allow-list, dropping empty entries.
func splitModels(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	models := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			models = append(models, p)
		}
	}
	return models
}

func envSeconds(key string) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	secs, err := strconv.Atoi(v)
	if err != nil || secs <= 0 {
		return 0
	}
	return time.Duration(secs) * time.Second
}

// setString overwrites dst only when val is non-empty.
func setString(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}

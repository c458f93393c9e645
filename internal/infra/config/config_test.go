package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearKagiEnv blanks every variable Load reads so host values cannot leak
// into assertions.
func clearKagiEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		envSessionToken, envSearchCookie, envAssistantModels, envDefaultModel,
		envBaseURL, envHTTPAddr, envAuthSecret, envHistoryDB,
		envRequestTimeout, envSearchTimeout, envLogLevel, envConfigFile,
	} {
		t.Setenv(key, "")
	}
	t.Setenv("HOME", t.TempDir())
}

func TestLoad_Defaults(t *testing.T) {
	clearKagiEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BaseURL != defaultBaseURL {
		t.Errorf("expected default base URL %q, got %q", defaultBaseURL, cfg.BaseURL)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Errorf("expected default request timeout, got %v", cfg.RequestTimeout)
	}
	if cfg.SearchTimeout != defaultSearchTimeout {
		t.Errorf("expected default search timeout, got %v", cfg.SearchTimeout)
	}
	if cfg.SessionToken != "" {
		t.Errorf("expected empty session token, got %q", cfg.SessionToken)
	}
}

func TestLoad_EnvValues(t *testing.T) {
	clearKagiEnv(t)
	t.Setenv(envSessionToken, "tok-123")
	t.Setenv(envSearchCookie, "cook-456")
	t.Setenv(envAssistantModels, "claude-3-haiku, gpt-4o-mini ,")
	t.Setenv(envDefaultModel, "gpt-4o-mini")
	t.Setenv(envRequestTimeout, "30")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SessionToken != "tok-123" || cfg.SearchCookie != "cook-456" {
		t.Errorf("credentials not loaded from env: %+v", cfg)
	}
	if len(cfg.AssistantModels) != 2 {
		t.Fatalf("expected 2 models (empty entries dropped), got %v", cfg.AssistantModels)
	}
	if cfg.AssistantModels[0] != "claude-3-haiku" || cfg.AssistantModels[1] != "gpt-4o-mini" {
		t.Errorf("models not trimmed: %v", cfg.AssistantModels)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("expected 30s timeout, got %v", cfg.RequestTimeout)
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearKagiEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	content := []byte(`
session_token: yaml-token
search_cookie: yaml-cookie
assistant_models: [a, b]
default_model: b
search_timeout_seconds: 5
`)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(envConfigFile, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SessionToken != "yaml-token" || cfg.SearchCookie != "yaml-cookie" {
		t.Errorf("credentials not loaded from yaml: %+v", cfg)
	}
	if len(cfg.AssistantModels) != 2 || cfg.DefaultModel != "b" {
		t.Errorf("models not loaded from yaml: %+v", cfg)
	}
	if cfg.SearchTimeout != 5*time.Second {
		t.Errorf("expected 5s search timeout, got %v", cfg.SearchTimeout)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	clearKagiEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("session_token: yaml-token\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(envConfigFile, path)
	t.Setenv(envSessionToken, "env-token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SessionToken != "env-token" {
		t.Errorf("env must win over yaml, got %q", cfg.SessionToken)
	}
}

func TestLoad_DotfileTokenFallback(t *testing.T) {
	clearKagiEnv(t)

	home := t.TempDir()
	t.Setenv("HOME", home)
	if err := os.WriteFile(filepath.Join(home, tokenDotfile), []byte("dotfile-token\n"), 0o600); err != nil {
		t.Fatalf("write dotfile: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SessionToken != "dotfile-token" {
		t.Errorf("expected trimmed dotfile token, got %q", cfg.SessionToken)
	}
}

func TestLoad_InvalidYAMLFails(t *testing.T) {
	clearKagiEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\t not yaml ["), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv(envConfigFile, path)

	if _, err := Load(); err == nil {
		t.Error("expected error for malformed yaml config")
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"both present", Config{SessionToken: "t", SearchCookie: "c"}, false},
		{"missing token", Config{SearchCookie: "c"}, true},
		{"missing cookie", Config{SessionToken: "t"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

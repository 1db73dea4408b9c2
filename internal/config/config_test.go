package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"tasklist/internal/config"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{config.EnvBaseURL, config.EnvCSRFCookie, config.EnvAPIToken, config.EnvTimeout} {
		t.Setenv(k, "")
	}
}

func TestNew_Defaults(t *testing.T) {
	cfg, err := config.New(t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != config.DefaultBaseURL {
		t.Errorf("expected %q, got %q", config.DefaultBaseURL, cfg.BaseURL)
	}
	if cfg.CSRFCookie != "PLAY_CSRF_TOKEN" {
		t.Errorf("expected PLAY_CSRF_TOKEN, got %q", cfg.CSRFCookie)
	}
	if cfg.NotifyTTL != 5*time.Second {
		t.Errorf("expected 5s ttl, got %s", cfg.NotifyTTL)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_MissingFilesIsNotAnError(t *testing.T) {
	clearEnv(t)
	cfg, _ := config.New(t.TempDir())
	if err := cfg.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != config.DefaultBaseURL {
		t.Errorf("expected default base url, got %q", cfg.BaseURL)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	content := `base_url = "https://tasks.example.com"
csrf_cookie = "XSRF"
timeout = "3s"
notify_ttl = "2s"
admin_path = "/admin"
`
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(content), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, _ := config.New(dir)
	if err := cfg.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "https://tasks.example.com" {
		t.Errorf("unexpected base url %q", cfg.BaseURL)
	}
	if cfg.CSRFCookie != "XSRF" {
		t.Errorf("unexpected cookie %q", cfg.CSRFCookie)
	}
	if cfg.Timeout != 3*time.Second {
		t.Errorf("unexpected timeout %s", cfg.Timeout)
	}
	if cfg.NotifyTTL != 2*time.Second {
		t.Errorf("unexpected ttl %s", cfg.NotifyTTL)
	}
	if cfg.AdminPath != "/admin" {
		t.Errorf("unexpected admin path %q", cfg.AdminPath)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(`base_url = "https://file.example.com"`), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	t.Setenv(config.EnvBaseURL, "https://env.example.com")

	cfg, _ := config.New(dir)
	if err := cfg.Load(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "https://env.example.com" {
		t.Errorf("expected env override, got %q", cfg.BaseURL)
	}
}

func TestLoad_InvalidTimeout(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.ConfigFile), []byte(`timeout = "soon"`), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	cfg, _ := config.New(dir)
	if err := cfg.Load(); err == nil {
		t.Error("expected error for invalid timeout")
	}
}

func TestValidate_BadURL(t *testing.T) {
	cfg, _ := config.New(t.TempDir())
	cfg.BaseURL = "not a url"
	if err := cfg.Validate(); err == nil {
		t.Error("expected validation error")
	}
}

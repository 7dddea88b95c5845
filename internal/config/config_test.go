package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Chat.Provider != ChatOpenAI {
		t.Errorf("expected default chat provider %q, got %q", ChatOpenAI, cfg.Chat.Provider)
	}
	if cfg.Files.Bucket != "resumes" {
		t.Errorf("expected default bucket %q, got %q", "resumes", cfg.Files.Bucket)
	}
	if cfg.Mail.IsConfigured() {
		t.Error("mail should not be configured without domain and key")
	}
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.lumensite.yml")

	original := DefaultConfig()
	original.Server.Port = 9090
	original.Site.Name = "Acme"
	original.Mail.Domain = "mg.acme.test"
	original.Chat.Provider = ChatOpenRouter
	original.Chat.Model = "openai/gpt-4o"

	if err := original.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if loaded.Server.Port != 9090 {
		t.Errorf("port: got %d, want 9090", loaded.Server.Port)
	}
	if loaded.Site.Name != "Acme" {
		t.Errorf("site name: got %q, want %q", loaded.Site.Name, "Acme")
	}
	if loaded.Mail.Domain != "mg.acme.test" {
		t.Errorf("mail domain: got %q", loaded.Mail.Domain)
	}
	if loaded.Chat.Provider != ChatOpenRouter {
		t.Errorf("chat provider: got %q", loaded.Chat.Provider)
	}
	if loaded.Chat.Model != "openai/gpt-4o" {
		t.Errorf("chat model: got %q", loaded.Chat.Model)
	}
}

func TestLoadMissingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nonexistent.yml")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load should not fail for missing file: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port, got %d", cfg.Server.Port)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	t.Setenv("LUMEN_SERVER__PORT", "7070")
	t.Setenv("LUMEN_MAIL__API_KEY", "key-from-env")
	t.Setenv("LUMEN_SITE__NAME", "EnvCo")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Server.Port != 7070 {
		t.Errorf("port override failed: got %d", loaded.Server.Port)
	}
	if loaded.Mail.APIKey != "key-from-env" {
		t.Errorf("mail key override failed: got %q", loaded.Mail.APIKey)
	}
	if loaded.Site.Name != "EnvCo" {
		t.Errorf("site name override failed: got %q", loaded.Site.Name)
	}
}

func TestLoadConventionalKeyFallbacks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yml")

	t.Setenv("MAILGUN_API_KEY", "mg-key")
	t.Setenv("MAILGUN_DOMAIN", "mg.example.test")
	t.Setenv("OPENAI_API_KEY", "sk-test")

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Mail.APIKey != "mg-key" || loaded.Mail.Domain != "mg.example.test" {
		t.Errorf("mail fallbacks not applied: %+v", loaded.Mail)
	}
	if !loaded.Mail.IsConfigured() {
		t.Error("expected mail to be configured")
	}
	if loaded.Chat.APIKey != "sk-test" {
		t.Errorf("chat key fallback not applied: %q", loaded.Chat.APIKey)
	}
}

func TestValidateValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should be valid, got: %v", err)
	}
}

func TestValidateInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad port", func(c *Config) { c.Server.Port = 70000 }},
		{"bad base url", func(c *Config) { c.Site.BaseURL = "not a url" }},
		{"bad chat provider", func(c *Config) { c.Chat.Provider = "anthropic" }},
		{"negative chat rate", func(c *Config) { c.Chat.RatePerMinute = -1 }},
		{"empty database path", func(c *Config) { c.Storage.DatabasePath = "" }},
		{"empty jwt secret", func(c *Config) { c.Storage.JWTSecret = "" }},
		{"negative relay burst", func(c *Config) { c.Relay.Burst = -1 }},
		{"mail without inbox", func(c *Config) {
			c.Mail.Domain = "mg.test"
			c.Mail.APIKey = "k"
			c.Mail.ContactInbox = ""
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider ChatProvider
		want     string
	}{
		{ChatOpenAI, "OPENAI_API_KEY"},
		{ChatOpenRouter, "OPENROUTER_API_KEY"},
		{"unknown", ""},
	}
	for _, tt := range tests {
		got := APIKeyEnvVar(tt.provider)
		if got != tt.want {
			t.Errorf("APIKeyEnvVar(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}

func TestDefaultChatModel(t *testing.T) {
	if got := DefaultChatModel(ChatOpenRouter); got != "openai/gpt-4o-mini" {
		t.Errorf("openrouter default = %q", got)
	}
	if got := DefaultChatModel("unknown"); got != "gpt-4o-mini" {
		t.Errorf("fallback default = %q", got)
	}
}

func TestTrustProxyHeadersOptIn(t *testing.T) {
	if DefaultConfig().Server.TrustProxyHeaders {
		t.Fatal("proxy headers must not be trusted by default")
	}

	t.Setenv("LUMEN_SERVER__TRUST_PROXY_HEADERS", "true")
	cfg, err := Load(filepath.Join(t.TempDir(), "test.yml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.Server.TrustProxyHeaders {
		t.Error("env override of trust_proxy_headers failed")
	}
}

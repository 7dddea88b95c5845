package config

// chatModelDefaults maps each chat provider to its default model.
var chatModelDefaults = map[ChatProvider]string{
	ChatOpenAI:     "gpt-4o-mini",
	ChatOpenRouter: "openai/gpt-4o-mini",
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*"},
		},
		Site: SiteConfig{
			Name:    "LumenForge",
			BaseURL: "https://www.lumenforge.io",
		},
		Mail: MailConfig{
			Enabled:      true,
			FromEmail:    "noreply@lumenforge.io",
			FromName:     "LumenForge Website",
			ContactInbox: "operations@lumenforge.io",
			CareersInbox: "careers@lumenforge.io",
		},
		Chat: ChatConfig{
			Provider:      ChatOpenAI,
			Model:         chatModelDefaults[ChatOpenAI],
			RatePerMinute: 60,
		},
		Storage: StorageConfig{
			DatabasePath: "data/lumensite.db",
			JWTSecret:    "dev-secret-change-me",
		},
		Files: FilesConfig{
			Bucket: "resumes",
		},
		Relay: RelayConfig{
			RatePerMinute: 10,
			Burst:         5,
		},
		IPLookup: IPLookupConfig{
			URL: "https://api.ipify.org?format=json",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// DefaultChatModel returns the default model for a chat provider, or the
// OpenAI default for unknown providers.
func DefaultChatModel(provider ChatProvider) string {
	if m, ok := chatModelDefaults[provider]; ok {
		return m
	}
	return chatModelDefaults[ChatOpenAI]
}

package config

// ChatProvider identifies an OpenAI-compatible chat completion backend.
type ChatProvider string

const (
	ChatOpenAI     ChatProvider = "openai"
	ChatOpenRouter ChatProvider = "openrouter"
)

// Config is the top-level site configuration, corresponding to .lumensite.yml.
type Config struct {
	Server   ServerConfig   `yaml:"server" koanf:"server"`
	Site     SiteConfig     `yaml:"site" koanf:"site"`
	Mail     MailConfig     `yaml:"mail" koanf:"mail"`
	Chat     ChatConfig     `yaml:"chat" koanf:"chat"`
	Storage  StorageConfig  `yaml:"storage" koanf:"storage"`
	Files    FilesConfig    `yaml:"files" koanf:"files"`
	Relay    RelayConfig    `yaml:"relay" koanf:"relay"`
	IPLookup IPLookupConfig `yaml:"ip_lookup" koanf:"ip_lookup"`
	Log      LogConfig      `yaml:"log" koanf:"log"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port           int      `yaml:"port" koanf:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" koanf:"allowed_origins"`
	// TrustProxyHeaders takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that overwrites them.
	TrustProxyHeaders bool `yaml:"trust_proxy_headers" koanf:"trust_proxy_headers"`
}

// SiteConfig holds public-facing site settings.
type SiteConfig struct {
	Name    string `yaml:"name" koanf:"name"`
	BaseURL string `yaml:"base_url" koanf:"base_url"` // used for canonical links
}

// MailConfig configures the Mailgun integration of the mail relay.
type MailConfig struct {
	Enabled      bool   `yaml:"enabled" koanf:"enabled"`
	Domain       string `yaml:"domain" koanf:"domain"`
	APIKey       string `yaml:"api_key" koanf:"api_key"`
	EURegion     bool   `yaml:"eu_region" koanf:"eu_region"`
	FromEmail    string `yaml:"from_email" koanf:"from_email"`
	FromName     string `yaml:"from_name" koanf:"from_name"`
	ContactInbox string `yaml:"contact_inbox" koanf:"contact_inbox"`
	CareersInbox string `yaml:"careers_inbox" koanf:"careers_inbox"`
}

// IsConfigured reports whether enough is set to talk to Mailgun.
func (m MailConfig) IsConfigured() bool {
	return m.Enabled && m.Domain != "" && m.APIKey != ""
}

// ChatConfig configures the AI chat assistant.
type ChatConfig struct {
	Provider      ChatProvider `yaml:"provider" koanf:"provider"`
	Model         string       `yaml:"model" koanf:"model"`
	APIKey        string       `yaml:"api_key" koanf:"api_key"`
	RatePerMinute int          `yaml:"rate_per_minute" koanf:"rate_per_minute"`
}

// StorageConfig configures the SQLite-backed auth and record storage.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path" koanf:"database_path"`
	JWTSecret    string `yaml:"jwt_secret" koanf:"jwt_secret"`
}

// FilesConfig configures the object storage bucket for uploaded resumes.
type FilesConfig struct {
	Endpoint      string `yaml:"endpoint" koanf:"endpoint"`
	AccessKey     string `yaml:"access_key" koanf:"access_key"`
	SecretKey     string `yaml:"secret_key" koanf:"secret_key"`
	Bucket        string `yaml:"bucket" koanf:"bucket"`
	UseSSL        bool   `yaml:"use_ssl" koanf:"use_ssl"`
	PublicBaseURL string `yaml:"public_base_url" koanf:"public_base_url"`
}

// IsConfigured reports whether an object store endpoint is set.
func (f FilesConfig) IsConfigured() bool {
	return f.Endpoint != "" && f.Bucket != ""
}

// RelayConfig configures the mail relay endpoints and the client that calls them.
type RelayConfig struct {
	URL           string `yaml:"url" koanf:"url"` // empty means the relay mounted by this process
	RatePerMinute int    `yaml:"rate_per_minute" koanf:"rate_per_minute"`
	Burst         int    `yaml:"burst" koanf:"burst"`
}

// IPLookupConfig configures the public IP lookup service.
type IPLookupConfig struct {
	URL string `yaml:"url" koanf:"url"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Level  string `yaml:"level" koanf:"level"`
	Format string `yaml:"format" koanf:"format"`
}

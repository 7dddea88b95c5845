package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/manifoldco/promptui"
)

// RunWizard runs an interactive configuration wizard and saves the result
// to path. Secrets are not prompted for; the wizard points at the
// environment variables that supply them instead.
func RunWizard(path string) (*Config, error) {
	fmt.Println("Welcome to lumensite! Let's configure your site.")
	fmt.Println()

	cfg := DefaultConfig()

	// 1. Site identity.
	namePrompt := promptui.Prompt{
		Label:   "Company name",
		Default: cfg.Site.Name,
	}
	name, err := namePrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("company name: %w", err)
	}
	cfg.Site.Name = name

	baseURLPrompt := promptui.Prompt{
		Label:   "Public base URL (used for canonical links)",
		Default: cfg.Site.BaseURL,
	}
	baseURL, err := baseURLPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("base url: %w", err)
	}
	cfg.Site.BaseURL = strings.TrimRight(baseURL, "/")

	// 2. Port.
	portPrompt := promptui.Prompt{
		Label:   "HTTP port",
		Default: strconv.Itoa(cfg.Server.Port),
		Validate: func(s string) error {
			n, err := strconv.Atoi(s)
			if err != nil || n <= 0 || n > 65535 {
				return fmt.Errorf("port must be a number between 1 and 65535")
			}
			return nil
		},
	}
	portStr, err := portPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("port: %w", err)
	}
	cfg.Server.Port, _ = strconv.Atoi(portStr)

	// 3. Mail.
	domainPrompt := promptui.Prompt{
		Label:   "Mailgun sending domain (blank to disable email)",
		Default: "",
	}
	domain, err := domainPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("mail domain: %w", err)
	}
	cfg.Mail.Domain = domain
	cfg.Mail.Enabled = domain != ""

	if cfg.Mail.Enabled {
		inboxPrompt := promptui.Prompt{
			Label:   "Operations inbox for contact form notifications",
			Default: cfg.Mail.ContactInbox,
		}
		inbox, err := inboxPrompt.Run()
		if err != nil {
			return nil, fmt.Errorf("contact inbox: %w", err)
		}
		cfg.Mail.ContactInbox = inbox
	}

	// 4. Chat provider.
	chatPrompt := promptui.Select{
		Label: "Select chat assistant provider",
		Items: []string{string(ChatOpenAI), string(ChatOpenRouter)},
	}
	_, providerStr, err := chatPrompt.Run()
	if err != nil {
		return nil, fmt.Errorf("chat provider selection: %w", err)
	}
	cfg.Chat.Provider = ChatProvider(providerStr)
	cfg.Chat.Model = DefaultChatModel(cfg.Chat.Provider)

	if cfg.Mail.Enabled && os.Getenv("MAILGUN_API_KEY") == "" {
		fmt.Println("\nNote: set MAILGUN_API_KEY before starting the server, or email delivery stays disabled.")
	}
	if envVar := APIKeyEnvVar(cfg.Chat.Provider); envVar != "" && os.Getenv(envVar) == "" {
		fmt.Printf("Note: set %s before starting the server, or the chat assistant answers with a fallback message.\n", envVar)
	}

	if err := cfg.Save(path); err != nil {
		return nil, fmt.Errorf("saving config: %w", err)
	}

	fmt.Printf("\nConfiguration saved to %s\n", path)
	return cfg, nil
}

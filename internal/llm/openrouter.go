package llm

// OpenRouterBaseURL is the OpenAI-compatible endpoint of OpenRouter.
const OpenRouterBaseURL = "https://openrouter.ai/api/v1"

// NewOpenRouterProvider creates a provider for the OpenRouter API.
func NewOpenRouterProvider(apiKey, model string) *CompatProvider {
	return NewCompatProvider("openrouter", apiKey, OpenRouterBaseURL, model)
}

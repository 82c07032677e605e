package advisor

import (
	"fmt"
	"strings"
)

// NewLLMClient builds a provider client, or nil when no provider is
// configured. The pipeline treats a nil advisor as absent.
func NewLLMClient(provider, apiKey, model, baseURL string, maxTokens int) (LLMClient, error) {
	switch strings.ToLower(provider) {
	case "":
		return nil, nil
	case "anthropic", "claude":
		if apiKey == "" {
			return nil, fmt.Errorf("anthropic api key required")
		}
		return NewClaudeClient(apiKey, model, baseURL, maxTokens), nil
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("openai api key required")
		}
		return NewOpenAIClient(apiKey, model, baseURL, maxTokens), nil
	default:
		return nil, fmt.Errorf("unsupported advisor provider: %s", provider)
	}
}

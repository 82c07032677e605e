package advisor

import "context"

// LLMClient is a minimal text-generation interface shared by providers.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

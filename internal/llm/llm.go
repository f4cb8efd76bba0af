package llm

import (
	"context"

	"nutriplan/internal/shared"
)

// GenerationConfig carries the sampling knobs set per call type. Broader
// sampling is used for full-plan generation, tighter for single-meal
// regeneration.
type GenerationConfig struct {
	Temperature     float32
	TopP            float32
	TopK            int32
	MaxOutputTokens int32
}

// ContentResponse contains the generated text and metadata like token usage.
type ContentResponse struct {
	Content string
	Usage   shared.TokenUsage
}

// TextGenerator is an interface for generating text from a prompt.
type TextGenerator interface {
	GenerateContent(ctx context.Context, prompt string, cfg GenerationConfig) (ContentResponse, error)
}

// Closer is an interface for closing resources.
type Closer interface {
	Close() error
}

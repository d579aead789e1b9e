package providers

import (
	"context"
)

// Config represents a single caption request to an LLM provider
type Config struct {
	Model       string
	Temperature float64
	MaxTokens   int
	Prompt      string
	ImageData   []byte
	MimeType    string
}

// Provider defines the interface for a vision-capable LLM provider
type Provider interface {
	Caption(ctx context.Context, config Config) (string, error)
}

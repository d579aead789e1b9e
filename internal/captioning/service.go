package captioning

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/captionworks/captioner/internal/gemini"
	"github.com/captionworks/captioner/internal/ollama"
	"github.com/captionworks/captioner/internal/openai"
	"github.com/captionworks/captioner/internal/providers"
	"github.com/captionworks/captioner/internal/retry"
)

// MaxImageSize is the upload ceiling for a single image
const MaxImageSize = 10 * 1024 * 1024

// DefaultPrompt is the instruction sent when the caller supplies none
const DefaultPrompt = `Describe this image in one or two sentences.

Focus on the main subject, the setting, and any notable activity.
Respond with only the description. Do not include phrases like
"This image shows" or "In this picture".`

const defaultMaxTokens = 300
const defaultTemperature = 0.2

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// AllowedImageType reports whether the MIME type is on the upload allow-list
func AllowedImageType(mimeType string) bool {
	return allowedImageTypes[strings.ToLower(strings.TrimSpace(mimeType))]
}

// Request describes a single captioning job
type Request struct {
	ImageData []byte
	MimeType  string
	Prompt    string
	Provider  string
	Model     string
}

// Service generates captions by dispatching to a vision-capable LLM provider
type Service struct {
	backoff   *retry.Backoff
	providers map[string]providers.Provider
}

// NewService creates a caption service with the default provider set
func NewService() *Service {
	return &Service{
		backoff: retry.New(),
		providers: map[string]providers.Provider{
			"ollama": ollama.New(),
			"openai": openai.New(),
			"gemini": gemini.New(),
		},
	}
}

// RegisterProvider adds or replaces a named provider
func (s *Service) RegisterProvider(name string, p providers.Provider) {
	s.providers[name] = p
}

// Caption validates the request, fills in defaults, and calls the provider
// through the rate-limit backoff wrapper
func (s *Service) Caption(ctx context.Context, req Request) (string, error) {
	if len(req.ImageData) == 0 {
		return "", fmt.Errorf("image is empty")
	}
	if len(req.ImageData) > MaxImageSize {
		return "", fmt.Errorf("image too large: %d bytes (max %d)", len(req.ImageData), MaxImageSize)
	}
	if !AllowedImageType(req.MimeType) {
		return "", fmt.Errorf("unsupported image type: %s", req.MimeType)
	}

	provider := req.Provider
	if provider == "" {
		provider = os.Getenv("CAPTION_PROVIDER")
		if provider == "" {
			provider = "ollama"
		}
	}

	p, ok := s.providers[provider]
	if !ok {
		return "", fmt.Errorf("unsupported provider: %s", provider)
	}

	model := req.Model
	if model == "" {
		model = s.getDefaultModel(provider)
	}

	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		prompt = DefaultPrompt
	}

	config := providers.Config{
		Model:       model,
		Temperature: defaultTemperature,
		MaxTokens:   defaultMaxTokens,
		Prompt:      prompt,
		ImageData:   req.ImageData,
		MimeType:    strings.ToLower(strings.TrimSpace(req.MimeType)),
	}

	caption, err := s.backoff.Do(ctx, func() (string, error) {
		return p.Caption(ctx, config)
	})
	if err != nil {
		return "", fmt.Errorf("failed to generate caption: %w", err)
	}

	caption = strings.TrimSpace(caption)
	if caption == "" {
		return "", fmt.Errorf("no caption returned from %s", provider)
	}

	slog.Info("Generated caption", "provider", provider, "model", model, "length", len(caption))
	return caption, nil
}

func (s *Service) getDefaultModel(provider string) string {
	switch provider {
	case "openai":
		model := os.Getenv("OPENAI_MODEL")
		if model == "" {
			return "gpt-4o"
		}
		return model
	case "ollama":
		model := os.Getenv("OLLAMA_MODEL")
		if model == "" {
			return "llava:13b"
		}
		return model
	case "gemini":
		model := os.Getenv("GEMINI_MODEL")
		if model == "" {
			return "gemini-1.5-flash"
		}
		return model
	default:
		return ""
	}
}

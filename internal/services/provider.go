package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// GenerateOptions bounds a single generation call.
type GenerateOptions struct {
	Temperature     float32
	MaxOutputTokens int32
}

// TextGenerator is the capability the assistant pipeline needs from a
// large-language-model provider.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	GenerateStructured(ctx context.Context, prompt string, schema *ObjectSchema, opts GenerateOptions) (json.RawMessage, error)
	Close()
}

// rateSlots is a token bucket shared by all callers of one provider.
type rateSlots chan struct{}

func newRateSlots(n int) rateSlots {
	if n < 1 {
		n = 1
	}
	slots := make(rateSlots, n)
	for i := 0; i < n; i++ {
		slots <- struct{}{}
	}
	return slots
}

// acquire blocks until a rate slot is available
func (s rateSlots) acquire(ctx context.Context) error {
	select {
	case <-s:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(5 * time.Minute):
		return fmt.Errorf("timeout waiting for model rate slot")
	}
}

func (s rateSlots) release() {
	s <- struct{}{}
}

const (
	ProviderGemini = "gemini"
	ProviderArk    = "ark"
)

// ProviderConfig selects and configures the model provider.
type ProviderConfig struct {
	Name               string
	GeminiAPIKey       string
	GeminiModel        string
	Ark                ArkConfig
	ConcurrentRequests int
}

// NewTextGenerator builds the provider named by cfg.Name.
func NewTextGenerator(ctx context.Context, cfg ProviderConfig, logger *zap.Logger) (TextGenerator, error) {
	switch cfg.Name {
	case ProviderGemini, "":
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini provider requires GEMINI_API_KEY")
		}
		return NewGeminiService(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.ConcurrentRequests, logger)
	case ProviderArk:
		return NewArkService(ctx, cfg.Ark, cfg.ConcurrentRequests, logger)
	default:
		return nil, fmt.Errorf("unknown AI provider %q", cfg.Name)
	}
}

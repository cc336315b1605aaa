package llm

import (
	"context"
	"fmt"

	"github.com/abhisek/addmath/internal/store"
	"github.com/sirupsen/logrus"
)

// NewProvider builds the configured provider. Calls flow
// retry -> recorder -> vendor client so every attempt is recorded.
func NewProvider(ctx context.Context, cfg Config, events store.EventRepo, log logrus.FieldLogger) (Provider, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var (
		base Provider
		err  error
	)
	pc := cfg.Selected()
	switch cfg.Provider {
	case ProviderAnthropic:
		base, err = NewAnthropicProvider(pc)
	case ProviderOpenAI:
		base, err = NewOpenAIProvider(pc)
	case ProviderOpenRouter:
		if pc.BaseURL == "" {
			pc.BaseURL = OpenRouterBaseURL
		}
		base, err = NewOpenAIProvider(pc)
	case ProviderGemini:
		base, err = NewGeminiProvider(ctx, pc)
	case ProviderMock:
		return NewMockProvider(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("initialize %s provider: %w", cfg.Provider, err)
	}

	log = log.WithField("provider", cfg.Provider)
	var p Provider = base
	if events != nil {
		p = WithRecorder(p, cfg.Provider, events, log)
	}
	return WithRetry(p, cfg.Retry, log), nil
}

package llm

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Provider names accepted by ADDMATH_LLM_PROVIDER.
const (
	ProviderAnthropic  = "anthropic"
	ProviderOpenAI     = "openai"
	ProviderGemini     = "gemini"
	ProviderOpenRouter = "openrouter"
	ProviderMock       = "mock"
)

// OpenRouterBaseURL is the OpenAI-compatible endpoint used for openrouter.
const OpenRouterBaseURL = "https://openrouter.ai/api/v1"

// modelAliases expands the short model names accepted in ADDMATH_*_MODEL.
var modelAliases = map[string]map[string]string{
	ProviderAnthropic: {
		"claude-sonnet": "claude-sonnet-4-20250514",
		"claude-haiku":  "claude-haiku-4-5-20251001",
	},
	ProviderOpenAI: {
		"gpt-4o":      "gpt-4o",
		"gpt-4o-mini": "gpt-4o-mini",
	},
	ProviderGemini: {
		"gemini-flash": "gemini-2.5-flash",
		"gemini-pro":   "gemini-2.5-pro",
	},
}

// resolveModel expands a provider's short alias; unknown names pass through
// as literal model IDs.
func resolveModel(provider, name string) string {
	if id, ok := modelAliases[provider][name]; ok {
		return id
	}
	return name
}

// ProviderConfig is the per-provider connection setting.
type ProviderConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

// Config selects and configures the question generator backend.
type Config struct {
	Provider  string
	Providers map[string]ProviderConfig
	Retry     RetryConfig

	// Timeout bounds one Generate call including retries.
	Timeout time.Duration
}

// RetryConfig controls exponential backoff.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultConfig uses Gemini Flash, which is cheap enough for bulk
// question generation.
func DefaultConfig() Config {
	return Config{
		Provider: ProviderGemini,
		Providers: map[string]ProviderConfig{
			ProviderAnthropic:  {Model: "claude-haiku"},
			ProviderOpenAI:     {Model: "gpt-4o-mini"},
			ProviderGemini:     {Model: "gemini-flash"},
			ProviderOpenRouter: {Model: "google/gemini-2.0-flash-001", BaseURL: OpenRouterBaseURL},
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			InitialWait: time.Second,
			MaxWait:     10 * time.Second,
			Multiplier:  2,
		},
		Timeout: 45 * time.Second,
	}
}

// envPrefix returns e.g. ADDMATH_OPENROUTER.
func envPrefix(provider string) string {
	return "ADDMATH_" + strings.ToUpper(provider)
}

// ConfigFromEnv overlays ADDMATH_* variables on DefaultConfig. When no
// ADDMATH_ key is set it falls back to the vendor variables such as
// GEMINI_API_KEY, taking the first one found.
func ConfigFromEnv() Config {
	cfg := DefaultConfig()

	for name, pc := range cfg.Providers {
		p := envPrefix(name)
		if v := os.Getenv(p + "_API_KEY"); v != "" {
			pc.APIKey = v
		}
		if v := os.Getenv(p + "_MODEL"); v != "" {
			pc.Model = v
		}
		if v := os.Getenv(p + "_BASE_URL"); v != "" {
			pc.BaseURL = v
		}
		cfg.Providers[name] = pc
	}

	if v := os.Getenv("ADDMATH_LLM_PROVIDER"); v != "" {
		cfg.Provider = strings.ToLower(v)
		return cfg
	}

	if cfg.Providers[cfg.Provider].APIKey != "" {
		return cfg
	}
	for _, name := range []string{ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderOpenRouter} {
		key := cfg.Providers[name].APIKey
		if key == "" {
			key = os.Getenv(strings.ToUpper(name) + "_API_KEY")
		}
		if key != "" {
			pc := cfg.Providers[name]
			pc.APIKey = key
			cfg.Providers[name] = pc
			cfg.Provider = name
			break
		}
	}
	return cfg
}

// Selected returns the settings of the active provider.
func (c Config) Selected() ProviderConfig {
	return c.Providers[c.Provider]
}

// Validate checks the active provider is known and has a key.
func (c Config) Validate() error {
	switch c.Provider {
	case ProviderMock:
		return nil
	case ProviderAnthropic, ProviderOpenAI, ProviderGemini, ProviderOpenRouter:
		if c.Selected().APIKey == "" {
			return fmt.Errorf("%s_API_KEY is required for the %s provider", envPrefix(c.Provider), c.Provider)
		}
		return nil
	default:
		return fmt.Errorf("unknown LLM provider: %q", c.Provider)
	}
}

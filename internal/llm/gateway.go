// Package llm is the boundary to the external generative capability.
package llm

import (
	"context"
	"errors"
	"fmt"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/contract"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
)

// ErrGatewayUnavailable is returned by every call when no credential was
// configured at startup.
var ErrGatewayUnavailable = errors.New("generation gateway unavailable")

// UnavailableMessage is the setup guidance shown when the gateway is
// unavailable.
const UnavailableMessage = "The AI client is not initialized. Please make sure your API key is set correctly in your .env file and that you have restarted the server."

// Capability labels used in metrics and spans.
const (
	CapabilityText   = "text"
	CapabilityImage  = "image"
	CapabilitySearch = "search"
)

// Grounded is the result of a search-grounded text generation.
type Grounded struct {
	Text    string
	Sources []model.Source
}

// Gateway is the only component allowed to reach the generative backend. Each
// call is a single attempt: no retries, no caching.
type Gateway interface {
	// GenerateText runs a text generation. When schema is non-nil the reply is
	// requested as a JSON payload matching it.
	GenerateText(ctx context.Context, prompt string, schema *contract.Schema) (string, error)

	// GenerateImage requests exactly one square image.
	GenerateImage(ctx context.Context, prompt string) (*model.Image, error)

	// SearchGrounded runs a text generation with live web search and returns
	// the cited sources, deduplicated by URI.
	SearchGrounded(ctx context.Context, prompt string) (*Grounded, error)

	// Name returns the provider name.
	Name() string
}

// Provider is the type of generation provider.
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
)

// Settings selects and configures a provider.
type Settings struct {
	Provider   Provider
	APIKey     string
	TextModel  string
	ImageModel string
}

// New creates the gateway for settings. A missing credential is not an error:
// the returned gateway reports ErrGatewayUnavailable on every call.
func New(ctx context.Context, s Settings) (Gateway, error) {
	if s.APIKey == "" {
		return NewUnavailable(s.Provider), nil
	}

	switch s.Provider {
	case ProviderGemini, "":
		return NewGeminiGateway(ctx, s.APIKey, s.TextModel, s.ImageModel)
	case ProviderOpenAI:
		return NewOpenAIGateway(s.APIKey, s.TextModel, s.ImageModel)
	case ProviderAnthropic:
		return NewAnthropicGateway(s.APIKey, s.TextModel)
	default:
		return nil, fmt.Errorf("unknown provider %q", s.Provider)
	}
}

// dedupeSources keeps the first source per URI, drops entries without a URI
// and defaults empty titles to the URI.
func dedupeSources(in []model.Source) []model.Source {
	seen := make(map[string]bool, len(in))
	out := make([]model.Source, 0, len(in))
	for _, s := range in {
		if s.URI == "" || seen[s.URI] {
			continue
		}
		seen[s.URI] = true
		if s.Title == "" {
			s.Title = s.URI
		}
		out = append(out, s)
	}
	return out
}

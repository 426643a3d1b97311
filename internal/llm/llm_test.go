package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/contract"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
)

func TestDecodeErrorMessage(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "embedded payload",
			raw:  `got status 429: {"error": {"code": 429, "message": "Resource has been exhausted (e.g. check quota).", "status": "RESOURCE_EXHAUSTED"}}`,
			want: "Resource has been exhausted (e.g. check quota).",
		},
		{
			name: "plain text",
			raw:  "connection reset by peer",
			want: "connection reset by peer",
		},
		{
			name: "payload without nested message",
			raw:  `failed: {"status": "INTERNAL"}`,
			want: `failed: {"status": "INTERNAL"}`,
		},
		{
			name: "broken payload",
			raw:  `failed: {"error": {"message": "cut`,
			want: `failed: {"error": {"message": "cut`,
		},
		{
			name: "multi-line payload",
			raw:  "request failed:\n{\n  \"error\": {\n    \"message\": \"API key not valid.\"\n  }\n}",
			want: "API key not valid.",
		},
		{
			name: "empty",
			raw:  "",
			want: "An unexpected error occurred.",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DecodeErrorMessage(tc.raw))
		})
	}
}

func TestUpstreamErrorUnwraps(t *testing.T) {
	cause := errors.New(`boom {"error": {"message": "quota"}}`)
	err := upstream("gemini", CapabilityText, cause, "")

	assert.Equal(t, "quota", err.Message)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "gemini text")
}

func TestNewWithoutKeyIsUnavailable(t *testing.T) {
	g, err := New(context.Background(), Settings{Provider: ProviderGemini})
	require.NoError(t, err)
	assert.False(t, Available(g))
	assert.False(t, Available(Instrument(g, nil)))

	_, err = g.GenerateText(context.Background(), "p", contract.Thread)
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	_, err = g.GenerateImage(context.Background(), "p")
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
	_, err = g.SearchGrounded(context.Background(), "p")
	assert.ErrorIs(t, err, ErrGatewayUnavailable)
}

func TestNewUnknownProvider(t *testing.T) {
	_, err := New(context.Background(), Settings{Provider: "mystery", APIKey: "k"})
	assert.Error(t, err)
}

func TestDedupeSources(t *testing.T) {
	got := dedupeSources([]model.Source{
		{URI: "https://a.example", Title: "A"},
		{URI: "", Title: "no uri"},
		{URI: "https://b.example"},
		{URI: "https://a.example", Title: "A again"},
	})
	assert.Equal(t, []model.Source{
		{URI: "https://a.example", Title: "A"},
		{URI: "https://b.example", Title: "https://b.example"},
	}, got)
}

func TestGeminiSchemaKeepsOrderAndRequired(t *testing.T) {
	s := geminiSchema(contract.Thread)
	assert.Equal(t, []string{"hookVariations", "bodyPosts", "ctaVariations", "hashtags"}, s.PropertyOrdering)
	assert.Equal(t, contract.Thread.Required, s.Required)

	hooks := s.Properties["hookVariations"]
	require.NotNil(t, hooks)
	assert.Equal(t, []string{"curiosity", "listicle", "emotional", "contrarian"}, hooks.Required)
	assert.NotNil(t, s.Properties["bodyPosts"].Items)
}

func TestCallStatus(t *testing.T) {
	assert.Equal(t, "ok", callStatus(nil))
	assert.Equal(t, "unavailable", callStatus(ErrGatewayUnavailable))
	assert.Equal(t, "upstream_error", callStatus(emptyResult("x", CapabilityImage, "none")))
	assert.Equal(t, "canceled", callStatus(upstream("x", CapabilityText, context.Canceled, "")))
	assert.Equal(t, "error", callStatus(errors.New("other")))
}

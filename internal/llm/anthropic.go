package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/contract"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
)

const defaultAnthropicModel = "claude-sonnet-4-5"

// AnthropicGateway is the Anthropic gateway. Only text generation is
// supported; images and grounded search fail with an UpstreamError.
type AnthropicGateway struct {
	client    anthropic.Client
	textModel string
}

// NewAnthropicGateway creates a new Anthropic gateway.
func NewAnthropicGateway(apiKey, textModel string) (*AnthropicGateway, error) {
	if apiKey == "" {
		return nil, errors.New("Anthropic API key is required")
	}

	if textModel == "" {
		textModel = defaultAnthropicModel
	}

	return &AnthropicGateway{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		textModel: textModel,
	}, nil
}

// Name returns the provider name.
func (c *AnthropicGateway) Name() string {
	return string(ProviderAnthropic)
}

// GenerateText sends a message request. The contract, when set, is appended
// to the instruction.
func (c *AnthropicGateway) GenerateText(ctx context.Context, prompt string, schema *contract.Schema) (string, error) {
	if schema != nil {
		instruction, err := schemaInstruction(schema)
		if err != nil {
			return "", err
		}
		prompt = prompt + "\n\n" + instruction
	}

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.textModel),
		MaxTokens: 4096,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", upstream(c.Name(), CapabilityText, err, "")
	}

	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}
	if content.Len() == 0 {
		return "", emptyResult(c.Name(), CapabilityText, "The AI returned an empty reply.")
	}
	return content.String(), nil
}

// GenerateImage is not supported by this provider.
func (c *AnthropicGateway) GenerateImage(ctx context.Context, prompt string) (*model.Image, error) {
	return nil, emptyResult(c.Name(), CapabilityImage, "Image generation is not supported by the Anthropic provider.")
}

// SearchGrounded is not supported by this provider.
func (c *AnthropicGateway) SearchGrounded(ctx context.Context, prompt string) (*Grounded, error) {
	return nil, emptyResult(c.Name(), CapabilitySearch, "Live search is not supported by the Anthropic provider.")
}

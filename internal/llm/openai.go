package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/contract"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
)

const (
	defaultOpenAITextModel  = "gpt-4o"
	defaultOpenAIImageModel = openai.CreateImageModelDallE3
)

// OpenAIGateway is the OpenAI gateway. Structured output uses JSON mode with
// the contract embedded in the instruction; images come from DALL-E as base64.
// Grounded search is not supported.
type OpenAIGateway struct {
	client     *openai.Client
	textModel  string
	imageModel string
}

// NewOpenAIGateway creates a new OpenAI gateway.
func NewOpenAIGateway(apiKey, textModel, imageModel string) (*OpenAIGateway, error) {
	if apiKey == "" {
		return nil, errors.New("OpenAI API key is required")
	}

	if textModel == "" {
		textModel = defaultOpenAITextModel
	}
	if imageModel == "" {
		imageModel = defaultOpenAIImageModel
	}

	return &OpenAIGateway{
		client:     openai.NewClient(apiKey),
		textModel:  textModel,
		imageModel: imageModel,
	}, nil
}

// Name returns the provider name.
func (c *OpenAIGateway) Name() string {
	return string(ProviderOpenAI)
}

// GenerateText sends a chat completion request.
func (c *OpenAIGateway) GenerateText(ctx context.Context, prompt string, schema *contract.Schema) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.textModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	if schema != nil {
		instruction, err := schemaInstruction(schema)
		if err != nil {
			return "", err
		}
		req.Messages = append([]openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instruction},
		}, req.Messages...)
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", upstream(c.Name(), CapabilityText, err, openAIMessage(err))
	}
	if len(resp.Choices) == 0 {
		return "", emptyResult(c.Name(), CapabilityText, "The AI returned no choices.")
	}
	return resp.Choices[0].Message.Content, nil
}

// GenerateImage requests one square image.
func (c *OpenAIGateway) GenerateImage(ctx context.Context, prompt string) (*model.Image, error) {
	resp, err := c.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          c.imageModel,
		N:              1,
		Size:           openai.CreateImageSize1024x1024,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return nil, upstream(c.Name(), CapabilityImage, err, openAIMessage(err))
	}

	for _, d := range resp.Data {
		if d.B64JSON == "" {
			continue
		}
		data, err := base64.StdEncoding.DecodeString(d.B64JSON)
		if err != nil {
			return nil, upstream(c.Name(), CapabilityImage, err, "")
		}
		return &model.Image{Data: data, MIMEType: "image/png"}, nil
	}
	return nil, emptyResult(c.Name(), CapabilityImage, "Image generation succeeded but no image data was returned.")
}

// SearchGrounded is not supported by this provider.
func (c *OpenAIGateway) SearchGrounded(ctx context.Context, prompt string) (*Grounded, error) {
	return nil, emptyResult(c.Name(), CapabilitySearch, "Live search is not supported by the OpenAI provider.")
}

func openAIMessage(err error) string {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

// schemaInstruction renders the contract for providers without native schema
// support.
func schemaInstruction(schema *contract.Schema) (string, error) {
	doc, err := json.Marshal(schema.JSONSchema())
	if err != nil {
		return "", fmt.Errorf("failed to encode schema: %w", err)
	}
	return "Respond with a single JSON object that validates against this JSON Schema, with no surrounding text:\n" + string(doc), nil
}

package llm

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"github.com/emtechbytes-cpu/ThreadSmith/internal/contract"
	"github.com/emtechbytes-cpu/ThreadSmith/internal/model"
)

const (
	defaultGeminiTextModel  = "gemini-2.5-flash"
	defaultGeminiImageModel = "imagen-4.0-generate-001"
)

// GeminiGateway is the Google Gemini gateway. It supports schema-constrained
// JSON output, Google Search grounding and Imagen images.
type GeminiGateway struct {
	client     *genai.Client
	textModel  string
	imageModel string
}

// NewGeminiGateway creates a new Gemini gateway.
func NewGeminiGateway(ctx context.Context, apiKey, textModel, imageModel string) (*GeminiGateway, error) {
	if apiKey == "" {
		return nil, errors.New("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}

	if textModel == "" {
		textModel = defaultGeminiTextModel
	}
	if imageModel == "" {
		imageModel = defaultGeminiImageModel
	}

	return &GeminiGateway{
		client:     client,
		textModel:  textModel,
		imageModel: imageModel,
	}, nil
}

// Name returns the provider name.
func (g *GeminiGateway) Name() string {
	return string(ProviderGemini)
}

// GenerateText sends a generation request, constrained to schema when set.
func (g *GeminiGateway) GenerateText(ctx context.Context, prompt string, schema *contract.Schema) (string, error) {
	var config *genai.GenerateContentConfig
	if schema != nil {
		config = &genai.GenerateContentConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   geminiSchema(schema),
		}
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.textModel, genai.Text(prompt), config)
	if err != nil {
		return "", upstream(g.Name(), CapabilityText, err, geminiMessage(err))
	}
	return resp.Text(), nil
}

// GenerateImage requests one 1:1 image.
func (g *GeminiGateway) GenerateImage(ctx context.Context, prompt string) (*model.Image, error) {
	resp, err := g.client.Models.GenerateImages(ctx, g.imageModel, prompt, &genai.GenerateImagesConfig{
		NumberOfImages: 1,
		AspectRatio:    "1:1",
	})
	if err != nil {
		return nil, upstream(g.Name(), CapabilityImage, err, geminiMessage(err))
	}

	for _, generated := range resp.GeneratedImages {
		if generated == nil || generated.Image == nil || len(generated.Image.ImageBytes) == 0 {
			continue
		}
		mime := generated.Image.MIMEType
		if mime == "" {
			mime = "image/png"
		}
		return &model.Image{Data: generated.Image.ImageBytes, MIMEType: mime}, nil
	}
	return nil, emptyResult(g.Name(), CapabilityImage, "Image generation succeeded but no image data was returned.")
}

// SearchGrounded runs a generation with the Google Search tool enabled.
func (g *GeminiGateway) SearchGrounded(ctx context.Context, prompt string) (*Grounded, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.textModel, genai.Text(prompt), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil {
		return nil, upstream(g.Name(), CapabilitySearch, err, geminiMessage(err))
	}

	var sources []model.Source
	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk == nil || chunk.Web == nil {
				continue
			}
			sources = append(sources, model.Source{URI: chunk.Web.URI, Title: chunk.Web.Title})
		}
	}

	return &Grounded{
		Text:    strings.TrimSpace(resp.Text()),
		Sources: dedupeSources(sources),
	}, nil
}

func geminiMessage(err error) string {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}

func geminiSchema(s *contract.Schema) *genai.Schema {
	out := &genai.Schema{
		Description: s.Description,
		Required:    s.Required,
	}
	switch s.Kind {
	case contract.KindObject:
		out.Type = genai.TypeObject
	case contract.KindArray:
		out.Type = genai.TypeArray
	default:
		out.Type = genai.TypeString
	}
	if s.Items != nil {
		out.Items = geminiSchema(s.Items)
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for _, p := range s.Properties {
			out.Properties[p.Name] = geminiSchema(p.Schema)
			out.PropertyOrdering = append(out.PropertyOrdering, p.Name)
		}
	}
	return out
}

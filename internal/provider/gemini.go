package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/BerylCAtieno/listing-expert-agent/internal/apperrors"
	"github.com/BerylCAtieno/listing-expert-agent/internal/config"
	"github.com/BerylCAtieno/listing-expert-agent/internal/schema"
	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

// GeminiGenerator talks to the Gemini API through generative-ai-go. The SDK
// client is created on the first call so a missing key does not stop startup.
type GeminiGenerator struct {
	cfg    config.ProviderConfig
	logger *zap.Logger

	mu     sync.Mutex
	client *genai.Client
}

func NewGeminiGenerator(cfg config.ProviderConfig, logger *zap.Logger) *GeminiGenerator {
	return &GeminiGenerator{
		cfg:    cfg,
		logger: logger.Named("gemini"),
	}
}

func (g *GeminiGenerator) Name() string {
	return config.BackendGemini
}

func (g *GeminiGenerator) clientFor(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}
	if g.cfg.APIKey == "" {
		return nil, missingKeyError(g.Name())
	}

	opts := []option.ClientOption{option.WithAPIKey(g.cfg.APIKey)}
	if g.cfg.BaseURL != "" {
		opts = append(opts, option.WithEndpoint(g.cfg.BaseURL))
	}

	client, err := genai.NewClient(ctx, opts...)
	if err != nil {
		return nil, apperrors.NewConfigurationError("failed to create Gemini client", err)
	}
	g.client = client
	return client, nil
}

func (g *GeminiGenerator) Generate(ctx context.Context, req *Request) (string, error) {
	client, err := g.clientFor(ctx)
	if err != nil {
		return "", err
	}

	name := req.Model
	if name == "" {
		name = g.cfg.Model
	}

	model := client.GenerativeModel(name)
	model.SetTemperature(g.cfg.Temperature)
	model.ResponseMIMEType = req.ResponseMIMEType
	model.ResponseSchema = toGeminiSchema(req.ResponseSchema)

	g.logger.Debug("generating content",
		zap.String("model", name),
		zap.Int("prompt_chars", len(req.Prompt)))

	resp, err := model.GenerateContent(ctx, genai.Text(req.Prompt))
	if err != nil {
		return "", g.classify(err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", apperrors.NewProviderError(g.Name(), errors.New("no content generated"))
	}

	var text strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			text.WriteString(string(t))
		}
	}
	return text.String(), nil
}

func (g *GeminiGenerator) classify(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && isAuthFailure(gerr.Code, gerr.Message) {
		return apperrors.NewConfigurationError("Gemini rejected the API key", err)
	}
	return apperrors.NewProviderError(g.Name(), fmt.Errorf("failed to generate content: %w", err))
}

func (g *GeminiGenerator) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client == nil {
		return nil
	}
	err := g.client.Close()
	g.client = nil
	return err
}

func toGeminiSchema(s *schema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Description: s.Description,
		Items:       toGeminiSchema(s.Items),
		Required:    s.Required,
	}
	switch s.Type {
	case schema.TypeObject:
		out.Type = genai.TypeObject
	case schema.TypeArray:
		out.Type = genai.TypeArray
	case schema.TypeString:
		out.Type = genai.TypeString
	case schema.TypeNumber:
		out.Type = genai.TypeNumber
	}
	if len(s.Properties) > 0 {
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for name, prop := range s.Properties {
			out.Properties[name] = toGeminiSchema(prop)
		}
	}
	return out
}

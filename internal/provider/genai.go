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
	"go.uber.org/zap"
	"google.golang.org/genai"
)

// GenAIGenerator uses the unified google.golang.org/genai SDK, which can
// target either the Gemini API (API key) or Vertex AI (project + location,
// application default credentials).
type GenAIGenerator struct {
	cfg    config.ProviderConfig
	logger *zap.Logger

	mu     sync.Mutex
	client *genai.Client
}

func NewGenAIGenerator(cfg config.ProviderConfig, logger *zap.Logger) *GenAIGenerator {
	return &GenAIGenerator{
		cfg:    cfg,
		logger: logger.Named("genai"),
	}
}

func (g *GenAIGenerator) Name() string {
	if g.cfg.Backend == config.BackendVertex {
		return config.BackendVertex
	}
	return config.BackendGenAI
}

func (g *GenAIGenerator) clientConfig() (*genai.ClientConfig, error) {
	cc := &genai.ClientConfig{}

	if g.cfg.Backend == config.BackendVertex {
		if g.cfg.Project == "" {
			return nil, apperrors.NewConfigurationError("vertex backend requires a project (set GOOGLE_CLOUD_PROJECT)", nil)
		}
		cc.Backend = genai.BackendVertexAI
		cc.Project = g.cfg.Project
		cc.Location = g.cfg.Location
	} else {
		if g.cfg.APIKey == "" {
			return nil, missingKeyError(g.Name())
		}
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = g.cfg.APIKey
	}

	if g.cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.cfg.BaseURL}
	}
	return cc, nil
}

func (g *GenAIGenerator) clientFor(ctx context.Context) (*genai.Client, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.client != nil {
		return g.client, nil
	}

	cc, err := g.clientConfig()
	if err != nil {
		return nil, err
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, apperrors.NewConfigurationError("failed to create GenAI client", err)
	}
	g.client = client
	return client, nil
}

func (g *GenAIGenerator) Generate(ctx context.Context, req *Request) (string, error) {
	client, err := g.clientFor(ctx)
	if err != nil {
		return "", err
	}

	model := req.Model
	if model == "" {
		model = g.cfg.Model
	}

	gcc := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(g.cfg.Temperature),
		ResponseMIMEType: req.ResponseMIMEType,
		ResponseSchema:   toGenAISchema(req.ResponseSchema),
	}

	g.logger.Debug("generating content",
		zap.String("model", model),
		zap.String("backend", g.Name()),
		zap.Int("prompt_chars", len(req.Prompt)))

	resp, err := client.Models.GenerateContent(ctx, model, genai.Text(req.Prompt), gcc)
	if err != nil {
		return "", g.classify(err)
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return "", apperrors.NewProviderError(g.Name(), errors.New("no content generated"))
	}
	return text, nil
}

func (g *GenAIGenerator) classify(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) && isAuthFailure(apiErr.Code, apiErr.Message) {
		return apperrors.NewConfigurationError("GenAI rejected the credentials", err)
	}
	return apperrors.NewProviderError(g.Name(), fmt.Errorf("failed to generate content: %w", err))
}

// Close is a no-op beyond dropping the client: the unified SDK holds no
// resources that need releasing.
func (g *GenAIGenerator) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.client = nil
	return nil
}

func toGenAISchema(s *schema.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Description: s.Description,
		Items:       toGenAISchema(s.Items),
		Required:    s.Required,
	}
	switch s.Type {
	case schema.TypeObject:
		out.Type = genai.TypeObject
		out.PropertyOrdering = s.Required
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
			out.Properties[name] = toGenAISchema(prop)
		}
	}
	return out
}

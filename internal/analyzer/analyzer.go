// Package analyzer turns a ListingInputData into a single generation request
// and parses the structured response.
package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/BerylCAtieno/listing-expert-agent/internal/apperrors"
	"github.com/BerylCAtieno/listing-expert-agent/internal/models"
	"github.com/BerylCAtieno/listing-expert-agent/internal/provider"
	"github.com/BerylCAtieno/listing-expert-agent/internal/schema"
	"go.uber.org/zap"
)

const responseMIMEType = "application/json"

type Client struct {
	gen    provider.Generator
	model  string
	locale string
	logger *zap.Logger
}

type Option func(*Client)

// WithModel overrides the generator's configured model.
func WithModel(model string) Option {
	return func(c *Client) { c.model = model }
}

func WithLocale(locale string) Option {
	return func(c *Client) { c.locale = locale }
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

func NewClient(gen provider.Generator, opts ...Option) *Client {
	c := &Client{
		gen:    gen,
		locale: LocaleEN,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("analyzer")
	return c
}

// AnalyzeAndGenerate issues exactly one generation request for input and
// returns the parsed results. It never returns a nil error with a nil result.
func (c *Client) AnalyzeAndGenerate(ctx context.Context, input *models.ListingInputData) (*models.AnalysisResults, error) {
	if input == nil {
		return nil, apperrors.NewValidationError("input is required")
	}
	if missing := missingFields(input); len(missing) > 0 {
		return nil, apperrors.NewValidationError("required fields are empty", missing...)
	}

	prompt := BuildPrompt(input, c.locale)

	c.logger.Info("requesting analysis",
		zap.String("provider", c.gen.Name()),
		zap.String("product", input.ProductName),
		zap.Int("competitors", len(input.Competitors)),
		zap.Bool("aba", strings.TrimSpace(input.ABAFileContent) != ""))

	text, err := c.gen.Generate(ctx, &provider.Request{
		Model:            c.model,
		Prompt:           prompt,
		ResponseMIMEType: responseMIMEType,
		ResponseSchema:   ResultsSchema,
	})
	if err != nil {
		c.logger.Warn("generation failed",
			zap.String("type", string(apperrors.TypeOf(err))),
			zap.Error(err))
		if apperrors.TypeOf(err) == apperrors.ErrorTypeInternal {
			return nil, apperrors.NewProviderError(c.gen.Name(), err)
		}
		return nil, err
	}

	results, err := ParseResults(text)
	if err != nil {
		c.logger.Warn("unusable response", zap.Error(err), zap.Int("response_chars", len(text)))
		return nil, err
	}

	c.logger.Info("analysis complete",
		zap.Int("roots", len(results.KeywordAnalysis.Roots)),
		zap.Int("defects", len(results.ReviewInsights.Defects)))
	return results, nil
}

// ParseResults decodes the raw response text. Invalid JSON and schema
// mismatches are both format errors.
func ParseResults(text string) (*models.AnalysisResults, error) {
	data := []byte(strings.TrimSpace(text))

	if err := ResultsSchema.ValidateJSON(data); err != nil {
		var verr *schema.ViolationError
		if errors.As(err, &verr) {
			return nil, apperrors.NewFormatError("response does not match the results schema", err)
		}
		return nil, apperrors.NewFormatError("response is not valid JSON", err)
	}

	var results models.AnalysisResults
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&results); err != nil {
		return nil, apperrors.NewFormatError("failed to decode results", fmt.Errorf("decode: %w", err))
	}
	return &results, nil
}

func missingFields(input *models.ListingInputData) []string {
	var missing []string
	if strings.TrimSpace(input.ProductName) == "" {
		missing = append(missing, "productName")
	}
	if strings.TrimSpace(input.ProductDesc) == "" {
		missing = append(missing, "productDesc")
	}
	if strings.TrimSpace(input.ReviewFileContent) == "" {
		missing = append(missing, "reviewFileContent")
	}
	return missing
}

// Package provider wraps the generation SDKs behind one interface so the
// analyzer can be handed a real backend or a stub.
package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/BerylCAtieno/listing-expert-agent/internal/apperrors"
	"github.com/BerylCAtieno/listing-expert-agent/internal/config"
	"github.com/BerylCAtieno/listing-expert-agent/internal/schema"
	"go.uber.org/zap"
)

// Generator issues a single generation request and returns the raw response
// text. Implementations must not retry.
type Generator interface {
	// Name identifies the backend in logs and errors.
	Name() string

	// Generate sends req and returns the text of the first candidate.
	Generate(ctx context.Context, req *Request) (string, error)

	// Close releases the underlying SDK client, if one was created.
	Close() error
}

// Request is one generation call.
type Request struct {
	// Model overrides the backend's configured model when set.
	Model            string
	Prompt           string
	ResponseMIMEType string
	ResponseSchema   *schema.Schema
}

// NewGenerator builds the backend selected by cfg.Backend. No network or
// credential check happens here: a missing key surfaces on first Generate.
func NewGenerator(cfg config.ProviderConfig, logger *zap.Logger) (Generator, error) {
	switch cfg.Backend {
	case config.BackendGemini, "":
		return NewGeminiGenerator(cfg, logger), nil
	case config.BackendGenAI, config.BackendVertex:
		return NewGenAIGenerator(cfg, logger), nil
	default:
		return nil, apperrors.NewConfigurationError(
			fmt.Sprintf("unknown provider backend: %s", cfg.Backend), nil)
	}
}

// missingKeyError is returned by backends that need an API key and have none.
func missingKeyError(backend string) error {
	return apperrors.NewConfigurationError(
		fmt.Sprintf("%s backend requires an API key (set GEMINI_API_KEY)", backend), nil)
}

// isAuthFailure reports whether an HTTP status/message pair from the
// provider means the credential was rejected rather than the call failing.
func isAuthFailure(code int, message string) bool {
	switch code {
	case 401, 403:
		return true
	case 400:
		return containsAny(message, "API key not valid", "API_KEY_INVALID", "API key expired")
	}
	return false
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

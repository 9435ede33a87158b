package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeOfThroughWrapping(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := fmt.Errorf("analyze: %w", NewProviderError("gemini", cause))

	assert.Equal(t, ErrorTypeProvider, TypeOf(err))
	assert.True(t, Is(err, ErrorTypeProvider))
	assert.False(t, Is(err, ErrorTypeFormat))
	assert.ErrorIs(t, err, cause)
}

func TestTypeOfUntypedIsInternal(t *testing.T) {
	assert.Equal(t, ErrorTypeInternal, TypeOf(errors.New("boom")))
	assert.False(t, Is(nil, ErrorTypeInternal))
}

func TestErrorMessageIncludesCause(t *testing.T) {
	err := NewFormatError("response is not valid JSON", errors.New("unexpected end of JSON input"))
	assert.Equal(t, "response is not valid JSON: unexpected end of JSON input", err.Error())
	assert.Equal(t, "unexpected end of JSON input", err.Details)
}

func TestValidationErrorDetails(t *testing.T) {
	err := NewValidationError("missing required fields", "productName", "reviewFileContent")
	require.Equal(t, []string{"productName", "reviewFileContent"}, err.Details)
	assert.Nil(t, NewValidationError("bad").Details)
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation keeps message", NewValidationError("product name is required"), "product name is required"},
		{"busy keeps message", NewBusyError(), "An analysis is already in progress"},
		{"provider collapses", NewProviderError("gemini", errors.New("quota")), "Analysis failed, please check the API configuration or network connection."},
		{"format collapses", NewFormatError("bad json", nil), "Analysis failed, please check the API configuration or network connection."},
		{"configuration collapses", NewConfigurationError("missing key", nil), "Analysis failed, please check the API configuration or network connection."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, UserMessage(tt.err))
		})
	}
}

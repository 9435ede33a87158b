package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func listingSchema() *Schema {
	return Object(
		Field{"title", String()},
		Field{"bullets", ArrayOf(String())},
		Field{"counts", ArrayOf(Object(
			Field{"word", String()},
			Field{"count", Number()},
		))},
	)
}

func TestObjectMarksAllFieldsRequired(t *testing.T) {
	s := listingSchema()
	assert.Equal(t, []string{"title", "bullets", "counts"}, s.Required)
	assert.Len(t, s.Properties, 3)
	assert.Equal(t, TypeArray, s.Properties["bullets"].Type)
	assert.Equal(t, TypeString, s.Properties["bullets"].Items.Type)
}

func TestValidateJSON(t *testing.T) {
	tests := []struct {
		name       string
		doc        string
		violations []string
	}{
		{
			name: "valid with empty values",
			doc:  `{"title":"","bullets":[],"counts":[]}`,
		},
		{
			name: "extra properties ignored",
			doc:  `{"title":"t","bullets":["a"],"counts":[{"word":"x","count":2}],"extra":true}`,
		},
		{
			name:       "missing property",
			doc:        `{"title":"t","bullets":["a"]}`,
			violations: []string{"$.counts: required property missing"},
		},
		{
			name:       "wrong scalar types",
			doc:        `{"title":5,"bullets":["a",true],"counts":[{"word":"x","count":"2"}]}`,
			violations: []string{"$.bullets[1]: expected string, got boolean", "$.counts[0].count: expected number, got string", "$.title: expected string, got number"},
		},
		{
			name:       "null is not a value",
			doc:        `{"title":null,"bullets":[],"counts":[]}`,
			violations: []string{"$.title: expected string, got null"},
		},
		{
			name:       "top level not an object",
			doc:        `[]`,
			violations: []string{"$: expected object, got array"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := listingSchema().ValidateJSON([]byte(tt.doc))
			if len(tt.violations) == 0 {
				assert.NoError(t, err)
				return
			}
			var verr *ViolationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.violations, verr.Violations)
		})
	}
}

func TestValidateJSONSyntaxError(t *testing.T) {
	err := listingSchema().ValidateJSON([]byte(`{"title":`))
	require.Error(t, err)
	var verr *ViolationError
	assert.False(t, errors.As(err, &verr))
}

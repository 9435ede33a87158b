// Package schema describes the JSON shape requested from the generation
// provider and checks decoded responses against it. Each provider backend
// converts a *Schema into its own SDK type, so the request and the response
// check always agree.
package schema

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

type Type string

const (
	TypeObject Type = "object"
	TypeArray  Type = "array"
	TypeString Type = "string"
	TypeNumber Type = "number"
)

type Schema struct {
	Type        Type
	Description string
	Items       *Schema
	Properties  map[string]*Schema
	// Required lists object properties in declaration order. Every property
	// built with Object is required.
	Required []string
}

// Field is a named object property.
type Field struct {
	Name   string
	Schema *Schema
}

func String() *Schema { return &Schema{Type: TypeString} }

func Number() *Schema { return &Schema{Type: TypeNumber} }

func ArrayOf(items *Schema) *Schema {
	return &Schema{Type: TypeArray, Items: items}
}

// Object builds an object schema whose fields are all required.
func Object(fields ...Field) *Schema {
	s := &Schema{
		Type:       TypeObject,
		Properties: make(map[string]*Schema, len(fields)),
		Required:   make([]string, 0, len(fields)),
	}
	for _, f := range fields {
		s.Properties[f.Name] = f.Schema
		s.Required = append(s.Required, f.Name)
	}
	return s
}

// Describe sets the description and returns s for chaining.
func (s *Schema) Describe(desc string) *Schema {
	s.Description = desc
	return s
}

// ViolationError lists every place a value departs from its schema.
type ViolationError struct {
	Violations []string
}

func (e *ViolationError) Error() string {
	return "schema mismatch: " + strings.Join(e.Violations, "; ")
}

// Validate checks a value produced by encoding/json (map[string]any, []any,
// string, float64, bool, nil) against s. Unknown object properties are
// ignored; missing required ones and null values are violations.
func (s *Schema) Validate(v any) error {
	var violations []string
	s.walk("$", v, &violations)
	if len(violations) > 0 {
		return &ViolationError{Violations: violations}
	}
	return nil
}

// ValidateJSON decodes data and validates the result.
func (s *Schema) ValidateJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	return s.Validate(v)
}

func (s *Schema) walk(path string, v any, out *[]string) {
	if v == nil {
		*out = append(*out, fmt.Sprintf("%s: expected %s, got null", path, s.Type))
		return
	}

	switch s.Type {
	case TypeObject:
		obj, ok := v.(map[string]any)
		if !ok {
			*out = append(*out, fmt.Sprintf("%s: expected object, got %s", path, kindOf(v)))
			return
		}
		for _, name := range s.Required {
			if _, present := obj[name]; !present {
				*out = append(*out, fmt.Sprintf("%s.%s: required property missing", path, name))
			}
		}
		names := make([]string, 0, len(s.Properties))
		for name := range s.Properties {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if child, present := obj[name]; present {
				s.Properties[name].walk(path+"."+name, child, out)
			}
		}

	case TypeArray:
		arr, ok := v.([]any)
		if !ok {
			*out = append(*out, fmt.Sprintf("%s: expected array, got %s", path, kindOf(v)))
			return
		}
		if s.Items == nil {
			return
		}
		for i, item := range arr {
			s.Items.walk(fmt.Sprintf("%s[%d]", path, i), item, out)
		}

	case TypeString:
		if _, ok := v.(string); !ok {
			*out = append(*out, fmt.Sprintf("%s: expected string, got %s", path, kindOf(v)))
		}

	case TypeNumber:
		if _, ok := v.(float64); !ok {
			*out = append(*out, fmt.Sprintf("%s: expected number, got %s", path, kindOf(v)))
		}
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case map[string]any:
		return "object"
	case []any:
		return "array"
	case string:
		return "string"
	case float64:
		return "number"
	case bool:
		return "boolean"
	default:
		return fmt.Sprintf("%T", v)
	}
}

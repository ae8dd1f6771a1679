package services

import (
	"encoding/json"
	"fmt"
	"strings"
)

type FieldType string

const (
	FieldString      FieldType = "string"
	FieldNumber      FieldType = "number"
	FieldStringArray FieldType = "string[]"
)

type Field struct {
	Name        string
	Type        FieldType
	Description string
	Enum        []string
	Min         *float64
	Max         *float64
}

// ObjectSchema is the provider-neutral description of a structured model
// output. All fields are required.
type ObjectSchema struct {
	Name   string
	Fields []Field
}

func float64Ptr(v float64) *float64 { return &v }

// FactCheckSchema is the shape every fact-check verdict must satisfy.
var FactCheckSchema = &ObjectSchema{
	Name: "fact_check",
	Fields: []Field{
		{Name: "verdict", Type: FieldString, Description: "The fact-check verdict", Enum: []string{"true", "false", "misleading", "unverified"}},
		{Name: "confidence", Type: FieldNumber, Description: "Confidence level in percentage", Min: float64Ptr(0), Max: float64Ptr(100)},
		{Name: "explanation", Type: FieldString, Description: "Detailed explanation of the fact-check analysis"},
		{Name: "sources", Type: FieldStringArray, Description: "Relevant sources or references"},
		{Name: "keyPoints", Type: FieldStringArray, Description: "Key points that led to this verdict"},
	},
}

type SchemaError struct {
	Schema string
	Field  string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("schema %s: %s", e.Schema, e.Reason)
	}
	return fmt.Sprintf("schema %s: field %q %s", e.Schema, e.Field, e.Reason)
}

// Validate checks raw JSON against the schema.
func (s *ObjectSchema) Validate(raw []byte) error {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return &SchemaError{Schema: s.Name, Reason: "is not a JSON object"}
	}

	for _, f := range s.Fields {
		val, ok := obj[f.Name]
		if !ok || string(val) == "null" {
			return &SchemaError{Schema: s.Name, Field: f.Name, Reason: "is required"}
		}

		switch f.Type {
		case FieldString:
			var str string
			if err := json.Unmarshal(val, &str); err != nil {
				return &SchemaError{Schema: s.Name, Field: f.Name, Reason: "must be a string"}
			}
			if len(f.Enum) > 0 && !contains(f.Enum, str) {
				return &SchemaError{Schema: s.Name, Field: f.Name, Reason: fmt.Sprintf("must be one of %s", strings.Join(f.Enum, ", "))}
			}
		case FieldNumber:
			var n float64
			if err := json.Unmarshal(val, &n); err != nil {
				return &SchemaError{Schema: s.Name, Field: f.Name, Reason: "must be a number"}
			}
			if f.Min != nil && n < *f.Min {
				return &SchemaError{Schema: s.Name, Field: f.Name, Reason: fmt.Sprintf("must be >= %g", *f.Min)}
			}
			if f.Max != nil && n > *f.Max {
				return &SchemaError{Schema: s.Name, Field: f.Name, Reason: fmt.Sprintf("must be <= %g", *f.Max)}
			}
		case FieldStringArray:
			var arr []string
			if err := json.Unmarshal(val, &arr); err != nil {
				return &SchemaError{Schema: s.Name, Field: f.Name, Reason: "must be an array of strings"}
			}
		}
	}

	return nil
}

// Describe renders the schema as prompt instructions for providers that
// cannot enforce a response schema natively.
func (s *ObjectSchema) Describe() string {
	var b strings.Builder
	b.WriteString("Return ONLY a valid JSON object. No preamble, no markdown, no backticks.\n")
	b.WriteString("JSON schema:\n{")
	for i, f := range s.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(fmt.Sprintf("%q: ", f.Name))
		switch {
		case len(f.Enum) > 0:
			quoted := make([]string, len(f.Enum))
			for j, e := range f.Enum {
				quoted[j] = fmt.Sprintf("%q", e)
			}
			b.WriteString(strings.Join(quoted, "|"))
		case f.Type == FieldStringArray:
			b.WriteString(`["string"]`)
		case f.Type == FieldNumber && f.Min != nil && f.Max != nil:
			b.WriteString(fmt.Sprintf("number %g-%g", *f.Min, *f.Max))
		default:
			b.WriteString(string(f.Type))
		}
	}
	b.WriteString("}\n")

	for _, f := range s.Fields {
		if f.Description != "" {
			b.WriteString(fmt.Sprintf("- %s: %s\n", f.Name, f.Description))
		}
	}
	return b.String()
}

// repairJSONObject strips markdown fences and surrounding prose from a
// model reply, returning the outermost JSON object.
func repairJSONObject(raw string) string {
	text := stripCodeFence(raw)
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start >= 0 && end > start {
		return text[start : end+1]
	}
	return text
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// decodeStructured repairs a raw model reply and validates it against the
// schema. It is shared by every TextGenerator implementation.
func decodeStructured(text string, schema *ObjectSchema) (json.RawMessage, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyOutput
	}

	repaired := repairJSONObject(text)
	if !json.Valid([]byte(repaired)) {
		return nil, fmt.Errorf("%w: %.80q", ErrMalformedOutput, repaired)
	}

	if err := schema.Validate([]byte(repaired)); err != nil {
		return nil, err
	}
	return json.RawMessage(repaired), nil
}

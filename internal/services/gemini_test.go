package services

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
)

func TestToGenaiSchemaFactCheck(t *testing.T) {
	s := toGenaiSchema(FactCheckSchema)

	if s.Type != genai.TypeObject {
		t.Fatalf("expected object schema, got %v", s.Type)
	}
	if len(s.Required) != len(FactCheckSchema.Fields) {
		t.Fatalf("expected every field required, got %v", s.Required)
	}

	verdict := s.Properties["verdict"]
	if verdict == nil || verdict.Type != genai.TypeString || len(verdict.Enum) != 4 || verdict.Format != "enum" {
		t.Fatalf("unexpected verdict schema %+v", verdict)
	}

	if c := s.Properties["confidence"]; c == nil || c.Type != genai.TypeNumber {
		t.Fatalf("unexpected confidence schema %+v", c)
	}

	for _, name := range []string{"sources", "keyPoints"} {
		arr := s.Properties[name]
		if arr == nil || arr.Type != genai.TypeArray || arr.Items == nil || arr.Items.Type != genai.TypeString {
			t.Fatalf("unexpected %s schema %+v", name, arr)
		}
	}
}

func TestExtractText(t *testing.T) {
	if got := extractText(nil); got != "" {
		t.Fatalf("expected empty text for nil response, got %q", got)
	}

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Parts: []genai.Part{genai.Text("Call "), genai.Text("112.")}}},
			{Content: nil},
		},
	}
	if got := extractText(resp); got != "Call 112." {
		t.Fatalf("unexpected text %q", got)
	}
}

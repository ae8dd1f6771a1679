package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// GeminiService implements TextGenerator on top of the Gemini API.
type GeminiService struct {
	client    *genai.Client
	modelName string
	slots     rateSlots
	logger    *zap.Logger
}

func NewGeminiService(apiKey, modelName string, concurrentReqs int, logger *zap.Logger) (*GeminiService, error) {
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiService{
		client:    client,
		modelName: modelName,
		slots:     newRateSlots(concurrentReqs),
		logger:    logger,
	}, nil
}

func (s *GeminiService) Close() {
	s.client.Close()
}

// model returns a fresh handle so per-call settings never leak between
// concurrent requests.
func (s *GeminiService) model(opts GenerateOptions) *genai.GenerativeModel {
	model := s.client.GenerativeModel(s.modelName)
	model.SetTemperature(opts.Temperature)
	model.SetTopP(0.95)
	if opts.MaxOutputTokens > 0 {
		model.SetMaxOutputTokens(opts.MaxOutputTokens)
	}
	return model
}

func (s *GeminiService) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	if err := s.slots.acquire(ctx); err != nil {
		return "", err
	}
	defer s.slots.release()

	resp, err := s.model(opts).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	s.logCandidates(resp)

	text := strings.TrimSpace(extractText(resp))
	if text == "" {
		return "", ErrEmptyOutput
	}
	return text, nil
}

func (s *GeminiService) GenerateStructured(ctx context.Context, prompt string, schema *ObjectSchema, opts GenerateOptions) (json.RawMessage, error) {
	if err := s.slots.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.slots.release()

	model := s.model(opts)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = toGenaiSchema(schema)

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("Gemini API error: %w", err)
	}
	s.logCandidates(resp)

	return decodeStructured(extractText(resp), schema)
}

func (s *GeminiService) logCandidates(resp *genai.GenerateContentResponse) {
	for i, cand := range resp.Candidates {
		if cand.FinishReason != genai.FinishReasonStop {
			s.logger.Warn("gemini stopped early",
				zap.Int("candidate", i),
				zap.String("finish_reason", cand.FinishReason.String()),
				zap.Int32("token_count", cand.TokenCount),
			)
		}
	}
}

// Helper functions

func extractText(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var text strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content != nil {
			for _, part := range cand.Content.Parts {
				if t, ok := part.(genai.Text); ok {
					text.WriteString(string(t))
				}
			}
		}
	}
	return text.String()
}

func toGenaiSchema(schema *ObjectSchema) *genai.Schema {
	out := &genai.Schema{
		Type:       genai.TypeObject,
		Properties: make(map[string]*genai.Schema, len(schema.Fields)),
		Required:   make([]string, 0, len(schema.Fields)),
	}

	for _, f := range schema.Fields {
		prop := &genai.Schema{Description: f.Description}
		switch f.Type {
		case FieldString:
			prop.Type = genai.TypeString
			if len(f.Enum) > 0 {
				prop.Format = "enum"
				prop.Enum = f.Enum
			}
		case FieldNumber:
			prop.Type = genai.TypeNumber
		case FieldStringArray:
			prop.Type = genai.TypeArray
			prop.Items = &genai.Schema{Type: genai.TypeString}
		}
		out.Properties[f.Name] = prop
		out.Required = append(out.Required, f.Name)
	}

	return out
}

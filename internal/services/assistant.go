package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
)

const (
	DefaultPipelineTimeout = 30 * time.Second

	crisisGuideTemperature = 0.3
	crisisGuideMaxTokens   = 500
	factCheckTemperature   = 0.2
	factCheckMaxTokens     = 800
)

// AssistantService is the request pipeline behind both chat assistants.
// Each call makes exactly one provider request.
type AssistantService struct {
	generator TextGenerator
	cache     VerdictCache
	timeout   time.Duration
	logger    *zap.Logger
}

// NewAssistantService wires the pipeline. cache may be nil.
func NewAssistantService(generator TextGenerator, cache VerdictCache, timeout time.Duration, logger *zap.Logger) *AssistantService {
	if timeout <= 0 {
		timeout = DefaultPipelineTimeout
	}
	return &AssistantService{
		generator: generator,
		cache:     cache,
		timeout:   timeout,
		logger:    logger,
	}
}

// Submit dispatches a chat turn to the assistant for kind.
func (s *AssistantService) Submit(ctx context.Context, kind models.Kind, text string) (*models.AssistantReply, error) {
	switch kind {
	case models.KindCrisisGuide:
		return s.CrisisGuide(ctx, text)
	case models.KindFactCheck:
		return s.FactCheck(ctx, text, models.ContentText)
	default:
		return nil, &ValidationError{Fields: map[string]string{"kind": fmt.Sprintf("unknown assistant kind %q", kind)}}
	}
}

// CrisisGuide asks the model for emergency guidance and attaches quick
// actions derived from the reply.
func (s *AssistantService) CrisisGuide(ctx context.Context, message string) (*models.AssistantReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	text, err := s.generator.Generate(ctx, buildCrisisGuidePrompt(message), GenerateOptions{
		Temperature:     crisisGuideTemperature,
		MaxOutputTokens: crisisGuideMaxTokens,
	})
	if err != nil {
		return nil, s.fail(models.KindCrisisGuide, err)
	}

	return &models.AssistantReply{
		Text:         text,
		QuickActions: ClassifyQuickActions(text),
	}, nil
}

// FactCheck asks the model for a schema-validated verdict on a claim.
func (s *AssistantService) FactCheck(ctx context.Context, message string, contentType models.ContentType) (*models.AssistantReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if contentType == "" {
		contentType = models.ContentText
	}
	if contentType != models.ContentText && contentType != models.ContentImage {
		return nil, &ValidationError{Fields: map[string]string{"type": "Type must be text or image"}}
	}

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, message, contentType); ok {
			s.logger.Debug("fact-check cache hit", zap.String("verdict", string(cached.Verdict)))
			return factCheckReply(*cached), nil
		}
	}

	callCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.generator.GenerateStructured(callCtx, buildFactCheckPrompt(message, contentType), FactCheckSchema, GenerateOptions{
		Temperature:     factCheckTemperature,
		MaxOutputTokens: factCheckMaxTokens,
	})
	if err != nil {
		return nil, s.fail(models.KindFactCheck, err)
	}

	var result models.FactCheckResult
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, s.fail(models.KindFactCheck, fmt.Errorf("%w: %v", ErrMalformedOutput, err))
	}
	if !result.Verdict.Valid() {
		return nil, s.fail(models.KindFactCheck, &SchemaError{Schema: FactCheckSchema.Name, Field: "verdict", Reason: "is not a known verdict"})
	}

	if s.cache != nil {
		s.cache.Set(ctx, message, contentType, result)
	}

	return factCheckReply(result), nil
}

func (s *AssistantService) fail(kind models.Kind, err error) *PipelineError {
	pErr := &PipelineError{Kind: kind, Reason: failureReason(err), Err: err}
	s.logger.Warn("assistant pipeline failed",
		zap.String("kind", string(kind)),
		zap.String("reason", pErr.Reason),
		zap.Error(err),
	)
	return pErr
}

func failureReason(err error) string {
	var schemaErr *SchemaError
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ReasonTimeout
	case errors.Is(err, ErrEmptyOutput):
		return ReasonEmptyOutput
	case errors.Is(err, ErrMalformedOutput):
		return ReasonMalformedOutput
	case errors.As(err, &schemaErr):
		return ReasonSchemaViolation
	default:
		return ReasonUpstream
	}
}

func factCheckReply(result models.FactCheckResult) *models.AssistantReply {
	return &models.AssistantReply{
		Text:      result.Explanation,
		FactCheck: &result,
	}
}

func buildCrisisGuidePrompt(message string) string {
	var b strings.Builder

	b.WriteString("You are a crisis management assistant providing immediate emergency guidance.\n\n")

	b.WriteString("CRITICAL INSTRUCTIONS:\n")
	b.WriteString("- For life-threatening emergencies, ALWAYS recommend calling emergency services (112 in India) FIRST, before any other content\n")
	b.WriteString("- Provide clear, actionable safety instructions\n")
	b.WriteString("- Be concise but comprehensive\n")
	b.WriteString("- Include specific do's and don'ts\n")
	b.WriteString("- Mention relevant emergency contact numbers for India (112-Emergency, 100-Police, 101-Fire, 108-Medical)\n\n")

	b.WriteString(fmt.Sprintf("User's emergency situation: %s\n\n", message))
	b.WriteString("Provide immediate guidance and safety instructions:")

	return b.String()
}

func buildFactCheckPrompt(message string, contentType models.ContentType) string {
	var b strings.Builder

	b.WriteString("You are a professional fact-checker specializing in crisis information and misinformation detection.\n\n")

	b.WriteString("ANALYSIS GUIDELINES:\n")
	b.WriteString("- Analyze the claim for factual accuracy\n")
	b.WriteString("- Consider the source credibility if mentioned\n")
	b.WriteString("- Look for signs of misinformation, manipulation, or bias\n")
	b.WriteString("- Be especially vigilant about crisis-related misinformation (natural disasters, health emergencies, security threats)\n")
	b.WriteString("- Provide evidence-based analysis\n")
	b.WriteString("- If information cannot be verified, mark as \"unverified\" rather than guessing\n\n")

	b.WriteString("VERDICT CRITERIA:\n")
	b.WriteString("- TRUE: Information is factually accurate and verifiable\n")
	b.WriteString("- FALSE: Information is demonstrably incorrect or fabricated\n")
	b.WriteString("- MISLEADING: Contains some truth but is presented in a deceptive way or lacks important context\n")
	b.WriteString("- UNVERIFIED: Cannot be confirmed with available information\n\n")

	if contentType == models.ContentImage {
		b.WriteString("Image content to analyze: ")
	} else {
		b.WriteString("Text claim to fact-check: ")
	}
	b.WriteString(message)
	b.WriteString("\n\nProvide a thorough fact-check analysis:")

	return b.String()
}

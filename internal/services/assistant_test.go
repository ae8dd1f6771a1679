package services

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/becomingxdev/CrisisCheckTest1/internal/models"
)

// fakeGenerator returns scripted output and records each prompt.
type fakeGenerator struct {
	mu       sync.Mutex
	text     string
	raw      string
	err      error
	wait     bool
	prompts  []string
	opts     []GenerateOptions
	deadline bool
}

func (g *fakeGenerator) record(ctx context.Context, prompt string, opts GenerateOptions) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.prompts = append(g.prompts, prompt)
	g.opts = append(g.opts, opts)
	_, g.deadline = ctx.Deadline()
}

func (g *fakeGenerator) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	g.record(ctx, prompt, opts)
	if g.wait {
		<-ctx.Done()
		return "", ctx.Err()
	}
	if g.err != nil {
		return "", g.err
	}
	if g.text == "" {
		return "", ErrEmptyOutput
	}
	return g.text, nil
}

func (g *fakeGenerator) GenerateStructured(ctx context.Context, prompt string, schema *ObjectSchema, opts GenerateOptions) (json.RawMessage, error) {
	g.record(ctx, prompt, opts)
	if g.wait {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if g.err != nil {
		return nil, g.err
	}
	return decodeStructured(g.raw, schema)
}

func (g *fakeGenerator) Close() {}

func (g *fakeGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

type memoryVerdictCache struct {
	mu      sync.Mutex
	entries map[string]models.FactCheckResult
}

func (c *memoryVerdictCache) Get(_ context.Context, claim string, contentType models.ContentType) (*models.FactCheckResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.entries[verdictCacheKey(claim, contentType)]
	if !ok {
		return nil, false
	}
	return &r, true
}

func (c *memoryVerdictCache) Set(_ context.Context, claim string, contentType models.ContentType, result models.FactCheckResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.entries == nil {
		c.entries = make(map[string]models.FactCheckResult)
	}
	c.entries[verdictCacheKey(claim, contentType)] = result
}

func newTestAssistant(gen TextGenerator, cache VerdictCache) *AssistantService {
	return NewAssistantService(gen, cache, time.Second, zap.NewNop())
}

func requireReason(t *testing.T, err error, reason string) {
	t.Helper()
	var pErr *PipelineError
	require.ErrorAs(t, err, &pErr)
	require.Equal(t, reason, pErr.Reason)
}

func TestCrisisGuideSuccess(t *testing.T) {
	gen := &fakeGenerator{text: "Leave the building now and call the fire brigade on 101."}
	svc := newTestAssistant(gen, nil)

	reply, err := svc.Submit(context.Background(), models.KindCrisisGuide, "There is smoke in the stairwell")
	require.NoError(t, err)
	require.Equal(t, gen.text, reply.Text)
	require.Nil(t, reply.FactCheck)
	require.Equal(t, []string{"Call Emergency: 112", "Fire Emergency: 101"}, labels(reply.QuickActions))

	require.Equal(t, 1, gen.calls())
	require.True(t, gen.deadline)
	require.Contains(t, gen.prompts[0], "User's emergency situation: There is smoke in the stairwell")
	require.Contains(t, gen.prompts[0], "112")
	require.Equal(t, GenerateOptions{Temperature: 0.3, MaxOutputTokens: 500}, gen.opts[0])
}

func TestSubmitRejectsBlankWithoutCallingProvider(t *testing.T) {
	gen := &fakeGenerator{text: "unused"}
	svc := newTestAssistant(gen, nil)

	for _, kind := range []models.Kind{models.KindCrisisGuide, models.KindFactCheck} {
		_, err := svc.Submit(context.Background(), kind, "   \n")
		require.ErrorIs(t, err, ErrEmptyMessage)
	}
	require.Zero(t, gen.calls())
}

func TestSubmitRejectsUnknownKind(t *testing.T) {
	svc := newTestAssistant(&fakeGenerator{}, nil)
	_, err := svc.Submit(context.Background(), models.Kind("weather"), "hi")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Contains(t, vErr.Fields, "kind")
}

func TestCrisisGuideFailureReasons(t *testing.T) {
	tests := []struct {
		name   string
		gen    *fakeGenerator
		reason string
	}{
		{name: "upstream", gen: &fakeGenerator{err: errors.New("503 from provider")}, reason: ReasonUpstream},
		{name: "empty", gen: &fakeGenerator{}, reason: ReasonEmptyOutput},
		{name: "timeout", gen: &fakeGenerator{wait: true}, reason: ReasonTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAssistantService(tt.gen, nil, 20*time.Millisecond, zap.NewNop())
			reply, err := svc.CrisisGuide(context.Background(), "gas leak")
			require.Nil(t, reply)
			requireReason(t, err, tt.reason)
		})
	}
}

func TestFactCheckSuccess(t *testing.T) {
	gen := &fakeGenerator{raw: "```json\n" + validFactCheck + "\n```"}
	svc := newTestAssistant(gen, nil)

	reply, err := svc.FactCheck(context.Background(), "Dam burst reported in Pune", models.ContentText)
	require.NoError(t, err)
	require.NotNil(t, reply.FactCheck)
	require.Equal(t, models.VerdictFalse, reply.FactCheck.Verdict)
	require.Equal(t, 92.0, reply.FactCheck.Confidence)
	require.Equal(t, []string{"NDMA"}, reply.FactCheck.Sources)
	require.Equal(t, reply.FactCheck.Explanation, reply.Text)
	require.Empty(t, reply.QuickActions)

	require.Contains(t, gen.prompts[0], "Text claim to fact-check: Dam burst reported in Pune")
	require.Equal(t, GenerateOptions{Temperature: 0.2, MaxOutputTokens: 800}, gen.opts[0])
}

func TestFactCheckImageLabel(t *testing.T) {
	gen := &fakeGenerator{raw: validFactCheck}
	svc := newTestAssistant(gen, nil)

	_, err := svc.FactCheck(context.Background(), "photo of flooded airport runway", models.ContentImage)
	require.NoError(t, err)
	require.Contains(t, gen.prompts[0], "Image content to analyze: photo of flooded airport runway")
	require.NotContains(t, gen.prompts[0], "Text claim to fact-check:")
}

func TestFactCheckRejectsUnknownContentType(t *testing.T) {
	gen := &fakeGenerator{raw: validFactCheck}
	svc := newTestAssistant(gen, nil)

	_, err := svc.FactCheck(context.Background(), "claim", models.ContentType("video"))
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	require.Zero(t, gen.calls())
}

func TestFactCheckFailureReasons(t *testing.T) {
	tests := []struct {
		name   string
		gen    *fakeGenerator
		reason string
	}{
		{name: "prose instead of json", gen: &fakeGenerator{raw: "I think this is probably false."}, reason: ReasonMalformedOutput},
		{name: "schema violation", gen: &fakeGenerator{raw: `{"verdict":"probably","confidence":50,"explanation":"x","sources":[],"keyPoints":[]}`}, reason: ReasonSchemaViolation},
		{name: "out of range", gen: &fakeGenerator{raw: `{"verdict":"true","confidence":300,"explanation":"x","sources":[],"keyPoints":[]}`}, reason: ReasonSchemaViolation},
		{name: "empty", gen: &fakeGenerator{raw: ""}, reason: ReasonEmptyOutput},
		{name: "upstream", gen: &fakeGenerator{err: errors.New("quota exceeded")}, reason: ReasonUpstream},
		{name: "timeout", gen: &fakeGenerator{wait: true}, reason: ReasonTimeout},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAssistantService(tt.gen, nil, 20*time.Millisecond, zap.NewNop())
			_, err := svc.Submit(context.Background(), models.KindFactCheck, "claim")
			requireReason(t, err, tt.reason)

			var pErr *PipelineError
			require.ErrorAs(t, err, &pErr)
			require.Equal(t, models.KindFactCheck, pErr.Kind)
		})
	}
}

func TestFactCheckUsesCache(t *testing.T) {
	gen := &fakeGenerator{raw: validFactCheck}
	cache := &memoryVerdictCache{}
	svc := newTestAssistant(gen, cache)

	first, err := svc.FactCheck(context.Background(), "Schools closed  tomorrow", models.ContentText)
	require.NoError(t, err)

	second, err := svc.FactCheck(context.Background(), "schools closed tomorrow", models.ContentText)
	require.NoError(t, err)
	require.Equal(t, first.FactCheck, second.FactCheck)
	require.Equal(t, 1, gen.calls())

	_, err = svc.FactCheck(context.Background(), "schools closed tomorrow", models.ContentImage)
	require.NoError(t, err)
	require.Equal(t, 2, gen.calls())
}

func TestFactCheckFailuresAreNotCached(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("boom")}
	cache := &memoryVerdictCache{}
	svc := newTestAssistant(gen, cache)

	_, err := svc.FactCheck(context.Background(), "claim", models.ContentText)
	require.Error(t, err)
	require.Empty(t, cache.entries)
}

func TestVerdictCacheKeyNormalizes(t *testing.T) {
	a := verdictCacheKey("  Bridge   COLLAPSED in Kolkata ", models.ContentText)
	b := verdictCacheKey("bridge collapsed in kolkata", models.ContentText)
	c := verdictCacheKey("bridge collapsed in kolkata", models.ContentImage)

	require.Equal(t, a, b)
	require.NotEqual(t, b, c)
	require.Contains(t, a, "factcheck:")
}

package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"
)

// ArkConfig holds the Volcengine Ark credentials and model endpoint.
type ArkConfig struct {
	APIKey  string
	Model   string
	BaseURL string
	Region  string
}

// ArkService implements TextGenerator through an eino chat model. Ark has
// no response-schema support, so structured calls describe the schema in
// the prompt and validate the reply locally.
type ArkService struct {
	chatModel model.ChatModel
	modelName string
	slots     rateSlots
	logger    *zap.Logger
}

func NewArkService(ctx context.Context, cfg ArkConfig, concurrentReqs int, logger *zap.Logger) (*ArkService, error) {
	if cfg.APIKey == "" || cfg.Model == "" {
		return nil, fmt.Errorf("ark provider requires ARK_API_KEY and ARK_MODEL")
	}

	chatModel, err := ark.NewChatModel(ctx, &ark.ChatModelConfig{
		BaseURL: cfg.BaseURL,
		Region:  cfg.Region,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Ark chat model: %w", err)
	}

	return newArkService(chatModel, cfg.Model, concurrentReqs, logger), nil
}

func newArkService(chatModel model.ChatModel, modelName string, concurrentReqs int, logger *zap.Logger) *ArkService {
	return &ArkService{
		chatModel: chatModel,
		modelName: modelName,
		slots:     newRateSlots(concurrentReqs),
		logger:    logger,
	}
}

func (s *ArkService) Close() {}

func (s *ArkService) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	if err := s.slots.acquire(ctx); err != nil {
		return "", err
	}
	defer s.slots.release()

	text, err := s.generate(ctx, prompt, opts)
	if err != nil {
		return "", err
	}
	if text == "" {
		return "", ErrEmptyOutput
	}
	return text, nil
}

func (s *ArkService) GenerateStructured(ctx context.Context, prompt string, objSchema *ObjectSchema, opts GenerateOptions) (json.RawMessage, error) {
	if err := s.slots.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.slots.release()

	text, err := s.generate(ctx, prompt+"\n\n"+objSchema.Describe(), opts)
	if err != nil {
		return nil, err
	}
	return decodeStructured(text, objSchema)
}

func (s *ArkService) generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	callOpts := []model.Option{model.WithTemperature(opts.Temperature)}
	if opts.MaxOutputTokens > 0 {
		callOpts = append(callOpts, model.WithMaxTokens(int(opts.MaxOutputTokens)))
	}

	msg, err := s.chatModel.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)}, callOpts...)
	if err != nil {
		return "", fmt.Errorf("Ark API error: %w", err)
	}
	if msg == nil {
		return "", nil
	}

	s.logger.Debug("ark generation finished", zap.String("model", s.modelName), zap.Int("length", len(msg.Content)))
	return strings.TrimSpace(msg.Content), nil
}

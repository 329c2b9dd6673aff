package translator

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/bohradivyansh-maker/translation-assistant/internal/postprocess"
)

const (
	DefaultOpenAIBaseURL = "https://openrouter.ai/api/v1"
	DefaultOpenAIModel   = "mistralai/mistral-nemo:free"
)

// OpenAIService talks to any OpenAI-compatible chat completion endpoint,
// OpenRouter by default.
type OpenAIService struct {
	client      *openai.Client
	apiKey      string
	model       string
	temperature float32
}

func NewOpenAIService(apiKey, baseURL, model string) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL == "" {
		baseURL = DefaultOpenAIBaseURL
	}
	config.BaseURL = baseURL
	if model == "" {
		model = DefaultOpenAIModel
	}
	return &OpenAIService{
		client:      openai.NewClientWithConfig(config),
		apiKey:      apiKey,
		model:       model,
		temperature: 0.3,
	}
}

func (s *OpenAIService) Name() string {
	return "openai"
}

func (s *OpenAIService) complete(ctx context.Context, model, system, user string) (openai.ChatCompletionResponse, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: system},
			{Role: openai.ChatMessageRoleUser, Content: user},
		},
		Temperature: s.temperature,
		MaxTokens:   4096,
	})
	if err != nil {
		return resp, fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return resp, fmt.Errorf("empty response from API")
	}
	return resp, nil
}

func (s *OpenAIService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	if s.apiKey == "" {
		result.Error = "API key required"
		return result, fmt.Errorf("openai: API key required")
	}

	model := cfg.Model
	if model == "" {
		model = s.model
	}

	resp, err := s.complete(ctx, model, buildSystemPrompt(req.SourceLang, req.TargetLang, req.Glossary), req.Text)
	if err != nil {
		result.Error = err.Error()
		return result, err
	}

	text := postprocess.CleanWithLabels(resp.Choices[0].Message.Content, LanguageName(req.TargetLang), req.TargetLang)
	if text == "" {
		result.Error = "empty translation"
		return result, fmt.Errorf("empty translation")
	}

	result.TranslatedText = text
	result.Confidence = 0.7
	result.Metadata = map[string]string{
		"model":             model,
		"prompt_tokens":     strconv.Itoa(resp.Usage.PromptTokens),
		"completion_tokens": strconv.Itoa(resp.Usage.CompletionTokens),
	}
	return result, nil
}

func (s *OpenAIService) Detect(ctx context.Context, text string) (string, float64, error) {
	if s.apiKey == "" {
		return "", 0, fmt.Errorf("openai: API key required")
	}
	resp, err := s.complete(ctx, s.model, detectPrompt, text)
	if err != nil {
		return "", 0, err
	}
	code, err := parseLanguageCode(resp.Choices[0].Message.Content)
	if err != nil {
		return "", 0, err
	}
	return code, llmDetectConfidence, nil
}

func (s *OpenAIService) IsAvailable(ctx context.Context) error {
	if s.apiKey == "" {
		return fmt.Errorf("openai API key not configured")
	}
	return nil
}

func (s *OpenAIService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return LanguageCodes(), nil
}

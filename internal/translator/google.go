package translator

import (
	"context"
	"fmt"
	"strings"
	"time"

	translate "cloud.google.com/go/translate"
	"golang.org/x/text/language"
	"google.golang.org/api/option"
)

// GoogleService calls the Cloud Translation v2 API.
type GoogleService struct {
	credentials string
	opts        []option.ClientOption
}

// NewGoogleService uses the credentials file when given, otherwise the
// application default credentials.
func NewGoogleService(credentials string, opts ...option.ClientOption) *GoogleService {
	return &GoogleService{credentials: credentials, opts: opts}
}

func (s *GoogleService) Name() string {
	return "google"
}

func (s *GoogleService) client(ctx context.Context, cfg ServiceConfig) (*translate.Client, error) {
	opts := append([]option.ClientOption{}, s.opts...)
	creds := cfg.Credentials
	if creds == "" {
		creds = s.credentials
	}
	if creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	}
	client, err := translate.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return client, nil
}

func (s *GoogleService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	targetTag, err := language.Parse(req.TargetLang)
	if err != nil {
		result.Error = fmt.Sprintf("invalid target language: %v", err)
		return result, fmt.Errorf("invalid target language: %w", err)
	}

	var opts *translate.Options
	if req.SourceLang != "" && req.SourceLang != "auto" {
		sourceTag, err := language.Parse(req.SourceLang)
		if err != nil {
			result.Error = fmt.Sprintf("invalid source language: %v", err)
			return result, fmt.Errorf("invalid source language: %w", err)
		}
		opts = &translate.Options{Source: sourceTag, Format: translate.Text}
	}

	client, err := s.client(ctx, cfg)
	if err != nil {
		result.Error = err.Error()
		return result, err
	}
	defer client.Close()

	translations, err := client.Translate(ctx, []string{req.Text}, targetTag, opts)
	if err != nil {
		result.Error = fmt.Sprintf("translation failed: %v", err)
		return result, fmt.Errorf("translation failed: %w", err)
	}
	if len(translations) == 0 {
		result.Error = "no translation returned"
		return result, fmt.Errorf("no translation returned")
	}

	result.TranslatedText = translations[0].Text
	result.Confidence = 1.0
	if src := translations[0].Source; src != language.Und {
		result.Metadata = map[string]string{"detected_source": src.String()}
	}
	return result, nil
}

func (s *GoogleService) Detect(ctx context.Context, text string) (string, float64, error) {
	client, err := s.client(ctx, ServiceConfig{})
	if err != nil {
		return "", 0, err
	}
	defer client.Close()

	detections, err := client.DetectLanguage(ctx, []string{text})
	if err != nil {
		return "", 0, fmt.Errorf("detection failed: %w", err)
	}
	if len(detections) == 0 || len(detections[0]) == 0 {
		return "", 0, fmt.Errorf("no detection returned")
	}

	best := detections[0][0]
	for _, d := range detections[0][1:] {
		if d.Confidence > best.Confidence {
			best = d
		}
	}
	return strings.ToLower(best.Language.String()), best.Confidence, nil
}

func (s *GoogleService) IsAvailable(ctx context.Context) error {
	client, err := s.client(ctx, ServiceConfig{})
	if err != nil {
		return err
	}
	return client.Close()
}

func (s *GoogleService) SupportedLanguages(ctx context.Context) ([]string, error) {
	client, err := s.client(ctx, ServiceConfig{})
	if err != nil {
		return nil, err
	}
	defer client.Close()

	langs, err := client.SupportedLanguages(ctx, language.English)
	if err != nil {
		return nil, err
	}
	codes := make([]string, 0, len(langs))
	for _, l := range langs {
		codes = append(codes, strings.ToLower(l.Tag.String()))
	}
	return codes, nil
}

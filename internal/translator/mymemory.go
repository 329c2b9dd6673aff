package translator

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bohradivyansh-maker/translation-assistant/internal/chunker"
)

const (
	myMemoryURL = "https://api.mymemory.translated.net"
	// myMemoryMaxQuery is the longest q parameter the free API accepts.
	myMemoryMaxQuery = 500
)

type MyMemoryService struct {
	email   string
	baseURL string
	client  *http.Client
}

func NewMyMemoryService(email string) *MyMemoryService {
	return &MyMemoryService{
		email:   email,
		baseURL: myMemoryURL,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (s *MyMemoryService) Name() string {
	return "mymemory"
}

func (s *MyMemoryService) Translate(ctx context.Context, cfg ServiceConfig, req TranslateRequest) (*ServiceResult, error) {
	result := &ServiceResult{ServiceName: s.Name()}
	start := time.Now()
	defer func() { result.Latency = time.Since(start) }()

	sourceLang := req.SourceLang
	if sourceLang == "" || sourceLang == "auto" {
		sourceLang = "en"
	}

	baseURL := s.baseURL
	if cfg.BaseURL != "" {
		baseURL = cfg.BaseURL
	}

	chunks := chunker.Chunk(req.Text, myMemoryMaxQuery)
	parts := make([]string, 0, len(chunks))
	confidence := 1.0
	for _, chunk := range chunks {
		text, match, err := s.translateChunk(ctx, baseURL, chunk, sourceLang, req.TargetLang)
		if err != nil {
			result.Error = err.Error()
			return result, err
		}
		parts = append(parts, text)
		confidence = min(confidence, match)
	}
	if len(parts) == 0 {
		result.Error = "empty translation"
		return result, fmt.Errorf("empty translation")
	}

	result.TranslatedText = strings.Join(parts, " ")
	result.Confidence = min(max(confidence, 0), 1)
	result.Metadata = map[string]string{"chunks": strconv.Itoa(len(parts))}
	return result, nil
}

// translateChunk sends one query and returns the translation and its match
// score.
func (s *MyMemoryService) translateChunk(ctx context.Context, baseURL, text, sourceLang, targetLang string) (string, float64, error) {
	params := url.Values{}
	params.Set("q", text)
	params.Set("langpair", fmt.Sprintf("%s|%s", sourceLang, targetLang))
	if s.email != "" {
		params.Set("de", s.email)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/get?"+params.Encode(), nil)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return "", 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var mymemResp struct {
		ResponseData struct {
			TranslatedText string  `json:"translatedText"`
			Match          float64 `json:"match"`
		} `json:"responseData"`
		ResponseStatus  any    `json:"responseStatus"`
		ResponseDetails string `json:"responseDetails"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&mymemResp); err != nil {
		return "", 0, fmt.Errorf("failed to decode response: %w", err)
	}

	// responseStatus arrives as a number or, on some errors, a string.
	if status := fmt.Sprint(mymemResp.ResponseStatus); status != "200" {
		return "", 0, fmt.Errorf("API error: %s (%s)", mymemResp.ResponseDetails, status)
	}
	if mymemResp.ResponseData.TranslatedText == "" {
		return "", 0, fmt.Errorf("empty translation")
	}
	return mymemResp.ResponseData.TranslatedText, mymemResp.ResponseData.Match, nil
}

func (s *MyMemoryService) Detect(ctx context.Context, text string) (string, float64, error) {
	return "", 0, ErrDetectUnsupported
}

func (s *MyMemoryService) IsAvailable(ctx context.Context) error {
	return nil
}

func (s *MyMemoryService) SupportedLanguages(ctx context.Context) ([]string, error) {
	return []string{
		"en", "es", "fr", "de", "it", "pt", "ru", "ja", "ko", "zh",
		"ar", "nl", "pl", "tr", "sv", "da", "no", "fi", "el", "he",
		"th", "vi", "id", "ms", "cs", "hu", "ro", "uk", "bg", "ca", "hi",
	}, nil
}

package detector

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bohradivyansh-maker/translation-assistant/internal/errs"
	"github.com/bohradivyansh-maker/translation-assistant/internal/logger"
)

// ServiceDetector is a remote detector, usually a translation service.
type ServiceDetector interface {
	Name() string
	Detect(ctx context.Context, text string) (string, float64, error)
}

// LocalDetector is an in-process detector.
type LocalDetector interface {
	DetectWithConfidence(text string) (string, float64, bool)
}

// Detection is the chain's answer. Source names which detector produced it:
// the service name, "lingua" or "fallback".
type Detection struct {
	Lang       string       `json:"lang"`
	Confidence float64      `json:"confidence"`
	Source     string       `json:"source"`
	Outcome    errs.Outcome `json:"outcome"`
}

const (
	SourceLocal    = "lingua"
	SourceFallback = "fallback"
)

// Chain tries the service detector, then the local one, and finally settles
// on a configured language with a low confidence. It never fails.
type Chain struct {
	primary            ServiceDetector
	secondary          LocalDetector
	fallback           string
	fallbackConfidence float64
	logger             *zap.Logger
}

// NewChain builds a chain. Either detector may be nil.
func NewChain(primary ServiceDetector, secondary LocalDetector, fallback string, fallbackConfidence float64, log *zap.Logger) *Chain {
	if fallback == "" {
		fallback = "en"
	}
	return &Chain{
		primary:            primary,
		secondary:          secondary,
		fallback:           fallback,
		fallbackConfidence: fallbackConfidence,
		logger:             logger.OrNop(log),
	}
}

func (c *Chain) Detect(ctx context.Context, text string) Detection {
	var failures []error

	if c.primary != nil {
		lang, conf, err := c.detectPrimary(ctx, text)
		if err == nil && lang != "" {
			return Detection{Lang: normalize(lang), Confidence: clamp(conf), Source: c.primary.Name(), Outcome: errs.OK()}
		}
		if err == nil {
			err = errors.New("empty language code")
		}
		derr := &errs.DetectionError{Detector: c.primary.Name(), Cause: err}
		c.logger.Warn("primary language detection failed", zap.Error(derr))
		failures = append(failures, derr)
	}

	if c.secondary != nil {
		if lang, conf, ok := c.secondary.DetectWithConfidence(text); ok {
			return Detection{Lang: lang, Confidence: clamp(conf), Source: SourceLocal, Outcome: errs.OK()}
		}
		failures = append(failures, &errs.DetectionError{Detector: SourceLocal, Cause: errors.New("no language recognised")})
	}

	cause := errors.Join(failures...)
	if cause == nil {
		cause = &errs.DetectionError{Detector: SourceFallback, Cause: errors.New("no detector configured")}
	}
	c.logger.Warn("language detection failed, using fallback",
		zap.String("fallback", c.fallback), zap.Error(cause))
	return Detection{
		Lang:       c.fallback,
		Confidence: c.fallbackConfidence,
		Source:     SourceFallback,
		Outcome:    errs.Degraded(errs.ReasonDetection, cause),
	}
}

// detectPrimary runs the service detector, turning a panic into an error.
func (c *Chain) detectPrimary(ctx context.Context, text string) (lang string, conf float64, err error) {
	defer func() {
		if p := recover(); p != nil {
			lang, conf, err = "", 0, fmt.Errorf("detector panicked: %v", p)
		}
	}()
	return c.primary.Detect(ctx, text)
}

// normalize turns codes such as "EN" or "zh-CN" into the lower-case form
// used for storage keys, keeping region subtags.
func normalize(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

func clamp(v float64) float64 {
	return min(max(v, 0), 1)
}

// Package orchestrator drives a translation request through detection, the
// translation memory, entity protection, the translator services and back
// into the memory.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/bohradivyansh-maker/translation-assistant/internal/contextwindow"
	"github.com/bohradivyansh-maker/translation-assistant/internal/detector"
	"github.com/bohradivyansh-maker/translation-assistant/internal/domain"
	"github.com/bohradivyansh-maker/translation-assistant/internal/entity"
	"github.com/bohradivyansh-maker/translation-assistant/internal/errs"
	"github.com/bohradivyansh-maker/translation-assistant/internal/logger"
	"github.com/bohradivyansh-maker/translation-assistant/internal/placeholder"
	"github.com/bohradivyansh-maker/translation-assistant/internal/store"
	"github.com/bohradivyansh-maker/translation-assistant/internal/translator"
)

type State string

const (
	StateStart        State = "START"
	StateLangDetected State = "LANG_DETECTED"
	StateCacheChecked State = "CACHE_CHECKED"
	StateCacheHit     State = "CACHE_HIT"
	StateTranslated   State = "TRANSLATED"
	StateStored       State = "STORED"
	StateDone         State = "DONE"
	StateFailed       State = "FAILED"
)

const (
	MethodNoTranslation = "no_translation_needed"
	MethodCache         = "cache"
	MethodError         = "error"
	fallbackSuffix      = "_fallback"

	// alignmentSlack widens the extracted window past the main text's word
	// count.
	alignmentSlack = 5
)

// Request describes one translation. For context-aware translation either
// set FullText (the window is extracted around Text) or set ContextBefore
// and ContextAfter directly.
type Request struct {
	Text          string
	TargetLang    string
	SourceLang    string
	FullText      string
	ContextBefore string
	ContextAfter  string
	// PreserveEntities lists strings to keep untranslated. When empty and
	// entity detection is enabled, the recognizer supplies them.
	PreserveEntities []string
}

type Result struct {
	RequestID         string       `json:"request_id"`
	OriginalText      string       `json:"original_text"`
	TranslatedText    string       `json:"translated_text"`
	SourceLang        string       `json:"source_language"`
	TargetLang        string       `json:"target_language"`
	Confidence        float64      `json:"confidence"`
	Method            string       `json:"method"`
	PreservedEntities []string     `json:"preserved_entities"`
	ContextUsed       bool         `json:"context_used"`
	Domain            string       `json:"domain,omitempty"`
	RecordID          int64        `json:"record_id,omitempty"`
	States            []State      `json:"states"`
	Outcome           errs.Outcome `json:"outcome"`
	// Coalesced is set when the result was shared with a concurrent
	// identical request.
	Coalesced bool `json:"coalesced,omitempty"`
}

// OutputValidator checks the language of a finished translation.
type OutputValidator interface {
	Validate(translated, targetLang string) error
}

// Dictionary supplies user-defined term translations.
type Dictionary interface {
	ListUserTerms(ctx context.Context, sourceLang, targetLang string) []store.UserTerm
}

type Options struct {
	Primary   translator.TranslationService
	Secondary translator.TranslationService
	Memory    store.Memory
	Detector  *detector.Chain
	Window    *contextwindow.Builder
	Preserver *entity.Preserver
	// DetectEntities runs the recognizer when a request names no entities.
	DetectEntities bool
	Classifier     *domain.Classifier
	Dictionary     Dictionary
	// Validator only logs; a mismatch does not change the result.
	Validator       OutputValidator
	ServiceConfig   translator.ServiceConfig
	SentencesBefore int
	SentencesAfter  int
	// Timeout bounds each translator call; zero means no bound.
	Timeout time.Duration
	// MaxLength rejects longer texts (in characters); zero disables it.
	MaxLength int
}

type Orchestrator struct {
	opts   Options
	group  singleflight.Group
	logger *zap.Logger
}

func New(opts Options, log *zap.Logger) *Orchestrator {
	if opts.Classifier == nil {
		opts.Classifier = domain.NewClassifier(domain.DefaultLexicons())
	}
	return &Orchestrator{opts: opts, logger: logger.OrNop(log)}
}

// Translate translates req.Text on its own, ignoring any context fields.
func (o *Orchestrator) Translate(ctx context.Context, req Request) *Result {
	req.FullText, req.ContextBefore, req.ContextAfter = "", "", ""
	return o.coalesce(ctx, req, false)
}

// TranslateWithContext sends the surrounding sentences along with the text
// and extracts the part of the translation that corresponds to req.Text.
func (o *Orchestrator) TranslateWithContext(ctx context.Context, req Request) *Result {
	return o.coalesce(ctx, req, true)
}

// BatchTranslate translates texts one after another.
func (o *Orchestrator) BatchTranslate(ctx context.Context, texts []string, targetLang, sourceLang string) []*Result {
	results := make([]*Result, 0, len(texts))
	for _, text := range texts {
		results = append(results, o.Translate(ctx, Request{Text: text, TargetLang: targetLang, SourceLang: sourceLang}))
	}
	return results
}

func (o *Orchestrator) coalesce(ctx context.Context, req Request, withContext bool) *Result {
	key := strings.Join([]string{
		fmt.Sprint(withContext), req.SourceLang, req.TargetLang, req.Text,
		req.FullText, req.ContextBefore, req.ContextAfter, strings.Join(req.PreserveEntities, "\x00"),
	}, "\x1f")

	// The shared run outlives any single caller's cancellation; each
	// service call is still bounded by the per-call timeout.
	shared := context.WithoutCancel(ctx)
	v, _, coalesced := o.group.Do(key, func() (any, error) {
		return o.run(shared, req, withContext), nil
	})

	res := *v.(*Result)
	res.States = slices.Clone(res.States)
	res.PreservedEntities = slices.Clone(res.PreservedEntities)
	res.Coalesced = coalesced
	return &res
}

type run struct {
	res *Result
	log *zap.Logger
}

func (r *run) enter(s State) {
	r.res.States = append(r.res.States, s)
}

func (r *run) degrade(o errs.Outcome) {
	r.res.Outcome = errs.Worse(r.res.Outcome, o)
}

func (o *Orchestrator) run(ctx context.Context, req Request, withContext bool) *Result {
	r := &run{res: &Result{
		RequestID:         uuid.NewString(),
		OriginalText:      req.Text,
		TranslatedText:    req.Text,
		SourceLang:        strings.ToLower(strings.TrimSpace(req.SourceLang)),
		TargetLang:        strings.ToLower(strings.TrimSpace(req.TargetLang)),
		PreservedEntities: []string{},
		Outcome:           errs.OK(),
	}}
	r.log = o.logger.With(zap.String("request_id", r.res.RequestID))
	r.enter(StateStart)
	res := r.res

	if strings.TrimSpace(req.Text) == "" {
		res.Method = MethodNoTranslation
		res.Confidence = 1.0
		r.enter(StateDone)
		return res
	}

	if o.opts.MaxLength > 0 && utf8.RuneCountInString(req.Text) > o.opts.MaxLength {
		err := &errs.TranslationError{Service: "orchestrator", Cause: fmt.Errorf("text length exceeds %d characters", o.opts.MaxLength)}
		return o.fail(r, err)
	}

	// Language detection.
	if res.SourceLang == "" {
		det := o.detect(ctx, req.Text)
		res.SourceLang, res.Confidence = det.Lang, det.Confidence
		r.degrade(det.Outcome)
		r.log.Info("detected language", zap.String("lang", det.Lang), zap.Float64("confidence", det.Confidence), zap.String("source", det.Source))
	} else {
		res.Confidence = 1.0
	}
	r.enter(StateLangDetected)

	if res.SourceLang == res.TargetLang {
		res.Method = MethodNoTranslation
		r.enter(StateDone)
		return res
	}

	// Cache check on the exact original text.
	if o.opts.Memory != nil {
		rec, hit := o.opts.Memory.Find(ctx, req.Text, res.SourceLang, res.TargetLang)
		r.enter(StateCacheChecked)
		if hit {
			res.TranslatedText = rec.TranslatedText
			res.Method = MethodCache
			res.Domain = rec.Domain
			res.RecordID = rec.ID
			if len(rec.Entities) > 0 {
				res.PreservedEntities = rec.Entities
			}
			r.enter(StateCacheHit)
			r.enter(StateDone)
			return res
		}
	} else {
		r.enter(StateCacheChecked)
	}

	// Context augmentation.
	working := req.Text
	var window contextwindow.Window
	if withContext {
		window = o.window(req)
		if window.HasContext() {
			working = window.Augmented()
			res.ContextUsed = true
		}
	}

	// Entity protection.
	entities := req.PreserveEntities
	if len(entities) == 0 && o.opts.DetectEntities && o.opts.Preserver != nil {
		found, outcome := o.opts.Preserver.IdentifyOutcome(ctx, working)
		r.degrade(outcome)
		entities = entity.Texts(found)
		// Recognised entities are masked longest first so that "New York"
		// is not split by "York". Caller-supplied order is kept as given.
		slices.SortStableFunc(entities, func(a, b string) int {
			return utf8.RuneCountInString(b) - utf8.RuneCountInString(a)
		})
	}
	protected, tokens := placeholder.Protect(working, entities)

	// Translation with one fallback.
	svcReq := translator.TranslateRequest{
		Text:       protected,
		SourceLang: res.SourceLang,
		TargetLang: res.TargetLang,
		Glossary:   o.glossary(ctx, working, res.SourceLang, res.TargetLang),
	}
	translated, method, err := o.translate(ctx, r, svcReq)
	if err != nil {
		return o.fail(r, err)
	}
	r.enter(StateTranslated)

	translated = placeholder.Restore(translated, tokens)
	if missing := placeholder.Missing(translated, tokens); len(missing) > 0 {
		r.log.Warn("entities lost in translation", zap.Strings("entities", missing))
	}
	res.PreservedEntities = placeholder.Entities(tokens)

	if res.ContextUsed {
		translated = align(window.Before, req.Text, translated)
	}
	if o.opts.Validator != nil {
		if err := o.opts.Validator.Validate(translated, res.TargetLang); err != nil {
			r.log.Warn("translation failed validation", zap.String("method", method), zap.Error(err))
		}
	}
	res.TranslatedText = translated
	res.Method = method
	res.Domain = o.opts.Classifier.Classify(req.Text)

	// Store.
	if o.opts.Memory != nil {
		rec := store.Record{
			OriginalText:   req.Text,
			TranslatedText: translated,
			SourceLang:     res.SourceLang,
			TargetLang:     res.TargetLang,
			Domain:         res.Domain,
			Entities:       res.PreservedEntities,
			Confidence:     res.Confidence,
			Method:         method,
		}
		if res.ContextUsed {
			rec.Context = working
		}
		if id := o.opts.Memory.Add(ctx, rec); id > 0 {
			res.RecordID = id
			r.enter(StateStored)
		} else {
			r.degrade(errs.Degraded(errs.ReasonStorage, &errs.StorageError{Op: "add", Cause: errors.New("record not stored")}))
		}
	}

	r.enter(StateDone)
	return res
}

func (o *Orchestrator) detect(ctx context.Context, text string) detector.Detection {
	if o.opts.Detector == nil {
		return detector.NewChain(nil, nil, "", 0.5, o.logger).Detect(ctx, text)
	}
	return o.opts.Detector.Detect(ctx, text)
}

func (o *Orchestrator) window(req Request) contextwindow.Window {
	if req.ContextBefore != "" || req.ContextAfter != "" || req.FullText == "" || o.opts.Window == nil {
		return contextwindow.Window{
			Before: strings.TrimSpace(req.ContextBefore),
			Main:   req.Text,
			After:  strings.TrimSpace(req.ContextAfter),
		}
	}
	w := o.opts.Window.Extract(req.FullText, req.Text, o.opts.SentencesBefore, o.opts.SentencesAfter)
	// The extracted main sentence may be wider than the selection; the
	// selection is what gets translated and aligned.
	w.Main = req.Text
	return w
}

// glossary returns the user dictionary entries whose term occurs in text.
func (o *Orchestrator) glossary(ctx context.Context, text, src, dst string) map[string]string {
	if o.opts.Dictionary == nil {
		return nil
	}
	lower := strings.ToLower(text)
	var out map[string]string
	for _, t := range o.opts.Dictionary.ListUserTerms(ctx, src, dst) {
		if t.Term == "" || !strings.Contains(lower, strings.ToLower(t.Term)) {
			continue
		}
		if out == nil {
			out = make(map[string]string)
		}
		out[t.Term] = t.Translation
	}
	return out
}

func (o *Orchestrator) translate(ctx context.Context, r *run, req translator.TranslateRequest) (string, string, error) {
	if o.opts.Primary == nil {
		return "", "", &errs.TranslationError{Service: "none", Cause: errors.New("no translator configured")}
	}

	text, err := o.call(ctx, o.opts.Primary, req)
	if err == nil {
		return text, o.opts.Primary.Name(), nil
	}
	primaryErr := &errs.TranslationError{Service: o.opts.Primary.Name(), Cause: err}
	r.log.Warn("primary translator failed", zap.Error(primaryErr))

	if o.opts.Secondary == nil {
		return "", "", primaryErr
	}
	text, err = o.call(ctx, o.opts.Secondary, req)
	if err != nil {
		secondaryErr := &errs.TranslationError{Service: o.opts.Secondary.Name(), Cause: err}
		return "", "", errors.Join(primaryErr, secondaryErr)
	}
	return text, o.opts.Secondary.Name() + fallbackSuffix, nil
}

// call invokes svc with the configured timeout and recovers from panics.
func (o *Orchestrator) call(ctx context.Context, svc translator.TranslationService, req translator.TranslateRequest) (text string, err error) {
	if o.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.Timeout)
		defer cancel()
	}
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("translator panicked: %v", p)
		}
	}()

	res, err := svc.Translate(ctx, o.opts.ServiceConfig, req)
	if err != nil {
		return "", err
	}
	if res == nil {
		return "", errors.New("no result")
	}
	if res.Error != "" {
		return "", errors.New(res.Error)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return "", ctxErr
	}
	return res.TranslatedText, nil
}

func (o *Orchestrator) fail(r *run, err error) *Result {
	r.log.Error("translation failed", zap.Error(err))
	res := r.res
	res.TranslatedText = res.OriginalText
	res.Method = MethodError
	res.Confidence = 0
	res.ContextUsed = false
	res.PreservedEntities = []string{}
	r.degrade(errs.Failed(errs.ReasonTranslation, err))
	r.enter(StateFailed)
	return res
}

// align estimates which words of a context-augmented translation belong to
// the main text: it skips as many words as the preceding context had and
// keeps the main text's word count plus a small slack. This is positional,
// not a real alignment. When the translation is no longer than the main
// text, or the window would be empty, the whole translation is returned.
func align(before, main, translated string) string {
	wordsBefore := len(strings.Fields(before))
	wordsMain := len(strings.Fields(main))
	words := strings.Fields(translated)

	if len(words) <= wordsMain {
		return translated
	}
	start := min(wordsBefore, len(words))
	end := min(len(words), start+wordsMain+alignmentSlack)
	if start >= end {
		return translated
	}
	return strings.Join(words[start:end], " ")
}

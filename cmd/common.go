/*
Copyright © 2025 The translation-assistant Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/bohradivyansh-maker/translation-assistant/internal/analyzer"
	"github.com/bohradivyansh-maker/translation-assistant/internal/detector"
	"github.com/bohradivyansh-maker/translation-assistant/internal/domain"
	"github.com/bohradivyansh-maker/translation-assistant/internal/entity"
	"github.com/bohradivyansh-maker/translation-assistant/internal/hotcache"
	"github.com/bohradivyansh-maker/translation-assistant/internal/orchestrator"
	"github.com/bohradivyansh-maker/translation-assistant/internal/segmenter"
	"github.com/bohradivyansh-maker/translation-assistant/internal/store"
	"github.com/bohradivyansh-maker/translation-assistant/internal/translator"
	"github.com/bohradivyansh-maker/translation-assistant/internal/validator"
)

// pipeline holds everything a translating command needs. Close releases the
// store and the cache connection.
type pipeline struct {
	orch     *orchestrator.Orchestrator
	analyzer *analyzer.Analyzer
	closers  []io.Closer
}

func (p *pipeline) Close() {
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i].Close(); err != nil {
			log.Warn("close failed", zap.Error(err))
		}
	}
}

func openStore() (*store.Store, error) {
	db, err := store.New(cfg.Database.Path, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// buildServices resolves the configured primary and secondary translators.
// The secondary is optional.
func buildServices() (translator.TranslationService, translator.TranslationService, error) {
	primary, err := translator.New(cfg.Translation.Primary, cfg.Services)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Translation.Secondary == "" || cfg.Translation.Secondary == cfg.Translation.Primary {
		return primary, nil, nil
	}
	secondary, err := translator.New(cfg.Translation.Secondary, cfg.Services)
	if err != nil {
		return nil, nil, err
	}
	return primary, secondary, nil
}

// buildMemory puts the configured hot cache in front of db.
func buildMemory(ctx context.Context, db *store.Store) (store.Memory, io.Closer, error) {
	switch cfg.Cache.Backend {
	case "memory":
		return hotcache.NewMemory(hotcache.NewInMemory(cfg.Cache.TTL), db, log), nil, nil
	case "redis":
		rc, err := hotcache.NewRedis(ctx, cfg.Cache.RedisURL, cfg.Cache.TTL, cfg.Cache.KeyPrefix)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		return hotcache.NewMemory(rc, db, log), rc, nil
	default:
		return db, nil, nil
	}
}

func newAnalyzer() *analyzer.Analyzer {
	var rec entity.Recognizer
	if cfg.Translation.PreserveEntities {
		rec = entity.NewProseRecognizer()
	}
	return analyzer.New(segmenter.New(log), rec, analyzer.Options{
		SentencesBefore: cfg.Context.SentencesBefore,
		SentencesAfter:  cfg.Context.SentencesAfter,
		KeyTerms:        cfg.NLP.KeyTerms,
		Lexicons:        cfg.Domains,
		EntityLabels:    cfg.Translation.PreserveEntityTypes,
	}, log)
}

func newPipeline(ctx context.Context) (*pipeline, error) {
	primary, secondary, err := buildServices()
	if err != nil {
		return nil, err
	}

	db, err := openStore()
	if err != nil {
		return nil, err
	}
	p := &pipeline{closers: []io.Closer{db}}

	mem, cacheCloser, err := buildMemory(ctx, db)
	if err != nil {
		p.Close()
		return nil, err
	}
	if cacheCloser != nil {
		p.closers = append(p.closers, cacheCloser)
	}

	p.analyzer = newAnalyzer()
	local := detector.New()
	chain := detector.NewChain(primary, local, cfg.Language.Fallback, cfg.Language.FallbackConfidence, log)

	p.orch = orchestrator.New(orchestrator.Options{
		Primary:         primary,
		Secondary:       secondary,
		Memory:          mem,
		Detector:        chain,
		Window:          p.analyzer.Window(),
		Preserver:       p.analyzer.Preserver(),
		DetectEntities:  cfg.Translation.PreserveEntities,
		Classifier:      domain.NewClassifier(cfg.Domains),
		Dictionary:      db,
		Validator:       validator.New(local),
		ServiceConfig:   translator.ServiceConfig{Credentials: cfg.Services.Google.Credentials, ProjectID: cfg.Services.Google.ProjectID, Timeout: cfg.Translation.Timeout},
		SentencesBefore: cfg.Context.SentencesBefore,
		SentencesAfter:  cfg.Context.SentencesAfter,
		Timeout:         cfg.Translation.Timeout,
		MaxLength:       cfg.Context.MaxTranslationLength,
	}, log)
	return p, nil
}

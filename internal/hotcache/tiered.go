package hotcache

import (
	"context"
	"encoding/json"

	"go.uber.org/zap"

	"github.com/bohradivyansh-maker/translation-assistant/internal/logger"
	"github.com/bohradivyansh-maker/translation-assistant/internal/store"
)

// Memory layers a Cache over a store.Memory. Reads consult the cache first
// and back-fill it from the store; writes always go to the store and drop
// the cached copy so the next read sees the updated usage count. Cache
// failures fall back to plain store behaviour.
type Memory struct {
	cache  Cache
	store  store.Memory
	logger *zap.Logger
}

var (
	_ store.Memory = (*Memory)(nil)
	_ store.Purger = (*Memory)(nil)
)

func NewMemory(cache Cache, backing store.Memory, log *zap.Logger) *Memory {
	return &Memory{cache: cache, store: backing, logger: logger.OrNop(log)}
}

func (m *Memory) Find(ctx context.Context, originalText, sourceLang, targetLang string) (*store.Record, bool) {
	key := Key(originalText, sourceLang, targetLang)

	if raw, ok := m.cache.Get(ctx, key); ok {
		var rec store.Record
		if err := json.Unmarshal([]byte(raw), &rec); err == nil {
			return &rec, true
		}
		m.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
		_ = m.cache.Delete(ctx, key)
	}

	rec, ok := m.store.Find(ctx, originalText, sourceLang, targetLang)
	if !ok {
		return nil, false
	}

	if data, err := json.Marshal(rec); err == nil {
		if err := m.cache.Set(ctx, key, string(data)); err != nil {
			m.logger.Warn("cache back-fill failed", zap.Error(err))
		}
	}
	return rec, true
}

func (m *Memory) Add(ctx context.Context, rec store.Record) int64 {
	id := m.store.Add(ctx, rec)
	if id > 0 {
		if err := m.cache.Delete(ctx, Key(rec.OriginalText, rec.SourceLang, rec.TargetLang)); err != nil {
			m.logger.Warn("cache invalidation failed", zap.Error(err))
		}
	}
	return id
}

// Purge deletes rows from the backing store and then flushes the whole
// cache. A backing store without purge support reports failure.
func (m *Memory) Purge(ctx context.Context, olderThanDays *int) (int64, bool) {
	p, ok := m.store.(store.Purger)
	if !ok {
		m.logger.Warn("backing store does not support purge")
		return 0, false
	}
	n, ok := p.Purge(ctx, olderThanDays)
	if !ok {
		return 0, false
	}
	if err := m.cache.Flush(ctx); err != nil {
		m.logger.Warn("cache flush after purge failed", zap.Error(err))
	}
	return n, true
}

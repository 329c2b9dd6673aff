// Package store is the SQLite-backed translation memory and user dictionary.
//
// Every storage error is logged and reported as a miss, false, empty result
// or -1 id. Callers treat a failed read exactly like a cache miss.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"go.uber.org/zap"
	"golang.org/x/text/unicode/norm"
	_ "modernc.org/sqlite"

	"github.com/bohradivyansh-maker/translation-assistant/internal/errs"
	"github.com/bohradivyansh-maker/translation-assistant/internal/logger"
)

const (
	// DefaultMethod is recorded when Add is given no method.
	DefaultMethod = "api"

	// timestamps are written with millisecond precision in UTC so ordering
	// by recency is stable within a second.
	nowExpr      = `strftime('%Y-%m-%d %H:%M:%f', 'now')`
	readTimeExpr = `strftime('%Y-%m-%dT%H:%M:%fZ', timestamp)`
	timeLayout   = "2006-01-02T15:04:05.000Z"

	maxFuzzyRunes      = 1000
	maxFuzzyCandidates = 500
)

// Memory is the translation-memory contract used by the orchestrator.
type Memory interface {
	Find(ctx context.Context, originalText, sourceLang, targetLang string) (*Record, bool)
	Add(ctx context.Context, rec Record) int64
}

// Purger deletes translations by age. A nil olderThanDays deletes all of them.
type Purger interface {
	Purge(ctx context.Context, olderThanDays *int) (int64, bool)
}

var _ Purger = (*Store)(nil)

// Record is one row of the translations table.
type Record struct {
	ID             int64     `json:"id"`
	OriginalText   string    `json:"original_text"`
	TranslatedText string    `json:"translated_text"`
	SourceLang     string    `json:"source_lang"`
	TargetLang     string    `json:"target_lang"`
	Context        string    `json:"context,omitempty"`
	Domain         string    `json:"domain,omitempty"`
	Entities       []string  `json:"entities,omitempty"`
	Confidence     float64   `json:"confidence"`
	Method         string    `json:"method"`
	Timestamp      time.Time `json:"timestamp"`
	UsageCount     int       `json:"usage_count"`
}

type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ Memory = (*Store)(nil)

// New opens (creating if needed) the database at dbPath and applies the
// schema. The parent directory is created when missing.
func New(dbPath string, log *zap.Logger) (*Store, error) {
	if dir := filepath.Dir(dbPath); dbPath != ":memory:" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection serialises writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	s := &Store{db: db, logger: logger.OrNop(log)}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate: %w", err)
	}

	s.logger.Debug("translation memory ready", zap.String("path", dbPath))
	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS translations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		original_text TEXT NOT NULL,
		translated_text TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		context TEXT,
		domain TEXT,
		entities TEXT,
		confidence REAL,
		method TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		usage_count INTEGER DEFAULT 1
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_translation_lookup
		ON translations(original_text, source_lang, target_lang);

	CREATE TABLE IF NOT EXISTS user_dictionary (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		term TEXT NOT NULL,
		translation TEXT NOT NULL,
		source_lang TEXT NOT NULL,
		target_lang TEXT NOT NULL,
		domain TEXT,
		notes TEXT,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
		UNIQUE(term, source_lang, target_lang)
	);

	-- statistics is an audit trail of add / reuse / hit / purge actions
	CREATE TABLE IF NOT EXISTS statistics (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		translation_id INTEGER,
		action TEXT,
		timestamp DATETIME DEFAULT CURRENT_TIMESTAMP,
		FOREIGN KEY (translation_id) REFERENCES translations(id)
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

func (s *Store) fail(op string, err error) {
	s.logger.Error("translation memory error", zap.Error(&errs.StorageError{Op: op, Cause: err}))
}

const recordColumns = `id, original_text, translated_text, source_lang, target_lang,
	context, domain, entities, confidence, method, ` + readTimeExpr + `, usage_count`

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*Record, error) {
	var (
		rec                       Record
		ctxText, domain, entities sql.NullString
		method, ts                sql.NullString
		confidence                sql.NullFloat64
	)
	if err := row.Scan(&rec.ID, &rec.OriginalText, &rec.TranslatedText, &rec.SourceLang, &rec.TargetLang,
		&ctxText, &domain, &entities, &confidence, &method, &ts, &rec.UsageCount); err != nil {
		return nil, err
	}

	rec.Context = ctxText.String
	rec.Domain = domain.String
	rec.Method = method.String
	rec.Confidence = confidence.Float64
	if entities.Valid && entities.String != "" {
		if err := json.Unmarshal([]byte(entities.String), &rec.Entities); err != nil {
			return nil, fmt.Errorf("decode entities of record %d: %w", rec.ID, err)
		}
	}
	if ts.Valid {
		if t, err := time.Parse(timeLayout, ts.String); err == nil {
			rec.Timestamp = t
		}
	}
	return &rec, nil
}

func (s *Store) queryRecords(ctx context.Context, op, query string, args ...any) []Record {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.fail(op, err)
		return []Record{}
	}
	defer rows.Close()

	out := []Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			s.fail(op, err)
			return []Record{}
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		s.fail(op, err)
		return []Record{}
	}
	return out
}

// Find returns the stored translation for the exact key. Among several rows
// for one key the most used, then most recent, wins.
func (s *Store) Find(ctx context.Context, originalText, sourceLang, targetLang string) (*Record, bool) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM translations
		 WHERE original_text = ? AND source_lang = ? AND target_lang = ?
		 ORDER BY usage_count DESC, timestamp DESC
		 LIMIT 1`,
		originalText, sourceLang, targetLang)

	rec, err := scanRecord(row)
	if err == sql.ErrNoRows {
		return nil, false
	}
	if err != nil {
		s.fail("find", err)
		return nil, false
	}

	s.audit(ctx, rec.ID, "hit")
	return rec, true
}

// Add stores rec and returns its id. When the key already exists the
// existing row's usage count is incremented and its timestamp refreshed; the
// stored translation is kept. Returns -1 on failure.
func (s *Store) Add(ctx context.Context, rec Record) int64 {
	method := rec.Method
	if method == "" {
		method = DefaultMethod
	}

	var entities sql.NullString
	if len(rec.Entities) > 0 {
		data, err := json.Marshal(rec.Entities)
		if err != nil {
			s.fail("add", err)
			return -1
		}
		entities = sql.NullString{String: string(data), Valid: true}
	}

	var id int64
	var usage int
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO translations
			(original_text, translated_text, source_lang, target_lang, context, domain, entities, confidence, method, timestamp, usage_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, `+nowExpr+`, 1)
		 ON CONFLICT(original_text, source_lang, target_lang) DO UPDATE SET
			usage_count = usage_count + 1,
			timestamp = excluded.timestamp
		 RETURNING id, usage_count`,
		rec.OriginalText, rec.TranslatedText, rec.SourceLang, rec.TargetLang,
		nullString(rec.Context), nullString(rec.Domain), entities, rec.Confidence, method,
	).Scan(&id, &usage)
	if err != nil {
		s.fail("add", err)
		return -1
	}

	action := "add"
	if usage > 1 {
		action = "reuse"
	}
	s.audit(ctx, id, action)
	return id
}

// SearchSimilar returns records whose original text contains fragment,
// most used and most recent first.
func (s *Store) SearchSimilar(ctx context.Context, fragment, sourceLang, targetLang string, limit int) []Record {
	if limit <= 0 {
		limit = 5
	}
	return s.queryRecords(ctx, "search_similar",
		`SELECT `+recordColumns+` FROM translations
		 WHERE original_text LIKE ? ESCAPE '\' AND source_lang = ? AND target_lang = ?
		 ORDER BY usage_count DESC, timestamp DESC
		 LIMIT ?`,
		"%"+escapeLike(fragment)+"%", sourceLang, targetLang, limit)
}

// FindFuzzy returns the stored record whose original text is most similar to
// text, provided the similarity (1 - distance/maxLen) reaches threshold.
// A threshold <= 0 disables the lookup; texts over 1000 runes are skipped.
func (s *Store) FindFuzzy(ctx context.Context, text, sourceLang, targetLang string, threshold float64) (*Record, float64, bool) {
	if threshold <= 0 {
		return nil, 0, false
	}
	normalized := normalizeText(text)
	if len([]rune(normalized)) > maxFuzzyRunes {
		return nil, 0, false
	}

	candidates := s.queryRecords(ctx, "find_fuzzy",
		`SELECT `+recordColumns+` FROM translations
		 WHERE source_lang = ? AND target_lang = ?
		 ORDER BY usage_count DESC, timestamp DESC
		 LIMIT ?`,
		sourceLang, targetLang, maxFuzzyCandidates)

	var best *Record
	bestScore := 0.0
	ln := len([]rune(normalized))
	for i := range candidates {
		cand := &candidates[i]
		candText := normalizeText(cand.OriginalText)
		lc := len([]rune(candText))
		maxLen := max(ln, lc)
		if maxLen == 0 {
			continue
		}
		// Length difference alone bounds the best reachable similarity.
		if 1-float64(abs(ln-lc))/float64(maxLen) < threshold {
			continue
		}
		score := 1 - float64(fuzzy.LevenshteinDistance(normalized, candText))/float64(maxLen)
		if score >= threshold && score > bestScore {
			best, bestScore = cand, score
		}
	}
	if best == nil {
		return nil, 0, false
	}
	return best, bestScore, true
}

// History returns the most recent records, optionally filtered by language.
func (s *Store) History(ctx context.Context, limit int, sourceLang, targetLang string) []Record {
	if limit <= 0 {
		limit = 50
	}
	var (
		conds []string
		args  []any
	)
	if sourceLang != "" {
		conds = append(conds, "source_lang = ?")
		args = append(args, sourceLang)
	}
	if targetLang != "" {
		conds = append(conds, "target_lang = ?")
		args = append(args, targetLang)
	}

	query := `SELECT ` + recordColumns + ` FROM translations`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY timestamp DESC, id DESC LIMIT ?"
	args = append(args, limit)

	return s.queryRecords(ctx, "history", query, args...)
}

// LanguagePair counts records for one source/target pair.
type LanguagePair struct {
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
	Count      int    `json:"count"`
}

// DomainCount counts records tagged with one domain.
type DomainCount struct {
	Domain string `json:"domain"`
	Count  int    `json:"count"`
}

type Statistics struct {
	TotalTranslations  int            `json:"total_translations"`
	TotalUsage         int            `json:"total_usage"`
	TopLanguagePairs   []LanguagePair `json:"top_language_pairs"`
	DomainDistribution []DomainCount  `json:"domain_distribution"`
	UserDictionarySize int            `json:"user_dictionary_size"`
}

// Statistics summarises the memory. On error the zero value is returned.
func (s *Store) Statistics(ctx context.Context) Statistics {
	stats, err := s.statistics(ctx)
	if err != nil {
		s.fail("statistics", err)
		return Statistics{}
	}
	return stats
}

func (s *Store) statistics(ctx context.Context) (Statistics, error) {
	stats := Statistics{TopLanguagePairs: []LanguagePair{}, DomainDistribution: []DomainCount{}}

	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(usage_count), 0) FROM translations`,
	).Scan(&stats.TotalTranslations, &stats.TotalUsage)
	if err != nil {
		return stats, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT source_lang, target_lang, COUNT(*) AS count FROM translations
		 GROUP BY source_lang, target_lang
		 ORDER BY count DESC, source_lang, target_lang
		 LIMIT 10`)
	if err != nil {
		return stats, err
	}
	for rows.Next() {
		var p LanguagePair
		if err := rows.Scan(&p.SourceLang, &p.TargetLang, &p.Count); err != nil {
			rows.Close()
			return stats, err
		}
		stats.TopLanguagePairs = append(stats.TopLanguagePairs, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return stats, err
	}

	rows, err = s.db.QueryContext(ctx,
		`SELECT domain, COUNT(*) AS count FROM translations
		 WHERE domain IS NOT NULL
		 GROUP BY domain
		 ORDER BY count DESC, domain`)
	if err != nil {
		return stats, err
	}
	for rows.Next() {
		var d DomainCount
		if err := rows.Scan(&d.Domain, &d.Count); err != nil {
			rows.Close()
			return stats, err
		}
		stats.DomainDistribution = append(stats.DomainDistribution, d)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return stats, err
	}

	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM user_dictionary`).Scan(&stats.UserDictionarySize)
	return stats, err
}

// Purge deletes every translation, or with olderThanDays only those whose
// timestamp is more than that many days old. It returns the number of
// deleted rows and whether the purge succeeded.
func (s *Store) Purge(ctx context.Context, olderThanDays *int) (int64, bool) {
	var (
		res sql.Result
		err error
	)
	if olderThanDays != nil {
		res, err = s.db.ExecContext(ctx,
			`DELETE FROM translations
			 WHERE timestamp < strftime('%Y-%m-%d %H:%M:%f', 'now', '-' || ? || ' days')`,
			*olderThanDays)
	} else {
		res, err = s.db.ExecContext(ctx, `DELETE FROM translations`)
	}
	if err != nil {
		s.fail("purge", err)
		return 0, false
	}

	n, err := res.RowsAffected()
	if err != nil {
		s.fail("purge", err)
		return 0, false
	}
	s.audit(ctx, 0, "purge")
	s.logger.Info("translation memory purged", zap.Int64("deleted", n), zap.Any("older_than_days", olderThanDays))
	return n, true
}

// audit appends to the statistics table. A zero id is stored as NULL.
func (s *Store) audit(ctx context.Context, translationID int64, action string) {
	var id sql.NullInt64
	if translationID > 0 {
		id = sql.NullInt64{Int64: translationID, Valid: true}
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO statistics (translation_id, action, timestamp) VALUES (?, ?, `+nowExpr+`)`,
		id, action); err != nil {
		s.logger.Warn("failed to record statistics", zap.String("action", action), zap.Error(err))
	}
}

// ActionCounts returns how many times each audited action was recorded.
func (s *Store) ActionCounts(ctx context.Context) map[string]int {
	out := make(map[string]int)
	rows, err := s.db.QueryContext(ctx, `SELECT action, COUNT(*) FROM statistics GROUP BY action`)
	if err != nil {
		s.fail("action_counts", err)
		return out
	}
	defer rows.Close()
	for rows.Next() {
		var action string
		var n int
		if err := rows.Scan(&action, &n); err != nil {
			s.fail("action_counts", err)
			return out
		}
		out[action] = n
	}
	return out
}

func (s *Store) Close() error {
	return s.db.Close()
}

// normalizeText trims whitespace and applies Unicode NFC normalization for
// fuzzy comparison. Exact lookups use the text as given.
func normalizeText(text string) string {
	return norm.NFC.String(strings.TrimSpace(text))
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

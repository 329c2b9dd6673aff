package store

import (
	"context"
	"database/sql"
	"strings"
	"time"
)

// UserTerm is a user-defined translation for a term and language pair.
type UserTerm struct {
	ID          int64     `json:"id"`
	Term        string    `json:"term"`
	Translation string    `json:"translation"`
	SourceLang  string    `json:"source_lang"`
	TargetLang  string    `json:"target_lang"`
	Domain      string    `json:"domain,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// AddUserTerm inserts the term, replacing any existing entry for the same
// term and language pair.
func (s *Store) AddUserTerm(ctx context.Context, t UserTerm) bool {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO user_dictionary (term, translation, source_lang, target_lang, domain, notes)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.Term, t.Translation, t.SourceLang, t.TargetLang, nullString(t.Domain), nullString(t.Notes))
	if err != nil {
		s.fail("add_user_term", err)
		return false
	}
	s.logger.Sugar().Infof("added to user dictionary: %s -> %s", t.Term, t.Translation)
	return true
}

// GetUserTerm looks up the user's translation of term.
func (s *Store) GetUserTerm(ctx context.Context, term, sourceLang, targetLang string) (string, bool) {
	var translation string
	err := s.db.QueryRowContext(ctx,
		`SELECT translation FROM user_dictionary WHERE term = ? AND source_lang = ? AND target_lang = ?`,
		term, sourceLang, targetLang).Scan(&translation)
	if err == sql.ErrNoRows {
		return "", false
	}
	if err != nil {
		s.fail("get_user_term", err)
		return "", false
	}
	return translation, true
}

// ListUserTerms returns dictionary entries ordered by term. Empty language
// arguments match every language.
func (s *Store) ListUserTerms(ctx context.Context, sourceLang, targetLang string) []UserTerm {
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
	query := `SELECT id, term, translation, source_lang, target_lang, domain, notes,
		strftime('%Y-%m-%dT%H:%M:%fZ', created_at) FROM user_dictionary`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY term, source_lang, target_lang"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		s.fail("list_user_terms", err)
		return []UserTerm{}
	}
	defer rows.Close()

	out := []UserTerm{}
	for rows.Next() {
		var (
			t                 UserTerm
			domain, notes, ts sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.Term, &t.Translation, &t.SourceLang, &t.TargetLang, &domain, &notes, &ts); err != nil {
			s.fail("list_user_terms", err)
			return []UserTerm{}
		}
		t.Domain, t.Notes = domain.String, notes.String
		if parsed, err := time.Parse(timeLayout, ts.String); err == nil {
			t.CreatedAt = parsed
		}
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		s.fail("list_user_terms", err)
		return []UserTerm{}
	}
	return out
}

// DeleteUserTerm removes a dictionary entry. It reports whether a row was
// deleted.
func (s *Store) DeleteUserTerm(ctx context.Context, term, sourceLang, targetLang string) bool {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM user_dictionary WHERE term = ? AND source_lang = ? AND target_lang = ?`,
		term, sourceLang, targetLang)
	if err != nil {
		s.fail("delete_user_term", err)
		return false
	}
	n, err := res.RowsAffected()
	if err != nil {
		s.fail("delete_user_term", err)
		return false
	}
	return n > 0
}

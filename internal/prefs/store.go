// internal/prefs/store.go
//
// SQLite persistence for preferences.
// Responsibilities:
//   - Load/Save one row per key in preferences(owner_id, key, value).
//   - Record a finished round into history and streaks.
//   - Claim moves a guest's rows to an account that has none stored yet.
//
// Notes:
//   - Unknown keys, malformed JSON and null values are skipped on Load so
//     the field keeps its default.

package prefs

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Store keeps preferences in the preferences(owner_id, key, value) table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// fields maps each key onto a decoder writing into p. A value that fails to
// decode leaves the field untouched.
func (p *Preferences) fields() map[string]func([]byte) error {
	return map[string]func([]byte) error{
		KeyContentRating:  decodeInto(&p.ContentRating),
		KeyOrigin:         decodeInto(&p.Origin),
		KeyStatus:         decodeInto(&p.Status),
		KeyGuessHistory:   decodeInto(&p.GuessHistory),
		KeyIncludedGenres: decodeInto(&p.IncludedGenres),
		KeyExcludedGenres: decodeInto(&p.ExcludedGenres),
		KeyStreak:         decodeInto(&p.Streak),
		KeyBestStreak:     decodeInto(&p.BestStreak),
	}
}

var errNull = errors.New("null value")

// decodeInto rejects a JSON null so a stored null keeps the default.
func decodeInto[T any](dst *T) func([]byte) error {
	return func(b []byte) error {
		if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
			return errNull
		}
		var v T
		if err := json.Unmarshal(b, &v); err != nil {
			return err
		}
		*dst = v
		return nil
	}
}

func (p Preferences) values() map[string]any {
	return map[string]any{
		KeyContentRating:  p.ContentRating,
		KeyOrigin:         p.Origin,
		KeyStatus:         p.Status,
		KeyGuessHistory:   p.GuessHistory,
		KeyIncludedGenres: p.IncludedGenres,
		KeyExcludedGenres: p.ExcludedGenres,
		KeyStreak:         p.Streak,
		KeyBestStreak:     p.BestStreak,
	}
}

// Load returns owner's preferences on top of Defaults. Unknown keys and
// malformed values are skipped.
func (s *Store) Load(ctx context.Context, ownerID string) (Preferences, error) {
	p := Defaults()
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM preferences WHERE owner_id=?`, ownerID)
	if err != nil {
		return p, fmt.Errorf("load prefs: %w", err)
	}
	defer rows.Close()

	fields := p.fields()
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return Defaults(), fmt.Errorf("scan prefs: %w", err)
		}
		decode, ok := fields[key]
		if !ok {
			continue
		}
		if err := decode([]byte(value)); err != nil {
			log.Warn().Err(err).Str("owner", ownerID).Str("key", key).Msg("ignoring malformed preference")
		}
	}
	return p, rows.Err()
}

// Save writes every key of p for owner.
func (s *Store) Save(ctx context.Context, ownerID string, p Preferences) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for key, v := range p.values() {
		b, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("encode %s: %w", key, err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO preferences(owner_id, key, value) VALUES(?,?,?)
			 ON CONFLICT(owner_id, key) DO UPDATE SET value=excluded.value`,
			ownerID, key, string(b)); err != nil {
			return fmt.Errorf("save %s: %w", key, err)
		}
	}
	return tx.Commit()
}

// Record loads owner's preferences, records the outcome and saves them back.
func (s *Store) Record(ctx context.Context, ownerID string, hist HistoryEntry) (Preferences, error) {
	p, err := s.Load(ctx, ownerID)
	if err != nil {
		return p, err
	}
	p.Record(hist.Comic, hist.Correct)
	return p, s.Save(ctx, ownerID, p)
}

// Claim moves anonymous preferences to a user who has none stored yet.
func (s *Store) Claim(ctx context.Context, anonID, userID string) error {
	if anonID == "" || userID == "" || anonID == userID {
		return nil
	}
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM preferences WHERE owner_id=?`, userID).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	_, err := s.db.ExecContext(ctx, `UPDATE preferences SET owner_id=? WHERE owner_id=?`, userID, anonID)
	return err
}

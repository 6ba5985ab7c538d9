// internal/daily/store.go
//
// SQLite persistence for daily results.
// Responsibilities:
//   - One result per owner and date (INSERT OR IGNORE).
//   - Leaderboard ordered by hints, then guesses, then time.

package daily

import (
	"context"
	"database/sql"
)

// Result is one player's finished daily round.
type Result struct {
	OwnerID   string `json:"ownerId"`
	Date      string `json:"date"`
	ComicID   int64  `json:"comicId"`
	Guesses   int    `json:"guesses"`
	HintsUsed int    `json:"hintsUsed"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Store persists daily results in the daily_results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// AlreadyPlayed reports whether owner has a result for date.
func (s *Store) AlreadyPlayed(ctx context.Context, ownerID, date string) (bool, error) {
	var cnt int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM daily_results WHERE owner_id=? AND date=?`,
		ownerID, date,
	).Scan(&cnt)
	return cnt > 0, err
}

// InsertResult records r. A second result for the same owner and date is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(owner_id, date, comic_id, guesses, hints_used, elapsed_ms)
		 VALUES(?,?,?,?,?,?)`,
		r.OwnerID, r.Date, r.ComicID, r.Guesses, r.HintsUsed, r.ElapsedMs,
	)
	return err
}

// LBRow is one leaderboard line. Username is empty for guests.
type LBRow struct {
	OwnerID   string `json:"ownerId"`
	Username  string `json:"username,omitempty"`
	Guesses   int    `json:"guesses"`
	HintsUsed int    `json:"hintsUsed"`
	ElapsedMs int64  `json:"elapsedMs"`
}

// Leaderboard returns the best results for date: fewest hints, then fewest
// guesses, then fastest.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT d.owner_id, COALESCE(u.username, ''), d.guesses, d.hints_used, d.elapsed_ms
		 FROM daily_results d
		 LEFT JOIN users u ON u.id = d.owner_id
		 WHERE d.date=?
		 ORDER BY d.hints_used ASC, d.guesses ASC, d.elapsed_ms ASC, d.created_at ASC
		 LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.OwnerID, &r.Username, &r.Guesses, &r.HintsUsed, &r.ElapsedMs); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// internal/prefs/prefs.go
//
// Per-player preferences: catalog filters, guess history and streaks.
// Stored as key → JSON value rows so a malformed value only loses that key.

package prefs

import (
	"slices"

	"github.com/robalobadob/comicguess/internal/comic"
	"github.com/robalobadob/comicguess/internal/game"
)

// HistoryLimit caps the guess history.
const HistoryLimit = 10

// Keys of the stored values.
const (
	KeyContentRating  = "contentRating"
	KeyOrigin         = "origin"
	KeyStatus         = "status"
	KeyGuessHistory   = "guessHistory"
	KeyIncludedGenres = "includedGenres"
	KeyExcludedGenres = "excludedGenres"
	KeyStreak         = "streak"
	KeyBestStreak     = "bestStreak"
)

// HistoryEntry is one finished round.
type HistoryEntry struct {
	Comic   comic.Comic `json:"comic"`
	Correct bool        `json:"correct"`
}

// Preferences is everything remembered about a player.
type Preferences struct {
	ContentRating  []string       `json:"contentRating"`
	Origin         []string       `json:"origin"`
	Status         []int          `json:"status"`
	GuessHistory   []HistoryEntry `json:"guessHistory"`
	IncludedGenres []int          `json:"includedGenres"`
	ExcludedGenres []int          `json:"excludedGenres"`
	Streak         int            `json:"streak"`
	BestStreak     int            `json:"bestStreak"`
}

// Defaults allow every rating, origin and status.
func Defaults() Preferences {
	return Preferences{
		ContentRating:  slices.Clone(comic.AllRatings),
		Origin:         slices.Clone(comic.AllOrigins),
		Status:         slices.Clone(comic.AllStatuses),
		GuessHistory:   []HistoryEntry{},
		IncludedGenres: []int{},
		ExcludedGenres: []int{},
	}
}

// Record adds a finished round to the history and updates the streaks.
// A skip or a wrong answer resets the streak.
func (p *Preferences) Record(c comic.Comic, correct bool) {
	entry := HistoryEntry{Comic: c, Correct: correct}
	p.GuessHistory = append([]HistoryEntry{entry}, p.GuessHistory...)
	if len(p.GuessHistory) > HistoryLimit {
		p.GuessHistory = p.GuessHistory[:HistoryLimit]
	}
	if correct {
		p.Streak++
		p.BestStreak = max(p.BestStreak, p.Streak)
	} else {
		p.Streak = 0
	}
}

// Filters converts the stored filters for the round finder, excluding comics
// already in the history.
func (p Preferences) Filters() game.Filters {
	f := game.Filters{
		ContentRating:  p.ContentRating,
		Origin:         p.Origin,
		Status:         p.Status,
		IncludedGenres: p.IncludedGenres,
		ExcludedGenres: p.ExcludedGenres,
	}
	for _, h := range p.GuessHistory {
		f.Exclude = append(f.Exclude, h.Comic.ID)
	}
	return f
}

// Normalize enforces the history cap and non-negative streaks on client input.
func (p *Preferences) Normalize() {
	if len(p.GuessHistory) > HistoryLimit {
		p.GuessHistory = p.GuessHistory[:HistoryLimit]
	}
	p.Streak = max(p.Streak, 0)
	p.BestStreak = max(p.BestStreak, p.Streak)
}

// internal/game/engine.go
//
// Round engine for a single comic.
// Responsibilities:
//   - Create rounds from a found comic (uuid id, hint budget, acceptable titles).
//   - Apply free-text guesses through the title matcher.
//   - Build and answer multiple-choice options through the distractor selector.
//   - Hand out hints until the budget is spent.
//   - Track state transitions: playing → won/lost.
//
// Notes:
//   - Each round owns its *rand.Rand; a daily round gets a date-seeded one so
//     every player sees the same hints and option order.
//   - Rejected free-text guesses (too short, not specific) are not counted.

package game

import (
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/comicguess/internal/choice"
	"github.com/robalobadob/comicguess/internal/comic"
	"github.com/robalobadob/comicguess/internal/comick"
	"github.com/robalobadob/comicguess/internal/hint"
	"github.com/robalobadob/comicguess/internal/match"
)

// Settings configure new rounds.
type Settings struct {
	Hints   int
	Matcher *match.Matcher
	Hint    hint.Options
}

// DefaultSettings mirrors the default game rules.
var DefaultSettings = Settings{
	Hints:   DefaultHints,
	Matcher: match.New(match.DefaultOptions),
	Hint:    hint.DefaultOptions,
}

// NewRound starts a round for f.
func NewRound(f Found, mode Mode, set Settings, rng *rand.Rand) *Round {
	if set.Matcher == nil {
		set.Matcher = match.New(match.DefaultOptions)
	}
	if set.Hints < 1 {
		set.Hints = DefaultHints
	}
	return &Round{
		ID:         uuid.NewString(),
		Mode:       mode,
		Started:    time.Now(),
		detail:     f.Detail,
		chapterHID: f.ChapterHID,
		images:     f.Images,
		titles:     f.Detail.Comic.AcceptableTitles(),
		matcher:    set.Matcher,
		gen:        hint.NewGenerator(rng, set.Hint),
		rng:        rng,
		hintsLeft:  set.Hints,
		state:      StatePlaying,
	}
}

// Guess checks a free-text guess. A correct guess wins the round.
func (r *Round) Guess(text string) (match.Verdict, State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StatePlaying {
		return "", r.state, ErrFinished
	}
	v := r.matcher.Check(text, r.titles)
	switch v {
	case match.Correct:
		r.guesses = append(r.guesses, text)
		r.state = StateWon
	case match.Incorrect:
		r.guesses = append(r.guesses, text)
	}
	return v, r.state, nil
}

// Options returns the three multiple-choice titles, building them from pool
// on first use. Later calls return the same options.
func (r *Round) Options(pool []string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.options == nil {
		r.options = choice.Options(r.detail.Comic.Title, pool, r.rng)
	}
	return append([]string(nil), r.options...)
}

// Choose answers a multiple-choice round. One choice ends the round.
func (r *Round) Choose(option string) (bool, State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StatePlaying {
		return false, r.state, ErrFinished
	}
	if r.options == nil {
		return false, r.state, ErrNoOptions
	}
	r.guesses = append(r.guesses, option)
	correct := option == r.detail.Comic.Title
	if correct {
		r.state = StateWon
	} else {
		r.state = StateLost
	}
	return correct, r.state, nil
}

// Hint reveals the next clue. It returns the remaining budget.
func (r *Round) Hint() (string, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StatePlaying {
		return "", r.hintsLeft, ErrFinished
	}
	if r.hintsLeft <= 0 {
		return "", 0, ErrNoHints
	}
	text, _, ok := r.gen.Next(r.detail, &r.session)
	if ok {
		r.hintsLeft--
		r.hints = append(r.hints, text)
	}
	return text, r.hintsLeft, nil
}

// Skip gives up on the round.
func (r *Round) Skip() (State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.state != StatePlaying {
		return r.state, ErrFinished
	}
	r.state = StateLost
	return r.state, nil
}

// State reports the round outcome so far.
func (r *Round) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Comic is the catalog entry being guessed.
func (r *Round) Comic() comic.Comic { return r.detail.Comic }

// Stats returns the number of counted guesses and hints used.
func (r *Round) Stats() (guesses, hints int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.guesses), len(r.hints)
}

// View snapshots the round. imageBase prefixes image keys.
func (r *Round) View(imageBase string) View {
	r.mu.Lock()
	defer r.mu.Unlock()
	v := View{
		ID:             r.ID,
		Mode:           r.Mode,
		Daily:          r.Daily,
		State:          r.state,
		ChapterHID:     r.chapterHID,
		Images:         make([]ImageView, 0, len(r.images)),
		HintsRemaining: r.hintsLeft,
		Hints:          append([]string{}, r.hints...),
		Options:        append([]string(nil), r.options...),
		Guesses:        len(r.guesses),
		ElapsedMs:      time.Since(r.Started).Milliseconds(),
	}
	for _, img := range r.images {
		v.Images = append(v.Images, ImageView{URL: comick.ImageURL(imageBase, img), W: img.W, H: img.H})
	}
	if r.state != StatePlaying {
		c := r.detail.Comic
		v.Answer = c.Title
		v.Comic = &c
	}
	return v
}

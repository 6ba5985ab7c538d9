// internal/game/types.go
//
// Core type definitions for a comic guessing round.
// Defines:
//   - Mode: free-text guessing or multiple choice.
//   - State: playing, won, lost (skipped or wrong choice).
//   - Round: state for a single in-progress or finished round.
//   - Sentinel errors and their player-facing messages.

package game

import (
	"errors"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/robalobadob/comicguess/internal/comic"
	"github.com/robalobadob/comicguess/internal/hint"
	"github.com/robalobadob/comicguess/internal/match"
)

// Mode is how the player answers.
type Mode string

const (
	ModeText   Mode = "text"
	ModeChoice Mode = "choice"
)

// ParseMode maps a client-supplied mode onto a Mode, defaulting to text.
func ParseMode(s string) Mode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "choice", "multiple-choice", "multiple_choice", "mc":
		return ModeChoice
	default:
		return ModeText
	}
}

// State is the coarse outcome of a round.
type State string

const (
	StatePlaying State = "playing"
	StateWon     State = "won"
	StateLost    State = "lost"
)

// DefaultHints is the number of hints a round hands out.
const DefaultHints = 3

var (
	ErrNoMatch   = errors.New("no comics found matching your criteria")
	ErrDetail    = errors.New("failed to load comic details")
	ErrNoChapter = errors.New("no valid chapter found for this comic")
	ErrImages    = errors.New("failed to load comic images")
	ErrFinished  = errors.New("round finished")
	ErrNoHints   = errors.New("no hints remaining")
	ErrNoOptions = errors.New("options not generated for this round")
	ErrNotFound  = errors.New("round not found")
)

// Message converts any error escaping a round into display text.
func Message(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoMatch):
		return "No comics found matching your criteria. Try adjusting your filters."
	case errors.Is(err, ErrDetail):
		return "Failed to load comic details. Please try again."
	case errors.Is(err, ErrNoChapter):
		return "No valid chapter found for this comic. Please try again."
	case errors.Is(err, ErrImages):
		return "Failed to load comic images. Please try again."
	case errors.Is(err, ErrFinished):
		return "This round is over. Start a new one!"
	case errors.Is(err, ErrNoHints):
		return "No hints remaining for this comic."
	case errors.Is(err, ErrNoOptions):
		return "Ask for the options before choosing."
	case errors.Is(err, ErrNotFound):
		return "Round not found. Start a new one!"
	default:
		return "An unknown error occurred. Please try again."
	}
}

// Round holds the state of one comic guessing round. All methods are safe
// for concurrent use.
type Round struct {
	mu sync.Mutex

	ID      string
	Owner   string // user or anonymous id that started the round
	Mode    Mode
	Daily   string // date key for daily rounds, empty otherwise
	Started time.Time

	detail     comic.Detail
	chapterHID string
	images     []comic.Image
	titles     []string // acceptable answers: title + alternates

	matcher   *match.Matcher
	gen       *hint.Generator
	rng       *rand.Rand
	session   hint.Session
	hintsLeft int
	hints     []string
	options   []string
	guesses   []string
	state     State
}

// View is a JSON-friendly snapshot of a round. The answer and comic are
// only filled in once the round is finished.
type View struct {
	ID             string       `json:"roundId"`
	Mode           Mode         `json:"mode"`
	Daily          string       `json:"daily,omitempty"`
	State          State        `json:"state"`
	ChapterHID     string       `json:"chapterHid"`
	Images         []ImageView  `json:"images"`
	HintsRemaining int          `json:"hintsRemaining"`
	Hints          []string     `json:"hints"`
	Options        []string     `json:"options,omitempty"`
	Guesses        int          `json:"guesses"`
	Answer         string       `json:"answer,omitempty"`
	Comic          *comic.Comic `json:"comic,omitempty"`
	ElapsedMs      int64        `json:"elapsedMs"`
}

// ImageView is one revealed panel.
type ImageView struct {
	URL string `json:"url"`
	W   int    `json:"w"`
	H   int    `json:"h"`
}

// internal/httpserver/routes_game.go
//
// Round endpoints (optional auth; guests play under their anonymous id):
//   - POST /game/new      → find a comic and start a round
//   - POST /game/guess    → free-text guess
//   - GET  /game/options  → multiple-choice titles (built once per round)
//   - POST /game/choose   → answer a multiple-choice round
//   - POST /game/hint     → next hint
//   - POST /game/skip     → give up
//   - GET  /game/{id}     → current view of a round
//
// Finishing a round records it in the player's history, updates the games
// row and, for signed-in players, the account counters.

package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/comicguess/internal/game"
	"github.com/robalobadob/comicguess/internal/match"
	"github.com/robalobadob/comicguess/internal/prefs"
)

func (s *Server) mountGame(r chi.Router) {
	r.Route("/game", func(r chi.Router) {
		r.Post("/new", s.handleNewGame)
		r.Post("/guess", s.handleGuess)
		r.Get("/options", s.handleOptions)
		r.Post("/choose", s.handleChoose)
		r.Post("/hint", s.handleHint)
		r.Post("/skip", s.handleSkip)
		r.Get("/{id}", s.handleGetRound)
	})
}

// newGameReq is the body of POST /game/new. Filters override the stored
// preferences for this round only.
type newGameReq struct {
	Mode    string        `json:"mode"`
	Filters *game.Filters `json:"filters,omitempty"`
}

// handleNewGame finds a comic for the player's filters and starts a round.
func (s *Server) handleNewGame(w http.ResponseWriter, r *http.Request) {
	var req newGameReq
	_ = json.NewDecoder(r.Body).Decode(&req)

	owner := s.ownerID(w, r)
	p, err := s.prefs.Load(r.Context(), owner)
	if err != nil {
		log.Warn().Err(err).Str("owner", owner).Msg("load prefs")
		p = prefs.Defaults()
	}
	f := p.Filters()
	if req.Filters != nil {
		exclude := f.Exclude
		f = *req.Filters
		f.Exclude = exclude
	}

	rng := s.newRand()
	found, err := s.finder.Find(r.Context(), f, rng)
	if err != nil {
		s.gameError(w, err)
		return
	}
	round := game.NewRound(found, game.ParseMode(req.Mode), s.settings, rng)
	round.Owner = owner
	if round.Mode == game.ModeChoice {
		round.Options(s.pool.Titles())
	}
	if !s.startRound(w, r, round) {
		return
	}
	writeJSON(w, http.StatusOK, round.View(s.cfg.ImageBaseURL))
}

// startRound saves a new round and its games row.
func (s *Server) startRound(w http.ResponseWriter, r *http.Request, round *game.Round) bool {
	if err := s.rounds.Save(r.Context(), round); err != nil {
		log.Error().Err(err).Msg("save round")
		jsonError(w, http.StatusInternalServerError, "save_failed")
		return false
	}

	// Persist owner row; the answer stays server-side in memory.
	userID, anonID := any(nil), any(round.Owner)
	if me := currentUser(r); me != nil {
		userID, anonID = me.ID, nil
	}
	c := round.Comic()
	if _, err := s.db.ExecContext(r.Context(),
		`INSERT INTO games (id, user_id, anonymous_id, comic_id, comic_title, mode, status, started_at)
		 VALUES (?,?,?,?,?,?,?,?)`,
		round.ID, userID, anonID, c.ID, c.Title, string(round.Mode), string(game.StatePlaying),
		round.Started.UTC().Format(time.RFC3339)); err != nil {
		log.Warn().Err(err).Str("roundId", round.ID).Msg("insert game row")
	}
	return true
}

// roundReq carries the fields shared by the play endpoints.
type roundReq struct {
	RoundID string `json:"roundId"`
	Guess   string `json:"guess,omitempty"`
	Option  string `json:"option,omitempty"`
}

// guessRes is returned by /game/guess and /game/choose.
type guessRes struct {
	Verdict match.Verdict `json:"verdict"`
	Correct bool          `json:"correct"`
	Message string        `json:"message"`
	State   game.State    `json:"state"`
	Round   game.View     `json:"round"`
}

func (s *Server) handleGuess(w http.ResponseWriter, r *http.Request) {
	req, round, ok := s.decodeRound(w, r)
	if !ok {
		return
	}
	v, state, err := round.Guess(req.Guess)
	if err != nil {
		s.gameError(w, err)
		return
	}
	if state != game.StatePlaying {
		s.finish(r, round)
	}
	_ = json.NewEncoder(w).Encode(guessRes{
		Verdict: v,
		Correct: v == match.Correct,
		Message: v.Message(),
		State:   state,
		Round:   round.View(s.cfg.ImageBaseURL),
	})
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	round, ok := s.lookupRound(w, r, r.URL.Query().Get("roundId"))
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"options": round.Options(s.pool.Titles())})
}

func (s *Server) handleChoose(w http.ResponseWriter, r *http.Request) {
	req, round, ok := s.decodeRound(w, r)
	if !ok {
		return
	}
	correct, state, err := round.Choose(req.Option)
	if err != nil {
		s.gameError(w, err)
		return
	}
	s.finish(r, round)
	v := match.Incorrect
	if correct {
		v = match.Correct
	}
	_ = json.NewEncoder(w).Encode(guessRes{
		Verdict: v,
		Correct: correct,
		Message: v.Message(),
		State:   state,
		Round:   round.View(s.cfg.ImageBaseURL),
	})
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request) {
	_, round, ok := s.decodeRound(w, r)
	if !ok {
		return
	}
	text, left, err := round.Hint()
	if err != nil {
		s.gameError(w, err)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"hint": text, "hintsRemaining": left})
}

func (s *Server) handleSkip(w http.ResponseWriter, r *http.Request) {
	_, round, ok := s.decodeRound(w, r)
	if !ok {
		return
	}
	if _, err := round.Skip(); err != nil {
		s.gameError(w, err)
		return
	}
	s.finish(r, round)
	_ = json.NewEncoder(w).Encode(round.View(s.cfg.ImageBaseURL))
}

func (s *Server) handleGetRound(w http.ResponseWriter, r *http.Request) {
	round, ok := s.lookupRound(w, r, chi.URLParam(r, "id"))
	if !ok {
		return
	}
	_ = json.NewEncoder(w).Encode(round.View(s.cfg.ImageBaseURL))
}

// decodeRound reads a roundReq body and loads the round it names.
func (s *Server) decodeRound(w http.ResponseWriter, r *http.Request) (roundReq, *game.Round, bool) {
	var req roundReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_json")
		return req, nil, false
	}
	round, ok := s.lookupRound(w, r, req.RoundID)
	return req, round, ok
}

// lookupRound loads a round owned by the caller. A guest who signed in
// mid-round still owns it through the anonymous cookie.
func (s *Server) lookupRound(w http.ResponseWriter, r *http.Request, id string) (*game.Round, bool) {
	if id == "" {
		jsonError(w, http.StatusBadRequest, "roundId is required")
		return nil, false
	}
	round, err := s.rounds.Get(r.Context(), id)
	if err != nil || !s.owns(r, round) {
		s.gameError(w, game.ErrNotFound)
		return nil, false
	}
	return round, true
}

func (s *Server) owns(r *http.Request, round *game.Round) bool {
	if me := currentUser(r); me != nil && me.ID == round.Owner {
		return true
	}
	c, err := r.Cookie(anonCookieName)
	return err == nil && c.Value != "" && c.Value == round.Owner
}

// finish persists the outcome of a round that just ended. Every step is
// best effort: the round itself already holds the result.
func (s *Server) finish(r *http.Request, round *game.Round) {
	ctx := r.Context()
	state := round.State()
	won := state == game.StateWon
	guesses, hints := round.Stats()
	c := round.Comic()

	// A guest who signed in mid-round finishes as the account.
	owner, isUser := round.Owner, false
	if me := currentUser(r); me != nil {
		owner, isUser = me.ID, true
	}
	if _, err := s.prefs.Record(ctx, owner, prefs.HistoryEntry{Comic: c, Correct: won}); err != nil {
		log.Warn().Err(err).Str("owner", owner).Msg("record history")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		log.Warn().Err(err).Msg("begin finish tx")
		return
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`UPDATE games SET status=?, guesses=?, hints_used=?, finished_at=? WHERE id=?`,
		string(state), guesses, hints, time.Now().UTC().Format(time.RFC3339), round.ID); err != nil {
		log.Warn().Err(err).Msg("finish game")
	}
	if isUser {
		if err := bumpStats(tx, owner, won); err != nil {
			log.Warn().Err(err).Str("user", owner).Msg("bump stats")
		}
	}
	if err := tx.Commit(); err != nil {
		log.Warn().Err(err).Msg("commit finish tx")
	}

	if round.Daily != "" && won {
		s.daily.record(ctx, owner, round)
	}
}

// gameError maps round errors onto status codes with a display message.
func (s *Server) gameError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, game.ErrNoMatch), errors.Is(err, game.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, game.ErrDetail), errors.Is(err, game.ErrNoChapter), errors.Is(err, game.ErrImages):
		code = http.StatusBadGateway
	case errors.Is(err, game.ErrFinished), errors.Is(err, game.ErrNoHints), errors.Is(err, game.ErrNoOptions):
		code = http.StatusConflict
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		code = http.StatusGatewayTimeout
	}
	if code >= 500 {
		log.Error().Err(err).Msg("round failed")
	}
	jsonError(w, code, game.Message(err))
}

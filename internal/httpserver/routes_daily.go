// internal/httpserver/routes_daily.go
//
// HTTP routes for the "Daily Challenge" mode.
// Exposes two endpoints under /daily:
//   - POST /daily/new         → start today's round (creates or reuses session)
//   - GET  /daily/leaderboard → fetch top results for today (or a given date)
//
// Play goes through the regular /game/* endpoints with the returned roundId.
// Each player gets one result per day (enforced by DB + in-memory session).
// The comic is found once per day with a date-seeded rng, so every player
// guesses the same comic; results are persisted on a win.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/comicguess/internal/comic"
	"github.com/robalobadob/comicguess/internal/daily"
	"github.com/robalobadob/comicguess/internal/game"
)

// dailyFilters keep the shared comic suitable for everyone.
var dailyFilters = game.Filters{ContentRating: []string{comic.RatingSafe, comic.RatingSuggestive}}

// dailyServer wraps dependencies for /daily endpoints.
type dailyServer struct {
	srv   *Server
	store *daily.Store
	salt  string
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*game.Round // active rounds keyed by ownerID|date

	findMu sync.Mutex // serializes the daily search
	date   string
	found  *game.Found
}

// mountDaily registers all /daily routes.
func (s *Server) mountDaily(r chi.Router) {
	s.daily = &dailyServer{
		srv:      s,
		store:    daily.NewStore(s.db),
		salt:     s.cfg.DailySalt,
		now:      func() time.Time { return time.Now().UTC() },
		sessions: make(map[string]*game.Round),
	}
	r.Route("/daily", func(r chi.Router) {
		r.Post("/new", s.daily.handleNew)
		r.Get("/leaderboard", s.daily.handleLeaderboard)
	})
}

// -----------------------------------------------------------------------------
// /daily/new

// newRes is returned by /daily/new. Round is nil when Played is true.
type newRes struct {
	Date   string     `json:"date"`
	Played bool       `json:"played"`
	Round  *game.View `json:"round,omitempty"`
}

// handleNew creates or reuses today's round for the caller.
// - If the player already has a DB row for today → Played=true.
// - Otherwise create/reuse an in-memory round and return its view.
func (d *dailyServer) handleNew(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Mode string `json:"mode"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)

	owner := d.srv.ownerID(w, r)
	now := d.now()
	date := daily.DateKey(now)

	if played, err := d.store.AlreadyPlayed(r.Context(), owner, date); err == nil && played {
		_ = json.NewEncoder(w).Encode(newRes{Date: date, Played: true})
		return
	}

	key := owner + "|" + date
	d.mu.Lock()
	round, ok := d.sessions[key]
	d.mu.Unlock()
	if ok {
		if _, err := d.srv.rounds.Get(r.Context(), round.ID); err == nil {
			v := round.View(d.srv.cfg.ImageBaseURL)
			_ = json.NewEncoder(w).Encode(newRes{Date: date, Played: round.State() != game.StatePlaying, Round: &v})
			return
		}
		// The round store dropped it; start over on the same seed.
		d.mu.Lock()
		if d.sessions[key] == round {
			delete(d.sessions, key)
		}
		d.mu.Unlock()
	}

	found, err := d.today(r.Context(), now)
	if err != nil {
		d.srv.gameError(w, err)
		return
	}

	// Same seed for every player: same hint order and option shuffle.
	rng := daily.Rand(now, d.salt)
	round = game.NewRound(*found, game.ParseMode(req.Mode), d.srv.settings, rng)
	round.Owner = owner
	round.Daily = date
	if round.Mode == game.ModeChoice {
		round.Options(d.srv.pool.Titles())
	}
	if !d.srv.startRound(w, r, round) {
		return
	}

	d.mu.Lock()
	d.prune(date)
	d.sessions[key] = round
	d.mu.Unlock()

	v := round.View(d.srv.cfg.ImageBaseURL)
	_ = json.NewEncoder(w).Encode(newRes{Date: date, Round: &v})
}

// today returns the comic for now's date, searching once per date.
func (d *dailyServer) today(ctx context.Context, now time.Time) (*game.Found, error) {
	d.findMu.Lock()
	defer d.findMu.Unlock()
	date := daily.DateKey(now)
	if d.date == date && d.found != nil {
		return d.found, nil
	}
	found, err := d.srv.finder.Find(ctx, dailyFilters, daily.Rand(now, d.salt))
	if err != nil {
		return nil, err
	}
	d.date, d.found = date, &found
	log.Info().Str("date", date).Int64("comicId", found.Detail.Comic.ID).Msg("daily comic picked")
	return d.found, nil
}

// prune drops sessions of earlier days. Caller holds d.mu.
func (d *dailyServer) prune(date string) {
	for k, round := range d.sessions {
		if round.Daily != date {
			delete(d.sessions, k)
		}
	}
}

// record persists a won daily round.
func (d *dailyServer) record(ctx context.Context, owner string, round *game.Round) {
	guesses, hints := round.Stats()
	err := d.store.InsertResult(ctx, daily.Result{
		OwnerID:   owner,
		Date:      round.Daily,
		ComicID:   round.Comic().ID,
		Guesses:   guesses,
		HintsUsed: hints,
		ElapsedMs: time.Since(round.Started).Milliseconds(),
	})
	if err != nil {
		log.Warn().Err(err).Str("owner", owner).Msg("insert daily result")
	}
}

// -----------------------------------------------------------------------------
// /daily/leaderboard

// lbRes is returned by /daily/leaderboard.
type lbRes struct {
	Date string        `json:"date"`
	Top  []daily.LBRow `json:"top"`
}

// handleLeaderboard returns the leaderboard for the given date (default today).
func (d *dailyServer) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	date := q.Get("date")
	if date == "" {
		date = daily.DateKey(d.now())
	}
	rows, err := d.store.Leaderboard(r.Context(), date, intParam(q.Get("limit"), 20))
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "server error")
		return
	}
	if rows == nil {
		rows = []daily.LBRow{}
	}
	_ = json.NewEncoder(w).Encode(lbRes{Date: date, Top: rows})
}

// internal/httpserver/server.go
//
// HTTP server wiring for the comic guessing backend.
// Responsibilities:
//   - Router + middleware (JSON, CORS, timeouts, panic recovery, request IDs, access log).
//   - Public endpoints: "/", "/health".
//   - Catalog proxy: /api/comick/* (routes_proxy.go).
//   - Game endpoints (optional auth): /game/* (routes_game.go).
//   - Preferences + stats: /prefs, /stats/me (routes_prefs.go).
//   - Daily Challenge endpoints (optional auth): /daily/* (routes_daily.go).
//   - Auth: /auth/*, anonymous owner cookie, user rows (auth.go).
//
// Notes:
//   - CORS is origin-aware and credentials-enabled (so cookies work).
//   - Guests are identified by an anonymous cookie; their preferences and
//     games move to their account on signup/login.

package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"math/rand"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/comicguess/internal/choice"
	"github.com/robalobadob/comicguess/internal/config"
	"github.com/robalobadob/comicguess/internal/game"
	"github.com/robalobadob/comicguess/internal/match"
	"github.com/robalobadob/comicguess/internal/prefs"
	"github.com/robalobadob/comicguess/internal/store"
)

// Deps are the collaborators a Server needs.
type Deps struct {
	Config   config.Config
	DB       *sql.DB
	Rounds   store.Store
	Upstream Upstream
	Finder   *game.Finder
	Pool     *choice.Pool
	// Seed fixes the source of round randomness; zero uses the clock.
	Seed int64
}

// Server bundles router, round store, upstream client and DB handle.
type Server struct {
	r        *chi.Mux
	cfg      config.Config
	db       *sql.DB
	rounds   store.Store
	up       Upstream
	finder   *game.Finder
	pool     *choice.Pool
	prefs    *prefs.Store
	daily    *dailyServer
	settings game.Settings

	rngMu sync.Mutex
	rng   *rand.Rand
}

// New constructs a Server, installs middleware, and registers routes.
func New(d Deps) *Server {
	seed := d.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	s := &Server{
		r:      chi.NewRouter(),
		cfg:    d.Config,
		db:     d.DB,
		rounds: d.Rounds,
		up:     d.Upstream,
		finder: d.Finder,
		pool:   d.Pool,
		prefs:  prefs.NewStore(d.DB),
		settings: game.Settings{
			Hints:   d.Config.HintsPerRound,
			Matcher: match.New(d.Config.MatchOptions()),
			Hint:    d.Config.HintOptions(),
		},
		rng: rand.New(rand.NewSource(seed)),
	}

	// --- middleware ---
	s.r.Use(chimw.RequestID)
	s.r.Use(chimw.RealIP)
	s.r.Use(accessLog)
	s.r.Use(chimw.Recoverer)
	s.r.Use(chimw.Timeout(60 * time.Second)) // a new round may walk many catalog pages
	s.r.Use(jsonContentType)
	s.r.Use(cors(d.Config.ClientOrigin))

	// --- diagnostics ---
	s.r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"service":"comicguess","endpoints":["/health","/api/comick","POST /game/new","POST /daily/new","/prefs","/auth/*"]}`))
	})
	s.r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"ok": true, "titles": s.pool.Len()})
	})

	s.mountProxy(s.r)

	// Game, prefs and daily: OPTIONAL AUTH (guests can play)
	s.r.Group(func(r chi.Router) {
		r.Use(s.withOptionalAuth())
		s.mountGame(r)
		s.mountPrefs(r)
		s.mountDaily(r)
	})

	s.mountAuthRoutes()

	s.r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		jsonError(w, http.StatusNotFound, "not_found")
	})

	return s
}

// shutdownTimeout bounds how long in-flight requests get once Run stops.
const shutdownTimeout = 10 * time.Second

// Run serves HTTP on addr until ctx is done, then shuts down gracefully.
// A clean shutdown returns nil.
func (s *Server) Run(ctx context.Context, addr string) error {
	hs := &http.Server{Addr: addr, Handler: s.r, ReadHeaderTimeout: 10 * time.Second}
	errc := make(chan error, 1)
	go func() { errc <- hs.ListenAndServe() }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := hs.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Router exposes the internal router (useful for tests).
func (s *Server) Router() chi.Router { return s.r }

// newRand derives an independent source for one round.
func (s *Server) newRand() *rand.Rand {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return rand.New(rand.NewSource(s.rng.Int63()))
}

// ----------------------------- middleware ----------------------------------

// jsonContentType sets a default JSON Content-Type header on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		next.ServeHTTP(w, r)
	})
}

// cors enables credentialed CORS for a single origin.
func cors(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Vary", "Origin")
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,PUT,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// accessLog writes one zerolog line per request.
func accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			log.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("took", time.Since(start)).
				Str("reqId", chimw.GetReqID(r.Context())).
				Msg("request")
		}()
		next.ServeHTTP(ww, r)
	})
}

// ------------------------------- helpers -----------------------------------

// writeJSON encodes v with the given status.
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// jsonError writes {"error": msg}.
func jsonError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// internal/httpserver/auth.go
//
// Accounts and ownership.
// Responsibilities:
//   - /auth/signup, /auth/login, /auth/logout, /auth/me.
//   - Gated views: /stats/me, /games/mine.
//   - JWT signing (HS256) and the auth cookie.
//   - Anonymous owner cookie for guests, claimed on signup/login.
//   - Per-user win/streak counters (bumpStats).

package httpserver

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

const anonCookieName = "comicguess_anon"

var errUsernameTaken = errors.New("username taken")

// authUser is placed into request context by auth middleware.
type authUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// ctxUserKey is the context key type for storing authUser.
type ctxUserKey struct{}

// currentUser returns the authenticated user or nil for guests.
func currentUser(r *http.Request) *authUser {
	me, _ := r.Context().Value(ctxUserKey{}).(*authUser)
	return me
}

// ownerID is the user id when signed in, otherwise the anonymous cookie.
func (s *Server) ownerID(w http.ResponseWriter, r *http.Request) string {
	if me := currentUser(r); me != nil {
		return me.ID
	}
	return s.ensureAnonID(w, r)
}

// Request payloads for signup/login.
type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// mountAuthRoutes registers authentication + gated routes (/auth/*, /stats/me, /games/mine).
func (s *Server) mountAuthRoutes() {
	s.r.Post("/auth/signup", s.handleSignup)
	s.r.Post("/auth/login", s.handleLogin)
	s.r.Post("/auth/logout", s.handleLogout)

	s.r.Group(func(r chi.Router) {
		r.Use(s.requireAuth())
		r.Get("/auth/me", func(w http.ResponseWriter, r *http.Request) {
			_ = json.NewEncoder(w).Encode(currentUser(r))
		})
		r.Get("/stats/me", s.handleStats)
		r.Get("/games/mine", s.handleMyGames)
	})
}

// handleSignup creates a new user, signs a JWT, sets auth cookie, and claims anon history.
func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.createUser(r.Context(), body.Username, body.Password)
	if err != nil {
		if errors.Is(err, errUsernameTaken) {
			jsonError(w, http.StatusConflict, "Username taken")
			return
		}
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !s.signIn(w, r, u) {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"id": u.ID, "username": u.Username, "createdAt": u.CreatedAt})
}

// handleLogin authenticates user, sets cookie, and claims anon history.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid_json")
		return
	}
	u, err := s.findUserByUsername(r.Context(), strings.TrimSpace(body.Username))
	if err != nil || !checkPassword(u.PasswordHash, body.Password) {
		jsonError(w, http.StatusUnauthorized, "Invalid username or password")
		return
	}
	if !s.signIn(w, r, u) {
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{"id": u.ID, "username": u.Username})
}

// signIn sets the auth cookie and moves the guest's games and preferences
// to the account.
func (s *Server) signIn(w http.ResponseWriter, r *http.Request, u *userRow) bool {
	tok, exp, err := s.signJWT(u.ID, u.Username)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "sign_failed")
		return false
	}
	s.setAuthCookie(w, tok, exp)
	s.claimAnon(r.Context(), s.ensureAnonID(w, r), u.ID)
	return true
}

// handleLogout clears the auth cookie.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.setCookie(w, s.cfg.CookieName, "", time.Time{}, -1)
	_ = json.NewEncoder(w).Encode(map[string]bool{"ok": true})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	u, err := s.findUserByID(r.Context(), me.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "not_found")
		return
	}
	p, err := s.prefs.Load(r.Context(), me.ID)
	if err != nil {
		log.Warn().Err(err).Str("user", me.ID).Msg("load prefs for stats")
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":          u.ID,
		"gamesPlayed": u.GamesPlayed,
		"wins":        u.Wins,
		"streak":      u.Streak,
		"bestStreak":  p.BestStreak,
	})
}

// gameRow is one line of /games/mine.
type gameRow struct {
	ID         string `json:"id"`
	ComicID    int64  `json:"comicId"`
	ComicTitle string `json:"comicTitle"`
	Mode       string `json:"mode"`
	Status     string `json:"status"`
	Guesses    int    `json:"guesses"`
	HintsUsed  int    `json:"hintsUsed"`
	StartedAt  string `json:"startedAt"`
	FinishedAt string `json:"finishedAt,omitempty"`
}

func (s *Server) handleMyGames(w http.ResponseWriter, r *http.Request) {
	me := currentUser(r)
	rows, err := s.db.QueryContext(r.Context(),
		`SELECT id, comic_id, comic_title, mode, status, guesses, hints_used, started_at, COALESCE(finished_at,'')
		 FROM games WHERE user_id=? ORDER BY started_at DESC LIMIT 50`, me.ID)
	if err != nil {
		jsonError(w, http.StatusInternalServerError, "db_error")
		return
	}
	defer rows.Close()

	out := []gameRow{}
	for rows.Next() {
		var g gameRow
		if err := rows.Scan(&g.ID, &g.ComicID, &g.ComicTitle, &g.Mode, &g.Status,
			&g.Guesses, &g.HintsUsed, &g.StartedAt, &g.FinishedAt); err == nil {
			out = append(out, g)
		}
	}
	_ = json.NewEncoder(w).Encode(out)
}

// --------------------------- optional auth ---------------------------------

// withOptionalAuth decorates requests with user context if a valid JWT is present.
// It never 401s; used for routes where guests are allowed.
func (s *Server) withOptionalAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if me := s.authenticate(r); me != nil {
				r = r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, me))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireAuth enforces a valid JWT and injects authUser into request context.
func (s *Server) requireAuth() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if bearerOrCookie(r, s.cfg.CookieName) == "" {
				jsonError(w, http.StatusUnauthorized, "Unauthorized")
				return
			}
			me := s.authenticate(r)
			if me == nil {
				jsonError(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxUserKey{}, me)))
		})
	}
}

// authenticate validates the request token and checks the user still exists.
func (s *Server) authenticate(r *http.Request) *authUser {
	tok := bearerOrCookie(r, s.cfg.CookieName)
	if tok == "" {
		return nil
	}
	claims := jwt.MapClaims{}
	t, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !t.Valid {
		return nil
	}
	id, _ := claims["id"].(string)
	if id == "" {
		return nil
	}
	u, err := s.findUserByID(r.Context(), id)
	if err != nil {
		return nil
	}
	return &authUser{ID: u.ID, Username: u.Username}
}

// ensureAnonID returns an existing anon cookie or sets a new one.
func (s *Server) ensureAnonID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(anonCookieName); err == nil && c.Value != "" {
		return c.Value
	}
	id := genID()
	s.setCookie(w, anonCookieName, id, time.Now().Add(180*24*time.Hour), 0)
	// Later handlers in the same request read the cookie back.
	r.AddCookie(&http.Cookie{Name: anonCookieName, Value: id})
	return id
}

// claimAnon transfers anonymous games and preferences to a user account.
func (s *Server) claimAnon(ctx context.Context, anonID, userID string) {
	if anonID == "" || userID == "" {
		return
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE games SET user_id=?, anonymous_id=NULL WHERE anonymous_id=?`, userID, anonID); err != nil {
		log.Warn().Err(err).Msg("claim anon games")
	}
	if err := s.prefs.Claim(ctx, anonID, userID); err != nil {
		log.Warn().Err(err).Msg("claim anon prefs")
	}
}

// ------------------------ auth helpers & users -----------------------------

// userRow matches the users table shape.
type userRow struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	GamesPlayed  int
	Wins         int
	Streak       int
}

// createUser validates input, checks uniqueness, hashes password, and inserts a new user.
func (s *Server) createUser(ctx context.Context, username, pw string) (*userRow, error) {
	username = strings.TrimSpace(username)
	if err := validateSignup(username, pw); err != nil {
		return nil, err
	}
	var exists int
	_ = s.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE lower(username)=lower(?)`, username).Scan(&exists)
	if exists == 1 {
		return nil, errUsernameTaken
	}
	h, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC().Format(time.RFC3339)
	id := genID()
	if _, err := s.db.ExecContext(ctx, `INSERT INTO users (id, username, password_hash, created_at) VALUES (?,?,?,?)`,
		id, username, string(h), now); err != nil {
		return nil, err
	}
	return &userRow{ID: id, Username: username, PasswordHash: string(h), CreatedAt: parseTime(now)}, nil
}

func (s *Server) findUserByUsername(ctx context.Context, username string) (*userRow, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, games_played, wins, streak
	                      FROM users WHERE lower(username)=lower(?)`, username))
}

func (s *Server) findUserByID(ctx context.Context, id string) (*userRow, error) {
	return scanUser(s.db.QueryRowContext(ctx, `SELECT id, username, password_hash, created_at, games_played, wins, streak
	                      FROM users WHERE id=?`, id))
}

func scanUser(row *sql.Row) (*userRow, error) {
	var u userRow
	var created string
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &created, &u.GamesPlayed, &u.Wins, &u.Streak); err != nil {
		return nil, err
	}
	u.CreatedAt = parseTime(created)
	return &u, nil
}

// parseTime parses RFC3339 timestamps; on error returns zero time.
func parseTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func checkPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

// validateSignup enforces basic username/password rules.
func validateSignup(u, p string) error {
	if len(u) < 3 || len(u) > 24 {
		return errors.New("username must be 3-24 chars")
	}
	for _, r := range u {
		if !(r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9') {
			return errors.New("username: letters, numbers, underscore only")
		}
	}
	if len(p) < 8 || len(p) > 100 {
		return errors.New("password must be 8-100 chars")
	}
	return nil
}

// genID creates a 22-char URL-safe, crypto-random identifier (no padding).
func genID() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// bumpStats increments games played; updates wins and streak based on result (within tx).
func bumpStats(tx *sql.Tx, userID string, won bool) error {
	var gp, wins, streak int
	row := tx.QueryRow(`SELECT games_played, wins, streak FROM users WHERE id=?`, userID)
	if err := row.Scan(&gp, &wins, &streak); err != nil {
		return err
	}
	gp++
	if won {
		wins++
		streak++
	} else {
		streak = 0
	}
	_, err := tx.Exec(`UPDATE users SET games_played=?, wins=?, streak=? WHERE id=?`, gp, wins, streak, userID)
	return err
}

// ------------------------------ JWT & cookies ------------------------------

// signJWT creates an HS256 JWT with id/username and the configured expiry.
func (s *Server) signJWT(id, username string) (string, time.Time, error) {
	now := time.Now()
	exp := now.Add(time.Duration(s.cfg.JWTExpiresDays) * 24 * time.Hour)
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"id":       id,
		"username": username,
		"exp":      exp.Unix(),
		"iat":      now.Unix(),
	})
	ss, err := t.SignedString([]byte(s.cfg.JWTSecret))
	return ss, exp, err
}

func (s *Server) setAuthCookie(w http.ResponseWriter, token string, exp time.Time) {
	s.setCookie(w, s.cfg.CookieName, token, exp, 0)
}

// setCookie writes an HttpOnly cookie; production uses Secure + SameSite=None
// so the client may live on another origin.
func (s *Server) setCookie(w http.ResponseWriter, name, value string, exp time.Time, maxAge int) {
	secure := s.cfg.IsProduction()
	sameSite := http.SameSiteLaxMode
	if secure {
		sameSite = http.SameSiteNoneMode
	}
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: sameSite,
		Expires:  exp,
		MaxAge:   maxAge,
	})
}

// bearerOrCookie extracts a bearer token from Authorization header or auth cookie.
func bearerOrCookie(r *http.Request, cookieName string) string {
	if a := r.Header.Get("Authorization"); strings.HasPrefix(strings.ToLower(a), "bearer ") {
		return strings.TrimSpace(a[7:])
	}
	if c, err := r.Cookie(cookieName); err == nil {
		return c.Value
	}
	return ""
}

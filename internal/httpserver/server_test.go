package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/comicguess/internal/choice"
	"github.com/robalobadob/comicguess/internal/comick"
	"github.com/robalobadob/comicguess/internal/config"
	"github.com/robalobadob/comicguess/internal/db"
	"github.com/robalobadob/comicguess/internal/game"
	"github.com/robalobadob/comicguess/internal/store"
)

const berserkJSON = `{"id":7,"hid":"bz","slug":"berserk","title":"Berserk","content_rating":"safe","country":"jp","status":2,"year":1989}`

// fakeCatalog serves the catalog endpoints the server uses. With empty set,
// every listing page is empty.
func fakeCatalog(t *testing.T, empty bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v1.0/search", func(w http.ResponseWriter, r *http.Request) {
		if empty || r.URL.Query().Get("page") != "1" {
			_, _ = w.Write([]byte(`[]`))
			return
		}
		_, _ = w.Write([]byte(`[` + berserkJSON + `]`))
	})
	mux.HandleFunc("/comic/berserk/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"comic":` + berserkJSON + `,"firstChap":{"chap":"1","hid":"ch1"}}`))
	})
	mux.HandleFunc("/comic/broken/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	mux.HandleFunc("/chapter/ch1/get_images", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"b2key":"a.jpg","w":800,"h":1200}]`))
	})
	mux.HandleFunc("/genre", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"id":1,"name":"Action","slug":"action"}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

type harness struct {
	t      *testing.T
	url    string
	srv    *Server
	rounds store.Store
}

func newHarness(t *testing.T, emptyCatalog bool) *harness {
	t.Helper()
	up := fakeCatalog(t, emptyCatalog)
	client, err := comick.NewClient(up.URL, 5*time.Second)
	require.NoError(t, err)

	conn, err := db.OpenAndMigrate(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	pool := choice.NewPool("One Piece", "Naruto", "Bleach", "Vagabond", "Monster")
	finder := game.NewFinder(client, pool)
	finder.MaxPages = 2
	finder.RetryDelay = 0

	cfg := config.Config{
		ClientOrigin:   "http://localhost:5173",
		ImageBaseURL:   "https://img.test",
		JWTSecret:      "test_secret",
		JWTExpiresDays: 1,
		CookieName:     "comicguess_token",
		DailySalt:      "salt",
		HintsPerRound:  3,
	}
	rounds := store.NewMemoryStore()
	s := New(Deps{
		Config:   cfg,
		DB:       conn,
		Rounds:   rounds,
		Upstream: client,
		Finder:   finder,
		Pool:     pool,
		Seed:     42,
	})
	srv := httptest.NewServer(s.Router())
	t.Cleanup(srv.Close)
	return &harness{t: t, url: srv.URL, srv: s, rounds: rounds}
}

// player is an http.Client with its own cookie jar.
func (h *harness) player() *http.Client {
	jar, err := cookiejar.New(nil)
	require.NoError(h.t, err)
	return &http.Client{Jar: jar}
}

func (h *harness) do(c *http.Client, method, path string, body any, out any) int {
	h.t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, h.url+path, rd)
	require.NoError(h.t, err)
	req.Header.Set("Content-Type", "application/json")
	res, err := c.Do(req)
	require.NoError(h.t, err)
	defer res.Body.Close()
	if out != nil {
		require.NoError(h.t, json.NewDecoder(res.Body).Decode(out))
	}
	return res.StatusCode
}

func TestHealth(t *testing.T) {
	h := newHarness(t, false)
	var out map[string]any
	assert.Equal(t, http.StatusOK, h.do(h.player(), http.MethodGet, "/health", nil, &out))
	assert.Equal(t, true, out["ok"])
}

func TestProxyRequiresParams(t *testing.T) {
	h := newHarness(t, false)
	c := h.player()

	cases := []struct {
		path string
		msg  string
	}{
		{"/api/comick/comic", "Slug parameter is required"},
		{"/api/comick/chapters", "HID parameter is required"},
		{"/api/comick/images", "HID parameter is required"},
	}
	for _, tc := range cases {
		var out map[string]string
		assert.Equal(t, http.StatusBadRequest, h.do(c, http.MethodGet, tc.path, nil, &out), tc.path)
		assert.Equal(t, tc.msg, out["error"], tc.path)
	}
}

func TestProxyPassesBodiesThrough(t *testing.T) {
	h := newHarness(t, false)
	c := h.player()

	var list []map[string]any
	require.Equal(t, http.StatusOK, h.do(c, http.MethodGet, "/api/comick?limit=5&page=1", nil, &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Berserk", list[0]["title"])

	var genres []map[string]any
	require.Equal(t, http.StatusOK, h.do(c, http.MethodGet, "/api/comick/genre", nil, &genres))
	assert.Equal(t, "Action", genres[0]["name"])

	var out map[string]string
	assert.Equal(t, http.StatusInternalServerError, h.do(c, http.MethodGet, "/api/comick/comic?slug=broken", nil, &out))
	assert.Equal(t, "Failed to fetch comic data", out["error"])
}

func TestTextRound(t *testing.T) {
	h := newHarness(t, false)
	c := h.player()

	var v game.View
	require.Equal(t, http.StatusOK, h.do(c, http.MethodPost, "/game/new", map[string]string{"mode": "text"}, &v))
	require.NotEmpty(t, v.ID)
	assert.Equal(t, game.StatePlaying, v.State)
	assert.Equal(t, "ch1", v.ChapterHID)
	require.Len(t, v.Images, 1)
	assert.Equal(t, "https://img.test/a.jpg", v.Images[0].URL)
	assert.Empty(t, v.Answer)

	var hint struct {
		Hint           string `json:"hint"`
		HintsRemaining int    `json:"hintsRemaining"`
	}
	require.Equal(t, http.StatusOK, h.do(c, http.MethodPost, "/game/hint", roundReq{RoundID: v.ID}, &hint))
	assert.NotEmpty(t, hint.Hint)
	assert.Equal(t, 2, hint.HintsRemaining)

	var res guessRes
	require.Equal(t, http.StatusOK, h.do(c, http.MethodPost, "/game/guess", roundReq{RoundID: v.ID, Guess: "zz"}, &res))
	assert.Equal(t, "too_short", string(res.Verdict))
	assert.Equal(t, game.StatePlaying, res.State)

	require.Equal(t, http.StatusOK, h.do(c, http.MethodPost, "/game/guess", roundReq{RoundID: v.ID, Guess: "berserk"}, &res))
	assert.True(t, res.Correct)
	assert.Equal(t, game.StateWon, res.State)
	assert.Equal(t, "Berserk", res.Round.Answer)

	var out map[string]string
	assert.Equal(t, http.StatusConflict, h.do(c, http.MethodPost, "/game/guess", roundReq{RoundID: v.ID, Guess: "berserk"}, &out))

	var p struct {
		Streak       int `json:"streak"`
		GuessHistory []struct {
			Correct bool `json:"correct"`
		} `json:"guessHistory"`
	}
	require.Equal(t, http.StatusOK, h.do(c, http.MethodGet, "/prefs", nil, &p))
	assert.Equal(t, 1, p.Streak)
	require.Len(t, p.GuessHistory, 1)
	assert.True(t, p.GuessHistory[0].Correct)
}

func TestRoundsBelongToTheirOwner(t *testing.T) {
	h := newHarness(t, false)

	var v game.View
	require.Equal(t, http.StatusOK, h.do(h.player(), http.MethodPost, "/game/new", nil, &v))

	var out map[string]string
	assert.Equal(t, http.StatusNotFound, h.do(h.player(), http.MethodGet, "/game/"+v.ID, nil, &out))
	assert.Equal(t, game.Message(game.ErrNotFound), out["error"])
}

func TestChoiceRound(t *testing.T) {
	h := newHarness(t, false)
	c := h.player()

	var v game.View
	require.Equal(t, http.StatusOK, h.do(c, http.MethodPost, "/game/new", map[string]string{"mode": "choice"}, &v))
	require.Len(t, v.Options, 3)
	assert.Contains(t, v.Options, "Berserk")

	var opts struct {
		Options []string `json:"options"`
	}
	require.Equal(t, http.StatusOK, h.do(c, http.MethodGet, "/game/options?roundId="+v.ID, nil, &opts))
	assert.Equal(t, v.Options, opts.Options)

	var res guessRes
	require.Equal(t, http.StatusOK, h.do(c, http.MethodPost, "/game/choose", roundReq{RoundID: v.ID, Option: "Berserk"}, &res))
	assert.True(t, res.Correct)
	assert.Equal(t, game.StateWon, res.State)
}

func TestSkipResetsStreak(t *testing.T) {
	h := newHarness(t, false)
	c := h.player()

	var v game.View
	require.Equal(t, http.StatusOK, h.do(c, http.MethodPost, "/game/new", nil, &v))
	require.Equal(t, http.StatusOK, h.do(c, http.MethodPost, "/game/skip", roundReq{RoundID: v.ID}, &v))
	assert.Equal(t, game.StateLost, v.State)
	assert.Equal(t, "Berserk", v.Answer)

	var p struct {
		Streak int `json:"streak"`
	}
	require.Equal(t, http.StatusOK, h.do(c, http.MethodGet, "/prefs", nil, &p))
	assert.Zero(t, p.Streak)
}

func TestNewGameNoMatch(t *testing.T) {
	h := newHarness(t, true)

	var out map[string]string
	assert.Equal(t, http.StatusNotFound, h.do(h.player(), http.MethodPost, "/game/new", nil, &out))
	assert.Equal(t, "No comics found matching your criteria. Try adjusting your filters.", out["error"])
}

func TestPutPrefs(t *testing.T) {
	h := newHarness(t, false)
	c := h.player()

	body := map[string]any{"contentRating": []string{"safe"}, "origin": []string{"kr"}, "streak": -3}
	var p struct {
		ContentRating []string `json:"contentRating"`
		Origin        []string `json:"origin"`
		Status        []int    `json:"status"`
		Streak        int      `json:"streak"`
	}
	require.Equal(t, http.StatusOK, h.do(c, http.MethodPut, "/prefs", body, &p))
	assert.Equal(t, []string{"safe"}, p.ContentRating)
	assert.Zero(t, p.Streak)

	require.Equal(t, http.StatusOK, h.do(c, http.MethodGet, "/prefs", nil, &p))
	assert.Equal(t, []string{"kr"}, p.Origin)
	assert.Equal(t, []int{1, 2, 3, 4}, p.Status)

	// The only catalog comic is Japanese.
	var out map[string]string
	assert.Equal(t, http.StatusNotFound, h.do(c, http.MethodPost, "/game/new", nil, &out))
}

func TestAuthFlow(t *testing.T) {
	h := newHarness(t, false)
	c := h.player()

	// play as a guest first
	var v game.View
	require.Equal(t, http.StatusOK, h.do(c, http.MethodPost, "/game/new", nil, &v))
	var res guessRes
	require.Equal(t, http.StatusOK, h.do(c, http.MethodPost, "/game/guess", roundReq{RoundID: v.ID, Guess: "Berserk"}, &res))

	var out map[string]any
	assert.Equal(t, http.StatusUnauthorized, h.do(c, http.MethodGet, "/auth/me", nil, &out))

	creds := credentials{Username: "reader_01", Password: "password123"}
	require.Equal(t, http.StatusOK, h.do(c, http.MethodPost, "/auth/signup", creds, &out))
	assert.Equal(t, "reader_01", out["username"])

	assert.Equal(t, http.StatusConflict, h.do(h.player(), http.MethodPost, "/auth/signup", creds, &out))

	require.Equal(t, http.StatusOK, h.do(c, http.MethodGet, "/auth/me", nil, &out))
	assert.Equal(t, "reader_01", out["username"])

	// guest history moved to the account
	var p struct {
		Streak int `json:"streak"`
	}
	require.Equal(t, http.StatusOK, h.do(c, http.MethodGet, "/prefs", nil, &p))
	assert.Equal(t, 1, p.Streak)

	var games []gameRow
	require.Equal(t, http.StatusOK, h.do(c, http.MethodGet, "/games/mine", nil, &games))
	require.Len(t, games, 1)
	assert.Equal(t, "won", games[0].Status)
	assert.Equal(t, "Berserk", games[0].ComicTitle)

	// a signed-in win bumps account counters
	require.Equal(t, http.StatusOK, h.do(c, http.MethodPost, "/game/new", nil, &v))
	require.Equal(t, http.StatusOK, h.do(c, http.MethodPost, "/game/guess", roundReq{RoundID: v.ID, Guess: "Berserk"}, &res))
	var stats struct {
		GamesPlayed int `json:"gamesPlayed"`
		Wins        int `json:"wins"`
		Streak      int `json:"streak"`
		BestStreak  int `json:"bestStreak"`
	}
	require.Equal(t, http.StatusOK, h.do(c, http.MethodGet, "/stats/me", nil, &stats))
	assert.Equal(t, 1, stats.Wins)
	assert.Equal(t, 1, stats.GamesPlayed)
	assert.Equal(t, 2, stats.BestStreak)

	require.Equal(t, http.StatusOK, h.do(c, http.MethodPost, "/auth/logout", nil, &out))
	assert.Equal(t, http.StatusUnauthorized, h.do(c, http.MethodGet, "/auth/me", nil, &out))

	assert.Equal(t, http.StatusUnauthorized, h.do(h.player(), http.MethodPost, "/auth/login",
		credentials{Username: "reader_01", Password: "wrong-password"}, &out))
	require.Equal(t, http.StatusOK, h.do(c, http.MethodPost, "/auth/login", creds, &out))
}

func TestDaily(t *testing.T) {
	h := newHarness(t, false)
	alice, bob := h.player(), h.player()

	var first, again newRes
	require.Equal(t, http.StatusOK, h.do(alice, http.MethodPost, "/daily/new", nil, &first))
	require.NotNil(t, first.Round)
	assert.False(t, first.Played)
	assert.Equal(t, first.Date, first.Round.Daily)

	require.Equal(t, http.StatusOK, h.do(alice, http.MethodPost, "/daily/new", nil, &again))
	require.NotNil(t, again.Round)
	assert.Equal(t, first.Round.ID, again.Round.ID)

	var other newRes
	require.Equal(t, http.StatusOK, h.do(bob, http.MethodPost, "/daily/new", nil, &other))
	assert.NotEqual(t, first.Round.ID, other.Round.ID)

	var res guessRes
	require.Equal(t, http.StatusOK, h.do(alice, http.MethodPost, "/game/guess", roundReq{RoundID: first.Round.ID, Guess: "Berserk"}, &res))
	require.True(t, res.Correct)

	require.Equal(t, http.StatusOK, h.do(alice, http.MethodPost, "/daily/new", nil, &again))
	assert.True(t, again.Played)
	assert.Nil(t, again.Round)

	var lb lbRes
	require.Equal(t, http.StatusOK, h.do(bob, http.MethodGet, "/daily/leaderboard", nil, &lb))
	assert.Equal(t, first.Date, lb.Date)
	require.Len(t, lb.Top, 1)
	assert.Equal(t, 1, lb.Top[0].Guesses)
}

func TestDailyRoundRestartsAfterPrune(t *testing.T) {
	h := newHarness(t, false)
	alice := h.player()

	var first, again newRes
	require.Equal(t, http.StatusOK, h.do(alice, http.MethodPost, "/daily/new", nil, &first))
	require.NotNil(t, first.Round)

	h.rounds.Prune(context.Background(), time.Now().Add(time.Hour))

	require.Equal(t, http.StatusOK, h.do(alice, http.MethodPost, "/daily/new", nil, &again))
	require.NotNil(t, again.Round)
	assert.False(t, again.Played)
	assert.NotEqual(t, first.Round.ID, again.Round.ID)
	assert.Equal(t, first.Round.Daily, again.Round.Daily)

	var hint map[string]any
	assert.Equal(t, http.StatusOK, h.do(alice, http.MethodPost, "/game/hint", roundReq{RoundID: again.Round.ID}, &hint))
	assert.NotEmpty(t, hint["hint"])
}

func TestRunStopsOnCancel(t *testing.T) {
	h := newHarness(t, false)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- h.srv.Run(ctx, "127.0.0.1:0") }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestNotFoundIsJSON(t *testing.T) {
	h := newHarness(t, false)
	var out map[string]string
	assert.Equal(t, http.StatusNotFound, h.do(h.player(), http.MethodGet, "/nope", nil, &out))
	assert.True(t, strings.Contains(out["error"], "not_found"))
}

package comick_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/comicguess/internal/cache"
	"github.com/robalobadob/comicguess/internal/comick"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...comick.Option) *comick.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := comick.NewClient(srv.URL, 5*time.Second, opts...)
	require.NoError(t, err)
	return c
}

func TestNewClientRejectsEmptyURL(t *testing.T) {
	_, err := comick.NewClient("", time.Second)
	assert.Error(t, err)
}

func TestListRawForwardsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1.0/search", r.URL.Path)
		assert.Equal(t, "20", r.URL.Query().Get("limit"))
		assert.Equal(t, "3", r.URL.Query().Get("page"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))
		_, _ = w.Write([]byte(`[{"id":1,"hid":"a","slug":"one-piece","title":"One Piece"}]`))
	})

	body, err := c.ListRaw(context.Background(), 20, 3)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"hid":"a","slug":"one-piece","title":"One Piece"}]`, string(body))
}

func TestListDecodesWrappedData(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data":[{"id":2,"slug":"berserk","title":"Berserk"}]}`))
	})

	list, err := c.List(context.Background(), 20, 1)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Berserk", list[0].Title)
}

func TestEmptyBodyIsEmptyResult(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	body, err := c.ImagesRaw(context.Background(), "x")
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(body))

	body, err = c.ComicRaw(context.Background(), "x")
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(body))

	list, err := c.List(context.Background(), 20, 1)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpstreamErrors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusBadGateway)
		})
		_, err := c.GenresRaw(context.Background())
		var se *comick.StatusError
		require.ErrorAs(t, err, &se)
		assert.Equal(t, http.StatusBadGateway, se.Code)
	})

	t.Run("non json", func(t *testing.T) {
		c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html>cloudflare</html>"))
		})
		_, err := c.GenresRaw(context.Background())
		assert.ErrorIs(t, err, comick.ErrInvalidJSON)
	})
}

func TestComicRawPath(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/comic/solo-leveling/", r.URL.Path)
		assert.Equal(t, "true", r.URL.Query().Get("tachiyomi"))
		_, _ = w.Write([]byte(`{"comic":{"hid":"h1","title":"Solo Leveling"},"firstChap":{"chap":"1","hid":"c1"}}`))
	})

	d, err := c.Comic(context.Background(), "solo-leveling")
	require.NoError(t, err)
	assert.Equal(t, "Solo Leveling", d.Comic.Title)
	require.NotNil(t, d.FirstChap)
	assert.Equal(t, "c1", d.FirstChap.HID)
}

func TestChaptersFallsBackToNextVariant(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/comic/h1/chapters", r.URL.Path)
		if r.URL.Query().Get("chap-order") == "1" {
			_, _ = w.Write([]byte(`{"chapters":[]}`))
			return
		}
		_, _ = w.Write([]byte(`{"chapters":[{"chap":"1","hid":"c1","up_count":4}]}`))
	})

	chs, err := c.Chapters(context.Background(), "h1", 50)
	require.NoError(t, err)
	require.Len(t, chs, 1)
	assert.Equal(t, "c1", chs[0].HID)
	assert.EqualValues(t, 2, calls.Load())
}

func TestChaptersFirstVariantWins(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[{"chap":"2","hid":"c2"}]`))
	})

	chs, err := c.Chapters(context.Background(), "h1", 50)
	require.NoError(t, err)
	require.Len(t, chs, 1)
	assert.EqualValues(t, 1, calls.Load())
}

func TestChaptersAllVariantsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("chap-order") == "1" {
			http.Error(w, "boom", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	body, err := c.ChaptersRaw(context.Background(), "h1", 50)
	require.NoError(t, err)
	assert.JSONEq(t, `{"chapters":[]}`, string(body))
}

func TestChaptersAllVariantsFail(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.ChaptersRaw(context.Background(), "h1", 50)
	assert.Error(t, err)
}

func TestGenresAreCached(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`[{"id":1,"name":"Action","slug":"action","group":"Genre"}]`))
	}, comick.WithCache(cache.NewMemory(), time.Minute))

	for i := 0; i < 3; i++ {
		g, err := c.Genres(context.Background())
		require.NoError(t, err)
		require.Len(t, g, 1)
		assert.Equal(t, "Action", g[0].Name)
	}
	assert.EqualValues(t, 1, calls.Load())
}

func TestRetry(t *testing.T) {
	n := 0
	err := comick.Retry(context.Background(), 3, time.Millisecond, func(context.Context) error {
		n++
		if n < 3 {
			return errors.New("flaky")
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	n = 0
	boom := errors.New("boom")
	err = comick.Retry(context.Background(), 2, time.Millisecond, func(context.Context) error {
		n++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, n)
}

func TestRetryStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := comick.Retry(ctx, 5, time.Hour, func(context.Context) error { return errors.New("x") })
	assert.ErrorIs(t, err, context.Canceled)
}

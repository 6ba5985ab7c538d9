// internal/comick/client.go
//
// HTTP client for the upstream comic catalog API.
// Responsibilities:
//   - Raw fetches (json.RawMessage) that the proxy routes re-serve unchanged.
//   - Typed fetches that decode the same bodies for the round controller.
//   - Empty bodies are an empty success; non-2xx and non-JSON bodies are errors.
//   - Outbound rate limiting and an optional response cache.
//
// Endpoints used (relative to the base URL):
//   GET v1.0/search?limit=&page=         comic listing
//   GET comic/{slug}/?tachiyomi=true     comic detail
//   GET comic/{hid}/chapters?limit=...   chapter listing (several variants)
//   GET chapter/{hid}/get_images         chapter images
//   GET genre                            genre list

package comick

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/robalobadob/comicguess/internal/cache"
)

// DefaultBaseURL is the public catalog API.
const DefaultBaseURL = "https://api.comick.fun"

// chapterAttemptTimeout bounds each chapter endpoint variant.
const chapterAttemptTimeout = 10 * time.Second

var (
	// ErrInvalidJSON is returned when the upstream body is not JSON.
	ErrInvalidJSON = errors.New("comick: invalid json body")

	emptyList   = json.RawMessage(`[]`)
	emptyObject = json.RawMessage(`{}`)
)

// StatusError reports a non-2xx upstream response.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("comick: upstream responded with status %d", e.Code)
}

// Client talks to the catalog API.
type Client struct {
	http     *http.Client
	baseURL  string
	limiter  *rate.Limiter
	cache    cache.Cache
	cacheTTL time.Duration
}

// Option customizes a Client.
type Option func(*Client)

// WithLimiter throttles outbound requests.
func WithLimiter(l *rate.Limiter) Option { return func(c *Client) { c.limiter = l } }

// WithCache caches genre and comic-detail bodies for ttl.
func WithCache(cc cache.Cache, ttl time.Duration) Option {
	return func(c *Client) { c.cache, c.cacheTTL = cc, ttl }
}

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// NewClient builds a Client for baseURL. timeout bounds every request.
func NewClient(baseURL string, timeout time.Duration, opts ...Option) (*Client, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("comick: empty base url specified")
	}
	c := &Client{
		http:    &http.Client{Timeout: timeout},
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Inf, 1),
		cache:   cache.Nop{},
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// ListRaw fetches one page of the comic listing.
func (c *Client) ListRaw(ctx context.Context, limit, page int) (json.RawMessage, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))
	q.Set("page", strconv.Itoa(page))
	return c.get(ctx, q, emptyList, "v1.0", "search")
}

// ComicRaw fetches the detail body for slug.
func (c *Client) ComicRaw(ctx context.Context, slug string) (json.RawMessage, error) {
	key := "comic:" + slug
	if b, ok := c.cache.Get(ctx, key); ok {
		return b, nil
	}
	q := url.Values{}
	q.Set("tachiyomi", "true")
	body, err := c.get(ctx, q, emptyObject, "comic", slug+"/")
	if err != nil {
		return nil, err
	}
	c.cache.Set(ctx, key, body, c.cacheTTL)
	return body, nil
}

// ImagesRaw fetches the page images of chapter hid.
func (c *Client) ImagesRaw(ctx context.Context, hid string) (json.RawMessage, error) {
	return c.get(ctx, nil, emptyList, "chapter", hid, "get_images")
}

// GenresRaw fetches the genre list.
func (c *Client) GenresRaw(ctx context.Context) (json.RawMessage, error) {
	const key = "genre"
	if b, ok := c.cache.Get(ctx, key); ok {
		return b, nil
	}
	body, err := c.get(ctx, nil, emptyList, "genre")
	if err != nil {
		return nil, err
	}
	c.cache.Set(ctx, key, body, c.cacheTTL)
	return body, nil
}

// ChaptersRaw tries each chapter endpoint variant in order, each under its
// own timeout, and returns the first body that parses with a non-empty
// chapter list. A parsed but empty body is kept as the fallback result.
func (c *Client) ChaptersRaw(ctx context.Context, hid string, limit int) (json.RawMessage, error) {
	variants := []url.Values{
		{"limit": {strconv.Itoa(limit)}, "chap-order": {"1"}},
		{"limit": {strconv.Itoa(limit)}},
	}

	var fallback json.RawMessage
	var lastErr error
	for _, q := range variants {
		body, err := c.chapterAttempt(ctx, hid, q)
		if err != nil {
			log.Warn().Err(err).Str("hid", hid).Str("query", q.Encode()).Msg("chapters endpoint failed")
			lastErr = err
			continue
		}
		if hasChapters(body) {
			return body, nil
		}
		if fallback == nil && !bytes.Equal(body, emptyObject) {
			fallback = body
		}
	}
	if fallback != nil {
		return fallback, nil
	}
	if lastErr != nil {
		return nil, lastErr
	}
	return json.RawMessage(`{"chapters":[]}`), nil
}

func (c *Client) chapterAttempt(ctx context.Context, hid string, q url.Values) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, chapterAttemptTimeout)
	defer cancel()
	return c.get(ctx, q, emptyObject, "comic", hid, "chapters")
}

// hasChapters reports whether body is {chapters:[...]} or [...] with at least one entry.
func hasChapters(body json.RawMessage) bool {
	var list []json.RawMessage
	if err := json.Unmarshal(body, &list); err == nil {
		return len(list) > 0
	}
	var obj struct {
		Chapters []json.RawMessage `json:"chapters"`
	}
	if err := json.Unmarshal(body, &obj); err == nil {
		return len(obj.Chapters) > 0
	}
	return false
}

// get performs one GET against base/elem... and validates the body.
// empty is returned when the upstream body is blank.
func (c *Client) get(ctx context.Context, q url.Values, empty json.RawMessage, elem ...string) (json.RawMessage, error) {
	u, err := url.JoinPath(c.baseURL, elem...)
	if err != nil {
		return nil, fmt.Errorf("comick: cannot join url path: %w", err)
	}
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("comick: rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("comick: cannot create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("comick: request %s: %w", u, err)
	}
	defer closeBody(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{Code: resp.StatusCode, URL: u}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("comick: read body: %w", err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return empty, nil
	}
	if !json.Valid(body) {
		return nil, ErrInvalidJSON
	}
	return json.RawMessage(body), nil
}

func closeBody(body io.Closer) {
	if err := body.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close response body")
	}
}

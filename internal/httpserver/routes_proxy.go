// internal/httpserver/routes_proxy.go
//
// Pass-through routes to the comic catalog so browsers avoid CORS:
//   - GET /api/comick               → catalog page (limit, page)
//   - GET /api/comick/comic?slug=   → comic detail
//   - GET /api/comick/chapters?hid= → chapter list (limit, default 10)
//   - GET /api/comick/images?hid=   → chapter images
//   - GET /api/comick/genre         → genre list
//
// Upstream bodies are written through unchanged.

package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// Upstream is the raw side of the catalog client.
type Upstream interface {
	ListRaw(ctx context.Context, limit, page int) (json.RawMessage, error)
	ComicRaw(ctx context.Context, slug string) (json.RawMessage, error)
	ChaptersRaw(ctx context.Context, hid string, limit int) (json.RawMessage, error)
	ImagesRaw(ctx context.Context, hid string) (json.RawMessage, error)
	GenresRaw(ctx context.Context) (json.RawMessage, error)
}

const (
	defaultListLimit     = 50
	defaultChaptersLimit = 10
)

func (s *Server) mountProxy(r chi.Router) {
	r.Route("/api/comick", func(r chi.Router) {
		r.Get("/", s.handleProxyList)
		r.Get("/comic", s.handleProxyComic)
		r.Get("/chapters", s.handleProxyChapters)
		r.Get("/images", s.handleProxyImages)
		r.Get("/genre", s.handleProxyGenres)
	})
}

func (s *Server) handleProxyList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit := intParam(q.Get("limit"), defaultListLimit)
	page := intParam(q.Get("page"), 1)
	body, err := s.up.ListRaw(r.Context(), limit, page)
	writeRaw(w, body, err, "Failed to fetch comics data")
}

func (s *Server) handleProxyComic(w http.ResponseWriter, r *http.Request) {
	slug := r.URL.Query().Get("slug")
	if slug == "" {
		jsonError(w, http.StatusBadRequest, "Slug parameter is required")
		return
	}
	body, err := s.up.ComicRaw(r.Context(), slug)
	writeRaw(w, body, err, "Failed to fetch comic data")
}

func (s *Server) handleProxyChapters(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hid := q.Get("hid")
	if hid == "" {
		jsonError(w, http.StatusBadRequest, "HID parameter is required")
		return
	}
	body, err := s.up.ChaptersRaw(r.Context(), hid, intParam(q.Get("limit"), defaultChaptersLimit))
	writeRaw(w, body, err, "Failed to fetch chapters data. Please try again.")
}

func (s *Server) handleProxyImages(w http.ResponseWriter, r *http.Request) {
	hid := r.URL.Query().Get("hid")
	if hid == "" {
		jsonError(w, http.StatusBadRequest, "HID parameter is required")
		return
	}
	body, err := s.up.ImagesRaw(r.Context(), hid)
	writeRaw(w, body, err, "Failed to fetch images data")
}

func (s *Server) handleProxyGenres(w http.ResponseWriter, r *http.Request) {
	body, err := s.up.GenresRaw(r.Context())
	writeRaw(w, body, err, "Failed to fetch genres data")
}

// writeRaw writes an upstream body, or msg as a 500 when the call failed.
func writeRaw(w http.ResponseWriter, body json.RawMessage, err error, msg string) {
	if err != nil {
		log.Error().Err(err).Msg(msg)
		jsonError(w, http.StatusInternalServerError, msg)
		return
	}
	_, _ = w.Write(body)
}

// intParam parses a positive integer query value, falling back to def.
func intParam(v string, def int) int {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return def
	}
	return n
}

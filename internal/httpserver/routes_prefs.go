// internal/httpserver/routes_prefs.go
//
// Preference endpoints (optional auth; guests use their anonymous id):
//   - GET /prefs → stored preferences on top of the defaults
//   - PUT /prefs → replace preferences; missing keys fall back to defaults

package httpserver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/robalobadob/comicguess/internal/prefs"
)

func (s *Server) mountPrefs(r chi.Router) {
	r.Get("/prefs", s.handleGetPrefs)
	r.Put("/prefs", s.handlePutPrefs)
}

// handleGetPrefs returns the caller's preferences, defaults if none stored.
func (s *Server) handleGetPrefs(w http.ResponseWriter, r *http.Request) {
	owner := s.ownerID(w, r)
	p, err := s.prefs.Load(r.Context(), owner)
	if err != nil {
		log.Error().Err(err).Str("owner", owner).Msg("load prefs")
		jsonError(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(p)
}

// handlePutPrefs replaces the caller's preferences. Keys missing from the
// body keep their defaults.
func (s *Server) handlePutPrefs(w http.ResponseWriter, r *http.Request) {
	p := prefs.Defaults()
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		jsonError(w, http.StatusBadRequest, "bad_json")
		return
	}
	p.Normalize()
	owner := s.ownerID(w, r)
	if err := s.prefs.Save(r.Context(), owner, p); err != nil {
		log.Error().Err(err).Str("owner", owner).Msg("save prefs")
		jsonError(w, http.StatusInternalServerError, "db_error")
		return
	}
	_ = json.NewEncoder(w).Encode(p)
}

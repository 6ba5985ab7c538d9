// internal/game/filters.go
//
// Catalog filters applied when picking a comic for a round.
// Notes:
//   - An empty allow-list means no filter on that field.
//   - Relaxed keeps rating, origin and status for the fallback search.

package game

import (
	"slices"

	"github.com/robalobadob/comicguess/internal/comic"
)

// Filters narrow the comics a round may pick.
// Empty allow-lists let everything through.
type Filters struct {
	ContentRating  []string `json:"contentRating"`
	Origin         []string `json:"origin"`
	Status         []int    `json:"status"`
	IncludedGenres []int    `json:"includedGenres"`
	ExcludedGenres []int    `json:"excludedGenres"`

	// Exclude holds comic ids the player has already seen.
	Exclude []int64 `json:"-"`
}

// Keep reports whether c passes every filter. Fields missing on the comic
// pass their filter; genre filters only apply to comics that carry a genre list.
func (f Filters) Keep(c comic.Comic) bool {
	if !f.keepBasic(c) {
		return false
	}
	if c.Genres != nil {
		for _, g := range f.IncludedGenres {
			if !slices.Contains(c.Genres, g) {
				return false
			}
		}
		for _, g := range f.ExcludedGenres {
			if slices.Contains(c.Genres, g) {
				return false
			}
		}
	}
	return !slices.Contains(f.Exclude, c.ID)
}

// Relaxed drops the genre and history filters.
func (f Filters) Relaxed() Filters {
	return Filters{ContentRating: f.ContentRating, Origin: f.Origin, Status: f.Status}
}

func (f Filters) keepBasic(c comic.Comic) bool {
	if c.ContentRating != "" && len(f.ContentRating) > 0 && !slices.Contains(f.ContentRating, c.ContentRating) {
		return false
	}
	if c.Country != "" && len(f.Origin) > 0 && !slices.Contains(f.Origin, c.Country) {
		return false
	}
	if c.Status != 0 && len(f.Status) > 0 && !slices.Contains(f.Status, c.Status) {
		return false
	}
	return true
}

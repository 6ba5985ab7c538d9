// internal/titles/titles.go
//
// Seed titles for the multiple-choice distractor pool.
//
// Load behavior:
//   1. If path is set (TITLES_FILE), read one title per line from that file.
//   2. Otherwise fall back to the list embedded in assets/titles.txt.
//
// Blank lines and lines starting with # are skipped; repeats are dropped.
// The pool keeps growing at runtime as catalog pages are observed, so the
// seed only has to be large enough for the first multiple-choice rounds.

package titles

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/comicguess/assets"
	"github.com/robalobadob/comicguess/internal/choice"
	"github.com/robalobadob/comicguess/internal/comic"
)

// ErrEmpty is returned when the seed list has no titles.
var ErrEmpty = errors.New("titles: seed list is empty")

// Load reads the seed titles from path, or the embedded list when path is empty.
func Load(path string) ([]string, error) {
	var (
		list []string
		err  error
	)
	if path != "" {
		list, err = readFile(path)
	} else {
		list, err = assets.Titles()
	}
	if err != nil {
		return nil, err
	}
	list = dedupe(list)
	if len(list) == 0 {
		return nil, ErrEmpty
	}
	return list, nil
}

// Seed builds a title pool from Load.
func Seed(path string) (*choice.Pool, error) {
	list, err := Load(path)
	if err != nil {
		return nil, err
	}
	pool := choice.NewPool(list...)
	log.Info().Int("titles", pool.Len()).Str("source", source(path)).Msg("title pool seeded")
	return pool, nil
}

// Lister fetches one catalog page.
type Lister interface {
	List(ctx context.Context, limit, page int) ([]comic.Comic, error)
}

// Warm adds the titles of catalog pages 1..pages to pool. Failing pages are
// skipped. It returns how many new titles were added.
func Warm(ctx context.Context, l Lister, pool *choice.Pool, pages, pageSize int) int {
	added := 0
	for page := 1; page <= pages; page++ {
		if ctx.Err() != nil {
			break
		}
		list, err := l.List(ctx, pageSize, page)
		if err != nil {
			log.Warn().Err(err).Int("page", page).Msg("title warmup page failed")
			continue
		}
		for _, c := range list {
			added += pool.Add(c.Title)
		}
	}
	log.Info().Int("added", added).Int("pool", pool.Len()).Msg("title pool warmed")
	return added
}

func readFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("titles: open %s: %w", path, err)
	}
	defer f.Close()
	return assets.ReadLines(f)
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := in[:0]
	for _, t := range in {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func source(path string) string {
	if path == "" {
		return "embedded"
	}
	return path
}

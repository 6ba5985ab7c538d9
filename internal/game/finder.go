// internal/game/finder.go
//
// Comic acquisition for a new round.
// Responsibilities:
//   - Walk shuffled catalog pages until one yields comics passing the filters.
//   - Relax to rating/origin/status over the first few pages before giving up.
//   - Load the picked comic's detail, choose a chapter, load its images.
//   - Feed every observed title into the distractor pool.
//
// Notes:
//   - A failing page is logged and skipped; only exhausting the budget is an error.
//   - All randomness comes from the caller's rng.

package game

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/comicguess/internal/choice"
	"github.com/robalobadob/comicguess/internal/comic"
	"github.com/robalobadob/comicguess/internal/comick"
)

// Search budget.
const (
	DefaultMaxPages   = 30
	DefaultAttempts   = 3
	DefaultRelaxPages = 5
	DefaultPageSize   = 50
	chapterListLimit  = 100
)

// Catalog is the part of the upstream client the finder needs.
type Catalog interface {
	List(ctx context.Context, limit, page int) ([]comic.Comic, error)
	Comic(ctx context.Context, slug string) (comic.Detail, error)
	Chapters(ctx context.Context, hid string, limit int) ([]comic.Chapter, error)
	Images(ctx context.Context, hid string) ([]comic.Image, error)
}

// Found is a comic ready to be played.
type Found struct {
	Detail     comic.Detail
	ChapterHID string
	Images     []comic.Image
}

// Finder picks random comics from the catalog.
type Finder struct {
	catalog    Catalog
	pool       *choice.Pool
	PageSize   int
	MaxPages   int
	Attempts   int
	RelaxPages int
	RetryDelay time.Duration
}

// NewFinder builds a Finder. pool may be nil.
func NewFinder(c Catalog, pool *choice.Pool) *Finder {
	return &Finder{
		catalog:    c,
		pool:       pool,
		PageSize:   DefaultPageSize,
		MaxPages:   DefaultMaxPages,
		Attempts:   DefaultAttempts,
		RelaxPages: DefaultRelaxPages,
		RetryDelay: comick.DefaultRetryDelay,
	}
}

// Find picks a random comic passing f and loads what a round needs.
func (fd *Finder) Find(ctx context.Context, f Filters, rng *rand.Rand) (Found, error) {
	picked, err := fd.pick(ctx, f, rng)
	if err != nil {
		return Found{}, err
	}
	return fd.load(ctx, picked)
}

func (fd *Finder) pick(ctx context.Context, f Filters, rng *rand.Rand) (comic.Comic, error) {
	pages := rng.Perm(fd.MaxPages)
	for i := range pages {
		pages[i]++
	}

	var matches []comic.Comic
	for attempt := 1; attempt <= fd.Attempts && len(matches) == 0; attempt++ {
		matches = fd.scan(ctx, pages, f.Keep)
		if err := ctx.Err(); err != nil {
			return comic.Comic{}, err
		}
		if len(matches) == 0 && attempt == fd.Attempts-1 {
			relaxed := f.Relaxed()
			n := min(fd.RelaxPages, len(pages))
			matches = fd.scan(ctx, pages[:n], relaxed.Keep)
			if len(matches) > 0 {
				log.Info().Int("attempt", attempt).Msg("matched with relaxed filters")
			}
		}
	}
	if len(matches) == 0 {
		return comic.Comic{}, ErrNoMatch
	}
	return matches[rng.Intn(len(matches))], nil
}

// scan returns the kept comics of the first page that has any.
func (fd *Finder) scan(ctx context.Context, pages []int, keep func(comic.Comic) bool) []comic.Comic {
	for _, page := range pages {
		if ctx.Err() != nil {
			return nil
		}
		list, err := fd.catalog.List(ctx, fd.PageSize, page)
		if err != nil {
			log.Warn().Err(err).Int("page", page).Msg("catalog page failed")
			continue
		}
		if len(list) == 0 {
			log.Debug().Int("page", page).Msg("catalog page empty")
			continue
		}
		fd.observe(list)

		var kept []comic.Comic
		for _, c := range list {
			if keep(c) {
				kept = append(kept, c)
			}
		}
		if len(kept) > 0 {
			return kept
		}
	}
	return nil
}

func (fd *Finder) observe(list []comic.Comic) {
	if fd.pool == nil {
		return
	}
	titles := make([]string, 0, len(list))
	for _, c := range list {
		titles = append(titles, c.Title)
	}
	fd.pool.Add(titles...)
}

func (fd *Finder) load(ctx context.Context, picked comic.Comic) (Found, error) {
	var d comic.Detail
	err := comick.Retry(ctx, fd.Attempts, fd.RetryDelay, func(ctx context.Context) error {
		var err error
		d, err = fd.catalog.Comic(ctx, picked.Slug)
		return err
	})
	if err != nil {
		return Found{}, fmt.Errorf("%w: %s: %v", ErrDetail, picked.Slug, err)
	}
	if d.Comic.HID == "" {
		d.Comic = picked
	}

	hid, err := fd.chapter(ctx, d)
	if err != nil {
		return Found{}, err
	}

	var images []comic.Image
	err = comick.Retry(ctx, fd.Attempts, fd.RetryDelay, func(ctx context.Context) error {
		var err error
		images, err = fd.catalog.Images(ctx, hid)
		return err
	})
	if err != nil {
		return Found{}, fmt.Errorf("%w: chapter %s: %v", ErrImages, hid, err)
	}
	if len(images) == 0 {
		return Found{}, fmt.Errorf("%w: chapter %s has no images", ErrImages, hid)
	}
	return Found{Detail: d, ChapterHID: hid, Images: images}, nil
}

// chapter picks the chapter to reveal. A first chapter numbered "0" is
// usually a teaser, so the chapter list is consulted for a chapter 1.
func (fd *Finder) chapter(ctx context.Context, d comic.Detail) (string, error) {
	if d.FirstChap != nil && d.FirstChap.Chap == "0" {
		chs, err := fd.catalog.Chapters(ctx, d.Comic.HID, chapterListLimit)
		if err != nil {
			log.Warn().Err(err).Str("hid", d.Comic.HID).Msg("chapter list failed")
		} else if hid := PickChapter(chs); hid != "" {
			return hid, nil
		}
	}
	if d.FirstChap != nil && d.FirstChap.HID != "" {
		return d.FirstChap.HID, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoChapter, d.Comic.Slug)
}

// PickChapter prefers the most upvoted chapter "1", else the first listed.
func PickChapter(chs []comic.Chapter) string {
	best := -1
	for i, ch := range chs {
		if ch.Chap != "1" || ch.HID == "" {
			continue
		}
		if best < 0 || ch.UpCount > chs[best].UpCount {
			best = i
		}
	}
	if best >= 0 {
		return chs[best].HID
	}
	for _, ch := range chs {
		if ch.HID != "" {
			return ch.HID
		}
	}
	return ""
}

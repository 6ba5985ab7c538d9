// internal/comic/types.go
//
// Catalog data types shared by the upstream client, the round controller and
// the hint generator. Field names follow the upstream JSON shape so bodies can
// be decoded directly and re-served to the client unchanged.
//
// Optional numeric fields use their zero value for "absent" (the upstream API
// omits them or sends null); TranslationCompleted is tri-state.

package comic

import "strings"

// Title is one alternate title, optionally tagged with a language code.
type Title struct {
	Title string `json:"title"`
	Lang  string `json:"lang,omitempty"`
}

// Cover is a cover image reference.
type Cover struct {
	W     int    `json:"w"`
	H     int    `json:"h"`
	B2Key string `json:"b2key"`
}

// Comic is a catalog entry.
type Comic struct {
	ID                   int64   `json:"id"`
	HID                  string  `json:"hid"`
	Slug                 string  `json:"slug"`
	Title                string  `json:"title"`
	ContentRating        string  `json:"content_rating,omitempty"`
	Country              string  `json:"country,omitempty"`
	Desc                 string  `json:"desc,omitempty"`
	Status               int     `json:"status,omitempty"`
	LastChapter          float64 `json:"last_chapter,omitempty"`
	TranslationCompleted *bool   `json:"translation_completed,omitempty"`
	ViewCount            int64   `json:"view_count,omitempty"`
	Demographic          int     `json:"demographic,omitempty"`
	Genres               []int   `json:"genres,omitempty"`
	UserFollowCount      int64   `json:"user_follow_count,omitempty"`
	Year                 int     `json:"year,omitempty"`
	MDTitles             []Title `json:"md_titles,omitempty"`
	MDCovers             []Cover `json:"md_covers,omitempty"`
	FollowCount          int64   `json:"follow_count,omitempty"`
	FollowRank           int64   `json:"follow_rank,omitempty"`
}

// AcceptableTitles returns the canonical title followed by every non-blank
// alternate title, without duplicates.
func (c Comic) AcceptableTitles() []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, 1+len(c.MDTitles))
	add := func(t string) {
		if strings.TrimSpace(t) == "" {
			return
		}
		if _, ok := seen[t]; ok {
			return
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	add(c.Title)
	for _, t := range c.MDTitles {
		add(t.Title)
	}
	return out
}

// GenreRef is the nested genre object attached to a comic detail.
type GenreRef struct {
	Name  string `json:"name,omitempty"`
	Type  string `json:"type,omitempty"`
	Slug  string `json:"slug,omitempty"`
	Group string `json:"group,omitempty"`
}

// GenreInfo wraps a GenreRef the way the detail endpoint nests it.
type GenreInfo struct {
	MDGenres *GenreRef `json:"md_genres,omitempty"`
}

// FirstChapter is the detail endpoint's pointer at the earliest chapter.
type FirstChapter struct {
	Chap      string   `json:"chap"`
	HID       string   `json:"hid"`
	Lang      string   `json:"lang"`
	GroupName []string `json:"group_name"`
	Vol       *string  `json:"vol"`
}

// Person is an author or artist credit.
type Person struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Detail is the body of the comic detail endpoint.
type Detail struct {
	Comic     Comic         `json:"comic"`
	FirstChap *FirstChapter `json:"firstChap,omitempty"`
	Genres    []GenreInfo   `json:"md_comic_md_genres,omitempty"`
	Authors   []Person      `json:"authors,omitempty"`
	Artists   []Person      `json:"artists,omitempty"`
}

// GenreNames returns the non-empty genre names attached to the detail.
func (d Detail) GenreNames() []string {
	var out []string
	for _, g := range d.Genres {
		if g.MDGenres != nil && g.MDGenres.Name != "" {
			out = append(out, g.MDGenres.Name)
		}
	}
	return out
}

// Chapter is one entry of a chapter listing.
type Chapter struct {
	ID        int64    `json:"id"`
	Chap      string   `json:"chap"`
	Title     *string  `json:"title"`
	Vol       *string  `json:"vol"`
	Lang      string   `json:"lang"`
	UpCount   int      `json:"up_count"`
	DownCount int      `json:"down_count"`
	GroupName []string `json:"group_name"`
	HID       string   `json:"hid"`
}

// ChapterList is the body of the chapter listing endpoint.
type ChapterList struct {
	Chapters []Chapter `json:"chapters"`
}

// Image is one page of a chapter.
type Image struct {
	H         int     `json:"h"`
	W         int     `json:"w"`
	Name      string  `json:"name,omitempty"`
	S         int64   `json:"s,omitempty"`
	B2Key     string  `json:"b2key"`
	Optimized *string `json:"optimized,omitempty"`
}

// Genre is a catalog genre.
type Genre struct {
	ID         int    `json:"id"`
	Name       string `json:"name"`
	Slug       string `json:"slug"`
	ComicCount int    `json:"comic_count,omitempty"`
	Group      string `json:"group"`
}

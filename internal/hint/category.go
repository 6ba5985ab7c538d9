// internal/hint/category.go
//
// Hint categories and the per-round session of used categories.

package hint

import (
	"fmt"
	"sort"
)

// Category is one kind of clue.
type Category int

// Title-derived clues.
const (
	FirstLetter Category = iota
	LastLetter
	WordCount
	ContainsWord
	FirstWord
	LastWord
	Vowels
	Consonants
	TitleLength
	UppercaseCount
	TitleSpaces
	ShortestWord
	LongestWord
	SpecialChars
	NumbersInTitle
	AlternateTitle

	// Metadata-derived clues.
	Origin
	Year
	Genre
	GenreCount
	Demographic
	ContentRating
	TranslationStatus

	// Popularity-derived clues.
	Status
	Chapters
	ChapterCount
	FollowCount
	FollowRank

	numCategories
)

var categoryNames = [numCategories]string{
	FirstLetter:       "first-letter",
	LastLetter:        "last-letter",
	WordCount:         "word-count",
	ContainsWord:      "contains-word",
	FirstWord:         "first-word",
	LastWord:          "last-word",
	Vowels:            "vowels",
	Consonants:        "consonants",
	TitleLength:       "title-length",
	UppercaseCount:    "uppercase-count",
	TitleSpaces:       "title-spaces",
	ShortestWord:      "shortest-word",
	LongestWord:       "longest-word",
	SpecialChars:      "special-chars",
	NumbersInTitle:    "numbers-in-title",
	AlternateTitle:    "alternate-title",
	Origin:            "origin",
	Year:              "year",
	Genre:             "genre",
	GenreCount:        "genre-count",
	Demographic:       "demographic",
	ContentRating:     "content-rating",
	TranslationStatus: "translation-status",
	Status:            "status",
	Chapters:          "chapters",
	ChapterCount:      "chapter-count",
	FollowCount:       "follow-count",
	FollowRank:        "follow-rank",
}

// All returns every category in declaration order.
func All() []Category {
	out := make([]Category, 0, numCategories)
	for c := Category(0); c < numCategories; c++ {
		out = append(out, c)
	}
	return out
}

// Valid reports whether c is a member of the enumeration.
func (c Category) Valid() bool { return c >= 0 && c < numCategories }

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", int(c))
	}
	return categoryNames[c]
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("hint: invalid category %d", int(c))
	}
	return []byte(categoryNames[c]), nil
}

// UnmarshalText decodes a category name.
func (c *Category) UnmarshalText(b []byte) error {
	for i, n := range categoryNames {
		if n == string(b) {
			*c = Category(i)
			return nil
		}
	}
	return fmt.Errorf("hint: unknown category %q", string(b))
}

// Session tracks which categories were already revealed this round.
// The zero value is an empty session.
type Session struct {
	used map[Category]struct{}
}

// Has reports whether c was already used.
func (s *Session) Has(c Category) bool {
	_, ok := s.used[c]
	return ok
}

// Len is the number of used categories.
func (s *Session) Len() int { return len(s.used) }

// Used lists the used categories in declaration order.
func (s *Session) Used() []Category {
	out := make([]Category, 0, len(s.used))
	for c := range s.used {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Reset forgets every used category. Called when a new round starts.
func (s *Session) Reset() { s.used = nil }

func (s *Session) mark(c Category) {
	if s.used == nil {
		s.used = make(map[Category]struct{})
	}
	s.used[c] = struct{}{}
}

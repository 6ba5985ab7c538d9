// internal/hint/generator.go
//
// Hint generation for the current comic.
// Responsibilities:
//   - Pick an unused category uniformly at random (injected rng).
//   - Render the category against the comic's metadata, falling back to a
//     generic statement when the field is missing.
//   - Record the category in the round's Session.
//
// Notes:
//   - Once every category is used, Next returns ClosingMessage and leaves the
//     session untouched.
//   - Counts are formatted with English thousands separators.

package hint

import (
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/robalobadob/comicguess/internal/comic"
)

// ClosingMessage is returned when no category is left.
const ClosingMessage = "This is your last hint: it's a comic on ComicK.io!"

// Options selects which categories a Generator draws from.
type Options struct {
	// TranslationStatus keeps the translation-status category in play.
	TranslationStatus bool
}

// DefaultOptions draws from all 28 categories.
var DefaultOptions = Options{TranslationStatus: true}

// Generator renders hints. It is not safe for concurrent use because the
// underlying rand.Rand is not.
type Generator struct {
	rng        *rand.Rand
	categories []Category
	printer    *message.Printer
}

// NewGenerator builds a Generator over rng.
func NewGenerator(rng *rand.Rand, opts Options) *Generator {
	cats := All()
	if !opts.TranslationStatus {
		kept := cats[:0]
		for _, c := range cats {
			if c != TranslationStatus {
				kept = append(kept, c)
			}
		}
		cats = kept
	}
	return &Generator{
		rng:        rng,
		categories: cats,
		printer:    message.NewPrinter(language.English),
	}
}

// Categories lists the categories this generator can draw.
func (g *Generator) Categories() []Category {
	return append([]Category(nil), g.categories...)
}

// Next picks an unused category, marks it used in s and renders it.
// ok is false when every category is already used.
func (g *Generator) Next(d comic.Detail, s *Session) (text string, cat Category, ok bool) {
	var available []Category
	for _, c := range g.categories {
		if !s.Has(c) {
			available = append(available, c)
		}
	}
	if len(available) == 0 {
		return ClosingMessage, 0, false
	}
	cat = available[g.rng.Intn(len(available))]
	s.mark(cat)
	return g.Render(cat, d), cat, true
}

// Render produces the clue text for one category.
func (g *Generator) Render(c Category, d comic.Detail) string {
	cm := d.Comic
	title := cm.Title
	if strings.TrimSpace(title) == "" {
		return "This comic is from " + comic.CountryName(cm.Country)
	}
	words := splitWords(title)

	switch c {
	case FirstLetter:
		r, _ := utf8.DecodeRuneInString(title)
		return fmt.Sprintf("The title starts with the letter %q", strings.ToUpper(string(r)))

	case LastLetter:
		r, _ := utf8.DecodeLastRuneInString(title)
		return fmt.Sprintf("The title ends with the letter %q", strings.ToUpper(string(r)))

	case WordCount:
		return fmt.Sprintf("The title has %s", plural(len(words), "word"))

	case ContainsWord:
		var long []string
		for _, w := range words {
			if utf8.RuneCountInString(w) > 3 {
				long = append(long, w)
			}
		}
		if len(long) > 0 {
			return fmt.Sprintf("The title contains the word %q", long[g.rng.Intn(len(long))])
		}
		if cm.Year > 0 {
			return fmt.Sprintf("The publication year is %d", cm.Year)
		}
		return "The publication year is unknown"

	case FirstWord:
		return fmt.Sprintf("The first word of the title is %q", words[0])

	case LastWord:
		if len(words) > 1 {
			return fmt.Sprintf("The last word of the title is %q", words[len(words)-1])
		}
		return "The title is a single word"

	case Vowels:
		return fmt.Sprintf("The title contains %s", plural(countRunes(title, isVowel), "vowel"))

	case Consonants:
		return fmt.Sprintf("The title contains %s", plural(countRunes(title, isConsonant), "consonant"))

	case TitleLength:
		return fmt.Sprintf("The title is %d characters long", utf8.RuneCountInString(title))

	case UppercaseCount:
		n := countRunes(title, func(r rune) bool { return r >= 'A' && r <= 'Z' })
		return fmt.Sprintf("The title contains %s", plural(n, "uppercase letter"))

	case TitleSpaces:
		return fmt.Sprintf("The title contains %s", plural(strings.Count(title, " "), "space"))

	case ShortestWord:
		if len(words) > 1 {
			w := words[0]
			for _, x := range words[1:] {
				if utf8.RuneCountInString(x) < utf8.RuneCountInString(w) {
					w = x
				}
			}
			return fmt.Sprintf("The shortest word in the title is %q (%d letters)", w, utf8.RuneCountInString(w))
		}
		return fmt.Sprintf("The title is %q (a single word)", title)

	case LongestWord:
		if len(words) > 1 {
			w := words[0]
			for _, x := range words[1:] {
				if utf8.RuneCountInString(x) > utf8.RuneCountInString(w) {
					w = x
				}
			}
			return fmt.Sprintf("The longest word in the title is %q (%d letters)", w, utf8.RuneCountInString(w))
		}
		return fmt.Sprintf("The title is %q (a single word)", title)

	case SpecialChars:
		var special []string
		for _, r := range title {
			if !isWordRune(r) && !isSpace(r) {
				special = append(special, strconv.Quote(string(r)))
			}
		}
		if len(special) == 0 {
			return "The title contains 0 special characters"
		}
		return fmt.Sprintf("The title contains %s (%s)", plural(len(special), "special character"), strings.Join(special, ", "))

	case NumbersInTitle:
		var digits []string
		for _, r := range title {
			if r >= '0' && r <= '9' {
				digits = append(digits, string(r))
			}
		}
		switch len(digits) {
		case 0:
			return "The title doesn't contain any numbers"
		case 1:
			return "The title contains the number " + digits[0]
		default:
			return "The title contains the numbers " + strings.Join(digits, ", ")
		}

	case AlternateTitle:
		var alts []string
		for _, t := range cm.MDTitles {
			if t.Title != "" && t.Title != title && strings.TrimSpace(t.Title) != "" {
				alts = append(alts, t.Title)
			}
		}
		if len(alts) == 0 {
			return "This comic doesn't have any alternate titles"
		}
		alt := alts[g.rng.Intn(len(alts))]
		if parts := strings.Split(alt, " "); len(parts) > 2 {
			return fmt.Sprintf("One of this comic's alternate titles starts with %q", parts[0])
		}
		return fmt.Sprintf("One of this comic's alternate titles is %d characters long", utf8.RuneCountInString(alt))

	case Origin:
		place := comic.CountryName(cm.Country)
		if kind := comic.ComicKind(cm.Country); kind != "" {
			return fmt.Sprintf("This comic is from %s (it's a %s)", place, kind)
		}
		return "This comic is from " + place

	case Year:
		if cm.Year > 0 {
			return fmt.Sprintf("This comic was first published in %d", cm.Year)
		}
		return "The publication year of this comic is unknown"

	case Genre:
		if names := d.GenreNames(); len(names) > 0 {
			return fmt.Sprintf("This comic belongs to the %q genre", names[g.rng.Intn(len(names))])
		}
		return g.chaptersAvailable(cm)

	case GenreCount:
		n := len(d.GenreNames())
		if n == 0 {
			n = len(cm.Genres)
		}
		if n > 0 {
			return fmt.Sprintf("This comic is tagged with %s", plural(n, "genre"))
		}
		return g.chaptersAvailable(cm)

	case Demographic:
		if label := comic.DemographicLabel(cm.Demographic); label != "" {
			return fmt.Sprintf("This comic targets a %s audience", label)
		}
		return "This comic's target demographic is not specified"

	case ContentRating:
		rating := cm.ContentRating
		if rating == "" {
			rating = "unknown"
		}
		return fmt.Sprintf("This comic has a content rating of %q", rating)

	case TranslationStatus:
		switch {
		case cm.TranslationCompleted == nil:
			return "The translation status of this comic is unknown"
		case *cm.TranslationCompleted:
			return "The translation of this comic is complete"
		default:
			return "The translation of this comic is still ongoing"
		}

	case Status:
		return "The publication status is: " + comic.StatusLabel(cm.Status)

	case Chapters:
		if cm.LastChapter > 0 {
			return fmt.Sprintf("This comic has %s chapters available to read", formatChapter(cm.LastChapter))
		}
		return "This comic is relatively new with few chapters"

	case ChapterCount:
		if cm.LastChapter > 0 {
			return fmt.Sprintf("The latest chapter of this comic is chapter %s", formatChapter(cm.LastChapter))
		}
		return "The latest chapter number of this comic is unknown"

	case FollowCount:
		if cm.UserFollowCount > 0 {
			return g.printer.Sprintf("This comic has %d followers on ComicK", cm.UserFollowCount)
		}
		return "The number of followers for this comic is unknown"

	case FollowRank:
		if cm.FollowRank > 0 {
			return g.printer.Sprintf("This comic's popularity rank on ComicK is #%d", cm.FollowRank)
		}
		return "This comic's popularity rank is unknown"

	default:
		if cm.UserFollowCount > 0 {
			return g.printer.Sprintf("This comic has %d followers on ComicK", cm.UserFollowCount)
		}
		return "This comic has many followers on ComicK"
	}
}

func (g *Generator) chaptersAvailable(cm comic.Comic) string {
	if cm.LastChapter > 0 {
		return fmt.Sprintf("This comic has %s chapters available", formatChapter(cm.LastChapter))
	}
	return "This comic has multiple chapters available"
}

// splitWords splits on single spaces and drops empty pieces.
func splitWords(s string) []string {
	var out []string
	for _, w := range strings.Split(s, " ") {
		if w != "" {
			out = append(out, w)
		}
	}
	return out
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

func formatChapter(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

func countRunes(s string, pred func(rune) bool) int {
	n := 0
	for _, r := range s {
		if pred(r) {
			n++
		}
	}
	return n
}

func isVowel(r rune) bool { return strings.ContainsRune("aeiouAEIOU", r) }

func isConsonant(r rune) bool {
	return strings.ContainsRune("bcdfghjklmnpqrstvwxyzBCDFGHJKLMNPQRSTVWXYZ", r)
}

// isWordRune matches ASCII letters, digits and underscore.
func isWordRune(r rune) bool {
	return r == '_' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9'
}

func isSpace(r rune) bool {
	switch r {
	case ' ', '\t', '\n', '\r', '\v', '\f', '\u00a0':
		return true
	}
	return false
}

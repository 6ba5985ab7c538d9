// internal/match/match.go
//
// Title matching for free-text guesses.
// Responsibilities:
//   - Normalize guesses and titles (case, accents, punctuation, whitespace).
//   - Reject guesses that are too short or too generic before comparing.
//   - Accept a guess when it matches any acceptable title under a tiered,
//     length-aware comparison (exact, containment, word overlap, bigram runs).
//
// Notes:
//   - Every function here is a pure predicate over its inputs.
//   - Lengths are counted in runes.

package match

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Verdict is the outcome of checking a guess.
type Verdict string

const (
	Correct     Verdict = "correct"
	Incorrect   Verdict = "incorrect"
	Empty       Verdict = "empty"        // blank input
	TooShort    Verdict = "too_short"    // normalized guess under 4 runes
	NotSpecific Verdict = "not_specific" // stop word, or under 5 runes
)

// Message returns the player-facing text for a verdict.
func (v Verdict) Message() string {
	switch v {
	case Correct:
		return "Correct! Well done!"
	case Empty:
		return "Please enter a guess"
	case TooShort:
		return "Your guess is too short. Try again!"
	case NotSpecific:
		return "Be more specific with your guess!"
	default:
		return "Incorrect, try again!"
	}
}

// stopWords never count as a guess on their own and are not significant title words.
var stopWords = map[string]struct{}{
	"comic": {}, "manga": {}, "manhwa": {}, "manhua": {},
	"chapter": {}, "volume": {}, "season": {}, "part": {}, "the": {},
}

func isStopWord(w string) bool {
	_, ok := stopWords[w]
	return ok
}

// Options tunes the matcher where earlier versions of the game disagreed.
type Options struct {
	// ShortTitleFallthrough lets titles under 15 runes that fail the
	// containment test still be matched by a single significant word
	// ("jujutsu" for "Jujutsu Kaisen"). No other word-level tier applies.
	// With it off, the containment test is the only check for short titles.
	ShortTitleFallthrough bool
}

// DefaultOptions is what Matches and Check use.
var DefaultOptions = Options{ShortTitleFallthrough: true}

// Matcher checks guesses against acceptable titles.
type Matcher struct {
	opts Options
}

// New returns a Matcher with the given options.
func New(opts Options) *Matcher { return &Matcher{opts: opts} }

var defaultMatcher = New(DefaultOptions)

// Matches reports whether guess identifies one of the acceptable titles.
func Matches(guess string, titles []string) bool {
	return defaultMatcher.Check(guess, titles) == Correct
}

// Check is Matches with the rejection reason.
func Check(guess string, titles []string) Verdict {
	return defaultMatcher.Check(guess, titles)
}

// Matches reports whether guess identifies one of the acceptable titles.
func (m *Matcher) Matches(guess string, titles []string) bool {
	return m.Check(guess, titles) == Correct
}

// Check evaluates guess against titles and explains the outcome.
func (m *Matcher) Check(guess string, titles []string) Verdict {
	if strings.TrimSpace(guess) == "" {
		return Empty
	}
	g := Normalize(guess)
	n := runeLen(g)
	if n < 4 {
		return TooShort
	}
	if isStopWord(g) || n < 5 {
		return NotSpecific
	}
	for _, t := range titles {
		if m.matchTitle(g, Normalize(t)) {
			return Correct
		}
	}
	return Incorrect
}

// Normalize lower-cases s, folds accents, turns every rune that is not a
// letter, digit or whitespace into a space, collapses whitespace and trims.
func Normalize(s string) string {
	s = fold(strings.ToLower(s))
	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// fold strips combining marks after canonical decomposition (é → e).
func fold(s string) string {
	t := transform.Chain(norm.NFD, transform.RemoveFunc(isMn), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

func isMn(r rune) bool { return unicode.Is(unicode.Mn, r) }

// matchTitle applies the acceptance tiers to one normalized title.
func (m *Matcher) matchTitle(guess, title string) bool {
	if title == "" {
		return false
	}
	if guess == title {
		return true
	}
	gl, tl := runeLen(guess), runeLen(title)

	if tl < 15 {
		if (strings.Contains(title, guess) && float64(gl) >= float64(tl)*0.7) ||
			(strings.Contains(guess, title) && float64(tl) >= float64(gl)*0.7) {
			return true
		}
	}

	titleWords := longWords(title)
	guessWords := longWords(guess)

	minRequired := max(5, int(math.Floor(float64(tl)*0.3)))
	if gl < minRequired {
		return false
	}

	singleWord := len(guessWords) == 1 && runeLen(guessWords[0]) < 8
	if tl < 15 {
		// Short titles only fall through to the significant-word check.
		return m.opts.ShortTitleFallthrough && singleWord && singleWordMatch(guessWords[0], titleWords)
	}
	if singleWord {
		return singleWordMatch(guessWords[0], titleWords)
	}

	if len(guessWords) > 1 {
		phrase := strings.Join(guessWords, " ")
		if strings.Contains(title, phrase) && runeLen(phrase) >= 8 {
			return true
		}
		longest := longestBigramRun(titleWords, guessWords)
		if float64(longest) >= float64(len(guessWords))*0.7 && len(guessWords) >= 3 {
			return true
		}
	}

	return overlapMatch(guess, title, titleWords, guessWords)
}

// singleWordMatch accepts a short single-word guess that equals, or nearly
// covers, a significant title word.
func singleWordMatch(guess string, titleWords []string) bool {
	gl := runeLen(guess)
	for _, w := range titleWords {
		wl := runeLen(w)
		if isStopWord(w) || wl < 5 {
			continue
		}
		if w == guess {
			return true
		}
		if wl > 6 && strings.Contains(w, guess) && float64(gl) >= float64(wl)*0.8 {
			return true
		}
	}
	return false
}

// longestBigramRun scans every (title, guess) word-pair position and counts
// the longest run of consecutive positions where both adjacent pairs agree.
// The run resets on any mismatch in scan order.
func longestBigramRun(titleWords, guessWords []string) int {
	longest, current := 0, 0
	for i := 0; i < len(titleWords)-1; i++ {
		for j := 0; j < len(guessWords)-1; j++ {
			if titleWords[i] == guessWords[j] && titleWords[i+1] == guessWords[j+1] {
				current++
				longest = max(longest, current)
			} else {
				current = 0
			}
		}
	}
	return longest
}

// overlapMatch is the significant-word fallback.
func overlapMatch(guess, title string, titleWords, guessWords []string) bool {
	gl, tl := float64(runeLen(guess)), float64(runeLen(title))

	var significant []string
	for _, w := range titleWords {
		if !isStopWord(w) && runeLen(w) > 3 {
			significant = append(significant, w)
		}
	}
	if len(significant) == 0 {
		return strings.Contains(title, guess) && gl >= math.Max(5, tl*0.4)
	}

	matched := 0
	for _, w := range significant {
		for _, g := range guessWords {
			if isStopWord(g) || runeLen(g) <= 3 {
				continue
			}
			if wordsOverlap(w, g) {
				matched++
				break
			}
		}
	}
	ratio := float64(matched) / float64(len(significant))

	return (ratio >= 0.5 && gl >= math.Max(8, tl*0.3)) ||
		(ratio >= 0.8 && len(guessWords) >= 2) ||
		(strings.Contains(title, guess) && gl >= tl*0.6)
}

// wordsOverlap reports equality, or containment covering at least 80% of the
// containing word, in either direction.
func wordsOverlap(a, b string) bool {
	if a == b {
		return true
	}
	al, bl := float64(runeLen(a)), float64(runeLen(b))
	return (strings.Contains(a, b) && bl >= al*0.8) ||
		(strings.Contains(b, a) && al >= bl*0.8)
}

// longWords splits on single spaces and keeps words longer than one rune.
func longWords(s string) []string {
	var out []string
	for _, w := range strings.Split(s, " ") {
		if runeLen(w) > 1 {
			out = append(out, w)
		}
	}
	return out
}

func runeLen(s string) int { return utf8.RuneCountInString(s) }

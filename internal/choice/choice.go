// internal/choice/choice.go
//
// Multiple-choice option building.
// Responsibilities:
//   - Score how alike two titles look (word overlap, length, leading chars).
//   - Pick two wrong options from the title pool, biased toward look-alikes
//     but not near-duplicates of each other.
//   - Synthesize variants of the correct title when the pool runs dry.
//   - Shuffle [correct, wrong, wrong] with the injected rng.

package choice

import (
	"math/rand"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	minSimilarity   = 0.2 // pool titles at or below this are not "similar"
	maxPairSimilar  = 0.7 // second distractor must differ from the first this much
	similarScanSize = 10
)

var (
	multiWordSuffixes  = []string{"Series", "Chronicles", "Adventures", "Stories"}
	singleWordSuffixes = []string{"Next", "Z", "X", "DX", "2", "II"}
)

// Similarity scores two titles in [0,1]:
// 0.6 × shared words / larger word count
// + 0.2 × shorter / longer length
// + 0.2 × matching runes among the first min(5, lengths) positions.
// Identical titles (ignoring case) score 1.
func Similarity(a, b string) float64 {
	t1, t2 := strings.ToLower(a), strings.ToLower(b)
	if t1 == t2 && t1 != "" {
		return 1
	}

	w1, w2 := wordsOver1(t1), wordsOver1(t2)
	common := 0
	for _, x := range w1 {
		if utf8.RuneCountInString(x) < 3 {
			continue
		}
		for _, y := range w2 {
			if x == y {
				common++
				break
			}
		}
	}
	var wordRatio float64
	if n := max(len(w1), len(w2)); n > 0 {
		wordRatio = float64(common) / float64(n)
	}

	r1, r2 := []rune(t1), []rune(t2)
	var lenRatio float64
	if l := max(len(r1), len(r2)); l > 0 {
		lenRatio = float64(min(len(r1), len(r2))) / float64(l)
	}

	var charRatio float64
	if check := min(len(r1), len(r2), 5); check > 0 {
		same := 0
		for i := 0; i < check; i++ {
			if r1[i] == r2[i] {
				same++
			}
		}
		charRatio = float64(same) / float64(check)
	}

	return wordRatio*0.6 + lenRatio*0.2 + charRatio*0.2
}

func wordsOver1(s string) []string {
	var out []string
	for _, w := range strings.Fields(s) {
		if utf8.RuneCountInString(w) > 1 {
			out = append(out, w)
		}
	}
	return out
}

type scored struct {
	title string
	score float64
}

// Options returns the correct title and two distinct distractors in random
// order. pool may contain the correct title; it is skipped.
func Options(correct string, pool []string, rng *rand.Rand) []string {
	candidates := dedupe(pool, correct)

	var similar []scored
	for _, t := range candidates {
		if s := Similarity(correct, t); s > minSimilarity {
			similar = append(similar, scored{t, s})
		}
	}
	sort.SliceStable(similar, func(i, j int) bool { return similar[i].score > similar[j].score })

	picked := make([]string, 0, 2)
	if len(similar) > 0 {
		picked = append(picked, similar[0].title)
		if len(similar) > 1 {
			for i := 1; i < min(len(similar), similarScanSize); i++ {
				if Similarity(picked[0], similar[i].title) < maxPairSimilar {
					picked = append(picked, similar[i].title)
					break
				}
			}
			if len(picked) == 1 {
				picked = append(picked, similar[1].title)
			}
		}
	}

	if len(picked) < 2 {
		var rest []string
		for _, t := range candidates {
			if !contains(picked, t) {
				rest = append(rest, t)
			}
		}
		rng.Shuffle(len(rest), func(i, j int) { rest[i], rest[j] = rest[j], rest[i] })
		for _, t := range rest {
			if len(picked) == 2 {
				break
			}
			picked = append(picked, t)
		}
	}

	for len(picked) < 2 {
		picked = append(picked, variant(correct, picked, rng))
	}

	options := []string{correct, picked[0], picked[1]}
	for i := len(options) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		options[i], options[j] = options[j], options[i]
	}
	return options
}

// variant makes a wrong title from the correct one that is not already
// taken: drop a random word, or append a suffix.
func variant(correct string, taken []string, rng *rand.Rand) string {
	ok := func(v string) bool { return v != correct && v != "" && !contains(taken, v) }

	words := strings.Split(correct, " ")
	suffixes := singleWordSuffixes
	if len(words) > 1 {
		suffixes = multiWordSuffixes
		drop := rng.Intn(len(words))
		rest := append(append([]string{}, words[:drop]...), words[drop+1:]...)
		if v := strings.Join(rest, " "); ok(v) {
			return v
		}
	}

	if v := correct + " " + suffixes[rng.Intn(len(suffixes))]; ok(v) {
		return v
	}
	for _, s := range suffixes {
		if v := correct + " " + s; ok(v) {
			return v
		}
	}
	// Every suffix is taken; stack them until free.
	v := correct
	for i := 0; !ok(v); i++ {
		v += " " + suffixes[i%len(suffixes)]
	}
	return v
}

// dedupe drops blanks, repeats and the correct title, keeping first-seen order.
func dedupe(pool []string, correct string) []string {
	seen := make(map[string]struct{}, len(pool))
	out := make([]string, 0, len(pool))
	for _, t := range pool {
		if t == correct || strings.TrimSpace(t) == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

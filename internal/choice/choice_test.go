package choice_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/comicguess/internal/choice"
)

func TestSimilarityIdentical(t *testing.T) {
	for _, title := range []string{"One Piece", "Ao Haru Ride", "A", "Spy x Family", "86"} {
		assert.Equal(t, 1.0, choice.Similarity(title, title), title)
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		a, b string
		want float64
	}{
		// 0.6*(1/2) + 0.2*(9/13) + 0.2*(5/5)
		{"One Piece", "One Punch-Man", 0.3 + 0.2*9.0/13.0 + 0.2},
		// 0.6*(2/3) + 0.2*(9/14) + 0.2
		{"One Piece", "One Piece Film", 0.4 + 0.2*9.0/14.0 + 0.2},
		// no shared words, no shared leading chars
		{"One Piece", "Berserk", 0.2 * 7.0 / 9.0},
		{"", "Berserk", 0},
	}
	for _, tt := range tests {
		t.Run(tt.a+"/"+tt.b, func(t *testing.T) {
			got := choice.Similarity(tt.a, tt.b)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func requireValidOptions(t *testing.T, correct string, opts []string) {
	t.Helper()
	require.Len(t, opts, 3)
	assert.Contains(t, opts, correct)
	seen := map[string]bool{}
	for _, o := range opts {
		require.False(t, seen[o], "duplicate option %q", o)
		seen[o] = true
	}
}

func TestOptionsPrefersLookAlikes(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	pool := []string{"Berserk", "One Punch-Man", "One Piece", "One Piece Film", "Vagabond"}

	opts := choice.Options("One Piece", pool, rng)
	requireValidOptions(t, "One Piece", opts)
	assert.ElementsMatch(t, []string{"One Piece", "One Piece Film", "One Punch-Man"}, opts)
}

func TestOptionsFallsBackToRandomPoolTitles(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	pool := []string{"Berserk", "Vagabond", "Monster"}

	opts := choice.Options("Solo Leveling", pool, rng)
	requireValidOptions(t, "Solo Leveling", opts)
	for _, o := range opts {
		assert.Contains(t, append(pool, "Solo Leveling"), o)
	}
}

func TestOptionsSynthesizesVariants(t *testing.T) {
	tests := []struct {
		name    string
		correct string
		pool    []string
	}{
		{"empty pool multi word", "Solo Leveling", nil},
		{"empty pool single word", "Berserk", nil},
		{"pool of only the answer", "Berserk", []string{"Berserk", "Berserk"}},
		{"one other title", "Chainsaw Man", []string{"Vagabond"}},
		{"two words with repeats", "Man Man", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for seed := int64(0); seed < 20; seed++ {
				opts := choice.Options(tt.correct, tt.pool, rand.New(rand.NewSource(seed)))
				requireValidOptions(t, tt.correct, opts)
			}
		})
	}
}

func TestOptionsAlwaysThreeDistinct(t *testing.T) {
	pool := []string{
		"One Piece", "One Punch-Man", "One Piece Film", "Two Piece", "Piece of Cake",
		"Solo Leveling", "Solo Leveling: Ragnarok", "Blue Lock", "Blue Period", "Blue Exorcist",
	}
	for seed := int64(0); seed < 50; seed++ {
		rng := rand.New(rand.NewSource(seed))
		correct := pool[int(seed)%len(pool)]
		requireValidOptions(t, correct, choice.Options(correct, pool, rng))
	}
}

func TestOptionsDeterministicForSeed(t *testing.T) {
	pool := []string{"Berserk", "Vagabond", "Monster", "Pluto"}
	a := choice.Options("20th Century Boys", pool, rand.New(rand.NewSource(9)))
	b := choice.Options("20th Century Boys", pool, rand.New(rand.NewSource(9)))
	assert.Equal(t, a, b)
}

func TestPool(t *testing.T) {
	p := choice.NewPool("Berserk", "Monster")
	assert.Equal(t, 2, p.Len())

	assert.Equal(t, 1, p.Add("Berserk", "", "  ", "Pluto"))
	assert.Equal(t, 3, p.Len())
	assert.Equal(t, []string{"Berserk", "Monster", "Pluto"}, p.Titles())
}

package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLongestBigramRun(t *testing.T) {
	assert.Equal(t, 0, longestBigramRun([]string{"one"}, []string{"one", "piece"}))
	assert.Equal(t, 0, longestBigramRun([]string{"solo", "leveling"}, []string{"one", "piece"}))
	assert.Equal(t, 1, longestBigramRun([]string{"kaguya", "sama", "love"}, []string{"kaguya", "sama", "war"}))
	// Repeated words let adjacent scan positions chain.
	assert.Equal(t, 2, longestBigramRun([]string{"la", "la", "land"}, []string{"la", "la", "la"}))
}

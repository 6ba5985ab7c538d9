package store_test

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/comicguess/internal/comic"
	"github.com/robalobadob/comicguess/internal/game"
	"github.com/robalobadob/comicguess/internal/store"
)

func round(started time.Time) *game.Round {
	r := game.NewRound(game.Found{Detail: comic.Detail{Comic: comic.Comic{Title: "Monster"}}},
		game.ModeText, game.DefaultSettings, rand.New(rand.NewSource(1)))
	r.Started = started
	return r
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()

	_, err := s.Get(ctx, "missing")
	assert.ErrorIs(t, err, game.ErrNotFound)

	r := round(time.Now())
	require.NoError(t, s.Save(ctx, r))
	got, err := s.Get(ctx, r.ID)
	require.NoError(t, err)
	assert.Same(t, r, got)
}

func TestMemoryStorePrune(t *testing.T) {
	ctx := context.Background()
	s := store.NewMemoryStore()
	now := time.Now()

	old, fresh := round(now.Add(-2*time.Hour)), round(now)
	require.NoError(t, s.Save(ctx, old))
	require.NoError(t, s.Save(ctx, fresh))

	assert.Equal(t, 1, s.Prune(ctx, now.Add(-time.Hour)))
	_, err := s.Get(ctx, old.ID)
	assert.ErrorIs(t, err, game.ErrNotFound)
	_, err = s.Get(ctx, fresh.ID)
	assert.NoError(t, err)
}

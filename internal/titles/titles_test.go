package titles_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/comicguess/internal/choice"
	"github.com/robalobadob/comicguess/internal/comic"
	"github.com/robalobadob/comicguess/internal/titles"
)

func TestLoadEmbedded(t *testing.T) {
	list, err := titles.Load("")
	require.NoError(t, err)
	assert.Contains(t, list, "One Piece")
	assert.Contains(t, list, "Spy x Family")
	for _, title := range list {
		assert.NotEmpty(t, title)
		assert.NotEqual(t, '#', rune(title[0]))
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "titles.txt")
	require.NoError(t, os.WriteFile(path, []byte("# header\nBerserk\n\n  Monster  \nBerserk\n"), 0o644))

	list, err := titles.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Berserk", "Monster"}, list)

	pool, err := titles.Seed(path)
	require.NoError(t, err)
	assert.Equal(t, 2, pool.Len())
}

func TestLoadErrors(t *testing.T) {
	_, err := titles.Load(filepath.Join(t.TempDir(), "missing.txt"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(path, []byte("# nothing\n\n"), 0o644))
	_, err = titles.Load(path)
	assert.ErrorIs(t, err, titles.ErrEmpty)
}

type pages map[int][]comic.Comic

func (p pages) List(_ context.Context, _ int, page int) ([]comic.Comic, error) {
	if page == 2 {
		return nil, errors.New("boom")
	}
	return p[page], nil
}

func TestWarm(t *testing.T) {
	pool := choice.NewPool("Berserk")
	src := pages{
		1: {{Title: "Berserk"}, {Title: "Monster"}, {Title: ""}},
		3: {{Title: "Pluto"}},
		9: {{Title: "Never fetched"}},
	}
	added := titles.Warm(context.Background(), src, pool, 5, 50)
	assert.Equal(t, 2, added)
	assert.Equal(t, []string{"Berserk", "Monster", "Pluto"}, pool.Titles())
}

package model

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCursorWalk(t *testing.T) {
	g, err := NewGridSize(5, 5)
	require.NoError(t, err)
	require.NoError(t, g.TryAppend(3, 1))
	require.NoError(t, g.TryAppend(2, 1))

	want := []Direction{UP, LEFT, UP}
	got := make([]Direction, 0)
	for !g.IsPathComplete() {
		s := g.Step()
		assert.Equal(t, g.CursorIndex(), s.Index)
		assert.True(t, s.Cell.Adjacent(s.Next))
		assert.False(t, s.Complete)
		got = append(got, s.Direction)
		require.True(t, g.Advance())
	}
	assert.Equal(t, want, got)

	s := g.Step()
	assert.True(t, s.Complete)
	assert.Equal(t, NoCell, s.Next)
	assert.Equal(t, UP, s.Direction)
	assert.False(t, g.Advance())
	assert.Equal(t, 3, g.CursorIndex())
}

func TestCursorNotMovedByEdits(t *testing.T) {
	g, err := NewGridSize(5, 5)
	require.NoError(t, err)
	require.NoError(t, g.TryAppend(3, 1))
	g.SetCursor(1)
	require.NoError(t, g.TryAppend(2, 1))
	assert.Equal(t, 1, g.CursorIndex())

	g.SetCursor(10)
	g.SetCursor(-1)
	assert.Equal(t, 1, g.CursorIndex())

	g.Clear()
	assert.Equal(t, 0, g.CursorIndex())
}

func TestParseRoute(t *testing.T) {
	dirs, err := ParseRoute(strings.NewReader("uL # left then\n U r\n\n# only comment\nD"))
	require.NoError(t, err)
	assert.Equal(t, []Direction{UP, LEFT, UP, RIGHT, DOWN}, dirs)

	_, err = ParseRoute(strings.NewReader("UU\nUX"))
	assert.True(t, errors.Is(err, ErrBadRoute))
	assert.Contains(t, err.Error(), "line 2 col 2")
}

func TestApplyRoute(t *testing.T) {
	g, err := NewGridSize(5, 5)
	require.NoError(t, err)

	require.NoError(t, ReadRoute(strings.NewReader("LU"), g))
	assert.Equal(t, []Cell{{4, 2}, {3, 2}, {3, 1}, {2, 1}}, g.Path())
	assert.Equal(t, "LU", FormatRoute(g))

	// D would revisit the seed
	err = ReadRoute(strings.NewReader("LRD"), g)
	assert.True(t, errors.Is(err, ErrBadRoute))
	assert.Equal(t, 2, g.Len())

	err = ApplyRoute(g, []Direction{UP, UP, UP, UP})
	assert.True(t, errors.Is(err, ErrBadRoute))
	require.NoError(t, g.Validate())
}

func TestFormatRouteRoundTrip(t *testing.T) {
	g, err := NewGrid(320, 240, 30)
	require.NoError(t, err)
	for _, d := range []Direction{UP, LEFT, LEFT, UP, RIGHT, RIGHT, RIGHT, UP} {
		next := g.Last().Move(d)
		require.NoError(t, g.TryAppend(next.Row, next.Col))
	}
	route := FormatRoute(g)
	assert.Equal(t, "ULLURRRU", route)

	other, err := NewGrid(320, 240, 30)
	require.NoError(t, err)
	require.NoError(t, ReadRoute(strings.NewReader(route), other))
	assert.Equal(t, g.Path(), other.Path())
}

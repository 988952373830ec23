package mines

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}

func newTestGame(t *testing.T, settings Settings) (*GameState, *fakeClock) {
	t.Helper()
	clock := &fakeClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	g, err := NewGame(settings, [2]uint64{1, 2}, WithClock(clock.Now))
	require.NoError(t, err)
	return g, clock
}

func TestNewGame(t *testing.T) {
	g, _ := newTestGame(t, Presets[Easy])

	assert.Equal(t, Playing, g.Status)
	assert.False(t, g.Started())
	assert.Empty(t, g.Board.Mines())
	assert.Equal(t, time.Duration(0), g.Elapsed())
	assert.Equal(t, 10, g.MinesLeft())
}

func TestNewGameErrors(t *testing.T) {
	_, err := NewGame(Settings{Rows: 0, Cols: 9, Mines: 1}, NewSeed())
	assert.ErrorIs(t, err, ErrInvalidDimensions)

	_, err = NewGame(Settings{Rows: 3, Cols: 3, Mines: 1}, NewSeed())
	assert.ErrorIs(t, err, ErrTooManyMines)

	_, err = NewGame(Settings{Rows: 4, Cols: 4, Mines: 8}, NewSeed())
	assert.ErrorIs(t, err, ErrTooManyMines)

	_, err = NewGame(Settings{Rows: 4, Cols: 4, Mines: 7}, NewSeed())
	require.NoError(t, err)
}

func TestFirstRevealPlacesMines(t *testing.T) {
	g, _ := newTestGame(t, Presets[Easy])

	res, err := g.Reveal(Point{4, 4})
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.True(t, g.Started())
	assert.Len(t, g.Board.Mines(), 10)
	assertAnchorSafe(t, g.Board, Point{4, 4})
	assertAdjacency(t, g.Board)
	assert.True(t, g.Board.At(Point{4, 4}).Revealed)
	assert.Equal(t, 0, g.Board.At(Point{4, 4}).AdjacentMines)
	assert.NotNil(t, g.StartedAt)
	assert.NotEqual(t, Lost, res.Status)
}

func TestFirstFlagPlacesMines(t *testing.T) {
	g, _ := newTestGame(t, Presets[Easy])

	res, err := g.ToggleFlag(Point{0, 0})
	require.NoError(t, err)

	assert.True(t, res.Changed)
	assert.True(t, g.Started())
	assert.Equal(t, 1, g.FlagCount)
	assert.True(t, g.Board.At(Point{0, 0}).Flagged)
	assertAnchorSafe(t, g.Board, Point{0, 0})

	res, err = g.ToggleFlag(Point{0, 0})
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, 0, g.FlagCount)
}

func TestFlagCap(t *testing.T) {
	g, _ := newTestGame(t, Settings{Rows: 5, Cols: 5, Mines: 2})

	for _, p := range []Point{{0, 0}, {0, 1}} {
		res, err := g.ToggleFlag(p)
		require.NoError(t, err)
		assert.True(t, res.Changed)
	}

	res, err := g.ToggleFlag(Point{0, 2})
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, 2, g.FlagCount)
	assert.False(t, g.Board.At(Point{0, 2}).Flagged)
}

func TestOutOfBoundsMove(t *testing.T) {
	g, _ := newTestGame(t, Presets[Easy])

	_, err := g.Reveal(Point{9, 0})
	assert.ErrorIs(t, err, ErrOutOfBounds)
	_, err = g.ToggleFlag(Point{0, -1})
	assert.ErrorIs(t, err, ErrOutOfBounds)
	assert.False(t, g.Started())
}

func TestLoss(t *testing.T) {
	g, clock := newTestGame(t, Presets[Easy])

	_, err := g.Reveal(Point{4, 4})
	require.NoError(t, err)
	clock.Advance(3500 * time.Millisecond)

	mine := g.Board.Mines()[0]
	res, err := g.Reveal(mine)
	require.NoError(t, err)

	assert.Equal(t, Lost, res.Status)
	assert.Equal(t, Lost, g.Status)
	require.NotNil(t, g.Exploded)
	assert.Equal(t, mine, *g.Exploded)
	for _, p := range g.Board.Mines() {
		assert.True(t, g.Board.At(p).Revealed)
	}

	assert.Equal(t, 3*time.Second, g.Elapsed())
	clock.Advance(time.Minute)
	assert.Equal(t, 3*time.Second, g.Elapsed())

	// terminal
	before := g.Board.Clone()
	res, err = g.Reveal(Point{0, 0})
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, before, g.Board)
}

func TestWinOneByOne(t *testing.T) {
	g, clock := newTestGame(t, Presets[Easy])

	_, err := g.Reveal(Point{4, 4})
	require.NoError(t, err)

	safe := make([]Point, 0)
	for i, c := range g.Board.Cells {
		if !c.Mine && !c.Revealed {
			safe = append(safe, g.Board.point(i))
		}
	}

	for _, p := range safe {
		if g.Board.At(p).Revealed {
			continue
		}
		require.Equal(t, Playing, g.Status)
		require.Less(t, g.Board.RevealedCount(), g.Board.SafeCells())
		clock.Advance(time.Second)
		_, err := g.Reveal(p)
		require.NoError(t, err)
	}

	assert.Equal(t, Won, g.Status)
	assert.Equal(t, 81-10, g.Board.RevealedCount())
	assert.NotNil(t, g.EndedAt)
	assert.Nil(t, g.Exploded)
}

func TestElapsed(t *testing.T) {
	g, clock := newTestGame(t, Presets[Medium])

	clock.Advance(time.Hour)
	assert.Equal(t, time.Duration(0), g.Elapsed())

	_, err := g.Reveal(Point{0, 0})
	require.NoError(t, err)

	prev := g.Elapsed()
	for range 5 {
		clock.Advance(700 * time.Millisecond)
		e := g.Elapsed()
		assert.GreaterOrEqual(t, e, prev)
		prev = e
	}
	assert.Equal(t, 3*time.Second, prev)
}

func TestGameStateRoundTrip(t *testing.T) {
	g, _ := newTestGame(t, Presets[Medium])
	_, err := g.Reveal(Point{8, 8})
	require.NoError(t, err)
	_, err = g.ToggleFlag(Point{0, 0})
	require.NoError(t, err)

	buf, err := g.Bytes()
	require.NoError(t, err)

	decoded, err := DecodeGameState(buf)
	require.NoError(t, err)

	assert.Equal(t, g.Board, decoded.Board)
	assert.Equal(t, g.Settings, decoded.Settings)
	assert.Equal(t, g.Status, decoded.Status)
	assert.Equal(t, g.FlagCount, decoded.FlagCount)
	assert.Equal(t, g.Seed, decoded.Seed)
	require.NotNil(t, decoded.StartedAt)
	assert.True(t, g.StartedAt.Equal(*decoded.StartedAt))
	assert.Nil(t, decoded.EndedAt)
}

func TestPendingGameRoundTrip(t *testing.T) {
	g, _ := newTestGame(t, Presets[Easy])

	buf, err := g.Bytes()
	require.NoError(t, err)
	decoded, err := DecodeGameState(buf)
	require.NoError(t, err)

	_, err = g.Reveal(Point{2, 3})
	require.NoError(t, err)
	_, err = decoded.Reveal(Point{2, 3})
	require.NoError(t, err)

	assert.Equal(t, g.Board.Mines(), decoded.Board.Mines())
}

func TestDecodeGameStateGarbage(t *testing.T) {
	_, err := DecodeGameState([]byte("not a game"))
	assert.Error(t, err)
}

func TestDecodeGameStateFlagMismatch(t *testing.T) {
	g, _ := newTestGame(t, Presets[Easy])
	g.FlagCount = 3

	buf, err := g.Bytes()
	require.NoError(t, err)
	_, err = DecodeGameState(buf)
	assert.ErrorContains(t, err, "flags")
}

func TestDecodeGameStateBoardShape(t *testing.T) {
	g, _ := newTestGame(t, Presets[Easy])
	g.Board.Cells = g.Board.Cells[:5]

	buf, err := g.Bytes()
	require.NoError(t, err)
	_, err = DecodeGameState(buf)
	assert.ErrorContains(t, err, "cells")

	g, _ = newTestGame(t, Presets[Easy])
	g.Settings = Presets[Medium]
	buf, err = g.Bytes()
	require.NoError(t, err)
	_, err = DecodeGameState(buf)
	assert.ErrorContains(t, err, "settings say")
}

func TestReset(t *testing.T) {
	g, _ := newTestGame(t, Presets[Easy])
	_, err := g.Reveal(Point{4, 4})
	require.NoError(t, err)
	_, err = g.Reveal(g.Board.Mines()[0])
	require.NoError(t, err)
	require.Equal(t, Lost, g.Status)

	require.NoError(t, g.Reset([2]uint64{5, 6}))

	assert.Equal(t, Playing, g.Status)
	assert.False(t, g.Started())
	assert.Equal(t, 0, g.FlagCount)
	assert.Nil(t, g.StartedAt)
	assert.Nil(t, g.EndedAt)
	assert.Nil(t, g.Exploded)
	assert.Equal(t, 0, g.Board.RevealedCount())
	assert.Equal(t, [2]uint64{5, 6}, g.Seed)
	assert.Equal(t, Presets[Easy], g.Settings)
}

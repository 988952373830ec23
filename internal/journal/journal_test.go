package journal

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vancomm/minefield/internal/mines"
)

func newTestJournal(t *testing.T) (*Journal, *test.Hook) {
	t.Helper()
	j, err := New(io.Discard, Config{Level: logrus.DebugLevel})
	require.NoError(t, err)
	return j, test.NewLocal(j.Logger())
}

func TestCreated(t *testing.T) {
	j, hook := newTestJournal(t)
	g, err := mines.NewGame(mines.Presets[mines.Easy], [2]uint64{1, 2})
	require.NoError(t, err)

	playerId := int64(3)
	j.Created(11, &playerId, g)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, "game created", entry.Message)
	assert.Equal(t, int64(11), entry.Data["game_session_id"])
	assert.Equal(t, int64(3), entry.Data["player_id"])
	assert.Equal(t, "9x9:10", entry.Data["settings"])
}

func TestMoveLogsFinish(t *testing.T) {
	j, hook := newTestJournal(t)
	g, err := mines.NewGame(mines.Settings{Rows: 5, Cols: 5, Mines: 1}, [2]uint64{1, 2})
	require.NoError(t, err)

	p := mines.Point{Row: 2, Col: 2}
	_, err = g.Reveal(p)
	require.NoError(t, err)
	for i := range g.Board.Cells {
		if g.Status.Over() {
			break
		}
		q := mines.Point{Row: i / g.Board.Cols, Col: i % g.Board.Cols}
		if !g.Board.At(q).Mine {
			_, err = g.Reveal(q)
			require.NoError(t, err)
		}
	}
	require.Equal(t, mines.Won, g.Status)

	j.Move(1, "reveal", p, g)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "move played", entries[0].Message)
	assert.Equal(t, logrus.DebugLevel, entries[0].Level)
	assert.Equal(t, "game won", entries[1].Message)
	assert.Equal(t, "won", entries[1].Data["status"])
}

func TestReset(t *testing.T) {
	j, hook := newTestJournal(t)
	g, err := mines.NewGame(mines.Presets[mines.Easy], [2]uint64{1, 2})
	require.NoError(t, err)

	j.Reset(1, 2, g)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, int64(1), entry.Data["previous_game_session_id"])
	assert.Equal(t, int64(2), entry.Data["game_session_id"])
}

func TestFile(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "journal.log")
	j, err := New(io.Discard, Config{Filename: filename, Level: logrus.InfoLevel})
	require.NoError(t, err)

	g, err := mines.NewGame(mines.Presets[mines.Easy], [2]uint64{1, 2})
	require.NoError(t, err)
	j.Created(5, nil, g)

	data, err := os.ReadFile(filename)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"game created"`)
}

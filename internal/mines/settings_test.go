package mines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetsAreValid(t *testing.T) {
	for d, s := range Presets {
		assert.NoError(t, s.Validate(), "preset %s", d)
	}
}

func TestMaxMines(t *testing.T) {
	assert.Equal(t, 8, MaxMines(5, 5))
	assert.Equal(t, 28, MaxMines(9, 9))
	assert.Equal(t, 140, MaxMines(20, 20))
	assert.Equal(t, 315, MaxMines(30, 30))
}

func TestCustomSettings(t *testing.T) {
	tests := []struct {
		rows, cols, mines int
		want              Settings
	}{
		{12, 12, 20, Settings{12, 12, 20}},
		{1, 40, 5, Settings{5, 30, 5}},
		{10, 10, 0, Settings{10, 10, 1}},
		{10, 10, 100, Settings{10, 10, 35}},
		{5, 5, 25, Settings{5, 5, 8}},
	}

	for _, test := range tests {
		got := CustomSettings(test.rows, test.cols, test.mines)
		assert.Equal(t, test.want, got)
		assert.NoError(t, got.Validate())
	}
}

func TestSettingsValidate(t *testing.T) {
	invalid := []Settings{
		{4, 10, 3},
		{10, 31, 3},
		{10, 10, 0},
		{10, 10, 36},
	}
	for _, s := range invalid {
		assert.ErrorIs(t, s.Validate(), ErrInvalidSettings, "%s", s)
	}
}

func TestParseSettings(t *testing.T) {
	s, err := ParseSettings("16x30:99")
	require.NoError(t, err)
	assert.Equal(t, Settings{Rows: 16, Cols: 30, Mines: 99}, s)
	assert.Equal(t, "16x30:99", s.String())

	for _, bad := range []string{"", "9x9", "9:10", "ax9:10", "9xb:10", "9x9:c"} {
		_, err := ParseSettings(bad)
		assert.ErrorIs(t, err, ErrInvalidSettings, "%q", bad)
	}
}

func TestParseDifficulty(t *testing.T) {
	d, err := ParseDifficulty("Medium")
	require.NoError(t, err)
	assert.Equal(t, Medium, d)

	_, err = ParseDifficulty("impossible")
	assert.Error(t, err)
}

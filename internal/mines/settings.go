package mines

import (
	"fmt"
	"strconv"
	"strings"
)

const (
	MinSide = 5
	MaxSide = 30

	// mines may cover at most maxDensityPct percent of a custom board
	maxDensityPct = 35
	MaxDensity    = maxDensityPct / 100.0
)

type Settings struct {
	Rows  int `json:"rows"`
	Cols  int `json:"cols"`
	Mines int `json:"mines"`
}

type Difficulty string

const (
	Easy   Difficulty = "easy"
	Medium Difficulty = "medium"
	Hard   Difficulty = "hard"
	Custom Difficulty = "custom"
)

var Presets = map[Difficulty]Settings{
	Easy:   {Rows: 9, Cols: 9, Mines: 10},
	Medium: {Rows: 16, Cols: 16, Mines: 40},
	Hard:   {Rows: 22, Cols: 22, Mines: 60},
}

func ParseDifficulty(s string) (Difficulty, error) {
	switch d := Difficulty(strings.ToLower(s)); d {
	case Easy, Medium, Hard, Custom:
		return d, nil
	}
	return "", fmt.Errorf(
		"difficulty must be one of '%s', '%s', '%s', '%s'", Easy, Medium, Hard, Custom,
	)
}

// MaxMines is floor(rows*cols*0.35).
func MaxMines(rows, cols int) int {
	return rows * cols * maxDensityPct / 100
}

// CustomSettings clamps the board to [MinSide, MaxSide] on both sides and
// the mine count to [1, MaxMines].
func CustomSettings(rows, cols, mines int) Settings {
	rows = clamp(rows, MinSide, MaxSide)
	cols = clamp(cols, MinSide, MaxSide)
	return Settings{
		Rows:  rows,
		Cols:  cols,
		Mines: clamp(mines, 1, MaxMines(rows, cols)),
	}
}

func (s Settings) Validate() error {
	if s.Rows < MinSide || s.Rows > MaxSide || s.Cols < MinSide || s.Cols > MaxSide {
		return fmt.Errorf(
			"%w: board must be between %[2]dx%[2]d and %[3]dx%[3]d",
			ErrInvalidSettings, MinSide, MaxSide,
		)
	}
	if s.Mines < 1 || s.Mines > MaxMines(s.Rows, s.Cols) {
		return fmt.Errorf(
			"%w: mines must be between 1 and %d for a %dx%d board",
			ErrInvalidSettings, MaxMines(s.Rows, s.Cols), s.Rows, s.Cols,
		)
	}
	return nil
}

func (s Settings) Cells() int {
	return s.Rows * s.Cols
}

func (s Settings) String() string {
	return fmt.Sprintf("%dx%d:%d", s.Rows, s.Cols, s.Mines)
}

// ParseSettings is the inverse of [Settings.String].
func ParseSettings(s string) (Settings, error) {
	size, mines, ok := strings.Cut(s, ":")
	if !ok {
		return Settings{}, fmt.Errorf("%w: %q is not ROWSxCOLS:MINES", ErrInvalidSettings, s)
	}
	rows, cols, ok := strings.Cut(size, "x")
	if !ok {
		return Settings{}, fmt.Errorf("%w: %q is not ROWSxCOLS:MINES", ErrInvalidSettings, s)
	}

	var (
		settings Settings
		err      error
	)
	if settings.Rows, err = strconv.Atoi(rows); err != nil {
		return Settings{}, fmt.Errorf("%w: rows: %w", ErrInvalidSettings, err)
	}
	if settings.Cols, err = strconv.Atoi(cols); err != nil {
		return Settings{}, fmt.Errorf("%w: cols: %w", ErrInvalidSettings, err)
	}
	if settings.Mines, err = strconv.Atoi(mines); err != nil {
		return Settings{}, fmt.Errorf("%w: mines: %w", ErrInvalidSettings, err)
	}
	return settings, nil
}

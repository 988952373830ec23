package mines

import (
	"bytes"
	"encoding/gob"
	"fmt"
	"hash/maphash"
	"math/rand/v2"
	"time"
)

// GameState is a single game: the board, the settings it was created
// with and everything that happened to it so far. Mines are placed from
// Seed on the first reveal or flag.
type GameState struct {
	Board     *Board
	Settings  Settings
	Status    Status
	FlagCount int
	Seed      [2]uint64
	StartedAt *time.Time
	EndedAt   *time.Time
	Exploded  *Point

	now func() time.Time
}

type Option func(*GameState)

func WithClock(now func() time.Time) Option {
	return func(g *GameState) {
		g.now = now
	}
}

func NewSeed() [2]uint64 {
	return [2]uint64{new(maphash.Hash).Sum64(), new(maphash.Hash).Sum64()}
}

func NewGame(settings Settings, seed [2]uint64, opts ...Option) (*GameState, error) {
	board, err := NewBoard(settings.Rows, settings.Cols)
	if err != nil {
		return nil, err
	}

	// worst case is a first move away from the edges
	center := Point{Row: settings.Rows / 2, Col: settings.Cols / 2}
	if capacity := Capacity(settings.Rows, settings.Cols, center); settings.Mines < 0 || settings.Mines > capacity {
		return nil, fmt.Errorf(
			"%w: %s leaves room for %d mines", ErrTooManyMines, settings, capacity,
		)
	}

	g := &GameState{
		Board:    board,
		Settings: settings,
		Seed:     seed,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

func DecodeGameState(buf []byte, opts ...Option) (*GameState, error) {
	var g GameState
	if err := gob.NewDecoder(bytes.NewReader(buf)).Decode(&g); err != nil {
		return nil, err
	}
	if g.Board == nil {
		return nil, fmt.Errorf("decoded game has no board")
	}
	if g.Board.Rows != g.Settings.Rows || g.Board.Cols != g.Settings.Cols {
		return nil, fmt.Errorf(
			"decoded board is %dx%d, settings say %dx%d",
			g.Board.Rows, g.Board.Cols, g.Settings.Rows, g.Settings.Cols,
		)
	}
	if len(g.Board.Cells) != g.Board.Rows*g.Board.Cols {
		return nil, fmt.Errorf(
			"decoded board has %d cells, want %d", len(g.Board.Cells), g.Board.Rows*g.Board.Cols,
		)
	}
	if flags := g.Board.FlagCount(); flags != g.FlagCount {
		return nil, fmt.Errorf("decoded game counts %d flags, board has %d", g.FlagCount, flags)
	}
	for _, opt := range opts {
		opt(&g)
	}
	return &g, nil
}

func (g *GameState) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(g); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (g *GameState) clock() time.Time {
	if g.now != nil {
		return g.now()
	}
	return time.Now()
}

func (g *GameState) InBounds(p Point) bool {
	return g.Board.InBounds(p)
}

// Started reports whether the first move has been made.
func (g *GameState) Started() bool {
	return g.Board.Placed
}

func (g *GameState) MinesLeft() int {
	return g.Settings.Mines - g.FlagCount
}

// Elapsed is the play time in whole seconds. It stays at zero until the
// first move and stops growing once the game is over.
func (g *GameState) Elapsed() time.Duration {
	if g.StartedAt == nil {
		return 0
	}
	end := g.clock()
	if g.EndedAt != nil {
		end = *g.EndedAt
	}
	return max(0, end.Sub(*g.StartedAt).Truncate(time.Second))
}

// placeMines lays out the mines around the first move and starts the
// clock.
func (g *GameState) placeMines(anchor Point) error {
	if g.Board.Placed {
		return nil
	}
	r := rand.New(rand.NewPCG(g.Seed[0], g.Seed[1]))
	board, err := PlaceMines(g.Board, anchor, g.Settings.Mines, r)
	if err != nil {
		return err
	}
	g.Board = board
	now := g.clock()
	g.StartedAt = &now
	return nil
}

func (g *GameState) finish() {
	if g.Status.Over() && g.EndedAt == nil {
		now := g.clock()
		g.EndedAt = &now
	}
}

type MoveResult struct {
	Changed bool
	Status  Status
}

func (g *GameState) Reveal(p Point) (MoveResult, error) {
	if !g.InBounds(p) {
		return MoveResult{Status: g.Status}, fmt.Errorf("%w: %s", ErrOutOfBounds, p)
	}
	c := g.Board.At(p)
	if g.Status != Playing || c.Revealed || c.Flagged {
		return MoveResult{Status: g.Status}, nil
	}

	if err := g.placeMines(p); err != nil {
		return MoveResult{Status: g.Status}, err
	}

	g.Status = g.Board.Reveal(p, g.Status)
	if g.Status == Lost {
		g.Exploded = &p
	}
	g.finish()

	return MoveResult{Changed: true, Status: g.Status}, nil
}

// ToggleFlag flags or unflags a hidden cell. Like a reveal, the first
// flag of a game places the mines, so the flagged cell and its
// neighbors are guaranteed to be safe.
func (g *GameState) ToggleFlag(p Point) (MoveResult, error) {
	if !g.InBounds(p) {
		return MoveResult{Status: g.Status}, fmt.Errorf("%w: %s", ErrOutOfBounds, p)
	}

	prev := g.FlagCount
	g.FlagCount = g.Board.ToggleFlag(p, g.Status, g.FlagCount, g.Settings.Mines)
	if g.FlagCount == prev {
		return MoveResult{Status: g.Status}, nil
	}

	if err := g.placeMines(p); err != nil {
		return MoveResult{Status: g.Status}, err
	}

	return MoveResult{Changed: true, Status: g.Status}, nil
}

// Reset starts over with an empty board of the same size.
func (g *GameState) Reset(seed [2]uint64) error {
	board, err := NewBoard(g.Settings.Rows, g.Settings.Cols)
	if err != nil {
		return err
	}
	*g = GameState{
		Board:    board,
		Settings: g.Settings,
		Seed:     seed,
		now:      g.now,
	}
	return nil
}

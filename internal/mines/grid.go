package mines

import (
	"fmt"
	"strconv"
	"strings"
)

type CellState int8

const (
	Hidden           CellState = -2
	Flagged          CellState = -1
	Mine             CellState = 64
	ExplodedMine     CellState = 65
	CorrectlyFlagged CellState = 66
	FalselyFlagged   CellState = 67
	/*
	 * 0 to 8 mean the cell is open and has that many mined neighbors.
	 *
	 * Mine, ExplodedMine, CorrectlyFlagged and FalselyFlagged only show up
	 * once the game is over.
	 */
)

func (s CellState) String() string {
	switch {
	case s == Hidden:
		return "-"
	case s == Flagged || s == CorrectlyFlagged:
		return "F"
	case s == FalselyFlagged:
		return "x"
	case s == Mine:
		return "*"
	case s == ExplodedMine:
		return "X"
	case s == 0:
		return "."
	case 0 < s && s <= 8:
		return strconv.Itoa(int(s))
	default:
		return "!"
	}
}

// Grid is what the player is allowed to see, row-major.
type Grid []CellState

func (g Grid) ToString(cols int) string {
	var b strings.Builder
	for row := range len(g) / cols {
		for col := range cols {
			i := row*cols + col
			if col > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprint(&b, g[i].String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func (g *GameState) cellState(i int) CellState {
	c := g.Board.Cells[i]
	over := g.Status.Over()
	switch {
	case c.Mine && g.Exploded != nil && g.Board.index(*g.Exploded) == i:
		return ExplodedMine
	case c.Flagged && over && c.Mine:
		return CorrectlyFlagged
	case c.Flagged && over:
		return FalselyFlagged
	case c.Flagged:
		return Flagged
	case c.Mine && (c.Revealed || g.Status == Won):
		return Mine
	case c.Revealed:
		return CellState(c.AdjacentMines)
	default:
		return Hidden
	}
}

func (g *GameState) PlayerGrid() Grid {
	grid := make(Grid, len(g.Board.Cells))
	for i := range grid {
		grid[i] = g.cellState(i)
	}
	return grid
}

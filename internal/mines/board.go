package mines

import "fmt"

type Cell struct {
	Mine          bool
	Revealed      bool
	Flagged       bool
	AdjacentMines int
}

type Point struct {
	Row, Col int
}

func (p Point) String() string {
	return fmt.Sprintf("%d:%d", p.Row, p.Col)
}

// Board is a rows x cols grid stored row-major. Adjacency counts are only
// meaningful once Placed is set.
type Board struct {
	Rows, Cols int
	Cells      []Cell
	MineCount  int
	Placed     bool
}

func NewBoard(rows, cols int) (*Board, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, rows, cols)
	}
	b := &Board{
		Rows:  rows,
		Cols:  cols,
		Cells: make([]Cell, rows*cols),
	}
	return b, nil
}

func (b *Board) Clone() *Board {
	c := *b
	c.Cells = make([]Cell, len(b.Cells))
	copy(c.Cells, b.Cells)
	return &c
}

func (b *Board) InBounds(p Point) bool {
	return 0 <= p.Row && p.Row < b.Rows && 0 <= p.Col && p.Col < b.Cols
}

func (b *Board) index(p Point) int {
	return p.Row*b.Cols + p.Col
}

func (b *Board) point(i int) Point {
	return Point{Row: i / b.Cols, Col: i % b.Cols}
}

// At returns a pointer into the board; p must be in bounds.
func (b *Board) At(p Point) *Cell {
	return &b.Cells[b.index(p)]
}

// neighbors appends the in-bounds neighbors of p (excluding p) to dst.
func (b *Board) neighbors(dst []Point, p Point) []Point {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			n := Point{Row: p.Row + dr, Col: p.Col + dc}
			if b.InBounds(n) {
				dst = append(dst, n)
			}
		}
	}
	return dst
}

func (b *Board) Neighbors(p Point) []Point {
	return b.neighbors(make([]Point, 0, 8), p)
}

func (b *Board) countAdjacent(p Point) (n int) {
	var buf [8]Point
	for _, q := range b.neighbors(buf[:0], p) {
		if b.At(q).Mine {
			n++
		}
	}
	return
}

func (b *Board) RevealedCount() (n int) {
	for _, c := range b.Cells {
		if c.Revealed {
			n++
		}
	}
	return
}

func (b *Board) FlagCount() (n int) {
	for _, c := range b.Cells {
		if c.Flagged {
			n++
		}
	}
	return
}

func (b *Board) Mines() []Point {
	mines := make([]Point, 0, b.MineCount)
	for i, c := range b.Cells {
		if c.Mine {
			mines = append(mines, b.point(i))
		}
	}
	return mines
}

func (b *Board) SafeCells() int {
	return b.Rows*b.Cols - b.MineCount
}

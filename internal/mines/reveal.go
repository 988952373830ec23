package mines

import "github.com/zyedidia/generic/stack"

// Reveal opens the cell at p and returns the resulting status. Opening a
// zero cell flood-fills its connected zero region and the numbered cells
// bordering it; flagged cells stop the fill and stay flagged.
//
// Nothing happens unless status is Playing and the cell is in bounds,
// hidden and not flagged.
func (b *Board) Reveal(p Point, status Status) Status {
	if status != Playing || !b.InBounds(p) {
		return status
	}
	c := b.At(p)
	if c.Revealed || c.Flagged {
		return status
	}

	c.Revealed = true
	if c.Mine {
		b.RevealMines()
		return Lost
	}

	if c.AdjacentMines == 0 {
		b.floodFill(p)
	}

	if b.RevealedCount() == b.SafeCells() {
		return Won
	}
	return status
}

func (b *Board) floodFill(start Point) {
	var buf [8]Point

	todo := stack.New[Point]()
	todo.Push(start)
	for todo.Size() > 0 {
		p := todo.Pop()
		for _, q := range b.neighbors(buf[:0], p) {
			c := b.At(q)
			if c.Revealed || c.Flagged {
				continue
			}
			c.Revealed = true
			if c.AdjacentMines == 0 {
				todo.Push(q)
			}
		}
	}
}

// RevealMines opens every mine. Safe cells are left as they are.
func (b *Board) RevealMines() {
	for i := range b.Cells {
		if b.Cells[i].Mine {
			b.Cells[i].Revealed = true
		}
	}
}

// ToggleFlag flags or unflags a hidden cell and returns the new flag
// count. A new flag is refused once flagCount reaches maxFlags.
func (b *Board) ToggleFlag(p Point, status Status, flagCount, maxFlags int) int {
	if status != Playing || !b.InBounds(p) {
		return flagCount
	}
	c := b.At(p)
	if c.Revealed {
		return flagCount
	}
	if c.Flagged {
		c.Flagged = false
		return flagCount - 1
	}
	if flagCount >= maxFlags {
		return flagCount
	}
	c.Flagged = true
	return flagCount + 1
}

package mines

import (
	"fmt"
	"math/rand/v2"

	"github.com/zyedidia/generic/mapset"
)

// Rejection sampling gives up after maxSamplesPerCell*rows*cols draws and
// picks the remaining mines off the list of eligible cells.
var maxSamplesPerCell = 64

// exclusionZone is the anchor and its in-bounds neighbors.
func exclusionZone(b *Board, anchor Point) mapset.Set[Point] {
	zone := mapset.New[Point]()
	zone.Put(anchor)
	for _, p := range b.Neighbors(anchor) {
		zone.Put(p)
	}
	return zone
}

// Capacity is the number of cells that may hold a mine when the first
// move is made at anchor.
func Capacity(rows, cols int, anchor Point) int {
	zr := min(anchor.Row+1, rows-1) - max(anchor.Row-1, 0) + 1
	zc := min(anchor.Col+1, cols-1) - max(anchor.Col-1, 0) + 1
	return rows*cols - zr*zc
}

// PlaceMines returns a copy of b with mines scattered uniformly at random
// outside the anchor cell and its neighbors, and with adjacency counts
// computed for every safe cell. b itself is left untouched.
func PlaceMines(b *Board, anchor Point, mines int, r *rand.Rand) (*Board, error) {
	if b.Placed {
		return nil, ErrMinesAlreadyPlaced
	}
	if !b.InBounds(anchor) {
		return nil, fmt.Errorf(
			"%w: anchor %s on a %dx%d board", ErrOutOfBounds, anchor, b.Rows, b.Cols,
		)
	}

	zone := exclusionZone(b, anchor)
	capacity := b.Rows*b.Cols - zone.Size()
	if mines < 0 || mines > capacity {
		return nil, fmt.Errorf(
			"%w: %d mines requested, %d cells available", ErrTooManyMines, mines, capacity,
		)
	}

	next := b.Clone()

	placed := 0
	for budget := maxSamplesPerCell * b.Rows * b.Cols; placed < mines && budget > 0; budget-- {
		p := Point{Row: r.IntN(b.Rows), Col: r.IntN(b.Cols)}
		if zone.Has(p) {
			continue
		}
		c := next.At(p)
		if c.Mine {
			continue
		}
		c.Mine = true
		placed++
	}

	if placed < mines {
		candidates := make([]int, 0, capacity-placed)
		for i := range next.Cells {
			if !next.Cells[i].Mine && !zone.Has(next.point(i)) {
				candidates = append(candidates, i)
			}
		}
		k := len(candidates)
		for ; placed < mines; placed++ {
			i := r.IntN(k)
			next.Cells[candidates[i]].Mine = true
			k--
			candidates[i] = candidates[k]
		}
	}

	next.MineCount = mines
	next.Placed = true
	for i := range next.Cells {
		if !next.Cells[i].Mine {
			next.Cells[i].AdjacentMines = next.countAdjacent(next.point(i))
		}
	}

	return next, nil
}

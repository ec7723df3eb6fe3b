// Package spatial provides a uniform grid for broad-phase pair pruning.
// Items are tracked by bounding box over a fixed world rectangle; queries
// answer which items could interact without examining every pair.
package spatial

import (
	"math"
	"sort"

	"github.com/hexopus/boxtop/internal/phys"
)

// Grid is a uniform spatial grid. An item occupies every cell its box
// touches, including cells it only borders, so lookups err on the side of
// returning too much rather than too little. Boxes outside the world
// rectangle clamp to the edge cells.
//
// Cell size should be on the order of the largest item; much smaller cells
// make wide items expensive to insert.
type Grid struct {
	bounds  phys.AABB
	cell    float64
	invCell float64
	cols    int
	rows    int

	cells [][]int       // row-major item lists
	items map[int][]int // item id to occupied cell indices, ascending
}

// NewGrid returns a grid covering bounds with square cells of the given
// size. The last row and column absorb any remainder.
func NewGrid(bounds phys.AABB, cellSize float64) *Grid {
	if cellSize <= 0 || math.IsNaN(cellSize) {
		panic("spatial: cell size must be positive")
	}
	cols := int(math.Ceil((bounds.Max.X - bounds.Min.X) / cellSize))
	rows := int(math.Ceil((bounds.Max.Y - bounds.Min.Y) / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	return &Grid{
		bounds:  bounds,
		cell:    cellSize,
		invCell: 1 / cellSize,
		cols:    cols,
		rows:    rows,
		cells:   make([][]int, cols*rows),
		items:   make(map[int][]int),
	}
}

// Len returns the number of items in the grid.
func (g *Grid) Len() int { return len(g.items) }

// Insert places id with the given box, replacing any previous placement.
func (g *Grid) Insert(id int, box phys.AABB) {
	g.Remove(id)
	c0, r0, c1, r1 := g.cellRange(box)
	occupied := make([]int, 0, (c1-c0+1)*(r1-r0+1))
	for r := r0; r <= r1; r++ {
		base := r * g.cols
		for c := c0; c <= c1; c++ {
			idx := base + c
			g.cells[idx] = append(g.cells[idx], id)
			occupied = append(occupied, idx)
		}
	}
	g.items[id] = occupied
}

// Update reinserts id with a new box.
func (g *Grid) Update(id int, box phys.AABB) {
	g.Insert(id, box)
}

// Remove deletes id from the grid, reporting whether it was present.
func (g *Grid) Remove(id int) bool {
	occupied, ok := g.items[id]
	if !ok {
		return false
	}
	for _, idx := range occupied {
		cell := g.cells[idx]
		for i, other := range cell {
			if other == id {
				g.cells[idx] = append(cell[:i], cell[i+1:]...)
				break
			}
		}
	}
	delete(g.items, id)
	return true
}

// Near returns the ids sharing at least one cell with id, in ascending
// order. id itself is not included; an unknown id yields nil.
func (g *Grid) Near(id int) []int {
	occupied, ok := g.items[id]
	if !ok {
		return nil
	}
	var near []int
	seen := map[int]struct{}{id: {}}
	for _, idx := range occupied {
		for _, other := range g.cells[idx] {
			if _, dup := seen[other]; dup {
				continue
			}
			seen[other] = struct{}{}
			near = append(near, other)
		}
	}
	sort.Ints(near)
	return near
}

// Query calls fn once for each distinct id whose cells intersect box, in
// grid scan order. fn returning true stops the walk early.
func (g *Grid) Query(box phys.AABB, fn func(id int) bool) {
	c0, r0, c1, r1 := g.cellRange(box)
	seen := make(map[int]struct{})
	for r := r0; r <= r1; r++ {
		base := r * g.cols
		for c := c0; c <= c1; c++ {
			for _, id := range g.cells[base+c] {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				if fn(id) {
					return
				}
			}
		}
	}
}

// SharesCell reports whether a and b occupy at least one common cell.
func (g *Grid) SharesCell(a, b int) bool {
	ca, ok := g.items[a]
	if !ok {
		return false
	}
	cb, ok := g.items[b]
	if !ok {
		return false
	}
	// Both lists ascend; walk them together.
	i, j := 0, 0
	for i < len(ca) && j < len(cb) {
		switch {
		case ca[i] == cb[j]:
			return true
		case ca[i] < cb[j]:
			i++
		default:
			j++
		}
	}
	return false
}

// cellRange returns the inclusive cell rectangle covered by box, clamped to
// the grid.
func (g *Grid) cellRange(box phys.AABB) (c0, r0, c1, r1 int) {
	c0 = g.clampCol(math.Floor((box.Min.X - g.bounds.Min.X) * g.invCell))
	c1 = g.clampCol(math.Floor((box.Max.X - g.bounds.Min.X) * g.invCell))
	r0 = g.clampRow(math.Floor((box.Min.Y - g.bounds.Min.Y) * g.invCell))
	r1 = g.clampRow(math.Floor((box.Max.Y - g.bounds.Min.Y) * g.invCell))
	return c0, r0, c1, r1
}

func (g *Grid) clampCol(c float64) int {
	if c < 0 {
		return 0
	}
	if c >= float64(g.cols) {
		return g.cols - 1
	}
	return int(c)
}

func (g *Grid) clampRow(r float64) int {
	if r < 0 {
		return 0
	}
	if r >= float64(g.rows) {
		return g.rows - 1
	}
	return int(r)
}

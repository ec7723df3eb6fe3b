package phys

import "fmt"

// A Line is one solid axis-aligned segment of a shape: its position on the
// axis perpendicular to the line and its two endpoints on the parallel axis.
// P0 <= P1 always holds; construction normalizes the order. A degenerate
// line with P0 == P1 is legal and never collides.
type Line struct {
	Perp   float64
	P0, P1 float64
}

// LineSpec describes one line for NewShape.
type LineSpec struct {
	Dir    Direction
	Perp   float64
	P0, P1 float64
}

// Shape is a set of solid axis-aligned lines grouped by direction. Line
// storage is stable: the handler references lines by (body, direction,
// index) and every reference observes in-place moves. A shape with no lines
// is legal and never collides.
type Shape struct {
	owner *Body
	lines [4][]Line
}

// NewShape builds a shape from the given lines.
func NewShape(specs ...LineSpec) *Shape {
	s := &Shape{}
	for _, sp := range specs {
		s.addLine(sp.Dir, sp.Perp, sp.P0, sp.P1)
	}
	return s
}

func (s *Shape) addLine(d Direction, perp, p0, p1 float64) {
	if !d.valid() {
		panic(fmt.Sprintf("phys: invalid direction %d", int(d)))
	}
	if p1 < p0 {
		p0, p1 = p1, p0
	}
	s.lines[d] = append(s.lines[d], Line{Perp: perp, P0: p0, P1: p1})
}

// shape makes Shape (and every type embedding it) satisfy Shaper.
func (s *Shape) shape() *Shape { return s }

// Lines returns the shape's lines of direction d. The slice is the shape's
// own storage: values change as the shape moves, and callers must not grow
// it.
func (s *Shape) Lines(d Direction) []Line {
	if !d.valid() {
		panic(fmt.Sprintf("phys: invalid direction %d", int(d)))
	}
	return s.lines[d]
}

// Owner returns the body this shape is bound to, or nil.
func (s *Shape) Owner() *Body { return s.owner }

// Move translates every line in place. References into the shape's line
// storage observe the move. Translating between updates is allowed; the
// touching relation catches up on the next update.
func (s *Shape) Move(dx, dy float64) {
	for d := range s.lines {
		perp, para := dx, dy
		if d%2 == 1 {
			perp, para = dy, dx
		}
		ls := s.lines[d]
		for i := range ls {
			ls[i].Perp += perp
			ls[i].P0 += para
			ls[i].P1 += para
		}
	}
}

func (s *Shape) hasLines() bool {
	for d := range s.lines {
		if len(s.lines[d]) > 0 {
			return true
		}
	}
	return false
}

// Bounds returns the bounding box over all lines. A shape with no lines
// returns the zero box.
func (s *Shape) Bounds() AABB {
	var b AABB
	first := true
	for d := range s.lines {
		for _, l := range s.lines[d] {
			lo := Vec{l.Perp, l.P0}
			hi := Vec{l.Perp, l.P1}
			if d%2 == 1 {
				lo = Vec{l.P0, l.Perp}
				hi = Vec{l.P1, l.Perp}
			}
			if first {
				b = AABB{Min: lo, Max: hi}
				first = false
				continue
			}
			if lo.X < b.Min.X {
				b.Min.X = lo.X
			}
			if lo.Y < b.Min.Y {
				b.Min.Y = lo.Y
			}
			if hi.X > b.Max.X {
				b.Max.X = hi.X
			}
			if hi.Y > b.Max.Y {
				b.Max.Y = hi.Y
			}
		}
	}
	return b
}

package phys

// Shaper is any value backed by a Shape: Shape itself and the derived shape
// types. Body constructors accept a Shaper so callers can pass a Rect,
// Segment or HalfLine directly.
type Shaper interface {
	shape() *Shape
}

// Segment is a line solid on both sides, stored as two coincident lines in
// opposite buckets. Bodies can hit it from either face.
type Segment struct {
	Shape
	horizontal bool
}

// NewSegmentH returns a horizontal segment at height y spanning x0..x1.
func NewSegmentH(y, x0, x1 float64) *Segment {
	s := &Segment{horizontal: true}
	s.addLine(DirBottom, y, x0, x1)
	s.addLine(DirTop, y, x0, x1)
	return s
}

// NewSegmentV returns a vertical segment at x spanning y0..y1.
func NewSegmentV(x, y0, y1 float64) *Segment {
	s := &Segment{}
	s.addLine(DirLeft, x, y0, y1)
	s.addLine(DirRight, x, y0, y1)
	return s
}

func (s *Segment) line() Line {
	if s.horizontal {
		return s.lines[DirBottom][0]
	}
	return s.lines[DirLeft][0]
}

// A returns the endpoint with the smaller parallel coordinate.
func (s *Segment) A() Vec {
	l := s.line()
	if s.horizontal {
		return Vec{l.P0, l.Perp}
	}
	return Vec{l.Perp, l.P0}
}

// B returns the endpoint with the larger parallel coordinate.
func (s *Segment) B() Vec {
	l := s.line()
	if s.horizontal {
		return Vec{l.P1, l.Perp}
	}
	return Vec{l.Perp, l.P1}
}

// Length returns the segment's length.
func (s *Segment) Length() float64 {
	l := s.line()
	return l.P1 - l.P0
}

// HalfLine is a line solid on one side only, e.g. a platform that is stood
// on from above but jumped through from below.
type HalfLine struct {
	Shape
	dir Direction
}

// NewHalfLine returns a one-sided line whose solid side faces d. perp is the
// position on d's axis, p0..p1 the span on the other axis.
func NewHalfLine(d Direction, perp, p0, p1 float64) *HalfLine {
	h := &HalfLine{dir: d}
	h.addLine(d, perp, p0, p1)
	return h
}

// Dir returns the direction the solid side faces.
func (h *HalfLine) Dir() Direction { return h.dir }

// A returns the endpoint with the smaller parallel coordinate.
func (h *HalfLine) A() Vec {
	l := h.lines[h.dir][0]
	if h.dir.Axis() == 0 {
		return Vec{l.Perp, l.P0}
	}
	return Vec{l.P0, l.Perp}
}

// B returns the endpoint with the larger parallel coordinate.
func (h *HalfLine) B() Vec {
	l := h.lines[h.dir][0]
	if h.dir.Axis() == 0 {
		return Vec{l.Perp, l.P1}
	}
	return Vec{l.P1, l.Perp}
}

// Length returns the half-line's length.
func (h *HalfLine) Length() float64 {
	l := h.lines[h.dir][0]
	return l.P1 - l.P0
}

// Rect is a solid axis-aligned rectangle: four lines facing outward.
type Rect struct {
	Shape
}

// NewRect returns a rectangle spanning x0..x1 and y0..y1. Corner order does
// not matter.
func NewRect(x0, y0, x1, y1 float64) *Rect {
	if x1 < x0 {
		x0, x1 = x1, x0
	}
	if y1 < y0 {
		y0, y1 = y1, y0
	}
	r := &Rect{}
	r.addLine(DirLeft, x0, y0, y1)
	r.addLine(DirBottom, y0, x0, x1)
	r.addLine(DirRight, x1, y0, y1)
	r.addLine(DirTop, y1, x0, x1)
	return r
}

// Side returns the perpendicular position of the side facing d.
func (r *Rect) Side(d Direction) float64 {
	if !d.valid() {
		panic("phys: invalid direction")
	}
	return r.lines[d][0].Perp
}

// Left returns the x position of the left side.
func (r *Rect) Left() float64 { return r.Side(DirLeft) }

// Right returns the x position of the right side.
func (r *Rect) Right() float64 { return r.Side(DirRight) }

// Bottom returns the y position of the bottom side.
func (r *Rect) Bottom() float64 { return r.Side(DirBottom) }

// Top returns the y position of the top side.
func (r *Rect) Top() float64 { return r.Side(DirTop) }

// Width returns the rectangle's width.
func (r *Rect) Width() float64 { return r.Right() - r.Left() }

// Height returns the rectangle's height.
func (r *Rect) Height() float64 { return r.Top() - r.Bottom() }

// Area returns the rectangle's area.
func (r *Rect) Area() float64 { return r.Width() * r.Height() }

// Center returns the rectangle's center point.
func (r *Rect) Center() Vec {
	return Vec{(r.Left() + r.Right()) / 2, (r.Bottom() + r.Top()) / 2}
}

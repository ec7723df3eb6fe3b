// Package phys implements exact, axis-aligned 2D collision detection and
// response for bodies whose shapes are built from solid line segments.
// Motion is resolved continuously: each update finds the earliest crossing
// within the frame, advances every moving body to that instant, applies the
// collision response and repeats until the frame is consumed. Geometry
// comparisons are exact float64 comparisons; the only tolerance is the
// caller-chosen contact tolerance of the touching relation.
//
// The y axis grows upward. Hosts that rasterize top-down flip at render time.
package phys

// Vec is a 2D vector.
type Vec struct {
	X, Y float64
}

// Add returns v + o.
func (v Vec) Add(o Vec) Vec {
	return Vec{v.X + o.X, v.Y + o.Y}
}

// Scale returns v scaled by s.
func (v Vec) Scale(s float64) Vec {
	return Vec{v.X * s, v.Y * s}
}

// IsZero reports whether both components are zero.
func (v Vec) IsZero() bool {
	return v.X == 0 && v.Y == 0
}

// axis returns the component on axis n (0 = x, 1 = y).
func (v Vec) axis(n int) float64 {
	if n == 0 {
		return v.X
	}
	return v.Y
}

// setAxis sets the component on axis n.
func (v *Vec) setAxis(n int, x float64) {
	if n == 0 {
		v.X = x
	} else {
		v.Y = x
	}
}

// Direction identifies which side of a line is solid. Even directions are
// perpendicular to the x axis (vertical lines), odd ones to the y axis
// (horizontal lines). Lines collide only with lines of the opposite
// direction, approached from the solid side.
type Direction int

const (
	DirLeft   Direction = iota // solid side faces -x
	DirBottom                  // solid side faces -y
	DirRight                   // solid side faces +x
	DirTop                     // solid side faces +y
)

var dirNames = [4]string{"left", "bottom", "right", "top"}

// Axis returns the axis a line of this direction collides along
// (0 = x, 1 = y).
func (d Direction) Axis() int {
	return int(d) % 2
}

// Opposite returns the direction whose lines d's lines collide with.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// Sign returns the outward normal sign: -1 for left/bottom, +1 for
// right/top.
func (d Direction) Sign() float64 {
	if d < 2 {
		return -1
	}
	return 1
}

func (d Direction) valid() bool {
	return d >= 0 && d < 4
}

func (d Direction) String() string {
	if !d.valid() {
		return "invalid"
	}
	return dirNames[d]
}

// AABB is an axis-aligned bounding box.
type AABB struct {
	Min, Max Vec
}

// Overlaps reports whether the boxes overlap with positive area. Boxes that
// merely touch do not overlap.
func (b AABB) Overlaps(o AABB) bool {
	return b.Min.X < o.Max.X && o.Min.X < b.Max.X &&
		b.Min.Y < o.Max.Y && o.Min.Y < b.Max.Y
}

// Expand grows the box to cover a translation by v: negative components
// extend Min, positive ones extend Max. Used to build swept bounds for
// broad-phase filtering.
func (b AABB) Expand(v Vec) AABB {
	if v.X < 0 {
		b.Min.X += v.X
	} else {
		b.Max.X += v.X
	}
	if v.Y < 0 {
		b.Min.Y += v.Y
	} else {
		b.Max.Y += v.Y
	}
	return b
}

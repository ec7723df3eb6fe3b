package phys

import "math"

// Infinite is the mass of a moving body that never responds to impacts. Such
// a body is advanced by its velocity like any other mover, which makes it
// useful for externally steered bodies like player paddles.
var Infinite = math.Inf(1)

// Body binds a shape to material and motion state. Static bodies never move;
// moving bodies are advanced by the handler each update.
type Body struct {
	shape  *Shape
	moving bool
	mass   float64

	// Vel is the body's velocity in units per update. Collision responses
	// overwrite it; assign a new value to steer the body. Meaningless for
	// static bodies.
	Vel Vec

	// Elasticity scales how much perpendicular speed survives a bounce. The
	// effective value for a pair is the product of both bodies' values: 1 is
	// perfectly elastic, 0 perfectly inelastic, above 1 adds energy.
	Elasticity float64

	// Friction scales how much relative parallel speed a collision removes;
	// pairwise product, 0 disables the tangential response entirely.
	Friction float64
}

// NewStatic returns a body that never moves.
func NewStatic(sh Shaper, elasticity, friction float64) *Body {
	b := &Body{Elasticity: elasticity, Friction: friction}
	b.validateMaterial()
	b.bind(sh)
	return b
}

// NewBody returns a moving body. mass must be positive; Infinite is allowed
// and makes the body move without ever responding to impacts.
func NewBody(mass float64, sh Shaper, vel Vec, elasticity, friction float64) *Body {
	if math.IsNaN(mass) || mass <= 0 {
		panic("phys: mass must be positive")
	}
	b := &Body{
		moving:     true,
		mass:       mass,
		Vel:        vel,
		Elasticity: elasticity,
		Friction:   friction,
	}
	b.validateMaterial()
	b.bind(sh)
	return b
}

func (b *Body) validateMaterial() {
	if b.Elasticity < 0 || math.IsNaN(b.Elasticity) {
		panic("phys: elasticity must be non-negative")
	}
	if b.Friction < 0 || math.IsNaN(b.Friction) {
		panic("phys: friction must be non-negative")
	}
}

// bind takes exclusive ownership of the shape. A shape belongs to at most
// one body.
func (b *Body) bind(sh Shaper) {
	s := sh.shape()
	if s.owner != nil {
		panic("phys: shape is already bound to a body")
	}
	s.owner = b
	b.shape = s
}

// Shape returns the body's shape.
func (b *Body) Shape() *Shape { return b.shape }

// Static reports whether the body never moves.
func (b *Body) Static() bool { return !b.moving }

// Mass returns the body's mass. Static bodies report Infinite.
func (b *Body) Mass() float64 {
	if !b.moving {
		return Infinite
	}
	return b.mass
}

// Immovable reports whether the body never responds to impacts: static, or
// moving with infinite mass.
func (b *Body) Immovable() bool {
	return !b.moving || math.IsInf(b.mass, 1)
}

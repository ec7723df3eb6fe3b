// Package scene loads YAML world descriptors and builds them into bodies
// registered with a collision handler. Scenes are used as game arenas and as
// inputs to the headless sim command.
package scene

import (
	"fmt"
	"math"

	"gopkg.in/yaml.v3"

	"github.com/hexopus/boxtop/internal/phys"
)

// Scene describes a world: its extent, per-frame gravity, handler tolerance
// and the bodies in it.
type Scene struct {
	Name      string     `yaml:"name"`
	Size      Size       `yaml:"size"`
	Gravity   float64    `yaml:"gravity"`   // Per-frame velocity increment, negative points down
	Tolerance float64    `yaml:"tolerance"` // Handler contact tolerance
	Bodies    []BodySpec `yaml:"bodies"`
}

// Size is the world extent in cells.
type Size struct {
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

// BodySpec describes one body. Kind selects the shape: "rect" uses the Rect
// field, "segment" uses Axis+At+Span, "halfline" uses Dir+At+Span. Mass zero
// or omitted makes the body static, "inf" a mover that never responds.
type BodySpec struct {
	Kind       string    `yaml:"kind"`
	Rect       *RectSpec `yaml:"rect"`
	Dir        string    `yaml:"dir"`  // halfline: left | bottom | right | top
	Axis       string    `yaml:"axis"` // segment: h | v
	At         float64   `yaml:"at"`   // segment/halfline fixed coordinate
	Span       *SpanSpec `yaml:"span"` // segment/halfline extent
	Mass       Mass      `yaml:"mass"`
	Vel        phys.Vec  `yaml:"vel"`
	Elasticity float64   `yaml:"elasticity"`
	Friction   float64   `yaml:"friction"`
	Tags       []string  `yaml:"tags"`
}

// RectSpec is an axis-aligned rectangle given by two opposite corners.
type RectSpec struct {
	X0 float64 `yaml:"x0"`
	Y0 float64 `yaml:"y0"`
	X1 float64 `yaml:"x1"`
	Y1 float64 `yaml:"y1"`
}

// SpanSpec is the extent of a line shape along its axis.
type SpanSpec struct {
	From float64 `yaml:"from"`
	To   float64 `yaml:"to"`
}

// Mass is a body mass. YAML accepts a number or the string "inf".
type Mass float64

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *Mass) UnmarshalYAML(value *yaml.Node) error {
	var f float64
	if err := value.Decode(&f); err == nil {
		*m = Mass(f)
		return nil
	}
	var s string
	if err := value.Decode(&s); err == nil && (s == "inf" || s == "Inf") {
		*m = Mass(math.Inf(1))
		return nil
	}
	return fmt.Errorf("mass must be a number or \"inf\", got %q", value.Value)
}

// Parse decodes and validates a scene document.
func Parse(data []byte) (*Scene, error) {
	s, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	return s, nil
}

func parse(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, err
	}
	if err := s.validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks a scene for structural errors without building it.
func (s *Scene) Validate() error {
	if err := s.validate(); err != nil {
		return fmt.Errorf("scene: %w", err)
	}
	return nil
}

func (s *Scene) validate() error {
	if s.Name == "" {
		return fmt.Errorf("missing name")
	}
	if !(s.Size.W > 0) || !(s.Size.H > 0) {
		return fmt.Errorf("%s: size must be positive, got %gx%g", s.Name, s.Size.W, s.Size.H)
	}
	if math.IsNaN(s.Gravity) {
		return fmt.Errorf("%s: gravity is not a number", s.Name)
	}
	if math.IsNaN(s.Tolerance) || s.Tolerance < 0 {
		return fmt.Errorf("%s: tolerance must be non-negative", s.Name)
	}
	for i := range s.Bodies {
		if err := s.Bodies[i].validate(); err != nil {
			return fmt.Errorf("%s: body %d: %w", s.Name, i, err)
		}
	}
	return nil
}

func (b *BodySpec) validate() error {
	switch b.Kind {
	case "rect":
		if b.Rect == nil {
			return fmt.Errorf("rect body needs a rect")
		}
		r := b.Rect
		for _, v := range []float64{r.X0, r.Y0, r.X1, r.Y1} {
			if math.IsNaN(v) {
				return fmt.Errorf("rect corner is not a number")
			}
		}
		if r.X0 == r.X1 || r.Y0 == r.Y1 {
			return fmt.Errorf("rect has zero area")
		}
	case "segment":
		if b.Axis != "h" && b.Axis != "v" {
			return fmt.Errorf("segment axis must be \"h\" or \"v\", got %q", b.Axis)
		}
		if err := b.validateSpan(); err != nil {
			return err
		}
	case "halfline":
		if _, ok := parseDir(b.Dir); !ok {
			return fmt.Errorf("halfline dir must be left, bottom, right or top, got %q", b.Dir)
		}
		if err := b.validateSpan(); err != nil {
			return err
		}
	case "":
		return fmt.Errorf("missing kind")
	default:
		return fmt.Errorf("unknown kind %q", b.Kind)
	}

	m := float64(b.Mass)
	if math.IsNaN(m) || m < 0 {
		return fmt.Errorf("mass must be non-negative or \"inf\"")
	}
	if m == 0 && !b.Vel.IsZero() {
		return fmt.Errorf("static body cannot have a velocity")
	}
	if math.IsNaN(b.Vel.X) || math.IsNaN(b.Vel.Y) {
		return fmt.Errorf("velocity is not a number")
	}
	if math.IsNaN(b.Elasticity) || b.Elasticity < 0 {
		return fmt.Errorf("elasticity must be non-negative")
	}
	if math.IsNaN(b.Friction) || b.Friction < 0 {
		return fmt.Errorf("friction must be non-negative")
	}
	return nil
}

func (b *BodySpec) validateSpan() error {
	if b.Span == nil {
		return fmt.Errorf("%s body needs a span", b.Kind)
	}
	if math.IsNaN(b.At) || math.IsNaN(b.Span.From) || math.IsNaN(b.Span.To) {
		return fmt.Errorf("%s coordinates are not numbers", b.Kind)
	}
	if b.Span.From == b.Span.To {
		return fmt.Errorf("%s span has zero length", b.Kind)
	}
	return nil
}

func parseDir(s string) (phys.Direction, bool) {
	switch s {
	case "left":
		return phys.DirLeft, true
	case "bottom":
		return phys.DirBottom, true
	case "right":
		return phys.DirRight, true
	case "top":
		return phys.DirTop, true
	}
	return 0, false
}

// World is a built scene: its bodies registered with a live handler, plus a
// tag index for host lookups.
type World struct {
	Scene   *Scene
	Handler *phys.Handler

	tags map[string][]*phys.Body
}

// Build constructs the scene's bodies and a handler over them. Initial
// overlaps between bodies are pushed apart; if that fails the scene is
// rejected.
func (s *Scene) Build() (*World, error) {
	if err := s.validate(); err != nil {
		return nil, fmt.Errorf("scene: %w", err)
	}
	bodies := make([]*phys.Body, 0, len(s.Bodies))
	tags := make(map[string][]*phys.Body)
	for i := range s.Bodies {
		b := s.Bodies[i].build()
		bodies = append(bodies, b)
		for _, tag := range s.Bodies[i].Tags {
			tags[tag] = append(tags[tag], b)
		}
	}
	h := phys.NewHandler(bodies, s.Tolerance)
	if !h.Reinit() {
		return nil, fmt.Errorf("scene: %s: initial overlaps cannot be separated", s.Name)
	}
	return &World{Scene: s, Handler: h, tags: tags}, nil
}

// build constructs the body for a validated spec.
func (b *BodySpec) build() *phys.Body {
	var sh phys.Shaper
	switch b.Kind {
	case "rect":
		sh = phys.NewRect(b.Rect.X0, b.Rect.Y0, b.Rect.X1, b.Rect.Y1)
	case "segment":
		if b.Axis == "h" {
			sh = phys.NewSegmentH(b.At, b.Span.From, b.Span.To)
		} else {
			sh = phys.NewSegmentV(b.At, b.Span.From, b.Span.To)
		}
	case "halfline":
		d, _ := parseDir(b.Dir)
		sh = phys.NewHalfLine(d, b.At, b.Span.From, b.Span.To)
	}
	if float64(b.Mass) == 0 {
		return phys.NewStatic(sh, b.Elasticity, b.Friction)
	}
	return phys.NewBody(float64(b.Mass), sh, b.Vel, b.Elasticity, b.Friction)
}

// Tagged returns the bodies carrying a tag, in scene order. Treat the slice
// as read-only.
func (w *World) Tagged(tag string) []*phys.Body {
	return w.tags[tag]
}

// First returns the first body carrying a tag, or nil.
func (w *World) First(tag string) *phys.Body {
	bs := w.tags[tag]
	if len(bs) == 0 {
		return nil
	}
	return bs[0]
}

// ApplyGravity adds the scene's gravity to the vertical velocity of every
// finite-mass moving body. Call once per frame before Update.
func (w *World) ApplyGravity() {
	for _, b := range w.Handler.Bodies() {
		if b.Immovable() {
			continue
		}
		b.Vel.Y += w.Scene.Gravity
	}
}

// Step advances the world one frame: gravity, then collision resolution.
func (w *World) Step() {
	w.ApplyGravity()
	w.Handler.Update()
}

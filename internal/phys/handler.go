package phys

// lineRef locates a cached line: the owning body's arena index, the body's
// moving slot (-1 for static bodies) and the line's index within its
// direction bucket.
type lineRef struct {
	body  int
	slot  int
	index int
}

// SeparateResult is the outcome of an overlap-correction pass.
type SeparateResult int

const (
	// SeparateOK means no overlap remains.
	SeparateOK SeparateResult = iota
	// SeparateFailed means overlap remains that cannot be pushed apart.
	SeparateFailed
	// SeparateUnknown means a fast pass ended without examining every pair;
	// overlap may or may not remain.
	SeparateUnknown
)

func (r SeparateResult) String() string {
	switch r {
	case SeparateOK:
		return "ok"
	case SeparateFailed:
		return "failed"
	case SeparateUnknown:
		return "unknown"
	}
	return "invalid"
}

// Handler resolves motion and collisions for a set of bodies. It is not safe
// for concurrent use, and bodies must not be mutated while an Update is in
// progress.
type Handler struct {
	bodies []*Body
	tol    float64
	filter func(a, b *Body) bool

	moving  []int // arena indices of moving bodies
	statics []int // arena indices of static bodies

	// Per-direction line caches. allLines holds the moving entries first,
	// then the static ones, fixing the deterministic scan order.
	movingLines [4][]lineRef
	allLines    [4][]lineRef

	touching map[contactKey]struct{}
	events   []Collision
}

// NewHandler returns a handler over bodies with contact tolerance tol: the
// largest perpendicular separation still reported as touching (0 means exact
// contact only). Construction runs a full Reinit; when initial placement may
// overlap, call Reinit again and check its result.
func NewHandler(bodies []*Body, tol float64) *Handler {
	if tol < 0 {
		panic("phys: tolerance must be non-negative")
	}
	h := &Handler{
		bodies:   append([]*Body(nil), bodies...),
		tol:      tol,
		touching: make(map[contactKey]struct{}),
	}
	h.Reinit()
	return h
}

// Bodies returns the handler's body list. Treat it as read-only; use Add and
// Remove to change membership.
func (h *Handler) Bodies() []*Body { return h.bodies }

// Tolerance returns the handler's contact tolerance.
func (h *Handler) Tolerance() float64 { return h.tol }

// Add appends bodies without rebuilding caches. Call Reinit before the next
// Update.
func (h *Handler) Add(bodies ...*Body) {
	h.bodies = append(h.bodies, bodies...)
}

// Remove deletes a body from the handler, reporting whether it was present.
// Call Reinit before the next Update.
func (h *Handler) Remove(b *Body) bool {
	for i, o := range h.bodies {
		if o == b {
			h.bodies = append(h.bodies[:i], h.bodies[i+1:]...)
			return true
		}
	}
	return false
}

// SetFilter installs a broad-phase pre-filter: candidate pairs for which f
// returns false are skipped during the update scan. The filter must be
// conservative and never exclude a pair that could collide within the frame
// (build it from velocity-expanded bounds). nil removes the filter.
func (h *Handler) SetFilter(f func(a, b *Body) bool) {
	h.filter = f
}

// Reinit rebuilds the handler's caches and contact state. Call it after the
// body list changed or a shape's line set was edited; pure translations via
// Shape.Move need no reinit. Overlapping bodies are pushed apart first; the
// return value reports whether all overlap could be resolved.
func (h *Handler) Reinit() bool {
	h.rebuild()
	ok := h.separate(true) == SeparateOK
	h.refreshContacts()
	return ok
}

// ReinitFast is Reinit with a cheaper separation pass that skips pairs
// already pushed apart once; the result may be SeparateUnknown.
func (h *Handler) ReinitFast() SeparateResult {
	h.rebuild()
	res := h.separate(false)
	h.refreshContacts()
	return res
}

// RefreshContacts rebuilds the caches and re-derives the touching relation
// from current positions without pushing any body apart. Use it instead of
// Reinit after repositioning bodies to known good coordinates, where a
// separation pass must not disturb them.
func (h *Handler) RefreshContacts() {
	h.rebuild()
	h.refreshContacts()
}

func (h *Handler) rebuild() {
	h.moving = h.moving[:0]
	h.statics = h.statics[:0]
	for d := 0; d < 4; d++ {
		h.movingLines[d] = h.movingLines[d][:0]
		h.allLines[d] = h.allLines[d][:0]
	}
	for idx, b := range h.bodies {
		if b.moving {
			slot := len(h.moving)
			h.moving = append(h.moving, idx)
			for d := 0; d < 4; d++ {
				for i := range b.shape.lines[d] {
					ref := lineRef{body: idx, slot: slot, index: i}
					h.movingLines[d] = append(h.movingLines[d], ref)
					h.allLines[d] = append(h.allLines[d], ref)
				}
			}
		} else {
			h.statics = append(h.statics, idx)
		}
	}
	for _, idx := range h.statics {
		b := h.bodies[idx]
		for d := 0; d < 4; d++ {
			for i := range b.shape.lines[d] {
				h.allLines[d] = append(h.allLines[d], lineRef{body: idx, slot: -1, index: i})
			}
		}
	}
}

// line resolves a cached reference to the shape's live line record.
func (h *Handler) line(ref lineRef, d Direction) *Line {
	return &h.bodies[ref.body].shape.lines[d][ref.index]
}

package phys

import "sort"

// separationMove is one candidate displacement that would clear an
// overlapping pair along one axis.
type separationMove struct {
	depth float64
	axis  int
	sign  float64
	s1    int // arena index of the body to displace
	s2    int // arena index of the body it overlaps
}

// resolvedKey marks that s1 was already pushed clear of s2 along axis.
type resolvedKey struct {
	s1, s2 int
	axis   int
}

// separate pushes overlapping bodies apart, smallest displacement first,
// rescanning after every move so displacements that open new overlaps are
// caught. A (mover, partner, axis) triple is consumed at most once, bounding
// the pass at four moves per overlapping pair; when every candidate of every
// remaining overlap is consumed, separation has failed.
func (h *Handler) separate(exact bool) SeparateResult {
	resolved := make(map[resolvedKey]struct{})
	for {
		moves, skipped := h.overlapMoves(exact, resolved)
		if len(moves) == 0 {
			if skipped {
				return SeparateUnknown
			}
			return SeparateOK
		}
		sort.Slice(moves, func(i, j int) bool {
			a, b := moves[i], moves[j]
			if a.depth != b.depth {
				return a.depth < b.depth
			}
			if a.s1 != b.s1 {
				return a.s1 < b.s1
			}
			if a.s2 != b.s2 {
				return a.s2 < b.s2
			}
			if a.axis != b.axis {
				return a.axis < b.axis
			}
			return a.sign < b.sign
		})
		applied := false
		for _, mv := range moves {
			key := resolvedKey{mv.s1, mv.s2, mv.axis}
			if _, done := resolved[key]; !done {
				h.applyMove(mv)
				resolved[key] = struct{}{}
				applied = true
				break
			}
			// Already resolved in this role; swap when the partner can move.
			if h.bodies[mv.s2].moving {
				swapped := resolvedKey{mv.s2, mv.s1, mv.axis}
				if _, done := resolved[swapped]; !done {
					h.applyMove(separationMove{
						depth: mv.depth,
						axis:  mv.axis,
						sign:  -mv.sign,
						s1:    mv.s2,
						s2:    mv.s1,
					})
					resolved[swapped] = struct{}{}
					applied = true
					break
				}
			}
		}
		if !applied {
			return SeparateFailed
		}
	}
}

// overlapMoves scans every pair with at least one moving body, each
// unordered pair once, and returns the four per-axis displacement candidates
// of each overlapping pair. Overlap requires strictly positive depth on all
// four directed gaps; bounding boxes that merely touch do not overlap. In
// the fast mode, pairs the mover has already resolved against once are
// skipped and the second result reports whether any were.
func (h *Handler) overlapMoves(exact bool, resolved map[resolvedKey]struct{}) ([]separationMove, bool) {
	var moves []separationMove
	skipped := false
	for mi, a := range h.moving {
		sa := h.bodies[a].shape
		if !sa.hasLines() {
			continue
		}
		ba := sa.Bounds()
		scanPair := func(b int) {
			sb := h.bodies[b].shape
			if !sb.hasLines() {
				return
			}
			if !exact {
				_, r0 := resolved[resolvedKey{s1: a, s2: b, axis: 0}]
				_, r1 := resolved[resolvedKey{s1: a, s2: b, axis: 1}]
				if r0 || r1 {
					skipped = true
					return
				}
			}
			bb := sb.Bounds()
			gaps := [4]float64{
				bb.Max.X - ba.Min.X,
				bb.Max.Y - ba.Min.Y,
				ba.Max.X - bb.Min.X,
				ba.Max.Y - bb.Min.Y,
			}
			depth := gaps[0]
			for _, g := range gaps[1:] {
				if g < depth {
					depth = g
				}
			}
			if depth <= 0 {
				return
			}
			for i, g := range gaps {
				sign := 1.0
				if i >= 2 {
					sign = -1
				}
				moves = append(moves, separationMove{
					depth: g,
					axis:  i % 2,
					sign:  sign,
					s1:    a,
					s2:    b,
				})
			}
		}
		for _, b := range h.moving[mi+1:] {
			scanPair(b)
		}
		for _, b := range h.statics {
			scanPair(b)
		}
	}
	return moves, skipped
}

func (h *Handler) applyMove(mv separationMove) {
	var dx, dy float64
	if mv.axis == 0 {
		dx = mv.sign * mv.depth
	} else {
		dy = mv.sign * mv.depth
	}
	h.bodies[mv.s1].shape.Move(dx, dy)
}

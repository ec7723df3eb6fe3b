package phys

import (
	"math"
	"sort"
)

// contactKey identifies a touching line pair: the direction of body a's
// line, both bodies' arena indices and both line indices. The partner line's
// direction is always dir.Opposite(), so the line records are reachable from
// the key alone.
type contactKey struct {
	dir    Direction
	a, b   int
	ai, bi int
}

// Contact is one entry of the touching relation. Dir is the direction of A's
// line; B's line faces the opposite way. ALine and BLine index into the
// respective shapes' direction buckets.
type Contact struct {
	Dir          Direction
	A, B         *Body
	ALine, BLine int
}

// Contacts returns the current touching pairs, ordered by A's arena index,
// then A's line, direction, B's arena index and B's line.
func (h *Handler) Contacts() []Contact {
	keys := make([]contactKey, 0, len(h.touching))
	for k := range h.touching {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		if a.a != b.a {
			return a.a < b.a
		}
		if a.ai != b.ai {
			return a.ai < b.ai
		}
		if a.dir != b.dir {
			return a.dir < b.dir
		}
		if a.b != b.b {
			return a.b < b.b
		}
		return a.bi < b.bi
	})
	cs := make([]Contact, len(keys))
	for i, k := range keys {
		cs[i] = Contact{
			Dir:   k.dir,
			A:     h.bodies[k.a],
			B:     h.bodies[k.b],
			ALine: k.ai,
			BLine: k.bi,
		}
	}
	return cs
}

// Touching returns the bodies in contact with b through b's lines of
// direction d, ordered by arena index. Touching(player, DirBottom) answers
// "what is the player standing on".
func (h *Handler) Touching(b *Body, d Direction) []*Body {
	var idxs []int
	for k := range h.touching {
		switch {
		case k.dir == d && h.bodies[k.a] == b:
			idxs = append(idxs, k.b)
		case k.dir.Opposite() == d && h.bodies[k.b] == b:
			idxs = append(idxs, k.a)
		}
	}
	sort.Ints(idxs)
	var out []*Body
	for i, idx := range idxs {
		if i > 0 && idx == idxs[i-1] {
			continue
		}
		out = append(out, h.bodies[idx])
	}
	return out
}

// refreshContacts rebuilds the touching relation from scratch: every
// moving-line/opposite-line pair whose perpendicular separation is within
// tolerance and whose parallel extents strictly overlap, at most one key per
// symmetric pair.
func (h *Handler) refreshContacts() {
	clear(h.touching)
	for i := Direction(0); i < 4; i++ {
		j := i.Opposite()
		partners := h.allLines[j]
		for _, m1 := range h.movingLines[i] {
			l1 := h.line(m1, i)
			for _, m2 := range partners {
				// Moving partners in an earlier bucket were already scanned
				// as the moving side of this pair.
				if m2.slot >= 0 && j < i {
					continue
				}
				if m2.body == m1.body {
					continue
				}
				l2 := h.line(m2, j)
				if math.Abs(l1.Perp-l2.Perp) <= h.tol && l1.P0 < l2.P1 && l1.P1 > l2.P0 {
					h.touching[contactKey{dir: i, a: m1.body, b: m2.body, ai: m1.index, bi: m2.index}] = struct{}{}
				}
			}
		}
	}
}

// pruneContacts drops pairs that have separated: perpendicular distance
// beyond tolerance or parallel extents no longer strictly overlapping.
func (h *Handler) pruneContacts() {
	for k := range h.touching {
		l1 := h.line(lineRef{body: k.a, index: k.ai}, k.dir)
		l2 := h.line(lineRef{body: k.b, index: k.bi}, k.dir.Opposite())
		if math.Abs(l1.Perp-l2.Perp) > h.tol || l1.P0 >= l2.P1 || l1.P1 <= l2.P0 {
			delete(h.touching, k)
		}
	}
}

package phys

import "math"

// candidate is a potential collision found by the scan: the time of impact
// within the remaining motion and the two line references. m1 is always on
// the moving side of the scan; m2 may belong to a static body.
type candidate struct {
	t      float64
	dir    Direction
	m1, m2 lineRef
}

// Collision is one impact resolved by Update: the face of A pointing in Dir
// struck a face of B. Zero-time chains report every resolution, so the same
// pair may appear more than once per update.
type Collision struct {
	A, B *Body
	Dir  Direction
}

// Collisions returns the impacts resolved during the most recent Update, in
// resolution order. The slice is reused by the next Update; copy it to keep
// it.
func (h *Handler) Collisions() []Collision {
	return h.events
}

// Update advances every moving body by its velocity, resolving collisions in
// time order within the frame. Velocities are displacements per update;
// hosts scale by the tick duration before assigning them. Afterwards the
// positions and velocities of colliding bodies have changed, the touching
// relation reflects the new contacts and Collisions reports the impacts
// that were resolved.
//
// A configuration that forces collisions without ever consuming time (for
// example a body wedged between two immovable walls with elasticity 1)
// cannot make progress; Update panics when a run of zero-time collisions
// exceeds a bound scaled to the number of moving bodies.
func (h *Handler) Update() {
	h.events = h.events[:0]
	if len(h.moving) == 0 {
		h.pruneContacts()
		return
	}
	rem := make([]Vec, len(h.moving))
	for slot, idx := range h.moving {
		rem[slot] = h.bodies[idx].Vel
	}
	totalRem := 1.0
	zeroRun := 0
	maxZeroRun := 4096 * (1 + len(h.moving))
	for {
		c, found := h.scan(rem)
		t := 1.0
		if found {
			t = c.t
			h.recordContact(c)
			h.events = append(h.events, Collision{
				A:   h.bodies[c.m1.body],
				B:   h.bodies[c.m2.body],
				Dir: c.dir,
			})
		}
		tr := 1 - t
		totalRem *= tr
		if t != 0 {
			for slot, idx := range h.moving {
				v := rem[slot]
				if v.IsZero() {
					continue
				}
				h.bodies[idx].shape.Move(v.X*t, v.Y*t)
				if tr != 0 {
					rem[slot] = v.Scale(tr)
				}
			}
			zeroRun = 0
		}
		if !found {
			break
		}
		h.respond(c, rem, totalRem)
		if t == 0 {
			zeroRun++
			if zeroRun > maxZeroRun {
				panic("phys: zero-time collision chain makes no progress")
			}
		}
	}
	h.pruneContacts()
}

// scan finds the earliest collision within the remaining motion. Ties keep
// the first candidate in scan order, which is deterministic: direction, then
// cache order with moving partners before static ones.
func (h *Handler) scan(rem []Vec) (candidate, bool) {
	var best candidate
	found := false
	for i := Direction(0); i < 4; i++ {
		n := i.Axis()
		dirn := i.Sign()
		j := i.Opposite()
		partners := h.allLines[j]
		for _, m1 := range h.movingLines[i] {
			b1 := h.bodies[m1.body]
			imm1 := b1.Immovable()
			v1 := rem[m1.slot]
			v1pr := dirn * v1.axis(n)
			v1pl := v1.axis(1 - n)
			l1 := h.line(m1, i)
			l10pr := dirn * l1.Perp
			l11pr := l10pr + v1pr
			for _, m2 := range partners {
				// Moving partners in an earlier bucket were already scanned
				// as the moving side of this pair.
				if m2.slot >= 0 && j < i {
					continue
				}
				if m2.body == m1.body {
					continue
				}
				b2 := h.bodies[m2.body]
				// No response is definable when neither side can respond.
				if imm1 && b2.Immovable() {
					continue
				}
				if h.filter != nil && !h.filter(b1, b2) {
					continue
				}
				var v2 Vec
				if m2.slot >= 0 {
					v2 = rem[m2.slot]
				}
				v2pr := dirn * v2.axis(n)
				// Not moving toward each other.
				if v1pr <= v2pr {
					continue
				}
				l2 := h.line(m2, j)
				l20pr := dirn * l2.Perp
				l21pr := l20pr + v2pr
				// Starting past the solid side, or not moving strictly past:
				// touching pass-bys are not collisions, zero distance with
				// closing motion is.
				if l10pr > l20pr || l11pr <= l21pr {
					continue
				}
				// The subtraction can cancel to zero even though the checks
				// above imply it is positive; treat as no collision this
				// frame.
				d := l11pr - l10pr - l21pr + l20pr
				if d == 0 {
					continue
				}
				t := (l20pr - l10pr) / d
				// Parallel extents must strictly overlap at impact time;
				// corner-to-corner touches do not collide.
				v2pl := v2.axis(1 - n)
				p10 := l1.P0 + t*v1pl
				p11 := l1.P1 + t*v1pl
				p20 := l2.P0 + t*v2pl
				p21 := l2.P1 + t*v2pl
				if p11 <= p20 || p21 <= p10 {
					continue
				}
				if !found || t < best.t {
					best = candidate{t: t, dir: i, m1: m1, m2: m2}
					found = true
				}
			}
		}
	}
	return best, found
}

// recordContact adds the collision's line pair to the touching relation,
// avoiding symmetric duplicates.
func (h *Handler) recordContact(c candidate) {
	k2 := contactKey{
		dir: c.dir.Opposite(),
		a:   c.m2.body, b: c.m1.body,
		ai: c.m2.index, bi: c.m1.index,
	}
	if _, ok := h.touching[k2]; ok {
		return
	}
	h.touching[contactKey{
		dir: c.dir,
		a:   c.m1.body, b: c.m2.body,
		ai: c.m1.index, bi: c.m2.index,
	}] = struct{}{}
}

// respond applies the collision response for c. Body velocities are read and
// written whole; each changed component's remaining motion is rescaled to
// the unconsumed fraction of the frame.
func (h *Handler) respond(c candidate, rem []Vec, totalRem float64) {
	n := c.dir.Axis()
	b1 := h.bodies[c.m1.body]
	b2 := h.bodies[c.m2.body]
	e := b1.Elasticity * b2.Elasticity
	f := b1.Friction * b2.Friction
	switch {
	case b2.Immovable():
		h.reflect(b1, c.m1.slot, b2, rem, totalRem, n, e, f)
	case b1.Immovable():
		h.reflect(b2, c.m2.slot, b1, rem, totalRem, n, e, f)
	default:
		h.exchange(c, rem, totalRem, n, e, f)
	}
}

// reflect bounces the finite body mb off the immovable body sb: reflection
// of the perpendicular component in sb's frame, then the friction clamp on
// the relative parallel component. The clamp never reverses relative
// parallel motion.
func (h *Handler) reflect(mb *Body, slot int, sb *Body, rem []Vec, totalRem float64, n int, e, f float64) {
	var su Vec
	if !sb.Static() {
		su = sb.Vel
	}
	un := mb.Vel.axis(n)
	sn := su.axis(n)
	urel := un - sn
	vn := sn - e*urel
	mb.Vel.setAxis(n, vn)
	rem[slot].setAxis(n, vn*totalRem)
	if f == 0 {
		return
	}
	p := 1 - n
	ut := mb.Vel.axis(p) - su.axis(p)
	d := 1.0
	if ut <= 0 {
		d = -1
	}
	vt := d*ut - f*math.Abs(urel+e*urel)
	vt = d*math.Max(vt, 0) + su.axis(p)
	mb.Vel.setAxis(p, vt)
	rem[slot].setAxis(p, vt*totalRem)
}

// exchange resolves a collision between two finite moving bodies: the lines
// are snapped together (rounding can leave them slightly apart, which breaks
// resting contact), perpendicular velocities follow from momentum and
// restitution, and friction pulls both parallel velocities toward the
// center-of-mass frame, clamped there.
func (h *Handler) exchange(c candidate, rem []Vec, totalRem float64, n int, e, f float64) {
	b1 := h.bodies[c.m1.body]
	b2 := h.bodies[c.m2.body]
	l1 := h.line(c.m1, c.dir)
	l2 := h.line(c.m2, c.dir.Opposite())
	if l1.Perp != l2.Perp {
		var dx, dy float64
		if n == 0 {
			dx = l2.Perp - l1.Perp
		} else {
			dy = l2.Perp - l1.Perp
		}
		b1.shape.Move(dx, dy)
	}
	m1, m2 := b1.mass, b2.mass
	u1 := b1.Vel.axis(n)
	u2 := b2.Vel.axis(n)
	p0 := m1*u1 + m2*u2
	m := m1 + m2
	v1 := (p0 + (u2-u1)*e*m2) / m
	v2 := (p0 + (u1-u2)*e*m1) / m
	b1.Vel.setAxis(n, v1)
	b2.Vel.setAxis(n, v2)
	rem[c.m1.slot].setAxis(n, v1*totalRem)
	rem[c.m2.slot].setAxis(n, v2*totalRem)
	if f == 0 {
		return
	}
	p := 1 - n
	u1t := b1.Vel.axis(p)
	u2t := b2.Vel.axis(p)
	mag := f * (m1*math.Abs(v1-u1) + m2*math.Abs(v2-u2))
	v0 := (m1*u1t + m2*u2t) / m
	sides := [2]struct {
		mass, ut float64
		b        *Body
		slot     int
	}{
		{m1, u1t, b1, c.m1.slot},
		{m2, u2t, b2, c.m2.slot},
	}
	for _, s := range sides {
		r := s.ut - v0
		d := 1.0
		if r <= 0 {
			d = -1
		}
		vt := d*r - mag/s.mass
		vt = d*math.Max(vt, 0) + v0
		s.b.Vel.setAxis(p, vt)
		rem[s.slot].setAxis(p, vt*totalRem)
	}
}

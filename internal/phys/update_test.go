package phys

import "testing"

func checkVel(t *testing.T, name string, b *Body, x, y float64) {
	t.Helper()
	if b.Vel != (Vec{x, y}) {
		t.Errorf("%s velocity = %v, want {%v %v}", name, b.Vel, x, y)
	}
}

func TestUpdateMovesFreeBody(t *testing.T) {
	r := NewRect(0, 0, 2, 2)
	b := NewBody(1, r, Vec{3, -2}, 1, 0)
	h := NewHandler([]*Body{b}, 0)

	h.Update()
	checkRect(t, "body", r, 3, -2, 5, 0)
	checkVel(t, "body", b, 3, -2)
	if got := h.Contacts(); len(got) != 0 {
		t.Errorf("Contacts() = %v, want none", got)
	}
}

func TestBounceOffWall(t *testing.T) {
	r := NewRect(0, 0, 2, 2)
	b := NewBody(1, r, Vec{4, 0}, 0.5, 0)
	w := NewStatic(NewRect(5, 0, 7, 2), 1, 0)
	h := NewHandler([]*Body{b, w}, 0)

	// Impact after three quarters of the frame, then the rebound consumes
	// the remaining quarter at half speed.
	h.Update()
	checkRect(t, "ball", r, 2.5, 0, 4.5, 2)
	checkVel(t, "ball", b, -2, 0)
	if got := h.Contacts(); len(got) != 0 {
		t.Errorf("Contacts() = %v, want none after the ball left", got)
	}
	ev := h.Collisions()
	if len(ev) != 1 || ev[0].A != b || ev[0].B != w || ev[0].Dir != DirRight {
		t.Errorf("Collisions() = %v, want one right-face impact of the ball on the wall", ev)
	}
	h.Update()
	if got := h.Collisions(); len(got) != 0 {
		t.Errorf("Collisions() = %v, want none on a free frame", got)
	}
}

func TestCornerGrazeIsNotACollision(t *testing.T) {
	r := NewRect(0, 0, 2, 2)
	b := NewBody(1, r, Vec{2, 0}, 1, 0)
	w := NewStatic(NewRect(3, 2, 5, 4), 1, 0)
	h := NewHandler([]*Body{b, w}, 0)

	// The top right corner slides along the wall's bottom left corner;
	// extents touch but never overlap.
	h.Update()
	checkRect(t, "ball", r, 2, 0, 4, 2)
	checkVel(t, "ball", b, 2, 0)
}

func TestZeroDistanceClosingCollides(t *testing.T) {
	r := NewRect(1, 0, 3, 2)
	b := NewBody(1, r, Vec{1, 0}, 1, 0)
	w := NewStatic(NewRect(3, 0, 5, 2), 1, 0)
	h := NewHandler([]*Body{b, w}, 0)

	// Already touching and moving in: the bounce happens at time zero and
	// the whole frame is spent moving away.
	h.Update()
	checkRect(t, "ball", r, 0, 0, 2, 2)
	checkVel(t, "ball", b, -1, 0)
}

func TestEqualMassElasticExchange(t *testing.T) {
	ra := NewRect(0, 0, 1, 1)
	a := NewBody(1, ra, Vec{2, 0}, 1, 0)
	rb := NewRect(2, 0, 3, 1)
	b := NewBody(1, rb, Vec{}, 1, 0)
	h := NewHandler([]*Body{a, b}, 0)

	// Equal masses at elasticity 1 swap perpendicular velocities.
	h.Update()
	checkRect(t, "a", ra, 1, 0, 2, 1)
	checkVel(t, "a", a, 0, 0)
	checkRect(t, "b", rb, 3, 0, 4, 1)
	checkVel(t, "b", b, 2, 0)
}

func TestInelasticPairMovesTogether(t *testing.T) {
	ra := NewRect(0, 0, 2, 2)
	a := NewBody(3, ra, Vec{2, 0}, 0, 0)
	rb := NewRect(3, 0, 5, 2)
	b := NewBody(1, rb, Vec{}, 0, 0)
	h := NewHandler([]*Body{a, b}, 0)

	// Momentum 6 over mass 4: both continue at 1.5.
	h.Update()
	checkVel(t, "a", a, 1.5, 0)
	checkVel(t, "b", b, 1.5, 0)
	checkRect(t, "a", ra, 1.75, 0, 3.75, 2)
	checkRect(t, "b", rb, 3.75, 0, 5.75, 2)
	if got := h.Touching(a, DirRight); len(got) != 1 || got[0] != b {
		t.Errorf("Touching(a, right) = %v, want b", got)
	}
}

func TestCorridorDoubleBounce(t *testing.T) {
	r := NewRect(2, 0, 3, 1)
	b := NewBody(1, r, Vec{16, 0}, 1, 0)
	wl := NewStatic(NewRect(-2, 0, 0, 1), 1, 0)
	wr := NewStatic(NewRect(7, 0, 9, 1), 1, 0)
	h := NewHandler([]*Body{b, wl, wr}, 0)

	// Fast enough to cross the corridor twice in one frame: right wall at
	// t=1/4, left wall at t=1/2, then the rest of the frame lands it
	// exactly on the right wall again.
	h.Update()
	checkRect(t, "ball", r, 6, 0, 7, 1)
	checkVel(t, "ball", b, 16, 0)
	if got := h.Touching(b, DirRight); len(got) != 1 || got[0] != wr {
		t.Errorf("Touching(ball, right) = %v, want the right wall", got)
	}
}

func TestMovingPaddleAddsSpeed(t *testing.T) {
	pr := NewRect(0, 0, 4, 1)
	paddle := NewBody(Infinite, pr, Vec{0, 4}, 1, 0)
	br := NewRect(1, 3, 2, 4)
	ball := NewBody(1, br, Vec{}, 1, 0)
	h := NewHandler([]*Body{paddle, ball}, 0)

	// The paddle keeps its velocity; the ball leaves at twice the paddle
	// speed, reflected in the paddle's frame.
	h.Update()
	checkVel(t, "ball", ball, 0, 8)
	checkRect(t, "ball", br, 1, 7, 2, 8)
	checkVel(t, "paddle", paddle, 0, 4)
	checkRect(t, "paddle", pr, 0, 4, 4, 5)
}

func TestImmovablePairIgnored(t *testing.T) {
	r := NewRect(0, 0, 1, 1)
	k := NewBody(Infinite, r, Vec{4, 0}, 1, 0)
	w := NewStatic(NewRect(2, 0, 3, 1), 1, 0)
	h := NewHandler([]*Body{k, w}, 0)

	// Neither side can respond, so no collision is defined between them.
	h.Update()
	checkRect(t, "mover", r, 4, 0, 5, 1)
	checkVel(t, "mover", k, 4, 0)
	if got := h.Contacts(); len(got) != 0 {
		t.Errorf("Contacts() = %v, want none", got)
	}
}

func TestFilterSkipsPair(t *testing.T) {
	r := NewRect(0, 0, 1, 1)
	b := NewBody(1, r, Vec{4, 0}, 1, 0)
	w := NewStatic(NewRect(2, 0, 3, 1), 1, 0)
	h := NewHandler([]*Body{b, w}, 0)

	h.SetFilter(func(a, b *Body) bool { return false })
	h.Update()
	checkRect(t, "ball", r, 4, 0, 5, 1)

	h.SetFilter(nil)
	b.Vel = Vec{-4, 0}
	h.Update()
	// 1 unit back to the wall's right face, then the rebound.
	checkRect(t, "ball", r, 6, 0, 7, 1)
	checkVel(t, "ball", b, 4, 0)
}

func TestFrictionSlowsSlide(t *testing.T) {
	r := NewRect(0, 1, 2, 3)
	b := NewBody(1, r, Vec{4, -4}, 0, 0.5)
	floor := NewStatic(NewHalfLine(DirTop, 0, -100, 100), 1, 0.5)
	h := NewHandler([]*Body{b, floor}, 0)

	// Landing at t=1/4 kills the fall; friction 0.25 against the impulse 4
	// takes one unit off the slide.
	h.Update()
	checkVel(t, "crate", b, 3, 0)
	checkRect(t, "crate", r, 3.25, 0, 5.25, 2)
	if got := h.Touching(b, DirBottom); len(got) != 1 || got[0] != floor {
		t.Errorf("Touching(crate, bottom) = %v, want the floor", got)
	}
}

func TestFrictionNeverReversesSlide(t *testing.T) {
	r := NewRect(0, 1, 2, 3)
	b := NewBody(1, r, Vec{4, -4}, 0, 8)
	floor := NewStatic(NewHalfLine(DirTop, 0, -100, 100), 1, 8)
	h := NewHandler([]*Body{b, floor}, 0)

	// Absurd friction stops the slide dead instead of pushing it backward.
	h.Update()
	checkVel(t, "crate", b, 0, 0)
	checkRect(t, "crate", r, 1, 0, 3, 2)
}

func TestConveyorDragsAlong(t *testing.T) {
	br := NewRect(0, -1, 100, 0)
	belt := NewBody(Infinite, br, Vec{2, 0}, 0, 1)
	cr := NewRect(0, 1, 2, 3)
	crate := NewBody(1, cr, Vec{0, -4}, 0, 1)
	h := NewHandler([]*Body{belt, crate}, 0)

	// Friction is measured against the surface: the resting crate is
	// dragged up to belt speed, not stopped.
	h.Update()
	checkVel(t, "crate", crate, 2, 0)
	checkRect(t, "crate", cr, 1.5, 0, 3.5, 2)
	checkVel(t, "belt", belt, 2, 0)
	if got := h.Touching(crate, DirBottom); len(got) != 1 || got[0] != belt {
		t.Errorf("Touching(crate, bottom) = %v, want the belt", got)
	}
}

func TestRestingStackSettles(t *testing.T) {
	floor := NewStatic(NewHalfLine(DirTop, 0, 0, 20), 0, 0)
	r1 := NewRect(2, 0, 6, 4)
	c1 := NewBody(1, r1, Vec{}, 0, 0)
	r2 := NewRect(2, 4, 6, 8)
	c2 := NewBody(1, r2, Vec{}, 0, 0)
	h := NewHandler([]*Body{floor, c1, c2}, 0)

	// Constant pull each frame; the zero-time chain floor/c1/c2 must damp
	// out within the frame without tripping the progress guard.
	for frame := 0; frame < 5; frame++ {
		c1.Vel.Y -= 1
		c2.Vel.Y -= 1
		h.Update()
	}
	checkRect(t, "c1", r1, 2, 0, 6, 4)
	checkRect(t, "c2", r2, 2, 4, 6, 8)
	checkVel(t, "c1", c1, 0, 0)
	checkVel(t, "c2", c2, 0, 0)
	if got := h.Touching(c1, DirBottom); len(got) != 1 || got[0] != floor {
		t.Errorf("Touching(c1, bottom) = %v, want the floor", got)
	}
	if got := h.Touching(c2, DirBottom); len(got) != 1 || got[0] != c1 {
		t.Errorf("Touching(c2, bottom) = %v, want c1", got)
	}
	if got := h.Touching(c1, DirTop); len(got) != 1 || got[0] != c2 {
		t.Errorf("Touching(c1, top) = %v, want c2", got)
	}
}

func TestWedgedElasticPanics(t *testing.T) {
	r := NewRect(0, 0, 1, 1)
	b := NewBody(1, r, Vec{1, 0}, 1, 0)
	wl := NewStatic(NewRect(-2, 0, 0, 1), 1, 0)
	wr := NewStatic(NewRect(1, 0, 3, 1), 1, 0)
	h := NewHandler([]*Body{b, wl, wr}, 0)

	// Perfectly elastic and wedged between two walls: every bounce happens
	// at time zero and no frame time is ever consumed.
	defer func() {
		if recover() == nil {
			t.Error("Update() did not panic on a wedged elastic body")
		}
	}()
	h.Update()
}

func TestUpdateIsDeterministic(t *testing.T) {
	build := func() (*Handler, []*Rect) {
		r1 := NewRect(1, 1, 2, 2)
		b1 := NewBody(1, r1, Vec{1.5, 0.75}, 1, 0)
		r2 := NewRect(5, 3, 6, 4)
		b2 := NewBody(1, r2, Vec{-1.25, 0.5}, 1, 0)
		walls := []*Body{
			NewStatic(NewRect(-1, -1, 0, 9), 1, 0),
			NewStatic(NewRect(8, -1, 9, 9), 1, 0),
			NewStatic(NewRect(-1, -1, 9, 0), 1, 0),
			NewStatic(NewRect(-1, 8, 9, 9), 1, 0),
		}
		h := NewHandler(append([]*Body{b1, b2}, walls...), 0)
		return h, []*Rect{r1, r2}
	}

	h1, rs1 := build()
	h2, rs2 := build()
	for frame := 0; frame < 64; frame++ {
		h1.Update()
		h2.Update()
	}
	for i := range rs1 {
		if rs1[i].Bounds() != rs2[i].Bounds() {
			t.Errorf("ball %d diverged: %v vs %v", i, rs1[i].Bounds(), rs2[i].Bounds())
		}
	}
}

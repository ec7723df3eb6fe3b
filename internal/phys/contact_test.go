package phys

import "testing"

func TestTouchingWithinTolerance(t *testing.T) {
	build := func(tol float64) (*Handler, *Body, *Body) {
		crate := NewBody(1, NewRect(0, 0.25, 2, 2.25), Vec{}, 0, 0)
		floor := NewStatic(NewHalfLine(DirTop, 0, -5, 5), 0, 0)
		return NewHandler([]*Body{crate, floor}, tol), crate, floor
	}

	h, crate, floor := build(0.5)
	if got := h.Touching(crate, DirBottom); len(got) != 1 || got[0] != floor {
		t.Errorf("tol 0.5: Touching(crate, bottom) = %v, want the floor", got)
	}

	h, crate, _ = build(0.1)
	if got := h.Touching(crate, DirBottom); len(got) != 0 {
		t.Errorf("tol 0.1: Touching(crate, bottom) = %v, want none", got)
	}
}

func TestTouchingIsSymmetric(t *testing.T) {
	a, _ := rectBody(1, 0, 0, 1, 1)
	b, _ := rectBody(1, 1, 0, 2, 1)
	h := NewHandler([]*Body{a, b}, 0)

	if got := h.Touching(a, DirRight); len(got) != 1 || got[0] != b {
		t.Errorf("Touching(a, right) = %v, want b", got)
	}
	if got := h.Touching(b, DirLeft); len(got) != 1 || got[0] != a {
		t.Errorf("Touching(b, left) = %v, want a", got)
	}
	if got := h.Touching(a, DirLeft); len(got) != 0 {
		t.Errorf("Touching(a, left) = %v, want none", got)
	}
	if got := h.Touching(a, DirTop); len(got) != 0 {
		t.Errorf("Touching(a, top) = %v, want none", got)
	}
}

func TestContactsSnapshot(t *testing.T) {
	floor := NewStatic(NewHalfLine(DirTop, 0, 0, 10), 0, 0)
	c1, _ := rectBody(1, 2, 0, 6, 4)
	c2, _ := rectBody(1, 2, 4, 6, 8)
	h := NewHandler([]*Body{floor, c1, c2}, 0)

	cs := h.Contacts()
	if len(cs) != 2 {
		t.Fatalf("len(Contacts()) = %d, want 2", len(cs))
	}
	if cs[0].A != c1 || cs[0].B != floor || cs[0].Dir != DirBottom {
		t.Errorf("contact 0 = %+v, want c1 on floor from below", cs[0])
	}
	if cs[1].A != c2 || cs[1].B != c1 || cs[1].Dir != DirBottom {
		t.Errorf("contact 1 = %+v, want c2 on c1 from below", cs[1])
	}
}

func TestLiftOffPrunesContact(t *testing.T) {
	crate := NewBody(1, NewRect(0, 0, 2, 2), Vec{0, 4}, 0, 0)
	floor := NewStatic(NewHalfLine(DirTop, 0, -5, 5), 0, 0)
	h := NewHandler([]*Body{crate, floor}, 0)

	if got := h.Touching(crate, DirBottom); len(got) != 1 {
		t.Fatalf("before: Touching(crate, bottom) = %v, want the floor", got)
	}
	h.Update()
	if got := h.Touching(crate, DirBottom); len(got) != 0 {
		t.Errorf("after lift-off: Touching(crate, bottom) = %v, want none", got)
	}
}

func TestSlideKeepsContactUntilEdge(t *testing.T) {
	crate := NewBody(1, NewRect(0, 0, 2, 2), Vec{2, 0}, 0, 0)
	floor := NewStatic(NewHalfLine(DirTop, 0, 0, 3), 0, 0)
	h := NewHandler([]*Body{crate, floor}, 0)

	// Still one unit of shared span after the first slide.
	h.Update()
	if got := h.Touching(crate, DirBottom); len(got) != 1 || got[0] != floor {
		t.Errorf("on the floor: Touching(crate, bottom) = %v, want the floor", got)
	}
	// The second slide carries the crate wholly past the floor's end.
	h.Update()
	if got := h.Touching(crate, DirBottom); len(got) != 0 {
		t.Errorf("past the edge: Touching(crate, bottom) = %v, want none", got)
	}
}

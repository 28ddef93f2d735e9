package scanout

import (
	"image"
	"testing"
)

func TestOutputStateDuplicate(t *testing.T) {
	var nilState *OutputState
	st := nilState.Duplicate(PlanesOnly)
	if st == nil {
		t.Fatal("Duplicate on nil returned nil")
	}
	if st.Mode != PlanesOnly || !st.Enabled || !st.PowerOn {
		t.Errorf("default duplicate = %+v, want enabled planes-only", st)
	}

	prev := &OutputState{
		Mode:    PlanesOnly,
		Enabled: false,
		PowerOn: false,
		Tearing: true,
		Planes:  []*PlaneState{{}},
	}
	next := prev.Duplicate(Mixed)
	if next.Mode != Mixed {
		t.Errorf("Mode = %v, want %v", next.Mode, Mixed)
	}
	if next.Enabled || next.PowerOn || !next.Tearing {
		t.Error("output-level flags did not carry over")
	}
	if len(next.Planes) != 0 {
		t.Error("plane assignments must not carry over")
	}
}

func TestOutputStateRelease(t *testing.T) {
	released := 0
	fb := NewFramebuffer(1, 10, 10, FormatXRGB8888, ModifierLinear,
		func() { released++ })

	st := newOutputState(PlanesOnly)
	st.Planes = append(st.Planes,
		&PlaneState{Plane: &Plane{ID: 1}, FB: fb},          // owns the initial ref
		&PlaneState{Plane: &Plane{ID: 2}, FB: fb.Ref()},
		&PlaneState{Plane: &Plane{ID: 3}},                  // disabled, no FB
	)
	st.Release()

	if released != 1 {
		t.Errorf("release hook ran %d times, want 1", released)
	}
	if st.Planes != nil {
		t.Error("Release did not clear the plane list")
	}
}

func TestOutputStateLookup(t *testing.T) {
	pl1, pl2 := &Plane{ID: 1}, &Plane{ID: 2}
	n := &PaintNode{Surface: 7}
	ps1 := &PlaneState{Plane: pl1, Node: n}
	ps2 := &PlaneState{Plane: pl2}

	st := newOutputState(Mixed)
	st.Planes = []*PlaneState{ps1, ps2}

	if got := st.stateFor(pl1); got != ps1 {
		t.Errorf("stateFor(pl1) = %v, want ps1", got)
	}
	if got := st.stateFor(&Plane{ID: 1}); got != nil {
		t.Error("stateFor must compare plane identity, not ID")
	}
	if got := st.stateForNode(n); got != ps1 {
		t.Errorf("stateForNode = %v, want ps1", got)
	}

	st.remove(ps1)
	if got := st.stateFor(pl1); got != nil {
		t.Error("stateFor found removed state")
	}
	if len(st.Planes) != 1 || st.Planes[0] != ps2 {
		t.Errorf("remove left %v", st.Planes)
	}
}

func TestPlaneStateEnabled(t *testing.T) {
	var nilPS *PlaneState
	if nilPS.Enabled() {
		t.Error("nil state reported enabled")
	}
	ps := &PlaneState{Plane: &Plane{}}
	if ps.Enabled() {
		t.Error("state without FB reported enabled")
	}
	ps.FB = NewFramebuffer(1, 1, 1, FormatXRGB8888, ModifierLinear, nil)
	if !ps.Enabled() {
		t.Error("state with FB reported disabled")
	}
}

func TestAssertConsistentDuplicateZpos(t *testing.T) {
	fb := NewFramebuffer(1, 1, 1, FormatXRGB8888, ModifierLinear, nil)
	st := newOutputState(PlanesOnly)
	st.Planes = []*PlaneState{
		{Plane: &Plane{ID: 1}, FB: fb, Zpos: 2},
		{Plane: &Plane{ID: 2}, FB: fb.Ref(), Zpos: 2},
	}

	defer func() {
		if recover() == nil {
			t.Error("duplicate zpos did not panic")
		}
	}()
	st.assertConsistent()
}

func TestAssertConsistentDuplicatePlane(t *testing.T) {
	fb := NewFramebuffer(1, 1, 1, FormatXRGB8888, ModifierLinear, nil)
	pl := &Plane{ID: 1}
	st := newOutputState(PlanesOnly)
	st.Planes = []*PlaneState{
		{Plane: pl, FB: fb, Zpos: 0},
		{Plane: pl, FB: fb.Ref(), Zpos: 1},
	}

	defer func() {
		if recover() == nil {
			t.Error("duplicate plane did not panic")
		}
	}()
	st.assertConsistent()
}

func TestAssertConsistentIgnoresDisabled(t *testing.T) {
	fb := NewFramebuffer(1, 1, 1, FormatXRGB8888, ModifierLinear, nil)
	st := newOutputState(PlanesOnly)
	st.Planes = []*PlaneState{
		{Plane: &Plane{ID: 1}, FB: fb, Zpos: 0, Dst: image.Rect(0, 0, 1, 1)},
		{Plane: &Plane{ID: 2}, Zpos: 0}, // disabled: same zpos is fine
	}
	st.assertConsistent() // must not panic
}

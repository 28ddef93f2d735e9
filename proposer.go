package scanout

import (
	"fmt"
	"image"
)

// proposal is the working state of one mode attempt: the output state being
// built, the region tracker, and the zpos bookkeeping for the overlay and
// underlay claim chains.
type proposal struct {
	e      *Engine
	out    *Output
	mode   CompositingMode
	st     *OutputState
	planes []*Plane

	tracker regionTracker

	claimed PlaneMask
	scanout *PlaneState

	overlayLow      int
	overlayClaimed  bool
	underlayLow     int
	underlayClaimed bool
}

// scanoutProbe is the scoped transaction around the virtual scanout state
// mixed mode seeds from the last renderer framebuffer. The probe exists
// only so per-candidate atomic tests run against a realistic baseline; it
// is released, removing the state and its framebuffer reference, before
// the proposal returns.
type scanoutProbe struct {
	st   *OutputState
	ps   *PlaneState
	done bool
}

// release undoes the speculative insertion. Idempotent.
func (t *scanoutProbe) release() {
	if t.done {
		return
	}
	t.done = true
	t.st.remove(t.ps)
	if t.ps.FB != nil {
		t.ps.release()
	}
}

// propose builds a full output state for one compositing mode, or fails.
// Per-view failures never abort the attempt; only an unbuildable baseline,
// an unplaceable view in planes-only mode, or a failed aggregate atomic
// test do.
func (e *Engine) propose(out *Output, nodes []*PaintNode, mode CompositingMode) (*OutputState, error) {
	st := out.Current().Duplicate(mode)
	p := &proposal{
		e:      e,
		out:    out,
		mode:   mode,
		st:     st,
		planes: e.dev.Planes(out),
	}

	if mode == Mixed {
		probe, err := p.seedScanout()
		if err != nil {
			st.Release()
			return nil, err
		}
		defer probe.release()
	}

	vis := make([]*PaintNode, 0, len(nodes))
	for _, n := range nodes {
		if n.visible() {
			vis = append(vis, n)
		}
	}

	if mode == PlanesOnly {
		if kept, bg, ok := lowerBackground(out, vis); ok {
			vis = kept
			p.tracker.background = bg
		}
	}

	// One top-to-bottom walk; region accumulation depends on this order.
	unplaced := 0
	for _, n := range vis {
		if p.tracker.occluded(n) {
			continue
		}
		if ps := p.match(n); ps == nil {
			unplaced++
			p.tracker.recordRendered(n)
		}
		p.tracker.recordWalked(n)
	}

	switch mode {
	case RendererOnly, RendererAndCursor:
		// No renderer buffer exists yet, so the state is provisional and
		// normally not testable. A pending writeback job is the exception:
		// it holds hardware resources, so the test is meaningful and its
		// failure is what triggers the writeback abort-and-retry path.
		if out.WritebackPending {
			if err := e.dev.AtomicTest(out, st); err != nil {
				st.Release()
				return nil, fmt.Errorf("%w: %v", ErrAtomicTest, err)
			}
		}
	case PlanesOnly:
		if unplaced > 0 {
			st.Release()
			return nil, fmt.Errorf("%w: %d view(s) unplaced", ErrNoPlanes, unplaced)
		}
		st.assertConsistent()
		if err := e.dev.AtomicTest(out, st); err != nil {
			st.Release()
			return nil, fmt.Errorf("%w: %v", ErrAtomicTest, err)
		}
	case Mixed:
		st.assertConsistent()
		if err := e.dev.AtomicTest(out, st); err != nil {
			st.Release()
			return nil, fmt.Errorf("%w: %v", ErrAtomicTest, err)
		}
	}

	return st, nil
}

// seedScanout inserts the mixed-mode baseline: the last renderer
// framebuffer on the primary plane at its lowest-priority zpos. The whole
// mode fails if no eligible framebuffer exists.
func (p *proposal) seedScanout() (*scanoutProbe, error) {
	fb := p.out.LastRendererFB
	b := p.out.Bounds
	if fb == nil || fb.Width != b.Dx() || fb.Height != b.Dy() {
		return nil, ErrNoBaseline
	}
	var primary *Plane
	idx := -1
	for i, pl := range p.planes {
		if pl.Type == PlanePrimary && !pl.Disabled {
			primary, idx = pl, i
			break
		}
	}
	if primary == nil {
		return nil, fmt.Errorf("%w: no primary plane", ErrNoPlanes)
	}
	ps := &PlaneState{
		Plane:   primary,
		FB:      fb.Ref(),
		Src:     image.Rect(0, 0, fb.Width, fb.Height),
		Dst:     b,
		Zpos:    primary.ZposMin,
		Alpha:   1,
		FenceFD: -1,
	}
	p.st.Planes = append(p.st.Planes, ps)
	p.claimed = p.claimed.Set(idx)
	p.scanout = ps
	return &scanoutProbe{st: p.st, ps: ps}, nil
}

// lowerBackground applies the planes-only background optimization to a
// top-to-bottom visible node list. Fully opaque solid-black nodes are
// absorbed into the background region (the CRTC's implicit black background
// makes them redundant) and dropped. The optimization aborts, reporting
// not-applicable, when a solid non-black node that is not fully occluding
// appears (it would need a background-color plane) or when a remaining
// node overlaps the accumulated background region (the hardware cannot
// express that occlusion order without extra planes).
func lowerBackground(out *Output, nodes []*PaintNode) (kept []*PaintNode, bg Region, ok bool) {
	kept = make([]*PaintNode, 0, len(nodes))
	for _, n := range nodes {
		if n.Solid && n.SolidColor.IsOpaque() && n.Alpha >= 1 {
			if n.SolidColor.IsBlack() {
				bg.AddRegion(n.Visible)
				continue
			}
			if !n.Opaque.Covers(out.Bounds) {
				return nil, Region{}, false
			}
		}
		if bg.IntersectsRegion(n.Visible) {
			return nil, Region{}, false
		}
		kept = append(kept, n)
	}
	return kept, bg, true
}

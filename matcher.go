package scanout

import "image"

// match computes the feasible plane set for one paint node, walks the
// candidates in plane-list order and claims the first one that survives
// every gate (and, in mixed mode, the atomic test). It returns the claimed
// state, or nil with the rejection causes accumulated on the node.
func (p *proposal) match(n *PaintNode) *PlaneState {
	// Mode gating.
	switch p.mode {
	case RendererOnly:
		n.Reasons |= ReasonForcedRenderer
		return nil
	case RendererAndCursor:
		if !n.CursorLayer {
			n.Reasons |= ReasonForcedRenderer
			return nil
		}
	}

	// Buffer validity gating.
	if n.Solid {
		n.Reasons |= ReasonSolidFill
		return nil
	}
	if n.Buffer == nil {
		n.Reasons |= ReasonNoBuffer
		return nil
	}
	if !n.TransformValid {
		n.Reasons |= ReasonTransform
		return nil
	}
	if n.Protected && !p.out.Protected {
		n.Reasons |= ReasonContentProtection
		return nil
	}
	if p.out.ColorEffect {
		n.Reasons |= ReasonColorEffect
		return nil
	}
	if !n.IdentityColorPipeline {
		n.Reasons |= ReasonNoColorTransform
		return nil
	}

	caps := p.e.dev.Caps()
	cands, res := p.candidates(n, caps)

	// Scanout preference: a single view exactly covering the output takes
	// the primary plane exclusively, if nothing claimed it before. The
	// primary plane is reachable only through this path; placing an
	// arbitrary view on it would invert the z-order under later overlays.
	if p.mode == PlanesOnly && p.scanout == nil && res.FB != nil &&
		n.opaque() && n.Visible.CoversExactly(p.out.Bounds) {
		cands = p.primaryMask().Intersect(res.Planes)
	}
	if cands.Empty() {
		if res.FB != nil {
			n.Reasons |= ReasonNoPlanes
		}
		return nil
	}

	// A node overlapping the renderer-occupied region cannot be an
	// overlay; it either renders or goes below the scanout plane. Below
	// the scanout buffer only fully opaque content is ever visible, so a
	// translucent view cannot be an underlay regardless of plane ranges.
	underlay := p.tracker.needsUnderlay(n)
	if underlay && (!caps.Underlay || !n.opaque()) {
		n.Reasons |= ReasonOccludedByRenderer
		return nil
	}

	scanZ := p.scanoutZpos()
	for i, pl := range p.planes {
		if !cands.Has(i) || p.claimed.Has(i) {
			continue
		}
		if n.Alpha < 1 && !pl.SupportsAlpha() {
			n.Reasons |= ReasonGlobalAlpha
			continue
		}
		// Underlay-only planes sit entirely below the scanout zpos. They
		// are usable only when the backend can punch holes and the view is
		// fully opaque (plane alpha below an opaque scanout buffer would
		// never be visible otherwise).
		if pl.ZposMax < scanZ && !(caps.Underlay && n.opaque()) {
			continue
		}
		// The chain's lowest free zpos slot must fall inside the plane's range.
		low, claimed := p.overlayLow, p.overlayClaimed
		if underlay {
			// The scanout buffer is an implicit prior claim for the
			// underlay chain.
			low, claimed = p.underlayLow, true
			if !p.underlayClaimed {
				low = scanZ
			}
		}
		if claimed && pl.ZposMin >= low {
			continue
		}
		if n.FenceFD > 0 && !pl.InFence {
			n.Reasons |= ReasonInFence
			continue
		}

		zpos := pl.ZposMax
		if claimed {
			zpos = min(low-1, pl.ZposMax)
		}
		// An overlay may not land at or below the scanout buffer.
		if !underlay && p.scanout != nil && zpos <= p.scanout.Zpos {
			continue
		}

		ps := p.realize(n, pl, res, zpos, caps)
		if ps == nil {
			continue
		}
		ps.NeedsHole = p.scanout != nil && zpos < p.scanout.Zpos

		p.st.Planes = append(p.st.Planes, ps)
		if p.mode == Mixed {
			// Incremental oracle: test against the seeded baseline.
			if err := p.e.dev.AtomicTest(p.out, p.st); err != nil {
				p.st.remove(ps)
				ps.release()
				n.Reasons |= ReasonAtomicTest
				p.e.log.Debug("candidate rejected by atomic test",
					"output", p.out.Name, "plane", pl.ID, "zpos", zpos, "err", err)
				continue
			}
		}

		p.claimed = p.claimed.Set(i)
		if underlay {
			p.underlayLow, p.underlayClaimed = zpos, true
		} else {
			p.overlayLow, p.overlayClaimed = zpos, true
		}
		if pl.Type == PlanePrimary && p.scanout == nil {
			p.scanout = ps
		}
		n.NeedsHole = ps.NeedsHole
		p.e.log.Debug("view placed on plane",
			"output", p.out.Name, "plane", pl.ID, "type", pl.Type,
			"zpos", zpos, "underlay", underlay)
		return ps
	}

	n.Reasons |= ReasonNoPlanes
	return nil
}

// candidates builds the feasible plane mask for n, importing the
// framebuffer as a side effect. SHM buffers are cursor-plane-only with
// strict size, format and sampling constraints; everything else is open to
// any non-cursor plane whose transform support matches, intersected with
// the compatibility mask reported by the import.
func (p *proposal) candidates(n *PaintNode, caps DeviceCaps) (PlaneMask, ImportResult) {
	var cands PlaneMask

	if n.Buffer.Type == BufferSHM {
		if caps.CursorWidth == 0 {
			n.Reasons |= ReasonBufferType
			return 0, ImportResult{}
		}
		if n.Buffer.Width > caps.CursorWidth || n.Buffer.Height > caps.CursorHeight {
			n.Reasons |= ReasonBufferTooLarge
			return 0, ImportResult{}
		}
		if n.Buffer.Format != FormatARGB8888 {
			n.Reasons |= ReasonFormatIncompatible
			return 0, ImportResult{}
		}
		if n.cropped() || n.scaled() {
			n.Reasons |= ReasonTransform
			return 0, ImportResult{}
		}
		res, reason := p.e.importFramebuffer(p.out, n)
		if res.FB == nil {
			n.Reasons |= reason
			return 0, ImportResult{}
		}
		for i, pl := range p.planes {
			if pl.Type == PlaneCursor && !pl.Disabled {
				cands = cands.Set(i)
			}
		}
		return cands.Intersect(res.Planes), res
	}

	if !caps.GPUImport {
		n.Reasons |= ReasonNoGPU
		return 0, ImportResult{}
	}
	res, reason := p.e.importFramebuffer(p.out, n)
	if res.FB == nil {
		n.Reasons |= reason
		return 0, ImportResult{}
	}
	for i, pl := range p.planes {
		// Cursor planes take SHM cursors only; the primary plane is
		// reachable only through the scanout preference.
		if pl.Type != PlaneOverlay || pl.Disabled {
			continue
		}
		if !pl.Transforms.Has(n.Transform) {
			n.Reasons |= ReasonTransform
			continue
		}
		cands = cands.Set(i)
	}
	return cands.Intersect(res.Planes), res
}

// realize builds the trial plane state for a candidate. For the cursor
// plane the destination has the fixed cursor dimensions regardless of the
// view size; for everything else the view's crop and placement carry over
// and the YUV color representation is resolved and validated.
func (p *proposal) realize(n *PaintNode, pl *Plane, res ImportResult, zpos int, caps DeviceCaps) *PlaneState {
	ps := &PlaneState{
		Plane:   pl,
		Node:    n,
		Zpos:    zpos,
		Alpha:   n.Alpha,
		FenceFD: n.FenceFD,
	}
	if pl.Type == PlaneCursor {
		ps.FB = res.FB.Ref()
		ps.Src = image.Rect(0, 0, n.Buffer.Width, n.Buffer.Height)
		ps.Dst = image.Rect(n.Dst.Min.X, n.Dst.Min.Y,
			n.Dst.Min.X+caps.CursorWidth, n.Dst.Min.Y+caps.CursorHeight)
		return ps
	}
	if n.Buffer.YUV {
		enc, rng, ok := p.e.dev.ResolveColor(n.Buffer)
		if !ok {
			n.Reasons |= ReasonFormatIncompatible
			return nil
		}
		if !pl.SupportsColor(enc, rng) {
			n.Reasons |= ReasonFormatIncompatible
			return nil
		}
		ps.Encoding, ps.Range = enc, rng
	}
	ps.FB = res.FB.Ref()
	ps.Src = n.Src
	ps.Dst = n.Dst
	return ps
}

// primaryMask returns the mask of enabled primary planes.
func (p *proposal) primaryMask() PlaneMask {
	var m PlaneMask
	for i, pl := range p.planes {
		if pl.Type == PlanePrimary && !pl.Disabled {
			m = m.Set(i)
		}
	}
	return m
}

// scanoutZpos is the stacking floor overlays must stay above: the claimed
// scanout state's zpos, or the primary plane's lowest position before any
// claim.
func (p *proposal) scanoutZpos() int {
	if p.scanout != nil {
		return p.scanout.Zpos
	}
	for _, pl := range p.planes {
		if pl.Type == PlanePrimary && !pl.Disabled {
			return pl.ZposMin
		}
	}
	return 0
}

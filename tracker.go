package scanout

// regionTracker accumulates the three regions that steer plane candidacy
// across one top-to-bottom paint-node walk:
//
//   - renderer: area claimed by views falling back to GPU compositing.
//     A view intersecting it can never go on an overlay plane; it must
//     render too, or be placed as an underlay.
//   - obscured: area covered by opaque views already walked (higher in z).
//   - background: area absorbed by the background-lowering optimization,
//     represented by the CRTC's implicit black background.
//
// The bookkeeping depends on strict top-to-bottom order and must not be
// parallelized.
type regionTracker struct {
	renderer   Region
	obscured   Region
	background Region
}

// recordRendered notes that n will be composited by the renderer.
func (t *regionTracker) recordRendered(n *PaintNode) {
	t.renderer.AddRegion(n.Visible)
}

// recordWalked notes n's occlusion contribution after its placement was
// decided. Only the opaque part occludes lower views.
func (t *regionTracker) recordWalked(n *PaintNode) {
	if n.Alpha >= 1 {
		t.obscured.AddRegion(n.Opaque)
	}
}

// occluded reports whether n is fully hidden behind opaque views already
// walked. Such nodes are never assigned a plane and never contribute to
// region unions.
func (t *regionTracker) occluded(n *PaintNode) bool {
	return !n.Visible.Empty() && t.obscured.CoversRegion(n.Visible)
}

// needsUnderlay reports whether n overlaps the renderer-occupied region,
// which structurally rules out an overlay placement.
func (t *regionTracker) needsUnderlay(n *PaintNode) bool {
	return t.renderer.IntersectsRegion(n.Visible)
}

package scanout

// CompositingMode selects how much of a repaint is handled by hardware
// planes versus the GPU renderer. Modes are attempted in order of GPU-work
// minimization; see Engine.Repaint.
type CompositingMode uint8

const (
	// RendererOnly composites every view on the GPU. Always constructible;
	// the terminal fallback.
	RendererOnly CompositingMode = iota

	// RendererAndCursor composites everything on the GPU except views in
	// the cursor layer, which may use the cursor plane.
	RendererAndCursor

	// PlanesOnly places every visible view on a hardware plane. No renderer
	// buffer exists in the accepted state.
	PlanesOnly

	// Mixed renders some views on the GPU and places the rest on overlay
	// or underlay planes above or below the renderer's scanout buffer.
	Mixed
)

// String returns a human-readable mode name.
func (m CompositingMode) String() string {
	switch m {
	case RendererOnly:
		return "renderer-only"
	case RendererAndCursor:
		return "renderer-and-cursor"
	case PlanesOnly:
		return "planes-only"
	case Mixed:
		return "mixed"
	default:
		return "unknown"
	}
}

// usesRenderer reports whether the mode produces a renderer buffer.
func (m CompositingMode) usesRenderer() bool {
	return m != PlanesOnly
}

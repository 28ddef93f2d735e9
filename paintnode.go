package scanout

import "image"

// PaintNode is one view as it appears in z-order on one output. It is owned
// by the scene graph; the engine reads the placement attributes and writes
// the decision side channels (Reasons, NeedsHole, the final binding and the
// presentation feedback flags).
type PaintNode struct {
	// Surface is the stable identity of the backing surface, used for
	// dmabuf feedback debouncing across repaints.
	Surface uint64

	// Buffer is the attached client buffer, nil if none.
	Buffer *Buffer

	// Visible is the node's visible area on the output, with occlusion by
	// higher views already applied by the scene graph.
	Visible Region

	// Opaque is the opaque part of the visible area.
	Opaque Region

	// Alpha is the node's global alpha in [0, 1].
	Alpha float64

	// Solid marks a solid-color fill surface; SolidColor is its color.
	Solid      bool
	SolidColor RGBA

	// Transform is the buffer transform relative to the output.
	Transform Transform

	// TransformValid reports whether the node's full transform (including
	// scaling and projection) is expressible by plane hardware at all.
	TransformValid bool

	// ColorTransformValid reports whether the node's color transform is
	// renderable; invalid nodes are not visible this repaint.
	ColorTransformValid bool

	// IdentityColorPipeline reports whether the per-surface color pipeline
	// is an identity; anything else forces GPU compositing.
	IdentityColorPipeline bool

	// Protected marks content that may only reach a protected link.
	Protected bool

	// CursorLayer marks views in the cursor layer of the scene graph.
	CursorLayer bool

	// FenceFD is the acquire fence for the buffer; values <= 0 mean none.
	FenceFD int

	// Src is the source crop in buffer coordinates.
	Src image.Rectangle

	// Dst is the node's placement on the output.
	Dst image.Rectangle

	// Reasons accumulates why hardware placement was rejected. Reset only
	// at the start of a repaint; consumed by the dmabuf-feedback advisor.
	Reasons Reason

	// NeedsHole is set when the node was placed as an underlay and the
	// renderer must punch a transparent hole above it.
	NeedsHole bool

	// Plane is the final binding after commit-time binding: the plane the
	// view won, or the primary (renderer) plane when composited.
	Plane *Plane

	// ZeroCopy reports direct scanout presentation feedback: true for any
	// won plane other than cursor, false for cursor and composited views.
	ZeroCopy bool

	// RetainBuffer reports whether the surface's buffer must be kept alive
	// past the commit (dmabuf buffers, or SHM buffers small enough for the
	// cursor plane).
	RetainBuffer bool
}

// visible reports whether the node takes part in a repaint at all: its
// color transform must be renderable, it must not be fully transparent and
// it must not be fully occluded.
func (n *PaintNode) visible() bool {
	return n.ColorTransformValid && n.Alpha > 0 && !n.Visible.Empty()
}

// opaque reports whether the node's visible area is fully opaque.
func (n *PaintNode) opaque() bool {
	return n.Alpha >= 1 && n.Opaque.CoversRegion(n.Visible)
}

// cropped reports whether the buffer is sampled from a sub-rectangle.
func (n *PaintNode) cropped() bool {
	if n.Buffer == nil {
		return false
	}
	return n.Src != image.Rect(0, 0, n.Buffer.Width, n.Buffer.Height)
}

// scaled reports whether the source crop and destination differ in size.
func (n *PaintNode) scaled() bool {
	return n.Src.Dx() != n.Dst.Dx() || n.Src.Dy() != n.Dst.Dy()
}

// resetDecision clears the per-repaint side channels at repaint start.
func (n *PaintNode) resetDecision() {
	n.Reasons = 0
	n.NeedsHole = false
	n.Plane = nil
	n.ZeroCopy = false
	n.RetainBuffer = false
}

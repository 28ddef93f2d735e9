package scanout

import "image"

// stubDevice is a minimal in-package Device for unit tests. The virtual
// backend provides the full-fidelity model; this stub exists so tests can
// reach unexported engine internals and count device calls.
type stubDevice struct {
	planes []*Plane
	caps   DeviceCaps

	// planeMask overrides the import compatibility mask; default all planes.
	planeMask func(out *Output, n *PaintNode) PlaneMask

	// importErr fails every import with the given reason.
	importErr Reason

	// testErr, if set, decides every atomic test.
	testErr func(out *Output, st *OutputState) error

	// noColor makes ResolveColor fail for YUV buffers.
	noColor bool

	imports int
	tests   int
	live    int
}

// Compile-time interface check.
var _ Device = (*stubDevice)(nil)

// stubPlanes is the default plane table: a primary fixed at zpos 0, an
// alpha- and YUV-capable overlay, an overlay whose zpos range reaches below
// the primary (the underlay path), and a cursor plane. Plane IDs are 1-4 in
// list order.
func stubPlanes() []*Plane {
	return []*Plane{
		{
			ID: 1, Type: PlanePrimary,
			ZposMin: 0, ZposMax: 0,
			AlphaMin: 1, AlphaMax: 1,
			Transforms: TransformNormalOnly,
			InFence:    true,
		},
		{
			ID: 2, Type: PlaneOverlay,
			ZposMin: 1, ZposMax: 3,
			AlphaMin: 0, AlphaMax: 1,
			Encodings:  1<<EncodingBT601 | 1<<EncodingBT709,
			Ranges:     1 << RangeLimited,
			Transforms: TransformNormalOnly,
			InFence:    true,
		},
		{
			ID: 3, Type: PlaneOverlay,
			ZposMin: -1, ZposMax: 2,
			AlphaMin: 1, AlphaMax: 1,
			Transforms: TransformNormalOnly,
		},
		{
			ID: 4, Type: PlaneCursor,
			ZposMin: 4, ZposMax: 4,
			AlphaMin: 0, AlphaMax: 1,
			Transforms: TransformNormalOnly,
			InFence:    true,
		},
	}
}

func newStubDevice() *stubDevice {
	return &stubDevice{
		planes: stubPlanes(),
		caps: DeviceCaps{
			Underlay:     true,
			CursorWidth:  256,
			CursorHeight: 256,
			GPUImport:    true,
		},
	}
}

func (d *stubDevice) Planes(out *Output) []*Plane {
	if out.Virtual {
		return nil
	}
	return d.planes
}

func (d *stubDevice) Caps() DeviceCaps { return d.caps }

func (d *stubDevice) AtomicTest(out *Output, st *OutputState) error {
	d.tests++
	if d.testErr != nil {
		return d.testErr(out, st)
	}
	return nil
}

func (d *stubDevice) ImportFramebuffer(out *Output, n *PaintNode) (ImportResult, Reason) {
	if d.importErr != 0 {
		return ImportResult{}, d.importErr
	}
	d.imports++
	d.live++
	fb := NewFramebuffer(uint64(100+d.imports), n.Buffer.Width, n.Buffer.Height,
		n.Buffer.Format, n.Buffer.Modifier, func() { d.live-- })
	mask := PlaneMask(1)<<uint(len(d.planes)) - 1
	if d.planeMask != nil {
		mask = d.planeMask(out, n)
	}
	return ImportResult{FB: fb, Planes: mask}, 0
}

func (d *stubDevice) ResolveColor(buf *Buffer) (ColorEncoding, ColorRange, bool) {
	if !buf.YUV || d.noColor {
		return 0, 0, false
	}
	return EncodingBT601, RangeLimited, true
}

var testBounds = image.Rect(0, 0, 1920, 1080)

// testOutput returns an output with a baseline renderer framebuffer so
// mixed-mode proposals are constructible.
func testOutput() *Output {
	return &Output{
		Name:   "TEST-1",
		Bounds: testBounds,
		LastRendererFB: NewFramebuffer(99, testBounds.Dx(), testBounds.Dy(),
			FormatXRGB8888, ModifierLinear, nil),
	}
}

// dmabufView builds an opaque dmabuf-backed node with its visible region
// equal to dst. Tests adjust fields afterwards.
func dmabufView(surface uint64, dst image.Rectangle) *PaintNode {
	return &PaintNode{
		Surface: surface,
		Buffer: &Buffer{
			ID:     surface,
			Type:   BufferDmabuf,
			Width:  dst.Dx(),
			Height: dst.Dy(),
			Format: FormatXRGB8888,
		},
		Alpha:                 1,
		TransformValid:        true,
		ColorTransformValid:   true,
		IdentityColorPipeline: true,
		Visible:               RegionFromRect(dst),
		Opaque:                RegionFromRect(dst),
		Src:                   image.Rect(0, 0, dst.Dx(), dst.Dy()),
		Dst:                   dst,
	}
}

// shmCursorView builds a cursor-layer SHM node at dst.
func shmCursorView(surface uint64, dst image.Rectangle) *PaintNode {
	n := dmabufView(surface, dst)
	n.Buffer.Type = BufferSHM
	n.Buffer.Format = FormatARGB8888
	n.CursorLayer = true
	n.Opaque = Region{}
	return n
}

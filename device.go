package scanout

import "errors"

// Common engine errors. Per-view placement failures are not errors (they
// accumulate as Reason flags); errors abort a single mode attempt and move
// the fallback driver to the next mode.
var (
	// ErrAtomicTest is returned when the device rejects a proposed state.
	ErrAtomicTest = errors.New("scanout: atomic test failed")

	// ErrNoBaseline is returned when mixed mode has no previous renderer
	// framebuffer of the right dimensions to seed its scanout probe.
	ErrNoBaseline = errors.New("scanout: no baseline framebuffer for mixed mode")

	// ErrNoPlanes is returned when a plane-based mode could not place
	// every view it had to.
	ErrNoPlanes = errors.New("scanout: not all views fit on planes")
)

// DeviceCaps are the static capabilities of the device backend.
type DeviceCaps struct {
	// Underlay reports whether the backend can place overlay planes below
	// the scanout plane, with the renderer punching transparent holes.
	Underlay bool

	// BrokenSprites reports known-bad overlay hardware; plane-based modes
	// are skipped entirely when set.
	BrokenSprites bool

	// CursorWidth and CursorHeight are the fixed cursor plane dimensions.
	// Zero means no cursor plane.
	CursorWidth, CursorHeight int

	// GPUImport reports whether a GPU buffer import path exists.
	GPUImport bool
}

// ImportResult is the outcome of a successful framebuffer import.
type ImportResult struct {
	// FB is the imported framebuffer. The device hands over one reference;
	// the importer (the engine's import cache) owns it.
	FB *Framebuffer

	// Planes is the format/modifier compatibility mask over the device's
	// per-output plane list.
	Planes PlaneMask
}

// Device is the backend layer the engine drives. Implementations wrap a
// KMS device or, for tests and simulation, an in-memory model. All calls
// are blocking and are made from the compositor's main loop only.
type Device interface {
	// Planes enumerates the planes usable on out, in plane-list order.
	// The order is meaningful: the matcher walks candidates in it.
	Planes(out *Output) []*Plane

	// Caps returns the device capabilities.
	Caps() DeviceCaps

	// AtomicTest validates st against the hardware without applying it.
	// An error means the configuration is not committable.
	AtomicTest(out *Output, st *OutputState) error

	// ImportFramebuffer creates a framebuffer for the node's buffer.
	// On failure the returned Reason carries the causes (add-fb failed,
	// format incompatible, modifier invalid, import failed).
	ImportFramebuffer(out *Output, n *PaintNode) (ImportResult, Reason)

	// ResolveColor resolves the color encoding and range for a YUV
	// buffer. ok is false when no representation exists.
	ResolveColor(buf *Buffer) (enc ColorEncoding, rng ColorRange, ok bool)
}

package scanout

// BufferType classifies the client buffer attached to a surface.
type BufferType uint8

const (
	// BufferDmabuf is a GPU-allocated buffer importable for direct scanout.
	BufferDmabuf BufferType = iota

	// BufferSHM is a shared-memory buffer; only the cursor plane can scan
	// it out, and only within the cursor dimensions.
	BufferSHM
)

// String returns a human-readable buffer type name.
func (t BufferType) String() string {
	switch t {
	case BufferDmabuf:
		return "dmabuf"
	case BufferSHM:
		return "shm"
	default:
		return "unknown"
	}
}

// Buffer describes the client buffer currently attached to a view. The
// engine only reads it; buffer memory management beyond framebuffer
// reference counting is external.
type Buffer struct {
	// ID identifies the buffer across repaints. Framebuffer imports are
	// memoized on it.
	ID uint64

	// Type is the buffer allocation kind.
	Type BufferType

	// Width and Height are the buffer dimensions in pixels.
	Width, Height int

	// Format is the DRM fourcc of the buffer contents.
	Format uint32

	// Modifier is the DRM format modifier.
	Modifier uint64

	// YUV marks formats that need a color encoding/range resolved before
	// plane placement.
	YUV bool
}

package scanout

import "fmt"

// FourCC builds a DRM pixel format code from its four character codes.
func FourCC(a, b, c, d byte) uint32 {
	return uint32(a) | uint32(b)<<8 | uint32(c)<<16 | uint32(d)<<24
}

// Common DRM formats the engine cares about.
var (
	FormatARGB8888 = FourCC('A', 'R', '2', '4')
	FormatXRGB8888 = FourCC('X', 'R', '2', '4')
	FormatNV12     = FourCC('N', 'V', '1', '2')
)

// ModifierLinear is the linear (no tiling) buffer modifier.
const ModifierLinear uint64 = 0

// Framebuffer is a device framebuffer wrapping an imported client buffer.
// It is reference counted: every PlaneState holding a non-nil framebuffer
// owns exactly one reference, released exactly once when the state is
// destroyed or handed off. The engine is single-threaded, so the count is
// a plain integer.
type Framebuffer struct {
	// ID is the device framebuffer id.
	ID uint64

	// Width and Height are the buffer dimensions in pixels.
	Width, Height int

	// Format is the DRM fourcc of the buffer.
	Format uint32

	// Modifier is the DRM format modifier of the buffer.
	Modifier uint64

	refs    int
	release func()
}

// NewFramebuffer returns a framebuffer holding one reference. The release
// hook, if non-nil, runs when the last reference is dropped.
func NewFramebuffer(id uint64, width, height int, format uint32, modifier uint64, release func()) *Framebuffer {
	return &Framebuffer{
		ID:       id,
		Width:    width,
		Height:   height,
		Format:   format,
		Modifier: modifier,
		refs:     1,
		release:  release,
	}
}

// Ref takes an additional reference and returns fb for chaining.
// Ref on a nil framebuffer is a no-op.
func (fb *Framebuffer) Ref() *Framebuffer {
	if fb == nil {
		return nil
	}
	if fb.refs <= 0 {
		panic(fmt.Sprintf("scanout: ref of released framebuffer %d", fb.ID))
	}
	fb.refs++
	return fb
}

// Unref drops one reference, running the release hook when the count
// reaches zero. Unref on a nil framebuffer is a no-op.
func (fb *Framebuffer) Unref() {
	if fb == nil {
		return
	}
	if fb.refs <= 0 {
		panic(fmt.Sprintf("scanout: unbalanced unref of framebuffer %d", fb.ID))
	}
	fb.refs--
	if fb.refs == 0 && fb.release != nil {
		fb.release()
	}
}

// Refs returns the current reference count. Exposed for tests.
func (fb *Framebuffer) Refs() int {
	if fb == nil {
		return 0
	}
	return fb.refs
}

package scanout

import "math/bits"

// PlaneType classifies a hardware scanout plane.
type PlaneType uint8

const (
	// PlanePrimary is the scanout plane conventionally covering the full
	// CRTC, typically at the lowest zpos.
	PlanePrimary PlaneType = iota

	// PlaneOverlay composites above (or, as an underlay, below) the
	// primary plane.
	PlaneOverlay

	// PlaneCursor is a small fixed-size plane for the pointer image.
	PlaneCursor
)

// String returns a human-readable plane type name.
func (t PlaneType) String() string {
	switch t {
	case PlanePrimary:
		return "primary"
	case PlaneOverlay:
		return "overlay"
	case PlaneCursor:
		return "cursor"
	default:
		return "unknown"
	}
}

// ColorEncoding is the YUV-to-RGB matrix a plane applies to YUV buffers.
type ColorEncoding uint8

const (
	EncodingBT601 ColorEncoding = iota
	EncodingBT709
	EncodingBT2020
)

// ColorRange is the quantization range of a YUV buffer.
type ColorRange uint8

const (
	RangeLimited ColorRange = iota
	RangeFull
)

// EncodingMask is a bit set over ColorEncoding values.
type EncodingMask uint8

// RangeMask is a bit set over ColorRange values.
type RangeMask uint8

// Transform is one of the eight output transforms (rotations and flips).
type Transform uint8

const (
	TransformNormal Transform = iota
	Transform90
	Transform180
	Transform270
	TransformFlipped
	TransformFlipped90
	TransformFlipped180
	TransformFlipped270
)

// TransformMask is a bit set over Transform values.
type TransformMask uint16

// TransformNormalOnly is the transform support of typical plane hardware.
const TransformNormalOnly = TransformMask(1 << TransformNormal)

// Has reports whether the mask contains t.
func (m TransformMask) Has(t Transform) bool { return m&(1<<t) != 0 }

// Plane describes one hardware scanout plane of the device. Planes are
// owned by the device for its lifetime and referenced, never owned, by
// plane states.
//
// The current state pointer is double-buffered against proposals: mode
// proposals within one repaint only read it, and the commit-time binder is
// the single mutating phase after a mode is accepted.
type Plane struct {
	// ID is the KMS object id of the plane.
	ID uint32

	// Type classifies the plane.
	Type PlaneType

	// ZposMin and ZposMax bound the stacking positions the plane accepts.
	ZposMin, ZposMax int

	// AlphaMin and AlphaMax bound the per-plane alpha property.
	// AlphaMin == AlphaMax means the plane has no usable alpha control.
	AlphaMin, AlphaMax float64

	// Encodings and Ranges describe YUV color capability.
	Encodings EncodingMask
	Ranges    RangeMask

	// Transforms is the set of buffer transforms the plane can apply.
	Transforms TransformMask

	// InFence reports whether the plane can wait on an acquire fence.
	InFence bool

	// Disabled marks the plane unavailable on this output.
	Disabled bool

	current *PlaneState
}

// SupportsAlpha reports whether the plane exposes a usable alpha range.
func (p *Plane) SupportsAlpha() bool { return p.AlphaMax > p.AlphaMin }

// SupportsColor reports whether the plane accepts the encoding/range pair.
func (p *Plane) SupportsColor(enc ColorEncoding, rng ColorRange) bool {
	return p.Encodings&(1<<enc) != 0 && p.Ranges&(1<<rng) != 0
}

// Current returns the plane state applied by the last accepted commit,
// or nil if the plane is idle.
func (p *Plane) Current() *PlaneState { return p.current }

// PlaneMask is a bit set over plane indices in the device's per-output
// plane list. Candidate sets and format-compatibility masks use it so that
// invalid combinations cannot be expressed as raw integers.
type PlaneMask uint64

// Set returns the mask with plane index i added.
func (m PlaneMask) Set(i int) PlaneMask { return m | 1<<uint(i) }

// Has reports whether plane index i is in the mask.
func (m PlaneMask) Has(i int) bool { return m&(1<<uint(i)) != 0 }

// Empty reports whether no plane is in the mask.
func (m PlaneMask) Empty() bool { return m == 0 }

// Intersect returns the planes present in both masks.
func (m PlaneMask) Intersect(o PlaneMask) PlaneMask { return m & o }

// Count returns the number of planes in the mask.
func (m PlaneMask) Count() int { return bits.OnesCount64(uint64(m)) }

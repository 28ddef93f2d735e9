package scanout

import "strings"

// Reason is a typed bit-flag set recording why hardware placement was
// rejected for one paint node. Reasons accumulate across all candidate
// planes and mode attempts within one repaint and are reset only at the
// start of the next repaint. They are consumed by the dmabuf-feedback
// advisor to decide whether a better buffer allocation could fix placement.
type Reason uint32

const (
	// ReasonForcedRenderer: the compositing mode excludes hardware planes
	// for this node.
	ReasonForcedRenderer Reason = 1 << iota

	// ReasonNoPlanes: every candidate plane was rejected or already claimed.
	ReasonNoPlanes

	// ReasonContentProtection: the view demands content protection the
	// output link cannot provide.
	ReasonContentProtection

	// ReasonTransform: the view's transform cannot be expressed by the
	// plane hardware.
	ReasonTransform

	// ReasonNoBuffer: the view has no attached buffer.
	ReasonNoBuffer

	// ReasonBufferTooLarge: the buffer exceeds the cursor plane dimensions.
	ReasonBufferTooLarge

	// ReasonBufferType: the buffer type cannot be scanned out.
	ReasonBufferType

	// ReasonGlobalAlpha: the view has alpha < 1 and the plane does not
	// support per-plane alpha.
	ReasonGlobalAlpha

	// ReasonNoGPU: no GPU import path exists on this device.
	ReasonNoGPU

	// ReasonNoColorTransform: the view carries a non-identity per-surface
	// color pipeline.
	ReasonNoColorTransform

	// ReasonSolidFill: the view is a solid-color fill without a buffer
	// suitable for scanout.
	ReasonSolidFill

	// ReasonOccludedByRenderer: the view intersects the renderer-occupied
	// region and cannot go below it (no underlay support, or the view is
	// not fully opaque).
	ReasonOccludedByRenderer

	// ReasonColorEffect: an output-wide color effect forces GPU compositing.
	ReasonColorEffect

	// ReasonAddFBFailed: framebuffer creation failed on the device.
	ReasonAddFBFailed

	// ReasonFormatIncompatible: the buffer format is not supported by any
	// candidate plane.
	ReasonFormatIncompatible

	// ReasonModifierInvalid: the buffer modifier is not supported by any
	// candidate plane.
	ReasonModifierInvalid

	// ReasonImportFailed: GBM/dmabuf import failed.
	ReasonImportFailed

	// ReasonAtomicTest: the candidate was rejected by the atomic test.
	ReasonAtomicTest

	// ReasonInFence: the view carries an acquire fence the plane cannot
	// express.
	ReasonInFence
)

// allocationFixable are the reasons a client could address by allocating
// its buffers with different parameters. They drive the dmabuf scanout
// tranche hints.
const allocationFixable = ReasonFormatIncompatible | ReasonModifierInvalid |
	ReasonAddFBFailed | ReasonImportFailed | ReasonBufferType

// Has reports whether all flags in f are set.
func (r Reason) Has(f Reason) bool { return r&f == f }

var reasonNames = []struct {
	flag Reason
	name string
}{
	{ReasonForcedRenderer, "forced-renderer"},
	{ReasonNoPlanes, "no-planes"},
	{ReasonContentProtection, "content-protection"},
	{ReasonTransform, "transform"},
	{ReasonNoBuffer, "no-buffer"},
	{ReasonBufferTooLarge, "buffer-too-large"},
	{ReasonBufferType, "buffer-type"},
	{ReasonGlobalAlpha, "global-alpha"},
	{ReasonNoGPU, "no-gpu"},
	{ReasonNoColorTransform, "color-transform"},
	{ReasonSolidFill, "solid-fill"},
	{ReasonOccludedByRenderer, "occluded-by-renderer"},
	{ReasonColorEffect, "color-effect"},
	{ReasonAddFBFailed, "add-fb-failed"},
	{ReasonFormatIncompatible, "format-incompatible"},
	{ReasonModifierInvalid, "modifier-invalid"},
	{ReasonImportFailed, "import-failed"},
	{ReasonAtomicTest, "atomic-test"},
	{ReasonInFence, "in-fence"},
}

// String returns the set flags joined by "|", or "none".
func (r Reason) String() string {
	if r == 0 {
		return "none"
	}
	var parts []string
	for _, rn := range reasonNames {
		if r&rn.flag != 0 {
			parts = append(parts, rn.name)
		}
	}
	return strings.Join(parts, "|")
}

package scanout

import "image"

// Output is the per-output context the engine solves for. It is owned by
// the compositor core; the engine reads its capabilities and, through
// SetCurrent, the caller records the state applied by a successful commit.
type Output struct {
	// Name identifies the output in logs.
	Name string

	// Bounds is the output extents in compositor coordinates.
	Bounds image.Rectangle

	// PlanesDisabled turns off all hardware plane use for this output.
	PlanesDisabled bool

	// Virtual marks headless/virtual outputs, which have no planes.
	Virtual bool

	// ColorEffect reports an active output-wide color effect (night light
	// shader or similar) that forces GPU compositing.
	ColorEffect bool

	// Protected reports whether the output link carries content
	// protection.
	Protected bool

	// LastRendererFB is the framebuffer produced by the most recent
	// renderer pass, if any. Mixed-mode proposals use it as the baseline
	// scanout buffer for incremental atomic tests. The engine borrows it;
	// references taken during a proposal are released before the proposal
	// returns.
	LastRendererFB *Framebuffer

	// WritebackPending reports an in-flight writeback screenshot job.
	// AbortWriteback cancels it; the fallback driver uses this to retry a
	// renderer mode whose atomic test fails while writeback holds
	// hardware resources.
	WritebackPending bool
	AbortWriteback   func()

	current *OutputState
}

// Current returns the output state applied by the last successful commit,
// or nil before the first commit.
func (o *Output) Current() *OutputState { return o.current }

// SetCurrent records st as the output's applied state. The caller invokes
// this after a successful atomic commit, outside the engine.
func (o *Output) SetCurrent(st *OutputState) { o.current = st }

// Package scanout implements the hardware plane assignment engine of a
// Wayland compositor: for every output repaint it decides which visible
// surfaces are scanned out directly by dedicated display planes and which
// fall back to GPU-composited rendering.
//
// # Overview
//
// The engine is a per-repaint solver. Given the ordered list of paint nodes
// for one output and a device that can enumerate planes and test a proposed
// configuration atomically, it tries compositing modes in order of GPU-work
// minimization:
//
//	PlanesOnly -> Mixed -> RendererAndCursor (or RendererOnly)
//
// and returns the first OutputState that the device accepts. Per-view
// placement failures never abort a mode; they accumulate as Reason flags on
// the paint node and the view simply falls through to the renderer.
//
// # Quick Start
//
//	import (
//	    "github.com/wlkit/scanout"
//	    "github.com/wlkit/scanout/backend/virtual"
//	)
//
//	dev := virtual.New(virtual.DefaultConfig())
//	eng := scanout.New(dev)
//
//	// Once per output per repaint, top-to-bottom z-order:
//	state := eng.Repaint(output, nodes)
//
// The accepted state is handed to the backend commit path; after a
// successful commit the caller makes it current with Output.SetCurrent.
//
// # Architecture
//
// The engine is organized into:
//   - Plane registry: per-output description of hardware planes (plane.go)
//   - Candidate region tracker: renderer/obscured/background regions (tracker.go)
//   - View-to-plane matcher: per-node candidate search (matcher.go)
//   - Mode proposer: one full-output state per compositing mode (proposer.go)
//   - Mode selector: fallback driver (engine.go)
//   - Commit-time binder: final view bindings and feedback (binder.go)
//
// # Concurrency
//
// The engine is single-threaded by design: it runs once per output per
// repaint on the compositor's main loop. Proposal is read-only speculative;
// only the commit-time binder mutates plane state pointers.
package scanout

// Version information
const (
	// Version is the current version of the library
	Version = "0.2.0"
)

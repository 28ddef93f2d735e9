package scanout

import (
	"fmt"
	"image"
)

// PlaneState binds one plane to one view for one output-state generation.
// It references its plane (never owns it) and owns exactly one framebuffer
// reference, released exactly once when the state is discarded.
type PlaneState struct {
	// Plane is the hardware plane this state programs.
	Plane *Plane

	// Node is the view assigned to the plane, nil for baseline states such
	// as the mixed-mode scanout probe. The commit-time binder clears it to
	// avoid holding a stale pointer past the repaint.
	Node *PaintNode

	// FB is the framebuffer to scan out; nil disables the plane.
	FB *Framebuffer

	// Src is the source crop in buffer coordinates.
	Src image.Rectangle

	// Dst is the destination rectangle on the CRTC.
	Dst image.Rectangle

	// Zpos is the stacking position chosen for the plane.
	Zpos int

	// Alpha is the per-plane alpha.
	Alpha float64

	// Encoding and Range configure YUV color interpretation.
	Encoding ColorEncoding
	Range    ColorRange

	// FenceFD is the acquire fence to wait on; values <= 0 mean none.
	FenceFD int

	// NeedsHole marks an underlay placement: the renderer must punch a
	// transparent hole above this plane.
	NeedsHole bool
}

// Enabled reports whether the state actually scans out a buffer.
func (ps *PlaneState) Enabled() bool { return ps != nil && ps.FB != nil }

// release drops the state's framebuffer reference. Safe to call once only.
func (ps *PlaneState) release() {
	ps.FB.Unref()
	ps.FB = nil
	ps.Node = nil
}

// OutputState is the full proposed configuration of one output for one
// repaint. It is created by duplicating the previous current state,
// discarded if any stage fails, and otherwise handed to the backend commit
// path; after a successful commit the caller makes it current.
type OutputState struct {
	// Mode is the compositing mode the state was proposed for.
	Mode CompositingMode

	// Planes are the proposed plane bindings, in claim order.
	Planes []*PlaneState

	// Enabled reports whether the output is lit.
	Enabled bool

	// PowerOn is the DPMS target for the commit.
	PowerOn bool

	// Tearing marks the state eligible for tearing page flips.
	Tearing bool
}

// newOutputState returns a default enabled state for mode.
func newOutputState(mode CompositingMode) *OutputState {
	return &OutputState{Mode: mode, Enabled: true, PowerOn: true}
}

// Duplicate returns a fresh state for the next repaint: output-level flags
// carry over, plane assignments are cleared.
func (s *OutputState) Duplicate(mode CompositingMode) *OutputState {
	if s == nil {
		return newOutputState(mode)
	}
	return &OutputState{
		Mode:    mode,
		Enabled: s.Enabled,
		PowerOn: s.PowerOn,
		Tearing: s.Tearing,
	}
}

// Release discards the state, returning every owned framebuffer reference.
func (s *OutputState) Release() {
	for _, ps := range s.Planes {
		if ps.FB != nil {
			ps.release()
		}
	}
	s.Planes = nil
}

// stateFor returns the state programming p, or nil.
func (s *OutputState) stateFor(p *Plane) *PlaneState {
	for _, ps := range s.Planes {
		if ps.Plane == p {
			return ps
		}
	}
	return nil
}

// stateForNode returns the state assigned to n, or nil.
func (s *OutputState) stateForNode(n *PaintNode) *PlaneState {
	for _, ps := range s.Planes {
		if ps.Node == n {
			return ps
		}
	}
	return nil
}

// remove detaches ps from the state without releasing it.
func (s *OutputState) remove(ps *PlaneState) {
	for i, have := range s.Planes {
		if have == ps {
			s.Planes = append(s.Planes[:i], s.Planes[i+1:]...)
			return
		}
	}
}

// assertConsistent panics on duplicate zpos or duplicate plane use among
// enabled states. Both can only arise from a defect in the engine's zpos
// bookkeeping, never from external input, so they are fatal.
func (s *OutputState) assertConsistent() {
	seenZpos := make(map[int]*PlaneState, len(s.Planes))
	seenPlane := make(map[*Plane]*PlaneState, len(s.Planes))
	for _, ps := range s.Planes {
		if !ps.Enabled() {
			continue
		}
		if prev, ok := seenZpos[ps.Zpos]; ok {
			panic(fmt.Sprintf("scanout: duplicate zpos %d on planes %d and %d",
				ps.Zpos, prev.Plane.ID, ps.Plane.ID))
		}
		seenZpos[ps.Zpos] = ps
		if _, ok := seenPlane[ps.Plane]; ok {
			panic(fmt.Sprintf("scanout: plane %d claimed twice", ps.Plane.ID))
		}
		seenPlane[ps.Plane] = ps
	}
}

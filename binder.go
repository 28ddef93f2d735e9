package scanout

import "time"

// DefaultFeedbackDebounce is the minimum period a scanout-tranche decision
// must remain stable before it is forwarded to the feedback sink.
const DefaultFeedbackDebounce = 2 * time.Second

// FeedbackSink receives debounced dmabuf scanout-tranche hints: whether a
// surface should be told which buffer allocation parameters would allow
// direct scanout. It is an external collaborator (the dmabuf-feedback
// advisor of the protocol layer).
type FeedbackSink interface {
	// AddScanoutTranche advertises scanout allocation hints for a surface.
	AddScanoutTranche(surface uint64)

	// RemoveScanoutTranche withdraws the hints.
	RemoveScanoutTranche(surface uint64)
}

// bind is the commit-time binder: once a mode is accepted it attaches each
// paint node to its won plane or to the primary (renderer) plane, clears
// the plane states' view back-references, updates the planes' current
// state pointers, records presentation feedback and buffer retention, and
// forwards debounced dmabuf feedback hints.
//
// This is the single mutating phase of a repaint; everything before it is
// read-only speculation over the same plane registry.
func (e *Engine) bind(out *Output, st *OutputState, nodes []*PaintNode) {
	planes := e.dev.Planes(out)
	caps := e.dev.Caps()
	var primary *Plane
	for _, pl := range planes {
		if pl.Type == PlanePrimary && !pl.Disabled {
			primary = pl
			break
		}
	}

	now := e.now()
	for _, n := range nodes {
		if ps := st.stateForNode(n); ps != nil {
			n.Plane = ps.Plane
			// Zero-copy presentation for anything but the cursor plane;
			// the cursor path copies into the cursor buffer.
			n.ZeroCopy = ps.Plane.Type != PlaneCursor
			ps.Node = nil
		} else {
			n.Plane = primary
			n.ZeroCopy = false
		}
		n.RetainBuffer = retainBuffer(n, caps)
		e.feedback.update(n, now)
	}

	for _, pl := range planes {
		pl.current = st.stateFor(pl)
	}
}

// retainBuffer decides whether the surface's buffer must be kept alive
// past the commit: dmabuf buffers (they may be scanned out or imported
// later), and SHM buffers small enough for the cursor plane.
func retainBuffer(n *PaintNode, caps DeviceCaps) bool {
	if n.Buffer == nil {
		return false
	}
	switch n.Buffer.Type {
	case BufferDmabuf:
		return true
	case BufferSHM:
		return caps.CursorWidth > 0 &&
			n.Buffer.Width <= caps.CursorWidth &&
			n.Buffer.Height <= caps.CursorHeight
	default:
		return false
	}
}

// feedbackEntry tracks one surface's tranche decision across repaints.
type feedbackEntry struct {
	want  bool      // tranche the advisor should advertise
	sent  bool      // tranche currently advertised
	since time.Time // when want last changed
}

// feedbackTracker debounces per-surface scanout-tranche hints so that a
// decision flipping every repaint produces no feedback thrash; hints are
// delayed rather than flapped.
type feedbackTracker struct {
	sink     FeedbackSink
	debounce time.Duration
	entries  map[uint64]*feedbackEntry
}

func newFeedbackTracker(sink FeedbackSink, debounce time.Duration) *feedbackTracker {
	if debounce < DefaultFeedbackDebounce {
		debounce = DefaultFeedbackDebounce
	}
	return &feedbackTracker{
		sink:     sink,
		debounce: debounce,
		entries:  make(map[uint64]*feedbackEntry),
	}
}

// update records this repaint's decision for n and forwards it once it has
// been stable for the debounce period. A surface wants a scanout tranche
// when it presents zero-copy (keep the client allocating scannable
// buffers) or when only allocation parameters blocked placement.
func (t *feedbackTracker) update(n *PaintNode, now time.Time) {
	if t.sink == nil {
		return
	}
	want := n.ZeroCopy || n.Reasons&allocationFixable != 0
	ent := t.entries[n.Surface]
	if ent == nil {
		ent = &feedbackEntry{want: want, since: now}
		t.entries[n.Surface] = ent
	} else if ent.want != want {
		ent.want = want
		ent.since = now
	}
	if ent.want != ent.sent && now.Sub(ent.since) >= t.debounce {
		if ent.want {
			t.sink.AddScanoutTranche(n.Surface)
		} else {
			t.sink.RemoveScanoutTranche(n.Surface)
		}
		ent.sent = ent.want
	}
}

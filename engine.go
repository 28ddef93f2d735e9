package scanout

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/wlkit/scanout/cache"
)

// Engine is the per-device plane assignment engine. It is driven once per
// output per repaint from the compositor's main loop and is not safe for
// concurrent use.
//
// All collaborators are injected explicitly: the device backend through
// New, the feedback sink and clock through options. The engine keeps no
// ambient global state besides the optional package logger.
type Engine struct {
	dev      Device
	log      *slog.Logger
	imports  *cache.ShardedCache[importKey, ImportResult]
	feedback *feedbackTracker
	now      func() time.Time
}

// importKey identifies one cached framebuffer import. The compatibility
// mask in an ImportResult is relative to one output's plane list, so the
// output is part of the key.
type importKey struct {
	out *Output
	buf uint64
}

// New creates an engine driving the given device.
func New(dev Device, opts ...Option) *Engine {
	o := defaultEngineOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := o.logger
	if log == nil {
		log = Logger()
	}
	e := &Engine{
		dev: dev,
		log: log,
		now: o.clock,
	}
	e.imports = cache.NewSharded(o.importCapacity,
		func(k importKey) uint64 { return k.buf },
		cache.WithEvict(func(_ importKey, res ImportResult) { res.FB.Unref() }))
	e.feedback = newFeedbackTracker(o.sink, o.debounce)
	return e
}

// Close releases the cached framebuffer imports. The engine must not be
// used afterwards.
func (e *Engine) Close() {
	e.imports.Purge()
}

// Repaint runs plane assignment for one output: it resets the per-node
// decision channels, tries compositing modes in order of GPU-work
// minimization, binds the first accepted state to the paint nodes and
// returns it ready for atomic commit.
//
// Repaint panics when no mode is constructible: the renderer-only tier
// must always be buildable by contract, so exhaustion means the engine is
// in an invariant-violating state.
func (e *Engine) Repaint(out *Output, nodes []*PaintNode) *OutputState {
	for _, n := range nodes {
		n.resetDecision()
	}

	modes := e.modeOrder(out)
	rendererTier := modes[len(modes)-1]

	var lastErr error
	for _, mode := range modes {
		st, err := e.propose(out, nodes, mode)
		if err == nil {
			if mode != modes[0] {
				e.log.Warn("degraded to GPU compositing",
					"output", out.Name, "mode", mode)
			}
			e.log.Info("compositing mode selected",
				"output", out.Name, "mode", mode, "planes", len(st.Planes))
			e.bind(out, st, nodes)
			return st
		}
		e.log.Debug("compositing mode rejected",
			"output", out.Name, "mode", mode, "err", err)
		lastErr = err

		if mode == rendererTier && out.WritebackPending && out.AbortWriteback != nil {
			// A pending writeback screenshot holds hardware resources that
			// can fail the renderer-tier test; abort it and retry once.
			e.log.Warn("aborting writeback to unblock repaint", "output", out.Name)
			out.AbortWriteback()
			out.WritebackPending = false
			st, err = e.propose(out, nodes, mode)
			if err == nil {
				e.log.Info("compositing mode selected after writeback abort",
					"output", out.Name, "mode", mode)
				e.bind(out, st, nodes)
				return st
			}
			lastErr = err
		}
	}

	panic(fmt.Sprintf("scanout: no compositing mode constructible for output %q: %v",
		out.Name, lastErr))
}

// modeOrder returns the fallback chain for one output. Plane-based modes
// are skipped entirely on broken overlay hardware, plane-disabled or
// virtual outputs, and devices without a GPU import path.
func (e *Engine) modeOrder(out *Output) []CompositingMode {
	caps := e.dev.Caps()
	var modes []CompositingMode
	if !caps.BrokenSprites && !out.PlanesDisabled && !out.Virtual && caps.GPUImport {
		modes = append(modes, PlanesOnly, Mixed)
	}
	if out.PlanesDisabled || out.Virtual || caps.CursorWidth == 0 {
		modes = append(modes, RendererOnly)
	} else {
		modes = append(modes, RendererAndCursor)
	}
	return modes
}

// importFramebuffer memoizes device framebuffer imports across repaints,
// keyed by output and buffer identity. The cache owns the device's
// reference; plane states take their own.
func (e *Engine) importFramebuffer(out *Output, n *PaintNode) (ImportResult, Reason) {
	key := importKey{out: out, buf: n.Buffer.ID}
	if res, ok := e.imports.Get(key); ok {
		return res, 0
	}
	res, reason := e.dev.ImportFramebuffer(out, n)
	if res.FB == nil {
		return ImportResult{}, reason
	}
	e.imports.Set(key, res)
	return res, 0
}

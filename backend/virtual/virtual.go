// Package virtual provides an in-memory scanout device: a configurable
// plane table with an atomic-test oracle that enforces plane constraints
// without touching real hardware. It backs the engine's tests and the
// scanoutsim tool.
package virtual

import (
	"fmt"

	"github.com/wlkit/scanout"
	"github.com/wlkit/scanout/backend"
)

// init registers the virtual backend on package import.
func init() {
	backend.Register(backend.BackendVirtual, func() backend.DeviceBackend {
		return &virtualBackend{}
	})
}

// PlaneConfig describes one simulated plane.
type PlaneConfig struct {
	ID                 uint32
	Type               scanout.PlaneType
	ZposMin, ZposMax   int
	AlphaMin, AlphaMax float64
	Encodings          scanout.EncodingMask
	Ranges             scanout.RangeMask
	Transforms         scanout.TransformMask
	InFence            bool

	// Formats maps supported fourcc codes to their supported modifiers.
	Formats map[uint32][]uint64
}

// Config describes the simulated device.
type Config struct {
	Planes []PlaneConfig
	Caps   scanout.DeviceCaps

	// TestHook, if set, runs after the built-in validation on every
	// atomic test. Tests inject commit failures through it.
	TestHook func(*scanout.Output, *scanout.OutputState) error

	// ImportHook, if set, replaces framebuffer import entirely.
	// Tests inject add-fb failures through it.
	ImportHook func(*scanout.Output, *scanout.PaintNode) (scanout.ImportResult, scanout.Reason)
}

// argbFormats is the format table typical scanout planes advertise.
func argbFormats() map[uint32][]uint64 {
	return map[uint32][]uint64{
		scanout.FormatARGB8888: {scanout.ModifierLinear},
		scanout.FormatXRGB8888: {scanout.ModifierLinear},
	}
}

// DefaultConfig returns a device resembling a common mobile display
// pipeline: one primary plane, two overlays (one YUV-capable, one with a
// zpos range reaching below the primary for underlays), and a 256x256
// cursor plane.
func DefaultConfig() Config {
	yuvFormats := argbFormats()
	yuvFormats[scanout.FormatNV12] = []uint64{scanout.ModifierLinear}
	return Config{
		Planes: []PlaneConfig{
			{
				ID: 1, Type: scanout.PlanePrimary,
				ZposMin: 0, ZposMax: 0,
				AlphaMin: 1, AlphaMax: 1,
				Transforms: scanout.TransformNormalOnly,
				InFence:    true,
				Formats:    argbFormats(),
			},
			{
				ID: 2, Type: scanout.PlaneOverlay,
				ZposMin: 1, ZposMax: 3,
				AlphaMin: 0, AlphaMax: 1,
				Encodings:  1<<scanout.EncodingBT601 | 1<<scanout.EncodingBT709,
				Ranges:     1 << scanout.RangeLimited,
				Transforms: scanout.TransformNormalOnly,
				InFence:    true,
				Formats:    yuvFormats,
			},
			{
				ID: 3, Type: scanout.PlaneOverlay,
				ZposMin: -1, ZposMax: 2,
				AlphaMin: 1, AlphaMax: 1,
				Transforms: scanout.TransformNormalOnly,
				InFence:    false,
				Formats:    argbFormats(),
			},
			{
				ID: 4, Type: scanout.PlaneCursor,
				ZposMin: 4, ZposMax: 4,
				AlphaMin: 0, AlphaMax: 1,
				Transforms: scanout.TransformNormalOnly,
				InFence:    true,
				Formats:    map[uint32][]uint64{scanout.FormatARGB8888: {scanout.ModifierLinear}},
			},
		},
		Caps: scanout.DeviceCaps{
			Underlay:     true,
			CursorWidth:  256,
			CursorHeight: 256,
			GPUImport:    true,
		},
	}
}

// Device is the in-memory scanout device.
type Device struct {
	cfg    Config
	planes []*scanout.Plane
	nextFB uint64
	live   int
}

// Compile-time interface check.
var _ scanout.Device = (*Device)(nil)

// New builds a device from cfg.
func New(cfg Config) *Device {
	d := &Device{cfg: cfg}
	for _, pc := range cfg.Planes {
		d.planes = append(d.planes, &scanout.Plane{
			ID:         pc.ID,
			Type:       pc.Type,
			ZposMin:    pc.ZposMin,
			ZposMax:    pc.ZposMax,
			AlphaMin:   pc.AlphaMin,
			AlphaMax:   pc.AlphaMax,
			Encodings:  pc.Encodings,
			Ranges:     pc.Ranges,
			Transforms: pc.Transforms,
			InFence:    pc.InFence,
		})
	}
	return d
}

// Planes enumerates the device planes. Virtual outputs have none.
func (d *Device) Planes(out *scanout.Output) []*scanout.Plane {
	if out.Virtual {
		return nil
	}
	return d.planes
}

// Caps returns the configured capabilities.
func (d *Device) Caps() scanout.DeviceCaps { return d.cfg.Caps }

// AtomicTest validates the proposed state against the plane table: every
// enabled state must reference a device plane, stay inside its zpos and
// alpha ranges, use a supported color representation, and no plane or
// zpos may be used twice.
func (d *Device) AtomicTest(out *scanout.Output, st *scanout.OutputState) error {
	seenZpos := make(map[int]bool)
	seenPlane := make(map[*scanout.Plane]bool)
	for _, ps := range st.Planes {
		if !ps.Enabled() {
			continue
		}
		pl := ps.Plane
		if !d.owns(pl) {
			return fmt.Errorf("plane %d: not a device plane", pl.ID)
		}
		if seenPlane[pl] {
			return fmt.Errorf("plane %d: used twice", pl.ID)
		}
		seenPlane[pl] = true
		if seenZpos[ps.Zpos] {
			return fmt.Errorf("plane %d: duplicate zpos %d", pl.ID, ps.Zpos)
		}
		seenZpos[ps.Zpos] = true
		if ps.Zpos < pl.ZposMin || ps.Zpos > pl.ZposMax {
			return fmt.Errorf("plane %d: zpos %d outside [%d, %d]",
				pl.ID, ps.Zpos, pl.ZposMin, pl.ZposMax)
		}
		if ps.Alpha < 1 && !pl.SupportsAlpha() {
			return fmt.Errorf("plane %d: alpha %v unsupported", pl.ID, ps.Alpha)
		}
		if ps.FenceFD > 0 && !pl.InFence {
			return fmt.Errorf("plane %d: in-fence unsupported", pl.ID)
		}
		if !ps.Dst.Overlaps(out.Bounds) {
			return fmt.Errorf("plane %d: destination outside output", pl.ID)
		}
	}
	if d.cfg.TestHook != nil {
		return d.cfg.TestHook(out, st)
	}
	return nil
}

// ImportFramebuffer wraps the node's buffer in a framebuffer and reports
// the mask of planes whose format table accepts it.
func (d *Device) ImportFramebuffer(out *scanout.Output, n *scanout.PaintNode) (scanout.ImportResult, scanout.Reason) {
	if d.cfg.ImportHook != nil {
		return d.cfg.ImportHook(out, n)
	}
	buf := n.Buffer
	var mask scanout.PlaneMask
	formatKnown := false
	for i, pc := range d.cfg.Planes {
		mods, ok := pc.Formats[buf.Format]
		if !ok {
			continue
		}
		formatKnown = true
		for _, mod := range mods {
			if mod == buf.Modifier {
				mask = mask.Set(i)
				break
			}
		}
	}
	if mask.Empty() {
		if formatKnown {
			return scanout.ImportResult{}, scanout.ReasonModifierInvalid
		}
		return scanout.ImportResult{}, scanout.ReasonFormatIncompatible
	}
	d.nextFB++
	d.live++
	fb := scanout.NewFramebuffer(d.nextFB, buf.Width, buf.Height,
		buf.Format, buf.Modifier, func() { d.live-- })
	return scanout.ImportResult{FB: fb, Planes: mask}, 0
}

// ResolveColor resolves the color representation of YUV buffers the way
// display pipelines conventionally do: BT.601 below HD, BT.709 at and
// above, limited range.
func (d *Device) ResolveColor(buf *scanout.Buffer) (scanout.ColorEncoding, scanout.ColorRange, bool) {
	if !buf.YUV {
		return 0, 0, false
	}
	if buf.Height < 720 {
		return scanout.EncodingBT601, scanout.RangeLimited, true
	}
	return scanout.EncodingBT709, scanout.RangeLimited, true
}

// LiveFramebuffers returns the number of imported framebuffers whose last
// reference has not been released. Tests use it to prove reference
// balance.
func (d *Device) LiveFramebuffers() int { return d.live }

func (d *Device) owns(pl *scanout.Plane) bool {
	for _, have := range d.planes {
		if have == pl {
			return true
		}
	}
	return false
}

// virtualBackend adapts Device to the backend registry.
type virtualBackend struct {
	dev *Device
}

// Name returns the backend identifier.
func (b *virtualBackend) Name() string { return backend.BackendVirtual }

// Init initializes the backend with the default device model.
func (b *virtualBackend) Init() error {
	if b.dev == nil {
		b.dev = New(DefaultConfig())
	}
	return nil
}

// Close releases the backend.
func (b *virtualBackend) Close() { b.dev = nil }

// Device returns the scanout device, nil before Init.
func (b *virtualBackend) Device() scanout.Device {
	if b.dev == nil {
		return nil
	}
	return b.dev
}

package virtual

import (
	"errors"
	"image"
	"testing"

	"github.com/wlkit/scanout"
	"github.com/wlkit/scanout/backend"
)

func testOutput() *scanout.Output {
	return &scanout.Output{
		Name:   "VIRT-1",
		Bounds: image.Rect(0, 0, 1920, 1080),
	}
}

func stateOn(pl *scanout.Plane, fb *scanout.Framebuffer, zpos int) *scanout.PlaneState {
	return &scanout.PlaneState{
		Plane: pl,
		FB:    fb,
		Zpos:  zpos,
		Alpha: 1,
		Dst:   image.Rect(0, 0, 100, 100),
	}
}

func importedFB(t *testing.T, d *Device, out *scanout.Output) *scanout.Framebuffer {
	t.Helper()
	n := &scanout.PaintNode{
		Buffer: &scanout.Buffer{
			ID: 1, Type: scanout.BufferDmabuf,
			Width: 100, Height: 100,
			Format: scanout.FormatXRGB8888,
		},
	}
	res, reason := d.ImportFramebuffer(out, n)
	if res.FB == nil {
		t.Fatalf("import failed: %v", reason)
	}
	return res.FB
}

func TestPlanesVirtualOutput(t *testing.T) {
	d := New(DefaultConfig())
	if got := d.Planes(&scanout.Output{Virtual: true}); got != nil {
		t.Errorf("Planes(virtual) = %v, want nil", got)
	}
	if got := d.Planes(testOutput()); len(got) != 4 {
		t.Errorf("Planes() returned %d planes, want 4", len(got))
	}
}

func TestAtomicTestValidation(t *testing.T) {
	tests := []struct {
		name  string
		build func(d *Device, out *scanout.Output, fb *scanout.Framebuffer) *scanout.OutputState
	}{
		{
			name: "foreign plane",
			build: func(d *Device, out *scanout.Output, fb *scanout.Framebuffer) *scanout.OutputState {
				return &scanout.OutputState{Planes: []*scanout.PlaneState{
					stateOn(&scanout.Plane{ID: 99}, fb, 0),
				}}
			},
		},
		{
			name: "plane used twice",
			build: func(d *Device, out *scanout.Output, fb *scanout.Framebuffer) *scanout.OutputState {
				pl := d.Planes(out)[1]
				return &scanout.OutputState{Planes: []*scanout.PlaneState{
					stateOn(pl, fb, 1),
					stateOn(pl, fb, 2),
				}}
			},
		},
		{
			name: "duplicate zpos",
			build: func(d *Device, out *scanout.Output, fb *scanout.Framebuffer) *scanout.OutputState {
				pls := d.Planes(out)
				return &scanout.OutputState{Planes: []*scanout.PlaneState{
					stateOn(pls[1], fb, 2),
					stateOn(pls[2], fb, 2),
				}}
			},
		},
		{
			name: "zpos out of range",
			build: func(d *Device, out *scanout.Output, fb *scanout.Framebuffer) *scanout.OutputState {
				return &scanout.OutputState{Planes: []*scanout.PlaneState{
					stateOn(d.Planes(out)[0], fb, 5), // primary is fixed at 0
				}}
			},
		},
		{
			name: "alpha without support",
			build: func(d *Device, out *scanout.Output, fb *scanout.Framebuffer) *scanout.OutputState {
				ps := stateOn(d.Planes(out)[0], fb, 0)
				ps.Alpha = 0.5
				return &scanout.OutputState{Planes: []*scanout.PlaneState{ps}}
			},
		},
		{
			name: "fence without support",
			build: func(d *Device, out *scanout.Output, fb *scanout.Framebuffer) *scanout.OutputState {
				ps := stateOn(d.Planes(out)[2], fb, 1) // plane 3 has no in-fence
				ps.FenceFD = 5
				return &scanout.OutputState{Planes: []*scanout.PlaneState{ps}}
			},
		},
		{
			name: "destination outside output",
			build: func(d *Device, out *scanout.Output, fb *scanout.Framebuffer) *scanout.OutputState {
				ps := stateOn(d.Planes(out)[1], fb, 1)
				ps.Dst = image.Rect(3000, 3000, 3100, 3100)
				return &scanout.OutputState{Planes: []*scanout.PlaneState{ps}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(DefaultConfig())
			out := testOutput()
			fb := importedFB(t, d, out)
			st := tt.build(d, out, fb)
			if err := d.AtomicTest(out, st); err == nil {
				t.Error("AtomicTest accepted an invalid state")
			}
		})
	}
}

func TestAtomicTestValidState(t *testing.T) {
	d := New(DefaultConfig())
	out := testOutput()
	fb := importedFB(t, d, out)
	pls := d.Planes(out)

	st := &scanout.OutputState{Planes: []*scanout.PlaneState{
		stateOn(pls[0], fb, 0),
		stateOn(pls[1], fb, 3),
		stateOn(pls[2], fb, 2),
	}}
	if err := d.AtomicTest(out, st); err != nil {
		t.Errorf("AtomicTest rejected a valid state: %v", err)
	}
}

func TestAtomicTestIgnoresDisabledStates(t *testing.T) {
	d := New(DefaultConfig())
	out := testOutput()

	// No framebuffer: the state disables the plane, so constraints on it
	// must not be checked.
	ps := stateOn(d.Planes(out)[0], nil, 99)
	st := &scanout.OutputState{Planes: []*scanout.PlaneState{ps}}
	if err := d.AtomicTest(out, st); err != nil {
		t.Errorf("AtomicTest checked a disabled state: %v", err)
	}
}

func TestAtomicTestHook(t *testing.T) {
	cfg := DefaultConfig()
	hookErr := errors.New("injected")
	cfg.TestHook = func(*scanout.Output, *scanout.OutputState) error { return hookErr }
	d := New(cfg)

	if err := d.AtomicTest(testOutput(), &scanout.OutputState{}); !errors.Is(err, hookErr) {
		t.Errorf("AtomicTest error = %v, want injected hook error", err)
	}
}

func TestImportFramebufferMask(t *testing.T) {
	d := New(DefaultConfig())
	out := testOutput()

	tests := []struct {
		name       string
		format     uint32
		modifier   uint64
		wantPlanes int
		wantReason scanout.Reason
	}{
		{"argb everywhere", scanout.FormatARGB8888, scanout.ModifierLinear, 4, 0},
		{"xrgb no cursor", scanout.FormatXRGB8888, scanout.ModifierLinear, 3, 0},
		{"nv12 yuv overlay only", scanout.FormatNV12, scanout.ModifierLinear, 1, 0},
		{"unknown format", scanout.FourCC('A', 'B', '3', '0'), scanout.ModifierLinear, 0, scanout.ReasonFormatIncompatible},
		{"unknown modifier", scanout.FormatXRGB8888, 0xdead, 0, scanout.ReasonModifierInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &scanout.PaintNode{
				Buffer: &scanout.Buffer{
					ID: 7, Type: scanout.BufferDmabuf,
					Width: 64, Height: 64,
					Format: tt.format, Modifier: tt.modifier,
				},
			}
			res, reason := d.ImportFramebuffer(out, n)
			if tt.wantReason != 0 {
				if res.FB != nil {
					res.FB.Unref()
					t.Fatal("import succeeded, want failure")
				}
				if reason != tt.wantReason {
					t.Errorf("reason = %v, want %v", reason, tt.wantReason)
				}
				return
			}
			if res.FB == nil {
				t.Fatalf("import failed: %v", reason)
			}
			if got := res.Planes.Count(); got != tt.wantPlanes {
				t.Errorf("compatible planes = %d, want %d", got, tt.wantPlanes)
			}
			res.FB.Unref()
		})
	}

	if d.LiveFramebuffers() != 0 {
		t.Errorf("LiveFramebuffers() = %d, want 0", d.LiveFramebuffers())
	}
}

func TestImportHook(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ImportHook = func(*scanout.Output, *scanout.PaintNode) (scanout.ImportResult, scanout.Reason) {
		return scanout.ImportResult{}, scanout.ReasonAddFBFailed
	}
	d := New(cfg)

	n := &scanout.PaintNode{Buffer: &scanout.Buffer{Format: scanout.FormatXRGB8888}}
	res, reason := d.ImportFramebuffer(testOutput(), n)
	if res.FB != nil || reason != scanout.ReasonAddFBFailed {
		t.Errorf("ImportFramebuffer = (%v, %v), want hook result", res, reason)
	}
}

func TestResolveColor(t *testing.T) {
	d := New(DefaultConfig())

	if _, _, ok := d.ResolveColor(&scanout.Buffer{Format: scanout.FormatXRGB8888}); ok {
		t.Error("ResolveColor resolved a non-YUV buffer")
	}

	enc, rng, ok := d.ResolveColor(&scanout.Buffer{Format: scanout.FormatNV12, YUV: true, Height: 480})
	if !ok || enc != scanout.EncodingBT601 || rng != scanout.RangeLimited {
		t.Errorf("SD buffer = (%v, %v, %v), want (BT601, limited, true)", enc, rng, ok)
	}

	enc, _, ok = d.ResolveColor(&scanout.Buffer{Format: scanout.FormatNV12, YUV: true, Height: 1080})
	if !ok || enc != scanout.EncodingBT709 {
		t.Errorf("HD buffer encoding = %v, want BT709", enc)
	}
}

func TestBackendRegistration(t *testing.T) {
	b := backend.Get(backend.BackendVirtual)
	if b == nil {
		t.Fatal("virtual backend not registered")
	}
	if b.Device() != nil {
		t.Error("Device() before Init should be nil")
	}
	if err := b.Init(); err != nil {
		t.Fatalf("Init() = %v", err)
	}
	if b.Device() == nil {
		t.Error("Device() after Init is nil")
	}
	b.Close()
	if b.Device() != nil {
		t.Error("Device() after Close should be nil")
	}
}

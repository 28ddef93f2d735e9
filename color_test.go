package scanout

import (
	"image/color"
	"testing"
)

func TestRGBAColor(t *testing.T) {
	got := RGBA{1, 0.5, 0, 1}.Color()
	nrgba, ok := got.(color.NRGBA)
	if !ok {
		t.Fatalf("Color() returned %T, want color.NRGBA", got)
	}
	if nrgba.R != 255 || nrgba.G != 127 || nrgba.B != 0 || nrgba.A != 255 {
		t.Errorf("Color() = %+v, want {255 127 0 255}", nrgba)
	}
}

func TestRGBAColorClamps(t *testing.T) {
	c := RGBA{2, -1, 0, 1}.Color().(color.NRGBA)
	if c.R != 255 || c.G != 0 {
		t.Errorf("out-of-range components not clamped: %+v", c)
	}
}

func TestFromColor(t *testing.T) {
	c := FromColor(color.NRGBA{R: 255, G: 0, B: 0, A: 255})
	if c.R != 1 || c.G != 0 || c.B != 0 || c.A != 1 {
		t.Errorf("FromColor(red) = %+v, want {1 0 0 1}", c)
	}
}

func TestIsOpaque(t *testing.T) {
	if !Black.IsOpaque() || !White.IsOpaque() {
		t.Error("opaque constants not reported opaque")
	}
	if Transparent.IsOpaque() {
		t.Error("Transparent reported opaque")
	}
	if (RGBA{0, 0, 0, 0.99}).IsOpaque() {
		t.Error("partial alpha reported opaque")
	}
}

func TestIsBlack(t *testing.T) {
	if !Black.IsBlack() {
		t.Error("Black not reported black")
	}
	// Alpha does not matter for blackness.
	if !Transparent.IsBlack() {
		t.Error("transparent black not reported black")
	}
	if White.IsBlack() {
		t.Error("White reported black")
	}
}

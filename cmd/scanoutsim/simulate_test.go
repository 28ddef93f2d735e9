package main

import (
	"image"
	"testing"

	"github.com/wlkit/scanout"
)

func TestResolveDeviceBuiltin(t *testing.T) {
	simBackend = ""
	simNoUnderlay = true
	defer func() { simNoUnderlay = false }()

	dev, cleanup, err := resolveDevice()
	if err != nil {
		t.Fatalf("resolveDevice() = %v", err)
	}
	defer cleanup()
	if dev.Caps().Underlay {
		t.Error("device model flag not applied to the built-in model")
	}
}

func TestResolveDeviceRegistry(t *testing.T) {
	for _, name := range []string{"virtual", "auto"} {
		t.Run(name, func(t *testing.T) {
			simBackend = name
			defer func() { simBackend = "" }()

			dev, cleanup, err := resolveDevice()
			if err != nil {
				t.Fatalf("resolveDevice() = %v", err)
			}
			defer cleanup()
			if dev == nil {
				t.Fatal("registry backend returned no device")
			}
			out := &scanout.Output{Name: "SIM-T", Bounds: image.Rect(0, 0, 1920, 1080)}
			if got := len(dev.Planes(out)); got != 4 {
				t.Errorf("Planes() returned %d planes, want 4", got)
			}
		})
	}
}

func TestResolveDeviceUnknown(t *testing.T) {
	simBackend = "kms-on-mars"
	defer func() { simBackend = "" }()

	if _, _, err := resolveDevice(); err == nil {
		t.Error("resolveDevice() accepted an unregistered backend")
	}
}

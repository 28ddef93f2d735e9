// Package backend defines the device backend abstraction and registry for
// the scanout engine.
//
// A DeviceBackend provides a scanout.Device: the plane enumeration, atomic
// test oracle and framebuffer import path the engine drives. Backends
// register themselves via Register (typically from init functions) and are
// selected via Get or Default.
package backend

import (
	"errors"

	"github.com/wlkit/scanout"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when a requested backend is not available.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrNotInitialized is returned when operations are called before Init.
	ErrNotInitialized = errors.New("backend: not initialized")
)

// Backend name constants.
const (
	// BackendKMS is the name of a real DRM/KMS device backend.
	BackendKMS = "kms"
	// BackendVirtual is the name of the in-memory reference backend.
	BackendVirtual = "virtual"
)

// DeviceBackend is the interface for device backends. It abstracts where
// planes and the atomic-test oracle come from, allowing the engine to run
// against real KMS hardware or an in-memory model.
//
// Backends must be registered via Register() and are selected via
// Get() or Default().
type DeviceBackend interface {
	// Name returns the backend identifier (e.g., "kms", "virtual").
	Name() string

	// Init initializes the backend.
	// This should be called before Device.
	Init() error

	// Close releases all backend resources.
	// The backend should not be used after Close is called.
	Close()

	// Device returns the scanout device the engine drives.
	// Returns nil before Init.
	Device() scanout.Device
}

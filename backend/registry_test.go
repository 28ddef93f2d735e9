package backend

import (
	"testing"

	"github.com/wlkit/scanout"
)

// fakeBackend is a registry test double.
type fakeBackend struct {
	name   string
	inited bool
}

func (b *fakeBackend) Name() string           { return b.name }
func (b *fakeBackend) Init() error            { b.inited = true; return nil }
func (b *fakeBackend) Close()                 {}
func (b *fakeBackend) Device() scanout.Device { return nil }

func TestRegisterGet(t *testing.T) {
	name := "test-backend"
	t.Cleanup(func() { Unregister(name) })

	Register(name, func() DeviceBackend { return &fakeBackend{name: name} })

	if !IsRegistered(name) {
		t.Errorf("IsRegistered(%q) = false after Register", name)
	}
	b := Get(name)
	if b == nil {
		t.Fatal("Get returned nil for registered backend")
	}
	if b.Name() != name {
		t.Errorf("Name() = %q, want %q", b.Name(), name)
	}
}

func TestGetUnknown(t *testing.T) {
	if b := Get("no-such-backend"); b != nil {
		t.Errorf("Get(unknown) = %v, want nil", b)
	}
	if IsRegistered("no-such-backend") {
		t.Error("IsRegistered(unknown) = true")
	}
}

func TestUnregister(t *testing.T) {
	name := "transient"
	Register(name, func() DeviceBackend { return &fakeBackend{name: name} })
	Unregister(name)

	if IsRegistered(name) {
		t.Errorf("backend %q still registered after Unregister", name)
	}
}

func TestAvailable(t *testing.T) {
	name := "listed"
	t.Cleanup(func() { Unregister(name) })
	Register(name, func() DeviceBackend { return &fakeBackend{name: name} })

	found := false
	for _, have := range Available() {
		if have == name {
			found = true
		}
	}
	if !found {
		t.Errorf("Available() = %v, missing %q", Available(), name)
	}
}

func TestDefaultPriority(t *testing.T) {
	t.Cleanup(func() {
		Unregister(BackendKMS)
		Unregister(BackendVirtual)
	})

	Register(BackendVirtual, func() DeviceBackend { return &fakeBackend{name: BackendVirtual} })
	if b := Default(); b == nil || b.Name() != BackendVirtual {
		t.Fatalf("Default() = %v, want virtual", b)
	}

	// A registered KMS backend outranks the virtual one.
	Register(BackendKMS, func() DeviceBackend { return &fakeBackend{name: BackendKMS} })
	if b := Default(); b == nil || b.Name() != BackendKMS {
		t.Errorf("Default() = %v, want kms", b)
	}
}

func TestInitDefault(t *testing.T) {
	name := BackendVirtual
	t.Cleanup(func() { Unregister(name) })

	var created *fakeBackend
	Register(name, func() DeviceBackend {
		created = &fakeBackend{name: name}
		return created
	})

	b, err := InitDefault()
	if err != nil {
		t.Fatalf("InitDefault() error = %v", err)
	}
	if b != created || !created.inited {
		t.Error("InitDefault did not initialize the registered backend")
	}
}

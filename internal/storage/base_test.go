package storage

import (
	"errors"
	"testing"

	"depot/internal/depot"
	"depot/internal/testutil"
)

func TestBaseStorage(t *testing.T) {
	var s BaseStorage
	u := &testutil.StubUnit{UnitID: "u1"}

	if err := s.Put(u, "/tmp/src", ""); !errors.Is(err, depot.ErrNotImplemented) {
		t.Errorf("Put() error = %v, want ErrNotImplemented", err)
	}
	if _, err := s.Get(u); !errors.Is(err, depot.ErrNotImplemented) {
		t.Errorf("Get() error = %v, want ErrNotImplemented", err)
	}
	if err := s.Open(); err != nil {
		t.Errorf("Open() error = %v", err)
	}
	if err := s.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

// putOnly overrides Put but not Get.
type putOnly struct {
	BaseStorage
}

func (putOnly) Put(depot.Unit, string, string) error { return nil }

func TestBaseStorage_PartialBackend(t *testing.T) {
	var s depot.Storage = putOnly{}

	err := depot.Use(s, func(st depot.Storage) error {
		if err := st.Put(nil, "", ""); err != nil {
			t.Errorf("Put() error = %v", err)
		}
		_, err := st.Get(nil)
		return err
	})
	if !errors.Is(err, depot.ErrNotImplemented) {
		t.Fatalf("Use() error = %v, want ErrNotImplemented", err)
	}
}

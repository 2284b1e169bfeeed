package depot

import (
	"errors"
	"testing"
)

// recordingStorage counts Open/Close calls.
type recordingStorage struct {
	opens    int
	closes   int
	openErr  error
	closeErr error
}

func (r *recordingStorage) Open() error                    { r.opens++; return r.openErr }
func (r *recordingStorage) Close() error                   { r.closes++; return r.closeErr }
func (r *recordingStorage) Put(Unit, string, string) error { return nil }
func (r *recordingStorage) Get(Unit) (string, error)       { return "", nil }

func TestAcquire(t *testing.T) {
	st := &recordingStorage{}

	s, err := Acquire(st)
	if err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}
	if st.opens != 1 {
		t.Errorf("opens = %d, want 1", st.opens)
	}

	if err := s.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if err := s.Release(); err != nil {
		t.Fatalf("second Release() error = %v", err)
	}
	if st.closes != 1 {
		t.Errorf("closes = %d, want 1", st.closes)
	}
}

func TestAcquire_OpenFails(t *testing.T) {
	openErr := errors.New("boom")
	st := &recordingStorage{openErr: openErr}

	if _, err := Acquire(st); !errors.Is(err, openErr) {
		t.Fatalf("Acquire() error = %v, want %v", err, openErr)
	}
	if st.closes != 0 {
		t.Errorf("closes = %d, want 0", st.closes)
	}
}

func TestUse(t *testing.T) {
	t.Run("closes after success", func(t *testing.T) {
		st := &recordingStorage{}
		called := false

		err := Use(st, func(s Storage) error {
			called = true
			if st.opens != 1 {
				t.Errorf("opens inside fn = %d, want 1", st.opens)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Use() error = %v", err)
		}
		if !called {
			t.Error("fn was not called")
		}
		if st.closes != 1 {
			t.Errorf("closes = %d, want 1", st.closes)
		}
	})

	t.Run("closes after error", func(t *testing.T) {
		st := &recordingStorage{}
		fnErr := errors.New("fn failed")

		err := Use(st, func(Storage) error { return fnErr })
		if !errors.Is(err, fnErr) {
			t.Fatalf("Use() error = %v, want %v", err, fnErr)
		}
		if st.closes != 1 {
			t.Errorf("closes = %d, want 1", st.closes)
		}
	})

	t.Run("reports close error", func(t *testing.T) {
		closeErr := errors.New("close failed")
		fnErr := errors.New("fn failed")
		st := &recordingStorage{closeErr: closeErr}

		err := Use(st, func(Storage) error { return fnErr })
		if !errors.Is(err, fnErr) || !errors.Is(err, closeErr) {
			t.Fatalf("Use() error = %v, want both fn and close errors", err)
		}
	})

	t.Run("closes after panic", func(t *testing.T) {
		st := &recordingStorage{}

		func() {
			defer func() {
				if recover() == nil {
					t.Error("expected panic to propagate")
				}
			}()
			_ = Use(st, func(Storage) error { panic("boom") })
		}()

		if st.closes != 1 {
			t.Errorf("closes = %d, want 1", st.closes)
		}
	})
}

func TestErrorKinds(t *testing.T) {
	var err error = &VerificationError{Path: "/tmp/x", Expected: 10, Actual: 3}
	if !errors.Is(err, ErrVerification) {
		t.Error("VerificationError should match ErrVerification")
	}
	if errors.Is(err, ErrLinkConflict) {
		t.Error("VerificationError should not match ErrLinkConflict")
	}

	err = &LinkConflictError{Link: "/links/a", Expected: "/content"}
	if !errors.Is(err, ErrLinkConflict) {
		t.Error("LinkConflictError should match ErrLinkConflict")
	}
	if got, want := err.Error(), "link path /links/a exists and is not a symbolic link"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	err = &LinkConflictError{Link: "/links/a", Expected: "/content", Target: "/elsewhere"}
	if got, want := err.Error(), "link /links/a points to /elsewhere, expected /content"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

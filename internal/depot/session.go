package depot

import (
	"errors"
	"fmt"
)

// Session holds an opened Storage. Release closes it.
//
//	s, err := depot.Acquire(store)
//	if err != nil {
//		return err
//	}
//	defer s.Release()
type Session struct {
	Storage
	released bool
}

// Acquire opens st and returns a Session that owns it.
func Acquire(st Storage) (*Session, error) {
	if err := st.Open(); err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}
	return &Session{Storage: st}, nil
}

// Release closes the underlying storage. Calls after the first are no-ops.
func (s *Session) Release() error {
	if s.released {
		return nil
	}
	s.released = true
	if err := s.Storage.Close(); err != nil {
		return fmt.Errorf("closing storage: %w", err)
	}
	return nil
}

// Use opens st, runs fn, and closes st on every exit path, including a panic in fn.
// Errors from fn and from Close are both reported.
func Use(st Storage, fn func(Storage) error) (err error) {
	s, err := Acquire(st)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := s.Release(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	return fn(s.Storage)
}

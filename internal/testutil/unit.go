package testutil

import (
	"hash"
	"sync"

	"depot/internal/depot"
)

// StubUnit is a depot.Unit with a fixed digest. It does not implement
// depot.SizeVerifier; wrap it in a VerifyingUnit for that.
type StubUnit struct {
	UnitID string
	Type   string
	Path   string
	Digest string

	mu      sync.Mutex
	hashers []hash.Hash
}

func (u *StubUnit) ID() string          { return u.UnitID }
func (u *StubUnit) TypeID() string      { return u.Type }
func (u *StubUnit) StoragePath() string { return u.Path }

// UnitKeyAsDigest records h and returns Digest.
func (u *StubUnit) UnitKeyAsDigest(h hash.Hash) string {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.hashers = append(u.hashers, h)
	return u.Digest
}

// Hashers returns the hashes passed to UnitKeyAsDigest.
func (u *StubUnit) Hashers() []hash.Hash {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]hash.Hash(nil), u.hashers...)
}

// VerifyingUnit is a StubUnit that implements depot.SizeVerifier by
// returning Err and recording each path it was asked to verify.
type VerifyingUnit struct {
	*StubUnit
	Err error

	// OnVerify, if set, runs before Err is returned.
	OnVerify func(path string)

	mu    sync.Mutex
	paths []string
}

func (u *VerifyingUnit) VerifySize(path string) error {
	u.mu.Lock()
	u.paths = append(u.paths, path)
	u.mu.Unlock()
	if u.OnVerify != nil {
		u.OnVerify(path)
	}
	return u.Err
}

// VerifiedPaths returns the paths passed to VerifySize.
func (u *VerifyingUnit) VerifiedPaths() []string {
	u.mu.Lock()
	defer u.mu.Unlock()
	return append([]string(nil), u.paths...)
}

var (
	_ depot.Unit         = (*StubUnit)(nil)
	_ depot.SizeVerifier = (*VerifyingUnit)(nil)
)

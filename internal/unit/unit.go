// Package unit provides the file-backed content unit used by the depot CLI.
package unit

import (
	"encoding/hex"
	"fmt"
	"hash"
	"os"
	"slices"

	"depot/internal/depot"
)

// FileUnit is a content unit backed by a single file.
// Key holds the fields that make up the unit key; together with Type they
// determine the unit's canonical storage path.
type FileUnit struct {
	UnitID string
	Type   string
	Key    map[string]string
	Size   int64 // expected size in bytes; negative disables verification
	Path   string
}

// NewFileUnit creates a unit with an id from idgen.
func NewFileUnit(idgen depot.IDGenerator, typeID string, key map[string]string, size int64) *FileUnit {
	return &FileUnit{
		UnitID: idgen.New(),
		Type:   typeID,
		Key:    key,
		Size:   size,
	}
}

func (u *FileUnit) ID() string          { return u.UnitID }
func (u *FileUnit) TypeID() string      { return u.Type }
func (u *FileUnit) StoragePath() string { return u.Path }

// SetStoragePath records where the unit's content lives.
func (u *FileUnit) SetStoragePath(path string) { u.Path = path }

// UnitKeyAsDigest writes each key name and value to h in key order and
// returns the hex digest. Names and values are NUL-terminated so that
// {"ab": "c"} and {"a": "bc"} hash differently.
func (u *FileUnit) UnitKeyAsDigest(h hash.Hash) string {
	names := make([]string, 0, len(u.Key))
	for name := range u.Key {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		h.Write([]byte(name))
		h.Write([]byte{0})
		h.Write([]byte(u.Key[name]))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// VerifySize checks that the file at path has the unit's expected size.
func (u *FileUnit) VerifySize(path string) error {
	if u.Size < 0 {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() != u.Size {
		return &depot.VerificationError{Path: path, Expected: u.Size, Actual: info.Size()}
	}
	return nil
}

// Compile-time checks
var (
	_ depot.Unit         = (*FileUnit)(nil)
	_ depot.SizeVerifier = (*FileUnit)(nil)
)

package depot

import "hash"

// Unit is the part of a content unit that the storage layer reads.
// Units are owned by higher-level content management; storage never mutates them.
type Unit interface {
	// ID identifies the unit. Shared storage uses it as the link name.
	ID() string

	// TypeID names the unit's content type (e.g. "rpm", "iso").
	TypeID() string

	// StoragePath is the absolute location of the unit's content within the store.
	StoragePath() string

	// UnitKeyAsDigest feeds the unit key to h and returns the hex digest.
	UnitKeyAsDigest(h hash.Hash) string
}

// SizeVerifier is implemented by units that can check a written file
// against their expected size. Units that don't implement it are stored unverified.
type SizeVerifier interface {
	// VerifySize returns a *VerificationError if the file at path has the wrong size.
	VerifySize(path string) error
}

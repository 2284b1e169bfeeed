package depot

// Storage is the capability set every content storage backend provides.
type Storage interface {
	// Open prepares backend state, e.g. creating directories. May be a no-op.
	Open() error

	// Close releases held resources. May be a no-op.
	Close() error

	// Put persists the content for u, reading from sourcePath.
	// location optionally selects a sub-path under the unit's storage path.
	Put(u Unit, sourcePath string, location string) error

	// Get resolves a readable location for u's content.
	// It does not check that the content exists.
	Get(u Unit) (string, error)
}

// Settings provides process-wide configuration to storage backends.
// Backends call StorageDir each time they compute a path, so the owner
// of the configuration controls refresh semantics.
type Settings interface {
	StorageDir() string
}

// StaticSettings is a fixed Settings value.
type StaticSettings string

func (s StaticSettings) StorageDir() string { return string(s) }

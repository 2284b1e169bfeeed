// Package fsutil holds race-tolerant filesystem helpers shared by the storage backends.
package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// DefaultDirMode is the mode Mkdir passes to os.MkdirAll when none is given.
// With the umask Mkdir applies, directories end up 0775.
const DefaultDirMode os.FileMode = 0o777

// mkdirUmask is the umask in effect while Mkdir runs.
const mkdirUmask = 0o002

// umaskMu serializes Mkdir calls within the process. The umask is process-wide,
// so overlapping set/restore pairs would otherwise leave the wrong mask behind.
var umaskMu sync.Mutex

// Mkdir creates path and any missing parents.
// A directory that already exists, including one created concurrently by another
// process, is not an error. An existing non-directory is.
// The process umask is set to 002 for the duration of the call and then restored.
func Mkdir(path string, mode ...os.FileMode) error {
	perm := DefaultDirMode
	if len(mode) > 0 {
		perm = mode[0]
	}

	umaskMu.Lock()
	defer umaskMu.Unlock()
	restore := setUmask(mkdirUmask)
	defer restore()

	err := os.MkdirAll(path, perm)
	if err == nil {
		return nil
	}
	if errors.Is(err, fs.ErrExist) {
		if info, serr := os.Stat(path); serr == nil && info.IsDir() {
			return nil
		}
	}
	return fmt.Errorf("creating directory %s: %w", path, err)
}

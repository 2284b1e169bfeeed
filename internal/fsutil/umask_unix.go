//go:build unix

package fsutil

import "golang.org/x/sys/unix"

// setUmask sets the process umask and returns a func restoring the previous one.
func setUmask(mask int) func() {
	old := unix.Umask(mask)
	return func() { unix.Umask(old) }
}

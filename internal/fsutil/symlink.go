package fsutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"depot/internal/depot"
)

// LinkOutcome is the result of SymlinkIfAbsent.
type LinkOutcome int

const (
	// LinkCreated means this call created the link.
	LinkCreated LinkOutcome = iota + 1
	// LinkExists means a symlink with the requested target was already there.
	LinkExists
	// LinkConflict means something else occupies the link path.
	LinkConflict
)

func (o LinkOutcome) String() string {
	switch o {
	case LinkCreated:
		return "created"
	case LinkExists:
		return "exists"
	case LinkConflict:
		return "conflict"
	default:
		return "unknown"
	}
}

// SymlinkIfAbsent atomically creates link pointing at target.
// If the link path is already taken, it reports LinkExists when the occupant is a
// symlink to exactly target, and LinkConflict otherwise; for a conflicting symlink
// the returned string is its current target. The existing entry is never modified.
// Failures other than "already exists" are returned as errors.
func SymlinkIfAbsent(target, link string) (LinkOutcome, string, error) {
	err := os.Symlink(target, link)
	if err == nil {
		return LinkCreated, "", nil
	}
	if !errors.Is(err, fs.ErrExist) {
		return 0, "", fmt.Errorf("creating symlink %s: %w", link, err)
	}

	info, lerr := os.Lstat(link)
	if lerr != nil {
		return 0, "", fmt.Errorf("inspecting existing link %s: %w", link, lerr)
	}
	if info.Mode()&fs.ModeSymlink == 0 {
		return LinkConflict, "", nil
	}

	existing, rerr := os.Readlink(link)
	if rerr != nil {
		return 0, "", fmt.Errorf("reading existing link %s: %w", link, rerr)
	}
	if existing == target {
		return LinkExists, existing, nil
	}
	return LinkConflict, existing, nil
}

// ReplaceSymlink points link at target, creating link's parent directory with
// dirMode if it is missing. A symlink already pointing at target is left alone;
// a symlink pointing elsewhere is replaced and its old target returned.
// Any other entry at link is a *depot.LinkConflictError.
//
// Unlike SymlinkIfAbsent this is not safe against concurrent writers of the same link.
func ReplaceSymlink(target, link string, dirMode os.FileMode) (string, error) {
	link = strings.TrimRight(link, string(filepath.Separator))
	parent := filepath.Dir(link)

	var previous string
	if _, err := os.Stat(parent); errors.Is(err, fs.ErrNotExist) {
		if err := Mkdir(parent, dirMode); err != nil {
			return "", err
		}
	} else if info, err := os.Lstat(link); err == nil {
		if info.Mode()&fs.ModeSymlink == 0 {
			return "", &depot.LinkConflictError{Link: link, Expected: target}
		}
		current, err := os.Readlink(link)
		if err != nil {
			return "", fmt.Errorf("reading existing link %s: %w", link, err)
		}
		if current == target {
			return "", nil
		}
		if err := os.Remove(link); err != nil {
			return "", fmt.Errorf("removing old link %s: %w", link, err)
		}
		previous = current
	}

	if err := os.Symlink(target, link); err != nil {
		return "", fmt.Errorf("creating symlink %s: %w", link, err)
	}
	return previous, nil
}

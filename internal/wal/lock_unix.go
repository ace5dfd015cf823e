//go:build unix

package wal

import (
	"os"

	"golang.org/x/sys/unix"
)

// lockDir takes a non-blocking advisory exclusive lock on the directory,
// enforcing the "no multi-process sharing of a WAL directory" non-goal
// instead of leaving it as an undocumented assumption. Grounded on
// ulysseses-wal's lock_unix.go, which flocks the WAL's lock file the same
// way.
func lockDir(f *os.File) error {
	err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB)
	if err == unix.EWOULDBLOCK {
		return ErrLocked
	}
	return err
}

func unlockDir(f *os.File) error {
	return unix.Flock(int(f.Fd()), unix.LOCK_UN)
}

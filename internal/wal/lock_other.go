//go:build !unix

package wal

import "os"

// lockDir is a no-op on platforms without flock; the directory-lock
// guard is advisory and best-effort only.
func lockDir(f *os.File) error {
	return nil
}

func unlockDir(f *os.File) error {
	return nil
}

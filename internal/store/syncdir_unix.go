//go:build unix

package store

import (
	"os"

	"golang.org/x/sys/unix"
)

// syncDir flushes the directory entry so a completed rename is durable.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return err
	}
	defer d.Close()

	if err := unix.Fsync(int(d.Fd())); err != nil && err != unix.EINVAL {
		return err
	}
	return nil
}

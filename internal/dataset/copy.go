package dataset

import (
	"fmt"
	"io"
	"os"
)

// exists reports whether path can be stat'ed. os.Stat follows symlinks, so
// a broken symlink counts as missing.
func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// copyFile copies src to dst byte for byte, replacing any existing file at
// dst, and gives dst the permission bits of src. Timestamps are not copied.
func copyFile(src, dst string) error {
	// Read the source mode first; it is applied to the destination below.
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("failed to stat source file %s: %w", src, err)
	}
	mode := info.Mode().Perm()

	// Open the source file for reading.
	srcFile, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", src, err)
	}
	// defer ensures the source is closed on every return path below.
	defer func() { _ = srcFile.Close() }()

	// O_TRUNC discards the previous contents when dst already exists,
	// so a rerun overwrites instead of appending.
	dstFile, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dst, err)
	}

	// Stream the contents in chunks rather than loading whole images
	// into memory.
	if _, err := io.Copy(dstFile, srcFile); err != nil {
		_ = dstFile.Close()
		return fmt.Errorf("failed to copy %s to %s: %w", src, dst, err)
	}

	// The destination is closed explicitly, not deferred: a Close error
	// means the data may not have landed and must be reported.
	if err := dstFile.Close(); err != nil {
		return fmt.Errorf("failed to close destination file %s: %w", dst, err)
	}

	// OpenFile only applies mode when it creates the file, so an
	// overwritten destination still needs its bits updated.
	if err := os.Chmod(dst, mode); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", dst, err)
	}
	return nil
}

package fsutil

import (
	"bytes"
	"fmt"
	"os"

	"github.com/natefinch/atomic"
)

// DefaultFileMode is applied to files that did not exist before a write.
const DefaultFileMode os.FileMode = 0o644

// WriteFileAtomic replaces path with data through a temporary file and a
// rename, so readers never observe a truncated file. An existing file keeps
// its permissions.
func WriteFileAtomic(path string, data []byte) error {
	mode := DefaultFileMode
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	// atomic.WriteFile does not set permissions for new files.
	if err := os.Chmod(path, mode); err != nil {
		return fmt.Errorf("failed to set permissions on %s: %w", path, err)
	}
	return nil
}

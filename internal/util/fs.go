package util

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnsureDir creates path and any missing parents.
func EnsureDir(path string) error {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return fmt.Errorf("mkdir %s: %w", path, err)
	}
	return nil
}

// SafeJoin joins name under root, stripping any directory components from
// name so ids coming from workflow inputs cannot escape the artifact root.
func SafeJoin(root, name string) string {
	return filepath.Join(root, filepath.Base(name))
}

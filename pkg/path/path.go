package path

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindRoot walks up from startDir until it finds targetName and returns the
// directory that contains it.
func FindRoot(startDir, targetName string, isDir bool) (string, error) {
	for dir := startDir; ; {
		if info, err := os.Stat(filepath.Join(dir, targetName)); err == nil && info.IsDir() == isDir {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("could not find %s starting from %s", targetName, startDir)
		}
		dir = parent
	}
}

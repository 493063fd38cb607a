package validate

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Subdirectories of the user's home that are always acceptable download
// targets, alongside the home directory itself.
var allowedSubdirs = []string{"Downloads", "Documents", "Desktop", "Music"}

// PathError reports a download path that resolves outside the user's own
// filesystem area.
type PathError struct {
	Path   string
	Reason string
}

func (e *PathError) Error() string {
	return fmt.Sprintf("invalid path %q: %s", e.Path, e.Reason)
}

// Path resolves p to a normalized absolute path and rejects any path whose
// resolved form is not inside the user's home directory or one of the
// allow-listed subdirectories.
func Path(p string) (string, error) {
	if strings.TrimSpace(p) == "" {
		return "", &PathError{p, "empty path"}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", &PathError{p, "cannot determine home directory"}
	}
	if p == "~" || strings.HasPrefix(p, "~/") {
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", &PathError{p, "cannot resolve to an absolute path"}
	}
	abs = filepath.Clean(abs)
	for _, root := range allowedRoots(home) {
		if abs == root || strings.HasPrefix(abs, root+string(filepath.Separator)) {
			return abs, nil
		}
	}
	return "", &PathError{p, "outside the user's home directory"}
}

func allowedRoots(home string) []string {
	roots := []string{filepath.Clean(home)}
	for _, sub := range allowedSubdirs {
		roots = append(roots, filepath.Join(home, sub))
	}
	return roots
}

package bdmv

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// resolvePath returns the absolute, cleaned form of path and fails when
// nothing exists there. Symlinks are kept, so volumes reached through a link
// stay below the folder they were found in.
func resolvePath(operation, path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", wrap(ErrInvalidPath, operation, "empty path", nil)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", wrap(ErrInvalidPath, operation, path, err)
	}
	if _, err := os.Stat(abs); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", wrap(ErrInvalidPath, operation, abs+" does not exist", nil)
		}
		return "", wrap(ErrInvalidPath, operation, abs, err)
	}
	return abs, nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// splitPath breaks an absolute, cleaned path into its segments. The first
// segment is the volume name plus separator ("/" on Unix).
func splitPath(path string) []string {
	path = filepath.Clean(path)
	vol := filepath.VolumeName(path)
	rest := strings.TrimPrefix(path[len(vol):], string(filepath.Separator))
	segments := []string{vol + string(filepath.Separator)}
	if rest == "" {
		return segments
	}
	return append(segments, strings.Split(rest, string(filepath.Separator))...)
}

// commonRoot returns the longest shared prefix of path segments, comparing
// from the filesystem root and stopping at the first divergence.
func commonRoot(paths []string) (string, error) {
	if len(paths) == 0 {
		return "", ErrNoVolumes
	}
	prefix := splitPath(paths[0])
	for _, path := range paths[1:] {
		segments := splitPath(path)
		n := 0
		for n < len(prefix) && n < len(segments) && prefix[n] == segments[n] {
			n++
		}
		prefix = prefix[:n]
	}
	if len(prefix) == 0 {
		return "", wrap(ErrInvalidPath, "infer root", "volumes share no common root", nil)
	}
	return filepath.Join(prefix...), nil
}

// within reports whether path equals root or lies below it.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

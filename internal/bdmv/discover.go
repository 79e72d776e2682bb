package bdmv

import (
	"os"
	"path/filepath"

	"bdindex/internal/logging"
)

// visitedSet holds the symlink-resolved form of every folder one discovery
// pass has entered. It is shared by all top-level folders so that two links
// to one disc yield a single volume.
type visitedSet map[string]struct{}

// enter reports whether dir is new to the pass and marks it visited.
func (v visitedSet) enter(dir string) bool {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return false
	}
	if _, seen := v[real]; seen {
		return false
	}
	v[real] = struct{}{}
	return true
}

// findVolume walks dir depth first and returns the first folder holding both
// BDMV and CERTIFICATE, as reached from dir (links are not resolved in the
// result). Folders already in visited are skipped; the walk stops descending
// after o.maxDepth levels below dir.
func findVolume(dir string, visited visitedSet, o options) (string, bool) {
	return walkForVolume(dir, 0, visited, o)
}

func walkForVolume(dir string, depth int, visited visitedSet, o options) (string, bool) {
	if !visited.enter(dir) {
		o.logger.Debug("folder already visited", logging.String("folder", dir))
		return "", false
	}

	if isVolume(dir) {
		return dir, true
	}
	if depth >= o.maxDepth {
		o.logger.Debug("discovery depth limit reached",
			logging.String("folder", dir),
			logging.Int("max_depth", o.maxDepth),
		)
		return "", false
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		o.logger.Debug("folder unreadable", logging.String("folder", dir), logging.Error(err))
		return "", false
	}
	for _, entry := range entries {
		child := filepath.Join(dir, entry.Name())
		if !isDir(child) {
			continue
		}
		if found, ok := walkForVolume(child, depth+1, visited, o); ok {
			return found, true
		}
	}
	return "", false
}

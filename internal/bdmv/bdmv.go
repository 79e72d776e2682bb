package bdmv

import (
	"fmt"
	"os"
	"path/filepath"

	"bdindex/internal/logging"
)

// BDMV is a release made of one or more disc volumes below Root.
type BDMV struct {
	Root    string
	Volumes []*Volume
}

// FromPath searches each immediate subfolder of root, depth first, for the
// first folder holding BDMV and CERTIFICATE. At most one volume is taken per
// subfolder, and a disc reached through several links is taken once. Volume
// roots keep the path they were found at, so every volume lies below Root.
// Finding none is not an error: the result has no volumes and a warning is
// logged.
func FromPath(root string, opts ...Option) (*BDMV, error) {
	o := buildOptions(opts)
	resolved, err := resolvePath("open release", root)
	if err != nil {
		return nil, err
	}
	if !isDir(resolved) {
		return nil, wrap(ErrInvalidPath, "open release", resolved+" is not a directory", nil)
	}

	entries, err := os.ReadDir(resolved)
	if err != nil {
		return nil, wrap(ErrInvalidPath, "open release", resolved, err)
	}

	release := &BDMV{Root: resolved}
	visited := visitedSet{}
	visited.enter(resolved)
	for _, entry := range entries {
		top := filepath.Join(resolved, entry.Name())
		if !isDir(top) {
			continue
		}
		found, ok := findVolume(top, visited, o)
		if !ok {
			o.logger.Debug("no volume below folder", logging.String("folder", top))
			continue
		}
		volume, err := volumeFromPath(found, o)
		if err != nil {
			return nil, err
		}
		o.logger.Debug("volume discovered",
			logging.String(logging.FieldVolume, volume.Name()),
			logging.String("path", volume.Root),
			logging.String(logging.FieldEventType, "volume_discovered"),
		)
		release.Volumes = append(release.Volumes, volume)
	}

	if len(release.Volumes) == 0 {
		logging.WarnWithContext(o.logger, "no disc volumes found", "no_volumes",
			logging.String("root", resolved),
			logging.String(logging.FieldImpact, "release has no volumes"),
			logging.String(logging.FieldErrorHint, "point at the folder that contains the disc folders"),
		)
	}
	return release, nil
}

// FromVolumes builds a release from already validated volumes. An empty root
// is inferred as the longest common folder of the volume roots. Every volume
// must lie below root.
func FromVolumes(volumes []*Volume, root string) (*BDMV, error) {
	if len(volumes) == 0 {
		return nil, wrap(ErrNoVolumes, "build release", "", nil)
	}
	roots := make([]string, 0, len(volumes))
	for _, volume := range volumes {
		if volume == nil {
			return nil, wrap(ErrInvalidVolume, "build release", "nil volume", nil)
		}
		roots = append(roots, volume.Root)
	}

	if root == "" {
		inferred, err := commonRoot(roots)
		if err != nil {
			return nil, wrap(ErrNoVolumes, "build release", "", err)
		}
		root = inferred
	} else {
		resolved, err := resolvePath("build release", root)
		if err != nil {
			return nil, err
		}
		root = resolved
	}

	for _, volumeRoot := range roots {
		if !within(root, volumeRoot) {
			return nil, wrap(ErrInvalidVolume, "build release", fmt.Sprintf("%s is outside %s", volumeRoot, root), nil)
		}
	}
	return &BDMV{Root: root, Volumes: append([]*Volume(nil), volumes...)}, nil
}

// FromVolumePaths validates each path as a volume and passes them to
// FromVolumes. A path that does not exist fails with ErrInvalidPath.
func FromVolumePaths(paths []string, root string, opts ...Option) (*BDMV, error) {
	o := buildOptions(opts)
	volumes := make([]*Volume, 0, len(paths))
	for _, path := range paths {
		volume, err := volumeFromPath(path, o)
		if err != nil {
			return nil, err
		}
		volumes = append(volumes, volume)
	}
	return FromVolumes(volumes, root)
}

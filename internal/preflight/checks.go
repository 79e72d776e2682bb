package preflight

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/sys/unix"

	"bdindex/internal/bdmv"
)

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.W_OK|unix.X_OK, "read/write ok")
}

// CheckReadable verifies that the directory exists and can be listed.
func CheckReadable(name, path string) Result {
	return checkDirectory(name, path, unix.R_OK|unix.X_OK, "read ok")
}

func checkDirectory(name, path string, mode uint32, okDetail string) Result {
	if strings.TrimSpace(path) == "" {
		return Result{Name: name, Detail: "not configured"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, mode); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%s)", path, okDetail)}
}

// CheckRelease runs volume discovery under root and passes when at least one
// volume is found.
func CheckRelease(name, root string, opts ...bdmv.Option) Result {
	release, err := bdmv.FromPath(root, opts...)
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	switch n := len(release.Volumes); n {
	case 0:
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: no folder with BDMV and CERTIFICATE found)", release.Root)}
	case 1:
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("1 volume: %s", release.Volumes[0].Name())}
	default:
		names := make([]string, 0, n)
		for _, volume := range release.Volumes {
			names = append(names, volume.Name())
		}
		return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%d volumes: %s", n, strings.Join(names, ", "))}
	}
}

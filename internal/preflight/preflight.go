package preflight

import (
	"path/filepath"
	"strings"

	"bdindex/internal/bdmv"
	"bdindex/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes the checks for cfg. A non-empty root adds a read check
// and a volume discovery check for that release folder.
func RunAll(cfg *config.Config, root string, opts ...bdmv.Option) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	if strings.TrimSpace(cfg.Paths.CatalogPath) != "" {
		results = append(results, CheckDirectoryAccess("Catalog directory", filepath.Dir(cfg.Paths.CatalogPath)))
	}

	if strings.TrimSpace(root) != "" {
		readable := CheckReadable("Release root", root)
		results = append(results, readable)
		if readable.Passed {
			results = append(results, CheckRelease("Disc volumes", root, opts...))
		}
	}
	return results
}

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"bdindex/internal/bdmv"
	"bdindex/internal/catalog"
	"bdindex/internal/logging"
	"bdindex/internal/watch"
)

type scanResultView struct {
	ID       string `json:"id"`
	Root     string `json:"root"`
	Volumes  int    `json:"volumes"`
	Items    int    `json:"items"`
	Failures int    `json:"failures"`
}

func newScanCommand(ctx *commandContext) *cobra.Command {
	var (
		watchMode  bool
		debounce   time.Duration
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "scan ROOT",
		Short: "Parse every playlist under a release folder and record it in the catalog",
		Long: "Parse every playlist of every volume under ROOT and record the result in\n" +
			"the scan catalog. With --watch, scan again whenever folders under ROOT\n" +
			"change, until interrupted.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := catalog.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			root := args[0]
			logger := ctx.componentLogger("catalog")
			runScan := func(runCtx context.Context) error {
				release, err := bdmv.FromPath(root, ctx.bdmvOptions()...)
				if err != nil {
					return err
				}
				scan, err := catalog.Collect(runCtx, release, logger)
				if err != nil {
					return err
				}
				id, err := store.RecordScan(runCtx, scan)
				if err != nil {
					return err
				}
				logger.InfoContext(logging.WithScanID(runCtx, id), "scan recorded",
					logging.String("root", scan.Root),
					logging.Int("volumes", len(scan.Volumes)),
					logging.Int("items", len(scan.Items)),
					logging.Int("failures", len(scan.Failures)),
				)
				view := scanResultView{
					ID:       id,
					Root:     scan.Root,
					Volumes:  len(scan.Volumes),
					Items:    len(scan.Items),
					Failures: len(scan.Failures),
				}
				if jsonOutput {
					return writeJSON(cmd, view)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Recorded scan %s: %d volumes, %d items, %d failed playlists\n",
					view.ID, view.Volumes, view.Items, view.Failures)
				return nil
			}

			if !watchMode {
				return runScan(cmd.Context())
			}

			watcher, err := watch.New(root,
				watch.WithDebounce(debounce),
				watch.WithLogger(ctx.componentLogger("watch")),
			)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Watching %s (Ctrl-C to stop)\n", watcher.Root())
			return watcher.Run(cmd.Context(), runScan)
		},
	}
	cmd.Flags().BoolVarP(&watchMode, "watch", "w", false, "Rescan when the release folder changes")
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before a change triggers a rescan")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

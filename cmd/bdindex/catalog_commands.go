package main

import (
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"bdindex/internal/catalog"
)

func newCatalogCommand(ctx *commandContext) *cobra.Command {
	catalogCmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect and prune recorded scans",
	}
	catalogCmd.AddCommand(newCatalogListCommand(ctx))
	catalogCmd.AddCommand(newCatalogShowCommand(ctx))
	catalogCmd.AddCommand(newCatalogRemoveCommand(ctx))
	return catalogCmd
}

func withCatalog(ctx *commandContext, fn func(*catalog.Store) error) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	store, err := catalog.Open(cfg)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func newCatalogListCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded scans, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(ctx, func(store *catalog.Store) error {
				summaries, err := store.ListScans(cmd.Context())
				if err != nil {
					return err
				}
				if jsonOutput {
					if summaries == nil {
						summaries = []catalog.Summary{}
					}
					return writeJSON(cmd, summaries)
				}
				rows := make([][]string, 0, len(summaries))
				for _, summary := range summaries {
					rows = append(rows, []string{
						shortID(summary.ID),
						summary.CreatedAt.Local().Format(time.DateTime),
						strconv.Itoa(summary.VolumeCount),
						strconv.Itoa(summary.ItemCount),
						strconv.Itoa(summary.FailureCount),
						summary.Root,
					})
				}
				printTable(cmd.OutOrStdout(), "No scans recorded",
					[]string{"ID", "Scanned", "Volumes", "Items", "Failures", "Root"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
				)
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

type scanView struct {
	ID        string            `json:"id"`
	Root      string            `json:"root"`
	CreatedAt time.Time         `json:"created_at"`
	Volumes   []string          `json:"volumes"`
	Items     []catalog.Item    `json:"items"`
	Failures  []catalog.Failure `json:"failures"`
}

func newCatalogShowCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show ID",
		Short: "Show the items and failures of a recorded scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(ctx, func(store *catalog.Store) error {
				scan, err := store.GetScan(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOutput {
					view := scanView{
						ID:        scan.ID,
						Root:      scan.Root,
						CreatedAt: scan.CreatedAt,
						Volumes:   nonNil(scan.Volumes),
						Items:     nonNil(scan.Items),
						Failures:  nonNil(scan.Failures),
					}
					return writeJSON(cmd, view)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Scan:    %s\n", scan.ID)
				fmt.Fprintf(out, "Root:    %s\n", scan.Root)
				fmt.Fprintf(out, "Scanned: %s\n", scan.CreatedAt.Local().Format(time.DateTime))
				fmt.Fprintf(out, "Volumes: %d\n\n", len(scan.Volumes))

				rows := make([][]string, 0, len(scan.Items))
				for _, item := range scan.Items {
					rows = append(rows, []string{
						item.Volume,
						item.Playlist,
						strconv.Itoa(item.Index + 1),
						filepath.Base(item.M2TSPath),
						formatRate(item.FrameRate),
						strconv.Itoa(len(item.Chapters)),
					})
				}
				printTable(out, "No playlist items recorded",
					[]string{"Volume", "Playlist", "Item", "Media", "Frame rate", "Chapters"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignRight},
				)

				if len(scan.Failures) > 0 {
					fmt.Fprintln(out)
					failRows := make([][]string, 0, len(scan.Failures))
					for _, failure := range scan.Failures {
						failRows = append(failRows, []string{failure.Volume, filepath.Base(failure.PlaylistPath), failure.Error})
					}
					printTable(out, "", []string{"Volume", "Playlist", "Error"}, failRows, nil)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func newCatalogRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"remove"},
		Short:   "Delete a recorded scan",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withCatalog(ctx, func(store *catalog.Store) error {
				id, err := store.DeleteScan(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed scan %s\n", id)
				return nil
			})
		},
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func nonNil[T any](values []T) []T {
	if values == nil {
		return []T{}
	}
	return values
}

package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"bdindex/internal/bdmv"
	"bdindex/internal/episodes"
	"bdindex/internal/timecode"
)

type episodeView struct {
	Number    int           `json:"number"`
	Volume    string        `json:"volume,omitempty"`
	Playlist  string        `json:"playlist,omitempty"`
	Path      string        `json:"path"`
	FrameRate timecode.Rate `json:"frame_rate,omitzero"`
	Chapters  []int64       `json:"chapters,omitempty"`
	OP        string        `json:"op,omitempty"`
	ED        string        `json:"ed,omitempty"`
}

func newEpisodesCommand(ctx *commandContext) *cobra.Command {
	var (
		playlists  []int
		volumes    []string
		folder     string
		pattern    string
		opRanges   []string
		edRanges   []string
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "episodes [ROOT]",
		Short: "List the episodes of a release in order",
		Long: "List the episodes of a release. Each volume contributes the items of one\n" +
			"playlist, in volume order. --playlist takes one id per volume; a single\n" +
			"id applies to every volume and a short list repeats its last id.\n\n" +
			"Use --volume to pick volumes explicitly (ROOT is then optional and\n" +
			"inferred), or --folder to list loose files instead of disc volumes.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := ""
			if len(args) == 1 {
				root = args[0]
			}

			release, err := buildRelease(cmd, ctx, root, volumes, playlists, folder, pattern)
			if err != nil {
				return err
			}

			op, err := parseRanges(opRanges)
			if err != nil {
				return err
			}
			ed, err := parseRanges(edRanges)
			if err != nil {
				return err
			}
			if err := release.SetRanges(op, ed); err != nil {
				return err
			}

			views := make([]episodeView, 0, release.Len())
			for _, ep := range release.Episodes() {
				view := episodeView{
					Number:   ep.Number,
					Volume:   ep.Volume,
					Playlist: ep.Playlist,
					Path:     ep.Path,
				}
				if rate, ok := ep.FrameRate(); ok {
					view.FrameRate = rate
				}
				if chapters, err := ep.Chapters(); err == nil {
					view.Chapters = chapters
				}
				if ep.OP != nil {
					view.OP = ep.OP.String()
				}
				if ep.ED != nil {
					view.ED = ep.ED.String()
				}
				views = append(views, view)
			}
			if jsonOutput {
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Release: %s\n", release.Root)
			rows := make([][]string, 0, len(views))
			for _, view := range views {
				rows = append(rows, []string{
					strconv.Itoa(view.Number),
					dashIfEmpty(view.Volume),
					dashIfEmpty(view.Playlist),
					filepath.Base(view.Path),
					formatRate(view.FrameRate),
					formatFrames(view.Chapters),
					dashIfEmpty(view.OP),
					dashIfEmpty(view.ED),
				})
			}
			printTable(out, "No episodes",
				[]string{"#", "Volume", "Playlist", "Media", "Frame rate", "Chapters", "OP", "ED"},
				rows,
				[]columnAlignment{alignRight},
			)
			return nil
		},
	}
	cmd.Flags().IntSliceVarP(&playlists, "playlist", "p", nil, "Playlist id per volume (repeatable)")
	cmd.Flags().StringArrayVar(&volumes, "volume", nil, "Disc volume folder (repeatable); replaces discovery under ROOT")
	cmd.Flags().StringVar(&folder, "folder", "", "List loose files in this folder instead of disc volumes")
	cmd.Flags().StringVar(&pattern, "pattern", "", "Glob for --folder, e.g. '*.m2ts'")
	cmd.Flags().StringArrayVar(&opRanges, "op", nil, "OP frame range per episode, START-END or '-' for none (repeatable)")
	cmd.Flags().StringArrayVar(&edRanges, "ed", nil, "ED frame range per episode, START-END or '-' for none (repeatable)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func buildRelease(cmd *cobra.Command, ctx *commandContext, root string, volumes []string, playlists []int, folder, pattern string) (*episodes.Release, error) {
	if folder != "" {
		if root != "" || len(volumes) > 0 {
			return nil, errors.New("--folder cannot be combined with ROOT or --volume")
		}
		return episodes.FolderSource(folder, pattern)
	}

	var (
		disc *bdmv.BDMV
		err  error
	)
	switch {
	case len(volumes) > 0:
		disc, err = bdmv.FromVolumePaths(volumes, root, ctx.bdmvOptions()...)
	case root != "":
		disc, err = bdmv.FromPath(root, ctx.bdmvOptions()...)
	default:
		return nil, errors.New("a release ROOT, --volume or --folder is required")
	}
	if err != nil {
		return nil, err
	}

	opts := []episodes.Option{episodes.WithLogger(ctx.componentLogger("episodes"))}
	if cfg, cfgErr := ctx.ensureConfig(); cfgErr == nil {
		opts = append(opts, episodes.WithDefaultPlaylist(cfg.Scan.DefaultPlaylist))
	}
	return episodes.NewRelease(cmd.Context(), disc, playlists, opts...)
}

func parseRanges(values []string) ([]*episodes.FrameRange, error) {
	ranges := make([]*episodes.FrameRange, 0, len(values))
	for _, value := range values {
		r, err := episodes.ParseFrameRange(value)
		if err != nil {
			return nil, err
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

func dashIfEmpty(value string) string {
	if value == "" {
		return "-"
	}
	return value
}

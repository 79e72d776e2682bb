package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"bdindex/internal/bdmv"
	"bdindex/internal/timecode"
)

type chapterView struct {
	Frame     int64  `json:"frame"`
	Timestamp string `json:"timestamp"`
}

type itemView struct {
	Index     int           `json:"index"`
	Media     string        `json:"media"`
	FrameRate timecode.Rate `json:"frame_rate"`
	Offset    uint32        `json:"offset_ticks"`
	Chapters  []chapterView `json:"chapters"`
}

type playlistChaptersView struct {
	Playlist string     `json:"playlist"`
	Path     string     `json:"path"`
	Items    []itemView `json:"items"`
}

func newChaptersCommand(ctx *commandContext) *cobra.Command {
	var (
		precision  int
		jsonOutput bool
	)

	cmd := &cobra.Command{
		Use:   "chapters VOLUME PLAYLIST",
		Short: "Show chapter frames and timestamps for each item of a playlist",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parsePlaylistID(args[1])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("precision") {
				if cfg, cfgErr := ctx.ensureConfig(); cfgErr == nil {
					precision = cfg.Chapters.Precision
				}
			}
			if err := timecode.ValidatePrecision(precision); err != nil {
				return err
			}

			volume, err := bdmv.VolumeFromPath(args[0], ctx.bdmvOptions()...)
			if err != nil {
				return err
			}
			playlist, err := volume.Playlist(id)
			if err != nil {
				return err
			}

			view := playlistChaptersView{Playlist: playlist.ID(), Path: playlist.Path}
			for i, item := range playlist.Items {
				stamps, err := item.ChapterTimestamps(precision)
				if err != nil {
					return err
				}
				iv := itemView{
					Index:     i,
					Media:     item.M2TSFile,
					FrameRate: item.FrameRate,
					Offset:    item.Offset,
					Chapters:  make([]chapterView, 0, len(item.Chapters)),
				}
				for j, frame := range item.Chapters {
					iv.Chapters = append(iv.Chapters, chapterView{Frame: frame, Timestamp: stamps[j]})
				}
				view.Items = append(view.Items, iv)
			}
			if jsonOutput {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			style := newStyler(out)
			fmt.Fprintf(out, "Playlist: %s\n", view.Path)
			for _, item := range view.Items {
				fmt.Fprintln(out)
				title := fmt.Sprintf("Item %d: %s @ %s", item.Index+1, filepath.Base(item.Media), formatRate(item.FrameRate))
				for _, line := range style.heading(title) {
					fmt.Fprintln(out, line)
				}
				rows := make([][]string, 0, len(item.Chapters))
				for j, ch := range item.Chapters {
					rows = append(rows, []string{strconv.Itoa(j + 1), strconv.FormatInt(ch.Frame, 10), ch.Timestamp})
				}
				printTable(out, "No chapters",
					[]string{"#", "Frame", "Timestamp"},
					rows,
					[]columnAlignment{alignRight, alignRight, alignLeft},
				)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&precision, "precision", 3, "Fractional digits in timestamps (0, 3, 6 or 9)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func parsePlaylistID(value string) (int, error) {
	id, err := strconv.Atoi(value)
	if err != nil || id < 0 {
		return 0, fmt.Errorf("invalid playlist id %q (expected a number such as 1 or 00001)", value)
	}
	return id, nil
}

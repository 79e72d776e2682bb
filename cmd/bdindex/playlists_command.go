package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"bdindex/internal/bdmv"
	"bdindex/internal/timecode"
)

type playlistView struct {
	ID        string        `json:"id"`
	Path      string        `json:"path"`
	Items     int           `json:"items"`
	Chapters  int           `json:"chapters"`
	FrameRate timecode.Rate `json:"frame_rate,omitzero"`
	Error     string        `json:"error,omitempty"`
}

func newPlaylistsCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "playlists VOLUME",
		Short: "List the playlists of a disc volume",
		Long: "List every playlist of a disc volume with its item and chapter counts.\n" +
			"Playlists that fail to parse are listed with their error.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			volume, err := bdmv.VolumeFromPath(args[0], ctx.bdmvOptions()...)
			if err != nil {
				return err
			}
			ids, err := volume.PlaylistIDs()
			if err != nil {
				return err
			}

			views := make([]playlistView, 0, len(ids))
			for _, id := range ids {
				views = append(views, describePlaylist(volume, id))
			}
			if jsonOutput {
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Volume: %s\n", volume.Root)
			rows := make([][]string, 0, len(views))
			for _, view := range views {
				if view.Error != "" {
					rows = append(rows, []string{view.ID, "-", "-", "-", view.Error})
					continue
				}
				rows = append(rows, []string{
					view.ID,
					strconv.Itoa(view.Items),
					strconv.Itoa(view.Chapters),
					formatRate(view.FrameRate),
					"ok",
				})
			}
			printTable(out, "No playlists found",
				[]string{"Playlist", "Items", "Chapters", "Frame rate", "Status"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight, alignLeft, alignLeft},
			)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

func describePlaylist(volume *bdmv.Volume, id int) playlistView {
	view := playlistView{ID: fmt.Sprintf("%05d", id)}
	if path, err := volume.PlaylistPath(id); err == nil {
		view.Path = path
		view.ID = playlistStem(path)
	}
	playlist, err := volume.Playlist(id)
	if err != nil {
		view.Error = err.Error()
		return view
	}
	view.Items = len(playlist.Items)
	for _, item := range playlist.Items {
		view.Chapters += len(item.Chapters)
	}
	if len(playlist.Items) > 0 {
		view.FrameRate = playlist.Items[0].FrameRate
	}
	return view
}

func playlistStem(path string) string {
	base := filepath.Base(path)
	return base[:len(base)-len(filepath.Ext(base))]
}

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"bdindex/internal/bdmv"
)

type volumeView struct {
	Name      string `json:"name"`
	Root      string `json:"root"`
	Playlists int    `json:"playlists"`
}

type releaseView struct {
	Root    string       `json:"root"`
	Volumes []volumeView `json:"volumes"`
}

func newVolumesCommand(ctx *commandContext) *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "volumes ROOT",
		Short: "List the disc volumes found under a release folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			release, err := bdmv.FromPath(args[0], ctx.bdmvOptions()...)
			if err != nil {
				return err
			}

			view := releaseView{Root: release.Root, Volumes: []volumeView{}}
			for _, volume := range release.Volumes {
				ids, err := volume.PlaylistIDs()
				if err != nil {
					return err
				}
				view.Volumes = append(view.Volumes, volumeView{
					Name:      volume.Name(),
					Root:      volume.Root,
					Playlists: len(ids),
				})
			}
			if jsonOutput {
				return writeJSON(cmd, view)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Release: %s\n", view.Root)
			rows := make([][]string, 0, len(view.Volumes))
			for i, volume := range view.Volumes {
				rows = append(rows, []string{
					strconv.Itoa(i + 1),
					volume.Name,
					strconv.Itoa(volume.Playlists),
					volume.Root,
				})
			}
			printTable(out, "No disc volumes found",
				[]string{"#", "Volume", "Playlists", "Path"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignRight, alignLeft},
			)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	return cmd
}

package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"bdindex/internal/bdmv"
	"bdindex/internal/chapters"
	"bdindex/internal/logging"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		outDir    string
		format    string
		language  string
		template  string
		names     []string
		shift     int64
		precision int
	)

	cmd := &cobra.Command{
		Use:   "export VOLUME PLAYLIST",
		Short: "Write one chapter file per playlist item",
		Long: "Write a chapter file for each item of a playlist, named\n" +
			"<playlist>_<item>.txt (OGM) or .xml (Matroska). Existing files are\n" +
			"replaced atomically.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			id, err := parsePlaylistID(args[1])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("format") {
				format = cfg.Chapters.Format
			}
			if !cmd.Flags().Changed("language") {
				language = cfg.Chapters.Language
			}
			if !cmd.Flags().Changed("name-template") {
				template = cfg.Chapters.NameTemplate
			}
			if !cmd.Flags().Changed("precision") {
				precision = cfg.Chapters.Precision
			}
			chapterFormat, err := chapters.ParseFormat(format)
			if err != nil {
				return err
			}
			if strings.TrimSpace(outDir) == "" {
				return fmt.Errorf("--out is required")
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return fmt.Errorf("create output directory %q: %w", outDir, err)
			}

			volume, err := bdmv.VolumeFromPath(args[0], ctx.bdmvOptions()...)
			if err != nil {
				return err
			}
			playlist, err := volume.Playlist(id)
			if err != nil {
				return err
			}

			logger := ctx.componentLogger("chapters")
			out := cmd.OutOrStdout()
			for i, item := range playlist.Items {
				list := chapters.FromItem(item, template)
				list = chapters.Rename(list, names)
				list = chapters.Shift(list, shift)

				target := filepath.Join(outDir, fmt.Sprintf("%s_%02d%s", playlist.ID(), i+1, chapterFormat.Ext()))
				if err := chapters.WriteFile(target, chapterFormat, list, item.FrameRate, chapters.FileOptions{
					Precision: precision,
					Language:  language,
				}); err != nil {
					return err
				}
				logger.Info("chapter file written",
					logging.String(logging.FieldVolume, volume.Name()),
					logging.String(logging.FieldPlaylist, playlist.ID()),
					logging.Int(logging.FieldItemIndex, i),
					logging.String("path", target),
					logging.Int("chapters", len(list)),
				)
				fmt.Fprintf(out, "Wrote %s (%d chapters)\n", target, len(list))
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "", "Output directory")
	cmd.Flags().StringVarP(&format, "format", "f", "ogm", "Chapter format: ogm or matroska")
	cmd.Flags().StringVar(&language, "language", "und", "Chapter language as a BCP 47 tag (matroska)")
	cmd.Flags().StringVar(&template, "name-template", chapters.DefaultNameTemplate, "Chapter name template; receives the chapter number")
	cmd.Flags().StringSliceVar(&names, "names", nil, "Chapter names by position, comma separated")
	cmd.Flags().Int64Var(&shift, "shift", 0, "Move chapters by N frames; negative moves earlier")
	cmd.Flags().IntVar(&precision, "precision", 3, "Fractional digits in OGM timestamps (0, 3, 6 or 9)")
	return cmd
}

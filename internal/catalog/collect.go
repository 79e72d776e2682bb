package catalog

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"bdindex/internal/bdmv"
	"bdindex/internal/logging"
)

// Collect parses every playlist of every volume in release and returns the
// unsaved scan. A playlist that fails to parse becomes a Failure; listing a
// volume's playlists failing, or ctx ending, aborts the collection.
func Collect(ctx context.Context, release *bdmv.BDMV, logger *slog.Logger) (Scan, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	scan := Scan{Root: release.Root}
	for _, volume := range release.Volumes {
		scan.Volumes = append(scan.Volumes, volume.Root)
		volumeLogger := logging.WithContext(logging.WithVolume(ctx, volume.Name()), logger)

		ids, err := volume.PlaylistIDs()
		if err != nil {
			return Scan{}, err
		}
		failures := 0
		for _, id := range ids {
			if err := ctx.Err(); err != nil {
				return Scan{}, err
			}
			playlist, err := volume.Playlist(id)
			if err != nil {
				path, pathErr := volume.PlaylistPath(id)
				if pathErr != nil {
					path = filepath.Join(volume.PlaylistDir, fmt.Sprintf("%05d.mpls", id))
				}
				logging.WarnWithContext(volumeLogger, "playlist skipped", "playlist_skipped",
					logging.String(logging.FieldPlaylist, filepath.Base(path)),
					logging.Error(err),
					logging.String(logging.FieldImpact, "playlist is recorded as a failure"),
					logging.String(logging.FieldErrorHint, "inspect the playlist with bdindex chapters"),
				)
				scan.Failures = append(scan.Failures, Failure{Volume: volume.Name(), PlaylistPath: path, Error: err.Error()})
				failures++
				continue
			}
			for index, item := range playlist.Items {
				scan.Items = append(scan.Items, Item{
					Volume:       volume.Name(),
					Playlist:     playlist.ID(),
					PlaylistPath: playlist.Path,
					Index:        index,
					M2TSPath:     item.M2TSFile,
					FrameRate:    item.FrameRate,
					Chapters:     item.Chapters,
				})
			}
		}
		volumeLogger.Debug("volume scanned",
			logging.Int("playlists", len(ids)),
			logging.Int("failures", failures),
		)
	}
	return scan, nil
}

package bdmv

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"bdindex/internal/logging"
)

const playlistExt = ".mpls"

// Volume is one disc volume: a folder holding BDMV and CERTIFICATE.
type Volume struct {
	Root        string
	PlaylistDir string
	StreamDir   string

	opts options
}

// VolumeFromPath validates path as a disc volume. PLAYLIST and STREAM are
// taken as BDMV/PLAYLIST and BDMV/STREAM without further checks.
func VolumeFromPath(path string, opts ...Option) (*Volume, error) {
	return volumeFromPath(path, buildOptions(opts))
}

func volumeFromPath(path string, o options) (*Volume, error) {
	root, err := resolvePath("open volume", path)
	if err != nil {
		return nil, wrap(ErrInvalidVolume, "", "", err)
	}
	if !isVolume(root) {
		return nil, wrap(ErrInvalidVolume, "open volume", root+" needs BDMV and CERTIFICATE folders", nil)
	}
	bdmvDir := filepath.Join(root, "BDMV")
	return &Volume{
		Root:        root,
		PlaylistDir: filepath.Join(bdmvDir, "PLAYLIST"),
		StreamDir:   filepath.Join(bdmvDir, "STREAM"),
		opts:        o,
	}, nil
}

func isVolume(path string) bool {
	return isDir(filepath.Join(path, "BDMV")) && isDir(filepath.Join(path, "CERTIFICATE"))
}

// Name is the volume folder name, used to label log lines and tables.
func (v *Volume) Name() string {
	return filepath.Base(v.Root)
}

// PlaylistPath finds the file for playlist id. Names compare
// case-insensitively, so 00001.mpls and 00001.MPLS on one volume are
// ambiguous.
func (v *Volume) PlaylistPath(id int) (string, error) {
	if id < 0 || id > 99999 {
		return "", wrap(ErrPlaylistNotFound, "find playlist", fmt.Sprintf("id %d outside 0..99999", id), nil)
	}
	want := fmt.Sprintf("%05d%s", id, playlistExt)
	entries, err := os.ReadDir(v.PlaylistDir)
	if err != nil {
		return "", wrap(ErrPlaylistNotFound, "find playlist", want, err)
	}
	var matches []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(entry.Name(), want) {
			continue
		}
		matches = append(matches, filepath.Join(v.PlaylistDir, entry.Name()))
	}
	switch len(matches) {
	case 0:
		return "", wrap(ErrPlaylistNotFound, "find playlist", want+" in "+v.PlaylistDir, nil)
	case 1:
		return matches[0], nil
	default:
		return "", wrap(ErrAmbiguousPlaylist, "find playlist", fmt.Sprintf("%d files match %s: %s", len(matches), want, strings.Join(matches, ", ")), nil)
	}
}

// Playlist parses playlist id from this volume.
func (v *Volume) Playlist(id int) (*Playlist, error) {
	path, err := v.PlaylistPath(id)
	if err != nil {
		return nil, err
	}
	v.opts.logger.Debug("playlist selected",
		logging.String(logging.FieldVolume, v.Name()),
		logging.String(logging.FieldPlaylist, filepath.Base(path)),
	)
	return parsePlaylist(path, v.StreamDir, v.opts)
}

// Playlists parses every playlist directly under PLAYLIST in directory
// listing order. The first failure aborts the listing.
func (v *Volume) Playlists() ([]*Playlist, error) {
	entries, err := os.ReadDir(v.PlaylistDir)
	if err != nil {
		return nil, wrap(ErrInvalidPath, "list playlists", v.PlaylistDir, err)
	}
	playlists := make([]*Playlist, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), playlistExt) {
			continue
		}
		playlist, err := parsePlaylist(filepath.Join(v.PlaylistDir, entry.Name()), v.StreamDir, v.opts)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}
	return playlists, nil
}

// PlaylistIDs lists the numeric ids of the playlists under PLAYLIST in
// ascending order. Files whose stem is not a number are skipped.
func (v *Volume) PlaylistIDs() ([]int, error) {
	entries, err := os.ReadDir(v.PlaylistDir)
	if err != nil {
		return nil, wrap(ErrInvalidPath, "list playlists", v.PlaylistDir, err)
	}
	seen := make(map[int]struct{}, len(entries))
	ids := make([]int, 0, len(entries))
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(name), playlistExt) {
			continue
		}
		id, err := strconv.Atoi(strings.TrimSuffix(name, filepath.Ext(name)))
		if err != nil || id < 0 {
			continue
		}
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

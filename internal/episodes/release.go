package episodes

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"

	"golang.org/x/sync/errgroup"

	"bdindex/internal/bdmv"
	"bdindex/internal/logging"
	"bdindex/internal/timecode"
)

// Episode is one entry of a release. Item is nil for folder sources.
type Episode struct {
	Number   int
	Path     string
	Volume   string
	Playlist string
	Item     *bdmv.Item
	OP       *FrameRange
	ED       *FrameRange
}

// Chapters returns the episode's chapter frames, relative to its start.
func (e Episode) Chapters() ([]int64, error) {
	if e.Item == nil {
		return nil, fmt.Errorf("%w: episode %d", ErrNoChapters, e.Number)
	}
	return slices.Clone(e.Item.Chapters), nil
}

// ChapterTimestamps renders the chapters at the given precision.
func (e Episode) ChapterTimestamps(precision int) ([]string, error) {
	if e.Item == nil {
		return nil, fmt.Errorf("%w: episode %d", ErrNoChapters, e.Number)
	}
	return e.Item.ChapterTimestamps(precision)
}

// FrameRate reports the playlist frame rate, when the episode came from one.
func (e Episode) FrameRate() (timecode.Rate, bool) {
	if e.Item == nil {
		return timecode.Rate{}, false
	}
	return e.Item.FrameRate, true
}

// OPClip trims the opening out of clip.
func (e Episode) OPClip(clip Clip) (Clip, error) {
	if e.OP == nil {
		return nil, fmt.Errorf("%w: episode %d has no OP range", ErrNoRange, e.Number)
	}
	return Trim(clip, *e.OP)
}

// EDClip trims the ending out of clip.
func (e Episode) EDClip(clip Clip) (Clip, error) {
	if e.ED == nil {
		return nil, fmt.Errorf("%w: episode %d has no ED range", ErrNoRange, e.Number)
	}
	return Trim(clip, *e.ED)
}

// Release is an ordered episode list.
type Release struct {
	Root     string
	episodes []Episode
}

// Option customizes NewRelease.
type Option func(*releaseOptions)

type releaseOptions struct {
	defaultPlaylist int
	concurrency     int
	logger          *slog.Logger
}

// WithDefaultPlaylist sets the playlist id used when none is given.
func WithDefaultPlaylist(id int) Option {
	return func(o *releaseOptions) {
		o.defaultPlaylist = id
	}
}

// WithConcurrency bounds how many volumes are parsed at once.
func WithConcurrency(n int) Option {
	return func(o *releaseOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithLogger sets the logger for release assembly.
func WithLogger(logger *slog.Logger) Option {
	return func(o *releaseOptions) {
		o.logger = logger
	}
}

// NewRelease reads one playlist per volume and appends its items, in volume
// then item order, as episodes 1..n. playlists holds per-volume ids; see
// NormalizePlaylists for how it is expanded.
func NewRelease(ctx context.Context, release *bdmv.BDMV, playlists []int, opts ...Option) (*Release, error) {
	o := releaseOptions{defaultPlaylist: 1, concurrency: 4}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = logging.NewNop()
	}

	if release == nil || len(release.Volumes) == 0 {
		return nil, fmt.Errorf("%w: release has no disc volumes", bdmv.ErrNoVolumes)
	}
	ids, err := NormalizePlaylists(playlists, len(release.Volumes), o.defaultPlaylist)
	if err != nil {
		return nil, err
	}

	parsed := make([]*bdmv.Playlist, len(release.Volumes))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.concurrency)
	for i, volume := range release.Volumes {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			playlist, err := volume.Playlist(ids[i])
			if err != nil {
				return fmt.Errorf("volume %s: %w", volume.Name(), err)
			}
			parsed[i] = playlist
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Release{Root: release.Root}
	for i, playlist := range parsed {
		volume := release.Volumes[i]
		for j := range playlist.Items {
			item := &playlist.Items[j]
			out.episodes = append(out.episodes, Episode{
				Number:   len(out.episodes) + 1,
				Path:     item.M2TSFile,
				Volume:   volume.Name(),
				Playlist: playlist.ID(),
				Item:     item,
			})
		}
		o.logger.Debug("volume episodes added",
			logging.String(logging.FieldVolume, volume.Name()),
			logging.String(logging.FieldPlaylist, playlist.ID()),
			logging.Int("items", len(playlist.Items)),
		)
	}
	o.logger.Info("release indexed",
		logging.String("root", out.Root),
		logging.Int("volumes", len(release.Volumes)),
		logging.Int("episodes", len(out.episodes)),
	)
	return out, nil
}

// NormalizePlaylists expands per-volume playlist ids to exactly volumes
// entries: an empty list uses def everywhere, a shorter list repeats its last
// value, and a longer list fails with ErrTooManyValues.
func NormalizePlaylists(ids []int, volumes, def int) ([]int, error) {
	if len(ids) > volumes {
		return nil, fmt.Errorf("%w: %d playlist ids for %d volumes", ErrTooManyValues, len(ids), volumes)
	}
	out := make([]int, volumes)
	fill := def
	for i := range out {
		if i < len(ids) {
			fill = ids[i]
		}
		out[i] = fill
	}
	return out, nil
}

// FolderSource lists the regular files directly in dir that match the glob
// pattern (every file when pattern is empty), sorted by name, as episodes.
func FolderSource(dir, pattern string) (*Release, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", bdmv.ErrInvalidPath, dir, err)
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", bdmv.ErrInvalidPath, abs, err)
	}
	if pattern != "" {
		if _, err := filepath.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("episode pattern %q: %w", pattern, err)
		}
	}

	out := &Release{Root: abs}
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		if pattern != "" {
			if ok, _ := filepath.Match(pattern, entry.Name()); !ok {
				continue
			}
		}
		out.episodes = append(out.episodes, Episode{
			Number: len(out.episodes) + 1,
			Path:   filepath.Join(abs, entry.Name()),
		})
	}
	if len(out.episodes) == 0 {
		return nil, fmt.Errorf("%w: nothing in %s matches %q", ErrNoEpisodes, abs, pattern)
	}
	return out, nil
}

// Len is the number of episodes.
func (r *Release) Len() int {
	return len(r.episodes)
}

// Episodes returns a copy of the episode list.
func (r *Release) Episodes() []Episode {
	return slices.Clone(r.episodes)
}

// Episode returns episode n (1-based).
func (r *Release) Episode(n int) (Episode, error) {
	if n < 1 || n > len(r.episodes) {
		return Episode{}, fmt.Errorf("%w: %d not in 1..%d", ErrEpisodeOutOfRange, n, len(r.episodes))
	}
	return r.episodes[n-1], nil
}

// Chapters returns the chapter frames of episode n.
func (r *Release) Chapters(n int) ([]int64, error) {
	ep, err := r.Episode(n)
	if err != nil {
		return nil, err
	}
	return ep.Chapters()
}

// ChapterTimestamps returns the chapter timestamps of episode n.
func (r *Release) ChapterTimestamps(n, precision int) ([]string, error) {
	ep, err := r.Episode(n)
	if err != nil {
		return nil, err
	}
	return ep.ChapterTimestamps(precision)
}

// SetRanges assigns OP and ED ranges by episode position. Nil entries and
// missing trailing entries clear the range.
func (r *Release) SetRanges(op, ed []*FrameRange) error {
	if len(op) > len(r.episodes) {
		return fmt.Errorf("%w: %d OP ranges for %d episodes", ErrTooManyValues, len(op), len(r.episodes))
	}
	if len(ed) > len(r.episodes) {
		return fmt.Errorf("%w: %d ED ranges for %d episodes", ErrTooManyValues, len(ed), len(r.episodes))
	}
	for i := range r.episodes {
		r.episodes[i].OP = rangeAt(op, i)
		r.episodes[i].ED = rangeAt(ed, i)
	}
	return nil
}

func rangeAt(ranges []*FrameRange, i int) *FrameRange {
	if i >= len(ranges) || ranges[i] == nil {
		return nil
	}
	r := *ranges[i]
	return &r
}

// Index opens episode n through idx.
func (r *Release) Index(ctx context.Context, n int, idx Indexer) (Clip, error) {
	ep, err := r.Episode(n)
	if err != nil {
		return nil, err
	}
	clip, err := idx(ctx, ep.Path)
	if err != nil {
		return nil, fmt.Errorf("index episode %d (%s): %w", n, ep.Path, err)
	}
	return clip, nil
}

package bdmv

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"bdindex/internal/logging"
	"bdindex/internal/mpls"
	"bdindex/internal/timecode"
)

// Playlist is a parsed movie playlist: one Item per play item, in play item
// order.
type Playlist struct {
	Path  string
	Items []Item
}

// ID is the playlist file stem, e.g. "00001".
func (p *Playlist) ID() string {
	base := filepath.Base(p.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Item is one play item resolved against the volume's STREAM folder.
type Item struct {
	M2TSFile string
	// Chapters are frame numbers relative to Offset, ascending and never
	// negative.
	Chapters  []int64
	FrameRate timecode.Rate
	// Offset is the tick anchoring frame 0: the earlier of the item's in
	// time and its first mark.
	Offset uint32
	Raw    mpls.PlayItem
	// Marks are the raw marks referencing this item, sorted by timestamp.
	Marks []mpls.Mark
}

// ChapterTimestamps renders Chapters as HH:MM:SS[.fff] strings. precision
// must be 0, 3, 6 or 9.
func (it Item) ChapterTimestamps(precision int) ([]string, error) {
	if err := timecode.ValidatePrecision(precision); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(it.Chapters))
	for _, frame := range it.Chapters {
		ts, err := timecode.FrameToTimestamp(frame, it.FrameRate, precision)
		if err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, nil
}

// ParsePlaylist decodes the playlist at mplsPath and resolves each play item's
// media file in streamDir. One bad play item fails the whole playlist.
func ParsePlaylist(mplsPath, streamDir string, opts ...Option) (*Playlist, error) {
	return parsePlaylist(mplsPath, streamDir, buildOptions(opts))
}

func parsePlaylist(mplsPath, streamDir string, o options) (*Playlist, error) {
	fail := func(item int, err error) error {
		return &ParseError{Playlist: mplsPath, Item: item, Err: err}
	}

	file, err := mpls.DecodeFile(mplsPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fail(-1, wrap(ErrInvalidPath, "open playlist", "", err))
		}
		return nil, fail(-1, wrap(ErrMalformedPlaylist, "decode", "", err))
	}
	if file.Playlist == nil {
		return nil, fail(-1, wrap(ErrMalformedPlaylist, "decode", "no play item table", nil))
	}
	if len(file.Playlist.PlayItems) == 0 {
		return nil, fail(-1, wrap(ErrMalformedPlaylist, "decode", "no play items", nil))
	}
	if file.Marks == nil {
		return nil, fail(-1, wrap(ErrMalformedPlaylist, "decode", "no playlist mark table", nil))
	}
	if len(file.Marks.Marks) == 0 && !o.allowChapterless {
		return nil, fail(-1, wrap(ErrMalformedPlaylist, "decode", "no playlist marks", nil))
	}

	logger := o.logger.With(logging.String(logging.FieldPlaylist, filepath.Base(mplsPath)))
	items := file.Playlist.PlayItems
	if orphans := countOrphanMarks(file.Marks.Marks, len(items)); orphans > 0 {
		logging.WarnWithContext(logger, "playlist marks reference missing play items", "orphan_marks",
			logging.Int("orphan_marks", orphans),
			logging.Int("play_items", len(items)),
			logging.String(logging.FieldImpact, "those marks produce no chapters"),
			logging.String(logging.FieldErrorHint, "inspect the playlist with the playlists command"),
		)
	}

	media, err := newMediaIndex(streamDir)
	if err != nil {
		return nil, fail(-1, err)
	}

	playlist := &Playlist{Path: mplsPath, Items: make([]Item, 0, len(items))}
	for i, raw := range items {
		item, err := buildItem(i, raw, file.Marks.Marks, media)
		if err != nil {
			return nil, fail(i, err)
		}
		logger.Debug("play item resolved",
			logging.Int(logging.FieldItemIndex, i),
			logging.String("m2ts", filepath.Base(item.M2TSFile)),
			logging.String("frame_rate", item.FrameRate.String()),
			logging.Int("chapters", len(item.Chapters)),
		)
		playlist.Items = append(playlist.Items, item)
	}
	return playlist, nil
}

func buildItem(index int, raw mpls.PlayItem, marks []mpls.Mark, media mediaIndex) (Item, error) {
	if raw.ClipInformationFilename == nil || raw.ClipCodecIdentifier == nil {
		return Item{}, wrap(ErrMissingMediaReference, "resolve media", "clip name or codec identifier absent", nil)
	}
	m2ts, err := media.resolve(*raw.ClipInformationFilename + "." + *raw.ClipCodecIdentifier)
	if err != nil {
		return Item{}, err
	}

	own := marksFor(marks, index)
	if raw.InTime == nil {
		return Item{}, wrap(ErrMissingField, "start offset", "in time absent", nil)
	}
	offset := *raw.InTime
	if len(own) > 0 && own[0].Timestamp < offset {
		offset = own[0].Timestamp
	}

	rate, err := itemFrameRate(raw)
	if err != nil {
		return Item{}, err
	}

	chapters := make([]int64, 0, len(own))
	for _, mark := range own {
		chapters = append(chapters, timecode.TicksToFrame(int64(mark.Timestamp)-int64(offset), rate))
	}

	return Item{
		M2TSFile:  m2ts,
		Chapters:  chapters,
		FrameRate: rate,
		Offset:    offset,
		Raw:       raw,
		Marks:     own,
	}, nil
}

// marksFor selects the marks of play item index, ordered by timestamp. Mark
// tables are not guaranteed to be sorted.
func marksFor(marks []mpls.Mark, index int) []mpls.Mark {
	var own []mpls.Mark
	for _, mark := range marks {
		if int(mark.RefToPlayItemID) == index {
			own = append(own, mark)
		}
	}
	slices.SortStableFunc(own, func(a, b mpls.Mark) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})
	return own
}

func countOrphanMarks(marks []mpls.Mark, items int) int {
	orphans := 0
	for _, mark := range marks {
		if int(mark.RefToPlayItemID) >= items {
			orphans++
		}
	}
	return orphans
}

func itemFrameRate(raw mpls.PlayItem) (timecode.Rate, error) {
	stn := raw.STNTable
	if stn == nil {
		return timecode.Rate{}, wrap(ErrMissingFrameRate, "frame rate", "no stream number table", nil)
	}
	if stn.Length == 0 || len(stn.PrimaryVideoStreams) == 0 {
		return timecode.Rate{}, wrap(ErrMissingFrameRate, "frame rate", "no primary video stream", nil)
	}
	code := stn.PrimaryVideoStreams[0].Attributes.FrameRate
	if code == nil || *code == 0 {
		return timecode.Rate{}, wrap(ErrMissingFrameRate, "frame rate", "first video stream has no frame rate code", nil)
	}
	rate, ok := mpls.FrameRate(*code)
	if !ok {
		return timecode.Rate{}, wrap(ErrUnknownFrameRate, "frame rate", fmt.Sprintf("code %d", *code), nil)
	}
	return rate, nil
}

// mediaIndex maps lower-cased STREAM file names to their on-disk names.
type mediaIndex struct {
	dir   string
	names map[string][]string
}

func newMediaIndex(dir string) (mediaIndex, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return mediaIndex{}, wrap(ErrInvalidPath, "read stream folder", dir, err)
	}
	idx := mediaIndex{dir: dir, names: make(map[string][]string, len(entries))}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		key := strings.ToLower(entry.Name())
		idx.names[key] = append(idx.names[key], entry.Name())
	}
	return idx, nil
}

// resolve prefers an exact name and falls back to a case-insensitive match.
func (m mediaIndex) resolve(name string) (string, error) {
	candidates := m.names[strings.ToLower(name)]
	if slices.Contains(candidates, name) {
		return filepath.Join(m.dir, name), nil
	}
	switch len(candidates) {
	case 0:
		return "", wrap(ErrInvalidPath, "resolve media", filepath.Join(m.dir, name)+" does not exist", nil)
	case 1:
		return filepath.Join(m.dir, candidates[0]), nil
	default:
		return "", wrap(ErrInvalidPath, "resolve media", fmt.Sprintf("%s matches %s", name, strings.Join(candidates, ", ")), nil)
	}
}

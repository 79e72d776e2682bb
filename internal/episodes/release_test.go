package episodes_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"bdindex/internal/bdmv"
	"bdindex/internal/episodes"
	"bdindex/internal/testsupport"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func episodePlaylist(clips ...string) testsupport.MPLS {
	m := testsupport.MPLS{}
	for i, clip := range clips {
		m.Items = append(m.Items, testsupport.Item(clip, 0, 45000*1440))
		m.Marks = append(m.Marks, testsupport.Marks(uint16(i), 0, 45000*90)...)
	}
	return m
}

func makeRelease(t *testing.T) *bdmv.BDMV {
	t.Helper()
	root := t.TempDir()
	testsupport.MakeVolume(t, filepath.Join(root, "VOL1"), map[string]testsupport.MPLS{
		"00001": episodePlaylist("00010", "00011"),
		"00002": episodePlaylist("00099"),
	})
	testsupport.MakeVolume(t, filepath.Join(root, "VOL2"), map[string]testsupport.MPLS{
		"00001": episodePlaylist("00020", "00021"),
		"00003": episodePlaylist("00030"),
	})
	release, err := bdmv.FromPath(root)
	if err != nil {
		t.Fatalf("FromPath: %v", err)
	}
	return release
}

func episodeFiles(r *episodes.Release) []string {
	var names []string
	for _, ep := range r.Episodes() {
		names = append(names, filepath.Base(ep.Path))
	}
	return names
}

func TestNewReleaseDefaultPlaylist(t *testing.T) {
	r, err := episodes.NewRelease(context.Background(), makeRelease(t), nil)
	if err != nil {
		t.Fatalf("NewRelease: %v", err)
	}
	want := []string{"00010.m2ts", "00011.m2ts", "00020.m2ts", "00021.m2ts"}
	if diff := cmp.Diff(want, episodeFiles(r)); diff != "" {
		t.Fatalf("episodes mismatch (-want +got):\n%s", diff)
	}
	ep, err := r.Episode(3)
	if err != nil {
		t.Fatalf("Episode(3): %v", err)
	}
	if ep.Number != 3 || ep.Volume != "VOL2" || ep.Playlist != "00001" {
		t.Fatalf("unexpected episode: %+v", ep)
	}
	chapters, err := r.Chapters(3)
	if err != nil {
		t.Fatalf("Chapters: %v", err)
	}
	if diff := cmp.Diff([]int64{0, 2158}, chapters); diff != "" {
		t.Fatalf("chapters mismatch (-want +got):\n%s", diff)
	}
	stamps, err := r.ChapterTimestamps(3, 3)
	if err != nil {
		t.Fatalf("ChapterTimestamps: %v", err)
	}
	if diff := cmp.Diff([]string{"00:00:00.000", "00:01:30.006"}, stamps); diff != "" {
		t.Fatalf("timestamps mismatch (-want +got):\n%s", diff)
	}
}

func TestNewReleasePerVolumePlaylists(t *testing.T) {
	r, err := episodes.NewRelease(context.Background(), makeRelease(t), []int{2, 3})
	if err != nil {
		t.Fatalf("NewRelease: %v", err)
	}
	if diff := cmp.Diff([]string{"00099.m2ts", "00030.m2ts"}, episodeFiles(r)); diff != "" {
		t.Fatalf("episodes mismatch (-want +got):\n%s", diff)
	}

	if _, err := episodes.NewRelease(context.Background(), makeRelease(t), []int{1, 1, 1}); !errors.Is(err, episodes.ErrTooManyValues) {
		t.Fatalf("expected ErrTooManyValues, got %v", err)
	}
	if _, err := episodes.NewRelease(context.Background(), makeRelease(t), []int{3}); !errors.Is(err, bdmv.ErrPlaylistNotFound) {
		t.Fatalf("expected ErrPlaylistNotFound for VOL1 playlist 3, got %v", err)
	}
}

func TestNewReleaseNoVolumes(t *testing.T) {
	empty, err := bdmv.FromPath(t.TempDir())
	if err != nil {
		t.Fatalf("FromPath: %v", err)
	}
	if _, err := episodes.NewRelease(context.Background(), empty, nil); !errors.Is(err, bdmv.ErrNoVolumes) {
		t.Fatalf("expected ErrNoVolumes, got %v", err)
	}
}

func TestNormalizePlaylists(t *testing.T) {
	cases := []struct {
		ids     []int
		volumes int
		want    []int
	}{
		{nil, 3, []int{1, 1, 1}},
		{[]int{4}, 3, []int{4, 4, 4}},
		{[]int{4, 5}, 4, []int{4, 5, 5, 5}},
		{[]int{4, 5, 6}, 3, []int{4, 5, 6}},
	}
	for _, tc := range cases {
		got, err := episodes.NormalizePlaylists(tc.ids, tc.volumes, 1)
		if err != nil {
			t.Fatalf("NormalizePlaylists(%v, %d): %v", tc.ids, tc.volumes, err)
		}
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("NormalizePlaylists(%v, %d) mismatch (-want +got):\n%s", tc.ids, tc.volumes, diff)
		}
	}
}

func TestEpisodeBounds(t *testing.T) {
	r, err := episodes.NewRelease(context.Background(), makeRelease(t), nil)
	if err != nil {
		t.Fatalf("NewRelease: %v", err)
	}
	for _, n := range []int{0, -1, 5} {
		if _, err := r.Episode(n); !errors.Is(err, episodes.ErrEpisodeOutOfRange) {
			t.Fatalf("Episode(%d): expected ErrEpisodeOutOfRange, got %v", n, err)
		}
	}
}

func TestSetRangesAndClips(t *testing.T) {
	r, err := episodes.NewRelease(context.Background(), makeRelease(t), nil)
	if err != nil {
		t.Fatalf("NewRelease: %v", err)
	}
	op := []*episodes.FrameRange{{Start: 10, End: 19}, nil, {Start: 0, End: 4}}
	ed := []*episodes.FrameRange{{Start: -5, End: -1}}
	if err := r.SetRanges(op, ed); err != nil {
		t.Fatalf("SetRanges: %v", err)
	}

	clip := newFakeClip(100)
	first, _ := r.Episode(1)
	opClip, err := first.OPClip(clip)
	if err != nil || opClip.NumFrames() != 10 {
		t.Fatalf("OPClip: %v frames=%v", err, opClip)
	}
	edClip, err := first.EDClip(clip)
	if err != nil {
		t.Fatalf("EDClip: %v", err)
	}
	if diff := cmp.Diff([]int{95, 96, 97, 98, 99}, framesOf(t, edClip)); diff != "" {
		t.Fatalf("ED frames mismatch (-want +got):\n%s", diff)
	}

	second, _ := r.Episode(2)
	if _, err := second.OPClip(clip); !errors.Is(err, episodes.ErrNoRange) {
		t.Fatalf("expected ErrNoRange for episode 2 OP, got %v", err)
	}
	fourth, _ := r.Episode(4)
	if fourth.OP != nil || fourth.ED != nil {
		t.Fatalf("expected padded nil ranges, got %+v", fourth)
	}

	// Mutating the caller's slice afterwards must not affect the release.
	op[0].Start = 50
	first, _ = r.Episode(1)
	if first.OP.Start != 10 {
		t.Fatalf("range aliased caller slice: %+v", first.OP)
	}

	tooMany := make([]*episodes.FrameRange, 5)
	if err := r.SetRanges(nil, tooMany); !errors.Is(err, episodes.ErrTooManyValues) {
		t.Fatalf("expected ErrTooManyValues, got %v", err)
	}
}

func TestIndex(t *testing.T) {
	r, err := episodes.NewRelease(context.Background(), makeRelease(t), nil)
	if err != nil {
		t.Fatalf("NewRelease: %v", err)
	}
	var opened string
	idx := func(_ context.Context, path string) (episodes.Clip, error) {
		opened = path
		return newFakeClip(24), nil
	}
	clip, err := r.Index(context.Background(), 2, idx)
	if err != nil {
		t.Fatalf("Index: %v", err)
	}
	if clip.NumFrames() != 24 || filepath.Base(opened) != "00011.m2ts" {
		t.Fatalf("unexpected index: frames=%d path=%s", clip.NumFrames(), opened)
	}

	failing := func(context.Context, string) (episodes.Clip, error) { return nil, errors.New("boom") }
	if _, err := r.Index(context.Background(), 1, failing); err == nil {
		t.Fatal("expected indexer error")
	}
}

func TestFolderSource(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"ep02.mkv", "ep01.mkv", "notes.txt", "ep10.mkv"} {
		testsupport.WriteFile(t, filepath.Join(dir, name), 1)
	}
	mkdirs := filepath.Join(dir, "extras.mkv")
	testsupport.WriteFile(t, filepath.Join(mkdirs, "inner.mkv"), 1)

	r, err := episodes.FolderSource(dir, "ep*.mkv")
	if err != nil {
		t.Fatalf("FolderSource: %v", err)
	}
	if diff := cmp.Diff([]string{"ep01.mkv", "ep02.mkv", "ep10.mkv"}, episodeFiles(r)); diff != "" {
		t.Fatalf("episodes mismatch (-want +got):\n%s", diff)
	}
	if _, err := r.Chapters(1); !errors.Is(err, episodes.ErrNoChapters) {
		t.Fatalf("expected ErrNoChapters, got %v", err)
	}

	all, err := episodes.FolderSource(dir, "")
	if err != nil {
		t.Fatalf("FolderSource(all): %v", err)
	}
	if all.Len() != 4 {
		t.Fatalf("expected 4 files, got %v", episodeFiles(all))
	}

	if _, err := episodes.FolderSource(dir, "*.m2ts"); !errors.Is(err, episodes.ErrNoEpisodes) {
		t.Fatalf("expected ErrNoEpisodes, got %v", err)
	}
	if _, err := episodes.FolderSource(filepath.Join(dir, "missing"), ""); !errors.Is(err, bdmv.ErrInvalidPath) {
		t.Fatalf("expected ErrInvalidPath, got %v", err)
	}
}

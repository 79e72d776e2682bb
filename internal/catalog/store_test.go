package catalog_test

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/go-cmp/cmp"

	"bdindex/internal/catalog"
	"bdindex/internal/testsupport"
	"bdindex/internal/timecode"
)

func sampleScan(id string, created time.Time) catalog.Scan {
	return catalog.Scan{
		ID:        id,
		Root:      "/releases/show",
		CreatedAt: created,
		Volumes:   []string{"/releases/show/Disc 1", "/releases/show/Disc 2"},
		Items: []catalog.Item{
			{
				Volume:       "Disc 1",
				Playlist:     "00001",
				PlaylistPath: "/releases/show/Disc 1/BDMV/PLAYLIST/00001.mpls",
				Index:        0,
				M2TSPath:     "/releases/show/Disc 1/BDMV/STREAM/00000.m2ts",
				FrameRate:    timecode.Film,
				Chapters:     []int64{0, 2158, 30000},
			},
			{
				Volume:       "Disc 1",
				Playlist:     "00001",
				PlaylistPath: "/releases/show/Disc 1/BDMV/PLAYLIST/00001.mpls",
				Index:        1,
				M2TSPath:     "/releases/show/Disc 1/BDMV/STREAM/00001.m2ts",
				FrameRate:    timecode.Film,
				Chapters:     []int64{},
			},
		},
		Failures: []catalog.Failure{
			{Volume: "Disc 2", PlaylistPath: "/releases/show/Disc 2/BDMV/PLAYLIST/00002.mpls", Error: "malformed playlist"},
		},
	}
}

func TestRecordAndGetScan(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	want := sampleScan("3f2a9c1e-0000-4000-8000-000000000001", created)
	id, err := store.RecordScan(ctx, want)
	if err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	if id != want.ID {
		t.Fatalf("RecordScan id = %q, want %q", id, want.ID)
	}

	got, err := store.GetScan(ctx, "3f2a9c")
	if err != nil {
		t.Fatalf("GetScan by prefix: %v", err)
	}
	if diff := cmp.Diff(&want, got); diff != "" {
		t.Fatalf("GetScan mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordScanAssignsIDAndTime(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	id, err := store.RecordScan(ctx, catalog.Scan{Root: "/releases/empty"})
	if err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	if len(id) != 36 {
		t.Fatalf("expected a uuid, got %q", id)
	}
	got, err := store.GetScan(ctx, id)
	if err != nil {
		t.Fatalf("GetScan: %v", err)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}
	if len(got.Items) != 0 || len(got.Volumes) != 0 || len(got.Failures) != 0 {
		t.Fatalf("expected an empty scan, got %+v", got)
	}
}

func TestRecordScanRequiresRoot(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	if _, err := store.RecordScan(context.Background(), catalog.Scan{}); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestListScansNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"aaaa", "bbbb", "cccc"} {
		if _, err := store.RecordScan(ctx, sampleScan(id, base.Add(time.Duration(i)*time.Hour))); err != nil {
			t.Fatalf("RecordScan %s: %v", id, err)
		}
	}

	summaries, err := store.ListScans(ctx)
	if err != nil {
		t.Fatalf("ListScans: %v", err)
	}
	var ids []string
	for _, summary := range summaries {
		ids = append(ids, summary.ID)
	}
	if diff := cmp.Diff([]string{"cccc", "bbbb", "aaaa"}, ids); diff != "" {
		t.Fatalf("ListScans order (-want +got):\n%s", diff)
	}
	first := summaries[0]
	if first.VolumeCount != 2 || first.ItemCount != 2 || first.FailureCount != 1 {
		t.Fatalf("unexpected counts: %+v", first)
	}
}

func TestResolveIDErrors(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	now := time.Now()
	for _, id := range []string{"abc1", "abc2"} {
		if _, err := store.RecordScan(ctx, sampleScan(id, now)); err != nil {
			t.Fatalf("RecordScan: %v", err)
		}
	}

	tests := []struct {
		prefix string
		want   error
	}{
		{prefix: "zzz", want: catalog.ErrScanNotFound},
		{prefix: "", want: catalog.ErrScanNotFound},
		{prefix: "abc", want: catalog.ErrAmbiguousID},
	}
	for _, tt := range tests {
		if _, err := store.ResolveID(ctx, tt.prefix); !errors.Is(err, tt.want) {
			t.Fatalf("ResolveID(%q) error = %v, want %v", tt.prefix, err, tt.want)
		}
	}
	if id, err := store.ResolveID(ctx, "abc2"); err != nil || id != "abc2" {
		t.Fatalf("ResolveID(abc2) = %q, %v", id, err)
	}
}

func TestDeleteScanRemovesRows(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	ctx := context.Background()

	if _, err := store.RecordScan(ctx, sampleScan("dead-beef", time.Now())); err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	removed, err := store.DeleteScan(ctx, "dead")
	if err != nil {
		t.Fatalf("DeleteScan: %v", err)
	}
	if removed != "dead-beef" {
		t.Fatalf("DeleteScan removed %q", removed)
	}
	if _, err := store.GetScan(ctx, "dead-beef"); !errors.Is(err, catalog.ErrScanNotFound) {
		t.Fatalf("expected ErrScanNotFound after delete, got %v", err)
	}
	// Re-recording the same id succeeds only when child rows were cascaded.
	if _, err := store.RecordScan(ctx, sampleScan("dead-beef", time.Now())); err != nil {
		t.Fatalf("RecordScan after delete: %v", err)
	}
}

func TestReopenKeepsScans(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := store.RecordScan(context.Background(), sampleScan("keep", time.Now())); err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened := testsupport.MustOpenCatalog(t, cfg)
	summaries, err := reopened.ListScans(context.Background())
	if err != nil {
		t.Fatalf("ListScans: %v", err)
	}
	if len(summaries) != 1 || summaries[0].ID != "keep" {
		t.Fatalf("unexpected summaries after reopen: %+v", summaries)
	}
}

func TestRecordScanWaitsForLock(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)

	holder := flock.New(store.Path() + ".lock")
	if err := holder.Lock(); err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer func() { _ = holder.Unlock() }()

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()
	if _, err := store.RecordScan(ctx, sampleScan("locked", time.Now())); err == nil {
		t.Fatal("expected RecordScan to fail while the lock is held")
	}

	if err := holder.Unlock(); err != nil {
		t.Fatalf("unlock: %v", err)
	}
	if _, err := store.RecordScan(context.Background(), sampleScan("locked", time.Now())); err != nil {
		t.Fatalf("RecordScan after unlock: %v", err)
	}
}

func TestOpenRejectsOtherSchemaVersion(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	path := store.Path()
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("sql.Open: %v", err)
	}
	if _, err := db.Exec("PRAGMA user_version = 7"); err != nil {
		t.Fatalf("stamp version: %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("close db: %v", err)
	}

	if _, err := catalog.Open(cfg); !errors.Is(err, catalog.ErrSchemaMismatch) {
		t.Fatalf("expected ErrSchemaMismatch, got %v", err)
	}
}

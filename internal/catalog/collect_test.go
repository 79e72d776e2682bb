package catalog_test

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"bdindex/internal/bdmv"
	"bdindex/internal/catalog"
	"bdindex/internal/logging"
	"bdindex/internal/testsupport"
	"bdindex/internal/timecode"
)

func TestCollectRecordsItemsAndFailures(t *testing.T) {
	root := t.TempDir()
	good := testsupport.MPLS{
		Items: []testsupport.PlayItemSpec{
			testsupport.Item("00010", 0, 45000*600),
			testsupport.Item("00011", 0, 45000*600),
		},
		Marks: append(testsupport.Marks(0, 0, 45000*90), testsupport.Marks(1, 0)...),
	}
	broken := testsupport.MPLS{
		Items:         []testsupport.PlayItemSpec{testsupport.Item("00012", 0, 45000)},
		OmitMarkTable: true,
	}
	testsupport.MakeVolume(t, filepath.Join(root, "Disc 1"), map[string]testsupport.MPLS{
		"00001": good,
		"00002": broken,
	})

	release, err := bdmv.FromPath(root)
	if err != nil {
		t.Fatalf("FromPath: %v", err)
	}
	scan, err := catalog.Collect(context.Background(), release, nil)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}

	if scan.Root != release.Root || len(scan.Volumes) != 1 {
		t.Fatalf("unexpected scan header: %+v", scan)
	}
	if len(scan.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(scan.Items))
	}
	first := scan.Items[0]
	if first.Playlist != "00001" || first.Index != 0 || first.FrameRate != timecode.Film {
		t.Fatalf("unexpected first item: %+v", first)
	}
	if len(first.Chapters) != 2 || first.Chapters[1] != 2158 {
		t.Fatalf("unexpected chapters: %v", first.Chapters)
	}
	if filepath.Base(first.M2TSPath) != "00010.m2ts" {
		t.Fatalf("unexpected media path %s", first.M2TSPath)
	}
	if len(scan.Failures) != 1 || filepath.Base(scan.Failures[0].PlaylistPath) != "00002.mpls" {
		t.Fatalf("unexpected failures: %+v", scan.Failures)
	}

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenCatalog(t, cfg)
	id, err := store.RecordScan(context.Background(), scan)
	if err != nil {
		t.Fatalf("RecordScan: %v", err)
	}
	stored, err := store.GetScan(context.Background(), id)
	if err != nil {
		t.Fatalf("GetScan: %v", err)
	}
	if len(stored.Items) != 2 || len(stored.Failures) != 1 {
		t.Fatalf("stored scan mismatch: %+v", stored)
	}
}

func TestCollectStopsOnCancel(t *testing.T) {
	root := t.TempDir()
	testsupport.MakeVolume(t, filepath.Join(root, "Disc 1"), map[string]testsupport.MPLS{
		"00001": {Items: []testsupport.PlayItemSpec{testsupport.Item("00010", 0, 45000)}, Marks: testsupport.Marks(0, 0)},
	})
	release, err := bdmv.FromPath(root)
	if err != nil {
		t.Fatalf("FromPath: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := catalog.Collect(ctx, release, nil); err == nil {
		t.Fatal("expected context error")
	}
}

func TestCollectLogsFailuresPerVolume(t *testing.T) {
	root := t.TempDir()
	good := testsupport.MPLS{
		Items: []testsupport.PlayItemSpec{testsupport.Item("00010", 0, 45000)},
		Marks: testsupport.Marks(0, 0),
	}
	broken := testsupport.MPLS{
		Items:         []testsupport.PlayItemSpec{testsupport.Item("00012", 0, 45000)},
		OmitMarkTable: true,
	}
	testsupport.MakeVolume(t, filepath.Join(root, "Disc 1"), map[string]testsupport.MPLS{"00001": good, "00002": broken})
	testsupport.MakeVolume(t, filepath.Join(root, "Disc 2"), map[string]testsupport.MPLS{"00001": good})

	release, err := bdmv.FromPath(root)
	if err != nil {
		t.Fatalf("FromPath: %v", err)
	}
	logPath := filepath.Join(t.TempDir(), "collect.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "debug", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("logging.New: %v", err)
	}
	if _, err := catalog.Collect(context.Background(), release, logger); err != nil {
		t.Fatalf("Collect: %v", err)
	}

	file, err := os.Open(logPath)
	if err != nil {
		t.Fatalf("open log: %v", err)
	}
	defer file.Close()
	got := map[string]float64{}
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(scanner.Bytes(), &entry); err != nil {
			t.Fatalf("decode %q: %v", scanner.Text(), err)
		}
		if entry["msg"] != "volume scanned" {
			continue
		}
		volume, _ := entry[logging.FieldVolume].(string)
		failures, _ := entry["failures"].(float64)
		got[volume] = failures
	}
	if len(got) != 2 || got["Disc 1"] != 1 || got["Disc 2"] != 0 {
		t.Fatalf("unexpected per-volume failures: %v", got)
	}
}

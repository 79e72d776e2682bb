package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"bdindex/internal/config"
)

// ErrScanNotFound is returned when no scan matches an id.
var ErrScanNotFound = errors.New("scan not found")

// ErrAmbiguousID is returned when an id prefix matches more than one scan.
var ErrAmbiguousID = errors.New("scan id prefix is ambiguous")

const (
	lockRetryDelay = 50 * time.Millisecond
	// Fixed-width so created_at sorts as text.
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// Store manages scan persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
	now  func() time.Time
}

// Open initializes or connects to the catalog database at
// cfg.Paths.CatalogPath.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	dbPath := strings.TrimSpace(cfg.Paths.CatalogPath)
	if dbPath == "" {
		return nil, errors.New("paths.catalog_path is not set")
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	// foreign_keys is per connection; one connection keeps cascades on.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}
	store := &Store{
		db:   db,
		path: dbPath,
		lock: flock.New(dbPath + ".lock"),
		now:  time.Now,
	}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path is the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) withWriteLock(ctx context.Context, fn func() error) error {
	ok, err := s.lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return fmt.Errorf("acquire catalog lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("acquire catalog lock: %s is held by another process", s.lock.Path())
	}
	defer func() { _ = s.lock.Unlock() }()
	return fn()
}

// RecordScan stores scan with its volumes, items and failures in one
// transaction. An empty ID is replaced with a new UUID, and a zero CreatedAt
// with the current time. It returns the stored ID.
func (s *Store) RecordScan(ctx context.Context, scan Scan) (string, error) {
	if strings.TrimSpace(scan.Root) == "" {
		return "", errors.New("record scan: root is required")
	}
	if scan.ID == "" {
		scan.ID = uuid.NewString()
	}
	if scan.CreatedAt.IsZero() {
		scan.CreatedAt = s.now()
	}

	err := s.withWriteLock(ctx, func() error {
		return retryOnBusy(ctx, func() error {
			return s.insertScan(ctx, scan)
		})
	})
	if err != nil {
		return "", err
	}
	return scan.ID, nil
}

func (s *Store) insertScan(ctx context.Context, scan Scan) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin scan tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO scans (id, root, created_at) VALUES (?, ?, ?)`,
		scan.ID, scan.Root, scan.CreatedAt.UTC().Format(timeLayout),
	); err != nil {
		return fmt.Errorf("insert scan: %w", err)
	}

	for i, volume := range scan.Volumes {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO scan_volumes (scan_id, position, path) VALUES (?, ?, ?)`,
			scan.ID, i, volume,
		); err != nil {
			return fmt.Errorf("insert scan volume: %w", err)
		}
	}

	for i, item := range scan.Items {
		chapters := item.Chapters
		if chapters == nil {
			chapters = []int64{}
		}
		chaptersJSON, err := json.Marshal(chapters)
		if err != nil {
			return fmt.Errorf("marshal chapters: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO scan_items (
                scan_id, position, volume, playlist, playlist_path, item_index,
                m2ts_path, frame_rate_num, frame_rate_den, chapters_json
            ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			scan.ID, i, item.Volume, item.Playlist, item.PlaylistPath, item.Index,
			item.M2TSPath, item.FrameRate.Num, item.FrameRate.Den, string(chaptersJSON),
		); err != nil {
			return fmt.Errorf("insert scan item: %w", err)
		}
	}

	for i, failure := range scan.Failures {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO scan_failures (scan_id, position, volume, playlist_path, error) VALUES (?, ?, ?, ?, ?)`,
			scan.ID, i, failure.Volume, failure.PlaylistPath, failure.Error,
		); err != nil {
			return fmt.Errorf("insert scan failure: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit scan: %w", err)
	}
	return nil
}

// ListScans returns scan summaries, newest first.
func (s *Store) ListScans(ctx context.Context) ([]Summary, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT s.id, s.root, s.created_at,
            (SELECT COUNT(1) FROM scan_volumes v WHERE v.scan_id = s.id),
            (SELECT COUNT(1) FROM scan_items i WHERE i.scan_id = s.id),
            (SELECT COUNT(1) FROM scan_failures f WHERE f.scan_id = s.id)
        FROM scans s
        ORDER BY s.created_at DESC, s.id`)
	if err != nil {
		return nil, fmt.Errorf("list scans: %w", err)
	}
	defer rows.Close()

	var summaries []Summary
	for rows.Next() {
		var (
			summary    Summary
			createdRaw string
		)
		if err := rows.Scan(&summary.ID, &summary.Root, &createdRaw,
			&summary.VolumeCount, &summary.ItemCount, &summary.FailureCount); err != nil {
			return nil, fmt.Errorf("scan summary row: %w", err)
		}
		if created, err := parseTimeString(createdRaw); err == nil {
			summary.CreatedAt = created
		}
		summaries = append(summaries, summary)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scans: %w", err)
	}
	return summaries, nil
}

// ResolveID expands an id prefix to the full scan id.
func (s *Store) ResolveID(ctx context.Context, prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", fmt.Errorf("%w: empty id", ErrScanNotFound)
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id FROM scans WHERE substr(id, 1, ?) = ? ORDER BY id LIMIT 2`,
		len(prefix), prefix,
	)
	if err != nil {
		return "", fmt.Errorf("resolve scan id: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return "", fmt.Errorf("resolve scan id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("resolve scan id: %w", err)
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("%w: %s", ErrScanNotFound, prefix)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("%w: %s", ErrAmbiguousID, prefix)
	}
}

// GetScan loads a scan with its volumes, items and failures. id may be a
// unique prefix.
func (s *Store) GetScan(ctx context.Context, id string) (*Scan, error) {
	fullID, err := s.ResolveID(ctx, id)
	if err != nil {
		return nil, err
	}

	scan := &Scan{ID: fullID}
	var createdRaw string
	row := s.db.QueryRowContext(ctx, `SELECT root, created_at FROM scans WHERE id = ?`, fullID)
	if err := row.Scan(&scan.Root, &createdRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", ErrScanNotFound, fullID)
		}
		return nil, fmt.Errorf("get scan: %w", err)
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		scan.CreatedAt = created
	}

	if scan.Volumes, err = s.loadVolumes(ctx, fullID); err != nil {
		return nil, err
	}
	if scan.Items, err = s.loadItems(ctx, fullID); err != nil {
		return nil, err
	}
	if scan.Failures, err = s.loadFailures(ctx, fullID); err != nil {
		return nil, err
	}
	return scan, nil
}

func (s *Store) loadVolumes(ctx context.Context, id string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT path FROM scan_volumes WHERE scan_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load scan volumes: %w", err)
	}
	defer rows.Close()

	var volumes []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, fmt.Errorf("scan volume row: %w", err)
		}
		volumes = append(volumes, path)
	}
	return volumes, rows.Err()
}

func (s *Store) loadItems(ctx context.Context, id string) ([]Item, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT volume, playlist, playlist_path, item_index, m2ts_path,
            frame_rate_num, frame_rate_den, chapters_json
        FROM scan_items WHERE scan_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load scan items: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var (
			item         Item
			chaptersJSON string
		)
		if err := rows.Scan(&item.Volume, &item.Playlist, &item.PlaylistPath, &item.Index,
			&item.M2TSPath, &item.FrameRate.Num, &item.FrameRate.Den, &chaptersJSON); err != nil {
			return nil, fmt.Errorf("scan item row: %w", err)
		}
		if err := json.Unmarshal([]byte(chaptersJSON), &item.Chapters); err != nil {
			return nil, fmt.Errorf("decode chapters for %s item %d: %w", item.PlaylistPath, item.Index, err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (s *Store) loadFailures(ctx context.Context, id string) ([]Failure, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT volume, playlist_path, error FROM scan_failures WHERE scan_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("load scan failures: %w", err)
	}
	defer rows.Close()

	var failures []Failure
	for rows.Next() {
		var failure Failure
		if err := rows.Scan(&failure.Volume, &failure.PlaylistPath, &failure.Error); err != nil {
			return nil, fmt.Errorf("scan failure row: %w", err)
		}
		failures = append(failures, failure)
	}
	return failures, rows.Err()
}

// DeleteScan removes a scan and its rows. id may be a unique prefix. It
// returns the full id removed.
func (s *Store) DeleteScan(ctx context.Context, id string) (string, error) {
	fullID, err := s.ResolveID(ctx, id)
	if err != nil {
		return "", err
	}
	err = s.withWriteLock(ctx, func() error {
		return retryOnBusy(ctx, func() error {
			_, execErr := s.db.ExecContext(ctx, `DELETE FROM scans WHERE id = ?`, fullID)
			return execErr
		})
	})
	if err != nil {
		return "", fmt.Errorf("delete scan: %w", err)
	}
	return fullID, nil
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

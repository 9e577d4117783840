package queue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"babel/internal/textutil"
)

// Store manages queue persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the queue database at dbPath and
// applies migrations.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

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

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
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

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// NewEpisode inserts a pending item for a source audio file.
func (s *Store) NewEpisode(ctx context.Context, sourcePath, title string) (*Item, error) {
	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339Nano)
	if title == "" {
		title = textutil.DisplayTitle(sourcePath)
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO queue_items (source_path, title, status, created_at, updated_at)
         VALUES (?, ?, ?, ?, ?)`,
		sourcePath, title, StatusPending, timestamp, timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert queue item: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("resolve new item id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a single item, or nil when it does not exist.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return item, err
}

// NextForStatuses returns the oldest item whose status matches one of
// the provided values, or nil when the queue has nothing eligible.
func (s *Store) NextForStatuses(ctx context.Context, statuses ...Status) (*Item, error) {
	if len(statuses) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(statuses))
	args := make([]any, len(statuses))
	for i, status := range statuses {
		placeholders[i] = "?"
		args[i] = string(status)
	}
	query := selectColumns + ` WHERE status IN (` + strings.Join(placeholders, ",") + `) ORDER BY created_at ASC, id ASC LIMIT 1`
	row := s.db.QueryRowContext(ctx, query, args...)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return item, err
}

// Update persists all mutable fields of the item.
func (s *Store) Update(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("nil queue item")
	}
	if !item.Status.Valid() {
		return fmt.Errorf("invalid status %q", item.Status)
	}
	item.UpdatedAt = time.Now().UTC()
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE queue_items SET
            source_path = ?, title = ?, status = ?, work_dir = ?,
            output_path = ?, ref_paths_json = ?, error_message = ?,
            review_reason = ?, progress_stage = ?, progress_percent = ?,
            progress_message = ?, updated_at = ?
         WHERE id = ?`,
		item.SourcePath, item.Title, string(item.Status), item.WorkDir,
		item.OutputPath, item.RefPathsJSON, item.ErrorMessage,
		item.ReviewReason, item.ProgressStage, item.ProgressPercent,
		item.ProgressMessage, item.UpdatedAt.Format(time.RFC3339Nano),
		item.ID,
	)
	if err != nil {
		return fmt.Errorf("update queue item %d: %w", item.ID, err)
	}
	return nil
}

// UpdateProgress persists only the progress fields.
func (s *Store) UpdateProgress(ctx context.Context, item *Item) error {
	if item == nil {
		return errors.New("nil queue item")
	}
	_, err := s.db.ExecContext(
		ctx,
		`UPDATE queue_items SET progress_stage = ?, progress_percent = ?, progress_message = ?, updated_at = ? WHERE id = ?`,
		item.ProgressStage, item.ProgressPercent, item.ProgressMessage,
		time.Now().UTC().Format(time.RFC3339Nano), item.ID,
	)
	if err != nil {
		return fmt.Errorf("update progress for item %d: %w", item.ID, err)
	}
	return nil
}

// List returns items filtered by status, or all items when no statuses
// are given, oldest first.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Item, error) {
	query := selectColumns
	args := make([]any, 0, len(statuses))
	if len(statuses) > 0 {
		placeholders := make([]string, len(statuses))
		for i, status := range statuses {
			placeholders[i] = "?"
			args = append(args, string(status))
		}
		query += ` WHERE status IN (` + strings.Join(placeholders, ",") + `)`
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list queue items: %w", err)
	}
	defer rows.Close()

	items := make([]*Item, 0, 8)
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// RetryFailed moves failed and review items back to pending, clearing
// their error state. It returns the number of items reset.
func (s *Store) RetryFailed(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(
		ctx,
		`UPDATE queue_items SET status = ?, error_message = '', review_reason = '', updated_at = ?
         WHERE status IN (?, ?)`,
		StatusPending, time.Now().UTC().Format(time.RFC3339Nano),
		StatusFailed, StatusReview,
	)
	if err != nil {
		return 0, fmt.Errorf("retry failed items: %w", err)
	}
	return res.RowsAffected()
}

// ClearCompleted deletes completed items and returns the count removed.
func (s *Store) ClearCompleted(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM queue_items WHERE status = ?`, StatusCompleted)
	if err != nil {
		return 0, fmt.Errorf("clear completed items: %w", err)
	}
	return res.RowsAffected()
}

// RollbackProcessing resets items stranded in an in-flight status (for
// example after a crash) to the preceding resting status.
func (s *Store) RollbackProcessing(ctx context.Context) error {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	for _, transition := range stageRollbackTransitions {
		if _, err := s.db.ExecContext(
			ctx,
			`UPDATE queue_items SET status = ?, updated_at = ? WHERE status = ?`,
			string(transition.to), timestamp, string(transition.from),
		); err != nil {
			return fmt.Errorf("rollback %s items: %w", transition.from, err)
		}
	}
	return nil
}

// Health aggregates queue counts for status display.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	var summary HealthSummary
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(*) FROM queue_items GROUP BY status`)
	if err != nil {
		return summary, fmt.Errorf("aggregate queue health: %w", err)
	}
	defer rows.Close()

	processing := make(map[Status]struct{}, len(ProcessingStatuses))
	for _, status := range ProcessingStatuses {
		processing[status] = struct{}{}
	}

	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return summary, fmt.Errorf("scan queue health: %w", err)
		}
		summary.Total += count
		switch {
		case status == StatusPending:
			summary.Pending += count
		case status == StatusCompleted:
			summary.Completed += count
		case status == StatusFailed:
			summary.Failed += count
		case status == StatusReview:
			summary.Review += count
		default:
			if _, ok := processing[status]; ok {
				summary.Processing += count
			}
		}
	}
	return summary, rows.Err()
}

const selectColumns = `SELECT id, source_path, title, status, work_dir, output_path,
    ref_paths_json, error_message, review_reason, progress_stage,
    progress_percent, progress_message, created_at, updated_at
    FROM queue_items`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*Item, error) {
	var item Item
	var status, createdAt, updatedAt string
	if err := row.Scan(
		&item.ID, &item.SourcePath, &item.Title, &status, &item.WorkDir,
		&item.OutputPath, &item.RefPathsJSON, &item.ErrorMessage,
		&item.ReviewReason, &item.ProgressStage, &item.ProgressPercent,
		&item.ProgressMessage, &createdAt, &updatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan queue item: %w", err)
	}
	item.Status = Status(status)
	item.CreatedAt = parseTimestamp(createdAt)
	item.UpdatedAt = parseTimestamp(updatedAt)
	return &item, nil
}

func parseTimestamp(raw string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}
	}
	return ts
}

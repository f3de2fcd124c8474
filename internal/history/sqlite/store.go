package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Registers the "sqlite" driver.

	"github.com/davidbz/atelier/internal/domain"
	"github.com/davidbz/atelier/internal/observability"
)

// Store is a HistoryStore backed by a single SQLite file.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and migrates it.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history path cannot be empty")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	// Single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to open history db: %w", err)
	}

	if err := applyMigrations(db, observability.FromContext(ctx)); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Append inserts rec.
func (s *Store) Append(ctx context.Context, rec *domain.HistoryRecord) error {
	if rec == nil {
		return errors.New("record cannot be nil")
	}

	params, err := json.Marshal(rec.Parameters)
	if err != nil {
		return fmt.Errorf("failed to encode parameters: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO generations (
			id, user_id, project_id, prompt, mode, status, parameters, output_ref,
			quality_score, generation_time, retry_count, fingerprint, error_message,
			created_at, completed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, nullInt64(rec.ProjectID), rec.Prompt, string(rec.Mode),
		string(rec.Status), string(params), rec.OutputRef,
		nullFloat64(rec.QualityScore), nullFloat64(rec.GenerationTime), rec.RetryCount,
		rec.Fingerprint, rec.ErrorMessage, rec.CreatedAt.UnixMilli(), nullTime(rec.CompletedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert generation %s: %w", rec.ID, err)
	}
	return nil
}

const selectColumns = `
	id, user_id, project_id, prompt, mode, status, parameters, output_ref,
	quality_score, generation_time, retry_count, fingerprint, error_message,
	created_at, completed_at`

// Get returns the record with the given id.
func (s *Store) Get(ctx context.Context, id string) (*domain.HistoryRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM generations WHERE id = ?`, id)

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("generation %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Query returns matching records, most recent first, with the total match count.
func (s *Store) Query(ctx context.Context, filter domain.HistoryFilter) (*domain.HistoryPage, error) {
	where := []string{"user_id = ?"}
	args := []any{filter.UserID}

	filter.ProjectID.WhenSome(func(id int64) {
		where = append(where, "project_id = ?")
		args = append(args, id)
	})
	filter.Status.WhenSome(func(status domain.Status) {
		where = append(where, "status = ?")
		args = append(args, string(status))
	})
	filter.Since.WhenSome(func(since time.Time) {
		where = append(where, "created_at >= ?")
		args = append(args, since.UnixMilli())
	})
	clause := " WHERE " + strings.Join(where, " AND ")

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM generations`+clause, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count generations: %w", err)
	}

	// SQLite treats a negative LIMIT as unbounded.
	limit := filter.Limit
	if limit <= 0 {
		limit = -1
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT `+selectColumns+` FROM generations`+clause+
			` ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		append(args, limit, filter.Offset)...,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query generations: %w", err)
	}
	defer rows.Close()

	records := make([]domain.HistoryRecord, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read generations: %w", err)
	}

	return &domain.HistoryPage{
		Total:   total,
		Limit:   filter.Limit,
		Offset:  filter.Offset,
		Records: records,
	}, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (*domain.HistoryRecord, error) {
	var (
		rec         domain.HistoryRecord
		projectID   sql.NullInt64
		mode        string
		status      string
		params      string
		quality     sql.NullFloat64
		genTime     sql.NullFloat64
		createdAt   int64
		completedAt sql.NullInt64
	)

	err := row.Scan(
		&rec.ID, &rec.UserID, &projectID, &rec.Prompt, &mode, &status, &params, &rec.OutputRef,
		&quality, &genTime, &rec.RetryCount, &rec.Fingerprint, &rec.ErrorMessage,
		&createdAt, &completedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan generation: %w", err)
	}

	if err := json.Unmarshal([]byte(params), &rec.Parameters); err != nil {
		return nil, fmt.Errorf("failed to decode parameters of %s: %w", rec.ID, err)
	}

	rec.Mode = domain.Mode(mode)
	rec.Status = domain.Status(status)
	rec.CreatedAt = time.UnixMilli(createdAt).UTC()
	if projectID.Valid {
		rec.ProjectID = &projectID.Int64
	}
	if quality.Valid {
		rec.QualityScore = &quality.Float64
	}
	if genTime.Valid {
		rec.GenerationTime = &genTime.Float64
	}
	if completedAt.Valid {
		t := time.UnixMilli(completedAt.Int64).UTC()
		rec.CompletedAt = &t
	}

	return &rec, nil
}

func nullInt64(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

func nullFloat64(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func nullTime(v *time.Time) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: v.UnixMilli(), Valid: true}
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"ge-course-scraper/internal/entity"
	"ge-course-scraper/internal/logger"

	"github.com/Masterminds/squirrel"
)

var courseColumns = []string{
	"ge", "code", "name", "instructor", "link", "seats_available",
	"seats_total", "enroll_num", "class_type", "schedule", "location",
}

// SnapshotRepository stores the current course snapshot.
type SnapshotRepository struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

func NewSnapshotRepository(db *sql.DB, dialect Dialect) *SnapshotRepository {
	return &SnapshotRepository{
		db: db,
		sb: dialect.builder(),
	}
}

// ClearAll deletes every stored course.
func (r *SnapshotRepository) ClearAll(ctx context.Context) error {
	query, args, err := r.sb.Delete("courses").ToSql()
	if err != nil {
		return fmt.Errorf("failed to build clear courses query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		logger.Error().Err(err).Msg("Error clearing courses")
		return fmt.Errorf("error clearing courses: %w", err)
	}
	return nil
}

// InsertBatch inserts records in a single transaction.
func (r *SnapshotRepository) InsertBatch(ctx context.Context, records []entity.CourseRecord) error {
	if len(records) == 0 {
		return nil
	}
	insert := r.sb.Insert("courses").Columns(courseColumns...)
	for _, c := range records {
		insert = insert.Values(
			c.Category, c.Code, c.Title, c.Instructor, c.DetailLink, c.SeatsAvailable,
			c.SeatsTotal, c.EnrollmentID, c.DeliveryMode, c.Schedule, c.Location,
		)
	}
	query, args, err := insert.ToSql()
	if err != nil {
		return fmt.Errorf("failed to build insert courses query: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		logger.Error().Err(err).Int("records", len(records)).Msg("Error inserting course batch")
		return fmt.Errorf("error inserting courses: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit course batch: %w", err)
	}
	return nil
}

// SetLastRefreshed records when the snapshot was last replaced.
func (r *SnapshotRepository) SetLastRefreshed(ctx context.Context, at time.Time) error {
	query, args, err := r.sb.Insert("refresh_state").
		Columns("id", "last_refreshed").
		Values(1, at.UTC().Format(time.RFC3339Nano)).
		Suffix("ON CONFLICT (id) DO UPDATE SET last_refreshed = excluded.last_refreshed").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build refresh state query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("error saving refresh time: %w", err)
	}
	return nil
}

// LastRefreshed returns ErrNotFound before the first refresh.
func (r *SnapshotRepository) LastRefreshed(ctx context.Context) (time.Time, error) {
	query, args, err := r.sb.Select("last_refreshed").From("refresh_state").Where(squirrel.Eq{"id": 1}).ToSql()
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to build refresh state query: %w", err)
	}
	var raw string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, ErrNotFound
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("error reading refresh time: %w", err)
	}
	at, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("malformed refresh time %q: %w", raw, err)
	}
	return at, nil
}

// ListCourses returns the stored courses of one category, or of all
// categories when category is empty or "AnyGE".
func (r *SnapshotRepository) ListCourses(ctx context.Context, category string) ([]entity.CourseRecord, error) {
	selectBuilder := r.sb.Select(courseColumns...).From("courses").OrderBy("ge", "code", "enroll_num")
	if category != "" && category != "AnyGE" {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"ge": category})
	}
	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing courses: %w", err)
	}
	defer rows.Close()

	courses := []entity.CourseRecord{}
	for rows.Next() {
		var c entity.CourseRecord
		if err := rows.Scan(
			&c.Category, &c.Code, &c.Title, &c.Instructor, &c.DetailLink, &c.SeatsAvailable,
			&c.SeatsTotal, &c.EnrollmentID, &c.DeliveryMode, &c.Schedule, &c.Location,
		); err != nil {
			return nil, fmt.Errorf("error scanning course: %w", err)
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}

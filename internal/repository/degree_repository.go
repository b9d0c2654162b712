package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"ge-course-scraper/internal/entity"

	"github.com/Masterminds/squirrel"
)

// DegreeRepository stores the required courses of each degree program.
type DegreeRepository struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

func NewDegreeRepository(db *sql.DB, dialect Dialect) *DegreeRepository {
	return &DegreeRepository{
		db: db,
		sb: dialect.builder(),
	}
}

// ReplaceDegree upserts a degree and replaces its course list.
func (r *DegreeRepository) ReplaceDegree(ctx context.Context, degree entity.Degree) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	upsert, args, err := r.sb.Insert("degrees").
		Columns("name", "url").
		Values(degree.Name, degree.URL).
		Suffix("ON CONFLICT (name) DO UPDATE SET url = excluded.url").
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build upsert degree query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, upsert, args...); err != nil {
		return fmt.Errorf("error saving degree %s: %w", degree.Name, err)
	}

	clear, args, err := r.sb.Delete("degree_courses").Where(squirrel.Eq{"degree_name": degree.Name}).ToSql()
	if err != nil {
		return fmt.Errorf("failed to build clear degree courses query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, clear, args...); err != nil {
		return fmt.Errorf("error clearing courses of %s: %w", degree.Name, err)
	}

	insert := r.sb.Insert("degree_courses").
		Columns("degree_name", "course_type", "type_position", "course_position", "course_code")
	count := 0
	for typePos, group := range degree.CourseTypes {
		for coursePos, code := range group.Courses {
			insert = insert.Values(degree.Name, group.Type, typePos, coursePos, code)
			count++
		}
	}
	if count > 0 {
		query, args, err := insert.ToSql()
		if err != nil {
			return fmt.Errorf("failed to build insert degree courses query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("error inserting courses of %s: %w", degree.Name, err)
		}
	}
	return tx.Commit()
}

func (r *DegreeRepository) ListDegrees(ctx context.Context) ([]string, error) {
	query, args, err := r.sb.Select("name").From("degrees").OrderBy("name").ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build list degrees query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error listing degrees: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// DegreeCourses returns the degree with its course groups in stored order.
func (r *DegreeRepository) DegreeCourses(ctx context.Context, name string) (entity.Degree, error) {
	degree := entity.Degree{Name: name, CourseTypes: []entity.CourseTypeGroup{}}

	query, args, err := r.sb.Select("url").From("degrees").Where(squirrel.Eq{"name": name}).ToSql()
	if err != nil {
		return degree, fmt.Errorf("failed to build degree query: %w", err)
	}
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&degree.URL)
	if errors.Is(err, sql.ErrNoRows) {
		return degree, ErrNotFound
	}
	if err != nil {
		return degree, fmt.Errorf("error reading degree %s: %w", name, err)
	}

	query, args, err = r.sb.Select("course_type", "course_code").
		From("degree_courses").
		Where(squirrel.Eq{"degree_name": name}).
		OrderBy("type_position", "course_position").
		ToSql()
	if err != nil {
		return degree, fmt.Errorf("failed to build degree courses query: %w", err)
	}
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return degree, fmt.Errorf("error listing courses of %s: %w", name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var courseType, code string
		if err := rows.Scan(&courseType, &code); err != nil {
			return degree, err
		}
		last := len(degree.CourseTypes) - 1
		if last < 0 || degree.CourseTypes[last].Type != courseType {
			degree.CourseTypes = append(degree.CourseTypes, entity.CourseTypeGroup{Type: courseType})
			last++
		}
		degree.CourseTypes[last].Courses = append(degree.CourseTypes[last].Courses, code)
	}
	return degree, rows.Err()
}

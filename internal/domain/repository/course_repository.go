package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ElBibos90/codelearning-sub001/internal/common"
	"github.com/ElBibos90/codelearning-sub001/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type CourseRepository interface {
	CreateCourse(ctx context.Context, course *model.Course) error
	UpdateCourse(ctx context.Context, course *model.Course) error
	DeleteCourse(ctx context.Context, id string) error
	FindCourseByID(ctx context.Context, id string) (*model.Course, error)
	FindCourseBySlug(ctx context.Context, slug string) (*model.Course, error)
	ListCourses(ctx context.Context, limit, offset int, difficulty model.CourseDifficulty, searchTerm string) ([]model.Course, int, error)
}

type pgCourseRepository struct {
	db *sql.DB
}

func NewPgCourseRepository(db *sql.DB) CourseRepository {
	return &pgCourseRepository{db: db}
}

func (r *pgCourseRepository) CreateCourse(ctx context.Context, c *model.Course) error {
	query := `INSERT INTO courses (id, title, slug, description, difficulty, duration_hours, created_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.Title, c.Slug, c.Description, c.Difficulty, c.DurationHours, c.CreatedByID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // Unique constraint for slug
			return fmt.Errorf("course with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgCourseRepository.CreateCourse: %w", err)
	}
	return nil
}

func (r *pgCourseRepository) UpdateCourse(ctx context.Context, c *model.Course) error {
	query := `UPDATE courses SET
                title = $1, slug = $2, description = $3, difficulty = $4,
                duration_hours = $5, updated_at = CURRENT_TIMESTAMP
              WHERE id = $6`
	res, err := r.db.ExecContext(ctx, query, c.Title, c.Slug, c.Description, c.Difficulty, c.DurationHours, c.ID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("course with this slug already exists: %w", common.ErrConflict)
		}
		return fmt.Errorf("pgCourseRepository.UpdateCourse: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgCourseRepository) DeleteCourse(ctx context.Context, id string) error {
	// Enrollments, lessons, progress and comments go with it via FK cascade.
	res, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgCourseRepository.DeleteCourse: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgCourseRepository) FindCourseByID(ctx context.Context, id string) (*model.Course, error) {
	return r.findCourse(ctx, "c.id = $1", id, "FindCourseByID")
}

func (r *pgCourseRepository) FindCourseBySlug(ctx context.Context, slug string) (*model.Course, error) {
	return r.findCourse(ctx, "c.slug = $1", slug, "FindCourseBySlug")
}

func (r *pgCourseRepository) findCourse(ctx context.Context, where, arg, method string) (*model.Course, error) {
	query := `
        SELECT c.id, c.title, c.slug, c.description, c.difficulty, c.duration_hours,
               c.created_by, cb_user.username AS created_by_username,
               c.created_at, c.updated_at,
               (SELECT COUNT(*) FROM lessons l WHERE l.course_id = c.id) AS lesson_count
        FROM courses c
        LEFT JOIN users cb_user ON c.created_by = cb_user.id
        WHERE ` + where

	course := &model.Course{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&course.ID, &course.Title, &course.Slug, &course.Description, &course.Difficulty, &course.DurationHours,
		&course.CreatedByID, &course.CreatedByUsername,
		&course.CreatedAt, &course.UpdatedAt,
		&course.LessonCount,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgCourseRepository.%s: %w", method, err)
	}
	return course, nil
}

func (r *pgCourseRepository) ListCourses(ctx context.Context, limit, offset int, difficulty model.CourseDifficulty, searchTerm string) ([]model.Course, int, error) {
	var baseQuery strings.Builder
	baseQuery.WriteString(`
        SELECT c.id, c.title, c.slug, c.description, c.difficulty, c.duration_hours,
               c.created_at, c.updated_at,
               (SELECT COUNT(*) FROM lessons l WHERE l.course_id = c.id) AS lesson_count
        FROM courses c`)

	var countQueryBuilder strings.Builder
	countQueryBuilder.WriteString(`SELECT COUNT(*) FROM courses c`)

	var conditions []string
	var args []interface{}
	argID := 1

	if difficulty != "" {
		conditions = append(conditions, fmt.Sprintf("c.difficulty = $%d", argID))
		args = append(args, difficulty)
		argID++
	}

	if searchTerm != "" {
		conditions = append(conditions, fmt.Sprintf("(c.title ILIKE $%d OR c.description ILIKE $%d)", argID, argID+1))
		likeTerm := "%" + searchTerm + "%"
		args = append(args, likeTerm, likeTerm)
		argID += 2
	}

	if len(conditions) > 0 {
		whereClause := " WHERE " + strings.Join(conditions, " AND ")
		baseQuery.WriteString(whereClause)
		countQueryBuilder.WriteString(whereClause)
	}

	var total int
	err := r.db.QueryRowContext(ctx, countQueryBuilder.String(), args...).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("pgCourseRepository.ListCourses count: %w", err)
	}

	baseQuery.WriteString(fmt.Sprintf(" ORDER BY c.created_at DESC LIMIT $%d OFFSET $%d", argID, argID+1))
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, baseQuery.String(), args...)
	if err != nil {
		return nil, 0, fmt.Errorf("pgCourseRepository.ListCourses query: %w", err)
	}
	defer rows.Close()

	courses := []model.Course{}
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Slug, &c.Description, &c.Difficulty, &c.DurationHours,
			&c.CreatedAt, &c.UpdatedAt, &c.LessonCount); err != nil {
			return nil, 0, fmt.Errorf("pgCourseRepository.ListCourses scan: %w", err)
		}
		courses = append(courses, c)
	}
	if err = rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("pgCourseRepository.ListCourses rows.Err: %w", err)
	}

	return courses, total, nil
}

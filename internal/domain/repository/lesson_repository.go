package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ElBibos90/codelearning-sub001/internal/common"
	"github.com/ElBibos90/codelearning-sub001/internal/domain/model"

	"github.com/jackc/pgx/v5/pgconn"
)

type LessonRepository interface {
	CreateLesson(ctx context.Context, tx *sql.Tx, lesson *model.Lesson) error
	UpdateLesson(ctx context.Context, tx *sql.Tx, lesson *model.Lesson) error
	DeleteLesson(ctx context.Context, id string) error
	FindLessonByID(ctx context.Context, id string) (*model.Lesson, error)
	ListLessonsByCourseID(ctx context.Context, courseID string) ([]model.LessonSummary, error)

	AddResourcesToLesson(ctx context.Context, tx *sql.Tx, lessonID string, resources []model.LessonResource) error
	GetResourcesByLessonID(ctx context.Context, lessonID string) ([]model.LessonResource, error)
	DeleteResourcesByLessonID(ctx context.Context, tx *sql.Tx, lessonID string) error

	CreateLessonVersion(ctx context.Context, tx *sql.Tx, version *model.LessonVersion) error
	ListVersionsByLessonID(ctx context.Context, lessonID string) ([]model.LessonVersion, error)
	NextVersionNumber(ctx context.Context, tx *sql.Tx, lessonID string) (int, error)
}

type pgLessonRepository struct {
	db *sql.DB
}

func NewPgLessonRepository(db *sql.DB) LessonRepository {
	return &pgLessonRepository{db: db}
}

func (r *pgLessonRepository) CreateLesson(ctx context.Context, tx *sql.Tx, l *model.Lesson) error {
	query := `INSERT INTO lessons (id, course_id, order_number, title, content, video_url)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, l.ID, l.CourseID, l.OrderNumber, l.Title, l.Content, l.VideoURL)
	} else {
		_, err = r.db.ExecContext(ctx, query, l.ID, l.CourseID, l.OrderNumber, l.Title, l.Content, l.VideoURL)
	}

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			if pgErr.Code == "23505" { // Unique constraint on (course_id, order_number)
				return fmt.Errorf("lesson with order number %d already exists in this course: %w", l.OrderNumber, common.ErrConflict)
			}
			if pgErr.Code == "23503" { // FK violation: course is gone
				return fmt.Errorf("course %s does not exist: %w", l.CourseID, common.ErrNotFound)
			}
		}
		return fmt.Errorf("pgLessonRepository.CreateLesson: %w", err)
	}
	return nil
}

func (r *pgLessonRepository) UpdateLesson(ctx context.Context, tx *sql.Tx, l *model.Lesson) error {
	query := `UPDATE lessons SET
                order_number = $1, title = $2, content = $3, video_url = $4, updated_at = CURRENT_TIMESTAMP
              WHERE id = $5`

	var res sql.Result
	var err error
	if tx != nil {
		res, err = tx.ExecContext(ctx, query, l.OrderNumber, l.Title, l.Content, l.VideoURL, l.ID)
	} else {
		res, err = r.db.ExecContext(ctx, query, l.OrderNumber, l.Title, l.Content, l.VideoURL, l.ID)
	}
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("lesson with order number %d already exists in this course: %w", l.OrderNumber, common.ErrConflict)
		}
		return fmt.Errorf("pgLessonRepository.UpdateLesson: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgLessonRepository) DeleteLesson(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM lessons WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgLessonRepository.DeleteLesson: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *pgLessonRepository) FindLessonByID(ctx context.Context, id string) (*model.Lesson, error) {
	query := `SELECT id, course_id, order_number, title, content, video_url, created_at, updated_at
	          FROM lessons WHERE id = $1`
	lesson := &model.Lesson{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&lesson.ID, &lesson.CourseID, &lesson.OrderNumber, &lesson.Title, &lesson.Content,
		&lesson.VideoURL, &lesson.CreatedAt, &lesson.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgLessonRepository.FindLessonByID: %w", err)
	}
	return lesson, nil
}

func (r *pgLessonRepository) ListLessonsByCourseID(ctx context.Context, courseID string) ([]model.LessonSummary, error) {
	query := `SELECT id, course_id, order_number, title
	          FROM lessons WHERE course_id = $1 ORDER BY order_number ASC`
	rows, err := r.db.QueryContext(ctx, query, courseID)
	if err != nil {
		return nil, fmt.Errorf("pgLessonRepository.ListLessonsByCourseID query: %w", err)
	}
	defer rows.Close()

	lessons := []model.LessonSummary{}
	for rows.Next() {
		var l model.LessonSummary
		if err := rows.Scan(&l.ID, &l.CourseID, &l.OrderNumber, &l.Title); err != nil {
			return nil, fmt.Errorf("pgLessonRepository.ListLessonsByCourseID scan: %w", err)
		}
		lessons = append(lessons, l)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgLessonRepository.ListLessonsByCourseID rows.Err: %w", err)
	}
	return lessons, nil
}

func (r *pgLessonRepository) AddResourcesToLesson(ctx context.Context, tx *sql.Tx, lessonID string, resources []model.LessonResource) error {
	if len(resources) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO lesson_resources (id, lesson_id, title, url, sort_order) VALUES ($1, $2, $3, $4, $5)`)
	if err != nil {
		return fmt.Errorf("pgLessonRepository.AddResourcesToLesson prepare: %w", err)
	}
	defer stmt.Close()

	for i, res := range resources {
		res.SortOrder = i + 1 // Auto-assign sort order
		_, err := stmt.ExecContext(ctx, res.ID, lessonID, res.Title, res.URL, res.SortOrder)
		if err != nil {
			return fmt.Errorf("pgLessonRepository.AddResourcesToLesson exec for resource %s: %w", res.ID, err)
		}
	}
	return nil
}

func (r *pgLessonRepository) GetResourcesByLessonID(ctx context.Context, lessonID string) ([]model.LessonResource, error) {
	query := `SELECT id, lesson_id, title, url, sort_order, created_at
	          FROM lesson_resources WHERE lesson_id = $1 ORDER BY sort_order ASC`
	rows, err := r.db.QueryContext(ctx, query, lessonID)
	if err != nil {
		return nil, fmt.Errorf("pgLessonRepository.GetResourcesByLessonID query: %w", err)
	}
	defer rows.Close()

	var resources []model.LessonResource
	for rows.Next() {
		var res model.LessonResource
		if err := rows.Scan(&res.ID, &res.LessonID, &res.Title, &res.URL, &res.SortOrder, &res.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgLessonRepository.GetResourcesByLessonID scan: %w", err)
		}
		resources = append(resources, res)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgLessonRepository.GetResourcesByLessonID rows.Err: %w", err)
	}
	return resources, nil
}

func (r *pgLessonRepository) DeleteResourcesByLessonID(ctx context.Context, tx *sql.Tx, lessonID string) error {
	_, err := tx.ExecContext(ctx, `DELETE FROM lesson_resources WHERE lesson_id = $1`, lessonID)
	if err != nil {
		return fmt.Errorf("pgLessonRepository.DeleteResourcesByLessonID: %w", err)
	}
	return nil
}

func (r *pgLessonRepository) CreateLessonVersion(ctx context.Context, tx *sql.Tx, v *model.LessonVersion) error {
	query := `INSERT INTO lesson_versions (id, lesson_id, version_number, title, content, video_url, edited_by)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`
	_, err := tx.ExecContext(ctx, query, v.ID, v.LessonID, v.VersionNumber, v.Title, v.Content, v.VideoURL, v.EditedByID)
	if err != nil {
		return fmt.Errorf("pgLessonRepository.CreateLessonVersion: %w", err)
	}
	return nil
}

func (r *pgLessonRepository) ListVersionsByLessonID(ctx context.Context, lessonID string) ([]model.LessonVersion, error) {
	query := `SELECT id, lesson_id, version_number, title, content, video_url, edited_by, created_at
	          FROM lesson_versions WHERE lesson_id = $1 ORDER BY version_number DESC`
	rows, err := r.db.QueryContext(ctx, query, lessonID)
	if err != nil {
		return nil, fmt.Errorf("pgLessonRepository.ListVersionsByLessonID query: %w", err)
	}
	defer rows.Close()

	var versions []model.LessonVersion
	for rows.Next() {
		var v model.LessonVersion
		if err := rows.Scan(&v.ID, &v.LessonID, &v.VersionNumber, &v.Title, &v.Content, &v.VideoURL, &v.EditedByID, &v.CreatedAt); err != nil {
			return nil, fmt.Errorf("pgLessonRepository.ListVersionsByLessonID scan: %w", err)
		}
		versions = append(versions, v)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgLessonRepository.ListVersionsByLessonID rows.Err: %w", err)
	}
	return versions, nil
}

func (r *pgLessonRepository) NextVersionNumber(ctx context.Context, tx *sql.Tx, lessonID string) (int, error) {
	var next int
	err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version_number), 0) + 1 FROM lesson_versions WHERE lesson_id = $1`,
		lessonID).Scan(&next)
	if err != nil {
		return 0, fmt.Errorf("pgLessonRepository.NextVersionNumber: %w", err)
	}
	return next, nil
}

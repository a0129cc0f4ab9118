package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ElBibos90/codelearning-sub001/internal/common"
	"github.com/ElBibos90/codelearning-sub001/internal/domain/model"
)

type EnrollmentRepository interface {
	// Enroll creates the enrollment row if absent and returns the current row
	// either way. Repeating it never creates a second row and never errors.
	Enroll(ctx context.Context, userID, courseID string) (*model.Enrollment, error)

	FindEnrollment(ctx context.Context, userID, courseID string) (*model.Enrollment, error)

	// CompleteLesson upserts the lesson_progress row and recomputes the owning
	// enrollment's completed flag in a single transaction. Returns
	// common.ErrUnauthorized when the user holds no enrollment for courseID.
	CompleteLesson(ctx context.Context, userID, lessonID, courseID string) (*model.CompleteLessonResult, error)

	// CountLessonProgress returns total lessons in the course and how many of
	// them carry a completed progress row for the user.
	CountLessonProgress(ctx context.Context, userID, courseID string) (total, completed int, err error)
}

type pgEnrollmentRepository struct {
	db *sql.DB
}

func NewPgEnrollmentRepository(db *sql.DB) EnrollmentRepository {
	return &pgEnrollmentRepository{db: db}
}

const enrollmentColumns = `user_id, course_id, enrolled_at, completed, completed_at`

func scanEnrollment(row *sql.Row) (*model.Enrollment, error) {
	e := &model.Enrollment{}
	err := row.Scan(&e.UserID, &e.CourseID, &e.EnrolledAt, &e.Completed, &e.CompletedAt)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *pgEnrollmentRepository) Enroll(ctx context.Context, userID, courseID string) (*model.Enrollment, error) {
	// ON CONFLICT DO NOTHING keeps the original row (and its enrolled_at)
	// untouched on repeat enrolls, regardless of request interleaving.
	insert := `INSERT INTO course_enrollments (user_id, course_id, enrolled_at, completed)
	           VALUES ($1, $2, now(), FALSE)
	           ON CONFLICT (user_id, course_id) DO NOTHING`
	if _, err := r.db.ExecContext(ctx, insert, userID, courseID); err != nil {
		return nil, fmt.Errorf("pgEnrollmentRepository.Enroll insert: %w", err)
	}

	query := `SELECT ` + enrollmentColumns + ` FROM course_enrollments
	          WHERE user_id = $1 AND course_id = $2`
	enrollment, err := scanEnrollment(r.db.QueryRowContext(ctx, query, userID, courseID))
	if err != nil {
		return nil, fmt.Errorf("pgEnrollmentRepository.Enroll select: %w", err)
	}
	return enrollment, nil
}

func (r *pgEnrollmentRepository) FindEnrollment(ctx context.Context, userID, courseID string) (*model.Enrollment, error) {
	query := `SELECT ` + enrollmentColumns + ` FROM course_enrollments
	          WHERE user_id = $1 AND course_id = $2`
	enrollment, err := scanEnrollment(r.db.QueryRowContext(ctx, query, userID, courseID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgEnrollmentRepository.FindEnrollment: %w", err)
	}
	return enrollment, nil
}

func (r *pgEnrollmentRepository) CompleteLesson(ctx context.Context, userID, lessonID, courseID string) (*model.CompleteLessonResult, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("pgEnrollmentRepository.CompleteLesson begin: %w", err)
	}
	defer tx.Rollback()

	// Lock the enrollment row first. This both enforces the enrolled-before-
	// completing invariant and serializes concurrent completions for the same
	// (user, course) pair, so the recompute below always runs against the
	// latest committed lesson_progress snapshot.
	lockQuery := `SELECT ` + enrollmentColumns + ` FROM course_enrollments
	              WHERE user_id = $1 AND course_id = $2 FOR UPDATE`
	enrollment := &model.Enrollment{}
	err = tx.QueryRowContext(ctx, lockQuery, userID, courseID).Scan(
		&enrollment.UserID, &enrollment.CourseID, &enrollment.EnrolledAt, &enrollment.Completed, &enrollment.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user is not enrolled in this course: %w", common.ErrUnauthorized)
		}
		return nil, fmt.Errorf("pgEnrollmentRepository.CompleteLesson lock: %w", err)
	}

	// Upsert progress. COALESCE keeps the first completion timestamp.
	upsert := `INSERT INTO lesson_progress (user_id, lesson_id, completed, completed_at)
	           VALUES ($1, $2, TRUE, now())
	           ON CONFLICT (user_id, lesson_id) DO UPDATE
	           SET completed = TRUE,
	               completed_at = COALESCE(lesson_progress.completed_at, EXCLUDED.completed_at)
	           RETURNING user_id, lesson_id, completed, completed_at`
	progress := &model.LessonProgress{}
	err = tx.QueryRowContext(ctx, upsert, userID, lessonID).Scan(
		&progress.UserID, &progress.LessonID, &progress.Completed, &progress.CompletedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("pgEnrollmentRepository.CompleteLesson upsert: %w", err)
	}

	// Flip the enrollment exactly once, and only when every lesson of the
	// course has a completed progress row. Empty courses never flip.
	flip := `UPDATE course_enrollments ce
	         SET completed = TRUE, completed_at = now()
	         WHERE ce.user_id = $1 AND ce.course_id = $2 AND NOT ce.completed
	           AND EXISTS (SELECT 1 FROM lessons l WHERE l.course_id = $2)
	           AND NOT EXISTS (
	               SELECT 1 FROM lessons l
	               LEFT JOIN lesson_progress lp
	                      ON lp.lesson_id = l.id AND lp.user_id = $1
	               WHERE l.course_id = $2
	                 AND lp.completed IS DISTINCT FROM TRUE)
	         RETURNING ` + enrollmentColumns
	flipped := &model.Enrollment{}
	err = tx.QueryRowContext(ctx, flip, userID, courseID).Scan(
		&flipped.UserID, &flipped.CourseID, &flipped.EnrolledAt, &flipped.Completed, &flipped.CompletedAt,
	)
	result := &model.CompleteLessonResult{LessonProgress: progress}
	switch {
	case err == nil:
		result.Enrollment = flipped
	case errors.Is(err, sql.ErrNoRows):
		// Nothing to flip: course not finished yet, or already completed.
	default:
		return nil, fmt.Errorf("pgEnrollmentRepository.CompleteLesson flip: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("pgEnrollmentRepository.CompleteLesson commit: %w", err)
	}
	return result, nil
}

func (r *pgEnrollmentRepository) CountLessonProgress(ctx context.Context, userID, courseID string) (int, int, error) {
	query := `SELECT
	            (SELECT COUNT(*) FROM lessons WHERE course_id = $2),
	            (SELECT COUNT(*) FROM lesson_progress lp
	               JOIN lessons l ON l.id = lp.lesson_id
	             WHERE lp.user_id = $1 AND lp.completed AND l.course_id = $2)`
	var total, completed int
	if err := r.db.QueryRowContext(ctx, query, userID, courseID).Scan(&total, &completed); err != nil {
		return 0, 0, fmt.Errorf("pgEnrollmentRepository.CountLessonProgress: %w", err)
	}
	return total, completed, nil
}

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

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	FindCommentByID(ctx context.Context, id string) (*model.Comment, error)
	ListCommentsByLessonID(ctx context.Context, lessonID string) ([]model.Comment, error)
	DeleteComment(ctx context.Context, id string) error
}

type pgCommentRepository struct {
	db *sql.DB
}

func NewPgCommentRepository(db *sql.DB) CommentRepository {
	return &pgCommentRepository{db: db}
}

func (r *pgCommentRepository) CreateComment(ctx context.Context, c *model.Comment) error {
	query := `INSERT INTO comments (id, lesson_id, user_id, parent_id, content)
	          VALUES ($1, $2, $3, $4, $5)`
	_, err := r.db.ExecContext(ctx, query, c.ID, c.LessonID, c.UserID, c.ParentID, c.Content)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" { // FK violation: lesson or parent gone
			return fmt.Errorf("lesson or parent comment does not exist: %w", common.ErrNotFound)
		}
		return fmt.Errorf("pgCommentRepository.CreateComment: %w", err)
	}
	return nil
}

func (r *pgCommentRepository) FindCommentByID(ctx context.Context, id string) (*model.Comment, error) {
	query := `SELECT id, lesson_id, user_id, parent_id, content, created_at, updated_at
	          FROM comments WHERE id = $1`
	comment := &model.Comment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&comment.ID, &comment.LessonID, &comment.UserID, &comment.ParentID,
		&comment.Content, &comment.CreatedAt, &comment.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("pgCommentRepository.FindCommentByID: %w", err)
	}
	return comment, nil
}

func (r *pgCommentRepository) ListCommentsByLessonID(ctx context.Context, lessonID string) ([]model.Comment, error) {
	query := `SELECT c.id, c.lesson_id, c.user_id, c.parent_id, c.content,
	                 c.created_at, c.updated_at, u.username AS author_username
	          FROM comments c
	          LEFT JOIN users u ON c.user_id = u.id
	          WHERE c.lesson_id = $1
	          ORDER BY c.created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, lessonID)
	if err != nil {
		return nil, fmt.Errorf("pgCommentRepository.ListCommentsByLessonID query: %w", err)
	}
	defer rows.Close()

	comments := []model.Comment{}
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.LessonID, &c.UserID, &c.ParentID, &c.Content,
			&c.CreatedAt, &c.UpdatedAt, &c.AuthorUsername); err != nil {
			return nil, fmt.Errorf("pgCommentRepository.ListCommentsByLessonID scan: %w", err)
		}
		comments = append(comments, c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("pgCommentRepository.ListCommentsByLessonID rows.Err: %w", err)
	}
	return comments, nil
}

func (r *pgCommentRepository) DeleteComment(ctx context.Context, id string) error {
	// Replies are removed with their parent via FK cascade.
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("pgCommentRepository.DeleteComment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return common.ErrNotFound
	}
	return nil
}

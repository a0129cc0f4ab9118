package service

import (
	"context"
	"errors"

	"github.com/ElBibos90/codelearning-sub001/internal/common"
	"github.com/ElBibos90/codelearning-sub001/internal/domain/model"
	"github.com/ElBibos90/codelearning-sub001/internal/domain/repository"
	"github.com/ElBibos90/codelearning-sub001/internal/platform/logger"

	"github.com/google/uuid"
)

type CommentService struct {
	commentRepo    repository.CommentRepository
	lessonRepo     repository.LessonRepository
	enrollmentRepo repository.EnrollmentRepository
	log            *logger.Logger
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	lessonRepo repository.LessonRepository,
	enrollmentRepo repository.EnrollmentRepository,
	log *logger.Logger,
) *CommentService {
	return &CommentService{
		commentRepo:    commentRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
		log:            log,
	}
}

type CreateCommentRequest struct {
	Content  string  `json:"content" validate:"required,min=1,max=5000"`
	ParentID *string `json:"parent_id,omitempty" validate:"omitempty,uuid4"`
}

// ListComments returns the lesson's thread: top-level comments in creation
// order, each carrying its replies. Stored depth never exceeds one level.
func (s *CommentService) ListComments(ctx context.Context, lessonID string) ([]model.Comment, error) {
	if _, err := s.lessonRepo.FindLessonByID(ctx, lessonID); err != nil {
		return nil, common.Errorf("lesson not found: %w", err)
	}

	flat, err := s.commentRepo.ListCommentsByLessonID(ctx, lessonID)
	if err != nil {
		return nil, common.Errorf("failed to list comments: %w", err)
	}

	byID := make(map[string]int, len(flat)) // comment ID -> index in thread
	thread := []model.Comment{}
	for _, c := range flat {
		if c.ParentID == nil {
			thread = append(thread, c)
			byID[c.ID] = len(thread) - 1
		}
	}
	for _, c := range flat {
		if c.ParentID == nil {
			continue
		}
		if idx, ok := byID[*c.ParentID]; ok {
			thread[idx].Replies = append(thread[idx].Replies, c)
		} else {
			// Parent is missing from the page (deleted mid-read); surface the
			// reply at the top level rather than dropping it.
			thread = append(thread, c)
		}
	}
	return thread, nil
}

// CreateComment posts a comment or a reply. Replies to replies are flattened:
// the stored parent is always the top-level comment.
func (s *CommentService) CreateComment(ctx context.Context, userID, lessonID string, req CreateCommentRequest) (*model.Comment, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	lesson, err := s.lessonRepo.FindLessonByID(ctx, lessonID)
	if err != nil {
		return nil, common.Errorf("lesson not found: %w", err)
	}

	if _, err := s.enrollmentRepo.FindEnrollment(ctx, userID, lesson.CourseID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("enrollment required to comment: %w", common.ErrUnauthorized)
		}
		return nil, common.Errorf("failed to look up enrollment: %w", err)
	}

	parentID := req.ParentID
	if parentID != nil {
		parent, err := s.commentRepo.FindCommentByID(ctx, *parentID)
		if err != nil {
			return nil, common.Errorf("parent comment not found: %w", err)
		}
		if parent.LessonID != lessonID {
			return nil, common.Errorf("parent comment belongs to another lesson: %w", common.ErrBadRequest)
		}
		if parent.ParentID != nil {
			parentID = parent.ParentID
		}
	}

	comment := &model.Comment{
		ID:       uuid.NewString(),
		LessonID: lessonID,
		UserID:   userID,
		ParentID: parentID,
		Content:  req.Content,
	}
	if err := s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, common.Errorf("failed to create comment: %w", err)
	}

	return s.commentRepo.FindCommentByID(ctx, comment.ID)
}

// DeleteComment removes a comment. Only the author or an admin may delete.
func (s *CommentService) DeleteComment(ctx context.Context, userID, userRole, commentID string) error {
	comment, err := s.commentRepo.FindCommentByID(ctx, commentID)
	if err != nil {
		return common.Errorf("comment not found: %w", err)
	}

	if comment.UserID != userID && userRole != model.RoleAdmin {
		return common.Errorf("only the author or an admin can delete a comment: %w", common.ErrForbidden)
	}

	if err := s.commentRepo.DeleteComment(ctx, commentID); err != nil {
		return common.Errorf("failed to delete comment: %w", err)
	}
	s.log.Info("comment deleted", "comment_id", commentID, "by_user", userID)
	return nil
}

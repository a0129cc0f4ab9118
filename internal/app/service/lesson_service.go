package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ElBibos90/codelearning-sub001/internal/common"
	"github.com/ElBibos90/codelearning-sub001/internal/domain/model"
	"github.com/ElBibos90/codelearning-sub001/internal/domain/repository"
	"github.com/ElBibos90/codelearning-sub001/internal/platform/logger"

	"github.com/google/uuid"
)

type LessonService struct {
	lessonRepo     repository.LessonRepository
	courseRepo     repository.CourseRepository
	enrollmentRepo repository.EnrollmentRepository
	db             *sql.DB // For transactions
	log            *logger.Logger
}

func NewLessonService(
	lessonRepo repository.LessonRepository,
	courseRepo repository.CourseRepository,
	enrollmentRepo repository.EnrollmentRepository,
	db *sql.DB,
	log *logger.Logger,
) *LessonService {
	return &LessonService{
		lessonRepo:     lessonRepo,
		courseRepo:     courseRepo,
		enrollmentRepo: enrollmentRepo,
		db:             db,
		log:            log,
	}
}

type LessonResourceInput struct {
	Title string `json:"title" validate:"required"`
	URL   string `json:"url" validate:"required,url"`
}

type CreateLessonRequest struct {
	CourseID    string                `json:"course_id" validate:"required,uuid4"`
	OrderNumber int                   `json:"order_number" validate:"required,gte=1"`
	Title       string                `json:"title" validate:"required,min=3,max=200"`
	Content     string                `json:"content" validate:"required"`
	VideoURL    *string               `json:"video_url,omitempty" validate:"omitempty,url"`
	Resources   []LessonResourceInput `json:"resources,omitempty" validate:"dive"`
}

type UpdateLessonRequest struct {
	OrderNumber int                   `json:"order_number" validate:"required,gte=1"`
	Title       string                `json:"title" validate:"required,min=3,max=200"`
	Content     string                `json:"content" validate:"required"`
	VideoURL    *string               `json:"video_url,omitempty" validate:"omitempty,url"`
	Resources   []LessonResourceInput `json:"resources,omitempty" validate:"dive"`
}

// GetLessonDetail serves lesson content. Non-enrolled users are turned away;
// the outline endpoint is the public view.
func (s *LessonService) GetLessonDetail(ctx context.Context, userID, lessonID string) (*model.Lesson, error) {
	lesson, err := s.lessonRepo.FindLessonByID(ctx, lessonID)
	if err != nil {
		return nil, common.Errorf("lesson not found: %w", err)
	}

	if _, err := s.enrollmentRepo.FindEnrollment(ctx, userID, lesson.CourseID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("enrollment required to view lesson content: %w", common.ErrUnauthorized)
		}
		return nil, common.Errorf("failed to look up enrollment: %w", err)
	}

	resources, err := s.lessonRepo.GetResourcesByLessonID(ctx, lessonID)
	if err != nil {
		return nil, common.Errorf("failed to load lesson resources: %w", err)
	}
	lesson.Resources = resources
	return lesson, nil
}

func (s *LessonService) CreateLesson(ctx context.Context, req CreateLessonRequest) (*model.Lesson, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	if _, err := s.courseRepo.FindCourseByID(ctx, req.CourseID); err != nil {
		return nil, common.Errorf("course not found: %w", err)
	}

	lesson := &model.Lesson{
		ID:          uuid.NewString(),
		CourseID:    req.CourseID,
		OrderNumber: req.OrderNumber,
		Title:       req.Title,
		Content:     req.Content,
		VideoURL:    req.VideoURL,
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.lessonRepo.CreateLesson(ctx, tx, lesson); err != nil {
		return nil, common.Errorf("failed to create lesson: %w", err)
	}
	if err := s.lessonRepo.AddResourcesToLesson(ctx, tx, lesson.ID, buildResources(lesson.ID, req.Resources)); err != nil {
		return nil, common.Errorf("failed to add lesson resources: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	s.log.Info("lesson created", "lesson_id", lesson.ID, "course_id", lesson.CourseID, "order", lesson.OrderNumber)
	lesson.Resources, _ = s.lessonRepo.GetResourcesByLessonID(ctx, lesson.ID)
	return lesson, nil
}

// UpdateLesson snapshots the previous content into lesson_versions before
// applying the new one, all in one transaction.
func (s *LessonService) UpdateLesson(ctx context.Context, userID, lessonID string, req UpdateLessonRequest) (*model.Lesson, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	existing, err := s.lessonRepo.FindLessonByID(ctx, lessonID)
	if err != nil {
		return nil, common.Errorf("lesson not found: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, common.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	versionNumber, err := s.lessonRepo.NextVersionNumber(ctx, tx, lessonID)
	if err != nil {
		return nil, common.Errorf("failed to compute version number: %w", err)
	}
	version := &model.LessonVersion{
		ID:            uuid.NewString(),
		LessonID:      lessonID,
		VersionNumber: versionNumber,
		Title:         existing.Title,
		Content:       existing.Content,
		VideoURL:      existing.VideoURL,
		EditedByID:    &userID,
	}
	if err := s.lessonRepo.CreateLessonVersion(ctx, tx, version); err != nil {
		return nil, common.Errorf("failed to snapshot lesson version: %w", err)
	}

	existing.OrderNumber = req.OrderNumber
	existing.Title = req.Title
	existing.Content = req.Content
	existing.VideoURL = req.VideoURL
	if err := s.lessonRepo.UpdateLesson(ctx, tx, existing); err != nil {
		return nil, common.Errorf("failed to update lesson: %w", err)
	}

	if req.Resources != nil {
		if err := s.lessonRepo.DeleteResourcesByLessonID(ctx, tx, lessonID); err != nil {
			return nil, common.Errorf("failed to clear lesson resources: %w", err)
		}
		if err := s.lessonRepo.AddResourcesToLesson(ctx, tx, lessonID, buildResources(lessonID, req.Resources)); err != nil {
			return nil, common.Errorf("failed to add lesson resources: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, common.Errorf("failed to commit transaction: %w", err)
	}

	s.log.Info("lesson updated", "lesson_id", lessonID, "version", versionNumber)
	existing.Resources, _ = s.lessonRepo.GetResourcesByLessonID(ctx, lessonID)
	return existing, nil
}

func (s *LessonService) DeleteLesson(ctx context.Context, lessonID string) error {
	if err := s.lessonRepo.DeleteLesson(ctx, lessonID); err != nil {
		return common.Errorf("failed to delete lesson: %w", err)
	}
	s.log.Info("lesson deleted", "lesson_id", lessonID)
	return nil
}

func (s *LessonService) ListVersions(ctx context.Context, lessonID string) ([]model.LessonVersion, error) {
	if _, err := s.lessonRepo.FindLessonByID(ctx, lessonID); err != nil {
		return nil, common.Errorf("lesson not found: %w", err)
	}
	return s.lessonRepo.ListVersionsByLessonID(ctx, lessonID)
}

func buildResources(lessonID string, inputs []LessonResourceInput) []model.LessonResource {
	resources := make([]model.LessonResource, 0, len(inputs))
	for i, in := range inputs {
		resources = append(resources, model.LessonResource{
			ID:        uuid.NewString(),
			LessonID:  lessonID,
			Title:     in.Title,
			URL:       in.URL,
			SortOrder: i + 1,
		})
	}
	return resources
}

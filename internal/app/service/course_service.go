package service

import (
	"context"

	"github.com/ElBibos90/codelearning-sub001/internal/common"
	"github.com/ElBibos90/codelearning-sub001/internal/domain/model"
	"github.com/ElBibos90/codelearning-sub001/internal/domain/repository"
	"github.com/ElBibos90/codelearning-sub001/internal/platform/logger"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type CourseService struct {
	courseRepo repository.CourseRepository
	lessonRepo repository.LessonRepository
	log        *logger.Logger
}

func NewCourseService(courseRepo repository.CourseRepository, lessonRepo repository.LessonRepository, log *logger.Logger) *CourseService {
	return &CourseService{courseRepo: courseRepo, lessonRepo: lessonRepo, log: log}
}

type CreateCourseRequest struct {
	Title         string `json:"title" validate:"required,min=3,max=200"`
	Description   string `json:"description" validate:"required"`
	Difficulty    string `json:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
	DurationHours int    `json:"duration_hours" validate:"gte=0"`
}

type UpdateCourseRequest struct {
	Title         string `json:"title" validate:"required,min=3,max=200"`
	Description   string `json:"description" validate:"required"`
	Difficulty    string `json:"difficulty" validate:"required,oneof=beginner intermediate advanced"`
	DurationHours int    `json:"duration_hours" validate:"gte=0"`
}

func (s *CourseService) CreateCourse(ctx context.Context, userID string, req CreateCourseRequest) (*model.Course, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	course := &model.Course{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Slug:          slug.Make(req.Title),
		Description:   req.Description,
		Difficulty:    model.CourseDifficulty(req.Difficulty),
		DurationHours: req.DurationHours,
		CreatedByID:   &userID,
	}

	if err := s.courseRepo.CreateCourse(ctx, course); err != nil {
		return nil, common.Errorf("failed to create course: %w", err)
	}

	s.log.Info("course created", "course_id", course.ID, "slug", course.Slug)
	return s.courseRepo.FindCourseByID(ctx, course.ID)
}

func (s *CourseService) UpdateCourse(ctx context.Context, courseID string, req UpdateCourseRequest) (*model.Course, error) {
	if err := common.ValidateStruct(req); err != nil {
		return nil, err
	}

	course, err := s.courseRepo.FindCourseByID(ctx, courseID)
	if err != nil {
		return nil, common.Errorf("course not found: %w", err)
	}

	course.Title = req.Title
	course.Slug = slug.Make(req.Title)
	course.Description = req.Description
	course.Difficulty = model.CourseDifficulty(req.Difficulty)
	course.DurationHours = req.DurationHours

	if err := s.courseRepo.UpdateCourse(ctx, course); err != nil {
		return nil, common.Errorf("failed to update course: %w", err)
	}
	return s.courseRepo.FindCourseByID(ctx, courseID)
}

func (s *CourseService) DeleteCourse(ctx context.Context, courseID string) error {
	if err := s.courseRepo.DeleteCourse(ctx, courseID); err != nil {
		return common.Errorf("failed to delete course: %w", err)
	}
	s.log.Info("course deleted", "course_id", courseID)
	return nil
}

func (s *CourseService) GetCourseBySlug(ctx context.Context, courseSlug string) (*model.Course, error) {
	course, err := s.courseRepo.FindCourseBySlug(ctx, courseSlug)
	if err != nil {
		return nil, common.Errorf("course not found: %w", err)
	}
	return course, nil
}

func (s *CourseService) ListCourses(ctx context.Context, page, pageSize int, difficulty model.CourseDifficulty, searchTerm string) ([]model.Course, int, error) {
	if difficulty != "" && !difficulty.Valid() {
		return nil, 0, common.Errorf("unknown difficulty %q: %w", difficulty, common.ErrBadRequest)
	}
	offset := (page - 1) * pageSize
	return s.courseRepo.ListCourses(ctx, pageSize, offset, difficulty, searchTerm)
}

// ListCourseLessons returns lesson metadata for the course outline. Content is
// only served through the lesson detail endpoint, which is enrollment-gated.
func (s *CourseService) ListCourseLessons(ctx context.Context, courseSlug string) ([]model.LessonSummary, error) {
	course, err := s.courseRepo.FindCourseBySlug(ctx, courseSlug)
	if err != nil {
		return nil, common.Errorf("course not found: %w", err)
	}
	return s.lessonRepo.ListLessonsByCourseID(ctx, course.ID)
}

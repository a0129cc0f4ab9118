package service

import (
	"context"
	"errors"
	"math"

	"github.com/ElBibos90/codelearning-sub001/internal/common"
	"github.com/ElBibos90/codelearning-sub001/internal/domain/model"
	"github.com/ElBibos90/codelearning-sub001/internal/domain/repository"
	"github.com/ElBibos90/codelearning-sub001/internal/platform/logger"
)

// ProgressService owns the enrollment and progress rules: idempotent enrolls,
// first-completion timestamps, and the derived course-completion state.
type ProgressService struct {
	courseRepo     repository.CourseRepository
	lessonRepo     repository.LessonRepository
	enrollmentRepo repository.EnrollmentRepository
	log            *logger.Logger
}

func NewProgressService(
	courseRepo repository.CourseRepository,
	lessonRepo repository.LessonRepository,
	enrollmentRepo repository.EnrollmentRepository,
	log *logger.Logger,
) *ProgressService {
	return &ProgressService{
		courseRepo:     courseRepo,
		lessonRepo:     lessonRepo,
		enrollmentRepo: enrollmentRepo,
		log:            log,
	}
}

// Enroll registers the user in the course. Repeat enrolls return the existing
// enrollment unchanged rather than erroring.
func (s *ProgressService) Enroll(ctx context.Context, userID, courseID string) (*model.Enrollment, error) {
	if _, err := s.courseRepo.FindCourseByID(ctx, courseID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("course %s not found: %w", courseID, common.ErrNotFound)
		}
		return nil, common.Errorf("failed to look up course: %w", err)
	}

	enrollment, err := s.enrollmentRepo.Enroll(ctx, userID, courseID)
	if err != nil {
		return nil, common.Errorf("failed to enroll: %w", err)
	}
	s.log.Info("user enrolled", "user_id", userID, "course_id", courseID)
	return enrollment, nil
}

// CompleteLesson marks the lesson complete for the user and recomputes the
// owning enrollment's completed flag in the same transaction. The user must be
// enrolled in the lesson's course.
func (s *ProgressService) CompleteLesson(ctx context.Context, userID, lessonID string) (*model.CompleteLessonResult, error) {
	lesson, err := s.lessonRepo.FindLessonByID(ctx, lessonID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("lesson %s not found: %w", lessonID, common.ErrNotFound)
		}
		return nil, common.Errorf("failed to look up lesson: %w", err)
	}

	result, err := s.enrollmentRepo.CompleteLesson(ctx, userID, lessonID, lesson.CourseID)
	if err != nil {
		return nil, common.Errorf("failed to complete lesson: %w", err)
	}

	if result.Enrollment != nil {
		s.log.Info("course completed", "user_id", userID, "course_id", lesson.CourseID)
	}
	return result, nil
}

// GetCourseProgress derives the completed/total counts and percentage for the
// user. A course with no lessons reports 0 percent, never an error.
func (s *ProgressService) GetCourseProgress(ctx context.Context, userID, courseID string) (*model.CourseProgress, error) {
	if _, err := s.courseRepo.FindCourseByID(ctx, courseID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Errorf("course %s not found: %w", courseID, common.ErrNotFound)
		}
		return nil, common.Errorf("failed to look up course: %w", err)
	}

	total, completed, err := s.enrollmentRepo.CountLessonProgress(ctx, userID, courseID)
	if err != nil {
		return nil, common.Errorf("failed to count lesson progress: %w", err)
	}

	percentage := 0
	if total > 0 {
		percentage = int(math.Round(100 * float64(completed) / float64(total)))
	}

	courseCompleted := false
	enrollment, err := s.enrollmentRepo.FindEnrollment(ctx, userID, courseID)
	if err != nil && !errors.Is(err, common.ErrNotFound) {
		return nil, common.Errorf("failed to look up enrollment: %w", err)
	}
	if enrollment != nil {
		courseCompleted = enrollment.Completed
	}

	return &model.CourseProgress{
		CourseID:         courseID,
		TotalLessons:     total,
		CompletedLessons: completed,
		Percentage:       percentage,
		Completed:        courseCompleted,
	}, nil
}

// GetEnrollmentStatus reports whether the user is enrolled and whether the
// course is completed. A missing enrollment is not an error.
func (s *ProgressService) GetEnrollmentStatus(ctx context.Context, userID, courseID string) (*model.EnrollmentStatus, error) {
	enrollment, err := s.enrollmentRepo.FindEnrollment(ctx, userID, courseID)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return &model.EnrollmentStatus{IsEnrolled: false, Completed: false}, nil
		}
		return nil, common.Errorf("failed to look up enrollment: %w", err)
	}
	return &model.EnrollmentStatus{IsEnrolled: true, Completed: enrollment.Completed}, nil
}

package service

import (
	"context"
	"testing"

	"github.com/ElBibos90/codelearning-sub001/internal/common"
	"github.com/ElBibos90/codelearning-sub001/internal/domain/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCourseFixture() (*CourseService, *progressFixture) {
	pf := newProgressFixture()
	return NewCourseService(pf.courseRepo, pf.lessonRepo, testLogger()), pf
}

func TestCreateCourseGeneratesSlug(t *testing.T) {
	svc, _ := newCourseFixture()

	course, err := svc.CreateCourse(context.Background(), uuid.NewString(), CreateCourseRequest{
		Title:         "Introduction to Go Programming",
		Description:   "From zero to gopher",
		Difficulty:    "beginner",
		DurationHours: 12,
	})
	require.NoError(t, err)
	assert.Equal(t, "introduction-to-go-programming", course.Slug)
	assert.Equal(t, model.DifficultyBeginner, course.Difficulty)
}

func TestCreateCourseDuplicateSlug(t *testing.T) {
	svc, _ := newCourseFixture()
	ctx := context.Background()
	req := CreateCourseRequest{
		Title:       "Introduction to Go Programming",
		Description: "From zero to gopher",
		Difficulty:  "beginner",
	}

	_, err := svc.CreateCourse(ctx, uuid.NewString(), req)
	require.NoError(t, err)

	_, err = svc.CreateCourse(ctx, uuid.NewString(), req)
	assert.ErrorIs(t, err, common.ErrConflict)
}

func TestCreateCourseValidation(t *testing.T) {
	svc, _ := newCourseFixture()

	_, err := svc.CreateCourse(context.Background(), uuid.NewString(), CreateCourseRequest{
		Title:       "Go",
		Description: "too short a title",
		Difficulty:  "beginner",
	})
	assert.ErrorIs(t, err, common.ErrValidation)

	_, err = svc.CreateCourse(context.Background(), uuid.NewString(), CreateCourseRequest{
		Title:       "Valid Title",
		Description: "bad difficulty",
		Difficulty:  "impossible",
	})
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestUpdateCourseReslugs(t *testing.T) {
	svc, _ := newCourseFixture()
	ctx := context.Background()

	course, err := svc.CreateCourse(ctx, uuid.NewString(), CreateCourseRequest{
		Title:       "Old Title Here",
		Description: "desc",
		Difficulty:  "intermediate",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateCourse(ctx, course.ID, UpdateCourseRequest{
		Title:       "Brand New Title",
		Description: "desc",
		Difficulty:  "advanced",
	})
	require.NoError(t, err)
	assert.Equal(t, "brand-new-title", updated.Slug)
	assert.Equal(t, model.DifficultyAdvanced, updated.Difficulty)
}

func TestListCoursesRejectsUnknownDifficulty(t *testing.T) {
	svc, _ := newCourseFixture()
	_, _, err := svc.ListCourses(context.Background(), 1, 20, "impossible", "")
	assert.ErrorIs(t, err, common.ErrBadRequest)
}

func TestListCourseLessonsBySlug(t *testing.T) {
	svc, pf := newCourseFixture()
	courseID, _ := pf.seedCourse(t, 2)
	ctx := context.Background()

	course, err := pf.courseRepo.FindCourseByID(ctx, courseID)
	require.NoError(t, err)

	lessons, err := svc.ListCourseLessons(ctx, course.Slug)
	require.NoError(t, err)
	assert.Len(t, lessons, 2)

	_, err = svc.ListCourseLessons(ctx, "no-such-course")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

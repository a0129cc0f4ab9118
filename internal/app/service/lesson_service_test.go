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

// The transactional create/update paths need a real database; these tests
// cover the read paths and the enrollment gate.
func newLessonFixture() (*LessonService, *progressFixture) {
	pf := newProgressFixture()
	svc := NewLessonService(pf.lessonRepo, pf.courseRepo, pf.enrollmentRepo, nil, testLogger())
	return svc, pf
}

func TestGetLessonDetailRequiresEnrollment(t *testing.T) {
	svc, pf := newLessonFixture()
	_, lessonIDs := pf.seedCourse(t, 1)

	_, err := svc.GetLessonDetail(context.Background(), uuid.NewString(), lessonIDs[0])
	assert.ErrorIs(t, err, common.ErrUnauthorized)
}

func TestGetLessonDetailForEnrolledUser(t *testing.T) {
	svc, pf := newLessonFixture()
	courseID, lessonIDs := pf.seedCourse(t, 1)
	userID := uuid.NewString()
	ctx := context.Background()

	_, err := pf.enrollmentRepo.Enroll(ctx, userID, courseID)
	require.NoError(t, err)

	err = pf.lessonRepo.AddResourcesToLesson(ctx, nil, lessonIDs[0], []model.LessonResource{
		{ID: uuid.NewString(), LessonID: lessonIDs[0], Title: "Slides", URL: "https://example.com/slides.pdf", SortOrder: 1},
	})
	require.NoError(t, err)

	lesson, err := svc.GetLessonDetail(ctx, userID, lessonIDs[0])
	require.NoError(t, err)
	assert.Equal(t, lessonIDs[0], lesson.ID)
	assert.NotEmpty(t, lesson.Content)
	require.Len(t, lesson.Resources, 1)
	assert.Equal(t, "Slides", lesson.Resources[0].Title)
}

func TestGetLessonDetailUnknownLesson(t *testing.T) {
	svc, _ := newLessonFixture()
	_, err := svc.GetLessonDetail(context.Background(), uuid.NewString(), uuid.NewString())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestListVersionsUnknownLesson(t *testing.T) {
	svc, _ := newLessonFixture()
	_, err := svc.ListVersions(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, common.ErrNotFound)
}

package service

import (
	"context"
	"database/sql"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/ElBibos90/codelearning-sub001/internal/common"
	"github.com/ElBibos90/codelearning-sub001/internal/common/security"
	"github.com/ElBibos90/codelearning-sub001/internal/domain/model"
	"github.com/ElBibos90/codelearning-sub001/internal/platform/config"
	"github.com/ElBibos90/codelearning-sub001/internal/platform/logger"
	"github.com/ElBibos90/codelearning-sub001/internal/platform/sessions"
)

func TestMain(m *testing.M) {
	config.Load()
	security.InitJWT()
	os.Exit(m.Run())
}

func testLogger() *logger.Logger {
	return logger.NewNop()
}

// --- fake user repository ---

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User // by ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*model.User{}}
}

func (r *fakeUserRepo) Create(ctx context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == user.Username || u.Email == user.Email {
			return common.ErrConflict
		}
	}
	u := *user
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	r.users[user.ID] = &u
	return nil
}

func (r *fakeUserRepo) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeUserRepo) FindByID(ctx context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

// --- fake refresh token store ---

type fakeTokenStore struct {
	mu     sync.Mutex
	tokens map[string]string // token -> userID
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: map[string]string{}}
}

func (s *fakeTokenStore) Save(ctx context.Context, token, userID string, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = userID
	return nil
}

func (s *fakeTokenStore) Get(ctx context.Context, token string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	userID, ok := s.tokens[token]
	if !ok {
		return "", sessions.ErrTokenNotFound
	}
	return userID, nil
}

func (s *fakeTokenStore) Revoke(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, token)
	return nil
}

// --- fake course repository ---

type fakeCourseRepo struct {
	mu      sync.Mutex
	courses map[string]*model.Course // by ID
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: map[string]*model.Course{}}
}

func (r *fakeCourseRepo) CreateCourse(ctx context.Context, c *model.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.courses {
		if existing.Slug == c.Slug {
			return common.ErrConflict
		}
	}
	copied := *c
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = copied.CreatedAt
	r.courses[c.ID] = &copied
	return nil
}

func (r *fakeCourseRepo) UpdateCourse(ctx context.Context, c *model.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[c.ID]; !ok {
		return common.ErrNotFound
	}
	copied := *c
	copied.UpdatedAt = time.Now()
	r.courses[c.ID] = &copied
	return nil
}

func (r *fakeCourseRepo) DeleteCourse(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *fakeCourseRepo) FindCourseByID(ctx context.Context, id string) (*model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.courses[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeCourseRepo) FindCourseBySlug(ctx context.Context, slug string) (*model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.courses {
		if c.Slug == slug {
			copied := *c
			return &copied, nil
		}
	}
	return nil, common.ErrNotFound
}

func (r *fakeCourseRepo) ListCourses(ctx context.Context, limit, offset int, difficulty model.CourseDifficulty, searchTerm string) ([]model.Course, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Course{}
	for _, c := range r.courses {
		if difficulty != "" && c.Difficulty != difficulty {
			continue
		}
		out = append(out, *c)
	}
	return out, len(out), nil
}

// --- fake lesson repository ---

type fakeLessonRepo struct {
	mu        sync.Mutex
	lessons   map[string]*model.Lesson          // by ID
	resources map[string][]model.LessonResource // by lesson ID
	versions  map[string][]model.LessonVersion  // by lesson ID
}

func newFakeLessonRepo() *fakeLessonRepo {
	return &fakeLessonRepo{
		lessons:   map[string]*model.Lesson{},
		resources: map[string][]model.LessonResource{},
		versions:  map[string][]model.LessonVersion{},
	}
}

func (r *fakeLessonRepo) CreateLesson(ctx context.Context, tx *sql.Tx, l *model.Lesson) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.lessons {
		if existing.CourseID == l.CourseID && existing.OrderNumber == l.OrderNumber {
			return common.ErrConflict
		}
	}
	copied := *l
	r.lessons[l.ID] = &copied
	return nil
}

func (r *fakeLessonRepo) UpdateLesson(ctx context.Context, tx *sql.Tx, l *model.Lesson) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lessons[l.ID]; !ok {
		return common.ErrNotFound
	}
	copied := *l
	r.lessons[l.ID] = &copied
	return nil
}

func (r *fakeLessonRepo) DeleteLesson(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.lessons[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.lessons, id)
	return nil
}

func (r *fakeLessonRepo) FindLessonByID(ctx context.Context, id string) (*model.Lesson, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.lessons[id]; ok {
		copied := *l
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeLessonRepo) ListLessonsByCourseID(ctx context.Context, courseID string) ([]model.LessonSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.LessonSummary{}
	for _, l := range r.lessons {
		if l.CourseID == courseID {
			out = append(out, model.LessonSummary{ID: l.ID, CourseID: l.CourseID, OrderNumber: l.OrderNumber, Title: l.Title})
		}
	}
	return out, nil
}

func (r *fakeLessonRepo) lessonIDsForCourse(courseID string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := []string{}
	for _, l := range r.lessons {
		if l.CourseID == courseID {
			ids = append(ids, l.ID)
		}
	}
	return ids
}

func (r *fakeLessonRepo) AddResourcesToLesson(ctx context.Context, tx *sql.Tx, lessonID string, resources []model.LessonResource) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resources[lessonID] = append(r.resources[lessonID], resources...)
	return nil
}

func (r *fakeLessonRepo) GetResourcesByLessonID(ctx context.Context, lessonID string) ([]model.LessonResource, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.LessonResource{}, r.resources[lessonID]...), nil
}

func (r *fakeLessonRepo) DeleteResourcesByLessonID(ctx context.Context, tx *sql.Tx, lessonID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.resources, lessonID)
	return nil
}

func (r *fakeLessonRepo) CreateLessonVersion(ctx context.Context, tx *sql.Tx, v *model.LessonVersion) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.versions[v.LessonID] = append(r.versions[v.LessonID], *v)
	return nil
}

func (r *fakeLessonRepo) ListVersionsByLessonID(ctx context.Context, lessonID string) ([]model.LessonVersion, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.LessonVersion{}, r.versions[lessonID]...), nil
}

func (r *fakeLessonRepo) NextVersionNumber(ctx context.Context, tx *sql.Tx, lessonID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.versions[lessonID]) + 1, nil
}

// --- fake enrollment repository ---

// fakeEnrollmentRepo mirrors the store contract: idempotent enroll, upsert
// progress keeping the first completion timestamp, and a completion flip
// recomputed under the same lock as the progress write.
type fakeEnrollmentRepo struct {
	mu          sync.Mutex
	lessonRepo  *fakeLessonRepo
	enrollments map[string]*model.Enrollment     // key userID+"|"+courseID
	progress    map[string]*model.LessonProgress // key userID+"|"+lessonID
}

func newFakeEnrollmentRepo(lessonRepo *fakeLessonRepo) *fakeEnrollmentRepo {
	return &fakeEnrollmentRepo{
		lessonRepo:  lessonRepo,
		enrollments: map[string]*model.Enrollment{},
		progress:    map[string]*model.LessonProgress{},
	}
}

func (r *fakeEnrollmentRepo) Enroll(ctx context.Context, userID, courseID string) (*model.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := userID + "|" + courseID
	if e, ok := r.enrollments[key]; ok {
		copied := *e
		return &copied, nil
	}
	e := &model.Enrollment{UserID: userID, CourseID: courseID, EnrolledAt: time.Now()}
	r.enrollments[key] = e
	copied := *e
	return &copied, nil
}

func (r *fakeEnrollmentRepo) FindEnrollment(ctx context.Context, userID, courseID string) (*model.Enrollment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok := r.enrollments[userID+"|"+courseID]; ok {
		copied := *e
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeEnrollmentRepo) CompleteLesson(ctx context.Context, userID, lessonID, courseID string) (*model.CompleteLessonResult, error) {
	lessonIDs := r.lessonRepo.lessonIDsForCourse(courseID)

	r.mu.Lock()
	defer r.mu.Unlock()

	enrollment, ok := r.enrollments[userID+"|"+courseID]
	if !ok {
		return nil, common.ErrUnauthorized
	}

	key := userID + "|" + lessonID
	p, ok := r.progress[key]
	if !ok {
		now := time.Now()
		p = &model.LessonProgress{UserID: userID, LessonID: lessonID, Completed: true, CompletedAt: &now}
		r.progress[key] = p
	}
	progressCopy := *p

	result := &model.CompleteLessonResult{LessonProgress: &progressCopy}

	if !enrollment.Completed && len(lessonIDs) > 0 {
		all := true
		for _, id := range lessonIDs {
			lp, ok := r.progress[userID+"|"+id]
			if !ok || !lp.Completed {
				all = false
				break
			}
		}
		if all {
			now := time.Now()
			enrollment.Completed = true
			enrollment.CompletedAt = &now
			copied := *enrollment
			result.Enrollment = &copied
		}
	}
	return result, nil
}

func (r *fakeEnrollmentRepo) CountLessonProgress(ctx context.Context, userID, courseID string) (int, int, error) {
	lessonIDs := r.lessonRepo.lessonIDsForCourse(courseID)

	r.mu.Lock()
	defer r.mu.Unlock()
	completed := 0
	for _, id := range lessonIDs {
		if lp, ok := r.progress[userID+"|"+id]; ok && lp.Completed {
			completed++
		}
	}
	return len(lessonIDs), completed, nil
}

// --- fake comment repository ---

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments map[string]*model.Comment // by ID
	order    []string
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{comments: map[string]*model.Comment{}}
}

func (r *fakeCommentRepo) CreateComment(ctx context.Context, c *model.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *c
	copied.CreatedAt = time.Now()
	copied.UpdatedAt = copied.CreatedAt
	r.comments[c.ID] = &copied
	r.order = append(r.order, c.ID)
	return nil
}

func (r *fakeCommentRepo) FindCommentByID(ctx context.Context, id string) (*model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if c, ok := r.comments[id]; ok {
		copied := *c
		return &copied, nil
	}
	return nil, common.ErrNotFound
}

func (r *fakeCommentRepo) ListCommentsByLessonID(ctx context.Context, lessonID string) ([]model.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []model.Comment{}
	for _, id := range r.order {
		c, ok := r.comments[id]
		if ok && c.LessonID == lessonID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeCommentRepo) DeleteComment(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.comments[id]; !ok {
		return common.ErrNotFound
	}
	delete(r.comments, id)
	return nil
}

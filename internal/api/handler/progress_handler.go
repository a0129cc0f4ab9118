package handler

import (
	"net/http"

	"github.com/ElBibos90/codelearning-sub001/internal/api/middleware"
	"github.com/ElBibos90/codelearning-sub001/internal/app/service"
	"github.com/ElBibos90/codelearning-sub001/internal/common"

	"github.com/go-chi/chi/v5"
)

// ProgressHandler exposes the enrollment and progress engine: enroll, complete
// a lesson, and the derived progress/status reads.
type ProgressHandler struct {
	progressService *service.ProgressService
}

func NewProgressHandler(ps *service.ProgressService) *ProgressHandler {
	return &ProgressHandler{progressService: ps}
}

// RegisterCourseRoutes mounts the course-scoped endpoints under /courses.
func (h *ProgressHandler) RegisterCourseRoutes(r chi.Router) {
	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/{courseID}/enroll", h.enroll)        // POST /api/v1/courses/{id}/enroll
		authed.Get("/{courseID}/progress", h.progress)     // GET /api/v1/courses/{id}/progress
		authed.Get("/{courseID}/enrollment", h.enrollment) // GET /api/v1/courses/{id}/enrollment
	})
}

// RegisterLessonRoutes mounts the lesson-scoped endpoints under /lessons.
func (h *ProgressHandler) RegisterLessonRoutes(r chi.Router) {
	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Post("/{lessonID}/complete", h.completeLesson) // POST /api/v1/lessons/{id}/complete
	})
}

func (h *ProgressHandler) enroll(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	courseID := chi.URLParam(r, "courseID")
	enrollment, err := h.progressService.Enroll(r.Context(), userID, courseID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, enrollment)
}

func (h *ProgressHandler) completeLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	lessonID := chi.URLParam(r, "lessonID")
	result, err := h.progressService.CompleteLesson(r.Context(), userID, lessonID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, result)
}

func (h *ProgressHandler) progress(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	courseID := chi.URLParam(r, "courseID")
	progress, err := h.progressService.GetCourseProgress(r.Context(), userID, courseID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, progress)
}

func (h *ProgressHandler) enrollment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	courseID := chi.URLParam(r, "courseID")
	status, err := h.progressService.GetEnrollmentStatus(r.Context(), userID, courseID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, status)
}

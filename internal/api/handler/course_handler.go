package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/ElBibos90/codelearning-sub001/internal/api/middleware"
	"github.com/ElBibos90/codelearning-sub001/internal/app/service"
	"github.com/ElBibos90/codelearning-sub001/internal/common"
	"github.com/ElBibos90/codelearning-sub001/internal/domain/model"
	"github.com/ElBibos90/codelearning-sub001/internal/platform/config"

	"github.com/go-chi/chi/v5"
)

type CourseHandler struct {
	courseService *service.CourseService
}

func NewCourseHandler(cs *service.CourseService) *CourseHandler {
	return &CourseHandler{courseService: cs}
}

func (h *CourseHandler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.listCourses)                     // GET /api/v1/courses
	r.Get("/{courseSlug}", h.getCourse)           // GET /api/v1/courses/intro-to-go
	r.Get("/{courseSlug}/lessons", h.listLessons) // GET /api/v1/courses/intro-to-go/lessons

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createCourse)             // POST /api/v1/courses
		adminRouter.Put("/{courseID}", h.updateCourse)    // PUT /api/v1/courses/{id}
		adminRouter.Delete("/{courseID}", h.deleteCourse) // DELETE /api/v1/courses/{id}
	})
}

func (h *CourseHandler) listCourses(w http.ResponseWriter, r *http.Request) {
	pageStr := r.URL.Query().Get("page")
	pageSizeStr := r.URL.Query().Get("pageSize")
	difficultyStr := r.URL.Query().Get("difficulty")
	searchTerm := r.URL.Query().Get("search")

	page, _ := strconv.Atoi(pageStr)
	if page <= 0 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(pageSizeStr)
	if pageSize <= 0 || pageSize > config.AppConfig.MaxPageSize {
		pageSize = config.AppConfig.DefaultPageSize
	}

	courses, total, err := h.courseService.ListCourses(r.Context(), page, pageSize, model.CourseDifficulty(difficultyStr), searchTerm)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}

	type PaginatedCoursesResponse struct {
		Courses  []model.Course `json:"courses"`
		Total    int            `json:"total"`
		Page     int            `json:"page"`
		PageSize int            `json:"page_size"`
	}
	common.RespondWithJSON(w, http.StatusOK, PaginatedCoursesResponse{
		Courses:  courses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func (h *CourseHandler) getCourse(w http.ResponseWriter, r *http.Request) {
	courseSlug := chi.URLParam(r, "courseSlug")
	course, err := h.courseService.GetCourseBySlug(r.Context(), courseSlug)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, course)
}

func (h *CourseHandler) listLessons(w http.ResponseWriter, r *http.Request) {
	courseSlug := chi.URLParam(r, "courseSlug")
	lessons, err := h.courseService.ListCourseLessons(r.Context(), courseSlug)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, lessons)
}

func (h *CourseHandler) createCourse(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	course, err := h.courseService.CreateCourse(r.Context(), userID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, course)
}

func (h *CourseHandler) updateCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")

	var req service.UpdateCourseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	course, err := h.courseService.UpdateCourse(r.Context(), courseID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, course)
}

func (h *CourseHandler) deleteCourse(w http.ResponseWriter, r *http.Request) {
	courseID := chi.URLParam(r, "courseID")
	if err := h.courseService.DeleteCourse(r.Context(), courseID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "course deleted"})
}

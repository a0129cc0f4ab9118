package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ElBibos90/codelearning-sub001/internal/api/middleware"
	"github.com/ElBibos90/codelearning-sub001/internal/app/service"
	"github.com/ElBibos90/codelearning-sub001/internal/common"

	"github.com/go-chi/chi/v5"
)

type LessonHandler struct {
	lessonService *service.LessonService
}

func NewLessonHandler(ls *service.LessonService) *LessonHandler {
	return &LessonHandler{lessonService: ls}
}

func (h *LessonHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Get("/{lessonID}", h.getLesson) // GET /api/v1/lessons/{id}
	})

	r.Group(func(adminRouter chi.Router) {
		adminRouter.Use(middleware.Authenticator)
		adminRouter.Use(middleware.AdminOnly)
		adminRouter.Post("/", h.createLesson)                   // POST /api/v1/lessons
		adminRouter.Put("/{lessonID}", h.updateLesson)          // PUT /api/v1/lessons/{id}
		adminRouter.Delete("/{lessonID}", h.deleteLesson)       // DELETE /api/v1/lessons/{id}
		adminRouter.Get("/{lessonID}/versions", h.listVersions) // GET /api/v1/lessons/{id}/versions
	})
}

func (h *LessonHandler) getLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	lessonID := chi.URLParam(r, "lessonID")
	lesson, err := h.lessonService.GetLessonDetail(r.Context(), userID, lessonID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, lesson)
}

func (h *LessonHandler) createLesson(w http.ResponseWriter, r *http.Request) {
	var req service.CreateLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	lesson, err := h.lessonService.CreateLesson(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, lesson)
}

func (h *LessonHandler) updateLesson(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	lessonID := chi.URLParam(r, "lessonID")
	var req service.UpdateLessonRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	lesson, err := h.lessonService.UpdateLesson(r.Context(), userID, lessonID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, lesson)
}

func (h *LessonHandler) deleteLesson(w http.ResponseWriter, r *http.Request) {
	lessonID := chi.URLParam(r, "lessonID")
	if err := h.lessonService.DeleteLesson(r.Context(), lessonID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "lesson deleted"})
}

func (h *LessonHandler) listVersions(w http.ResponseWriter, r *http.Request) {
	lessonID := chi.URLParam(r, "lessonID")
	versions, err := h.lessonService.ListVersions(r.Context(), lessonID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, versions)
}

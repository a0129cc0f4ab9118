package handler

import (
	"encoding/json"
	"net/http"

	"github.com/ElBibos90/codelearning-sub001/internal/api/middleware"
	"github.com/ElBibos90/codelearning-sub001/internal/app/service"
	"github.com/ElBibos90/codelearning-sub001/internal/common"

	"github.com/go-chi/chi/v5"
)

type CommentHandler struct {
	commentService *service.CommentService
}

func NewCommentHandler(cs *service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: cs}
}

// RegisterLessonRoutes mounts the lesson-scoped comment endpoints under /lessons.
func (h *CommentHandler) RegisterLessonRoutes(r chi.Router) {
	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Get("/{lessonID}/comments", h.listComments)   // GET /api/v1/lessons/{id}/comments
		authed.Post("/{lessonID}/comments", h.createComment) // POST /api/v1/lessons/{id}/comments
	})
}

// RegisterRoutes mounts the comment-scoped endpoints under /comments.
func (h *CommentHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(authed chi.Router) {
		authed.Use(middleware.Authenticator)
		authed.Delete("/{commentID}", h.deleteComment) // DELETE /api/v1/comments/{id}
	})
}

func (h *CommentHandler) listComments(w http.ResponseWriter, r *http.Request) {
	lessonID := chi.URLParam(r, "lessonID")
	comments, err := h.commentService.ListComments(r.Context(), lessonID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, comments)
}

func (h *CommentHandler) createComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	lessonID := chi.URLParam(r, "lessonID")
	var req service.CreateCommentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	comment, err := h.commentService.CreateComment(r.Context(), userID, lessonID, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, comment)
}

func (h *CommentHandler) deleteComment(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}
	userRole, _ := middleware.GetUserRoleFromContext(r.Context())

	commentID := chi.URLParam(r, "commentID")
	if err := h.commentService.DeleteComment(r.Context(), userID, userRole, commentID); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "comment deleted"})
}

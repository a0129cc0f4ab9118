package api

import (
	"net/http"
	"time"

	"github.com/ElBibos90/codelearning-sub001/internal/api/handler"
	apiMiddleware "github.com/ElBibos90/codelearning-sub001/internal/api/middleware"
	"github.com/ElBibos90/codelearning-sub001/internal/app/service"
	"github.com/ElBibos90/codelearning-sub001/internal/common/security"
	"github.com/ElBibos90/codelearning-sub001/internal/platform/logger"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

func NewRouter(
	authService *service.AuthService,
	courseService *service.CourseService,
	lessonService *service.LessonService,
	progressService *service.ProgressService,
	commentService *service.CommentService,
	log *logger.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Base Middlewares
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(apiMiddleware.RequestLogger(log))
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Timeout(60 * time.Second))

	// Verifies the bearer token and puts claims in context. Routes decide
	// individually whether authentication is required.
	r.Use(jwtauth.Verifier(security.TokenAuth))

	// Public health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// API v1 Routes
	r.Route("/api/v1", func(v1 chi.Router) {
		// Auth routes (public + /me)
		authHandler := handler.NewAuthHandler(authService)
		v1.Group(func(auth chi.Router) {
			authHandler.RegisterRoutes(auth)
		})

		courseHandler := handler.NewCourseHandler(courseService)
		progressHandler := handler.NewProgressHandler(progressService)
		v1.Route("/courses", func(courses chi.Router) {
			courseHandler.RegisterRoutes(courses)
			progressHandler.RegisterCourseRoutes(courses)
		})

		lessonHandler := handler.NewLessonHandler(lessonService)
		commentHandler := handler.NewCommentHandler(commentService)
		v1.Route("/lessons", func(lessons chi.Router) {
			lessonHandler.RegisterRoutes(lessons)
			progressHandler.RegisterLessonRoutes(lessons)
			commentHandler.RegisterLessonRoutes(lessons)
		})

		v1.Route("/comments", commentHandler.RegisterRoutes)
	})

	return r
}

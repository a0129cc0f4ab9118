package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ElBibos90/codelearning-sub001/internal/api"
	"github.com/ElBibos90/codelearning-sub001/internal/app/service"
	"github.com/ElBibos90/codelearning-sub001/internal/common/security"
	"github.com/ElBibos90/codelearning-sub001/internal/domain/repository"
	"github.com/ElBibos90/codelearning-sub001/internal/platform/config"
	"github.com/ElBibos90/codelearning-sub001/internal/platform/database"
	"github.com/ElBibos90/codelearning-sub001/internal/platform/logger"
	"github.com/ElBibos90/codelearning-sub001/internal/platform/sessions"
)

func main() {
	// 1. Load Configuration
	config.Load()

	appLogger, err := logger.New(config.AppConfig.AppEnv)
	if err != nil {
		log.Fatalf("Could not initialize logger: %v", err)
	}
	defer appLogger.Sync()

	// 2. Initialize JWT
	security.InitJWT()

	// 3. Initialize Database
	database.Connect()
	defer database.Close()
	appLogger.Info("database connected", "host", config.AppConfig.DBHost, "db", config.AppConfig.DBName)

	// 4. Initialize Redis (refresh-token sessions)
	sessions.ConnectRedis()
	defer sessions.CloseRedis()
	appLogger.Info("redis connected", "addr", config.AppConfig.RedisAddr)

	// 5. Initialize Repositories
	userRepo := repository.NewPgUserRepository(database.DB)
	courseRepo := repository.NewPgCourseRepository(database.DB)
	lessonRepo := repository.NewPgLessonRepository(database.DB)
	enrollmentRepo := repository.NewPgEnrollmentRepository(database.DB)
	commentRepo := repository.NewPgCommentRepository(database.DB)

	// 6. Initialize Services
	tokenStore := sessions.NewTokenStore(sessions.RDB)
	authService := service.NewAuthService(userRepo, tokenStore, appLogger)
	courseService := service.NewCourseService(courseRepo, lessonRepo, appLogger)
	lessonService := service.NewLessonService(lessonRepo, courseRepo, enrollmentRepo, database.DB, appLogger)
	progressService := service.NewProgressService(courseRepo, lessonRepo, enrollmentRepo, appLogger)
	commentService := service.NewCommentService(commentRepo, lessonRepo, enrollmentRepo, appLogger)

	// 7. Initialize Router & HTTP Server
	router := api.NewRouter(authService, courseService, lessonService, progressService, commentService, appLogger)

	server := &http.Server{
		Addr:         ":" + config.AppConfig.APIPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// 8. Graceful Shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		appLogger.Info("server starting", "port", config.AppConfig.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLogger.Fatal("could not listen", "port", config.AppConfig.APIPort, "error", err)
		}
	}()

	<-stop // Wait for interrupt signal

	appLogger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Fatal("server shutdown failed", "error", err)
	}

	appLogger.Info("server stopped gracefully")
}

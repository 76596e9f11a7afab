package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prepforge/certprep/config"
	"github.com/prepforge/certprep/database"
	"github.com/prepforge/certprep/internal/bank"
	"github.com/prepforge/certprep/internal/controller"
	adminctrl "github.com/prepforge/certprep/internal/controller/admin"
	userctrl "github.com/prepforge/certprep/internal/controller/user"
	"github.com/prepforge/certprep/internal/logger"
	"github.com/prepforge/certprep/internal/model"
	"github.com/prepforge/certprep/internal/service"
	"github.com/prepforge/certprep/internal/store"
	"github.com/rs/zerolog/log"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Certification Practice Exam API
// @version 1.0
// @description Versioned question banks, snapshot-isolated practice attempts, per-domain scoring and weakest-link adaptive selection.
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		// Core application components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Question bank and attempt store
		fx.Provide(
			bank.NewGormBank,
			func(b *bank.GormBank) bank.Bank { return b },
			func(b *bank.GormBank) bank.Publisher { return b },
			func(b *bank.GormBank) bank.Catalog { return b },
			store.NewGormStore,
			func(s *store.GormStore) store.Store { return s },
		),

		// Services layer
		fx.Provide(
			service.NewAnalyticsService,
			service.NewAttemptService,
			service.NewAnswerService,
			service.NewScoringService,
			service.NewTierPolicy,
			service.NewAdviceService,
		),

		// API controllers layer
		fx.Provide(
			adminctrl.NewAdminExamController,
			userctrl.NewExamController,
			userctrl.NewAttemptController,
		),

		fx.Invoke(RegisterRoutesAndStartServer),
		fx.Invoke(AutoMigrateDB),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Fatal().Err(err).Msg("Failed to start application")
	}

	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")
}

func NewGinEngine() *gin.Engine {
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", controller.UserIDHeader},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages the server
// lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	adminExamCtrl *adminctrl.AdminExamController,
	examCtrl *userctrl.ExamController,
	attemptCtrl *userctrl.AttemptController,
) {
	// Admin routes (prefixed with /api/v1/admin)
	adminAPIGroup := router.Group("/api/v1/admin")
	{
		adminAPIGroup.POST("/exams", adminExamCtrl.PublishExam)
	}

	// User routes (prefixed with /api/v1); every route requires an identity
	userAPIGroup := router.Group("/api/v1")
	userAPIGroup.Use(controller.RequireUser())
	{
		userAPIGroup.GET("/exams", examCtrl.ListExams)
		userAPIGroup.GET("/exams/:exam_code", examCtrl.GetExam)
		userAPIGroup.GET("/exams/:exam_code/stats", examCtrl.GetStats)

		userAPIGroup.POST("/exams/:exam_code/attempts", attemptCtrl.CreateAttempt)
		userAPIGroup.GET("/exams/:exam_code/attempts", attemptCtrl.ListAttempts)
		userAPIGroup.GET("/attempts/:attempt_id", attemptCtrl.GetAttempt)
		userAPIGroup.POST("/attempts/:attempt_id/answers", attemptCtrl.RecordAnswer)
		userAPIGroup.POST("/attempts/:attempt_id/finish", attemptCtrl.Finish)
		userAPIGroup.DELETE("/attempts/:attempt_id", attemptCtrl.DeleteAttempt)
		userAPIGroup.GET("/attempts/:attempt_id/advice", attemptCtrl.GetAdvice)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Practice exam API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}

func AutoMigrateDB(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	if err := db.AutoMigrate(
		&model.Exam{},
		&model.Attempt{},
	); err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

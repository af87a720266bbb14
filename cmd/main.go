package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hxann/bandprep/config"
	"github.com/hxann/bandprep/database"
	"github.com/hxann/bandprep/internal/controller"
	"github.com/hxann/bandprep/internal/logger"
	"github.com/hxann/bandprep/internal/middleware"
	"github.com/hxann/bandprep/internal/model"
	"github.com/hxann/bandprep/internal/repository"
	"github.com/hxann/bandprep/internal/service"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title BandPrep Practice API
// @version 1.0
// @description Scoring, practice history and performance analytics for language-test practice.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	logger.Init()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			database.NewDatabase,
			NewGinEngine,
		),

		// Repositories
		fx.Provide(
			repository.NewUserRepository,
			repository.NewTestRepository,
			repository.NewResultRepository,
			repository.NewSessionRepository,
		),

		// Services
		fx.Provide(
			service.NewScoreService,
			service.NewTestService,
			service.NewSubmissionService,
			service.NewSessionService,
			service.NewAnalyticsService,
		),

		// Controllers
		fx.Provide(
			controller.NewResultController,
			controller.NewPracticeController,
			controller.NewTestController,
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
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer wires the API routes and manages the HTTP
// server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	resultCtrl *controller.ResultController,
	practiceCtrl *controller.PracticeController,
	testCtrl *controller.TestController,
) {
	limiter := middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst, 3*time.Minute)
	auth := middleware.Authenticate(cfg.JWTSecret)

	api := router.Group("/api/v1")
	api.Use(limiter.Handler())
	{
		// Test catalog
		api.GET("/tests", testCtrl.GetAllTests)
		api.GET("/tests/:id", testCtrl.GetTestByID)

		adminGroup := api.Group("/admin", auth, middleware.RequireRole("admin"))
		adminGroup.POST("/tests", testCtrl.CreateTest)

		// Results
		results := api.Group("/results")
		results.GET("/leaderboard", resultCtrl.GetLeaderboard) // public, like the rest of the read-only board
		results.POST("/submit", auth, resultCtrl.SubmitResult)
		results.GET("/my-results", auth, resultCtrl.GetMyResults)
		results.GET("/statistics", auth, resultCtrl.GetStatistics)
		results.GET("/:id", auth, resultCtrl.GetResultByID)

		// Practice sessions
		practice := api.Group("/practice", auth)
		practice.POST("/start", practiceCtrl.StartSession)
		practice.GET("/active", practiceCtrl.GetActiveSession)
		practice.GET("/sessions", practiceCtrl.GetSessions)
		practice.GET("/sessions/:id", practiceCtrl.GetSessionByID)
		practice.GET("/sessions/:id/progress", practiceCtrl.GetSessionProgress)
		practice.PUT("/sessions/:id", practiceCtrl.UpdateSession)
		practice.DELETE("/sessions/:id", practiceCtrl.DeleteSession)
		practice.POST("/submit-answers", practiceCtrl.SubmitAnswers)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("BandPrep API server starting on port %s", cfg.Server.Port)
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
	err := db.AutoMigrate(
		&model.User{},
		&model.Test{},
		&model.Result{},
		&model.ResultAnswer{},
		&model.SectionResult{},
		&model.SectionQuestion{},
		&model.PracticeSession{},
		&model.SessionAnswer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/minhlq/coursecast/config"
	"github.com/minhlq/coursecast/database"
	_ "github.com/minhlq/coursecast/docs" // Swagger docs - auto-generated
	"github.com/minhlq/coursecast/internal/controller"
	"github.com/minhlq/coursecast/internal/logger"
	"github.com/minhlq/coursecast/internal/middleware"
	"github.com/minhlq/coursecast/internal/model"
	"github.com/minhlq/coursecast/internal/repository"
	"github.com/minhlq/coursecast/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Coursecast API
// @version 1.0
// @description AI-generated course platform: exam lifecycle, certificates and lazy chapter generation.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.Init()

	app := fx.New(
		// Core Application Components
		fx.Provide(
			config.NewConfig,
			database.NewDatabase, // Provides *gorm.DB
			NewGinEngine,         // Provides *gin.Engine
		),

		// Repositories Layer
		fx.Provide(
			repository.NewCourseRepository,
			repository.NewChapterRepository,
			repository.NewExamRepository,
			repository.NewCertificateRepository,
		),

		// Services Layer
		fx.Provide(
			service.NewGeminiService,
			service.NewCourseService,
			service.NewChapterService,
			service.NewExamService,
			service.NewCertificateService,
		),

		// API Controllers Layer
		fx.Provide(
			controller.NewCourseController,
			controller.NewExamController,
			controller.NewCertificateController,
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
	gin.SetMode(gin.ReleaseMode)

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
	r.Use(middleware.Metrics())

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Swagger UI: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	courseCtrl *controller.CourseController,
	examCtrl *controller.ExamController,
	certCtrl *controller.CertificateController,
) {
	api := router.Group("/api/v1", middleware.Auth(cfg))
	{
		coursesGroup := api.Group("/courses")
		coursesGroup.POST("", courseCtrl.CreateCourse)
		coursesGroup.GET("", courseCtrl.ListCourses)
		coursesGroup.GET("/:course_id", courseCtrl.GetCourse)
		coursesGroup.POST("/:course_id/chapters/:chapter_id/generate", courseCtrl.GenerateChapterContent)

		examsGroup := api.Group("/exams")
		examsGroup.POST("/generate", examCtrl.GenerateExam)
		examsGroup.GET("", examCtrl.GetExam)
		examsGroup.DELETE("", examCtrl.DeleteExam)
		examsGroup.POST("/:exam_id/verify", examCtrl.VerifyQuestion)
		examsGroup.POST("/:exam_id/submit", examCtrl.SubmitExam)

		certsGroup := api.Group("/certificates")
		certsGroup.POST("/claim", certCtrl.ClaimCertificate)
		certsGroup.GET("/:certificate_id", certCtrl.GetCertificate)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Coursecast API server starting on port %s", cfg.Server.Port)
			log.Info().Msgf("Swagger UI available at http://localhost:%s/swagger/index.html", cfg.Server.Port)
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
		&model.Course{},
		&model.Chapter{},
		&model.Exam{},
		&model.Certificate{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

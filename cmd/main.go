package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/tmarlen/linguabot/config"
	"github.com/tmarlen/linguabot/database"
	"github.com/tmarlen/linguabot/internal/catalog"
	adminctrl "github.com/tmarlen/linguabot/internal/controller/admin"
	surveyctrl "github.com/tmarlen/linguabot/internal/controller/survey"
	"github.com/tmarlen/linguabot/internal/logger"
	"github.com/tmarlen/linguabot/internal/model"
	"github.com/tmarlen/linguabot/internal/repository"
	"github.com/tmarlen/linguabot/internal/service"
	"github.com/tmarlen/linguabot/internal/session"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Linguabot Survey API
// @version 1.0
// @description Backend for a conversational anti-bullying survey bot: flow engine, answer store and admin analytics. The chat transport in front of this API is a thin gateway.
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
			catalog.New,
			session.NewRegistry,
		),

		fx.Provide(
			repository.NewRespondentRepository,
			repository.NewAnswerRepository,
		),

		fx.Provide(
			service.NewBranchingService,
			service.NewOpenAnswerSummarizer,
			service.NewAnalyticsService,
			service.NewExportService,
			func(
				cat *catalog.Catalog,
				branching service.BranchingService,
				respondentRepo repository.RespondentRepository,
				answerRepo repository.AnswerRepository,
				sessions *session.Registry,
				cfg *config.Config,
			) service.FlowService {
				return service.NewFlowService(cat, branching, respondentRepo, answerRepo, sessions, cfg.Survey.WaveID)
			},
		),

		fx.Provide(
			surveyctrl.NewSurveyController,
			adminctrl.NewAdminController,
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
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Admin-ID"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// RegisterRoutesAndStartServer configures API routes and manages the HTTP
// server lifecycle.
func RegisterRoutesAndStartServer(
	lc fx.Lifecycle,
	router *gin.Engine,
	cfg *config.Config,
	surveyCtrl *surveyctrl.SurveyController,
	adminCtrl *adminctrl.AdminController,
) {
	surveyGroup := router.Group("/api/v1/survey")
	{
		surveyGroup.POST("/start", surveyCtrl.Start)
		surveyGroup.POST("/consent", surveyCtrl.Consent)
		surveyGroup.POST("/answers/single", surveyCtrl.AnswerSingle)
		surveyGroup.POST("/answers/toggle", surveyCtrl.ToggleOption)
		surveyGroup.POST("/answers/confirm", surveyCtrl.ConfirmSelection)
		surveyGroup.POST("/answers/text", surveyCtrl.SubmitText)
		surveyGroup.POST("/navigate/back", surveyCtrl.NavigateBack)
		surveyGroup.POST("/navigate/skip", surveyCtrl.Skip)
		surveyGroup.POST("/restart", surveyCtrl.Restart)
		surveyGroup.GET("/status", surveyCtrl.Status)
	}

	adminGroup := router.Group("/api/v1/admin")
	adminGroup.Use(adminCtrl.RequireAdmin())
	{
		adminGroup.GET("/stats", adminCtrl.Stats)
		adminGroup.GET("/stats/detailed", adminCtrl.DetailedStats)
		adminGroup.GET("/export", adminCtrl.Export)
		adminGroup.GET("/open-answers/:question_code", adminCtrl.OpenAnswers)
		adminGroup.GET("/open-answers/:question_code/summary", adminCtrl.SummarizeOpenAnswers)
	}

	server := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Survey API server starting on port %s", cfg.Server.Port)
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
		&model.Respondent{},
		&model.Answer{},
	)
	if err != nil {
		log.Error().Err(err).Msg("Database migration failed")
		return err
	}
	log.Info().Msg("Database migration completed successfully.")
	return nil
}

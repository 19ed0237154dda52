// Package app assembles the service from configuration. Both the HTTP
// server and the chain CLI start from New.
package app

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/api"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/blog"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/config"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/database"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/gemini"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/health"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/metrics"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/migration"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/orchestrator"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/progress"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/repository"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/services"
)

type App struct {
	Config   *config.Config
	DB       *database.Manager
	Repos    *repository.RepositoryManager
	Gemini   *gemini.Client
	Metrics  *metrics.Metrics
	Research *services.ResearchService
	Progress *progress.Store
	Chain    *orchestrator.Chain
	Health   *health.HealthChecker
	logger   *logrus.Logger
}

// NewGeminiClient builds the generative API client from configuration.
func NewGeminiClient(cfg *config.Config, logger *logrus.Logger) *gemini.Client {
	return gemini.NewClient(cfg.Gemini.BaseURL, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.Timeout, logger)
}

// New connects the stores, runs migrations and builds every service.
func New(cfg *config.Config, logger *logrus.Logger) (*App, error) {
	if err := cfg.ValidateGemini(); err != nil {
		logger.WithError(err).Warn("Generative API disabled; research endpoints will fail and blogs use the local composer")
	}

	dbManager, err := database.NewManager(&database.Config{
		DatabaseURL: cfg.Database.URL,
		RedisURL:    cfg.Redis.URL,
		LogLevel:    cfg.LogLevel,
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := migration.NewRunner(dbManager, logger).RunMigrations(cfg.Database.MigrationsPath); err != nil {
		dbManager.Close()
		return nil, err
	}

	a := &App{
		Config:  cfg,
		DB:      dbManager,
		Repos:   repository.NewRepositoryManager(dbManager.DB),
		Gemini:  NewGeminiClient(cfg, logger),
		Metrics: metrics.New(),
		logger:  logger,
	}
	a.Research = services.NewResearchService(a.Gemini, a.Metrics, logger)
	a.Health = health.NewHealthChecker(dbManager, a.Gemini.Configured(), logger)

	observers := orchestrator.Observers{
		orchestrator.NewLogObserver(logger),
		orchestrator.NewMetricsObserver(a.Metrics),
	}
	if dbManager.Redis != nil {
		a.Progress = progress.NewStore(dbManager.Redis, progress.DefaultTTL)
		observers = append(observers, orchestrator.NewProgressObserver(a.Progress, logger))
	}

	fetcher := orchestrator.NewHTTPFetcher(orchestrator.Endpoints{
		GapsURL:            cfg.Chain.GapsURL,
		QuestionsURL:       cfg.Chain.QuestionsURL,
		MethodologyURL:     cfg.Chain.MethodologyURL,
		GapsTimeout:        cfg.Chain.GapsTimeout,
		QuestionsTimeout:   cfg.Chain.QuestionsTimeout,
		MethodologyTimeout: cfg.Chain.MethodologyTimeout,
	}, logger)

	deps := orchestrator.Deps{
		Gaps:        fetcher,
		Questions:   fetcher,
		Methodology: fetcher,
		Synthesizer: orchestrator.NewGeminiSynthesizer(a.Gemini, blog.NewComposer(time.Now), cfg.Gemini.SynthesisTimeout, logger),
		Store:       a.Repos.Blog,
		Observer:    observers,
	}
	if cfg.Chain.OutputDir != "" {
		deps.Exporter = orchestrator.NewFileExporter(cfg.Chain.OutputDir)
	}
	a.Chain = orchestrator.NewChain(deps, logger)

	return a, nil
}

// Router builds the HTTP handler tree.
func (a *App) Router() *gin.Engine {
	deps := api.Dependencies{
		Research:    a.Research,
		Chain:       a.Chain,
		Blogs:       a.Repos.Blog,
		Health:      a.Health,
		Metrics:     a.Metrics,
		CORSOrigins: a.Config.Server.CORSAllowedOrigins,
		Logger:      a.logger,
	}
	// A nil *progress.Store must not become a non-nil interface.
	if a.Progress != nil {
		deps.Progress = a.Progress
	}
	return api.NewRouter(deps)
}

func (a *App) Close() error {
	return a.DB.Close()
}

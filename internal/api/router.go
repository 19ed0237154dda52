// Package api wires the HTTP surface: middleware, the research endpoints,
// the blog chain and the blog store.
package api

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/api/handlers"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/metrics"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/middleware"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/models"
	"github.com/thesaherriaz/SPM-Groups-Project/pkg/utils"
)

// Dependencies are the collaborators the router hands to its handlers.
// Progress may be nil when redis is not configured.
type Dependencies struct {
	Research    handlers.ResearchAPI
	Chain       handlers.ChainRunner
	Blogs       models.BlogRepository
	Progress    handlers.ProgressReader
	Health      handlers.Checker
	Metrics     *metrics.Metrics
	CORSOrigins []string
	Logger      *logrus.Logger
}

func NewRouter(deps Dependencies) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(deps.Logger))
	if deps.Metrics != nil {
		router.Use(middleware.Metrics(deps.Metrics))
	}
	router.Use(middleware.SecurityHeaders())
	router.Use(cors.New(corsConfig(deps.CORSOrigins)))

	research := handlers.NewResearchHandler(deps.Research, deps.Logger)
	blogs := handlers.NewBlogHandler(deps.Chain, deps.Blogs, deps.Logger)
	progress := handlers.NewProgressHandler(deps.Progress, deps.Logger)
	health := handlers.NewHealthHandler(deps.Health, router.Routes)

	api := router.Group("/api")
	{
		api.GET("/health", health.HandleHealth)
		api.GET("/health/ready", health.HandleReady)
		api.GET("/routes", health.HandleRoutes)

		api.POST("/get-methodology", research.HandleMethodology)
		api.POST("/get-compliance", research.HandleCompliance)
		api.POST("/ask", research.HandleAsk)
		api.POST("/analyze-questions", research.HandleAnalyzeQuestions)
		api.POST("/research-gaps", research.HandleResearchGaps)
		api.GET("/researchgap", research.HandleResearchGapQuery)

		api.POST("/generate-blog", blogs.HandleGenerateBlog)
		api.GET("/progress/:run_id", progress.HandleProgress)

		api.GET("/blogs", blogs.HandleListBlogs)
		api.GET("/blogs/:id", blogs.HandleGetBlog)
		api.PUT("/blogs/:id", blogs.HandleUpdateBlog)
		api.DELETE("/blogs/:id", blogs.HandleDeleteBlog)
		api.GET("/blogs/:id/download", blogs.HandleDownloadBlog)
		api.GET("/blogs/:id/html", blogs.HandleBlogHTML)
	}

	// The gap service was also reachable without the /api prefix.
	router.POST("/research-gaps", research.HandleResearchGaps)
	router.GET("/researchgap", research.HandleResearchGapQuery)

	if deps.Metrics != nil {
		router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	router.NoRoute(func(c *gin.Context) {
		utils.ErrorResponse(c, http.StatusNotFound, "Endpoint not found")
	})

	return router
}

func corsConfig(origins []string) cors.Config {
	config := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition", "X-Request-ID"},
	}
	if len(origins) == 0 {
		config.AllowAllOrigins = true
	} else {
		config.AllowOrigins = origins
	}
	return config
}

package handlers

import (
	"context"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/health"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/models"
)

// Checker runs the readiness probes.
type Checker interface {
	CheckAll(ctx context.Context) health.OverallHealth
}

// RouteInfo is one entry of the /routes listing.
type RouteInfo struct {
	Path    string `json:"path"`
	Method  string `json:"method"`
	Handler string `json:"handler"`
}

type routesResponse struct {
	AvailableRoutes []RouteInfo `json:"available_routes"`
}

type HealthHandler struct {
	checker Checker
	routes  func() gin.RoutesInfo
}

// NewHealthHandler takes the route table lazily so it can list routes that
// are registered after the handler is built.
func NewHealthHandler(checker Checker, routes func() gin.RoutesInfo) *HealthHandler {
	return &HealthHandler{checker: checker, routes: routes}
}

// HandleHealth is the liveness probe.
func (h *HealthHandler) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{
		Status:  "healthy",
		Message: "Backend is running",
	})
}

// HandleReady checks every dependency and answers 503 when one is down.
func (h *HealthHandler) HandleReady(c *gin.Context) {
	result := h.checker.CheckAll(c.Request.Context())

	status := http.StatusOK
	if result.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, result)
}

// HandleRoutes lists every registered route.
func (h *HealthHandler) HandleRoutes(c *gin.Context) {
	infos := h.routes()
	routes := make([]RouteInfo, 0, len(infos))
	for _, info := range infos {
		routes = append(routes, RouteInfo{
			Path:    info.Path,
			Method:  info.Method,
			Handler: info.Handler,
		})
	}
	sort.Slice(routes, func(i, j int) bool {
		if routes[i].Path == routes[j].Path {
			return routes[i].Method < routes[j].Method
		}
		return routes[i].Path < routes[j].Path
	})
	c.JSON(http.StatusOK, routesResponse{AvailableRoutes: routes})
}

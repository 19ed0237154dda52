package health

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/database"
)

// Service statuses.
const (
	StatusHealthy   = "healthy"
	StatusDegraded  = "degraded"
	StatusUnhealthy = "unhealthy"
	StatusDisabled  = "disabled"
)

// Pinger is the part of the database manager the checker needs.
type Pinger interface {
	PingDatabase(ctx context.Context) error
	PingRedis(ctx context.Context) error
}

// HealthChecker manages health checks for all services
type HealthChecker struct {
	pinger           Pinger
	logger           *logrus.Logger
	geminiConfigured bool
	started          time.Time
	timeout          time.Duration
}

func NewHealthChecker(pinger Pinger, geminiConfigured bool, logger *logrus.Logger) *HealthChecker {
	return &HealthChecker{
		pinger:           pinger,
		logger:           logger,
		geminiConfigured: geminiConfigured,
		started:          time.Now(),
		timeout:          5 * time.Second,
	}
}

// ServiceHealth represents the health status of a service
type ServiceHealth struct {
	Name         string `json:"name"`
	Status       string `json:"status"`
	ResponseTime int    `json:"response_time_ms"`
	Error        string `json:"error,omitempty"`
	LastChecked  string `json:"last_checked"`
}

// OverallHealth represents the overall system health
type OverallHealth struct {
	Status   string          `json:"status"`
	Services []ServiceHealth `json:"services"`
	Uptime   string          `json:"uptime"`
}

// CheckDatabase pings the blog store.
func (h *HealthChecker) CheckDatabase(ctx context.Context) ServiceHealth {
	return h.check(ctx, "database", h.pinger.PingDatabase)
}

// CheckRedis pings the progress store. An unconfigured redis is reported as
// disabled, not as a failure.
func (h *HealthChecker) CheckRedis(ctx context.Context) ServiceHealth {
	return h.check(ctx, "redis", h.pinger.PingRedis)
}

// CheckGemini only reports whether an API key is present; the generative
// API is never called from a health probe.
func (h *HealthChecker) CheckGemini() ServiceHealth {
	service := ServiceHealth{
		Name:        "gemini",
		Status:      StatusHealthy,
		LastChecked: time.Now().Format(time.RFC3339),
	}
	if !h.geminiConfigured {
		service.Status = StatusDegraded
		service.Error = "GEMINI_API_KEY is not set"
	}
	return service
}

func (h *HealthChecker) check(ctx context.Context, name string, ping func(context.Context) error) ServiceHealth {
	ctx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	start := time.Now()
	err := ping(ctx)
	responseTime := int(time.Since(start).Milliseconds())

	status := StatusHealthy
	errorMsg := ""
	switch {
	case errors.Is(err, database.ErrRedisDisabled):
		status = StatusDisabled
	case err != nil:
		status = StatusUnhealthy
		errorMsg = err.Error()
		h.logger.WithError(err).WithField("service", name).Error("Health check failed")
	}

	return ServiceHealth{
		Name:         name,
		Status:       status,
		ResponseTime: responseTime,
		Error:        errorMsg,
		LastChecked:  time.Now().Format(time.RFC3339),
	}
}

// CheckAll performs health checks on all services
func (h *HealthChecker) CheckAll(ctx context.Context) OverallHealth {
	services := []ServiceHealth{
		h.CheckDatabase(ctx),
		h.CheckRedis(ctx),
		h.CheckGemini(),
	}

	overallStatus := StatusHealthy
	for _, service := range services {
		if service.Status == StatusUnhealthy {
			overallStatus = StatusUnhealthy
			break
		}
		if service.Status == StatusDegraded && overallStatus == StatusHealthy {
			overallStatus = StatusDegraded
		}
	}

	return OverallHealth{
		Status:   overallStatus,
		Services: services,
		Uptime:   h.getUptime(),
	}
}

func (h *HealthChecker) getUptime() string {
	return time.Since(h.started).Round(time.Second).String()
}

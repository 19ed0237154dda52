package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/progress"
	"github.com/thesaherriaz/SPM-Groups-Project/pkg/utils"
)

// ProgressReader looks up the last reported state of a chain run.
type ProgressReader interface {
	Get(ctx context.Context, runID string) (*progress.Record, error)
}

type ProgressHandler struct {
	store  ProgressReader
	logger *logrus.Logger
}

// NewProgressHandler accepts a nil store when redis is not configured; every
// lookup then answers 404.
func NewProgressHandler(store ProgressReader, logger *logrus.Logger) *ProgressHandler {
	return &ProgressHandler{store: store, logger: logger}
}

// HandleProgress serves GET /progress/:run_id.
func (h *ProgressHandler) HandleProgress(c *gin.Context) {
	if h.store == nil {
		utils.ErrorResponse(c, http.StatusNotFound, "Progress tracking is not enabled")
		return
	}

	record, err := h.store.Get(c.Request.Context(), c.Param("run_id"))
	if errors.Is(err, progress.ErrNotFound) {
		utils.ErrorResponse(c, http.StatusNotFound, "Run not found")
		return
	}
	if err != nil {
		h.logger.WithError(err).WithField("run_id", c.Param("run_id")).Error("Failed to read chain progress")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to read progress")
		return
	}
	c.JSON(http.StatusOK, record)
}

package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/apperror"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/middleware"
	"github.com/thesaherriaz/SPM-Groups-Project/pkg/utils"
)

const noJSONMessage = "No JSON data provided"

// maxBodyBytes bounds request bodies read by the JSON endpoints.
const maxBodyBytes = 1 << 20

// readPayload decodes the request body without a target type so the
// validator sees exactly what the client sent. An empty, null or
// undecodable body yields ok=false.
func readPayload(c *gin.Context) (interface{}, bool) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil || len(body) == 0 {
		return nil, false
	}

	var payload interface{}
	if err := json.Unmarshal(body, &payload); err != nil || payload == nil {
		return nil, false
	}
	return payload, true
}

// respondError maps err onto the {error} body. Upstream and internal
// detail goes to the log only.
func respondError(c *gin.Context, logger *logrus.Logger, err error) {
	status, message := apperror.Status(err)
	if status >= http.StatusInternalServerError {
		logger.WithError(err).WithFields(logrus.Fields{
			"path":       c.FullPath(),
			"request_id": c.GetString(middleware.RequestIDKey),
		}).Error("Request failed")
	}
	utils.ErrorResponse(c, status, message)
}

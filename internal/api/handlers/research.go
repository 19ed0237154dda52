package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/apperror"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/models"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/validator"
	"github.com/thesaherriaz/SPM-Groups-Project/pkg/utils"
)

// ResearchAPI is the set of generative use cases behind the research
// endpoints.
type ResearchAPI interface {
	RecommendMethodology(ctx context.Context, req models.MethodologyFromGapRequest) (*models.MethodologyRecommendation, error)
	AnalyzeCompliance(ctx context.Context, req models.ComplianceRequest) (*models.ComplianceGuidance, error)
	Ask(ctx context.Context, req models.AskRequest) (*models.AskResponse, error)
	AnalyzeQuestions(ctx context.Context, req models.QuestionsRequest) (*models.QuestionsAnalysis, error)
	DiscoverGaps(ctx context.Context, req models.GapsRequest) (*models.GapsResponse, error)
}

type ResearchHandler struct {
	service ResearchAPI
	logger  *logrus.Logger
}

func NewResearchHandler(service ResearchAPI, logger *logrus.Logger) *ResearchHandler {
	return &ResearchHandler{
		service: service,
		logger:  logger,
	}
}

// HandleMethodology serves POST /get-methodology.
func (h *ResearchHandler) HandleMethodology(c *gin.Context) {
	payload, ok := readPayload(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, noJSONMessage)
		return
	}

	req, err := validator.ParseMethodologyFromGap(payload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.service.RecommendMethodology(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleCompliance serves POST /get-compliance.
func (h *ResearchHandler) HandleCompliance(c *gin.Context) {
	payload, ok := readPayload(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, noJSONMessage)
		return
	}

	req, err := validator.ParseCompliance(payload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.service.AnalyzeCompliance(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleAsk serves POST /ask.
func (h *ResearchHandler) HandleAsk(c *gin.Context) {
	payload, ok := readPayload(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, noJSONMessage)
		return
	}

	req, err := validator.ParseAsk(payload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.WithField("question_length", len(req.Question)).Info("Answering research question")

	result, err := h.service.Ask(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// HandleAnalyzeQuestions serves POST /analyze-questions. Unlike the other
// research endpoints it always answers with the {success, message, data}
// envelope.
func (h *ResearchHandler) HandleAnalyzeQuestions(c *gin.Context) {
	payload, ok := readPayload(c)
	if !ok {
		utils.EnvelopeResponse(c, http.StatusBadRequest, false, noJSONMessage, nil)
		return
	}

	req, err := validator.ParseQuestions(payload)
	if err != nil {
		h.envelopeError(c, err)
		return
	}

	result, err := h.service.AnalyzeQuestions(c.Request.Context(), req)
	if err != nil {
		h.envelopeError(c, err)
		return
	}
	utils.EnvelopeResponse(c, http.StatusOK, true, "Methodology analysis completed successfully", result)
}

func (h *ResearchHandler) envelopeError(c *gin.Context, err error) {
	status, message := apperror.Status(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).Error("Question analysis failed")
	}
	utils.EnvelopeResponse(c, status, false, message, nil)
}

// HandleResearchGaps serves POST /research-gaps.
func (h *ResearchHandler) HandleResearchGaps(c *gin.Context) {
	payload, ok := readPayload(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, noJSONMessage)
		return
	}
	h.discoverGaps(c, payload)
}

// HandleResearchGapQuery serves GET /researchgap?query=.
func (h *ResearchHandler) HandleResearchGapQuery(c *gin.Context) {
	payload := map[string]interface{}{}
	if query, ok := c.GetQuery("query"); ok {
		payload["query"] = query
	}
	h.discoverGaps(c, payload)
}

func (h *ResearchHandler) discoverGaps(c *gin.Context, payload interface{}) {
	req, err := validator.ParseGaps(payload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.service.DiscoverGaps(c.Request.Context(), req)
	if err != nil {
		if apperror.IsKind(err, apperror.KindGating) {
			h.logger.WithField("query", req.Query).Info("Research gap query rejected")
		}
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

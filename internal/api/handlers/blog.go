package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/blog"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/models"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/orchestrator"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/validator"
	"github.com/thesaherriaz/SPM-Groups-Project/pkg/utils"
)

const (
	blogNotFoundMessage = "Blog not found"
	invalidIDMessage    = "Invalid blog id"
)

// ChainRunner runs the blog chain for one topic.
type ChainRunner interface {
	Run(ctx context.Context, topic, runID string) (*orchestrator.Result, error)
}

type BlogHandler struct {
	chain  ChainRunner
	blogs  models.BlogRepository
	logger *logrus.Logger
}

func NewBlogHandler(chain ChainRunner, blogs models.BlogRepository, logger *logrus.Logger) *BlogHandler {
	return &BlogHandler{
		chain:  chain,
		blogs:  blogs,
		logger: logger,
	}
}

// GenerateBlogResponse is the body of a successful /generate-blog.
type GenerateBlogResponse struct {
	Success     bool            `json:"success"`
	BlogID      uint            `json:"blog_id"`
	RunID       string          `json:"run_id"`
	Content     string          `json:"content"`
	Gaps        json.RawMessage `json:"gaps"`
	Questions   json.RawMessage `json:"questions"`
	Methodology json.RawMessage `json:"methodology"`
}

type blogListResponse struct {
	Blogs []models.BlogSummary `json:"blogs"`
}

// HandleGenerateBlog serves POST /generate-blog.
func (h *BlogHandler) HandleGenerateBlog(c *gin.Context) {
	payload, ok := readPayload(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, noJSONMessage)
		return
	}

	req, err := validator.ParseBlog(payload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	result, err := h.chain.Run(c.Request.Context(), req.Topic, req.RunID)
	if err != nil {
		var stageErr *orchestrator.StageError
		if errors.As(err, &stageErr) {
			h.logger.WithError(err).WithFields(logrus.Fields{
				"run_id": stageErr.RunID,
				"step":   stageErr.Step,
			}).Error("Blog generation failed")
			utils.ErrorResponse(c, http.StatusInternalServerError, stageErr.Message())
			return
		}
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, GenerateBlogResponse{
		Success:     true,
		BlogID:      result.BlogID,
		RunID:       result.RunID,
		Content:     result.Content,
		Gaps:        result.Gaps,
		Questions:   result.Questions,
		Methodology: result.Methodology,
	})
}

// HandleListBlogs serves GET /blogs, newest first.
func (h *BlogHandler) HandleListBlogs(c *gin.Context) {
	blogs, err := h.blogs.List(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list blogs")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to fetch blogs")
		return
	}
	if blogs == nil {
		blogs = []models.BlogSummary{}
	}
	c.JSON(http.StatusOK, blogListResponse{Blogs: blogs})
}

// HandleGetBlog serves GET /blogs/:id.
func (h *BlogHandler) HandleGetBlog(c *gin.Context) {
	record, ok := h.loadBlog(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, record)
}

// HandleUpdateBlog serves PUT /blogs/:id, replacing the content only.
func (h *BlogHandler) HandleUpdateBlog(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	payload, ok := readPayload(c)
	if !ok {
		utils.ErrorResponse(c, http.StatusBadRequest, noJSONMessage)
		return
	}

	req, err := validator.ParseContentUpdate(payload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.blogs.UpdateContent(c.Request.Context(), id, req.Content); err != nil {
		h.storeError(c, err, "Failed to update blog")
		return
	}

	h.logger.WithField("blog_id", id).Info("Blog content updated")
	utils.SuccessMessage(c, http.StatusOK, "Blog updated successfully")
}

// HandleDeleteBlog serves DELETE /blogs/:id.
func (h *BlogHandler) HandleDeleteBlog(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.blogs.Delete(c.Request.Context(), id); err != nil {
		h.storeError(c, err, "Failed to delete blog")
		return
	}

	h.logger.WithField("blog_id", id).Info("Blog deleted")
	utils.SuccessMessage(c, http.StatusOK, "Blog deleted successfully")
}

// HandleDownloadBlog serves GET /blogs/:id/download as a markdown attachment.
func (h *BlogHandler) HandleDownloadBlog(c *gin.Context) {
	record, ok := h.loadBlog(c)
	if !ok {
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", utils.DownloadName(record.Topic)))
	c.Data(http.StatusOK, "text/markdown; charset=utf-8", []byte(record.Content))
}

// HandleBlogHTML serves GET /blogs/:id/html, the rendered post.
func (h *BlogHandler) HandleBlogHTML(c *gin.Context) {
	record, ok := h.loadBlog(c)
	if !ok {
		return
	}

	page, err := blog.RenderPage(record.Topic, record.Content)
	if err != nil {
		h.logger.WithError(err).WithField("blog_id", record.ID).Error("Failed to render blog")
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to render blog")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", page)
}

func (h *BlogHandler) loadBlog(c *gin.Context) (*models.Blog, bool) {
	id, ok := parseID(c)
	if !ok {
		return nil, false
	}

	record, err := h.blogs.GetByID(c.Request.Context(), id)
	if err != nil {
		h.storeError(c, err, "Failed to fetch blog")
		return nil, false
	}
	return record, true
}

func (h *BlogHandler) storeError(c *gin.Context, err error, message string) {
	if errors.Is(err, models.ErrNotFound) {
		utils.ErrorResponse(c, http.StatusNotFound, blogNotFoundMessage)
		return
	}
	h.logger.WithError(err).WithField("blog_id", c.Param("id")).Error(message)
	utils.ErrorResponse(c, http.StatusInternalServerError, message)
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.ErrorResponse(c, http.StatusBadRequest, invalidIDMessage)
		return 0, false
	}
	return uint(id), true
}

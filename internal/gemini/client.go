// Package gemini is a thin client for the generateContent REST API.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/normalizer"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/prompts"
)

const defaultTimeout = 30 * time.Second

type Client struct {
	baseURL    string
	apiKey     string
	model      string
	timeout    time.Duration
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewClient(baseURL, apiKey, model string, timeout time.Duration, logger *logrus.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		model:   model,
		timeout: timeout,
		// Deadlines come from the per-call context.
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

func (c *Client) Model() string {
	return c.model
}

// RequestFor converts a built prompt into a client request.
func RequestFor(p prompts.Prompt) Request {
	return Request{
		Prompt:      p.Text,
		Structured:  p.Structured,
		Temperature: p.Temperature,
	}
}

// Generate sends one prompt and normalizes the first candidate's text.
// It never retries.
func (c *Client) Generate(ctx context.Context, req Request) (normalizer.Result, error) {
	if !c.Configured() {
		return normalizer.Result{}, ErrNotConfigured
	}

	timeout := c.timeout
	if req.Timeout > 0 {
		timeout = req.Timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	payload := generateRequest{
		Contents: []content{{Parts: []part{{Text: req.Prompt}}}},
	}
	if req.Structured || req.Temperature != nil {
		payload.GenerationConfig = &generationConfig{Temperature: req.Temperature}
		if req.Structured {
			payload.GenerationConfig.ResponseMimeType = "application/json"
		}
	}

	endpoint := fmt.Sprintf("/models/%s:generateContent", url.PathEscape(c.model))

	var response generateResponse
	if err := c.makeRequest(ctx, http.MethodPost, endpoint, payload, &response); err != nil {
		return normalizer.Result{}, err
	}

	text, err := response.text()
	if err != nil {
		return normalizer.Result{}, err
	}

	return normalizer.Normalize(text, req.Structured)
}

// ListModels returns every model visible to the API key.
func (c *Client) ListModels(ctx context.Context) ([]Model, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var models []Model
	pageToken := ""
	for {
		endpoint := "/models"
		if pageToken != "" {
			endpoint += "?pageToken=" + url.QueryEscape(pageToken)
		}

		var page listModelsResponse
		if err := c.makeRequest(ctx, http.MethodGet, endpoint, nil, &page); err != nil {
			return nil, err
		}
		models = append(models, page.Models...)

		if page.NextPageToken == "" {
			return models, nil
		}
		pageToken = page.NextPageToken
	}
}

func (r generateResponse) text() (string, error) {
	if len(r.Candidates) == 0 {
		if r.PromptFeedback != nil && r.PromptFeedback.BlockReason != "" {
			return "", fmt.Errorf("%w: prompt blocked (%s)", ErrUnexpectedShape, r.PromptFeedback.BlockReason)
		}
		return "", fmt.Errorf("%w: no candidates", ErrUnexpectedShape)
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return "", fmt.Errorf("%w: candidate has no parts (finish reason %q)", ErrUnexpectedShape, r.Candidates[0].FinishReason)
	}
	return parts[0].Text, nil
}

func (c *Client) makeRequest(ctx context.Context, method, endpoint string, payload interface{}, result interface{}) error {
	url := c.baseURL + endpoint

	var body io.Reader
	var contentLength int

	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
		contentLength = len(jsonData)

		c.logger.WithFields(logrus.Fields{
			"method":       method,
			"url":          url,
			"payload_size": contentLength,
		}).Debug("Request payload info")
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("x-goog-api-key", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.WithFields(logrus.Fields{
		"method":   method,
		"url":      url,
		"model":    c.model,
		"has_body": payload != nil,
		"size":     contentLength,
	}).Debug("Making Gemini API request")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &TransportError{Cause: err}
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Cause: fmt.Errorf("failed to read response: %w", err)}
	}

	c.logger.WithFields(logrus.Fields{
		"status_code":   resp.StatusCode,
		"method":        method,
		"url":           url,
		"response_size": len(responseBody),
		"duration_ms":   time.Since(start).Milliseconds(),
	}).Debug("Gemini API response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rejected := &UpstreamRejectedError{
			StatusCode: resp.StatusCode,
			Body:       string(responseBody),
		}
		var apiErr errorResponse
		if json.Unmarshal(responseBody, &apiErr) == nil {
			rejected.Message = apiErr.Error.Message
		}
		c.logger.WithFields(logrus.Fields{
			"status_code":   resp.StatusCode,
			"url":           url,
			"response_body": rejected.Body,
		}).Warn("Gemini API rejected request")
		return rejected
	}

	if result != nil {
		if err := json.Unmarshal(responseBody, result); err != nil {
			return fmt.Errorf("%w: %v", ErrUnexpectedShape, err)
		}
	}

	return nil
}

// IsNotConfigured reports whether err stems from a missing API key.
func IsNotConfigured(err error) bool {
	return errors.Is(err, ErrNotConfigured)
}

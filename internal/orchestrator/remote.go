package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/models"
)

const gapCategory = "methodological_gap"

// Endpoints locates the three services the chain calls.
type Endpoints struct {
	GapsURL            string
	QuestionsURL       string
	MethodologyURL     string
	GapsTimeout        time.Duration
	QuestionsTimeout   time.Duration
	MethodologyTimeout time.Duration
}

// HTTPFetcher implements the three fetch stages over HTTP.
type HTTPFetcher struct {
	endpoints  Endpoints
	httpClient *http.Client
	logger     *logrus.Logger
}

func NewHTTPFetcher(endpoints Endpoints, logger *logrus.Logger) *HTTPFetcher {
	endpoints.GapsURL = strings.TrimRight(endpoints.GapsURL, "/")
	endpoints.QuestionsURL = strings.TrimRight(endpoints.QuestionsURL, "/")
	endpoints.MethodologyURL = strings.TrimRight(endpoints.MethodologyURL, "/")
	return &HTTPFetcher{
		endpoints:  endpoints,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

type gapPayload struct {
	GapID       string `json:"gap_id"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type questionsResponse struct {
	Data *models.QuestionSet `json:"data"`
}

type methodologyResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    *struct {
		Methodology *models.QuestionsMethodology `json:"methodology"`
	} `json:"data"`
}

// FetchGaps calls GET {gaps}/researchgap?query=topic.
func (f *HTTPFetcher) FetchGaps(ctx context.Context, topic string) (*GapsResult, error) {
	endpoint := f.endpoints.GapsURL + "/researchgap?query=" + url.QueryEscape(topic)

	raw, err := f.makeRequest(ctx, f.endpoints.GapsTimeout, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	var parsed models.GapsResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode gaps: %w", err)
	}

	return &GapsResult{Gaps: parsed.Gaps, Raw: raw}, nil
}

// FetchQuestions posts the gaps to {questions}/generateQuestions?topic=topic.
func (f *HTTPFetcher) FetchQuestions(ctx context.Context, topic string, gaps []models.Gap) (*QuestionsResult, error) {
	payload := make([]gapPayload, len(gaps))
	for i, gap := range gaps {
		payload[i] = gapPayload{
			GapID:       fmt.Sprintf("gap_%d", i+1),
			Description: gap.Statement,
			Category:    gapCategory,
		}
	}

	endpoint := f.endpoints.QuestionsURL + "/generateQuestions?topic=" + url.QueryEscape(topic)

	raw, err := f.makeRequest(ctx, f.endpoints.QuestionsTimeout, http.MethodPost, endpoint, payload)
	if err != nil {
		return nil, err
	}

	var parsed questionsResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode questions: %w", err)
	}
	if parsed.Data == nil {
		return nil, fmt.Errorf("%w: response has no data", ErrEmptyResult)
	}

	return &QuestionsResult{Questions: *parsed.Data, Raw: raw}, nil
}

// FetchMethodology posts the questions to {methodology}/analyze-questions.
func (f *HTTPFetcher) FetchMethodology(ctx context.Context, questions models.QuestionSet) (*MethodologyResult, error) {
	endpoint := f.endpoints.MethodologyURL + "/analyze-questions"

	raw, err := f.makeRequest(ctx, f.endpoints.MethodologyTimeout, http.MethodPost, endpoint, questions)
	if err != nil {
		return nil, err
	}

	var parsed methodologyResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode methodology: %w", err)
	}
	if !parsed.Success || parsed.Data == nil || parsed.Data.Methodology == nil {
		return nil, fmt.Errorf("%w: %s", ErrEmptyResult, parsed.Message)
	}

	return &MethodologyResult{Methodology: parsed.Data.Methodology, Raw: raw}, nil
}

func (f *HTTPFetcher) makeRequest(ctx context.Context, timeout time.Duration, method, url string, payload interface{}) (json.RawMessage, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal payload: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	f.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    url,
	}).Debug("Calling chain service")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	f.logger.WithFields(logrus.Fields{
		"status_code":   resp.StatusCode,
		"url":           url,
		"response_size": len(responseBody),
	}).Debug("Chain service response received")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("request to %s failed with status %d: %s", url, resp.StatusCode, string(responseBody))
	}
	if !json.Valid(responseBody) {
		return nil, fmt.Errorf("response from %s is not JSON", url)
	}

	return json.RawMessage(responseBody), nil
}

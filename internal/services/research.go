package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/apperror"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/gemini"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/models"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/normalizer"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/prompts"
)

const (
	gapCount = 5
	minScore = 1
	maxScore = 100
)

// Generator is the generative API as seen by the services.
type Generator interface {
	Generate(ctx context.Context, req gemini.Request) (normalizer.Result, error)
}

// GenerationObserver records one generative call per use case.
type GenerationObserver interface {
	ObserveGeneration(useCase string, err error, duration time.Duration)
}

type ResearchService struct {
	generator Generator
	observer  GenerationObserver
	logger    *logrus.Logger
}

func NewResearchService(generator Generator, observer GenerationObserver, logger *logrus.Logger) *ResearchService {
	return &ResearchService{
		generator: generator,
		observer:  observer,
		logger:    logger,
	}
}

// RecommendMethodology answers /get-methodology.
func (s *ResearchService) RecommendMethodology(ctx context.Context, req models.MethodologyFromGapRequest) (*models.MethodologyRecommendation, error) {
	var out models.MethodologyRecommendation
	if err := s.generateObject(ctx, prompts.Methodology(req), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// AnalyzeCompliance answers /get-compliance.
func (s *ResearchService) AnalyzeCompliance(ctx context.Context, req models.ComplianceRequest) (*models.ComplianceGuidance, error) {
	var out models.ComplianceGuidance
	if err := s.generateObject(ctx, prompts.Compliance(req), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ask answers a free-form question. An empty answer is an upstream failure.
func (s *ResearchService) Ask(ctx context.Context, req models.AskRequest) (*models.AskResponse, error) {
	result, err := s.generate(ctx, prompts.Ask(req))
	if err != nil {
		return nil, err
	}

	answer := strings.TrimSpace(result.Text)
	if answer == "" {
		s.logger.WithField("use_case", models.UseCaseFreeformQuestion).Error("Model returned an empty answer")
		return nil, apperror.Upstream(fmt.Errorf("empty answer"))
	}

	return &models.AskResponse{Answer: answer}, nil
}

// AnalyzeQuestions answers /analyze-questions: the questions echoed back
// together with a methodology recommendation.
func (s *ResearchService) AnalyzeQuestions(ctx context.Context, req models.QuestionsRequest) (*models.QuestionsAnalysis, error) {
	var methodology models.QuestionsMethodology
	if err := s.generateObject(ctx, prompts.QuestionsMethodology(req), &methodology); err != nil {
		return nil, err
	}

	return &models.QuestionsAnalysis{
		Questions: models.QuestionSet{
			MainQuestion: req.MainQuestion,
			SubQuestions: req.SubQuestions,
		},
		Methodology: methodology,
	}, nil
}

// CheckRelevance asks the model whether a gap query is on topic and safe.
func (s *ResearchService) CheckRelevance(ctx context.Context, req models.RelevanceRequest) (*models.RelevanceVerdict, error) {
	var verdict models.RelevanceVerdict
	if err := s.generateObject(ctx, prompts.Relevance(req), &verdict); err != nil {
		return nil, err
	}
	return &verdict, nil
}

// DiscoverGaps gates the query through CheckRelevance and then asks for
// exactly five scored research gaps.
func (s *ResearchService) DiscoverGaps(ctx context.Context, req models.GapsRequest) (*models.GapsResponse, error) {
	verdict, err := s.CheckRelevance(ctx, models.RelevanceRequest{Query: req.Query})
	if err != nil {
		return nil, err
	}
	if !verdict.Accepted() {
		s.logger.WithFields(logrus.Fields{
			"query":    req.Query,
			"relevant": verdict.Relevant,
			"safe":     verdict.Safe,
		}).Info("Gap query rejected by relevance check")
		message := verdict.Message
		if strings.TrimSpace(message) == "" {
			message = "Query is not relevant or not safe"
		}
		return nil, apperror.Gating(message)
	}

	var gaps models.GapsResponse
	if err := s.generateObject(ctx, prompts.ResearchGaps(req), &gaps); err != nil {
		return nil, err
	}
	if err := checkGaps(gaps.Gaps); err != nil {
		s.logger.WithError(err).WithField("query", req.Query).Error("Model returned malformed gaps")
		return nil, apperror.Upstream(err)
	}

	return &gaps, nil
}

func checkGaps(gaps []models.Gap) error {
	if len(gaps) != gapCount {
		return fmt.Errorf("expected %d gaps, got %d", gapCount, len(gaps))
	}
	for i, gap := range gaps {
		if strings.TrimSpace(gap.Statement) == "" {
			return fmt.Errorf("gap %d has an empty statement", i)
		}
		if gap.Score < minScore || gap.Score > maxScore {
			return fmt.Errorf("gap %d score %d outside [%d, %d]", i, gap.Score, minScore, maxScore)
		}
	}
	return nil
}

func (s *ResearchService) generate(ctx context.Context, prompt prompts.Prompt) (normalizer.Result, error) {
	start := time.Now()
	result, err := s.generator.Generate(ctx, gemini.RequestFor(prompt))
	if s.observer != nil {
		s.observer.ObserveGeneration(string(prompt.UseCase), err, time.Since(start))
	}
	if err != nil {
		s.logger.WithError(err).WithField("use_case", prompt.UseCase).Error("Generative API call failed")
		return normalizer.Result{}, apperror.Upstream(err)
	}
	return result, nil
}

// generateObject runs a structured prompt and decodes the object into v
// after checking that every declared key is present.
func (s *ResearchService) generateObject(ctx context.Context, prompt prompts.Prompt, v interface{}) error {
	result, err := s.generate(ctx, prompt)
	if err != nil {
		return err
	}
	if err := decodeObject(result, prompts.Keys(prompt.UseCase), v); err != nil {
		s.logger.WithError(err).WithField("use_case", prompt.UseCase).Error("Model output does not match the declared shape")
		return apperror.Upstream(err)
	}
	return nil
}

func decodeObject(result normalizer.Result, keys []string, v interface{}) error {
	if !result.Structured() {
		return fmt.Errorf("expected structured output")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(result.Data, &fields); err != nil || fields == nil {
		return fmt.Errorf("expected a JSON object")
	}
	for _, key := range keys {
		if _, ok := fields[key]; !ok {
			return fmt.Errorf("missing key %q", key)
		}
	}

	if err := result.Decode(v); err != nil {
		return fmt.Errorf("failed to decode model output: %w", err)
	}
	return nil
}

// Package orchestrator runs the blog chain: research gaps, then research
// questions, then a methodology, then blog synthesis and persistence.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/blog"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/models"
)

// Stage is a chain state.
type Stage string

const (
	StageIdle               Stage = "idle"
	StageGapsFetched        Stage = "gaps_fetched"
	StageQuestionsFetched   Stage = "questions_fetched"
	StageMethodologyFetched Stage = "methodology_fetched"
	StageBlogSynthesized    Stage = "blog_synthesized"
	StagePersisted          Stage = "persisted"
	StageFailed             Stage = "failed"
)

// Step names a halting point of the chain.
type Step string

const (
	StepGaps      Step = "gaps"
	StepQuestions Step = "questions"
	StepPersist   Step = "persist"
)

var stepMessages = map[Step]string{
	StepGaps:      "Failed to fetch research gaps",
	StepQuestions: "Failed to generate research questions",
	StepPersist:   "Failed to save blog",
}

// ErrEmptyResult marks a stage that answered but produced nothing usable.
var ErrEmptyResult = errors.New("stage returned no data")

// StageError is the partial-failure outcome of a run. Later stages were not
// attempted.
type StageError struct {
	RunID string
	Step  Step
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("chain halted at %s: %v", e.Step, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// Message is the caller-safe description of the failure.
func (e *StageError) Message() string {
	return stepMessages[e.Step]
}

// GapsResult holds the parsed gaps and the response as received.
type GapsResult struct {
	Gaps []models.Gap
	Raw  json.RawMessage
}

type QuestionsResult struct {
	Questions models.QuestionSet
	Raw       json.RawMessage
}

// MethodologyResult is nil-Methodology with Raw "{}" when the stage was
// unavailable.
type MethodologyResult struct {
	Methodology *models.QuestionsMethodology
	Raw         json.RawMessage
}

type GapsFetcher interface {
	FetchGaps(ctx context.Context, topic string) (*GapsResult, error)
}

type QuestionsFetcher interface {
	FetchQuestions(ctx context.Context, topic string, gaps []models.Gap) (*QuestionsResult, error)
}

type MethodologyFetcher interface {
	FetchMethodology(ctx context.Context, questions models.QuestionSet) (*MethodologyResult, error)
}

// SynthesisInput carries both the parsed data and the raw JSON of each stage.
type SynthesisInput struct {
	Blog           blog.Input
	GapsRaw        json.RawMessage
	QuestionsRaw   json.RawMessage
	MethodologyRaw json.RawMessage
}

type Synthesis struct {
	Content  string
	Fallback bool
}

// Synthesizer never fails; it falls back to a deterministic post.
type Synthesizer interface {
	Synthesize(ctx context.Context, in SynthesisInput) Synthesis
}

type BlogStore interface {
	Create(ctx context.Context, blog *models.Blog) error
}

// ArtefactExporter writes stage outputs somewhere outside the record store.
type ArtefactExporter interface {
	Export(topic string, gaps, methodology json.RawMessage) error
}

// Result is a successfully persisted run.
type Result struct {
	RunID       string          `json:"run_id"`
	BlogID      uint            `json:"blog_id"`
	Topic       string          `json:"topic"`
	Content     string          `json:"content"`
	Gaps        json.RawMessage `json:"gaps"`
	Questions   json.RawMessage `json:"questions"`
	Methodology json.RawMessage `json:"methodology"`
	Fallback    bool            `json:"fallback"`
}

type Chain struct {
	gaps        GapsFetcher
	questions   QuestionsFetcher
	methodology MethodologyFetcher
	synthesizer Synthesizer
	store       BlogStore
	exporter    ArtefactExporter
	observer    Observer
	logger      *logrus.Logger
}

type Deps struct {
	Gaps        GapsFetcher
	Questions   QuestionsFetcher
	Methodology MethodologyFetcher
	Synthesizer Synthesizer
	Store       BlogStore
	// Exporter and Observer are optional.
	Exporter ArtefactExporter
	Observer Observer
}

func NewChain(deps Deps, logger *logrus.Logger) *Chain {
	observer := deps.Observer
	if observer == nil {
		observer = Observers{}
	}
	return &Chain{
		gaps:        deps.Gaps,
		questions:   deps.Questions,
		methodology: deps.Methodology,
		synthesizer: deps.Synthesizer,
		store:       deps.Store,
		exporter:    deps.Exporter,
		observer:    observer,
		logger:      logger,
	}
}

// NewRunID returns a fresh identifier for progress tracking.
func NewRunID() string {
	return uuid.NewString()
}

// Run executes the chain for topic. A blank runID gets a generated one.
// Stages run strictly in order; an empty gaps or questions result halts the
// run with a *StageError.
func (c *Chain) Run(ctx context.Context, topic, runID string) (*Result, error) {
	topic = strings.TrimSpace(topic)
	if runID == "" {
		runID = NewRunID()
	}
	logger := c.logger.WithFields(logrus.Fields{"run_id": runID, "topic": topic})

	c.transition(ctx, runID, topic, StageIdle, nil)

	gaps, err := c.gaps.FetchGaps(ctx, topic)
	if err == nil && (gaps == nil || len(gaps.Gaps) == 0) {
		err = ErrEmptyResult
	}
	if err != nil {
		return nil, c.fail(ctx, runID, topic, StepGaps, err)
	}
	c.transition(ctx, runID, topic, StageGapsFetched, nil)

	questions, err := c.questions.FetchQuestions(ctx, topic, gaps.Gaps)
	if err == nil && (questions == nil || strings.TrimSpace(questions.Questions.MainQuestion) == "") {
		err = ErrEmptyResult
	}
	if err != nil {
		return nil, c.fail(ctx, runID, topic, StepQuestions, err)
	}
	c.transition(ctx, runID, topic, StageQuestionsFetched, nil)

	methodology, err := c.methodology.FetchMethodology(ctx, questions.Questions)
	if err != nil || methodology == nil || methodology.Methodology == nil {
		logger.WithError(err).Warn("Methodology unavailable, continuing with an empty placeholder")
		methodology = &MethodologyResult{Raw: json.RawMessage("{}")}
	}
	c.transition(ctx, runID, topic, StageMethodologyFetched, nil)

	questionSet := questions.Questions
	synthesis := c.synthesizer.Synthesize(ctx, SynthesisInput{
		Blog: blog.Input{
			Topic:       topic,
			Gaps:        gaps.Gaps,
			Questions:   &questionSet,
			Methodology: methodology.Methodology,
		},
		GapsRaw:        gaps.Raw,
		QuestionsRaw:   questions.Raw,
		MethodologyRaw: methodology.Raw,
	})
	c.transition(ctx, runID, topic, StageBlogSynthesized, nil)

	record := &models.Blog{
		Topic:             topic,
		Content:           synthesis.Content,
		ResearchGaps:      models.JSONText(gaps.Raw),
		ResearchQuestions: models.JSONText(questions.Raw),
		Methodology:       models.JSONText(methodology.Raw),
	}
	if err := c.store.Create(ctx, record); err != nil {
		return nil, c.fail(ctx, runID, topic, StepPersist, err)
	}
	c.transition(ctx, runID, topic, StagePersisted, nil)

	if c.exporter != nil {
		if err := c.exporter.Export(topic, gaps.Raw, methodology.Raw); err != nil {
			logger.WithError(err).Warn("Failed to export chain artefacts")
		}
	}

	logger.WithFields(logrus.Fields{
		"blog_id":  record.ID,
		"fallback": synthesis.Fallback,
	}).Info("Blog chain completed")

	return &Result{
		RunID:       runID,
		BlogID:      record.ID,
		Topic:       topic,
		Content:     synthesis.Content,
		Gaps:        gaps.Raw,
		Questions:   questions.Raw,
		Methodology: methodology.Raw,
		Fallback:    synthesis.Fallback,
	}, nil
}

func (c *Chain) fail(ctx context.Context, runID, topic string, step Step, err error) error {
	stageErr := &StageError{RunID: runID, Step: step, Err: err}
	c.transition(ctx, runID, topic, StageFailed, stageErr)
	return stageErr
}

func (c *Chain) transition(ctx context.Context, runID, topic string, stage Stage, err error) {
	c.observer.Transition(ctx, Event{
		RunID: runID,
		Topic: topic,
		Stage: stage,
		Err:   err,
	})
}

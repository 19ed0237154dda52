package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/models"
	"github.com/thesaherriaz/SPM-Groups-Project/pkg/utils"
)

type fakeGaps struct {
	calls  int
	result *GapsResult
	err    error
}

func (f *fakeGaps) FetchGaps(_ context.Context, _ string) (*GapsResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeQuestions struct {
	calls  int
	gaps   []models.Gap
	result *QuestionsResult
	err    error
}

func (f *fakeQuestions) FetchQuestions(_ context.Context, _ string, gaps []models.Gap) (*QuestionsResult, error) {
	f.calls++
	f.gaps = gaps
	return f.result, f.err
}

type fakeMethodology struct {
	calls  int
	result *MethodologyResult
	err    error
}

func (f *fakeMethodology) FetchMethodology(_ context.Context, _ models.QuestionSet) (*MethodologyResult, error) {
	f.calls++
	return f.result, f.err
}

type fakeSynthesizer struct {
	calls int
	input SynthesisInput
}

func (f *fakeSynthesizer) Synthesize(_ context.Context, in SynthesisInput) Synthesis {
	f.calls++
	f.input = in
	return Synthesis{Content: "# Post about " + in.Blog.Topic}
}

type fakeStore struct {
	calls int
	saved *models.Blog
	err   error
}

func (f *fakeStore) Create(_ context.Context, blog *models.Blog) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	blog.ID = 42
	f.saved = blog
	return nil
}

type fakeExporter struct {
	calls int
	err   error
}

func (f *fakeExporter) Export(string, json.RawMessage, json.RawMessage) error {
	f.calls++
	return f.err
}

type recordingObserver struct {
	mu     sync.Mutex
	events []Event
}

func (r *recordingObserver) Transition(_ context.Context, event Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingObserver) stages() []Stage {
	out := make([]Stage, len(r.events))
	for i, e := range r.events {
		out[i] = e.Stage
	}
	return out
}

type harness struct {
	gaps        *fakeGaps
	questions   *fakeQuestions
	methodology *fakeMethodology
	synthesizer *fakeSynthesizer
	store       *fakeStore
	exporter    *fakeExporter
	observer    *recordingObserver
}

func newHarness() *harness {
	return &harness{
		gaps: &fakeGaps{result: &GapsResult{
			Gaps: []models.Gap{{Statement: "Gap one", Score: 90}, {Statement: "Gap two", Score: 70}},
			Raw:  json.RawMessage(`{"gaps":[{"statement":"Gap one","score":90},{"statement":"Gap two","score":70}]}`),
		}},
		questions: &fakeQuestions{result: &QuestionsResult{
			Questions: models.QuestionSet{MainQuestion: "Main?", SubQuestions: []string{"Sub?"}},
			Raw:       json.RawMessage(`{"data":{"main_question":"Main?","sub_questions":["Sub?"]}}`),
		}},
		methodology: &fakeMethodology{result: &MethodologyResult{
			Methodology: &models.QuestionsMethodology{RecommendedMethodology: "Mixed"},
			Raw:         json.RawMessage(`{"success":true,"message":"ok","data":{"methodology":{"recommended_methodology":"Mixed"}}}`),
		}},
		synthesizer: &fakeSynthesizer{},
		store:       &fakeStore{},
		exporter:    &fakeExporter{},
		observer:    &recordingObserver{},
	}
}

func (h *harness) chain() *Chain {
	return NewChain(Deps{
		Gaps:        h.gaps,
		Questions:   h.questions,
		Methodology: h.methodology,
		Synthesizer: h.synthesizer,
		Store:       h.store,
		Exporter:    h.exporter,
		Observer:    h.observer,
	}, utils.NewTestLogger())
}

func TestChain_Success(t *testing.T) {
	h := newHarness()

	result, err := h.chain().Run(context.Background(), "  machine learning ", "run-1")
	require.NoError(t, err)

	assert.Equal(t, "run-1", result.RunID)
	assert.Equal(t, uint(42), result.BlogID)
	assert.Equal(t, "machine learning", result.Topic)
	assert.Equal(t, "# Post about machine learning", result.Content)

	assert.Equal(t, []Stage{
		StageIdle, StageGapsFetched, StageQuestionsFetched,
		StageMethodologyFetched, StageBlogSynthesized, StagePersisted,
	}, h.observer.stages())

	require.NotNil(t, h.store.saved)
	assert.Equal(t, "machine learning", h.store.saved.Topic)
	assert.JSONEq(t, string(h.gaps.result.Raw), string(h.store.saved.ResearchGaps))
	assert.JSONEq(t, string(h.questions.result.Raw), string(h.store.saved.ResearchQuestions))
	assert.JSONEq(t, string(h.methodology.result.Raw), string(h.store.saved.Methodology))

	assert.Equal(t, h.gaps.result.Gaps, h.questions.gaps)
	assert.Equal(t, "Mixed", h.synthesizer.input.Blog.Methodology.RecommendedMethodology)
	assert.Equal(t, 1, h.exporter.calls)
}

func TestChain_EmptyGapsHaltsBeforeQuestions(t *testing.T) {
	cases := map[string]*fakeGaps{
		"empty list": {result: &GapsResult{Raw: json.RawMessage(`{"gaps":[]}`)}},
		"nil result": {},
		"error":      {err: errors.New("connection refused")},
	}

	for name, gaps := range cases {
		t.Run(name, func(t *testing.T) {
			h := newHarness()
			h.gaps = gaps

			_, err := h.chain().Run(context.Background(), "topic", "")
			require.Error(t, err)

			var stageErr *StageError
			require.True(t, errors.As(err, &stageErr))
			assert.Equal(t, StepGaps, stageErr.Step)
			assert.Equal(t, "Failed to fetch research gaps", stageErr.Message())
			assert.NotEmpty(t, stageErr.RunID)

			assert.Equal(t, 1, h.gaps.calls)
			assert.Zero(t, h.questions.calls)
			assert.Zero(t, h.methodology.calls)
			assert.Zero(t, h.synthesizer.calls)
			assert.Zero(t, h.store.calls)
			assert.Zero(t, h.exporter.calls)
			assert.Equal(t, []Stage{StageIdle, StageFailed}, h.observer.stages())
		})
	}
}

func TestChain_EmptyQuestionsHalts(t *testing.T) {
	h := newHarness()
	h.questions.result = &QuestionsResult{Raw: json.RawMessage(`{"data":{}}`)}

	_, err := h.chain().Run(context.Background(), "topic", "run-2")

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StepQuestions, stageErr.Step)
	assert.ErrorIs(t, err, ErrEmptyResult)
	assert.Zero(t, h.methodology.calls)
	assert.Zero(t, h.store.calls)
}

func TestChain_MethodologyFailureUsesPlaceholder(t *testing.T) {
	h := newHarness()
	h.methodology.result = nil
	h.methodology.err = errors.New("timeout")

	result, err := h.chain().Run(context.Background(), "topic", "")
	require.NoError(t, err)

	assert.JSONEq(t, `{}`, string(result.Methodology))
	require.NotNil(t, h.store.saved)
	assert.JSONEq(t, `{}`, string(h.store.saved.Methodology))
	assert.Nil(t, h.synthesizer.input.Blog.Methodology)
	assert.Contains(t, h.observer.stages(), StageMethodologyFetched)
}

func TestChain_PersistFailure(t *testing.T) {
	h := newHarness()
	h.store.err = errors.New("disk full")

	_, err := h.chain().Run(context.Background(), "topic", "")

	var stageErr *StageError
	require.True(t, errors.As(err, &stageErr))
	assert.Equal(t, StepPersist, stageErr.Step)
	assert.Zero(t, h.exporter.calls)
	assert.Equal(t, StageFailed, h.observer.stages()[len(h.observer.events)-1])
}

func TestChain_ExportFailureIsNotFatal(t *testing.T) {
	h := newHarness()
	h.exporter.err = errors.New("read-only filesystem")

	_, err := h.chain().Run(context.Background(), "topic", "")
	assert.NoError(t, err)
}

func TestChain_OptionalDeps(t *testing.T) {
	h := newHarness()
	chain := NewChain(Deps{
		Gaps:        h.gaps,
		Questions:   h.questions,
		Methodology: h.methodology,
		Synthesizer: h.synthesizer,
		Store:       h.store,
	}, utils.NewTestLogger())

	result, err := chain.Run(context.Background(), "topic", "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
}

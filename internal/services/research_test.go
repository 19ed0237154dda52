package services

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/apperror"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/gemini"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/models"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/normalizer"
	"github.com/thesaherriaz/SPM-Groups-Project/pkg/utils"
)

type scriptedReply struct {
	raw string
	err error
}

// fakeGenerator replays raw model text in call order through the real
// normalizer.
type fakeGenerator struct {
	replies  []scriptedReply
	requests []gemini.Request
}

func (f *fakeGenerator) Generate(_ context.Context, req gemini.Request) (normalizer.Result, error) {
	f.requests = append(f.requests, req)
	if len(f.replies) == 0 {
		return normalizer.Result{}, errors.New("unexpected call")
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	if reply.err != nil {
		return normalizer.Result{}, reply.err
	}
	return normalizer.Normalize(reply.raw, req.Structured)
}

type recordingObserver struct {
	useCases []string
	failures int
}

func (r *recordingObserver) ObserveGeneration(useCase string, err error, _ time.Duration) {
	r.useCases = append(r.useCases, useCase)
	if err != nil {
		r.failures++
	}
}

func newService(replies ...scriptedReply) (*ResearchService, *fakeGenerator, *recordingObserver) {
	gen := &fakeGenerator{replies: replies}
	obs := &recordingObserver{}
	return NewResearchService(gen, obs, utils.NewTestLogger()), gen, obs
}

const fiveGaps = `{"gaps": [
	{"statement": "Gap one", "score": 95},
	{"statement": "Gap two", "score": 87},
	{"statement": "Gap three", "score": 80},
	{"statement": "Gap four", "score": 75},
	{"statement": "Gap five", "score": 1}
]}`

func TestRecommendMethodology(t *testing.T) {
	svc, gen, obs := newService(scriptedReply{raw: "```json\n" + `{
		"recommended_methodology": "Mixed methods",
		"justification": "Both breadth and depth are needed",
		"study_design": "Convergent parallel",
		"data_collection_tools": ["Survey", "Interviews"]
	}` + "\n```"})

	out, err := svc.RecommendMethodology(context.Background(), models.MethodologyFromGapRequest{
		ResearchGap:       "Limited data on rural clinics",
		ResearchQuestions: []string{"Who uses the data?"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Mixed methods", out.RecommendedMethodology)
	assert.Equal(t, []interface{}{"Survey", "Interviews"}, out.DataCollectionTools)

	require.Len(t, gen.requests, 1)
	assert.True(t, gen.requests[0].Structured)
	assert.Equal(t, []string{string(models.UseCaseMethodologyFromGap)}, obs.useCases)
}

func TestRecommendMethodology_MissingKey(t *testing.T) {
	svc, _, _ := newService(scriptedReply{raw: `{"recommended_methodology": "x", "justification": "y", "study_design": "z"}`})

	_, err := svc.RecommendMethodology(context.Background(), models.MethodologyFromGapRequest{ResearchGap: "g", ResearchQuestions: []string{"q"}})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindUpstream))
	assert.Contains(t, err.Error(), "data_collection_tools")
}

func TestAnalyzeCompliance(t *testing.T) {
	svc, _, _ := newService(scriptedReply{raw: `{
		"ip_risks": "Low",
		"copyright_concerns": "Cite datasets",
		"patentability": "Unlikely",
		"ethical_considerations": ["Consent"],
		"data_privacy_requirements": "GDPR",
		"compliance_recommendations": "Obtain IRB approval"
	}`})

	out, err := svc.AnalyzeCompliance(context.Background(), models.ComplianceRequest{ProjectTitle: "t", DataSources: "d", Methods: "m"})
	require.NoError(t, err)
	assert.Equal(t, "GDPR", out.DataPrivacyRequirements)
}

func TestAsk(t *testing.T) {
	svc, gen, _ := newService(scriptedReply{raw: "  \"Grounded theory builds theory from data.\"  "})

	out, err := svc.Ask(context.Background(), models.AskRequest{Question: "What is grounded theory?"})
	require.NoError(t, err)
	assert.Equal(t, "Grounded theory builds theory from data.", out.Answer)
	assert.False(t, gen.requests[0].Structured)
}

func TestAsk_EmptyAnswerIsUpstreamFailure(t *testing.T) {
	svc, _, _ := newService(scriptedReply{raw: "   "})

	_, err := svc.Ask(context.Background(), models.AskRequest{Question: "abc"})
	code, message := apperror.Status(err)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, apperror.GenericUpstreamMessage, message)
}

func TestGeneratorFailureIsUpstream(t *testing.T) {
	svc, _, obs := newService(scriptedReply{err: &gemini.UpstreamRejectedError{StatusCode: 503, Body: "unavailable"}})

	_, err := svc.Ask(context.Background(), models.AskRequest{Question: "abc"})
	require.Error(t, err)
	assert.True(t, apperror.IsKind(err, apperror.KindUpstream))

	var rejected *gemini.UpstreamRejectedError
	assert.True(t, errors.As(err, &rejected))
	assert.Equal(t, 1, obs.failures)
}

func TestAnalyzeQuestions(t *testing.T) {
	svc, _, _ := newService(scriptedReply{raw: `{
		"recommended_methodology": "Mixed-Methods Approach",
		"justification": "Needs both",
		"study_design": "Convergent Parallel Mixed Methods Design",
		"data_collection_tools": {
			"qualitative_tools": ["Interviews: with clinicians"],
			"quantitative_tools": ["Survey: of administrators"]
		}
	}`})

	req := models.QuestionsRequest{MainQuestion: "How does X affect Y?", SubQuestions: []string{"Q1", "Q2"}}
	out, err := svc.AnalyzeQuestions(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "How does X affect Y?", out.Questions.MainQuestion)
	assert.Equal(t, []string{"Q1", "Q2"}, out.Questions.SubQuestions)
	assert.Equal(t, "Mixed-Methods Approach", out.Methodology.RecommendedMethodology)
	assert.Equal(t, []string{"Interviews: with clinicians"}, out.Methodology.DataCollectionTools.QualitativeTools)
}

func TestAnalyzeQuestions_InvalidJSON(t *testing.T) {
	svc, _, _ := newService(scriptedReply{raw: "not json"})

	_, err := svc.AnalyzeQuestions(context.Background(), models.QuestionsRequest{MainQuestion: "m", SubQuestions: []string{"s"}})
	require.Error(t, err)

	var invalid *normalizer.InvalidOutputError
	assert.True(t, errors.As(err, &invalid))
	assert.True(t, apperror.IsKind(err, apperror.KindUpstream))
}

func TestDiscoverGaps(t *testing.T) {
	svc, gen, obs := newService(
		scriptedReply{raw: `{"relevant": true, "safe": true, "message": ""}`},
		scriptedReply{raw: "```json\n" + fiveGaps + "\n```"},
	)

	out, err := svc.DiscoverGaps(context.Background(), models.GapsRequest{Query: "data engineering in healthcare"})
	require.NoError(t, err)
	require.Len(t, out.Gaps, 5)
	for _, gap := range out.Gaps {
		assert.GreaterOrEqual(t, gap.Score, 1)
		assert.LessOrEqual(t, gap.Score, 100)
	}

	require.Len(t, gen.requests, 2)
	require.NotNil(t, gen.requests[0].Temperature)
	assert.Zero(t, *gen.requests[0].Temperature)
	require.NotNil(t, gen.requests[1].Temperature)
	assert.InDelta(t, 0.3, *gen.requests[1].Temperature, 1e-9)
	assert.Equal(t, []string{string(models.UseCaseRelevanceCheck), string(models.UseCaseGapDiscovery)}, obs.useCases)
}

func TestDiscoverGaps_VerdictWithoutMessage(t *testing.T) {
	svc, gen, _ := newService(
		scriptedReply{raw: `{"relevant": true, "safe": true}`},
		scriptedReply{raw: fiveGaps},
	)

	out, err := svc.DiscoverGaps(context.Background(), models.GapsRequest{Query: "data engineering in healthcare"})
	require.NoError(t, err)
	assert.Len(t, out.Gaps, 5)
	assert.Len(t, gen.requests, 2)
}

func TestDiscoverGaps_RejectedWithoutMessage(t *testing.T) {
	svc, _, _ := newService(scriptedReply{raw: `{"relevant": false, "safe": true}`})

	_, err := svc.DiscoverGaps(context.Background(), models.GapsRequest{Query: "how to bake bread"})
	code, message := apperror.Status(err)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "Query is not relevant or not safe", message)
}

func TestDiscoverGaps_Gating(t *testing.T) {
	cases := map[string]string{
		"not relevant": `{"relevant": false, "safe": true, "message": "Not a research topic"}`,
		"not safe":     `{"relevant": true, "safe": false, "message": "Not a research topic"}`,
	}

	for name, verdict := range cases {
		t.Run(name, func(t *testing.T) {
			svc, gen, _ := newService(scriptedReply{raw: verdict})

			_, err := svc.DiscoverGaps(context.Background(), models.GapsRequest{Query: "how to bake bread"})
			code, message := apperror.Status(err)
			assert.Equal(t, http.StatusBadRequest, code)
			assert.Equal(t, "Not a research topic", message)
			assert.Len(t, gen.requests, 1, "gap prompt must not be sent")
		})
	}
}

func TestDiscoverGaps_MalformedGaps(t *testing.T) {
	cases := map[string]string{
		"four gaps":      `{"gaps": [{"statement": "a", "score": 1}, {"statement": "b", "score": 2}, {"statement": "c", "score": 3}, {"statement": "d", "score": 4}]}`,
		"score too high": `{"gaps": [{"statement": "a", "score": 101}, {"statement": "b", "score": 2}, {"statement": "c", "score": 3}, {"statement": "d", "score": 4}, {"statement": "e", "score": 5}]}`,
		"score zero":     `{"gaps": [{"statement": "a", "score": 0}, {"statement": "b", "score": 2}, {"statement": "c", "score": 3}, {"statement": "d", "score": 4}, {"statement": "e", "score": 5}]}`,
		"missing key":    `{"items": []}`,
		"not an object":  `[1, 2, 3]`,
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			svc, _, _ := newService(
				scriptedReply{raw: `{"relevant": true, "safe": true, "message": ""}`},
				scriptedReply{raw: raw},
			)

			_, err := svc.DiscoverGaps(context.Background(), models.GapsRequest{Query: "healthcare"})
			code, _ := apperror.Status(err)
			assert.Equal(t, http.StatusInternalServerError, code)
		})
	}
}

func TestCheckRelevance_WrongTypes(t *testing.T) {
	svc, _, _ := newService(scriptedReply{raw: `{"relevant": "yes", "safe": true, "message": ""}`})

	_, err := svc.CheckRelevance(context.Background(), models.RelevanceRequest{Query: "q"})
	assert.True(t, apperror.IsKind(err, apperror.KindUpstream))
}

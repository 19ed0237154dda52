package validator

import (
	"strings"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/models"
)

// The Parse functions validate a decoded payload and build the typed request.
// Field values are passed on as received; only validation trims.

func ParseMethodologyFromGap(payload interface{}) (models.MethodologyFromGapRequest, error) {
	if err := Validate(models.UseCaseMethodologyFromGap, payload); err != nil {
		return models.MethodologyFromGapRequest{}, err
	}
	data := payload.(map[string]interface{})
	return models.MethodologyFromGapRequest{
		ResearchGap:       data["research_gap"].(string),
		ResearchQuestions: stringList(data["research_questions"]),
	}, nil
}

func ParseCompliance(payload interface{}) (models.ComplianceRequest, error) {
	if err := Validate(models.UseCaseComplianceCheck, payload); err != nil {
		return models.ComplianceRequest{}, err
	}
	data := payload.(map[string]interface{})
	return models.ComplianceRequest{
		ProjectTitle: data["project_title"].(string),
		DataSources:  data["data_sources"].(string),
		Methods:      data["methods"].(string),
	}, nil
}

func ParseAsk(payload interface{}) (models.AskRequest, error) {
	if err := Validate(models.UseCaseFreeformQuestion, payload); err != nil {
		return models.AskRequest{}, err
	}
	data := payload.(map[string]interface{})
	return models.AskRequest{Question: data["question"].(string)}, nil
}

func ParseQuestions(payload interface{}) (models.QuestionsRequest, error) {
	if err := Validate(models.UseCaseMethodologyFromQuestions, payload); err != nil {
		return models.QuestionsRequest{}, err
	}
	data := payload.(map[string]interface{})
	return models.QuestionsRequest{
		MainQuestion: data["main_question"].(string),
		SubQuestions: stringList(data["sub_questions"]),
	}, nil
}

func ParseGaps(payload interface{}) (models.GapsRequest, error) {
	if err := Validate(models.UseCaseGapDiscovery, payload); err != nil {
		return models.GapsRequest{}, err
	}
	data := payload.(map[string]interface{})
	return models.GapsRequest{Query: data["query"].(string)}, nil
}

// ParseBlog trims the topic and picks up the optional run_id used for
// progress tracking.
func ParseBlog(payload interface{}) (models.BlogRequest, error) {
	if err := Validate(models.UseCaseBlogSynthesis, payload); err != nil {
		return models.BlogRequest{}, err
	}
	data := payload.(map[string]interface{})
	req := models.BlogRequest{Topic: strings.TrimSpace(data["topic"].(string))}
	if runID, ok := data["run_id"].(string); ok && strings.TrimSpace(runID) != "" {
		req.RunID = strings.TrimSpace(runID)
	}
	return req, nil
}

func ParseContentUpdate(payload interface{}) (models.BlogContentUpdateRequest, error) {
	if err := Validate(models.UseCaseBlogContentUpdate, payload); err != nil {
		return models.BlogContentUpdateRequest{}, err
	}
	data := payload.(map[string]interface{})
	return models.BlogContentUpdateRequest{Content: data["content"].(string)}, nil
}

func stringList(value interface{}) []string {
	items := value.([]interface{})
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = item.(string)
	}
	return out
}

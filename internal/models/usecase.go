package models

// UseCase tags each request variant handled by the endpoint set.
type UseCase string

const (
	UseCaseMethodologyFromGap       UseCase = "methodology_from_gap"
	UseCaseComplianceCheck          UseCase = "compliance_check"
	UseCaseFreeformQuestion         UseCase = "freeform_question"
	UseCaseMethodologyFromQuestions UseCase = "methodology_from_questions"
	UseCaseGapDiscovery             UseCase = "gap_discovery"
	UseCaseRelevanceCheck           UseCase = "relevance_check"
	UseCaseBlogSynthesis            UseCase = "blog_synthesis"
	UseCaseBlogContentUpdate        UseCase = "blog_content_update"
)

// Request models. Each is built only after the payload passed validation.

type MethodologyFromGapRequest struct {
	ResearchGap       string   `json:"research_gap"`
	ResearchQuestions []string `json:"research_questions"`
}

type ComplianceRequest struct {
	ProjectTitle string `json:"project_title"`
	DataSources  string `json:"data_sources"`
	Methods      string `json:"methods"`
}

type AskRequest struct {
	Question string `json:"question"`
}

type QuestionsRequest struct {
	MainQuestion string   `json:"main_question"`
	SubQuestions []string `json:"sub_questions"`
}

type GapsRequest struct {
	Query string `json:"query"`
}

type RelevanceRequest struct {
	Query string `json:"query"`
}

type BlogRequest struct {
	Topic string `json:"topic"`
	RunID string `json:"run_id,omitempty"`
}

type BlogContentUpdateRequest struct {
	Content string `json:"content"`
}

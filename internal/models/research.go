package models

// MethodologyRecommendation is the /get-methodology response. The model is
// free to shape data_collection_tools as prose or a list.
type MethodologyRecommendation struct {
	RecommendedMethodology interface{} `json:"recommended_methodology"`
	Justification          interface{} `json:"justification"`
	StudyDesign            interface{} `json:"study_design"`
	DataCollectionTools    interface{} `json:"data_collection_tools"`
}

type DataCollectionTools struct {
	QualitativeTools  []string `json:"qualitative_tools"`
	QuantitativeTools []string `json:"quantitative_tools"`
}

// QuestionsMethodology is the methodology block of /analyze-questions.
type QuestionsMethodology struct {
	RecommendedMethodology string              `json:"recommended_methodology"`
	Justification          string              `json:"justification"`
	StudyDesign            string              `json:"study_design"`
	DataCollectionTools    DataCollectionTools `json:"data_collection_tools"`
}

type ComplianceGuidance struct {
	IPRisks                   interface{} `json:"ip_risks"`
	CopyrightConcerns         interface{} `json:"copyright_concerns"`
	Patentability             interface{} `json:"patentability"`
	EthicalConsiderations     interface{} `json:"ethical_considerations"`
	DataPrivacyRequirements   interface{} `json:"data_privacy_requirements"`
	ComplianceRecommendations interface{} `json:"compliance_recommendations"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

type QuestionSet struct {
	MainQuestion string   `json:"main_question"`
	SubQuestions []string `json:"sub_questions"`
}

type QuestionsAnalysis struct {
	Questions   QuestionSet          `json:"questions"`
	Methodology QuestionsMethodology `json:"methodology"`
}

// Gap is one scored research gap. Reasoning is only supplied by some
// upstream gap services.
type Gap struct {
	Statement string `json:"statement"`
	Score     int    `json:"score"`
	Reasoning string `json:"reasoning,omitempty"`
}

type GapsResponse struct {
	Gaps []Gap `json:"gaps"`
}

type RelevanceVerdict struct {
	Relevant bool   `json:"relevant"`
	Safe     bool   `json:"safe"`
	Message  string `json:"message"`
}

// Accepted reports whether a query may proceed past the gate.
func (v RelevanceVerdict) Accepted() bool {
	return v.Relevant && v.Safe
}

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Package prompts builds the model prompts for each use case. Every builder
// is a pure function of its inputs.
package prompts

import (
	"fmt"
	"strings"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/models"
)

// Prompt is the text sent to the model plus the output mode it asks for.
type Prompt struct {
	UseCase     models.UseCase
	Text        string
	Structured  bool
	Temperature *float64
}

var outputKeys = map[models.UseCase][]string{
	models.UseCaseMethodologyFromGap: {
		"recommended_methodology", "justification", "study_design", "data_collection_tools",
	},
	models.UseCaseMethodologyFromQuestions: {
		"recommended_methodology", "justification", "study_design", "data_collection_tools",
	},
	models.UseCaseComplianceCheck: {
		"ip_risks", "copyright_concerns", "patentability",
		"ethical_considerations", "data_privacy_requirements", "compliance_recommendations",
	},
	models.UseCaseGapDiscovery:   {"gaps"},
	models.UseCaseRelevanceCheck: {"relevant", "safe"},
}

// Keys returns the top-level keys a structured prompt demands, or nil for
// free-text use cases.
func Keys(useCase models.UseCase) []string {
	keys := outputKeys[useCase]
	if keys == nil {
		return nil
	}
	return append([]string(nil), keys...)
}

func temperature(v float64) *float64 {
	return &v
}

func bulletList(items []string, indent string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = indent + "- " + item
	}
	return strings.Join(lines, "\n")
}

func keyList(useCase models.UseCase) string {
	return bulletList(outputKeys[useCase], "")
}

// Methodology asks for a methodology recommendation for a gap and its
// research questions.
func Methodology(req models.MethodologyFromGapRequest) Prompt {
	text := fmt.Sprintf(`You are an expert academic research supervisor.

Based on the research gap and research questions provided, recommend the most suitable research methodology.

Return the answer strictly in JSON with the keys:
%s

GAP: %s

QUESTIONS:
%s

Provide a comprehensive recommendation that considers:
- Whether quantitative, qualitative, or mixed-methods is most appropriate
- Specific study design (survey, experiment, case study, simulation, etc.)
- Justification for your selection
- Recommended data collection tools and methods`,
		keyList(models.UseCaseMethodologyFromGap),
		req.ResearchGap,
		bulletList(req.ResearchQuestions, ""),
	)

	return Prompt{UseCase: models.UseCaseMethodologyFromGap, Text: text, Structured: true}
}

// QuestionsMethodology asks for a methodology with split qualitative and
// quantitative tool lists.
func QuestionsMethodology(req models.QuestionsRequest) Prompt {
	text := fmt.Sprintf(`You are an expert academic research supervisor specializing in research methodology.

Based on the research questions provided, recommend the most suitable research methodology.

Return the answer strictly in JSON with this EXACT structure:
{
  "recommended_methodology": "string",
  "justification": "string",
  "study_design": "string",
  "data_collection_tools": {
    "qualitative_tools": ["tool1 with description", "tool2 with description"],
    "quantitative_tools": ["tool1 with description", "tool2 with description"]
  }
}

MAIN RESEARCH QUESTION:
%s

SUB-QUESTIONS:
%s

Analyze the questions and provide a comprehensive methodology recommendation:
- recommended_methodology: Type of methodology (e.g., "Mixed-Methods Approach", "Qualitative", "Quantitative")
- justification: Detailed explanation of why this methodology is appropriate for these questions
- study_design: Specific design approach (e.g., "Convergent Parallel Mixed Methods Design", "Sequential Explanatory Design")
- data_collection_tools: Object with two arrays:
  - qualitative_tools: Array of qualitative tools with detailed descriptions
  - quantitative_tools: Array of quantitative tools with detailed descriptions

Each tool should include the tool name followed by a colon and a description of how it will be used.`,
		req.MainQuestion,
		bulletList(req.SubQuestions, "  "),
	)

	return Prompt{UseCase: models.UseCaseMethodologyFromQuestions, Text: text, Structured: true}
}

// Compliance asks for legal, IP and ethics guidance on a project.
func Compliance(req models.ComplianceRequest) Prompt {
	text := fmt.Sprintf(`You are an expert in research ethics, Pakistani HEC guidelines, copyright laws, and patent regulations.

Analyze the research details and provide compliance and legal/IP guidance.

Return strictly in JSON with:
%s

RESEARCH DETAILS:
Project Title: %s
Data Sources: %s
Research Methods: %s

Provide comprehensive analysis covering:
- Intellectual property risks and concerns
- Copyright issues and protections needed
- Patentability assessment
- Ethical considerations and risks
- HEC ethics compliance requirements
- Local and international research standards
- Data privacy requirements (GDPR, local laws)
- Specific compliance recommendations`,
		keyList(models.UseCaseComplianceCheck),
		req.ProjectTitle,
		req.DataSources,
		req.Methods,
	)

	return Prompt{UseCase: models.UseCaseComplianceCheck, Text: text, Structured: true}
}

// Ask asks for a short prose answer.
func Ask(req models.AskRequest) Prompt {
	text := fmt.Sprintf(`You are a helpful AI research assistant specializing in research methodology, IP law, and compliance.

Provide a CONCISE, clear answer to the following question. Keep your response brief and to the point (2-4 paragraphs maximum).

QUESTION: %s

Your answer should be:
- Concise free text, 2-4 paragraphs
- Clear and well-structured
- Based on academic best practices
- Relevant to research methodology, IP law, or compliance
- Helpful and actionable
- Written in simple language, not overly academic`, req.Question)

	return Prompt{UseCase: models.UseCaseFreeformQuestion, Text: text}
}

// ResearchGaps asks for exactly five scored research gaps for a topic.
func ResearchGaps(req models.GapsRequest) Prompt {
	text := fmt.Sprintf(`You are an AI assistant. Analyze the following academic topic and identify exactly 5 potential research gaps.
Each gap must have an integer importance score from 1 to 100 (100 = most important).
Respond ONLY in strict JSON with the key "gaps", like this:

{
    "gaps": [
        {"statement": "Gap description 1", "score": 95},
        {"statement": "Gap description 2", "score": 87},
        {"statement": "Gap description 3", "score": 80},
        {"statement": "Gap description 4", "score": 75},
        {"statement": "Gap description 5", "score": 70}
    ]
}

Topic: "%s"`, req.Query)

	return Prompt{
		UseCase:     models.UseCaseGapDiscovery,
		Text:        text,
		Structured:  true,
		Temperature: temperature(0.3),
	}
}

// Relevance asks whether a query is an on-topic, safe research request.
func Relevance(req models.RelevanceRequest) Prompt {
	text := fmt.Sprintf(`You are an AI assistant. Analyze this user query and respond ONLY in strict JSON.
The JSON must contain three keys:
{
    "relevant": true or false,
    "safe": true or false,
    "message": "Explanation if the query is not relevant or not safe"
}

User Query: "%s"`, req.Query)

	return Prompt{
		UseCase:     models.UseCaseRelevanceCheck,
		Text:        text,
		Structured:  true,
		Temperature: temperature(0),
	}
}

// BlogInput carries the chain results as already-serialized JSON.
type BlogInput struct {
	Topic       string
	Gaps        string
	Questions   string
	Methodology string
}

// BlogPost asks for a markdown blog post written entirely in paragraphs.
func BlogPost(in BlogInput) Prompt {
	text := fmt.Sprintf(`You are an expert technical writer. Transform the following research data into a well-structured, engaging blog post.

Topic: %s

Research Gaps:
%s

Research Questions:
%s

Research Methodology:
%s

Create a comprehensive blog post with the following structure:
1. Title (catchy and relevant)
2. Introduction (engaging hook about the topic)
3. Current Research Landscape (discuss the gaps identified in flowing paragraph format)
4. Key Research Questions (write the main question and sub-questions as flowing narrative paragraphs, NOT as bullet points or lists)
5. Proposed Methodology (explain the research approach in paragraph format)
6. Potential Impact (discuss implications and future directions)
7. Conclusion (summarize key takeaways)

IMPORTANT FORMATTING RULES:
- Use markdown formatting with proper headings (# ## ###)
- Write ALL content in flowing paragraphs, NOT bullet points or numbered lists
- When presenting research questions, integrate them smoothly into narrative paragraphs
- Make it professional yet accessible
- Include relevant insights and connections between the data points
- DO NOT use bullet points or numbered lists anywhere in the blog`,
		in.Topic, in.Gaps, in.Questions, in.Methodology,
	)

	return Prompt{UseCase: models.UseCaseBlogSynthesis, Text: text}
}

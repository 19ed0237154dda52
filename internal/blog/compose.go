// Package blog composes and renders research blog posts.
package blog

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/models"
)

const dateLayout = "January 02, 2006"

// Input is everything the chain collected for one topic. Questions and
// Methodology are nil when the corresponding stage produced nothing usable.
type Input struct {
	Topic       string
	Gaps        []models.Gap
	Questions   *models.QuestionSet
	Methodology *models.QuestionsMethodology
}

// Composer builds the deterministic fallback post.
type Composer struct {
	now func() time.Time
}

func NewComposer(now func() time.Time) *Composer {
	if now == nil {
		now = time.Now
	}
	return &Composer{now: now}
}

// Compose writes a markdown post in flowing paragraphs. Sections without
// data are left out, except the introduction and conclusion.
func (c *Composer) Compose(in Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Research Blog: %s\n\n", cases.Title(language.English).String(in.Topic))
	fmt.Fprintf(&b, "*Generated on %s*\n\n", c.now().Format(dateLayout))

	b.WriteString("## Introduction\n\n")
	fmt.Fprintf(&b, "This blog explores the current state of research in %s, identifying key gaps and proposing research directions. ", in.Topic)
	b.WriteString("Through a comprehensive analysis of the research landscape, we examine critical areas requiring further investigation ")
	b.WriteString("and outline a methodological framework for advancing knowledge in this domain.\n\n")

	if len(in.Gaps) > 0 {
		writeGaps(&b, in.Topic, in.Gaps)
	}
	if in.Questions != nil {
		writeQuestions(&b, *in.Questions)
	}
	if in.Methodology != nil {
		writeMethodology(&b, *in.Methodology)
	}

	b.WriteString("## Conclusion\n\n")
	fmt.Fprintf(&b, "This research framework provides a comprehensive approach to advancing knowledge in %s. ", in.Topic)
	b.WriteString("By addressing the identified gaps through well-defined research questions and a robust methodology, ")
	b.WriteString("this work aims to contribute meaningfully to the field and open new avenues for future investigation.\n")

	return b.String()
}

func writeGaps(b *strings.Builder, topic string, gaps []models.Gap) {
	b.WriteString("## Research Gaps Identified\n\n")
	fmt.Fprintf(b, "The current research landscape in %s reveals several critical gaps that warrant attention. ", topic)
	for i, gap := range gaps {
		statement := strings.TrimSpace(gap.Statement)
		if i > 0 {
			statement = lowerFirstWord(statement)
		}
		fmt.Fprintf(b, "Notably, %s ", statement)

		reasoning := strings.TrimSuffix(strings.TrimSpace(gap.Reasoning), ".")
		if reasoning != "" {
			fmt.Fprintf(b, "This gap is significant because %s. ", lowerFirstWord(reasoning))
		}
	}
	b.WriteString("These identified gaps collectively point to the need for more comprehensive research approaches in this field.\n\n")
}

func writeQuestions(b *strings.Builder, questions models.QuestionSet) {
	b.WriteString("## Research Questions\n\n")
	fmt.Fprintf(b, "To address these research gaps, our investigation centers on the following inquiry: %s ", strings.TrimSpace(questions.MainQuestion))
	b.WriteString("This overarching question encompasses several important dimensions. ")

	if len(questions.SubQuestions) == 0 {
		b.WriteString("\n\n")
		return
	}

	b.WriteString("Specifically, we seek to understand ")
	last := len(questions.SubQuestions) - 1
	for i, q := range questions.SubQuestions {
		q = lowerFirstWord(strings.TrimSpace(q))
		switch {
		case i == 0:
			b.WriteString(q)
		case i == last:
			b.WriteString(", and " + q)
		default:
			b.WriteString(", " + q)
		}
	}
	b.WriteString(". These interconnected questions form the foundation of our research framework and guide our methodological approach.\n\n")
}

func writeMethodology(b *strings.Builder, m models.QuestionsMethodology) {
	b.WriteString("## Research Methodology\n\n")

	method := strings.TrimSpace(m.RecommendedMethodology)
	if method == "" && m.Justification == "" && m.StudyDesign == "" {
		b.WriteString("A comprehensive research methodology will be employed to address the identified questions and gaps.\n\n")
		return
	}
	if method == "" {
		method = "comprehensive research approach"
	}

	fmt.Fprintf(b, "Our research employs a %s to address the identified questions and gaps. ", method)
	if justification := strings.TrimSpace(m.Justification); justification != "" {
		b.WriteString(justification + " ")
	}
	if design := strings.TrimSpace(m.StudyDesign); design != "" {
		b.WriteString(design + " ")
	}
	b.WriteString("This methodological framework ensures rigor and validity in our investigation.\n\n")
}

// lowerFirstWord lower-cases the first word when it starts with an upper
// case letter. Acronyms such as "AI" are lowered too.
func lowerFirstWord(s string) string {
	r, _ := utf8.DecodeRuneInString(s)
	if !unicode.IsUpper(r) {
		return s
	}
	end := strings.IndexFunc(s, unicode.IsSpace)
	if end < 0 {
		return strings.ToLower(s)
	}
	return strings.ToLower(s[:end]) + s[end:]
}

// Package validator checks decoded JSON payloads before they are turned into
// typed use-case requests.
package validator

import (
	"fmt"
	"strings"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/apperror"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/models"
)

type fieldKind int

const (
	stringField fieldKind = iota
	listField
)

type field struct {
	name   string
	kind   fieldKind
	minLen int
}

var rules = map[models.UseCase][]field{
	models.UseCaseMethodologyFromGap: {
		{name: "research_gap", kind: stringField},
		{name: "research_questions", kind: listField},
	},
	models.UseCaseComplianceCheck: {
		{name: "project_title", kind: stringField},
		{name: "data_sources", kind: stringField},
		{name: "methods", kind: stringField},
	},
	models.UseCaseFreeformQuestion: {
		{name: "question", kind: stringField, minLen: 3},
	},
	models.UseCaseMethodologyFromQuestions: {
		{name: "main_question", kind: stringField},
		{name: "sub_questions", kind: listField},
	},
	models.UseCaseGapDiscovery: {
		{name: "query", kind: stringField},
	},
	models.UseCaseRelevanceCheck: {
		{name: "query", kind: stringField},
	},
	models.UseCaseBlogSynthesis: {
		{name: "topic", kind: stringField},
	},
	models.UseCaseBlogContentUpdate: {
		{name: "content", kind: stringField},
	},
}

// Validate returns nil when payload satisfies the rules for useCase, or a
// validation error naming the first offending field.
func Validate(useCase models.UseCase, payload interface{}) error {
	fields, ok := rules[useCase]
	if !ok {
		return fmt.Errorf("no validation rules for use case %q", useCase)
	}

	data, ok := payload.(map[string]interface{})
	if !ok {
		return apperror.Validation("Input must be a JSON object")
	}

	for _, f := range fields {
		if _, present := data[f.name]; !present {
			return apperror.Validation("Missing required field: " + f.name)
		}
	}

	for _, f := range fields {
		var msg string
		switch f.kind {
		case stringField:
			msg = checkString(f, data[f.name])
		case listField:
			msg = checkList(f.name, data[f.name])
		}
		if msg != "" {
			return apperror.Validation(msg)
		}
	}

	return nil
}

func checkString(f field, value interface{}) string {
	s, ok := value.(string)
	if !ok {
		return f.name + " must be a string"
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return f.name + " cannot be empty"
	}
	if f.minLen > 0 && len([]rune(trimmed)) < f.minLen {
		return fmt.Sprintf("%s must be at least %d characters long", f.name, f.minLen)
	}
	return ""
}

func checkList(name string, value interface{}) string {
	items, ok := value.([]interface{})
	if !ok {
		return name + " must be an array"
	}
	if len(items) == 0 {
		return name + " cannot be empty"
	}
	for i, item := range items {
		s, ok := item.(string)
		if !ok {
			return fmt.Sprintf("%s[%d] must be a string", name, i)
		}
		if strings.TrimSpace(s) == "" {
			return fmt.Sprintf("%s[%d] cannot be empty", name, i)
		}
	}
	return ""
}

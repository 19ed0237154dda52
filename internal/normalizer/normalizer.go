// Package normalizer turns raw generative-model text into either validated
// JSON or cleaned prose.
package normalizer

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

const snippetLength = 200

var (
	fenceOpener = regexp.MustCompile("^```[A-Za-z0-9_+\\-]*[ \t]*(\r?\n|$)")
	fenceCloser = regexp.MustCompile("```$")
)

// Result is the normalized output of one model call. Data is set only when
// structured output was requested and parsed.
type Result struct {
	Text string
	Data json.RawMessage
}

// Structured reports whether the result carries parsed JSON.
func (r Result) Structured() bool {
	return r.Data != nil
}

// Decode unmarshals the structured payload into v.
func (r Result) Decode(v interface{}) error {
	if r.Data == nil {
		return fmt.Errorf("result is not structured")
	}
	return json.Unmarshal(r.Data, v)
}

// InvalidOutputError is returned when structured output was requested but
// the model text is not JSON.
type InvalidOutputError struct {
	Snippet string
}

func (e *InvalidOutputError) Error() string {
	return fmt.Sprintf("model did not return valid JSON: %q", e.Snippet)
}

// Normalize strips code fences and, for structured output, validates the
// remaining text as a single JSON value.
func Normalize(raw string, structured bool) (Result, error) {
	text := StripFences(raw)

	if !structured {
		return Result{Text: stripQuotes(text)}, nil
	}

	if json.Valid([]byte(text)) {
		return Result{Text: text, Data: json.RawMessage(text)}, nil
	}

	if unquoted := stripQuotes(text); unquoted != text && json.Valid([]byte(unquoted)) {
		return Result{Text: unquoted, Data: json.RawMessage(unquoted)}, nil
	}

	return Result{}, &InvalidOutputError{Snippet: snippet(text)}
}

// StripFences removes one leading ``` opener and one trailing ``` closer,
// trimming whitespace around both. A language tag is only recognized when it
// ends the opener's line; an inline fence loses just its backticks.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if loc := fenceOpener.FindStringIndex(text); loc != nil {
		text = text[loc[1]:]
	} else {
		text = strings.TrimPrefix(text, "```")
	}
	text = strings.TrimSpace(text)
	text = fenceCloser.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}

func stripQuotes(text string) string {
	if len(text) >= 2 && strings.HasPrefix(text, `"`) && strings.HasSuffix(text, `"`) {
		return strings.TrimSpace(text[1 : len(text)-1])
	}
	return text
}

func snippet(text string) string {
	if utf8.RuneCountInString(text) <= snippetLength {
		return text
	}
	return string([]rune(text)[:snippetLength])
}

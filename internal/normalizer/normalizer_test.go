package normalizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize_FencedJSON(t *testing.T) {
	res, err := Normalize("```json\n{\"a\":1}\n```", true)
	require.NoError(t, err)
	assert.True(t, res.Structured())
	assert.JSONEq(t, `{"a":1}`, string(res.Data))

	var v map[string]int
	require.NoError(t, res.Decode(&v))
	assert.Equal(t, 1, v["a"])
}

func TestNormalize_FencedEqualsUnfenced(t *testing.T) {
	payloads := []string{
		`{"gaps":[{"statement":"x","score":90}]}`,
		`[1,2,3]`,
		`"plain string"`,
		`42`,
		`true`,
		`null`,
	}
	wrappers := []func(string) string{
		func(s string) string { return "```json\n" + s + "\n```" },
		func(s string) string { return "```\n" + s + "\n```" },
		func(s string) string { return "  ```JSON\n" + s + "```  " },
		func(s string) string { return "\n\n" + s + "\n" },
		func(s string) string { return "```" + s + "```" },
	}

	for _, p := range payloads {
		plain, err := Normalize(p, true)
		require.NoError(t, err, p)
		for i, wrap := range wrappers {
			fenced, err := Normalize(wrap(p), true)
			require.NoError(t, err, "payload %s wrapper %d", p, i)
			assert.Equal(t, plain, fenced, "payload %s wrapper %d", p, i)
		}
	}
}

func TestNormalize_InvalidStructured(t *testing.T) {
	_, err := Normalize("not json", true)
	require.Error(t, err)

	var invalid *InvalidOutputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "not json", invalid.Snippet)
}

func TestNormalize_InvalidSnippetIsTruncated(t *testing.T) {
	long := "{" + strings.Repeat("x", 500)
	_, err := Normalize(long, true)

	var invalid *InvalidOutputError
	require.ErrorAs(t, err, &invalid)
	assert.Len(t, invalid.Snippet, 200)
}

func TestNormalize_TruncatedJSONFails(t *testing.T) {
	_, err := Normalize("```json\n{\"gaps\": [{\"statement\": \"a\"", true)
	assert.Error(t, err)
}

func TestNormalize_QuoteWrappedJSON(t *testing.T) {
	res, err := Normalize(`"{"relevant": true, "safe": true, "message": ""}"`, true)
	require.NoError(t, err)
	assert.JSONEq(t, `{"relevant": true, "safe": true, "message": ""}`, string(res.Data))
}

func TestNormalize_FreeText(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain", "  Grounded theory is a method.  ", "Grounded theory is a method."},
		{"fenced", "```markdown\n# Title\n\nBody\n```", "# Title\n\nBody"},
		{"quoted", `"An answer in quotes"`, "An answer in quotes"},
		{"empty", "   ", ""},
		{"fence only", "```\n```", ""},
		{"inline fence", "```Grounded theory builds theory from data```", "Grounded theory builds theory from data"},
		{"not json is fine", "not json", "not json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Normalize(tt.raw, false)
			require.NoError(t, err)
			assert.False(t, res.Structured())
			assert.Equal(t, tt.want, res.Text)
		})
	}
}

func TestDecode_Unstructured(t *testing.T) {
	res, err := Normalize("text", false)
	require.NoError(t, err)
	var v interface{}
	assert.Error(t, res.Decode(&v))
}

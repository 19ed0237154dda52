package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONText_RoundTrip(t *testing.T) {
	text, err := NewJSONText(map[string]interface{}{"gaps": []int{1, 2}})
	require.NoError(t, err)

	value, err := text.Value()
	require.NoError(t, err)

	var scanned JSONText
	require.NoError(t, scanned.Scan(value))
	assert.JSONEq(t, `{"gaps":[1,2]}`, string(scanned))

	var fromBytes JSONText
	require.NoError(t, fromBytes.Scan([]byte(`[1]`)))
	assert.Equal(t, JSONText(`[1]`), fromBytes)

	assert.Error(t, scanned.Scan(42))
}

func TestJSONText_EmptyMarshalsAsObject(t *testing.T) {
	blog := Blog{Topic: "t", Content: "c"}
	data, err := json.Marshal(blog)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, map[string]interface{}{}, decoded["methodology"])
}

func TestNewJSONText_Nil(t *testing.T) {
	text, err := NewJSONText(nil)
	require.NoError(t, err)
	assert.Equal(t, JSONText("{}"), text)
}

func TestBlog_Validate(t *testing.T) {
	blog := &Blog{
		Topic:             "topic",
		Content:           "# Post",
		ResearchGaps:      JSONText(`{"gaps":[]}`),
		ResearchQuestions: JSONText(`{"data":{}}`),
	}
	require.NoError(t, blog.Validate())
	assert.Equal(t, JSONText("{}"), blog.Methodology)

	assert.Error(t, (&Blog{Content: "x"}).Validate())
	assert.Error(t, (&Blog{Topic: "x"}).Validate())
	assert.Error(t, (&Blog{Topic: "x", Content: "y"}).Validate())
}

func TestRelevanceVerdict_Accepted(t *testing.T) {
	assert.True(t, RelevanceVerdict{Relevant: true, Safe: true}.Accepted())
	assert.False(t, RelevanceVerdict{Relevant: true}.Accepted())
	assert.False(t, RelevanceVerdict{Safe: true}.Accepted())
}

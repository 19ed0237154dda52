//go:build integration

package gemini

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/models"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/prompts"
)

func TestIntegration_RealAPI(t *testing.T) {
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		t.Skip("GEMINI_API_KEY required for integration tests")
	}

	baseURL := os.Getenv("GEMINI_BASE_URL")
	if baseURL == "" {
		baseURL = "https://generativelanguage.googleapis.com/v1beta"
	}
	model := os.Getenv("GEMINI_MODEL")
	if model == "" {
		model = "gemini-2.5-flash"
	}

	client := NewClient(baseURL, apiKey, model, 60*time.Second, logrus.New())

	available, err := client.ListModels(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, available)

	prompt := prompts.ResearchGaps(models.GapsRequest{Query: "data engineering in healthcare"})
	result, err := client.Generate(context.Background(), RequestFor(prompt))
	require.NoError(t, err)

	var gaps models.GapsResponse
	require.NoError(t, result.Decode(&gaps))
	assert.NotEmpty(t, gaps.Gaps)
}

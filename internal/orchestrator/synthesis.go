package orchestrator

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/thesaherriaz/SPM-Groups-Project/internal/blog"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/gemini"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/normalizer"
	"github.com/thesaherriaz/SPM-Groups-Project/internal/prompts"
)

// TextGenerator is the generative API as used for synthesis.
type TextGenerator interface {
	Generate(ctx context.Context, req gemini.Request) (normalizer.Result, error)
}

// GeminiSynthesizer asks the model for the post and falls back to the
// deterministic composer on any failure or empty answer.
type GeminiSynthesizer struct {
	generator TextGenerator
	composer  *blog.Composer
	timeout   time.Duration
	logger    *logrus.Logger
}

func NewGeminiSynthesizer(generator TextGenerator, composer *blog.Composer, timeout time.Duration, logger *logrus.Logger) *GeminiSynthesizer {
	return &GeminiSynthesizer{
		generator: generator,
		composer:  composer,
		timeout:   timeout,
		logger:    logger,
	}
}

func (s *GeminiSynthesizer) Synthesize(ctx context.Context, in SynthesisInput) Synthesis {
	prompt := prompts.BlogPost(prompts.BlogInput{
		Topic:       in.Blog.Topic,
		Gaps:        indentJSON(in.GapsRaw),
		Questions:   indentJSON(in.QuestionsRaw),
		Methodology: indentJSON(in.MethodologyRaw),
	})

	req := gemini.RequestFor(prompt)
	req.Timeout = s.timeout

	result, err := s.generator.Generate(ctx, req)
	switch {
	case gemini.IsNotConfigured(err):
		s.logger.Info("No generative API key configured, composing blog locally")
	case err != nil:
		s.logger.WithError(err).Warn("Blog synthesis failed, composing blog locally")
	case strings.TrimSpace(result.Text) == "":
		s.logger.Warn("Blog synthesis returned no text, composing blog locally")
	default:
		return Synthesis{Content: result.Text}
	}

	return Synthesis{Content: s.composer.Compose(in.Blog), Fallback: true}
}

func indentJSON(raw json.RawMessage) string {
	return strings.TrimSpace(string(indentBytes(raw)))
}

package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog/log"
	"github.com/tmarlen/linguabot/config"
	"github.com/tmarlen/linguabot/internal/catalog"
	"google.golang.org/api/option"
)

// ErrSummarizerDisabled is returned when no Gemini API key is configured.
var ErrSummarizerDisabled = errors.New("summarizer not configured")

// OpenAnswerSummarizer condenses a question's free-text answers into a short
// digest for administrators reviewing a wave.
type OpenAnswerSummarizer interface {
	SummarizeOpenAnswers(ctx context.Context, questionCode string, answers []string) (string, error)
}

type geminiSummarizer struct {
	model *genai.GenerativeModel
}

// NewOpenAnswerSummarizer builds the Gemini-backed summarizer. Without an API
// key it returns a disabled instance whose calls fail with
// ErrSummarizerDisabled instead of blocking startup.
func NewOpenAnswerSummarizer(cfg *config.Config) (OpenAnswerSummarizer, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Open answer summaries will be unavailable.")
		return &geminiSummarizer{}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiSummarizer{model: client.GenerativeModel("gemini-1.5-flash")}, nil
}

func (s *geminiSummarizer) SummarizeOpenAnswers(ctx context.Context, questionCode string, answers []string) (string, error) {
	if s.model == nil {
		return "", ErrSummarizerDisabled
	}
	if len(answers) == 0 {
		return "Нет открытых ответов для этого вопроса.", nil
	}

	var prompt strings.Builder
	prompt.WriteString("Ниже - анонимные свободные ответы школьников на вопрос опроса о буллинге: «")
	prompt.WriteString(catalog.QuestionTitle(questionCode))
	prompt.WriteString("».\nСформулируй краткую сводку основных тем в 3-5 пунктах, на русском языке, без цитирования конкретных ответов.\n\n")
	for _, answer := range answers {
		prompt.WriteString("- ")
		prompt.WriteString(answer)
		prompt.WriteString("\n")
	}

	resp, err := s.model.GenerateContent(ctx, genai.Text(prompt.String()))
	if err != nil {
		log.Error().Err(err).Str("question", questionCode).Msg("Gemini summary request failed")
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("gemini returned no content")
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}
	summary := strings.TrimSpace(out.String())
	if summary == "" {
		return "", errors.New("gemini returned empty summary")
	}
	return summary, nil
}

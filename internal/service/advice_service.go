package service

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/prepforge/certprep/config"
	"github.com/prepforge/certprep/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// AdviceService turns a finished attempt's weakest domains into short study
// guidance. Display-only content; scoring never depends on it.
type AdviceService interface {
	StudyAdvice(ctx context.Context, attempt *model.Attempt) (string, error)
}

type adviceService struct {
	client *genai.GenerativeModel
	cfg    *config.Config
}

func NewAdviceService(cfg *config.Config) (AdviceService, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. AdviceService will be non-functional.")
		return &adviceService{cfg: cfg, client: nil}, nil
	}
	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	model := client.GenerativeModel("gemini-1.5-flash")
	return &adviceService{client: model, cfg: cfg}, nil
}

func (s *adviceService) StudyAdvice(ctx context.Context, attempt *model.Attempt) (string, error) {
	if s.client == nil {
		return "", ErrAdviceUnavailable
	}
	if !attempt.Finished() {
		return "", ErrAttemptNotFinished
	}

	prompt := buildAdvicePrompt(attempt)
	resp, err := s.client.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		log.Error().Err(err).Str("attemptID", attempt.ID).Msg("StudyAdvice: Gemini call failed")
		return "", fmt.Errorf("generating study advice: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("generating study advice: empty response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

// buildAdvicePrompt describes the attempt's three weakest domains, together
// with the domain tips captured in the snapshot, for the model to work from.
func buildAdvicePrompt(attempt *model.Attempt) string {
	type domainScore struct {
		name   string
		result model.DomainResult
	}
	ranked := make([]domainScore, 0, len(attempt.PerDomain))
	for name, result := range attempt.PerDomain {
		ranked = append(ranked, domainScore{name: name, result: result})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].result.Score != ranked[j].result.Score {
			return ranked[i].result.Score < ranked[j].result.Score
		}
		return ranked[i].name < ranked[j].name
	})
	if len(ranked) > 3 {
		ranked = ranked[:3]
	}

	tips := make(map[string]string)
	for _, q := range attempt.Questions {
		if q.DomainTip != "" && tips[q.Domain] == "" {
			tips[q.Domain] = q.DomainTip
		}
	}

	var sb strings.Builder
	sb.WriteString("You are a study coach for certification practice exams.\n")
	fmt.Fprintf(&sb, "A learner just finished a practice attempt for exam %q", attempt.ExamCode)
	if attempt.Score != nil {
		fmt.Fprintf(&sb, " with an overall score of %d%%", *attempt.Score)
	}
	sb.WriteString(".\nTheir weakest topic areas were:\n")
	for _, d := range ranked {
		fmt.Fprintf(&sb, "- %s: %d of %d correct (%d%%)\n", d.name, d.result.Correct, d.result.Total, d.result.Score)
		if tip := tips[d.name]; tip != "" {
			fmt.Fprintf(&sb, "  Topic note: %s\n", tip)
		}
	}
	sb.WriteString("Write at most 150 words of concrete, encouraging study advice focused on these areas. Plain text, no headings.")
	return sb.String()
}

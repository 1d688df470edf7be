package services

import (
	"context"
	"strings"
	"time"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
	"github.com/ewilliams-labs/moodlist/internal/core/ports"
	"github.com/ewilliams-labs/moodlist/internal/logging"
	"github.com/ewilliams-labs/moodlist/internal/metrics"
)

// CandidateGenerator asks the model for song suggestions matching a mood.
type CandidateGenerator struct {
	llm     ports.TextGenerator
	timeout time.Duration
}

func NewCandidateGenerator(llm ports.TextGenerator, callTimeout time.Duration) *CandidateGenerator {
	return &CandidateGenerator{llm: llm, timeout: callTimeout}
}

// Generate returns at most count candidates in model order. Malformed entries
// are dropped, so the result may be shorter than count or empty.
func (g *CandidateGenerator) Generate(ctx context.Context, description string, attrs domain.MoodAttributes, count int) (cands []domain.SongCandidate, err error) {
	if count < 1 {
		return nil, &domain.ValidationError{Fields: []string{"count"}, Message: "candidate count must be at least 1"}
	}
	start := time.Now()
	defer func() { metrics.ObserveStage(StageCandidates, start, err) }()

	prompt, err := render(songsPrompt, promptData{
		Description: strings.TrimSpace(description),
		Mood:        attrs.Mood,
		Genres:      strings.Join(attrs.Genres, ", "),
		Keywords:    strings.Join(attrs.Keywords, ", "),
		Count:       count,
	})
	if err != nil {
		return nil, &domain.CandidateGenerationError{Err: err}
	}

	raw, err := generate(ctx, g.llm, g.timeout, prompt)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("stage", StageCandidates).Msg("generative call failed")
		return nil, &domain.CandidateGenerationError{Err: err}
	}

	cands = parseCandidates(raw)
	if len(cands) > count {
		cands = cands[:count]
	}
	logging.Ctx(ctx).Debug().Int("requested", count).Int("parsed", len(cands)).Msg("song candidates generated")
	return cands, nil
}

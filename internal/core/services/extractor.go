package services

import (
	"context"
	"strings"
	"text/template"
	"time"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
	"github.com/ewilliams-labs/moodlist/internal/core/ports"
	"github.com/ewilliams-labs/moodlist/internal/logging"
	"github.com/ewilliams-labs/moodlist/internal/metrics"
)

const (
	StageMood        = "mood"
	StageGenres      = "genres"
	StageKeywords    = "keywords"
	StageEnergy      = "energy"
	StageValence     = "valence"
	StageExplanation = "explanation"
	StageCandidates  = "candidates"
)

// AttributeExtractor turns a mood description into MoodAttributes through six
// sequential generative calls. Every stage after the first is conditioned on
// the mood label.
type AttributeExtractor struct {
	llm     ports.TextGenerator
	timeout time.Duration
}

func NewAttributeExtractor(llm ports.TextGenerator, callTimeout time.Duration) *AttributeExtractor {
	return &AttributeExtractor{llm: llm, timeout: callTimeout}
}

func (e *AttributeExtractor) Extract(ctx context.Context, description string) (domain.MoodAttributes, error) {
	attrs := domain.MoodAttributes{Description: strings.TrimSpace(description)}
	log := logging.Ctx(ctx)

	raw, err := e.call(ctx, StageMood, moodPrompt, promptData{Description: attrs.Description})
	if err != nil {
		return domain.MoodAttributes{}, err
	}
	if attrs.Mood, err = parseLabel(StageMood, raw); err != nil {
		return domain.MoodAttributes{}, err
	}
	moodOnly := promptData{Mood: attrs.Mood}

	if raw, err = e.call(ctx, StageGenres, genrePrompt, moodOnly); err != nil {
		return domain.MoodAttributes{}, err
	}
	if attrs.Genres, err = parseList(StageGenres, raw); err != nil {
		return domain.MoodAttributes{}, err
	}

	if raw, err = e.call(ctx, StageKeywords, keywordPrompt, moodOnly); err != nil {
		return domain.MoodAttributes{}, err
	}
	if attrs.Keywords, err = parseList(StageKeywords, raw); err != nil {
		return domain.MoodAttributes{}, err
	}

	for _, s := range []struct {
		stage  string
		prompt *template.Template
		dst    *float64
	}{
		{StageEnergy, energyPrompt, &attrs.Energy},
		{StageValence, valencePrompt, &attrs.Valence},
	} {
		if raw, err = e.call(ctx, s.stage, s.prompt, moodOnly); err != nil {
			return domain.MoodAttributes{}, err
		}
		v, clamped, err := parseUnitScalar(s.stage, raw)
		if err != nil {
			return domain.MoodAttributes{}, err
		}
		if clamped {
			log.Warn().Str("stage", s.stage).Str("raw", strings.TrimSpace(raw)).Float64("value", v).
				Msg("model value outside [0, 1], clamped")
		}
		*s.dst = v
	}

	raw, err = e.call(ctx, StageExplanation, explanationPrompt, promptData{
		Mood:     attrs.Mood,
		Genres:   strings.Join(attrs.Genres, ", "),
		Keywords: strings.Join(attrs.Keywords, ", "),
	})
	if err != nil {
		return domain.MoodAttributes{}, err
	}
	attrs.Explanation = strings.TrimSpace(raw)

	log.Debug().
		Str("mood", attrs.Mood).
		Strs("genres", attrs.Genres).
		Strs("keywords", attrs.Keywords).
		Float64("energy", attrs.Energy).
		Float64("valence", attrs.Valence).
		Msg("mood attributes extracted")
	return attrs, nil
}

func (e *AttributeExtractor) call(ctx context.Context, stage string, t *template.Template, data promptData) (out string, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStage(stage, start, err) }()

	prompt, err := render(t, data)
	if err != nil {
		return "", stageError(stage, err)
	}
	out, err = generate(ctx, e.llm, e.timeout, prompt)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Str("stage", stage).Msg("generative call failed")
		return "", stageError(stage, err)
	}
	return out, nil
}

// generate bounds one generative call by timeout when it is positive.
func generate(ctx context.Context, llm ports.TextGenerator, timeout time.Duration, prompt string) (string, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return llm.Generate(ctx, prompt)
}

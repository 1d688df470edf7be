package services

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
)

var (
	errEmptyOutput = errors.New("empty model output")
	errNotFinite   = errors.New("value is not finite")
)

// parseLabel trims a single-word answer. Surrounding quotes and a trailing period are dropped.
func parseLabel(stage, raw string) (string, error) {
	label := strings.TrimSuffix(trimQuotes(strings.TrimSpace(raw)), ".")
	label = strings.TrimSpace(label)
	if label == "" {
		return "", &domain.AttributeParseError{Stage: stage, Raw: raw, Err: errEmptyOutput}
	}
	return label, nil
}

// parseList splits a comma-separated answer and trims each element. Empty
// elements are dropped; an answer with no elements is a parse error.
func parseList(stage, raw string) ([]string, error) {
	parts := strings.Split(trimQuotes(strings.TrimSpace(raw)), ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	if len(out) == 0 {
		return nil, &domain.AttributeParseError{Stage: stage, Raw: raw, Err: errEmptyOutput}
	}
	return out, nil
}

// parseUnitScalar reads a float in [0, 1]. Finite values outside the range are
// clamped and reported through clamped.
func parseUnitScalar(stage, raw string) (value float64, clamped bool, err error) {
	s := strings.TrimSpace(trimQuotes(strings.TrimSpace(raw)))
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, &domain.AttributeParseError{Stage: stage, Raw: raw, Err: err}
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false, &domain.AttributeParseError{Stage: stage, Raw: raw, Err: errNotFinite}
	}
	if v < 0 {
		return 0, true, nil
	}
	if v > 1 {
		return 1, true, nil
	}
	return v, false, nil
}

// parseCandidates reads a "Title by Artist, Title by Artist" answer. Segments
// without the " by " delimiter or with an empty side are dropped.
func parseCandidates(raw string) []domain.SongCandidate {
	segments := strings.Split(trimQuotes(strings.TrimSpace(raw)), ",")
	out := make([]domain.SongCandidate, 0, len(segments))
	for _, seg := range segments {
		seg = strings.TrimSpace(seg)
		title, artist, ok := strings.Cut(seg, " by ")
		if !ok {
			continue
		}
		title = strings.TrimSpace(trimQuotes(strings.TrimSpace(title)))
		artist = strings.TrimSpace(trimQuotes(strings.TrimSpace(artist)))
		if title == "" || artist == "" {
			continue
		}
		out = append(out, domain.SongCandidate{Title: title, Artist: artist})
	}
	return out
}

func trimQuotes(s string) string {
	if len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' || first == '\'') && first == last {
			return s[1 : len(s)-1]
		}
	}
	return s
}

func stageError(stage string, err error) error {
	return &domain.AttributeExtractionError{Stage: stage, Err: fmt.Errorf("generate: %w", err)}
}

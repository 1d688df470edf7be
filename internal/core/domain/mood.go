package domain

// MoodAttributes is the structured interpretation of a free-text mood description.
// It is built once per pipeline invocation and never mutated afterwards.
type MoodAttributes struct {
	Description string   `json:"description"`
	Mood        string   `json:"mood"`
	Genres      []string `json:"genres"`
	Keywords    []string `json:"keywords"`
	Energy      float64  `json:"energy"`
	Valence     float64  `json:"valence"`
	Explanation string   `json:"explanation"`
}

// RecommendationResult is the externally observable output of the mood pipeline.
type RecommendationResult struct {
	DetectedMood string          `json:"detectedMood"`
	Explanation  string          `json:"explanation"`
	Tracks       []ResolvedTrack `json:"tracks"`
}

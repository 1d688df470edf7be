package rest

import (
	"net/http"
)

const missingMoodFields = "Missing mood description or access token"

type moodSuggestionsRequest struct {
	MoodDescription string `json:"moodDescription" validate:"required,max=2000"`
	AccessToken     string `json:"accessToken" validate:"required"`
}

// MoodSuggestions handles POST /mood-suggestions
func (h *Handler) MoodSuggestions(w http.ResponseWriter, r *http.Request) {
	var req moodSuggestionsRequest
	if err := h.decodeAndValidate(w, r, &req, missingMoodFields); err != nil {
		writeError(w, r, err)
		return
	}

	result, err := h.svc.GetMoodSuggestions(r.Context(), req.MoodDescription, req.AccessToken)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

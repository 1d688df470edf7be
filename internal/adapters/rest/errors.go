package rest

import (
	"errors"
	"net/http"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
	"github.com/ewilliams-labs/moodlist/internal/logging"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// statusFor maps a core error to its HTTP status and machine-readable code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, "validation_error"
	case errors.Is(err, domain.ErrCatalogAuth):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, domain.ErrAttributeParse):
		return http.StatusInternalServerError, "attribute_parse_error"
	case errors.Is(err, domain.ErrAttributeExtraction):
		return http.StatusInternalServerError, "attribute_extraction_error"
	case errors.Is(err, domain.ErrCandidateGeneration):
		return http.StatusInternalServerError, "candidate_generation_error"
	case errors.Is(err, domain.ErrPlaylistCreation):
		return http.StatusInternalServerError, "playlist_creation_error"
	default:
		return http.StatusInternalServerError, "internal_error"
	}
}

// writeError reports err with its message verbatim.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	ev := logging.Ctx(r.Context()).Warn()
	if status >= http.StatusInternalServerError {
		ev = logging.Ctx(r.Context()).Error()
	}
	ev.Err(err).Int("status", status).Str("code", code).Msg("request failed")
	writeJSON(w, status, errorResponse{Error: err.Error(), Code: code})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.Warn().Err(err).Msg("failed to encode response")
	}
}

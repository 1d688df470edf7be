package rest

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
)

const (
	missingPlaylistFields = "Missing required parameters"
	maxExportsLimit       = 200
)

type createPlaylistRequest struct {
	AccessToken string   `json:"accessToken" validate:"required"`
	TrackURIs   []string `json:"trackUris" validate:"required,min=1,max=10000,dive,required"`
	Name        string   `json:"name" validate:"required,max=100"`
	Description string   `json:"description" validate:"max=300"`
}

type createPlaylistResponse struct {
	Success     bool   `json:"success"`
	PlaylistID  string `json:"playlistId"`
	PlaylistURL string `json:"playlistUrl"`
}

// CreatePlaylist handles POST /create-playlist
func (h *Handler) CreatePlaylist(w http.ResponseWriter, r *http.Request) {
	var req createPlaylistRequest
	if err := h.decodeAndValidate(w, r, &req, missingPlaylistFields); err != nil {
		writeError(w, r, err)
		return
	}

	ref, err := h.svc.CreatePlaylist(r.Context(), req.AccessToken, req.TrackURIs, req.Name, req.Description)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, createPlaylistResponse{
		Success:     true,
		PlaylistID:  ref.ID,
		PlaylistURL: ref.URL,
	})
}

// ListPlaylistExports handles GET /playlists/exports
func (h *Handler) ListPlaylistExports(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxExportsLimit {
			writeError(w, r, &domain.ValidationError{
				Fields:  []string{"limit"},
				Message: "limit must be between 1 and " + strconv.Itoa(maxExportsLimit),
			})
			return
		}
		limit = n
	}

	exports, err := h.svc.ListPlaylistExports(r.Context(), token, limit)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"exports": exports})
}

func bearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

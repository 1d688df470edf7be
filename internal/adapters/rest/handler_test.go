package rest

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
)

// --- Mocks ---

type fakeService struct {
	result   domain.RecommendationResult
	ref      domain.PlaylistRef
	exports  []domain.PlaylistExport
	err      error
	calls    int
	gotMood  string
	gotToken string
	gotURIs  []string
	gotName  string
	gotDesc  string
	gotLimit int
}

func (f *fakeService) GetMoodSuggestions(ctx context.Context, mood, token string) (domain.RecommendationResult, error) {
	f.calls++
	f.gotMood, f.gotToken = mood, token
	return f.result, f.err
}

func (f *fakeService) CreatePlaylist(ctx context.Context, token string, uris []string, name, desc string) (domain.PlaylistRef, error) {
	f.calls++
	f.gotToken, f.gotURIs, f.gotName, f.gotDesc = token, uris, name, desc
	return f.ref, f.err
}

func (f *fakeService) ListPlaylistExports(ctx context.Context, token string, limit int) ([]domain.PlaylistExport, error) {
	f.calls++
	f.gotToken, f.gotLimit = token, limit
	return f.exports, f.err
}

func newTestHandler(svc Service) *Handler {
	return NewHandler(svc, MiddlewareConfig{
		CORSAllowedOrigins: []string{"http://127.0.0.1:5173"},
		RateLimitDisabled:  true,
	})
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error body %q: %v", rec.Body.String(), err)
	}
	return resp
}

// --- Tests ---

func TestMoodSuggestions_Success(t *testing.T) {
	art := "https://img/64.jpg"
	svc := &fakeService{result: domain.RecommendationResult{
		DetectedMood: "melancholic",
		Explanation:  "Slow and reflective.",
		Tracks: []domain.ResolvedTrack{
			{Title: "Holocene", Artist: "Bon Iver", URI: "spotify:track:1", AlbumArtURL: &art},
			{Title: "Untitled", Artist: "Nobody", URI: "spotify:track:2"},
		},
	}}
	h := newTestHandler(svc)

	rec := do(t, h, http.MethodPost, "/mood-suggestions", map[string]string{
		"moodDescription": "rainy sunday",
		"accessToken":     "tok",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotMood != "rainy sunday" || svc.gotToken != "tok" {
		t.Errorf("service got mood=%q token=%q", svc.gotMood, svc.gotToken)
	}

	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["detectedMood"] != "melancholic" {
		t.Errorf("detectedMood = %v", body["detectedMood"])
	}
	tracks, ok := body["tracks"].([]any)
	if !ok || len(tracks) != 2 {
		t.Fatalf("expected 2 tracks, got %v", body["tracks"])
	}
	first := tracks[0].(map[string]any)
	if first["albumURL"] != art {
		t.Errorf("albumURL = %v", first["albumURL"])
	}
	second := tracks[1].(map[string]any)
	if v, present := second["albumURL"]; !present || v != nil {
		t.Errorf("expected explicit null albumURL, got %v (present=%v)", v, present)
	}
	if rec.Header().Get("X-Request-Id") == "" {
		t.Error("expected X-Request-Id response header")
	}
}

func TestMoodSuggestions_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"missing token", map[string]string{"moodDescription": "happy"}},
		{"missing mood", map[string]string{"accessToken": "tok"}},
		{"empty strings", map[string]string{"moodDescription": "", "accessToken": ""}},
		{"empty body", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			rec := do(t, newTestHandler(svc), http.MethodPost, "/mood-suggestions", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if got := decodeError(t, rec).Error; got != missingMoodFields {
				t.Errorf("error = %q", got)
			}
			if svc.calls != 0 {
				t.Errorf("service should not be called, got %d calls", svc.calls)
			}
		})
	}
}

func TestMoodSuggestions_MalformedJSON(t *testing.T) {
	svc := &fakeService{}
	rec := do(t, newTestHandler(svc), http.MethodPost, "/mood-suggestions", "{not json")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Error("service should not be called")
	}
}

func TestMoodSuggestions_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "auth",
			err:        &domain.CatalogAuthError{Err: errors.New("401")},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "unauthorized",
			wantMsg:    "Invalid or expired Spotify token. Please log in again.",
		},
		{
			name:       "parse",
			err:        &domain.AttributeParseError{Stage: "energy", Raw: "high"},
			wantStatus: http.StatusInternalServerError,
			wantCode:   "attribute_parse_error",
			wantMsg:    `attribute parse: energy stage: cannot parse "high"`,
		},
		{
			name:       "generic",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "internal_error",
			wantMsg:    "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{err: tt.err}
			rec := do(t, newTestHandler(svc), http.MethodPost, "/mood-suggestions", map[string]string{
				"moodDescription": "calm",
				"accessToken":     "tok",
			})

			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			resp := decodeError(t, rec)
			if resp.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", resp.Code, tt.wantCode)
			}
			if resp.Error != tt.wantMsg {
				t.Errorf("error = %q, want %q", resp.Error, tt.wantMsg)
			}
		})
	}
}

func TestCreatePlaylist_Success(t *testing.T) {
	svc := &fakeService{ref: domain.PlaylistRef{ID: "pl-1", URL: "https://open.spotify.com/playlist/pl-1"}}
	h := newTestHandler(svc)

	rec := do(t, h, http.MethodPost, "/create-playlist", map[string]any{
		"accessToken": "tok",
		"trackUris":   []string{"spotify:track:1", "spotify:track:2"},
		"name":        "Rainy Sunday",
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var resp createPlaylistResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.PlaylistID != "pl-1" || resp.PlaylistURL == "" {
		t.Errorf("unexpected response %+v", resp)
	}
	if len(svc.gotURIs) != 2 || svc.gotURIs[0] != "spotify:track:1" {
		t.Errorf("uris not passed through in order: %v", svc.gotURIs)
	}
	if svc.gotDesc != "" {
		t.Errorf("description should default to empty, got %q", svc.gotDesc)
	}
}

func TestCreatePlaylist_MissingFields(t *testing.T) {
	tests := []struct {
		name string
		body map[string]any
	}{
		{"no token", map[string]any{"trackUris": []string{"a"}, "name": "n"}},
		{"no uris", map[string]any{"accessToken": "tok", "name": "n"}},
		{"empty uris", map[string]any{"accessToken": "tok", "trackUris": []string{}, "name": "n"}},
		{"blank uri", map[string]any{"accessToken": "tok", "trackUris": []string{""}, "name": "n"}},
		{"no name", map[string]any{"accessToken": "tok", "trackUris": []string{"a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeService{}
			rec := do(t, newTestHandler(svc), http.MethodPost, "/create-playlist", tt.body)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if got := decodeError(t, rec).Error; got != missingPlaylistFields {
				t.Errorf("error = %q", got)
			}
			if svc.calls != 0 {
				t.Error("service should not be called")
			}
		})
	}
}

func TestCreatePlaylist_PartialFailure(t *testing.T) {
	svc := &fakeService{
		ref: domain.PlaylistRef{ID: "pl-1", URL: "u"},
		err: &domain.PlaylistCreationError{PlaylistID: "pl-1", Written: 100, Requested: 150, Err: errors.New("502")},
	}
	rec := do(t, newTestHandler(svc), http.MethodPost, "/create-playlist", map[string]any{
		"accessToken": "tok",
		"trackUris":   []string{"a"},
		"name":        "n",
	})

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if got := decodeError(t, rec).Code; got != "playlist_creation_error" {
		t.Errorf("code = %q", got)
	}
}

func TestListPlaylistExports(t *testing.T) {
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	svc := &fakeService{exports: []domain.PlaylistExport{
		{ID: "e1", PlaylistID: "pl-1", OwnerID: "u1", Name: "n", Status: domain.ExportComplete, CreatedAt: created},
	}}
	h := newTestHandler(svc)

	req := httptest.NewRequest(http.MethodGet, "/playlists/exports?limit=5", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if svc.gotToken != "tok" || svc.gotLimit != 5 {
		t.Errorf("service got token=%q limit=%d", svc.gotToken, svc.gotLimit)
	}
	var body struct {
		Exports []domain.PlaylistExport `json:"exports"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Exports) != 1 || body.Exports[0].PlaylistID != "pl-1" {
		t.Errorf("unexpected exports %+v", body.Exports)
	}
}

func TestListPlaylistExports_BadLimit(t *testing.T) {
	svc := &fakeService{}
	req := httptest.NewRequest(http.MethodGet, "/playlists/exports?limit=abc", nil)
	req.Header.Set("Authorization", "Bearer tok")
	rec := httptest.NewRecorder()
	newTestHandler(svc).ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	if svc.calls != 0 {
		t.Error("service should not be called")
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc", "abc"},
		{"bearer abc", "abc"},
		{"Basic abc", ""},
		{"abc", ""},
		{"", ""},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if tt.header != "" {
			req.Header.Set("Authorization", tt.header)
		}
		if got := bearerToken(req); got != tt.want {
			t.Errorf("bearerToken(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestHealthCheck(t *testing.T) {
	rec := do(t, newTestHandler(&fakeService{}), http.MethodGet, "/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/mood-suggestions", nil)
	req.Header.Set("Origin", "http://127.0.0.1:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	newTestHandler(&fakeService{}).ServeHTTP(rec, req)

	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://127.0.0.1:5173" {
		t.Errorf("Access-Control-Allow-Origin = %q", got)
	}
}

func TestRateLimit(t *testing.T) {
	h := NewHandler(&fakeService{}, MiddlewareConfig{RateLimitRequests: 1, RateLimitWindow: time.Minute})
	body := map[string]string{"moodDescription": "x", "accessToken": "y"}

	if rec := do(t, h, http.MethodPost, "/mood-suggestions", body); rec.Code != http.StatusOK {
		t.Fatalf("first request: expected 200, got %d", rec.Code)
	}
	rec := do(t, h, http.MethodPost, "/mood-suggestions", body)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: expected 429, got %d", rec.Code)
	}
}

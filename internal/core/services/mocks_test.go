package services

import (
	"context"
	"strings"
	"sync"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
	"github.com/ewilliams-labs/moodlist/internal/core/ports"
)

// --- Mocks ---

// reply is one scripted model answer, selected by a substring of the prompt.
type reply struct {
	match string
	text  string
	err   error
}

// scriptedGenerator answers prompts from its script and records every prompt.
type scriptedGenerator struct {
	mu      sync.Mutex
	script  []reply
	prompts []string
}

func (g *scriptedGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	g.prompts = append(g.prompts, prompt)
	g.mu.Unlock()
	for _, r := range g.script {
		if strings.Contains(prompt, r.match) {
			return r.text, r.err
		}
	}
	return "", nil
}

func (g *scriptedGenerator) calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.prompts)
}

// happyScript answers every extraction stage and the song list.
func happyScript(songs string) []reply {
	return []reply{
		{match: "return a single keyword", text: "nostalgic"},
		{match: "suggest 3 music genres", text: "indie folk, dream pop, soft rock"},
		{match: "musical search keywords", text: "warm acoustic, slow tempo, soft vocals"},
		{match: "energy level", text: "0.3"},
		{match: "valence level", text: "0.55"},
		{match: "explain in 2-3 sentences", text: " Gentle songs for looking back. "},
		{match: "recommend exactly", text: songs},
	}
}

// fakeCatalog serves search results by exact query string.
type fakeCatalog struct {
	mu sync.Mutex

	user    domain.CatalogUser
	userErr error

	results   map[string][]domain.CatalogTrack
	searchErr map[string]error
	queries   []string

	created   []domain.PlaylistSpec
	createRef domain.PlaylistRef
	createErr error

	batches [][]string
	// failBatch is the zero-based batch index that fails; -1 never fails.
	failBatch int
	addErr    error
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		user:      domain.CatalogUser{ID: "user-1", DisplayName: "Test User"},
		results:   map[string][]domain.CatalogTrack{},
		searchErr: map[string]error{},
		createRef: domain.PlaylistRef{ID: "pl-1", URL: "https://open.spotify.com/playlist/pl-1"},
		failBatch: -1,
	}
}

func (c *fakeCatalog) CurrentUser(ctx context.Context) (domain.CatalogUser, error) {
	if c.userErr != nil {
		return domain.CatalogUser{}, c.userErr
	}
	return c.user, nil
}

func (c *fakeCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]domain.CatalogTrack, error) {
	c.mu.Lock()
	c.queries = append(c.queries, query)
	c.mu.Unlock()
	if err := c.searchErr[query]; err != nil {
		return nil, err
	}
	hits := c.results[query]
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func (c *fakeCatalog) CreatePlaylist(ctx context.Context, spec domain.PlaylistSpec) (domain.PlaylistRef, error) {
	c.created = append(c.created, spec)
	if c.createErr != nil {
		return domain.PlaylistRef{}, c.createErr
	}
	return c.createRef, nil
}

func (c *fakeCatalog) AddItems(ctx context.Context, playlistID string, uris []string) error {
	if len(c.batches) == c.failBatch {
		return c.addErr
	}
	c.batches = append(c.batches, append([]string(nil), uris...))
	return nil
}

func (c *fakeCatalog) searched(query string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, q := range c.queries {
		if q == query {
			return true
		}
	}
	return false
}

// fakeConnector hands out the same catalog for every token.
type fakeConnector struct {
	catalog *fakeCatalog
	tokens  []string
}

func (f *fakeConnector) Connect(accessToken string) ports.Catalog {
	f.tokens = append(f.tokens, accessToken)
	return f.catalog
}

type captureRecorder struct {
	mu      sync.Mutex
	exports []domain.PlaylistExport
}

func (r *captureRecorder) Submit(e domain.PlaylistExport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.exports = append(r.exports, e)
}

type fakeLedger struct {
	exports []domain.PlaylistExport
	owner   string
	err     error
}

func (l *fakeLedger) Record(ctx context.Context, e domain.PlaylistExport) error {
	l.exports = append(l.exports, e)
	return l.err
}

func (l *fakeLedger) ListByOwner(ctx context.Context, ownerID string, limit int) ([]domain.PlaylistExport, error) {
	l.owner = ownerID
	if l.err != nil {
		return nil, l.err
	}
	return l.exports, nil
}

func track(id, title, artist string) domain.CatalogTrack {
	return domain.CatalogTrack{
		ID:      id,
		Title:   title,
		Artists: []string{artist},
		URI:     "spotify:track:" + id,
	}
}

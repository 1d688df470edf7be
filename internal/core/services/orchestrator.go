package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
	"github.com/ewilliams-labs/moodlist/internal/core/ports"
	"github.com/ewilliams-labs/moodlist/internal/logging"
)

// DefaultCandidateCount is the number of songs requested from the model.
const DefaultCandidateCount = 15

// Options wires an Orchestrator.
type Options struct {
	Generator ports.TextGenerator
	Catalog   ports.CatalogConnector
	// Recorder receives export records of created playlists. Optional.
	Recorder ports.ExportRecorder
	// Ledger serves ListPlaylistExports. Optional.
	Ledger ports.PlaylistLedger

	CandidateCount   int
	LLMTimeout       time.Duration
	CatalogTimeout   time.Duration
	Concurrency      int
	FallbackMinScore float64
}

// Orchestrator coordinates the mood pipeline and playlist export.
type Orchestrator struct {
	connector ports.CatalogConnector
	extractor *AttributeExtractor
	generator *CandidateGenerator
	resolver  *CatalogResolver
	writer    *PlaylistWriter
	recorder  ports.ExportRecorder
	ledger    ports.PlaylistLedger
	count     int
	now       func() time.Time
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(opts Options) *Orchestrator {
	count := opts.CandidateCount
	if count < 1 {
		count = DefaultCandidateCount
	}
	return &Orchestrator{
		connector: opts.Catalog,
		extractor: NewAttributeExtractor(opts.Generator, opts.LLMTimeout),
		generator: NewCandidateGenerator(opts.Generator, opts.LLMTimeout),
		resolver: NewCatalogResolver(ResolverConfig{
			Concurrency:      opts.Concurrency,
			CallTimeout:      opts.CatalogTimeout,
			FallbackMinScore: opts.FallbackMinScore,
		}),
		writer:   NewPlaylistWriter(opts.CatalogTimeout),
		recorder: opts.Recorder,
		ledger:   opts.Ledger,
		count:    count,
		now:      time.Now,
	}
}

// GetMoodSuggestions runs extraction, candidate generation and resolution for one mood description.
func (o *Orchestrator) GetMoodSuggestions(ctx context.Context, moodDescription, accessToken string) (domain.RecommendationResult, error) {
	description := strings.TrimSpace(moodDescription)
	token := strings.TrimSpace(accessToken)
	var missing []string
	if description == "" {
		missing = append(missing, "moodDescription")
	}
	if token == "" {
		missing = append(missing, "accessToken")
	}
	if len(missing) > 0 {
		return domain.RecommendationResult{}, &domain.ValidationError{
			Fields:  missing,
			Message: "Missing mood description or access token",
		}
	}

	log := logging.Ctx(ctx)
	log.Info().Str("token", logging.TokenPrefix(token)).Msg("mood suggestion requested")

	attrs, err := o.extractor.Extract(ctx, description)
	if err != nil {
		return domain.RecommendationResult{}, err
	}

	candidates, err := o.generator.Generate(ctx, description, attrs, o.count)
	if err != nil {
		return domain.RecommendationResult{}, err
	}

	tracks, err := o.resolver.Resolve(ctx, o.connector.Connect(token), candidates, attrs.Keywords)
	if err != nil {
		return domain.RecommendationResult{}, err
	}

	log.Info().Str("mood", attrs.Mood).Int("tracks", len(tracks)).Msg("mood suggestions ready")
	return domain.RecommendationResult{
		DetectedMood: attrs.Mood,
		Explanation:  attrs.Explanation,
		Tracks:       tracks,
	}, nil
}

// CreatePlaylist materialises trackURIs as a private playlist on the token owner's account.
func (o *Orchestrator) CreatePlaylist(ctx context.Context, accessToken string, trackURIs []string, name, description string) (domain.PlaylistRef, error) {
	token := strings.TrimSpace(accessToken)
	name = strings.TrimSpace(name)
	var missing []string
	if token == "" {
		missing = append(missing, "accessToken")
	}
	if len(trackURIs) == 0 {
		missing = append(missing, "trackUris")
	}
	if name == "" {
		missing = append(missing, "name")
	}
	if len(missing) > 0 {
		return domain.PlaylistRef{}, &domain.ValidationError{Fields: missing, Message: "Missing required parameters"}
	}

	catalog := o.connector.Connect(token)
	user, err := o.resolver.Authenticate(ctx, catalog)
	if err != nil {
		return domain.PlaylistRef{}, err
	}

	ref, err := o.writer.CreateAndFill(ctx, catalog, user.ID, name, description, trackURIs)
	if ref.ID != "" {
		o.recordExport(ctx, user.ID, name, ref, len(trackURIs), err)
	}
	if err != nil {
		return domain.PlaylistRef{}, err
	}
	return ref, nil
}

// ListPlaylistExports returns the token owner's exported playlists, newest first.
func (o *Orchestrator) ListPlaylistExports(ctx context.Context, accessToken string, limit int) ([]domain.PlaylistExport, error) {
	token := strings.TrimSpace(accessToken)
	if token == "" {
		return nil, &domain.ValidationError{Fields: []string{"accessToken"}, Message: "Missing access token"}
	}
	user, err := o.resolver.Authenticate(ctx, o.connector.Connect(token))
	if err != nil {
		return nil, err
	}
	if o.ledger == nil {
		return []domain.PlaylistExport{}, nil
	}
	exports, err := o.ledger.ListByOwner(ctx, user.ID, limit)
	if err != nil {
		return nil, fmt.Errorf("service: list exports: %w", err)
	}
	return exports, nil
}

func (o *Orchestrator) recordExport(ctx context.Context, ownerID, name string, ref domain.PlaylistRef, requested int, writeErr error) {
	if o.recorder == nil {
		return
	}
	export, err := domain.NewPlaylistExport(uuid.NewString(), ref.ID, ownerID, name)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("playlist_id", ref.ID).Msg("skipping export record")
		return
	}
	export.URL = ref.URL
	export.Requested = requested
	export.Written = requested
	export.CreatedAt = o.now().UTC()
	if writeErr != nil {
		export.Status = domain.ExportPartial
		export.Error = writeErr.Error()
		var pce *domain.PlaylistCreationError
		if errors.As(writeErr, &pce) {
			export.Written = pce.Written
		}
	}
	o.recorder.Submit(*export)
}

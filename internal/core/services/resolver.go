package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
	"github.com/ewilliams-labs/moodlist/internal/core/ports"
	"github.com/ewilliams-labs/moodlist/internal/logging"
	"github.com/ewilliams-labs/moodlist/internal/metrics"
	"github.com/ewilliams-labs/moodlist/internal/textmatch"
)

const (
	// MaxResolvedTracks caps the result of one resolution.
	MaxResolvedTracks = 10
	// BackfillThreshold is the number of candidate matches below which keyword backfill runs.
	BackfillThreshold = 5
	// BackfillLimit is the result limit of one keyword query.
	BackfillLimit = 3

	stageWhoAmI = "whoami"
	stageSearch = "search"
)

type ResolverConfig struct {
	// Concurrency bounds in-flight candidate searches. Values below 1 mean sequential.
	Concurrency int
	// CallTimeout bounds each catalog call. Zero disables it.
	CallTimeout time.Duration
	// FallbackMinScore rejects fallback hits scoring below it. Zero disables the guard.
	FallbackMinScore float64
}

// CatalogResolver maps candidates to catalog tracks with an exact query, a
// looser fallback query and a keyword backfill.
type CatalogResolver struct {
	cfg ResolverConfig
}

func NewCatalogResolver(cfg ResolverConfig) *CatalogResolver {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	return &CatalogResolver{cfg: cfg}
}

// Authenticate verifies the catalog session once with an identity lookup.
func (r *CatalogResolver) Authenticate(ctx context.Context, catalog ports.Catalog) (user domain.CatalogUser, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStage(stageWhoAmI, start, err) }()

	ctx, cancel := r.callContext(ctx)
	defer cancel()
	user, err = catalog.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, ports.ErrUnauthorized) {
			return domain.CatalogUser{}, &domain.CatalogAuthError{Err: err}
		}
		return domain.CatalogUser{}, fmt.Errorf("resolver: identity lookup: %w", err)
	}
	if user.ID == "" {
		return domain.CatalogUser{}, &domain.CatalogAuthError{Err: errors.New("catalog returned no user id")}
	}
	return user, nil
}

// Resolve returns at most MaxResolvedTracks tracks, unique by URI, ordered by
// candidate position and then by backfill keyword position. Only an invalid
// credential fails the call; search failures are logged and skipped.
func (r *CatalogResolver) Resolve(ctx context.Context, catalog ports.Catalog, candidates []domain.SongCandidate, keywords []string) ([]domain.ResolvedTrack, error) {
	if _, err := r.Authenticate(ctx, catalog); err != nil {
		return nil, err
	}
	log := logging.Ctx(ctx)

	outcomes := r.searchCandidates(ctx, catalog, candidates)
	set, tally := aggregate(outcomes)
	log.Info().
		Int("candidates", len(candidates)).
		Int("found", tally.Found).
		Int("absent", tally.Absent).
		Int("failed", tally.Failed).
		Msg("candidates resolved")

	if needsBackfill(tally) {
		metrics.BackfillTriggered.Inc()
		r.backfill(ctx, catalog, keywords, set)
	}

	tracks := set.Tracks(MaxResolvedTracks)
	metrics.ResolvedTracks.Observe(float64(len(tracks)))
	return tracks, nil
}

// searchCandidates resolves every candidate concurrently. Outcomes are stored
// by candidate index so ordering never depends on completion time.
func (r *CatalogResolver) searchCandidates(ctx context.Context, catalog ports.Catalog, candidates []domain.SongCandidate) []domain.SearchOutcome {
	outcomes := make([]domain.SearchOutcome, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Concurrency)
	for i, c := range candidates {
		g.Go(func() error {
			outcomes[i] = r.resolveOne(gctx, catalog, c)
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

func (r *CatalogResolver) resolveOne(ctx context.Context, catalog ports.Catalog, c domain.SongCandidate) domain.SearchOutcome {
	log := logging.Ctx(ctx)

	exact := fmt.Sprintf("track:%s artist:%s", c.Title, c.Artist)
	hits, err := r.search(ctx, catalog, exact, 1)
	if err != nil {
		log.Warn().Err(err).Str("title", c.Title).Str("artist", c.Artist).Msg("exact search failed, skipping candidate")
		return record(domain.Failed(c, domain.TierExact, err))
	}
	if len(hits) > 0 {
		return record(domain.Found(c, domain.TierExact, hits[0].ToResolved()))
	}

	loose := fmt.Sprintf("%s %s", c.Title, c.Artist)
	hits, err = r.search(ctx, catalog, loose, 1)
	if err != nil {
		log.Warn().Err(err).Str("title", c.Title).Str("artist", c.Artist).Msg("fallback search failed, skipping candidate")
		return record(domain.Failed(c, domain.TierFallback, err))
	}
	if len(hits) == 0 {
		return record(domain.Absent(c, domain.TierFallback))
	}
	top := hits[0]
	if threshold := r.cfg.FallbackMinScore; threshold > 0 {
		score := textmatch.Score(c.Artist, c.Title, top.PrimaryArtist(), top.Title)
		if score < threshold {
			log.Debug().
				Str("title", c.Title).
				Str("artist", c.Artist).
				Str("matched_title", top.Title).
				Float64("score", score).
				Msg("fallback match below confidence threshold")
			return record(domain.Absent(c, domain.TierFallback))
		}
	}
	return record(domain.Found(c, domain.TierFallback, top.ToResolved()))
}

func (r *CatalogResolver) backfill(ctx context.Context, catalog ports.Catalog, keywords []string, set *domain.TrackSet) {
	log := logging.Ctx(ctx)
	for _, kw := range keywords {
		hits, err := r.search(ctx, catalog, kw, BackfillLimit)
		if err != nil {
			log.Warn().Err(err).Str("keyword", kw).Msg("backfill search failed, skipping keyword")
			metrics.SearchOutcomes.WithLabelValues(string(domain.TierBackfill), domain.OutcomeFailed.String()).Inc()
			continue
		}
		added := 0
		for _, h := range hits {
			if set.Add(h.ToResolved()) == nil {
				added++
			}
		}
		kind := domain.OutcomeFound
		if len(hits) == 0 {
			kind = domain.OutcomeAbsent
		}
		metrics.SearchOutcomes.WithLabelValues(string(domain.TierBackfill), kind.String()).Inc()
		log.Debug().Str("keyword", kw).Int("hits", len(hits)).Int("added", added).Msg("backfill search")
	}
}

func (r *CatalogResolver) search(ctx context.Context, catalog ports.Catalog, query string, limit int) (hits []domain.CatalogTrack, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStage(stageSearch, start, err) }()

	ctx, cancel := r.callContext(ctx)
	defer cancel()
	hits, err = catalog.SearchTracks(ctx, query, limit)
	if err != nil {
		return nil, &domain.CatalogSearchError{Query: query, Err: err}
	}
	return hits, nil
}

func (r *CatalogResolver) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.cfg.CallTimeout > 0 {
		return context.WithTimeout(ctx, r.cfg.CallTimeout)
	}
	return context.WithCancel(ctx)
}

func record(o domain.SearchOutcome) domain.SearchOutcome {
	metrics.SearchOutcomes.WithLabelValues(string(o.Tier), o.Kind.String()).Inc()
	return o
}

// aggregate folds per-candidate outcomes in candidate order. Found tracks are
// added to the set with first occurrence winning; absences and failures are
// only counted.
func aggregate(outcomes []domain.SearchOutcome) (*domain.TrackSet, domain.OutcomeTally) {
	set := domain.NewTrackSet()
	var tally domain.OutcomeTally
	for _, o := range outcomes {
		switch o.Kind {
		case domain.OutcomeFound:
			tally.Found++
			_ = set.Add(o.Track)
		case domain.OutcomeFailed:
			tally.Failed++
		default:
			tally.Absent++
		}
	}
	return set, tally
}

// needsBackfill counts every candidate match, duplicates included.
func needsBackfill(t domain.OutcomeTally) bool {
	return t.Found < BackfillThreshold
}

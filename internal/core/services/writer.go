package services

import (
	"context"
	"errors"
	"time"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
	"github.com/ewilliams-labs/moodlist/internal/core/ports"
	"github.com/ewilliams-labs/moodlist/internal/logging"
	"github.com/ewilliams-labs/moodlist/internal/metrics"
)

// MaxBatchSize is the catalog's per-request item limit for playlist appends.
const MaxBatchSize = 100

const (
	stageCreatePlaylist = "create_playlist"
	stageAddItems       = "add_items"
)

// PlaylistWriter creates a playlist and fills it in order-preserving batches.
type PlaylistWriter struct {
	timeout time.Duration
}

func NewPlaylistWriter(callTimeout time.Duration) *PlaylistWriter {
	return &PlaylistWriter{timeout: callTimeout}
}

// CreateAndFill creates a private playlist for ownerID and appends uris in
// batches of at most MaxBatchSize. A failed batch stops the write; the
// returned PlaylistCreationError carries the playlist and how many uris landed.
// The partial playlist is left in place.
func (w *PlaylistWriter) CreateAndFill(ctx context.Context, catalog ports.Catalog, ownerID, name, description string, uris []string) (domain.PlaylistRef, error) {
	log := logging.Ctx(ctx)

	ref, err := w.create(ctx, catalog, domain.PlaylistSpec{
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Public:      false,
	})
	if err != nil {
		if errors.Is(err, ports.ErrUnauthorized) {
			return domain.PlaylistRef{}, &domain.CatalogAuthError{Err: err}
		}
		return domain.PlaylistRef{}, &domain.PlaylistCreationError{Requested: len(uris), Err: err}
	}

	written := 0
	for _, batch := range Batches(uris, MaxBatchSize) {
		if err := w.append(ctx, catalog, ref.ID, batch); err != nil {
			metrics.PlaylistBatches.WithLabelValues("error").Inc()
			log.Error().Err(err).
				Str("playlist_id", ref.ID).
				Int("written", written).
				Int("requested", len(uris)).
				Msg("playlist append failed, playlist left incomplete")
			return ref, &domain.PlaylistCreationError{
				PlaylistID:  ref.ID,
				PlaylistURL: ref.URL,
				Written:     written,
				Requested:   len(uris),
				Err:         err,
			}
		}
		metrics.PlaylistBatches.WithLabelValues("ok").Inc()
		written += len(batch)
	}

	log.Info().Str("playlist_id", ref.ID).Int("tracks", written).Msg("playlist created")
	return ref, nil
}

func (w *PlaylistWriter) create(ctx context.Context, catalog ports.Catalog, spec domain.PlaylistSpec) (ref domain.PlaylistRef, err error) {
	start := time.Now()
	defer func() { metrics.ObserveStage(stageCreatePlaylist, start, err) }()

	ctx, cancel := w.callContext(ctx)
	defer cancel()
	return catalog.CreatePlaylist(ctx, spec)
}

func (w *PlaylistWriter) append(ctx context.Context, catalog ports.Catalog, playlistID string, batch []string) (err error) {
	start := time.Now()
	defer func() { metrics.ObserveStage(stageAddItems, start, err) }()

	ctx, cancel := w.callContext(ctx)
	defer cancel()
	return catalog.AddItems(ctx, playlistID, batch)
}

func (w *PlaylistWriter) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if w.timeout > 0 {
		return context.WithTimeout(ctx, w.timeout)
	}
	return context.WithCancel(ctx)
}

// Batches splits items into consecutive chunks of at most size elements.
// Concatenating the chunks yields items unchanged.
func Batches(items []string, size int) [][]string {
	if size < 1 {
		size = 1
	}
	out := make([][]string, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := min(start+size, len(items))
		out = append(out, items[start:end])
	}
	return out
}

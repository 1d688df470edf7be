package ports

import (
	"context"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
)

// PlaylistLedger stores records of playlists materialised on the catalog.
type PlaylistLedger interface {
	Record(ctx context.Context, e domain.PlaylistExport) error
	ListByOwner(ctx context.Context, ownerID string, limit int) ([]domain.PlaylistExport, error)
}

// ExportRecorder accepts ledger records for asynchronous persistence.
type ExportRecorder interface {
	Submit(e domain.PlaylistExport)
}

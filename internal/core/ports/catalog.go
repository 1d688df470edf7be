package ports

import (
	"context"
	"errors"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
)

// ErrUnauthorized indicates the catalog rejected the access token.
var ErrUnauthorized = errors.New("catalog: unauthorized")

// CatalogConnector opens a catalog session bound to one caller's access token.
type CatalogConnector interface {
	Connect(accessToken string) Catalog
}

// Catalog is the music catalog and playlist service as seen by one caller.
type Catalog interface {
	CurrentUser(ctx context.Context) (domain.CatalogUser, error)
	SearchTracks(ctx context.Context, query string, limit int) ([]domain.CatalogTrack, error)
	CreatePlaylist(ctx context.Context, spec domain.PlaylistSpec) (domain.PlaylistRef, error)
	AddItems(ctx context.Context, playlistID string, uris []string) error
}

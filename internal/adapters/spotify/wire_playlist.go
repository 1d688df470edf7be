package spotify

import (
	"context"
	"fmt"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
)

// CreatePlaylist creates an empty playlist owned by spec.OwnerID.
func (c *Client) CreatePlaylist(ctx context.Context, spec domain.PlaylistSpec) (domain.PlaylistRef, error) {
	var pl spotifyPlaylist
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("user_id", spec.OwnerID).
		SetBody(createPlaylistRequest{
			Name:        spec.Name,
			Description: spec.Description,
			Public:      spec.Public,
		}).
		SetResult(&pl).
		SetError(&errorResponse{}).
		Post("/users/{user_id}/playlists")
	if err := checkResponse("create playlist", resp, err); err != nil {
		return domain.PlaylistRef{}, err
	}
	if pl.ID == "" {
		return domain.PlaylistRef{}, fmt.Errorf("spotify adapter: create playlist: response has no id")
	}
	return mapPlaylistToDomain(pl), nil
}

// AddItems appends uris to the playlist in one request. Callers keep
// batches within Spotify's 100 item limit.
func (c *Client) AddItems(ctx context.Context, playlistID string, uris []string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("playlist_id", playlistID).
		SetBody(addItemsRequest{URIs: uris}).
		SetResult(&snapshotResponse{}).
		SetError(&errorResponse{}).
		Post("/playlists/{playlist_id}/tracks")
	return checkResponse("add items", resp, err)
}

package spotify

import (
	"context"
	"strconv"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
)

// SearchTracks runs a track search and returns at most limit hits in Spotify's ranking order.
func (c *Client) SearchTracks(ctx context.Context, query string, limit int) ([]domain.CatalogTrack, error) {
	if limit < 1 {
		limit = 1
	}
	var body searchResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"q":     query,
			"type":  "track",
			"limit": strconv.Itoa(limit),
		}).
		SetResult(&body).
		SetError(&errorResponse{}).
		Get("/search")
	if err := checkResponse("search", resp, err); err != nil {
		return nil, err
	}

	tracks := mapTracksToDomain(body.Tracks.Items)
	if len(tracks) > limit {
		tracks = tracks[:limit]
	}
	return tracks, nil
}

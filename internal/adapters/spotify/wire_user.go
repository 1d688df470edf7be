package spotify

import (
	"context"

	"github.com/ewilliams-labs/moodlist/internal/core/domain"
)

// CurrentUser resolves the account behind the session's access token.
func (c *Client) CurrentUser(ctx context.Context) (domain.CatalogUser, error) {
	var u spotifyUser
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&u).
		SetError(&errorResponse{}).
		Get("/me")
	if err := checkResponse("current user", resp, err); err != nil {
		return domain.CatalogUser{}, err
	}
	return domain.CatalogUser{ID: u.ID, DisplayName: u.DisplayName}, nil
}

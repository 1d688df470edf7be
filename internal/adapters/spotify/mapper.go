package spotify

import "github.com/ewilliams-labs/moodlist/internal/core/domain"

// mapTrackToDomain converts a raw Spotify track, keeping every credited artist in order.
func mapTrackToDomain(st spotifyTrack) domain.CatalogTrack {
	artists := make([]string, 0, len(st.Artists))
	for _, a := range st.Artists {
		artists = append(artists, a.Name)
	}
	images := make([]domain.Image, 0, len(st.Album.Images))
	for _, img := range st.Album.Images {
		images = append(images, domain.Image{URL: img.URL, Height: img.Height, Width: img.Width})
	}
	return domain.CatalogTrack{
		ID:          st.ID,
		Title:       st.Name,
		Artists:     artists,
		URI:         st.URI,
		AlbumImages: images,
	}
}

func mapTracksToDomain(items []spotifyTrack) []domain.CatalogTrack {
	out := make([]domain.CatalogTrack, 0, len(items))
	for _, it := range items {
		// search pages may contain null entries for unavailable tracks
		if it.URI == "" {
			continue
		}
		out = append(out, mapTrackToDomain(it))
	}
	return out
}

func mapPlaylistToDomain(sp spotifyPlaylist) domain.PlaylistRef {
	return domain.PlaylistRef{ID: sp.ID, URL: sp.ExternalURLs.Spotify}
}

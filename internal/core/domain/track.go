package domain

// SongCandidate is an unverified (title, artist) pair proposed by text generation.
type SongCandidate struct {
	Title  string `json:"title"`
	Artist string `json:"artist"`
}

// ResolvedTrack is a candidate matched to a concrete catalog entry.
// URI is the dedup key within a result set.
type ResolvedTrack struct {
	Title       string  `json:"title"`
	Artist      string  `json:"artist"`
	URI         string  `json:"uri"`
	AlbumArtURL *string `json:"albumURL"`
}

// Image is one artwork variant returned by the catalog.
type Image struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

// CatalogTrack is a raw search hit as reported by the catalog.
type CatalogTrack struct {
	ID          string
	Title       string
	Artists     []string
	URI         string
	AlbumImages []Image
}

// PrimaryArtist returns the first credited artist, or "" when none is listed.
func (t CatalogTrack) PrimaryArtist() string {
	if len(t.Artists) == 0 {
		return ""
	}
	return t.Artists[0]
}

// SmallestImage returns the artwork variant with the lowest height.
// The first variant wins ties; ok is false when the track has no artwork.
func (t CatalogTrack) SmallestImage() (Image, bool) {
	if len(t.AlbumImages) == 0 {
		return Image{}, false
	}
	best := t.AlbumImages[0]
	for _, img := range t.AlbumImages[1:] {
		if img.Height < best.Height {
			best = img
		}
	}
	return best, true
}

// ToResolved converts a catalog hit using the catalog's canonical title and artist.
func (t CatalogTrack) ToResolved() ResolvedTrack {
	rt := ResolvedTrack{
		Title:  t.Title,
		Artist: t.PrimaryArtist(),
		URI:    t.URI,
	}
	if img, ok := t.SmallestImage(); ok && img.URL != "" {
		url := img.URL
		rt.AlbumArtURL = &url
	}
	return rt
}

package domain

import (
	"errors"
	"time"
)

var ErrDuplicateURI = errors.New("domain: duplicate track uri")

// TrackSet is an insertion-ordered collection of resolved tracks, unique by URI.
type TrackSet struct {
	tracks []ResolvedTrack
	seen   map[string]struct{}
}

func NewTrackSet() *TrackSet {
	return &TrackSet{
		tracks: []ResolvedTrack{},
		seen:   map[string]struct{}{},
	}
}

// Add appends a track unless a track with the same URI is already present,
// in which case it returns ErrDuplicateURI.
func (s *TrackSet) Add(t ResolvedTrack) error {
	if _, ok := s.seen[t.URI]; ok {
		return ErrDuplicateURI
	}
	s.seen[t.URI] = struct{}{}
	s.tracks = append(s.tracks, t)
	return nil
}

func (s *TrackSet) Len() int {
	return len(s.tracks)
}

// Tracks returns at most limit tracks in insertion order. A limit <= 0 returns all of them.
func (s *TrackSet) Tracks(limit int) []ResolvedTrack {
	n := len(s.tracks)
	if limit > 0 && limit < n {
		n = limit
	}
	out := make([]ResolvedTrack, n)
	copy(out, s.tracks[:n])
	return out
}

// CatalogUser is the identity behind an access token.
type CatalogUser struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
}

// PlaylistSpec describes a playlist container to create.
type PlaylistSpec struct {
	OwnerID     string
	Name        string
	Description string
	Public      bool
}

// PlaylistRef identifies a created playlist.
type PlaylistRef struct {
	ID  string `json:"playlistId"`
	URL string `json:"playlistUrl"`
}

type ExportStatus string

const (
	ExportComplete ExportStatus = "complete"
	ExportPartial  ExportStatus = "partial"
)

// PlaylistExport is the ledger record of a playlist materialised on the catalog.
type PlaylistExport struct {
	ID         string       `json:"id"`
	PlaylistID string       `json:"playlistId"`
	OwnerID    string       `json:"ownerId"`
	Name       string       `json:"name"`
	URL        string       `json:"playlistUrl"`
	Requested  int          `json:"requested"`
	Written    int          `json:"written"`
	Status     ExportStatus `json:"status"`
	Error      string       `json:"error,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// NewPlaylistExport validates the identifying fields of an export record.
func NewPlaylistExport(id, playlistID, ownerID, name string) (*PlaylistExport, error) {
	if id == "" || playlistID == "" || ownerID == "" || name == "" {
		return nil, errors.New("domain: invalid argument")
	}
	return &PlaylistExport{
		ID:         id,
		PlaylistID: playlistID,
		OwnerID:    ownerID,
		Name:       name,
		Status:     ExportComplete,
	}, nil
}

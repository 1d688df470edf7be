package domain

import (
	"errors"
	"fmt"
)

var (
	ErrValidation          = errors.New("validation failed")
	ErrAttributeExtraction = errors.New("attribute extraction failed")
	ErrAttributeParse      = errors.New("attribute parse failed")
	ErrCandidateGeneration = errors.New("candidate generation failed")
	ErrCatalogAuth         = errors.New("catalog authentication failed")
	ErrCatalogSearch       = errors.New("catalog search failed")
	ErrPlaylistCreation    = errors.New("playlist creation failed")
)

// ValidationError reports a missing or malformed request field.
type ValidationError struct {
	Fields  []string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("missing required fields: %v", e.Fields)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// AttributeExtractionError wraps a failed generative call in one extraction stage.
type AttributeExtractionError struct {
	Stage string
	Err   error
}

func (e *AttributeExtractionError) Error() string {
	return fmt.Sprintf("attribute extraction: %s stage: %v", e.Stage, e.Err)
}

func (e *AttributeExtractionError) Unwrap() error { return e.Err }

func (e *AttributeExtractionError) Is(target error) bool {
	return target == ErrAttributeExtraction
}

// AttributeParseError reports model output that could not be parsed into the stage's shape.
type AttributeParseError struct {
	Stage string
	Raw   string
	Err   error
}

func (e *AttributeParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("attribute parse: %s stage: cannot parse %q", e.Stage, e.Raw)
	}
	return fmt.Sprintf("attribute parse: %s stage: cannot parse %q: %v", e.Stage, e.Raw, e.Err)
}

func (e *AttributeParseError) Unwrap() error { return e.Err }

func (e *AttributeParseError) Is(target error) bool {
	return target == ErrAttributeParse
}

// CandidateGenerationError wraps a failed song-list generative call.
type CandidateGenerationError struct {
	Err error
}

func (e *CandidateGenerationError) Error() string {
	return fmt.Sprintf("candidate generation: %v", e.Err)
}

func (e *CandidateGenerationError) Unwrap() error { return e.Err }

func (e *CandidateGenerationError) Is(target error) bool {
	return target == ErrCandidateGeneration
}

// CatalogAuthError signals that the caller must re-authenticate.
type CatalogAuthError struct {
	Err error
}

func (e *CatalogAuthError) Error() string {
	return "Invalid or expired Spotify token. Please log in again."
}

func (e *CatalogAuthError) Unwrap() error { return e.Err }

func (e *CatalogAuthError) Is(target error) bool {
	return target == ErrCatalogAuth
}

// CatalogSearchError is local to one search and is absorbed by the resolver.
type CatalogSearchError struct {
	Query string
	Err   error
}

func (e *CatalogSearchError) Error() string {
	return fmt.Sprintf("catalog search %q: %v", e.Query, e.Err)
}

func (e *CatalogSearchError) Unwrap() error { return e.Err }

func (e *CatalogSearchError) Is(target error) bool {
	return target == ErrCatalogSearch
}

// PlaylistCreationError reports a failed create or append. When PlaylistID is set
// the playlist exists on the catalog with only Written of its uris.
type PlaylistCreationError struct {
	PlaylistID  string
	PlaylistURL string
	Written     int
	Requested   int
	Err         error
}

func (e *PlaylistCreationError) Error() string {
	if e.PlaylistID == "" {
		return fmt.Sprintf("playlist creation: %v", e.Err)
	}
	return fmt.Sprintf("playlist %s incomplete (%d/%d tracks written): %v", e.PlaylistID, e.Written, e.Requested, e.Err)
}

func (e *PlaylistCreationError) Unwrap() error { return e.Err }

func (e *PlaylistCreationError) Is(target error) bool {
	return target == ErrPlaylistCreation
}

package api

import (
	"io"

	"cookbook/internal/models"
)

// CreateRequest is the multipart form a new recipe is uploaded with.
// Ingredients and Steps hold JSON array text, as typed into the form.
type CreateRequest struct {
	PK          string
	Title       string
	Description string
	Ingredients string
	Steps       string

	// File is the optional image. FileName is sent alongside it as a
	// separate FileName field, which the create endpoint stores the blob under.
	File     io.Reader
	FileName string
}

// EditForm is what the user submitted from the edit form.
type EditForm struct {
	PK          string
	Title       string
	Description string
	Ingredients string
	Steps       string
}

// SearchStatus is the display state of a search.
type SearchStatus int

const (
	SearchOK SearchStatus = iota
	SearchEmpty
	SearchFailed
)

func (s SearchStatus) String() string {
	switch s {
	case SearchOK:
		return "ok"
	case SearchEmpty:
		return "empty"
	case SearchFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// SearchResult is the outcome of a search. Failures are carried in Err with
// Status SearchFailed rather than returned.
type SearchResult struct {
	Query   string
	Status  SearchStatus
	Recipes []models.Recipe
	Err     error
}

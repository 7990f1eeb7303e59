package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cookbook/internal/models"
)

// ErrInvalidEditSession is returned for a token ParseEditSession cannot read.
var ErrInvalidEditSession = errors.New("invalid edit session")

// EditSession is the record being edited, as last read. Ingredients and Steps
// are normalized for the form; Media and CreatedAt are kept exactly as read
// and written back untouched on submit.
type EditSession struct {
	ID          string          `json:"id"`
	PK          string          `json:"pk"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Ingredients json.RawMessage `json:"ingredients,omitempty"`
	Steps       json.RawMessage `json:"steps,omitempty"`
	Media       json.RawMessage `json:"media,omitempty"`
	CreatedAt   json.RawMessage `json:"createdAt,omitempty"`
}

// BeginEdit reads the recipe and opens an edit session on it. It returns
// nil, nil when the recipe does not exist.
func (c *Client) BeginEdit(ctx context.Context, id string) (*EditSession, error) {
	rec, err := c.GetRecipe(ctx, id)
	if err != nil || rec == nil {
		return nil, err
	}
	return NewEditSession(*rec)
}

// NewEditSession opens an edit session on a record already read.
func NewEditSession(rec models.Recipe) (*EditSession, error) {
	normalized, err := rec.Normalize()
	if err != nil {
		return nil, err
	}
	return &EditSession{
		ID:          rec.ID,
		PK:          rec.PK,
		Title:       rec.Title,
		Description: rec.Description,
		Ingredients: normalized.Ingredients,
		Steps:       normalized.Steps,
		Media:       rec.Media,
		CreatedAt:   rec.CreatedAt,
	}, nil
}

// Form returns the edit form prefilled from the session.
func (s *EditSession) Form() EditForm {
	return EditForm{
		PK:          s.PK,
		Title:       s.Title,
		Description: s.Description,
		Ingredients: models.FormText(s.Ingredients),
		Steps:       models.FormText(s.Steps),
	}
}

// Apply builds the update record from the submitted form. Identity, media and
// creation time come from the session.
func (s *EditSession) Apply(form EditForm) (models.Recipe, error) {
	pk := strings.TrimSpace(form.PK)
	if pk == "" {
		return models.Recipe{}, &models.ValidationError{Field: "pk", Err: ErrMissingPK}
	}
	ingredients, err := models.ParseList("ingredients", form.Ingredients)
	if err != nil {
		return models.Recipe{}, err
	}
	steps, err := models.ParseList("steps", form.Steps)
	if err != nil {
		return models.Recipe{}, err
	}
	return models.Recipe{
		ID:          s.ID,
		PK:          pk,
		Title:       form.Title,
		Description: form.Description,
		Ingredients: ingredients,
		Steps:       steps,
		Media:       s.Media,
		CreatedAt:   s.CreatedAt,
	}, nil
}

// SubmitEdit applies the form and sends the update.
func (c *Client) SubmitEdit(ctx context.Context, s *EditSession, form EditForm) (*models.Recipe, error) {
	if s == nil {
		return nil, ErrInvalidEditSession
	}
	rec, err := s.Apply(form)
	if err != nil {
		return nil, err
	}
	return c.UpdateRecipe(ctx, s.ID, rec)
}

// Token encodes the session for a hidden form field.
func (s *EditSession) Token() (string, error) {
	payload, err := json.Marshal(s)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(payload), nil
}

// ParseEditSession decodes a token produced by Token.
func ParseEditSession(token string) (*EditSession, error) {
	payload, err := base64.RawURLEncoding.DecodeString(strings.TrimSpace(token))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEditSession, err)
	}
	var s EditSession
	if err := json.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidEditSession, err)
	}
	if strings.TrimSpace(s.ID) == "" {
		return nil, fmt.Errorf("%w: missing id", ErrInvalidEditSession)
	}
	return &s, nil
}

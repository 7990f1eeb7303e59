package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Recipe is one catalog record as the document store returns it.
//
// Ingredients, Steps, Media and CreatedAt are kept as raw JSON: the store may
// hand them back in the wrapped encoding (see Unwrap), and CreatedAt must be
// written back byte-for-byte on update.
type Recipe struct {
	ID          string          `json:"id,omitempty"`
	PK          string          `json:"pk"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Ingredients json.RawMessage `json:"ingredients,omitempty"`
	Steps       json.RawMessage `json:"steps,omitempty"`
	Media       json.RawMessage `json:"media,omitempty"`
	CreatedAt   json.RawMessage `json:"createdAt,omitempty"`

	// Tags are the search index's generated labels. Read-only.
	Tags []string `json:"ai_tag_names,omitempty"`
}

// View is the display shape of a normalized recipe.
type View struct {
	ID          string   `json:"id" yaml:"id"`
	PK          string   `json:"pk" yaml:"pk"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description" yaml:"description"`
	Ingredients any      `json:"ingredients" yaml:"ingredients"`
	Steps       any      `json:"steps" yaml:"steps"`
	Media       any      `json:"media,omitempty" yaml:"media,omitempty"`
	ImageURL    string   `json:"image_url" yaml:"image_url"`
	CreatedAt   any      `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	IngredientLines []string `json:"-" yaml:"-"`
	StepLines       []string `json:"-" yaml:"-"`
}

// Normalize unwraps ingredients, steps and media independently.
func (r Recipe) Normalize() (Recipe, error) {
	out := r
	var err error
	if out.Ingredients, err = unwrapField("ingredients", r.Ingredients); err != nil {
		return Recipe{}, err
	}
	if out.Steps, err = unwrapField("steps", r.Steps); err != nil {
		return Recipe{}, err
	}
	if out.Media, err = unwrapField("media", r.Media); err != nil {
		return Recipe{}, err
	}
	return out, nil
}

// View normalizes the recipe and decodes its raw fields for display.
// imageURL is the already-resolved media reference.
func (r Recipe) View(imageURL string) (View, error) {
	normalized, err := r.Normalize()
	if err != nil {
		return View{}, err
	}

	ingredientLines, err := Entries(normalized.Ingredients)
	if err != nil {
		return View{}, &ValidationError{Field: "ingredients", Err: err}
	}
	stepLines, err := Entries(normalized.Steps)
	if err != nil {
		return View{}, &ValidationError{Field: "steps", Err: err}
	}

	view := View{
		ID:              normalized.ID,
		PK:              normalized.PK,
		Title:           normalized.Title,
		Description:     normalized.Description,
		Ingredients:     decodeAny(normalized.Ingredients),
		Steps:           decodeAny(normalized.Steps),
		Media:           decodeAny(normalized.Media),
		ImageURL:        imageURL,
		CreatedAt:       decodeAny(normalized.CreatedAt),
		Tags:            normalized.Tags,
		IngredientLines: ingredientLines,
		StepLines:       stepLines,
	}
	if view.Ingredients == nil {
		view.Ingredients = []any{}
	}
	if view.Steps == nil {
		view.Steps = []any{}
	}
	return view, nil
}

// Entries renders a normalized sequence field as display lines. String entries
// are returned verbatim, structured entries as compact JSON. A non-sequence
// value becomes a single line.
func Entries(raw json.RawMessage) ([]string, error) {
	if isAbsent(raw) {
		return nil, nil
	}
	trimmed := bytes.TrimSpace(raw)
	if trimmed[0] != '[' {
		line, err := entryLine(trimmed)
		if err != nil {
			return nil, err
		}
		return []string{line}, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, err
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		line, err := entryLine(item)
		if err != nil {
			return nil, err
		}
		out = append(out, line)
	}
	return out, nil
}

// ParseList validates the JSON text the edit and create forms carry for a
// sequence field. Blank text means an empty sequence.
func ParseList(field, text string) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace([]byte(text))
	if len(trimmed) == 0 {
		return json.RawMessage("[]"), nil
	}
	if !json.Valid(trimmed) {
		return nil, &ValidationError{Field: field, Err: fmt.Errorf("not valid JSON")}
	}
	if trimmed[0] != '[' {
		return nil, &ValidationError{Field: field, Err: fmt.Errorf("must be a JSON array")}
	}

	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return nil, &ValidationError{Field: field, Err: err}
	}
	return json.RawMessage(buf.Bytes()), nil
}

// FormText renders a normalized sequence field back into the single JSON text
// blob the edit form shows.
func FormText(raw json.RawMessage) string {
	if isAbsent(raw) {
		return "[]"
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return string(raw)
	}
	return buf.String()
}

func entryLine(item json.RawMessage) (string, error) {
	var s string
	if err := json.Unmarshal(item, &s); err == nil {
		return s, nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, item); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func decodeAny(raw json.RawMessage) any {
	if isAbsent(raw) {
		return nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return string(raw)
	}
	return v
}

func isAbsent(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

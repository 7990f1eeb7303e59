package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"cookbook/internal/config"
	"cookbook/internal/models"
)

// RootField names the response root itself as the result sequence.
const RootField = config.RootFieldName

// CollectionShape is an ordered allow-list of container fields a collection
// response may nest its results under.
type CollectionShape []string

// NewCollectionShape drops blank names from fields, falling back to defaults
// when none remain.
func NewCollectionShape(fields, defaults []string) CollectionShape {
	shape := make(CollectionShape, 0, len(fields))
	for _, field := range fields {
		if field = strings.TrimSpace(field); field != "" {
			shape = append(shape, field)
		}
	}
	if len(shape) == 0 {
		shape = append(shape, defaults...)
	}
	return shape
}

// Decode returns the first candidate that holds a JSON array, in shape order.
// An empty array counts as a match. Candidates holding anything else are
// skipped. A body matching no candidate yields an empty slice.
func (s CollectionShape) Decode(body []byte) ([]models.Recipe, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return []models.Recipe{}, nil
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("response is not valid JSON")
	}

	var object map[string]json.RawMessage
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &object); err != nil {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}

	for _, field := range s {
		var candidate json.RawMessage
		if field == RootField {
			candidate = trimmed
		} else {
			candidate = object[field]
		}
		candidate = bytes.TrimSpace(candidate)
		if len(candidate) == 0 || candidate[0] != '[' {
			continue
		}

		recipes := []models.Recipe{}
		if err := json.Unmarshal(candidate, &recipes); err != nil {
			return nil, fmt.Errorf("decode %s: %w", describeField(field), err)
		}
		return recipes, nil
	}
	return []models.Recipe{}, nil
}

func describeField(field string) string {
	if field == RootField {
		return "response root"
	}
	return fmt.Sprintf("field %q", field)
}

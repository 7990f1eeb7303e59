package models

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// WrappedContentKey is the key under which the document store nests the
// base64-encoded JSON of a wrapped field.
const WrappedContentKey = "$content"

// ValidationError reports a field whose stored or submitted JSON is malformed.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Unwrap decodes the store's wrapped encoding: a sequence whose first element
// is an object carrying base64 JSON under WrappedContentKey. Any other value is
// returned unchanged, so Unwrap is a no-op on already-unwrapped data.
func Unwrap(raw json.RawMessage) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return raw, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil || len(items) == 0 {
		return raw, nil
	}

	var head map[string]json.RawMessage
	if err := json.Unmarshal(items[0], &head); err != nil {
		return raw, nil
	}
	content, ok := head[WrappedContentKey]
	if !ok {
		return raw, nil
	}
	var encoded string
	if err := json.Unmarshal(content, &encoded); err != nil || encoded == "" {
		return raw, nil
	}

	decoded, err := decodeBase64(encoded)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", WrappedContentKey, err)
	}
	decoded = bytes.TrimSpace(decoded)
	if !json.Valid(decoded) {
		return nil, fmt.Errorf("decoded %s is not valid JSON", WrappedContentKey)
	}
	return json.RawMessage(decoded), nil
}

func unwrapField(field string, raw json.RawMessage) (json.RawMessage, error) {
	out, err := Unwrap(raw)
	if err != nil {
		return nil, &ValidationError{Field: field, Err: err}
	}
	return out, nil
}

func decodeBase64(encoded string) ([]byte, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '\f':
			return -1
		}
		return r
	}, encoded)

	decoded, err := base64.StdEncoding.DecodeString(cleaned)
	if err == nil {
		return decoded, nil
	}
	if raw, rawErr := base64.RawStdEncoding.DecodeString(strings.TrimRight(cleaned, "=")); rawErr == nil {
		return raw, nil
	}
	return nil, err
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"cookbook/internal/models"
)

func TestBeginEditAndSubmitPreservesMediaAndCreatedAt(t *testing.T) {
	media := wrap(t, map[string]string{"blobName": "cake.png"})
	reqs := make(chan capturedRequest, 2)
	c, _ := newTestClient(t, capture(t, reqs, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			_ = json.NewEncoder(w).Encode(map[string]any{
				"id":          "r1",
				"pk":          "desserts",
				"title":       "Cake",
				"description": "old",
				"ingredients": wrap(t, []string{"egg"}),
				"steps":       []string{"bake"},
				"media":       media,
				"createdAt":   "2024-05-01T10:00:00Z",
			})
			return
		}
		w.WriteHeader(http.StatusOK)
	}))

	session, err := c.BeginEdit(context.Background(), "r1")
	if err != nil {
		t.Fatalf("begin edit: %v", err)
	}
	<-reqs

	form := session.Form()
	if form.Ingredients != `["egg"]` {
		t.Fatalf("expected unwrapped ingredients in form, got %q", form.Ingredients)
	}
	if form.PK != "desserts" || form.Title != "Cake" {
		t.Fatalf("unexpected form %+v", form)
	}

	form.Title = "Better Cake"
	form.Steps = `["mix", "bake"]`
	if _, err := c.SubmitEdit(context.Background(), session, form); err != nil {
		t.Fatalf("submit: %v", err)
	}

	req := <-reqs
	if req.method != http.MethodPut || req.path != "/recipes/r1/update" {
		t.Fatalf("unexpected update request %s %s", req.method, req.path)
	}
	var sent models.Recipe
	if err := json.Unmarshal(req.body, &sent); err != nil {
		t.Fatalf("decode update body: %v", err)
	}
	if sent.ID != "r1" || sent.PK != "desserts" || sent.Title != "Better Cake" {
		t.Fatalf("unexpected update identity %+v", sent)
	}
	if string(sent.Steps) != `["mix","bake"]` {
		t.Fatalf("expected edited steps, got %s", sent.Steps)
	}
	if string(sent.Media) != string(media) {
		t.Fatalf("expected media exactly as read, got %s", sent.Media)
	}
	if string(sent.CreatedAt) != `"2024-05-01T10:00:00Z"` {
		t.Fatalf("expected createdAt as read, got %s", sent.CreatedAt)
	}
}

func TestBeginEditNotFound(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	session, err := c.BeginEdit(context.Background(), "missing")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if session != nil {
		t.Fatalf("expected nil session, got %+v", session)
	}
}

func TestBeginEditMalformedWrappedField(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":"r1","pk":"p","steps":[{"$content":"!!!"}]}`))
	})
	_, err := c.BeginEdit(context.Background(), "r1")
	var verr *models.ValidationError
	if !errors.As(err, &verr) || verr.Field != "steps" {
		t.Fatalf("expected steps validation error, got %v", err)
	}
}

func TestApplyValidatesForm(t *testing.T) {
	session := &EditSession{ID: "r1", PK: "p"}

	tests := []struct {
		name  string
		form  EditForm
		field string
	}{
		{name: "blank pk", form: EditForm{PK: " "}, field: "pk"},
		{name: "bad ingredients", form: EditForm{PK: "p", Ingredients: "egg, flour"}, field: "ingredients"},
		{name: "steps object", form: EditForm{PK: "p", Steps: `{"a":1}`}, field: "steps"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := session.Apply(tt.form)
			var verr *models.ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Fatalf("expected %s validation error, got %v", tt.field, err)
			}
		})
	}
}

func TestEditSessionTokenRoundTrip(t *testing.T) {
	session := &EditSession{
		ID:          "r1",
		PK:          "p",
		Title:       "Cake",
		Ingredients: json.RawMessage(`["egg"]`),
		Media:       json.RawMessage(`{"blobName":"cake.png"}`),
		CreatedAt:   json.RawMessage(`1714557600000`),
	}
	token, err := session.Token()
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	parsed, err := ParseEditSession(token)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.ID != "r1" || string(parsed.Media) != `{"blobName":"cake.png"}` || string(parsed.CreatedAt) != "1714557600000" {
		t.Fatalf("unexpected parsed session %+v", parsed)
	}

	for _, bad := range []string{"", "%%%", "bm90IGpzb24", "e30"} {
		if _, err := ParseEditSession(bad); !errors.Is(err, ErrInvalidEditSession) {
			t.Fatalf("expected ErrInvalidEditSession for %q, got %v", bad, err)
		}
	}
}

func TestNewCollectionShape(t *testing.T) {
	shape := NewCollectionShape([]string{" ", "value", ""}, []string{"Documents"})
	if len(shape) != 1 || shape[0] != "value" {
		t.Fatalf("unexpected shape %v", shape)
	}
	shape = NewCollectionShape(nil, []string{"Documents"})
	if len(shape) != 1 || shape[0] != "Documents" {
		t.Fatalf("expected defaults, got %v", shape)
	}
}

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"cookbook/internal/models"
)

// CreateRecipe uploads a new recipe and returns the endpoint's reply text.
func (c *Client) CreateRecipe(ctx context.Context, req CreateRequest) (string, error) {
	target, err := endpoint("create_url", c.endpoints.CreateURL)
	if err != nil {
		return "", err
	}
	ingredients, err := models.ParseList("ingredients", req.Ingredients)
	if err != nil {
		return "", err
	}
	steps, err := models.ParseList("steps", req.Steps)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := []struct{ name, value string }{
		{"pk", req.PK},
		{"title", req.Title},
		{"description", req.Description},
		{"ingredients", string(ingredients)},
		{"steps", string(steps)},
	}
	for _, field := range fields {
		if err := mw.WriteField(field.name, field.value); err != nil {
			return "", fmt.Errorf("create: write %s: %w", field.name, err)
		}
	}
	if req.File != nil {
		name := strings.TrimSpace(req.FileName)
		if name == "" {
			return "", &models.ValidationError{Field: "file", Err: fmt.Errorf("file name is required")}
		}
		part, err := mw.CreateFormFile(c.fileField, name)
		if err != nil {
			return "", fmt.Errorf("create: write file: %w", err)
		}
		if _, err := io.Copy(part, req.File); err != nil {
			return "", fmt.Errorf("create: read file: %w", err)
		}
		if err := mw.WriteField("FileName", name); err != nil {
			return "", fmt.Errorf("create: write FileName: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("create: %w", err)
	}

	c.log.Debug("uploading recipe", "title", req.Title, "size", humanize.Bytes(uint64(buf.Len())), "with_file", req.File != nil)

	resp, err := c.send(ctx, request{
		op:          "create",
		method:      http.MethodPost,
		url:         target,
		body:        buf.Bytes(),
		contentType: mw.FormDataContentType(),
	})
	if err != nil {
		return "", err
	}
	if !resp.ok() {
		return "", decodeError("create", resp)
	}
	return string(resp.body), nil
}

// ListRecipes returns every recipe. A reply without a recognised container
// field is an empty catalog, not an error.
func (c *Client) ListRecipes(ctx context.Context) ([]models.Recipe, error) {
	target, err := endpoint("list_url", c.endpoints.ListURL)
	if err != nil {
		return nil, err
	}
	resp, err := c.send(ctx, request{op: "list", method: http.MethodGet, url: target})
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, decodeError("list", resp)
	}
	recipes, err := c.listShape.Decode(resp.body)
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}
	return recipes, nil
}

// GetRecipe fetches one recipe. It returns nil, nil when the recipe does not
// exist: a 404, an empty body or a JSON null.
func (c *Client) GetRecipe(ctx context.Context, id string) (*models.Recipe, error) {
	template, err := endpoint("get_url", c.endpoints.GetURL)
	if err != nil {
		return nil, err
	}
	target, err := expandID("get_url", template, id)
	if err != nil {
		return nil, err
	}

	resp, err := c.send(ctx, request{op: "get", method: http.MethodGet, url: target})
	if err != nil {
		return nil, err
	}
	if resp.status == http.StatusNotFound {
		return nil, nil
	}
	if !resp.ok() {
		return nil, decodeError("get", resp)
	}
	return decodeRecipe("get", resp.body)
}

// UpdateRecipe replaces the stored recipe with rec and returns the record the
// endpoint echoes back, or rec itself when the reply is empty.
func (c *Client) UpdateRecipe(ctx context.Context, id string, rec models.Recipe) (*models.Recipe, error) {
	template, err := endpoint("update_url", c.endpoints.UpdateURL)
	if err != nil {
		return nil, err
	}
	target, err := expandID("update_url", template, id)
	if err != nil {
		return nil, err
	}

	if rec.ID == "" {
		rec.ID = id
	}
	rec.Tags = nil
	payload, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("update: %w", err)
	}

	resp, err := c.send(ctx, request{
		op:          "update",
		method:      http.MethodPut,
		url:         target,
		body:        payload,
		contentType: "application/json",
	})
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, decodeError("update", resp)
	}

	updated, err := decodeRecipe("update", resp.body)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return &rec, nil
	}
	return updated, nil
}

// DeleteRecipe removes a recipe. The partition key travels in a header; the
// request has no body. The endpoint's reply text is returned. A blank pk is
// rejected before anything is sent.
func (c *Client) DeleteRecipe(ctx context.Context, id, pk string) (string, error) {
	pk = strings.TrimSpace(pk)
	if pk == "" {
		return "", &models.ValidationError{Field: "pk", Err: ErrMissingPK}
	}
	template, err := endpoint("delete_url", c.endpoints.DeleteURL)
	if err != nil {
		return "", err
	}
	target, err := expandID("delete_url", template, id)
	if err != nil {
		return "", err
	}

	header := http.Header{}
	header.Set(PartitionKeyHeader, pk)
	resp, err := c.send(ctx, request{
		op:     "delete",
		method: http.MethodPost,
		url:    target,
		header: header,
	})
	if err != nil {
		return "", err
	}
	if !resp.ok() {
		return "", decodeError("delete", resp)
	}
	return string(resp.body), nil
}

// SearchRecipes runs a free-text search. It never returns an error: failures
// come back as a SearchFailed result. A blank query is an empty result and
// sends nothing.
func (c *Client) SearchRecipes(ctx context.Context, q string) SearchResult {
	result := c.search(ctx, q)
	searchOutcomesTotal.WithLabelValues(result.Status.String()).Inc()
	if result.Status == SearchFailed {
		c.log.Debug("search failed", "error", result.Err)
	}
	return result
}

func (c *Client) search(ctx context.Context, q string) SearchResult {
	result := SearchResult{Query: q, Recipes: []models.Recipe{}}
	if strings.TrimSpace(q) == "" {
		result.Status = SearchEmpty
		return result
	}

	fail := func(err error) SearchResult {
		result.Status = SearchFailed
		result.Err = err
		return result
	}

	base, err := endpoint("search_url", c.endpoints.SearchURL)
	if err != nil {
		return fail(err)
	}
	resp, err := c.send(ctx, request{op: "search", method: http.MethodGet, url: withQuery(base, q)})
	if err != nil {
		return fail(err)
	}
	if !resp.ok() {
		return fail(decodeError("search", resp))
	}
	recipes, err := c.searchShape.Decode(resp.body)
	if err != nil {
		return fail(fmt.Errorf("search: %w", err))
	}

	result.Recipes = recipes
	if len(recipes) == 0 {
		result.Status = SearchEmpty
	} else {
		result.Status = SearchOK
	}
	return result
}

// decodeRecipe decodes a single-record reply. Empty and null bodies yield nil.
func decodeRecipe(op string, body []byte) (*models.Recipe, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil, nil
	}
	if trimmed[0] != '{' {
		return nil, fmt.Errorf("%s: expected a JSON object", op)
	}
	var rec models.Recipe
	if err := json.Unmarshal(trimmed, &rec); err != nil {
		return nil, fmt.Errorf("%s: decode recipe: %w", op, err)
	}
	return &rec, nil
}

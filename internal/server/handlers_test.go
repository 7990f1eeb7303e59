package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"unicode/utf8"

	"cookbook/internal/api"
	"cookbook/internal/config"
	"cookbook/internal/models"
)

func newUpstreamClient(t *testing.T, upstream *httptest.Server) *api.Client {
	t.Helper()
	cfg := config.Default()
	cfg.Endpoints = config.EndpointConfig{
		CreateURL: upstream.URL + "/create",
		ListURL:   upstream.URL + "/list",
		GetURL:    upstream.URL + "/recipes/{id}",
		UpdateURL: upstream.URL + "/recipes/{id}/update",
		DeleteURL: upstream.URL + "/recipes/{id}/delete",
		SearchURL: upstream.URL + "/search",
	}
	return api.NewClient(&cfg, api.WithHTTPClient(upstream.Client()))
}

func wrapped(t *testing.T, v any) json.RawMessage {
	t.Helper()
	payload, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	out, err := json.Marshal([]map[string]string{{models.WrappedContentKey: base64.StdEncoding.EncodeToString(payload)}})
	if err != nil {
		t.Fatalf("marshal wrapper: %v", err)
	}
	return out
}

func pancakes(t *testing.T) models.Recipe {
	return models.Recipe{
		ID:          "r1",
		PK:          "breakfast",
		Title:       "Pancakes",
		Description: "Fluffy",
		Ingredients: wrapped(t, []string{"flour", "milk"}),
		Steps:       json.RawMessage(`["mix","fry"]`),
		Media:       json.RawMessage(`"pancakes.jpg"`),
		CreatedAt:   json.RawMessage(`"2024-01-02T03:04:05Z"`),
	}
}

func serve(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func postForm(target string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func multipartRequest(t *testing.T, target string, fields map[string]string, fileName, fileBody string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if fileName != "" {
		part, err := mw.CreateFormFile(fileInputName, fileName)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write([]byte(fileBody)); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close multipart: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func createFields() map[string]string {
	return map[string]string{
		"pk":          "breakfast",
		"title":       "Pancakes",
		"description": "Fluffy",
		"ingredients": `["flour","milk"]`,
		"steps":       `["mix","fry"]`,
	}
}

func TestIndexRedirectsToList(t *testing.T) {
	_, h := newTestServer(t, &fakeRecipes{}, Options{})
	w := serve(h, httptest.NewRequest(http.MethodGet, "/", nil))
	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/recipes" {
		t.Fatalf("unexpected location %q", loc)
	}
}

func TestListRecipesPage(t *testing.T) {
	t.Run("renders normalized recipes", func(t *testing.T) {
		_, h := newTestServer(t, &fakeRecipes{recipes: []models.Recipe{pancakes(t)}}, Options{})
		w := serve(h, httptest.NewRequest(http.MethodGet, "/recipes?msg=Recipe+created", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := w.Body.String()
		for _, want := range []string{
			"Recipe created",
			"Pancakes",
			"<li>flour</li>",
			"<li>fry</li>",
			"pancakes.jpg",
			`href="/recipes/r1/edit"`,
			`href="/recipes/r1/delete"`,
		} {
			if !strings.Contains(body, want) {
				t.Fatalf("expected %q in page:\n%s", want, body)
			}
		}
		if strings.Contains(body, `id="recipeResults"`) {
			t.Fatal("did not expect a search panel without a query")
		}
	})

	t.Run("malformed record renders as error card", func(t *testing.T) {
		broken := models.Recipe{
			ID:          "bad",
			PK:          "p",
			Title:       "Broken",
			Ingredients: json.RawMessage(`[{"$content":"%%%"}]`),
		}
		_, h := newTestServer(t, &fakeRecipes{recipes: []models.Recipe{broken, pancakes(t)}}, Options{})
		w := serve(h, httptest.NewRequest(http.MethodGet, "/recipes", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, `id="recipe-bad"`) || !strings.Contains(body, "ingredients") {
			t.Fatalf("expected broken card with field problem, got:\n%s", body)
		}
		if !strings.Contains(body, "<li>flour</li>") {
			t.Fatal("expected healthy recipe to still render")
		}
	})

	t.Run("empty catalog", func(t *testing.T) {
		_, h := newTestServer(t, &fakeRecipes{}, Options{})
		w := serve(h, httptest.NewRequest(http.MethodGet, "/recipes", nil))
		if !strings.Contains(w.Body.String(), "No recipes yet.") {
			t.Fatalf("expected empty catalog message, got:\n%s", w.Body.String())
		}
	})

	t.Run("upstream failure is a bad gateway", func(t *testing.T) {
		_, h := newTestServer(t, &fakeRecipes{listErr: errors.New("connection refused")}, Options{})
		w := serve(h, httptest.NewRequest(http.MethodGet, "/recipes", nil))
		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "Could not load recipes: connection refused") {
			t.Fatalf("expected failure message, got:\n%s", w.Body.String())
		}
	})
}

func TestSearchPanel(t *testing.T) {
	tests := []struct {
		name   string
		result api.SearchResult
		want   []string
	}{
		{
			name:   "results",
			result: api.SearchResult{Status: api.SearchOK, Recipes: []models.Recipe{{ID: "s1", PK: "p", Title: "Soup"}}},
			want:   []string{`data-status="ok"`, `id="recipe-s1"`},
		},
		{
			name:   "no matches",
			result: api.SearchResult{Status: api.SearchEmpty, Recipes: []models.Recipe{}},
			want:   []string{`data-status="empty"`, "No recipes found"},
		},
		{
			name:   "failure",
			result: api.SearchResult{Status: api.SearchFailed, Err: errors.New("index offline")},
			want:   []string{`data-status="failed"`, "Search failed: index offline"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recipes := &fakeRecipes{search: tt.result}
			_, h := newTestServer(t, recipes, Options{})
			w := serve(h, httptest.NewRequest(http.MethodGet, "/recipes?q=hot+soup", nil))
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d", w.Code)
			}
			body := w.Body.String()
			for _, want := range tt.want {
				if !strings.Contains(body, want) {
					t.Fatalf("expected %q in page:\n%s", want, body)
				}
			}
			if len(recipes.searched) != 1 || recipes.searched[0] != "hot soup" {
				t.Fatalf("unexpected searches %v", recipes.searched)
			}
		})
	}

	t.Run("blank query does not search", func(t *testing.T) {
		recipes := &fakeRecipes{}
		_, h := newTestServer(t, recipes, Options{})
		serve(h, httptest.NewRequest(http.MethodGet, "/recipes?q=+++", nil))
		if len(recipes.searched) != 0 {
			t.Fatalf("expected no search, got %v", recipes.searched)
		}
	})

	t.Run("rate limited", func(t *testing.T) {
		recipes := &fakeRecipes{
			recipes: []models.Recipe{pancakes(t)},
			search:  api.SearchResult{Status: api.SearchEmpty},
		}
		_, h := newTestServer(t, recipes, Options{SearchRate: 0.001, SearchBurst: 1})

		first := serve(h, httptest.NewRequest(http.MethodGet, "/recipes?q=soup", nil))
		if first.Code != http.StatusOK {
			t.Fatalf("expected first search to pass, got %d", first.Code)
		}
		second := serve(h, httptest.NewRequest(http.MethodGet, "/recipes?q=soup", nil))
		if second.Code != http.StatusOK {
			t.Fatalf("expected throttled search to keep the page at 200, got %d", second.Code)
		}
		body := second.Body.String()
		if !strings.Contains(body, `data-status="failed"`) || !strings.Contains(body, "too many searches") {
			t.Fatalf("expected throttle message in search panel:\n%s", body)
		}
		if !strings.Contains(body, "Pancakes") {
			t.Fatalf("expected catalog list to still render:\n%s", body)
		}
		if len(recipes.searched) != 1 {
			t.Fatalf("expected one upstream search, got %d", len(recipes.searched))
		}
	})
}

func TestNewRecipeForm(t *testing.T) {
	_, h := newTestServer(t, &fakeRecipes{}, Options{})
	w := serve(h, httptest.NewRequest(http.MethodGet, "/recipes/new", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	for _, want := range []string{`id="createForm"`, `enctype="multipart/form-data"`, `name="file"`, `action="/recipes"`} {
		if !strings.Contains(body, want) {
			t.Fatalf("expected %q in form:\n%s", want, body)
		}
	}
	if strings.Contains(body, `name="session"`) {
		t.Fatal("create form must not carry an edit session")
	}
}

func TestCreateRecipe(t *testing.T) {
	t.Run("multipart with image", func(t *testing.T) {
		recipes := &fakeRecipes{}
		_, h := newTestServer(t, recipes, Options{})
		w := serve(h, multipartRequest(t, "/recipes", createFields(), "../pancakes.jpg", "JPEGDATA"))

		if w.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d (%s)", w.Code, w.Body.String())
		}
		if loc := w.Header().Get("Location"); loc != "/recipes?msg=Recipe+created" {
			t.Fatalf("unexpected location %q", loc)
		}
		if len(recipes.created) != 1 {
			t.Fatalf("expected one create call, got %d", len(recipes.created))
		}
		got := recipes.created[0]
		if got.PK != "breakfast" || got.Title != "Pancakes" || got.Ingredients != `["flour","milk"]` {
			t.Fatalf("unexpected create request %+v", got)
		}
		if got.FileName != "pancakes.jpg" {
			t.Fatalf("expected sanitized file name, got %q", got.FileName)
		}
		if recipes.fileBytes[0] != "JPEGDATA" {
			t.Fatalf("unexpected file content %q", recipes.fileBytes[0])
		}
	})

	t.Run("urlencoded without image", func(t *testing.T) {
		recipes := &fakeRecipes{}
		_, h := newTestServer(t, recipes, Options{})
		values := url.Values{}
		for k, v := range createFields() {
			values.Set(k, v)
		}
		w := serve(h, postForm("/recipes", values))
		if w.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d (%s)", w.Code, w.Body.String())
		}
		if recipes.created[0].File != nil {
			t.Fatal("expected no file")
		}
	})

	t.Run("validation error keeps the form", func(t *testing.T) {
		recipes := &fakeRecipes{createErr: &models.ValidationError{Field: "steps", Err: errors.New("must be a JSON array")}}
		_, h := newTestServer(t, recipes, Options{})
		w := serve(h, multipartRequest(t, "/recipes", createFields(), "", ""))
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, "must be a JSON array") || !strings.Contains(body, `aria-invalid="true"`) {
			t.Fatalf("expected field error in form:\n%s", body)
		}
		if !strings.Contains(body, `value="Pancakes"`) {
			t.Fatal("expected submitted values to be kept")
		}
	})

	t.Run("upstream error", func(t *testing.T) {
		recipes := &fakeRecipes{createErr: &api.APIError{Op: "create", Status: http.StatusInternalServerError, Message: "boom"}}
		_, h := newTestServer(t, recipes, Options{})
		w := serve(h, multipartRequest(t, "/recipes", createFields(), "", ""))
		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "The recipe service failed") {
			t.Fatalf("expected failure message:\n%s", w.Body.String())
		}
	})

	t.Run("upload too large", func(t *testing.T) {
		recipes := &fakeRecipes{}
		_, h := newTestServer(t, recipes, Options{MaxUploadBytes: 1024, MultipartMaxMemory: 512})
		w := serve(h, multipartRequest(t, "/recipes", createFields(), "big.jpg", strings.Repeat("x", 4096)))
		if w.Code != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected 413, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "upload exceeds the 1.0 KiB limit") {
			t.Fatalf("expected size message:\n%s", w.Body.String())
		}
		if len(recipes.created) != 0 {
			t.Fatal("expected no create call")
		}
	})
}

func TestEditRecipe(t *testing.T) {
	t.Run("form carries session token", func(t *testing.T) {
		_, h := newTestServer(t, &fakeRecipes{recipes: []models.Recipe{pancakes(t)}}, Options{})
		w := serve(h, httptest.NewRequest(http.MethodGet, "/recipes/r1/edit", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := w.Body.String()
		for _, want := range []string{`name="session"`, `action="/recipes/r1"`, `id="cancelEdit"`, "flour"} {
			if !strings.Contains(body, want) {
				t.Fatalf("expected %q in edit form:\n%s", want, body)
			}
		}
		if strings.Contains(body, `name="file"`) {
			t.Fatal("edit form must not offer an image upload")
		}
	})

	t.Run("missing recipe returns to list", func(t *testing.T) {
		_, h := newTestServer(t, &fakeRecipes{}, Options{})
		w := serve(h, httptest.NewRequest(http.MethodGet, "/recipes/nope/edit", nil))
		if w.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", w.Code)
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		_, h := newTestServer(t, &fakeRecipes{getErr: errors.New("timeout")}, Options{})
		w := serve(h, httptest.NewRequest(http.MethodGet, "/recipes/r1/edit", nil))
		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
	})
}

func sessionToken(t *testing.T, rec models.Recipe) string {
	t.Helper()
	session, err := api.NewEditSession(rec)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	token, err := session.Token()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return token
}

func TestUpdateRecipe(t *testing.T) {
	editValues := func(token string) url.Values {
		return url.Values{
			sessionInputName: {token},
			"pk":             {"breakfast"},
			"title":          {"Better pancakes"},
			"description":    {"Fluffier"},
			"ingredients":    {`["flour","milk","egg"]`},
			"steps":          {`["mix","rest","fry"]`},
		}
	}

	t.Run("submits and preserves session fields", func(t *testing.T) {
		rec := pancakes(t)
		recipes := &fakeRecipes{recipes: []models.Recipe{rec}}
		_, h := newTestServer(t, recipes, Options{})

		w := serve(h, postForm("/recipes/r1", editValues(sessionToken(t, rec))))
		if w.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d (%s)", w.Code, w.Body.String())
		}
		if loc := w.Header().Get("Location"); loc != "/recipes?msg=Recipe+updated" {
			t.Fatalf("unexpected location %q", loc)
		}
		if len(recipes.submitted) != 1 {
			t.Fatalf("expected one update, got %d", len(recipes.submitted))
		}
		got := recipes.submitted[0]
		if got.ID != "r1" || got.Title != "Better pancakes" {
			t.Fatalf("unexpected update %+v", got)
		}
		if string(got.Media) != string(rec.Media) || string(got.CreatedAt) != string(rec.CreatedAt) {
			t.Fatalf("expected media and createdAt preserved, got %s %s", got.Media, got.CreatedAt)
		}
	})

	t.Run("invalid token", func(t *testing.T) {
		_, h := newTestServer(t, &fakeRecipes{}, Options{})
		w := serve(h, postForm("/recipes/r1", editValues("not-a-token")))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
	})

	t.Run("token for another recipe", func(t *testing.T) {
		recipes := &fakeRecipes{}
		_, h := newTestServer(t, recipes, Options{})
		w := serve(h, postForm("/recipes/r2", editValues(sessionToken(t, pancakes(t)))))
		if w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", w.Code)
		}
		if len(recipes.submitted) != 0 {
			t.Fatal("expected no update")
		}
	})

	t.Run("invalid ingredients re-render the form", func(t *testing.T) {
		recipes := &fakeRecipes{}
		_, h := newTestServer(t, recipes, Options{})
		values := editValues(sessionToken(t, pancakes(t)))
		values.Set("ingredients", "flour, milk")
		w := serve(h, postForm("/recipes/r1", values))
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, `name="session"`) || !strings.Contains(body, "flour, milk") {
			t.Fatalf("expected edit form with submitted text:\n%s", body)
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		recipes := &fakeRecipes{updateErr: errors.New("conflict")}
		_, h := newTestServer(t, recipes, Options{})
		w := serve(h, postForm("/recipes/r1", editValues(sessionToken(t, pancakes(t)))))
		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
	})
}

func TestDeleteRecipe(t *testing.T) {
	t.Run("confirmation page", func(t *testing.T) {
		_, h := newTestServer(t, &fakeRecipes{recipes: []models.Recipe{pancakes(t)}}, Options{})
		w := serve(h, httptest.NewRequest(http.MethodGet, "/recipes/r1/delete", nil))
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		body := w.Body.String()
		if !strings.Contains(body, "Are you sure you want to delete recipe r1?") {
			t.Fatalf("expected confirmation prompt:\n%s", body)
		}
		if !strings.Contains(body, `name="pk" value="breakfast"`) {
			t.Fatalf("expected pk hidden field:\n%s", body)
		}
	})

	t.Run("confirmation for missing recipe returns to list", func(t *testing.T) {
		_, h := newTestServer(t, &fakeRecipes{}, Options{})
		w := serve(h, httptest.NewRequest(http.MethodGet, "/recipes/nope/delete", nil))
		if w.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", w.Code)
		}
	})

	t.Run("deletes with submitted pk", func(t *testing.T) {
		recipes := &fakeRecipes{}
		_, h := newTestServer(t, recipes, Options{})
		w := serve(h, postForm("/recipes/r1/delete", url.Values{"pk": {"breakfast"}}))
		if w.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/recipes?msg=Deleted+r1" {
			t.Fatalf("unexpected location %q", loc)
		}
		if len(recipes.deleted) != 1 || recipes.deleted[0] != "r1/breakfast" {
			t.Fatalf("unexpected deletes %v", recipes.deleted)
		}
	})

	t.Run("blank pk is rejected without calling the service", func(t *testing.T) {
		recipes := &fakeRecipes{}
		_, h := newTestServer(t, recipes, Options{})
		w := serve(h, postForm("/recipes/r1/delete", url.Values{"pk": {" "}}))
		if w.Code != http.StatusUnprocessableEntity {
			t.Fatalf("expected 422, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "partition key is required") {
			t.Fatalf("expected pk message, got %q", w.Body.String())
		}
		if len(recipes.deleted) != 0 {
			t.Fatalf("expected no deletes, got %v", recipes.deleted)
		}
	})

	t.Run("upstream failure", func(t *testing.T) {
		_, h := newTestServer(t, &fakeRecipes{deleteErr: &api.APIError{Op: "delete", Status: 404, Message: "gone"}}, Options{})
		w := serve(h, postForm("/recipes/r1/delete", url.Values{"pk": {"breakfast"}}))
		if w.Code != http.StatusBadGateway {
			t.Fatalf("expected 502, got %d", w.Code)
		}
	})
}

func TestRedirectMessageTruncated(t *testing.T) {
	long := strings.Repeat("a", maxFlashLength+50)
	srv, _ := newTestServer(t, &fakeRecipes{}, Options{})

	w := httptest.NewRecorder()
	srv.redirectWithMessage(w, httptest.NewRequest(http.MethodPost, "/recipes", nil), long, "fallback")
	loc, err := url.Parse(w.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	msg := loc.Query().Get("msg")
	if len(msg) != maxFlashLength+3 || !strings.HasSuffix(msg, "...") {
		t.Fatalf("unexpected flash %q", msg)
	}

	multibyte := strings.Repeat("é", maxFlashLength+1)
	w = httptest.NewRecorder()
	srv.redirectWithMessage(w, httptest.NewRequest(http.MethodPost, "/recipes", nil), multibyte, "fallback")
	loc, err = url.Parse(w.Header().Get("Location"))
	if err != nil {
		t.Fatalf("parse location: %v", err)
	}
	msg = loc.Query().Get("msg")
	if !utf8.ValidString(msg) {
		t.Fatalf("flash is not valid UTF-8: %q", msg)
	}
	if got := utf8.RuneCountInString(strings.TrimSuffix(msg, "...")); got != maxFlashLength {
		t.Fatalf("expected %d runes before ellipsis, got %d", maxFlashLength, got)
	}
}

func TestUIAgainstUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/list":
			_, _ = w.Write([]byte(`{"Documents":[{"id":"r1","pk":"breakfast","title":"Pancakes","ingredients":["flour"],"steps":["fry"]}]}`))
		case "/search":
			_, _ = w.Write([]byte(`{"value":[]}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer upstream.Close()

	_, h := newTestServer(t, newUpstreamClient(t, upstream), Options{})

	w := serve(h, httptest.NewRequest(http.MethodGet, "/recipes?q=nothing", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.Contains(body, "No recipes found") || !strings.Contains(body, "Pancakes") {
		t.Fatalf("unexpected page:\n%s", body)
	}

	w = serve(h, httptest.NewRequest(http.MethodGet, "/recipes/missing/edit", nil))
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303 for unknown recipe, got %d", w.Code)
	}
}

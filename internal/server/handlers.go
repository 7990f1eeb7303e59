package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"

	"cookbook/internal/api"
	"cookbook/internal/models"
)

const (
	fileInputName    = "file"
	sessionInputName = "session"
	maxFlashLength   = 200
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/recipes", http.StatusFound)
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	s.renderError(w, r, http.StatusNotFound, errors.New("page not found"))
}

func (s *Server) handleListRecipes(w http.ResponseWriter, r *http.Request) {
	data := listPage{page: s.newPage("Recipes")}
	data.Message = r.URL.Query().Get("msg")
	status := http.StatusOK

	if q := r.URL.Query().Get("q"); strings.TrimSpace(q) != "" {
		data.Search = s.search(r, q)
	}

	recipes, err := s.recipes.ListRecipes(r.Context())
	if err != nil {
		s.log().Error("list recipes", "error", err)
		data.Error = "Could not load recipes: " + err.Error()
		status = http.StatusBadGateway
	} else {
		data.Recipes = s.cards(recipes)
	}

	s.render(w, r, status, "list", data)
}

// search runs a throttled search. A throttled query only fails the search
// panel; the rest of the page renders as usual.
func (s *Server) search(r *http.Request, q string) *searchPanel {
	panel := &searchPanel{Query: q}
	if !s.searchLimiter.Allow() {
		searchRateLimited.Inc()
		panel.Status = api.SearchFailed.String()
		panel.Error = "too many searches, try again shortly"
		return panel
	}

	result := s.recipes.SearchRecipes(r.Context(), q)
	panel.Status = result.Status.String()
	if result.Err != nil {
		s.log().Warn("search failed", "query", q, "error", result.Err)
		panel.Error = result.Err.Error()
	}
	panel.Recipes = s.cards(result.Recipes)
	return panel
}

func (s *Server) handleNewRecipe(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusOK, "form", s.createForm(api.EditForm{Ingredients: "[]", Steps: "[]"}))
}

func (s *Server) createForm(form api.EditForm) formPage {
	return formPage{
		page:   s.newPage("New recipe"),
		Action: "/recipes",
		Submit: "Upload",
		Form:   form,
	}
}

func (s *Server) handleCreateRecipe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := s.parseForm(r); err != nil {
		s.renderParseError(w, r, s.createForm(editFormFrom(r)), err)
		return
	}
	if r.MultipartForm != nil {
		defer func() { _ = r.MultipartForm.RemoveAll() }()
	}

	form := editFormFrom(r)
	req := api.CreateRequest{
		PK:          form.PK,
		Title:       form.Title,
		Description: form.Description,
		Ingredients: form.Ingredients,
		Steps:       form.Steps,
	}

	file, header, err := r.FormFile(fileInputName)
	switch {
	case err == nil:
		defer file.Close()
		req.File = file
		req.FileName = filepath.Base(header.Filename)
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		s.renderParseError(w, r, s.createForm(form), err)
		return
	}

	reply, err := s.recipes.CreateRecipe(r.Context(), req)
	if err != nil {
		s.renderFormError(w, r, s.createForm(form), err)
		return
	}
	s.redirectWithMessage(w, r, reply, "Recipe created")
}

func (s *Server) handleEditRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	session, err := s.recipes.BeginEdit(r.Context(), id)
	if err != nil {
		s.renderUpstreamError(w, r, err)
		return
	}
	if session == nil {
		http.Redirect(w, r, "/recipes", http.StatusSeeOther)
		return
	}

	data, err := s.editForm(session, session.Form())
	if err != nil {
		s.renderError(w, r, http.StatusInternalServerError, err)
		return
	}
	s.render(w, r, http.StatusOK, "form", data)
}

func (s *Server) editForm(session *api.EditSession, form api.EditForm) (formPage, error) {
	token, err := session.Token()
	if err != nil {
		return formPage{}, err
	}
	return formPage{
		page:    s.newPage("Edit recipe"),
		Action:  "/recipes/" + url.PathEscape(session.ID),
		Submit:  "Save changes",
		Editing: true,
		ID:      session.ID,
		Token:   token,
		Form:    form,
	}, nil
}

func (s *Server) handleUpdateRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxUploadBytes)
	if err := s.parseForm(r); err != nil {
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}

	session, err := api.ParseEditSession(r.PostFormValue(sessionInputName))
	if err != nil || session.ID != id {
		s.renderError(w, r, http.StatusBadRequest, errors.New("the edit session is invalid, reopen the recipe and try again"))
		return
	}

	form := editFormFrom(r)
	if _, err := s.recipes.SubmitEdit(r.Context(), session, form); err != nil {
		data, tokenErr := s.editForm(session, form)
		if tokenErr != nil {
			s.renderError(w, r, http.StatusInternalServerError, tokenErr)
			return
		}
		s.renderFormError(w, r, data, err)
		return
	}
	s.redirectWithMessage(w, r, "", "Recipe updated")
}

func (s *Server) handleConfirmDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.recipes.GetRecipe(r.Context(), id)
	if err != nil {
		s.renderUpstreamError(w, r, err)
		return
	}
	if rec == nil {
		http.Redirect(w, r, "/recipes", http.StatusSeeOther)
		return
	}

	data := deletePage{page: s.newPage("Delete recipe"), Recipe: s.card(*rec)}
	if data.Recipe.ID == "" {
		data.Recipe.ID = id
	}
	s.render(w, r, http.StatusOK, "delete", data)
}

func (s *Server) handleDeleteRecipe(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.parseForm(r); err != nil {
		s.renderError(w, r, http.StatusBadRequest, err)
		return
	}

	pk := strings.TrimSpace(r.PostFormValue("pk"))
	if pk == "" {
		s.renderError(w, r, http.StatusUnprocessableEntity, &models.ValidationError{Field: "pk", Err: api.ErrMissingPK})
		return
	}

	reply, err := s.recipes.DeleteRecipe(r.Context(), id, pk)
	if err != nil {
		s.renderUpstreamError(w, r, err)
		return
	}
	s.redirectWithMessage(w, r, reply, "Recipe deleted")
}

// parseForm accepts both multipart and urlencoded bodies.
func (s *Server) parseForm(r *http.Request) error {
	err := r.ParseMultipartForm(s.opts.MultipartMaxMemory)
	if errors.Is(err, http.ErrNotMultipart) {
		return r.ParseForm()
	}
	return err
}

func editFormFrom(r *http.Request) api.EditForm {
	return api.EditForm{
		PK:          r.FormValue("pk"),
		Title:       r.FormValue("title"),
		Description: r.FormValue("description"),
		Ingredients: r.FormValue("ingredients"),
		Steps:       r.FormValue("steps"),
	}
}

// redirectWithMessage sends the browser back to the list, showing the
// service's reply text, or fallback when the reply is empty.
func (s *Server) redirectWithMessage(w http.ResponseWriter, r *http.Request, reply, fallback string) {
	message := strings.TrimSpace(reply)
	if message == "" {
		message = fallback
	}
	if runes := []rune(message); len(runes) > maxFlashLength {
		message = string(runes[:maxFlashLength]) + "..."
	}
	http.Redirect(w, r, "/recipes?msg="+url.QueryEscape(message), http.StatusSeeOther)
}

func (s *Server) renderParseError(w http.ResponseWriter, r *http.Request, data formPage, err error) {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		data.Error = fmt.Sprintf("upload exceeds the %s limit", humanize.IBytes(uint64(maxErr.Limit)))
		s.render(w, r, http.StatusRequestEntityTooLarge, "form", data)
		return
	}
	data.Error = "could not read the form: " + err.Error()
	s.render(w, r, http.StatusBadRequest, "form", data)
}

func (s *Server) renderFormError(w http.ResponseWriter, r *http.Request, data formPage, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		data.Error = verr.Error()
		data.Field = verr.Field
		s.render(w, r, http.StatusUnprocessableEntity, "form", data)
		return
	}
	s.log().Error("recipe service call failed", "path", r.URL.Path, "error", err)
	data.Error = "The recipe service failed: " + err.Error()
	s.render(w, r, http.StatusBadGateway, "form", data)
}

func (s *Server) renderUpstreamError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		s.renderError(w, r, http.StatusUnprocessableEntity, err)
		return
	}
	s.renderError(w, r, http.StatusBadGateway, err)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if err == nil {
		err = errors.New(http.StatusText(status))
	}

	fields := []any{"status", status, "error", err, "method", r.Method, "path", r.URL.Path}
	message := err.Error()
	switch {
	case status == http.StatusInternalServerError:
		s.log().Error("request error", fields...)
		message = "internal error"
	case status >= 500:
		s.log().Error("request error", fields...)
	default:
		s.log().Debug("request rejected", fields...)
	}

	data := s.newPage(http.StatusText(status))
	data.Error = message
	s.render(w, r, status, "error", data)
}

package server

import (
	"cookbook/internal/api"
	"cookbook/internal/models"
)

// page carries the fields the shared layout reads.
type page struct {
	Title      string
	Message    string
	Error      string
	ErrorImage string
}

// recipeCard is a recipe ready for display. Problem is set when the stored
// record could not be normalized; the card then shows only identity fields.
type recipeCard struct {
	models.View
	Problem string
}

type searchPanel struct {
	Query   string
	Status  string
	Recipes []recipeCard
	Error   string
}

type listPage struct {
	page
	Recipes []recipeCard
	Search  *searchPanel
}

type formPage struct {
	page
	Action  string
	Submit  string
	Editing bool
	ID      string
	Token   string
	Form    api.EditForm
	Field   string
}

type deletePage struct {
	page
	Recipe recipeCard
}

func (s *Server) newPage(title string) page {
	return page{Title: title, ErrorImage: s.resolver.ErrorImage()}
}

func (s *Server) cards(recipes []models.Recipe) []recipeCard {
	out := make([]recipeCard, 0, len(recipes))
	for _, rec := range recipes {
		out = append(out, s.card(rec))
	}
	return out
}

func (s *Server) card(rec models.Recipe) recipeCard {
	view, err := rec.View(s.resolver.Resolve(rec.Media))
	if err != nil {
		s.log().Warn("recipe could not be normalized", "id", rec.ID, "error", err)
		return recipeCard{
			View: models.View{
				ID:       rec.ID,
				PK:       rec.PK,
				Title:    rec.Title,
				ImageURL: s.resolver.ErrorImage(),
			},
			Problem: err.Error(),
		}
	}
	return recipeCard{View: view}
}

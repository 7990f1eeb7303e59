package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.withRequestLogging)
	r.Use(s.withMetrics)
	r.Use(middleware.Recoverer)
	r.Use(s.withUpstreamRequestID)

	// Health, metrics and static assets.
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Method(http.MethodGet, "/ui/*", s.uiAssetHandler())

	r.Get("/", s.handleIndex)

	// Recipes collection.
	r.Get("/recipes", s.handleListRecipes)
	r.Post("/recipes", s.handleCreateRecipe)
	r.Get("/recipes/new", s.handleNewRecipe)

	// Single recipe.
	r.Get("/recipes/{id}/edit", s.handleEditRecipe)
	r.Post("/recipes/{id}", s.handleUpdateRecipe)
	r.Get("/recipes/{id}/delete", s.handleConfirmDelete)
	r.Post("/recipes/{id}/delete", s.handleDeleteRecipe)

	r.NotFound(s.handleNotFound)
	return r
}

package main

import (
	"fmt"
	"os"
	"strings"

	"cookbook/internal/format"
	"cookbook/internal/media"
	"cookbook/internal/models"
)

// Empty states printed by list and search.
const (
	emptyListMessage   = "No recipes yet."
	emptySearchMessage = "No recipes found"
)

var outputFormatter format.Formatter = format.JSONFormatter{}

func writeJSON(payload any) error {
	return outputFormatter.Write(os.Stdout, payload)
}

func writePlain(format string, args ...any) error {
	_, err := fmt.Fprintf(os.Stdout, format, args...)
	return err
}

// recipeEntry is a display record. A stored record that cannot be normalized
// keeps its identity fields and reports the problem in Error.
type recipeEntry struct {
	models.View `yaml:",inline"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

func recipeEntries(recipes []models.Recipe, resolver media.Resolver) []recipeEntry {
	out := make([]recipeEntry, 0, len(recipes))
	for _, rec := range recipes {
		out = append(out, newRecipeEntry(rec, resolver))
	}
	return out
}

func newRecipeEntry(rec models.Recipe, resolver media.Resolver) recipeEntry {
	view, err := rec.View(resolver.Resolve(rec.Media))
	if err != nil {
		return recipeEntry{
			View: models.View{
				ID:       rec.ID,
				PK:       rec.PK,
				Title:    rec.Title,
				ImageURL: resolver.ErrorImage(),
			},
			Error: err.Error(),
		}
	}
	return recipeEntry{View: view}
}

func writeRecipeList(entries []recipeEntry) error {
	for _, entry := range entries {
		if err := writePlain("%s\n", formatRecipeLine(entry)); err != nil {
			return err
		}
	}
	return nil
}

func formatRecipeLine(entry recipeEntry) string {
	line := fmt.Sprintf("○ %s [%s] - %s", entry.ID, entry.PK, entry.Title)
	if entry.Error != "" {
		return line + " (" + entry.Error + ")"
	}
	return line + "  " + entry.ImageURL
}

func writeRecipeDetail(entry recipeEntry) error {
	lines := []string{
		fmt.Sprintf("id: %s", entry.ID),
		fmt.Sprintf("pk: %s", entry.PK),
		fmt.Sprintf("title: %s", entry.Title),
	}
	if entry.Description != "" {
		lines = append(lines, fmt.Sprintf("description: %s", entry.Description))
	}
	lines = append(lines, fmt.Sprintf("image: %s", entry.ImageURL))
	if entry.Error != "" {
		lines = append(lines, fmt.Sprintf("error: %s", entry.Error))
		return writePlain("%s\n", strings.Join(lines, "\n"))
	}

	if len(entry.Tags) > 0 {
		lines = append(lines, fmt.Sprintf("tags: %s", strings.Join(entry.Tags, ", ")))
	}
	if len(entry.IngredientLines) > 0 {
		lines = append(lines, "ingredients:")
		for _, line := range entry.IngredientLines {
			lines = append(lines, "  - "+line)
		}
	}
	if len(entry.StepLines) > 0 {
		lines = append(lines, "steps:")
		for i, line := range entry.StepLines {
			lines = append(lines, fmt.Sprintf("  %d. %s", i+1, line))
		}
	}
	if created, ok := entry.CreatedAt.(string); ok && created != "" {
		lines = append(lines, fmt.Sprintf("created_at: %s", created))
	}

	return writePlain("%s\n", strings.Join(lines, "\n"))
}

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"cookbook/internal/api"
	"cookbook/internal/config"
)

type searchOutput struct {
	Query   string        `json:"query" yaml:"query"`
	Status  string        `json:"status" yaml:"status"`
	Recipes []recipeEntry `json:"recipes" yaml:"recipes"`
}

func newSearchCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query...>",
		Short: "Search recipes",
		Args:  requireAtLeastArgs(1, "search query is required"),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := strings.Join(args, " ")
			if strings.TrimSpace(q) == "" {
				return errors.New("search query is required")
			}

			return withClient(cfg, func(client *api.Client) error {
				result := client.SearchRecipes(cmd.Context(), q)
				if result.Status == api.SearchFailed {
					return fmt.Errorf("search failed: %w", result.Err)
				}

				entries := recipeEntries(result.Recipes, cfg.Resolver())
				if *jsonOutput {
					return writeJSON(searchOutput{Query: q, Status: result.Status.String(), Recipes: entries})
				}
				if result.Status == api.SearchEmpty {
					return writePlain("%s\n", emptySearchMessage)
				}
				return writeRecipeList(entries)
			})
		},
	}
}

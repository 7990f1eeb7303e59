package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cookbook/internal/api"
	"cookbook/internal/config"
	"cookbook/internal/models"
)

func newShowCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show recipe details",
		Args:  requireRecipeID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				rec, err := getExisting(cmd.Context(), client, args[0])
				if err != nil {
					return err
				}
				entry := newRecipeEntry(*rec, cfg.Resolver())
				if *jsonOutput {
					return writeJSON(entry)
				}
				return writeRecipeDetail(entry)
			})
		},
	}
}

// getExisting reads a recipe and turns a missing one into an error.
func getExisting(ctx context.Context, client *api.Client, id string) (*models.Recipe, error) {
	rec, err := client.GetRecipe(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, notFoundError(id)
	}
	return rec, nil
}

func notFoundError(id string) error {
	return fmt.Errorf("recipe %s not found", id)
}

package main

import (
	"github.com/spf13/cobra"

	"cookbook/internal/api"
	"cookbook/internal/config"
)

func newListCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				recipes, err := client.ListRecipes(cmd.Context())
				if err != nil {
					return err
				}
				entries := recipeEntries(recipes, cfg.Resolver())
				if *jsonOutput {
					return writeJSON(entries)
				}
				if len(entries) == 0 {
					return writePlain("%s\n", emptyListMessage)
				}
				return writeRecipeList(entries)
			})
		},
	}
}

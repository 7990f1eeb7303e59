package main

import (
	"github.com/spf13/cobra"

	"cookbook/internal/api"
	"cookbook/internal/config"
)

func newUpdateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var form api.EditForm

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a recipe",
		Long:  "Update a recipe. Fields whose flags are not given keep their current values.",
		Args:  requireRecipeID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				session, err := client.BeginEdit(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if session == nil {
					return notFoundError(args[0])
				}

				submitted := mergeEditFlags(cmd, session.Form(), form)
				rec, err := client.SubmitEdit(cmd.Context(), session, submitted)
				if err != nil {
					return err
				}

				entry := newRecipeEntry(*rec, cfg.Resolver())
				if *jsonOutput {
					return writeJSON(entry)
				}
				return writePlain("Updated %s\n", entry.ID)
			})
		},
	}

	cmd.Flags().StringVar(&form.PK, "pk", "", "partition key")
	cmd.Flags().StringVar(&form.Title, "title", "", "recipe title")
	cmd.Flags().StringVar(&form.Description, "description", "", "recipe description")
	cmd.Flags().StringVar(&form.Ingredients, "ingredients", "", "ingredients as a JSON array")
	cmd.Flags().StringVar(&form.Steps, "steps", "", "steps as a JSON array")
	return cmd
}

// mergeEditFlags overlays the flags the user actually set onto the form.
func mergeEditFlags(cmd *cobra.Command, current, flags api.EditForm) api.EditForm {
	out := current
	set := func(name string, target *string, value string) {
		if cmd.Flags().Changed(name) {
			*target = value
		}
	}
	set("pk", &out.PK, flags.PK)
	set("title", &out.Title, flags.Title)
	set("description", &out.Description, flags.Description)
	set("ingredients", &out.Ingredients, flags.Ingredients)
	set("steps", &out.Steps, flags.Steps)
	return out
}

package main

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"cookbook/internal/api"
	"cookbook/internal/config"
)

type createCmdOptions struct {
	pk          string
	title       string
	description string
	ingredients string
	steps       string
	filePath    string
}

func newCreateCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	opts := &createCmdOptions{}
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Upload a new recipe",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(cmd, cfg, opts, jsonOutput)
		},
	}

	cmd.Flags().StringVar(&opts.pk, "pk", "", "partition key")
	cmd.Flags().StringVar(&opts.title, "title", "", "recipe title")
	cmd.Flags().StringVar(&opts.description, "description", "", "recipe description")
	cmd.Flags().StringVar(&opts.ingredients, "ingredients", "[]", "ingredients as a JSON array")
	cmd.Flags().StringVar(&opts.steps, "steps", "[]", "steps as a JSON array")
	cmd.Flags().StringVarP(&opts.filePath, "file", "f", "", "image file to upload")
	return cmd
}

func runCreate(cmd *cobra.Command, cfg *config.Config, opts *createCmdOptions, jsonOutput *bool) error {
	if strings.TrimSpace(opts.title) == "" {
		return errors.New("--title is required")
	}

	req := api.CreateRequest{
		PK:          opts.pk,
		Title:       opts.title,
		Description: opts.description,
		Ingredients: opts.ingredients,
		Steps:       opts.steps,
	}

	if opts.filePath != "" {
		f, err := os.Open(opts.filePath)
		if err != nil {
			return err
		}
		defer f.Close()
		if info, err := f.Stat(); err == nil {
			slog.Debug("attaching image", "path", opts.filePath, "size", humanize.Bytes(uint64(info.Size())))
		}
		req.File = f
		req.FileName = filepath.Base(opts.filePath)
	}

	return withClient(cfg, func(client *api.Client) error {
		reply, err := client.CreateRecipe(cmd.Context(), req)
		if err != nil {
			return err
		}
		reply = strings.TrimSpace(reply)
		if *jsonOutput {
			return writeJSON(map[string]string{"reply": reply})
		}
		if reply == "" {
			reply = "Recipe created"
		}
		return writePlain("%s\n", reply)
	})
}

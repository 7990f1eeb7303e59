package main

import (
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"cookbook/internal/api"
	"cookbook/internal/config"
)

type imageOutput struct {
	ID          string `json:"id" yaml:"id"`
	ImageURL    string `json:"image_url" yaml:"image_url"`
	Checked     bool   `json:"checked" yaml:"checked"`
	OK          bool   `json:"ok,omitempty" yaml:"ok,omitempty"`
	Status      int    `json:"status,omitempty" yaml:"status,omitempty"`
	ContentType string `json:"content_type,omitempty" yaml:"content_type,omitempty"`
	Size        int64  `json:"size,omitempty" yaml:"size,omitempty"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

func newImageCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "image <id>",
		Short: "Print a recipe's image URL",
		Long:  "Print a recipe's image URL. With --check the image is loaded and the error placeholder is printed when it fails.",
		Args:  requireRecipeID,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cfg, func(client *api.Client) error {
				rec, err := getExisting(cmd.Context(), client, args[0])
				if err != nil {
					return err
				}

				resolver := cfg.Resolver()
				out := imageOutput{ID: args[0], ImageURL: resolver.Resolve(rec.Media)}
				if check {
					probe := resolver.Check(cmd.Context(), out.ImageURL)
					out.Checked = true
					out.OK = probe.OK()
					out.Status = probe.Status
					out.ContentType = probe.ContentType
					if probe.Size > 0 {
						out.Size = probe.Size
					}
					if !out.OK {
						if probe.Err != nil {
							out.Error = probe.Err.Error()
						}
						out.ImageURL = resolver.ErrorImage()
					}
				}

				if *jsonOutput {
					return writeJSON(out)
				}
				if err := writePlain("%s\n", out.ImageURL); err != nil {
					return err
				}
				switch {
				case !out.Checked:
					return nil
				case out.OK && out.Size > 0:
					return writePlain("ok: %s, %s\n", out.ContentType, humanize.Bytes(uint64(out.Size)))
				case out.OK:
					return writePlain("ok: %s\n", out.ContentType)
				default:
					return writePlain("failed: %s\n", out.Error)
				}
			})
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "verify the image loads")
	return cmd
}

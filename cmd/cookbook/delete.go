package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"cookbook/internal/api"
	"cookbook/internal/config"
	"cookbook/internal/models"
)

var errDeleteAborted = errors.New("delete aborted")

// stdinIsTerminal is overridden in tests.
var stdinIsTerminal = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func newDeleteCmd(cfg *config.Config, jsonOutput *bool) *cobra.Command {
	var (
		pk  string
		yes bool
	)

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recipe",
		Args:  requireRecipeID,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			if strings.TrimSpace(pk) == "" {
				return &models.ValidationError{Field: "pk", Err: api.ErrMissingPK}
			}
			if !yes {
				if !stdinIsTerminal() {
					return errors.New("refusing to delete without confirmation; pass --yes")
				}
				ok, err := confirmDelete(cmd.InOrStdin(), cmd.ErrOrStderr(), id)
				if err != nil {
					return err
				}
				if !ok {
					return errDeleteAborted
				}
			}

			return withClient(cfg, func(client *api.Client) error {
				reply, err := client.DeleteRecipe(cmd.Context(), id, pk)
				if err != nil {
					return err
				}
				reply = strings.TrimSpace(reply)
				if *jsonOutput {
					return writeJSON(map[string]string{"id": id, "reply": reply})
				}
				if reply == "" {
					reply = "Deleted " + id
				}
				return writePlain("%s\n", reply)
			})
		},
	}

	cmd.Flags().StringVar(&pk, "pk", "", "partition key of the recipe")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	_ = cmd.MarkFlagRequired("pk")
	return cmd
}

func confirmDelete(in io.Reader, out io.Writer, id string) (bool, error) {
	fmt.Fprintf(out, "Are you sure you want to delete recipe %s? [y/N] ", id)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cookbook/internal/config"
	"cookbook/internal/format"
)

func newRootCmd(cfg *config.Config) *cobra.Command {
	var (
		jsonOutput bool
		yamlOutput bool
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:           "cookbook",
		Short:         "Cookbook manages a remote recipe catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			warning, err := configureLoggerForCLI(logLevel, cfg.LogLevel)
			if err != nil {
				return err
			}
			if warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
			return selectOutput(&jsonOutput, yamlOutput)
		},
	}

	cmd.Version = version
	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output JSON")
	cmd.PersistentFlags().BoolVar(&yamlOutput, "yaml", false, "output YAML")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	cmd.AddCommand(
		newServeCmd(cfg),
		newListCmd(cfg, &jsonOutput),
		newShowCmd(cfg, &jsonOutput),
		newCreateCmd(cfg, &jsonOutput),
		newUpdateCmd(cfg, &jsonOutput),
		newDeleteCmd(cfg, &jsonOutput),
		newSearchCmd(cfg, &jsonOutput),
		newImageCmd(cfg, &jsonOutput),
		newConfigCmd(cfg, &jsonOutput),
	)

	return cmd
}

// selectOutput picks the structured formatter. --yaml implies structured
// output, so commands only test the json flag.
func selectOutput(jsonOutput *bool, yamlOutput bool) error {
	switch {
	case *jsonOutput && yamlOutput:
		return errors.New("--json and --yaml are mutually exclusive")
	case yamlOutput:
		*jsonOutput = true
		outputFormatter = format.YAMLFormatter{}
	default:
		outputFormatter = format.JSONFormatter{}
	}
	return nil
}

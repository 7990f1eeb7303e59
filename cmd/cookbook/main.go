package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/term"

	"cookbook/internal/config"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if cfg.TrustedProjectConfigPath != "" {
		fmt.Fprintf(os.Stderr, "warning: using trusted project config from %s\n", cfg.TrustedProjectConfigPath)
	}

	if err := newRootCmd(cfg).Execute(); err != nil {
		hint := color.New(color.FgYellow)
		if !term.IsTerminal(int(os.Stderr.Fd())) {
			hint.DisableColor()
		}
		for _, line := range formatCLIError(err) {
			if strings.HasPrefix(line, "hint:") {
				hint.Fprintln(os.Stderr, line)
				continue
			}
			fmt.Fprintln(os.Stderr, line)
		}
		os.Exit(1)
	}
}

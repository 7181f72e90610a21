package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

var (
	version = "dev"
	commit  = "none"    //nolint:unused // set via ldflags at build time
	date    = "unknown" //nolint:unused // set via ldflags at build time
)

func newApp() *cli.App {
	return &cli.App{
		Name:    "scry",
		Usage:   "Static review of Python code",
		Version: version,
		Description: `scry reviews Python source for unused imports and variables, unreachable
code, inefficient or nested loops, mutation during iteration, and functions
with high cyclomatic complexity. Fixes can be suggested by a code model.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"SCRY_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Diagnostic log level: debug, info, warn, error, silent",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
		},
		Before: func(c *cli.Context) error {
			if c.Bool("no-color") {
				color.NoColor = true
			}
			return nil
		},
		Commands: []*cli.Command{
			analyzeCmd(),
			fixCmd(),
			serveCmd(),
			mcpCmd(),
			initCmd(),
			configCmd(),
		},
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

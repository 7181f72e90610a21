package main

import (
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/scry/internal/logging"
	"github.com/panbanda/scry/internal/service/analysis"
	"github.com/panbanda/scry/pkg/config"
)

// getPaths returns paths from positional args, defaulting to ["."].
func getPaths(c *cli.Context) []string {
	if c.Args().Len() > 0 {
		return c.Args().Slice()
	}
	return []string{"."}
}

// loadConfig loads the file named by --config or searches the standard
// locations.
func loadConfig(c *cli.Context) (*config.LoadResult, error) {
	var opts []config.LoadOption
	if path := c.String("config"); path != "" {
		opts = append(opts, config.WithPath(path))
	}
	return config.LoadConfig(opts...)
}

// newLogger logs to stderr at the --log-level, falling back to the
// configured level.
func newLogger(c *cli.Context, cfg *config.Config) *slog.Logger {
	level := c.String("log-level")
	if level == "" {
		level = cfg.Log.Level
	}
	return logging.New(os.Stderr, logging.ParseLevel(level))
}

// newService loads configuration and builds the review service.
func newService(c *cli.Context) (*analysis.Service, *slog.Logger, error) {
	result, err := loadConfig(c)
	if err != nil {
		return nil, nil, err
	}
	logger := newLogger(c, result.Config)
	if result.Source != "" {
		logger.Debug("loaded config", "path", result.Source)
	}
	return analysis.New(analysis.WithConfig(result.Config), analysis.WithLogger(logger)), logger, nil
}

// colored reports whether terminal output should use color.
func colored(c *cli.Context, cfg *config.Config) bool {
	return cfg.Output.Color && !c.Bool("no-color") && !color.NoColor
}

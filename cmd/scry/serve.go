package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/scry/internal/api"
	"github.com/panbanda/scry/internal/service/analysis"
)

func serveCmd() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve reviews over HTTP",
		Description: `Starts the HTTP API:
  GET  /              welcome message
  GET  /health        health check
  POST /analyze/file  multipart upload (field "file") of a .py file`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default from config)",
			},
		},
		Action: runServeCmd,
	}
}

func runServeCmd(c *cli.Context) error {
	svc, logger, err := newService(c)
	if err != nil {
		return err
	}
	cfg := svc.Config()

	addr := c.String("addr")
	if addr == "" {
		addr = cfg.Server.Addr
	}

	sg, err := svc.Suggester()
	if err != nil {
		return err
	}
	opts := []api.Option{api.WithLogger(logger), api.WithSuggester(sg)}
	if cfg.Report.Enabled {
		opts = append(opts, api.WithReports(svc.ReportWriter(), cfg.Report.Individual))
	}

	server, err := api.NewServer(addr, svc.Engine(analysis.ReviewOptions{NoCache: true}), opts...)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- server.Start() }()
	color.Green("Listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return <-errCh
}

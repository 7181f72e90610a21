package main

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/scry/internal/output"
	"github.com/panbanda/scry/internal/progress"
	"github.com/panbanda/scry/internal/report"
	"github.com/panbanda/scry/internal/service/analysis"
)

func analyzeCmd() *cli.Command {
	return &cli.Command{
		Name:      "analyze",
		Aliases:   []string{"a"},
		Usage:     "Review Python files and directories",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   "Output format: text, json, markdown, toon (default from config)",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.IntFlag{
				Name:    "threshold",
				Aliases: []string{"t"},
				Usage:   "Cyclomatic complexity threshold (default from config)",
			},
			&cli.BoolFlag{
				Name:  "report",
				Usage: "Append findings to the Markdown review report",
			},
			&cli.BoolFlag{
				Name:  "fix",
				Usage: "Attach a suggested fix to every issue",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable caching",
			},
		},
		Action: runAnalyzeCmd,
	}
}

func runAnalyzeCmd(c *cli.Context) error {
	svc, logger, err := newService(c)
	if err != nil {
		return err
	}
	cfg := svc.Config()

	files, err := svc.Scan(getPaths(c))
	if err != nil {
		return err
	}

	tracker := progress.NewTracker("Reviewing files...", len(files))
	result, err := svc.ReviewFiles(c.Context, files, analysis.ReviewOptions{
		Threshold:  c.Int("threshold"),
		NoCache:    c.Bool("no-cache"),
		OnProgress: tracker.Tick,
	})
	if err != nil {
		tracker.FinishError(err)
		return err
	}
	tracker.FinishSuccess()

	rendered := result.Render()
	wantReport := c.Bool("report") || cfg.Report.Enabled
	if c.Bool("fix") || wantReport {
		sg, err := svc.Suggester()
		if err != nil {
			return err
		}
		fixes := svc.Fixes(c.Context, sg, result, nil)
		if c.Bool("fix") {
			rendered.WithFixes(fixes)
		}
		if wantReport {
			if err := saveReports(svc, result, fixes); err != nil {
				return err
			}
			logger.Info("report saved", "path", svc.ReportWriter().Path())
		}
	}

	format := c.String("format")
	if format == "" {
		format = cfg.Output.Format
	}
	formatter, err := output.NewFormatter(output.ParseFormat(format), c.String("output"), colored(c, cfg))
	if err != nil {
		return err
	}
	defer formatter.Close()

	if err := formatter.Output(rendered); err != nil {
		return err
	}
	if out := c.String("output"); out != "" {
		color.Green("Review written to %s", out)
	}
	return nil
}

func saveReports(svc *analysis.Service, result *analysis.Result, fixes map[string][]report.Entry) error {
	w := svc.ReportWriter()
	for _, fr := range result.Files {
		entries, ok := fixes[fr.Path]
		if !ok {
			continue
		}
		if err := w.Save(fr.Path, entries); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		if svc.Config().Report.Individual && len(entries) > 0 {
			if _, err := w.SaveIndividual(fr.Path, entries); err != nil {
				return fmt.Errorf("save issue reports: %w", err)
			}
		}
	}
	return nil
}

package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/panbanda/scry/internal/report"
	"github.com/panbanda/scry/internal/service/analysis"
)

func fixCmd() *cli.Command {
	return &cli.Command{
		Name:      "fix",
		Usage:     "Suggest fixes for the issues in a Python file",
		ArgsUsage: "<file>",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "out",
				Usage: "Write a copy of the file with a suggestion comment above each issue line",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable caching",
			},
		},
		Action: runFixCmd,
	}
}

func runFixCmd(c *cli.Context) error {
	if c.Args().Len() != 1 {
		return errors.New("fix takes exactly one file")
	}
	path := c.Args().First()

	svc, _, err := newService(c)
	if err != nil {
		return err
	}

	files, err := svc.Scan([]string{path})
	if err != nil {
		return err
	}
	source, err := os.ReadFile(files[0])
	if err != nil {
		return err
	}

	result, err := svc.ReviewFiles(c.Context, files, analysis.ReviewOptions{NoCache: c.Bool("no-cache")})
	if err != nil {
		return err
	}
	if msg := result.Files[0].Error; msg != "" {
		return errors.New(msg)
	}

	sg, err := svc.Suggester()
	if err != nil {
		return err
	}
	entries := svc.Fixes(c.Context, sg, result, map[string][]byte{files[0]: source})[files[0]]

	printFixes(c.App.Writer, entries)

	if svc.Config().Report.Enabled {
		if err := svc.ReportWriter().Save(files[0], entries); err != nil {
			return fmt.Errorf("save report: %w", err)
		}
	}

	if out := c.String("out"); out != "" {
		annotated := annotate(string(source), entries)
		if err := os.WriteFile(out, []byte(annotated), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", out, err)
		}
		fmt.Fprintln(c.App.Writer, color.GreenString("Annotated copy written to %s", out))
	}
	return nil
}

func printFixes(w io.Writer, entries []report.Entry) {
	if len(entries) == 0 {
		fmt.Fprintln(w, color.GreenString("No issues found"))
		return
	}
	for _, e := range entries {
		fmt.Fprintf(w, "\n[Line %d] %s\n", e.Issue.Line, report.NormalizeDescription(e.Issue.Message))
		fmt.Fprintf(w, "  Suggested fix:\n%s\n", e.Fix)
	}
}

// annotate inserts "# Suggestion for line N: ..." above every issue line,
// indented like the line it refers to. Issues without a valid line are
// skipped.
func annotate(source string, entries []report.Entry) string {
	trailing := strings.HasSuffix(source, "\n")
	lines := strings.Split(strings.TrimSuffix(source, "\n"), "\n")

	comments := make(map[int][]string)
	for _, e := range entries {
		n := e.Issue.Line
		if n < 1 || n > len(lines) {
			continue
		}
		comments[n] = append(comments[n], fmt.Sprintf("# Suggestion for line %d: %s", n, report.NormalizeDescription(e.Issue.Message)))
	}

	out := make([]string, 0, len(lines)+len(entries))
	for i, line := range lines {
		indent := line[:len(line)-len(strings.TrimLeft(line, " \t"))]
		for _, comment := range comments[i+1] {
			out = append(out, indent+comment)
		}
		out = append(out, line)
	}

	result := strings.Join(out, "\n")
	if trailing {
		result += "\n"
	}
	return result
}

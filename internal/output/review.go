package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/panbanda/scry/internal/report"
	"github.com/panbanda/scry/pkg/models"
)

// ReviewData is the serialized form of a review run.
type ReviewData struct {
	Files   []models.FileReview       `json:"files" toon:"files"`
	Summary models.ReviewSummary      `json:"summary" toon:"summary"`
	Fixes   map[string][]report.Entry `json:"fixes,omitempty" toon:"fixes"`
}

// Review renders the issues of every reviewed file followed by a summary.
// Files without issues are omitted from text and Markdown output.
type Review struct {
	Title string
	Data  ReviewData
}

// NewReview creates a Renderable for a review run.
func NewReview(reviews []models.FileReview, summary models.ReviewSummary) *Review {
	if reviews == nil {
		reviews = []models.FileReview{}
	}
	return &Review{
		Title: "Code Review",
		Data:  ReviewData{Files: reviews, Summary: summary},
	}
}

// WithFixes attaches suggested fixes keyed by file path.
func (r *Review) WithFixes(fixes map[string][]report.Entry) *Review {
	if len(fixes) > 0 {
		r.Data.Fixes = fixes
	}
	return r
}

// RenderData returns the files, summary and fixes for serialization.
func (r *Review) RenderData() any {
	return r.Data
}

// RenderText writes one table per file, issues grouped by category.
func (r *Review) RenderText(w io.Writer, colored bool) error {
	heading(w, r.Title, "=", colored)
	for _, f := range r.Data.Files {
		switch {
		case f.Error != "":
			heading(w, f.Path, "-", colored)
			fmt.Fprintf(w, "Error: %s\n\n", f.Error)
		case len(f.Issues) > 0:
			heading(w, f.Path, "-", colored)
			issueTable(w, f.Issues, colored)
			if entries := r.Data.Fixes[f.Path]; len(entries) > 0 {
				fmt.Fprintf(w, "Suggested fixes: %s\n%s\n\n", f.Path, fixesText(entries))
			}
		}
	}
	heading(w, "Summary", "=", colored)
	_, err := fmt.Fprintln(w, summaryText(r.Data.Summary, colored))
	return err
}

// RenderMarkdown writes a section per file with one table per category.
func (r *Review) RenderMarkdown(w io.Writer) error {
	fmt.Fprintf(w, "# %s\n\n", r.Title)
	for _, f := range r.Data.Files {
		switch {
		case f.Error != "":
			fmt.Fprintf(w, "## %s\n\nError: %s\n\n", f.Path, f.Error)
		case len(f.Issues) > 0:
			fmt.Fprintf(w, "## %s\n\n", f.Path)
			for _, g := range groupByCategory(f.Issues) {
				fmt.Fprintf(w, "### %s (%d)\n\n| Line | Message |\n| --- | --- |\n", CategoryLabel(g.category), len(g.issues))
				for _, issue := range g.issues {
					fmt.Fprintf(w, "| %d | %s |\n", issue.Line, escapeCell(issue.Message))
				}
				fmt.Fprintln(w)
			}
			if entries := r.Data.Fixes[f.Path]; len(entries) > 0 {
				fmt.Fprintf(w, "### Suggested fixes\n\n%s\n\n", fixesText(entries))
			}
		}
	}
	_, err := fmt.Fprintf(w, "## Summary\n\n%s\n", summaryText(r.Data.Summary, false))
	return err
}

type issueGroup struct {
	category models.Category
	issues   []models.Issue
}

// groupByCategory splits issues by category in report order, uncategorized
// issues last. Issue order within a group is kept.
func groupByCategory(issues []models.Issue) []issueGroup {
	byCategory := make(map[models.Category][]models.Issue)
	for _, issue := range issues {
		byCategory[issue.Category] = append(byCategory[issue.Category], issue)
	}
	var groups []issueGroup
	for _, c := range append(models.Categories, models.CategoryNone) {
		if list := byCategory[c]; len(list) > 0 {
			groups = append(groups, issueGroup{category: c, issues: list})
		}
	}
	// Unknown categories keep their first-seen order after the known ones.
	for _, issue := range issues {
		if issue.Category.IsValid() {
			continue
		}
		if list, ok := byCategory[issue.Category]; ok {
			groups = append(groups, issueGroup{category: issue.Category, issues: list})
			delete(byCategory, issue.Category)
		}
	}
	return groups
}

// issueTable writes a borderless table with the category shown on the first
// row of each group.
func issueTable(w io.Writer, issues []models.Issue, colored bool) {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment:  tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{AutoFormat: tw.On},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{Left: tw.Off, Right: tw.Off, Top: tw.Off, Bottom: tw.Off},
			Settings: tw.Settings{
				Separators: tw.Separators{BetweenColumns: tw.Off},
			},
		}),
	)

	table.Header([]string{"Category", "Line", "Message"})
	for _, g := range groupByCategory(issues) {
		label := CategoryLabel(g.category)
		if colored {
			label = CategoryColor(g.category, label)
		}
		for i, issue := range g.issues {
			cell := ""
			if i == 0 {
				cell = label
			}
			table.Append([]string{cell, strconv.Itoa(issue.Line), issue.Message})
		}
	}
	table.Render()
	fmt.Fprintln(w)
}

func heading(w io.Writer, title, underline string, colored bool) {
	if colored {
		color.New(color.Bold, color.FgCyan).Fprintln(w, title)
	} else {
		fmt.Fprintln(w, title)
	}
	fmt.Fprintln(w, strings.Repeat(underline, len(title)))
	fmt.Fprintln(w)
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}

// CategoryLabel returns a human readable category name, such as
// "Unused Import" for unused_import.
func CategoryLabel(c models.Category) string {
	if c == models.CategoryNone {
		return "Other"
	}
	return cases.Title(language.English).String(strings.ReplaceAll(string(c), "_", " "))
}

// CategoryColor colors text by how actionable an issue category is.
func CategoryColor(category models.Category, text string) string {
	switch category {
	case models.CategoryHighComplexity, models.CategoryMutationDuringIteration, models.CategoryAnalyzerError:
		return color.RedString(text)
	case models.CategoryUnreachableCode, models.CategoryNestedLoop, models.CategoryInefficientLoop:
		return color.YellowString(text)
	case models.CategoryUnusedImport, models.CategoryUnusedVariable:
		return color.CyanString(text)
	default:
		return color.MagentaString(text)
	}
}

func fixesText(entries []report.Entry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		parts = append(parts, fmt.Sprintf("Line %d: %s\n%s", e.Issue.Line, report.NormalizeDescription(e.Issue.Message), report.FormatFix(e.Fix)))
	}
	return strings.Join(parts, "\n\n")
}

func summaryText(s models.ReviewSummary, colored bool) string {
	p := message.NewPrinter(language.English)
	text := p.Sprintf("%d files reviewed, %d issues", s.Files, s.Issues)
	if s.Failed > 0 {
		text += p.Sprintf(", %d failed", s.Failed)
	}
	for _, cat := range append(models.Categories, models.CategoryNone) {
		n := s.ByCategory[cat]
		if n == 0 {
			continue
		}
		line := p.Sprintf("%s: %d", CategoryLabel(cat), n)
		if colored {
			line = CategoryColor(cat, line)
		}
		text += "\n  " + line
	}
	if s.FlaggedLines > 0 {
		text += p.Sprintf("\nLines flagged: %d", s.FlaggedLines)
	}
	if c := s.Complexity; c.Functions > 0 {
		text += p.Sprintf("\nComplexity: %d functions, mean %.1f, median %.1f, p90 %.1f, max %d, %d over limit",
			c.Functions, c.Mean, c.Median, c.P90, c.Max, c.OverLimit)
	}
	if colored && s.Issues == 0 && s.Failed == 0 {
		text = color.GreenString(text)
	}
	return text
}

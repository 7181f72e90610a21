// Package output renders review results as text, JSON, Markdown or TOON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	toon "github.com/toon-format/toon-go"
)

// Format represents an output format.
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	FormatTOON     Format = "toon"
)

// ParseFormat converts a string to Format, defaulting to text.
func ParseFormat(s string) Format {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON
	case "markdown", "md":
		return FormatMarkdown
	case "toon":
		return FormatTOON
	default:
		return FormatText
	}
}

// Renderable defines data that can render itself in multiple formats.
type Renderable interface {
	RenderText(w io.Writer, colored bool) error
	RenderMarkdown(w io.Writer) error
	// RenderData returns the underlying data for JSON and TOON encoding.
	RenderData() any
}

// Render writes r to w in the given format. Color only applies to text.
func Render(w io.Writer, format Format, r Renderable, colored bool) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r.RenderData())
	case FormatTOON:
		out, err := toon.Marshal(r.RenderData(), toon.WithIndent(2))
		if err != nil {
			return fmt.Errorf("toon: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case FormatMarkdown:
		return r.RenderMarkdown(w)
	default:
		return r.RenderText(w, colored)
	}
}

// Formatter writes rendered output to stdout or a file.
type Formatter struct {
	format  Format
	writer  io.Writer
	file    *os.File
	colored bool
}

// NewFormatter creates a formatter writing to the output file, or to
// stdout when output is empty. File output is never colored.
func NewFormatter(format Format, output string, colored bool) (*Formatter, error) {
	if output == "" {
		return &Formatter{format: format, writer: os.Stdout, colored: colored}, nil
	}

	f, err := os.Create(output)
	if err != nil {
		return nil, err
	}
	return &Formatter{format: format, writer: f, file: f}, nil
}

// Output writes r in the configured format.
func (f *Formatter) Output(r Renderable) error {
	return Render(f.writer, f.format, r, f.colored)
}

// Close closes the output file, if any.
func (f *Formatter) Close() error {
	if f.file != nil {
		return f.file.Close()
	}
	return nil
}

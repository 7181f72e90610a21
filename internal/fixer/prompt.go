package fixer

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed prompts/fix.md
var promptFiles embed.FS

// Params are the generation parameters sent with every prompt.
type Params struct {
	MaxNewTokens   int     `yaml:"max_new_tokens" json:"max_new_tokens"`
	Temperature    float64 `yaml:"temperature" json:"temperature"`
	DoSample       bool    `yaml:"do_sample" json:"do_sample"`
	ReturnFullText bool    `yaml:"return_full_text" json:"return_full_text"`
}

type promptFrontmatter struct {
	Description string `yaml:"description"`
	Parameters  Params `yaml:"parameters"`
}

// Prompt is a parsed prompt template.
type Prompt struct {
	Description string
	Params      Params
	tmpl        *template.Template
}

// DefaultPrompt loads the embedded fix prompt.
func DefaultPrompt() (*Prompt, error) {
	content, err := promptFiles.ReadFile("prompts/fix.md")
	if err != nil {
		return nil, err
	}
	return ParsePrompt(content)
}

// ParsePrompt parses a Markdown prompt with optional YAML frontmatter.
func ParsePrompt(content []byte) (*Prompt, error) {
	fm, body, err := parseFrontmatter(content)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New("fix").Option("missingkey=error").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("parse prompt template: %w", err)
	}
	return &Prompt{Description: fm.Description, Params: fm.Parameters, tmpl: tmpl}, nil
}

// Render fills the template with the issue description and code window.
func (p *Prompt) Render(description, code string) (string, error) {
	var buf bytes.Buffer
	data := struct{ Description, Code string }{description, code}
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render prompt: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

func parseFrontmatter(content []byte) (promptFrontmatter, string, error) {
	var fm promptFrontmatter
	if !bytes.HasPrefix(content, []byte("---\n")) {
		return fm, string(content), nil
	}

	rest := content[4:]
	end := bytes.Index(rest, []byte("\n---\n"))
	if end == -1 {
		return fm, string(content), nil
	}

	if err := yaml.Unmarshal(rest[:end], &fm); err != nil {
		return fm, "", fmt.Errorf("parse prompt frontmatter: %w", err)
	}

	return fm, strings.TrimPrefix(string(rest[end+5:]), "\n"), nil
}

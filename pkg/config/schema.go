package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "scry.schema.json"

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add schema: %w", err)
			return
		}
		schema, schemaErr = c.Compile(schemaURL)
	})
	return schema, schemaErr
}

// validate checks raw configuration values against the embedded schema.
// The values are round-tripped through JSON so every file format is
// validated with the same number and collection types.
func validate(raw map[string]any) error {
	sch, err := compiledSchema()
	if err != nil {
		return err
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if err := sch.Validate(inst); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	return nil
}

// Validate checks a configuration struct against the schema.
func (c *Config) Validate() error {
	return validate(c.values())
}

// values returns c as the nested key/value map the configuration files use.
func (c *Config) values() map[string]any {
	return map[string]any{
		"analysis": map[string]any{
			"symbols":     c.Analysis.Symbols,
			"complexity":  c.Analysis.Complexity,
			"dead_code":   c.Analysis.DeadCode,
			"loops":       c.Analysis.Loops,
			"max_workers": c.Analysis.MaxWorkers,
		},
		"thresholds": map[string]any{
			"cyclomatic_complexity": c.Thresholds.CyclomaticComplexity,
		},
		"exclude": map[string]any{
			"patterns":  nonNil(c.Exclude.Patterns),
			"dirs":      nonNil(c.Exclude.Dirs),
			"gitignore": c.Exclude.Gitignore,
		},
		"cache": map[string]any{
			"enabled": c.Cache.Enabled,
			"dir":     c.Cache.Dir,
			"ttl":     c.Cache.TTL,
		},
		"output": map[string]any{
			"format": c.Output.Format,
			"color":  c.Output.Color,
		},
		"report": map[string]any{
			"enabled":    c.Report.Enabled,
			"dir":        c.Report.Dir,
			"individual": c.Report.Individual,
		},
		"fixer": map[string]any{
			"endpoint":      c.Fixer.Endpoint,
			"timeout":       c.Fixer.Timeout,
			"cache_size":    c.Fixer.CacheSize,
			"context_lines": c.Fixer.ContextLines,
			"max_chars":     c.Fixer.MaxChars,
		},
		"server": map[string]any{
			"addr": c.Server.Addr,
		},
		"log": map[string]any{
			"level": c.Log.Level,
		},
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

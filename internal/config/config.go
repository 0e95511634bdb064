// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config loads docsentry settings.
//
// Layers are applied in order, later ones winning: built-in defaults, the
// YAML config file, a .env file in the root, then DOCSENTRY_* environment
// variables. Command-line flags are applied on top by the commands.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/bartekus/docsentry/internal/extract"
	"github.com/bartekus/docsentry/internal/llmstxt"
	"github.com/bartekus/docsentry/internal/projection"
	"github.com/bartekus/docsentry/internal/report"
	"github.com/bartekus/docsentry/internal/structure"
)

// FileName is the config file looked up in the project root.
const FileName = ".docsentry.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "DOCSENTRY_"

// ErrInvalidValue indicates a setting outside its allowed range.
var ErrInvalidValue = errors.New("invalid config value")

// Source selects the code whose public API is measured.
type Source struct {
	Path         string   `yaml:"path"`
	Extensions   []string `yaml:"extensions"`
	SkipSegments []string `yaml:"skip_segments"`
}

// Docs selects and constrains the documentation tree.
type Docs struct {
	Path                string   `yaml:"path"`
	Extensions          []string `yaml:"extensions"`
	RequiredKey         string   `yaml:"required_key"`
	RequiredValue       string   `yaml:"required_value"`
	TitleKey            string   `yaml:"title_key"`
	RecommendedKey      string   `yaml:"recommended_key"`
	RecommendedDefault  string   `yaml:"recommended_default"`
	MaxTopLevelHeadings int      `yaml:"max_top_level_headings"`
	SkipFencedCode      bool     `yaml:"skip_fenced_code"`
}

// LLMs configures the llms.txt index.
type LLMs struct {
	Name    string `yaml:"name"`
	Summary string `yaml:"summary"`
	Details string `yaml:"details"`
	BaseURL string `yaml:"base_url"`
	// OutputDir defaults to the docs path.
	OutputDir string   `yaml:"output_dir"`
	Sections  []string `yaml:"sections"`
}

// Coverage is the pass/fail policy of the coverage audit.
type Coverage struct {
	Threshold float64 `yaml:"threshold"`
	Strict    bool    `yaml:"strict"`
}

// Config is the full set of settings.
type Config struct {
	Source   Source   `yaml:"source"`
	Docs     Docs     `yaml:"docs"`
	Coverage Coverage `yaml:"coverage"`
	LLMs     LLMs     `yaml:"llms"`
	Format   string   `yaml:"format"`
	Jobs     int      `yaml:"jobs"`
	StateDir string   `yaml:"state_dir"`
}

// Default returns the built-in settings.
func Default() Config {
	rules := structure.DefaultRules()
	return Config{
		Source: Source{
			Path:         "crates",
			Extensions:   append([]string(nil), extract.Rust.Extensions...),
			SkipSegments: []string{"test", "example"},
		},
		Docs: Docs{
			Path:                "docs",
			Extensions:          []string{".md"},
			RequiredKey:         rules.RequiredKey,
			RequiredValue:       rules.RequiredValue,
			TitleKey:            rules.TitleKey,
			RecommendedKey:      rules.RecommendedKey,
			RecommendedDefault:  rules.RecommendedDefault,
			MaxTopLevelHeadings: rules.MaxTopLevelHeadings,
		},
		LLMs: LLMs{
			Name:     "Documentation",
			Sections: llmstxt.DefaultSections(),
		},
		Format:   string(projection.FormatText),
		Jobs:     4,
		StateDir: filepath.Join(".docsentry", "run"),
	}
}

// Load builds the config for root. path names the config file; when empty,
// root/.docsentry.yaml is used if it exists. An explicitly named file must
// exist.
func Load(root, path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = filepath.Join(root, FileName)
	}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := decode(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	case explicit || !errors.Is(err, os.ErrNotExist):
		return Config{}, fmt.Errorf("reading config: %w", err)
	}

	env, err := dotenv(filepath.Join(root, ".env"))
	if err != nil {
		return Config{}, err
	}
	if err := cfg.applyEnv(env); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// dotenv reads a .env file into a map without touching the process
// environment. A missing file yields an empty map.
func dotenv(path string) (map[string]string, error) {
	vals, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return vals, nil
}

// lookup prefers the real environment over the .env file.
func lookup(dotenv map[string]string, key string) (string, bool) {
	if v, ok := os.LookupEnv(key); ok {
		return v, true
	}
	v, ok := dotenv[key]
	return v, ok
}

func (c *Config) applyEnv(dotenv map[string]string) error {
	if v, ok := lookup(dotenv, EnvPrefix+"THRESHOLD"); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return fmt.Errorf("%w: %sTHRESHOLD=%q", ErrInvalidValue, EnvPrefix, v)
		}
		c.Coverage.Threshold = f
	}
	if v, ok := lookup(dotenv, EnvPrefix+"STRICT"); ok {
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %sSTRICT=%q", ErrInvalidValue, EnvPrefix, v)
		}
		c.Coverage.Strict = b
	}
	if v, ok := lookup(dotenv, EnvPrefix+"JOBS"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %sJOBS=%q", ErrInvalidValue, EnvPrefix, v)
		}
		c.Jobs = n
	}
	if v, ok := lookup(dotenv, EnvPrefix+"FORMAT"); ok {
		c.Format = v
	}
	if v, ok := lookup(dotenv, EnvPrefix+"DOCS_PATH"); ok {
		c.Docs.Path = v
	}
	if v, ok := lookup(dotenv, EnvPrefix+"SOURCE_PATH"); ok {
		c.Source.Path = v
	}
	return nil
}

// Validate reports the first setting outside its allowed range.
func (c Config) Validate() error {
	if math.IsNaN(c.Coverage.Threshold) || c.Coverage.Threshold < 0 || c.Coverage.Threshold > 100 {
		return fmt.Errorf("%w: threshold %v must be between 0 and 100", ErrInvalidValue, c.Coverage.Threshold)
	}
	if c.Jobs < 1 {
		return fmt.Errorf("%w: jobs %d must be at least 1", ErrInvalidValue, c.Jobs)
	}
	if _, err := projection.ParseFormat(c.Format); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	if c.Docs.MaxTopLevelHeadings < 1 {
		return fmt.Errorf("%w: max_top_level_headings %d must be at least 1", ErrInvalidValue, c.Docs.MaxTopLevelHeadings)
	}
	return nil
}

// Rules returns the structural rules configured for documents.
func (c Config) Rules() structure.Rules {
	return structure.Rules{
		RequiredKey:         c.Docs.RequiredKey,
		RequiredValue:       c.Docs.RequiredValue,
		TitleKey:            c.Docs.TitleKey,
		RecommendedKey:      c.Docs.RecommendedKey,
		RecommendedDefault:  c.Docs.RecommendedDefault,
		MaxTopLevelHeadings: c.Docs.MaxTopLevelHeadings,
		SkipFencedCode:      c.Docs.SkipFencedCode,
	}
}

// Site returns the llms.txt header and link settings.
func (c Config) Site() llmstxt.Site {
	return llmstxt.Site{
		Name:     c.LLMs.Name,
		Summary:  c.LLMs.Summary,
		Details:  c.LLMs.Details,
		BaseURL:  strings.TrimRight(c.LLMs.BaseURL, "/"),
		Sections: c.LLMs.Sections,
	}
}

// LLMsOutputDir is where llms.txt files are written, relative to the root
// unless absolute.
func (c Config) LLMsOutputDir() string {
	if c.LLMs.OutputDir != "" {
		return c.LLMs.OutputDir
	}
	return c.Docs.Path
}

// Policy returns the coverage pass/fail policy.
func (c Config) Policy() report.CoveragePolicy {
	return report.CoveragePolicy{Threshold: c.Coverage.Threshold, Strict: c.Coverage.Strict}
}

// Package config loads and validates relog configuration.
//
// Configuration is resolved in layers with later layers overriding earlier
// ones:
//  1. Built-in defaults
//  2. Config file (discovered in the repository root or passed explicitly)
//  3. Environment variables prefixed with RELOG_
//
// YAML files are syntax-checked before parsing so that errors carry line and
// column information instead of a bare unmarshal failure.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/ariel-frischer/relog/internal/changelog"
)

// envPrefix namespaces the environment variables read by Load.
const envPrefix = "RELOG_"

// configFileNames are the file names probed during discovery, in order.
// The first one that exists wins.
var configFileNames = []string{
	".relog.yml",
	".relog.yaml",
	"relog.yml",
	"relog.yaml",
	".relog.json",
	"relog.json",
}

// Config holds every tunable relog setting.
type Config struct {
	// Header is emitted verbatim before the first release section.
	Header string `koanf:"header"`
	// Footer is emitted verbatim after the last release section.
	Footer string `koanf:"footer"`
	// RepoURL is the base URL used to build pull request links. When empty
	// it is discovered from the origin remote of the repository.
	RepoURL string `koanf:"repo_url"`

	// DateFormat is a Go reference-time layout for release dates.
	DateFormat string `koanf:"date_format"`
	// SortOrder arranges commits within a group, oldest or newest first.
	SortOrder string `koanf:"sort_order" validate:"omitempty,oneof=oldest newest"`

	// FilterCommits drops commits that only the catch-all rule matched.
	FilterCommits bool `koanf:"filter_commits"`
	// SplitCommits treats every line of a commit message as its own entry.
	SplitCommits bool `koanf:"split_commits"`
	// TrimOutput strips surrounding whitespace from the rendered document.
	TrimOutput bool `koanf:"trim_output"`
	// Unreleased appends a section for commits made after the latest tag.
	Unreleased bool `koanf:"unreleased"`

	// TagPattern limits which tags become releases. Empty matches all tags.
	TagPattern string `koanf:"tag_pattern"`
	// BreakingLabels mark a commit as breaking regardless of its message.
	BreakingLabels []string `koanf:"breaking_labels"`
	// Parallelism caps the goroutines used to parse large commit sets.
	Parallelism int `koanf:"parallelism" validate:"gte=0,lte=256"`

	// Groups fixes the display order and headings of the output sections.
	Groups []GroupConfig `koanf:"groups"`
	// GroupRules classify commits into groups. First match wins and the
	// final rule must be a catch-all.
	GroupRules []RuleConfig `koanf:"group_rules"`

	// Source records where the configuration came from: the file path,
	// or empty when only built-in defaults and environment applied.
	Source string `koanf:"-"`
}

// RuleConfig is one classification rule.
type RuleConfig struct {
	Field   string `koanf:"field"`
	Pattern string `koanf:"pattern"`
	Group   string `koanf:"group"`
}

// GroupConfig names a group and its rendered heading.
type GroupConfig struct {
	Tag   string `koanf:"tag"`
	Title string `koanf:"title"`
}

// LoadOptions controls where Load looks for configuration.
type LoadOptions struct {
	// Path forces a specific config file instead of discovery. Load fails
	// when the file does not exist.
	Path string
	// Dir is the directory searched during discovery. Defaults to the
	// current directory.
	Dir string
}

// Load reads configuration from the given file path, or discovers one in the
// current directory when path is empty.
func Load(path string) (*Config, error) {
	return LoadWithOptions(LoadOptions{Path: path})
}

// LoadWithOptions loads, layers, and validates the configuration.
func LoadWithOptions(opts LoadOptions) (*Config, error) {
	k := koanf.New(".")

	for key, value := range GetDefaults() {
		if err := k.Set(key, value); err != nil {
			return nil, fmt.Errorf("failed to set default %s: %w", key, err)
		}
	}

	path := opts.Path
	if path != "" {
		if !fileExists(path) {
			return nil, &ValidationError{
				FilePath: path,
				Message:  "config file not found",
			}
		}
	} else {
		dir := opts.Dir
		if dir == "" {
			dir = "."
		}
		path = Discover(dir)
	}

	if path != "" {
		if err := loadFile(k, path); err != nil {
			return nil, err
		}
	}

	if err := k.Load(env.Provider(envPrefix, ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Source = path

	source := path
	if source == "" {
		source = "defaults"
	}
	if err := Validate(&cfg, source); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Discover returns the path of the first config file found in dir, or the
// empty string when none of the known names exist.
func Discover(dir string) string {
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// EngineOptions converts the configuration into generator options.
func (c *Config) EngineOptions() changelog.Options {
	groups := make([]changelog.GroupTitle, len(c.Groups))
	for i, g := range c.Groups {
		groups[i] = changelog.GroupTitle{Tag: g.Tag, Title: g.Title}
	}
	return changelog.Options{
		Rules:          engineRules(c.GroupRules),
		Groups:         groups,
		SortOrder:      c.SortOrder,
		FilterCommits:  c.FilterCommits,
		SplitCommits:   c.SplitCommits,
		TrimOutput:     c.TrimOutput,
		Header:         c.Header,
		Footer:         c.Footer,
		RepoURL:        c.RepoURL,
		DateLayout:     c.DateFormat,
		BreakingLabels: c.BreakingLabels,
		Parallelism:    c.Parallelism,
	}
}

func loadFile(k *koanf.Koanf, path string) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		if err := k.Load(file.Provider(path), json.Parser()); err != nil {
			return fmt.Errorf("failed to load config %s: %w", path, err)
		}
	default:
		if err := ValidateYAMLSyntax(path); err != nil {
			return err
		}
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return fmt.Errorf("failed to load config %s: %w", path, err)
		}
	}
	return nil
}

// envTransform maps RELOG_SORT_ORDER to sort_order.
func envTransform(s string) string {
	return strings.ToLower(strings.TrimPrefix(s, envPrefix))
}

func engineRules(rules []RuleConfig) []changelog.Rule {
	out := make([]changelog.Rule, len(rules))
	for i, r := range rules {
		out[i] = changelog.Rule{Field: r.Field, Pattern: r.Pattern, Group: r.Group}
	}
	return out
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

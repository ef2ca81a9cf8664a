package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariel-frischer/relog/internal/changelog"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadWithOptions(LoadOptions{Dir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, changelog.SortOldest, cfg.SortOrder)
	assert.Equal(t, "2006-01-02", cfg.DateFormat)
	assert.True(t, cfg.TrimOutput)
	assert.False(t, cfg.FilterCommits)
	assert.Equal(t, 4, cfg.Parallelism)
	assert.Contains(t, cfg.Header, "# Changelog")
	assert.Len(t, cfg.GroupRules, 8)
	assert.Len(t, cfg.Groups, 8)
	assert.Equal(t, "other", cfg.GroupRules[len(cfg.GroupRules)-1].Group)
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".relog.yml", `
sort_order: newest
filter_commits: true
header: "# Releases\n"
group_rules:
  - field: message
    pattern: ^feat
    group: features
  - field: message
    pattern: .*
    group: other
`)

	cfg, err := LoadWithOptions(LoadOptions{Dir: dir})
	require.NoError(t, err)

	assert.Equal(t, changelog.SortNewest, cfg.SortOrder)
	assert.True(t, cfg.FilterCommits)
	assert.Equal(t, "# Releases\n", cfg.Header)
	require.Len(t, cfg.GroupRules, 2)
	assert.Equal(t, "^feat", cfg.GroupRules[0].Pattern)

	// Untouched keys keep their defaults.
	assert.Equal(t, "2006-01-02", cfg.DateFormat)
	assert.Len(t, cfg.Groups, 8)
}

func TestLoadJSONFile(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "custom.json", `{"sort_order": "newest", "repo_url": "https://github.com/acme/widgets"}`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, changelog.SortNewest, cfg.SortOrder)
	assert.Equal(t, "https://github.com/acme/widgets", cfg.RepoURL)
}

func TestLoadExplicitPathMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Message, "not found")
}

func TestDiscover(t *testing.T) {
	dir := t.TempDir()
	assert.Equal(t, "", Discover(dir))

	writeConfig(t, dir, "relog.yml", "sort_order: oldest\n")
	assert.Equal(t, filepath.Join(dir, "relog.yml"), Discover(dir))

	// Dotfile variants win over bare names.
	writeConfig(t, dir, ".relog.yml", "sort_order: oldest\n")
	assert.Equal(t, filepath.Join(dir, ".relog.yml"), Discover(dir))
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("RELOG_SORT_ORDER", "newest")
	t.Setenv("RELOG_TRIM_OUTPUT", "false")
	t.Setenv("RELOG_REPO_URL", "https://github.com/acme/widgets")

	cfg, err := LoadWithOptions(LoadOptions{Dir: t.TempDir()})
	require.NoError(t, err)

	assert.Equal(t, changelog.SortNewest, cfg.SortOrder)
	assert.False(t, cfg.TrimOutput)
	assert.Equal(t, "https://github.com/acme/widgets", cfg.RepoURL)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".relog.yml", "sort_order: oldest\n")
	t.Setenv("RELOG_SORT_ORDER", "newest")

	cfg, err := LoadWithOptions(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, changelog.SortNewest, cfg.SortOrder)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		field   string
	}{
		{
			name:    "unknown sort order",
			content: "sort_order: sideways\n",
			field:   "sort_order",
		},
		{
			name:    "negative parallelism",
			content: "parallelism: -2\n",
			field:   "parallelism",
		},
		{
			name:    "empty rule list",
			content: "group_rules: []\n",
			field:   "group_rules",
		},
		{
			name: "missing catch-all",
			content: `group_rules:
  - field: message
    pattern: ^feat
    group: features
`,
			field: "group_rules",
		},
		{
			name: "invalid rule pattern",
			content: `group_rules:
  - field: message
    pattern: "("
    group: features
  - field: message
    pattern: .*
    group: other
`,
			field: "group_rules",
		},
		{
			name:    "invalid tag pattern",
			content: "tag_pattern: \"(\"\n",
			field:   "tag_pattern",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			writeConfig(t, dir, ".relog.yml", tt.content)

			_, err := LoadWithOptions(LoadOptions{Dir: dir})
			require.Error(t, err)

			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestLoadReportsYAMLSyntaxErrors(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".relog.yml", "header: \"unterminated\n")

	_, err := LoadWithOptions(LoadOptions{Dir: dir})
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Message)
	assert.Equal(t, filepath.Join(dir, ".relog.yml"), verr.FilePath)
}

func TestEngineOptionsRoundTrip(t *testing.T) {
	cfg, err := LoadWithOptions(LoadOptions{Dir: t.TempDir()})
	require.NoError(t, err)

	opts := cfg.EngineOptions()
	assert.Equal(t, cfg.SortOrder, opts.SortOrder)
	assert.Equal(t, cfg.Header, opts.Header)
	assert.Equal(t, cfg.DateFormat, opts.DateLayout)
	assert.Len(t, opts.Rules, len(cfg.GroupRules))
	assert.Len(t, opts.Groups, len(cfg.Groups))

	// The default configuration must produce a working generator.
	_, err = changelog.NewGenerator(opts)
	require.NoError(t, err)
}

func TestDefaultTemplateIsValid(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, ".relog.yml", GetDefaultConfigTemplate())

	cfg, err := LoadWithOptions(LoadOptions{Dir: dir})
	require.NoError(t, err)
	assert.Equal(t, changelog.SortOldest, cfg.SortOrder)
	assert.Len(t, cfg.GroupRules, 8)

	// The written template mirrors the built-in defaults.
	defaults, err := LoadWithOptions(LoadOptions{Dir: t.TempDir()})
	require.NoError(t, err)
	assert.Equal(t, defaults.Groups, cfg.Groups)
	assert.Equal(t, defaults.GroupRules, cfg.GroupRules)
}

package config

import "github.com/ariel-frischer/relog/internal/changelog"

// GetDefaultConfigTemplate returns the starter config written by relog init.
func GetDefaultConfigTemplate() string {
	return `# relog configuration
# Validate changes to this file with: relog check

# Text emitted verbatim around the release sections.
header: |
  # Changelog

  All notable changes to this project are documented in this file.
footer: ""

# Base URL for pull request links. Discovered from the origin remote
# when left empty.
repo_url: ""

# Release date layout using Go reference time.
date_format: "2006-01-02"

# Commit order within a group: oldest or newest first.
sort_order: oldest

# Drop commits that only the catch-all rule matched.
filter_commits: false

# Treat every line of a commit message as its own entry.
split_commits: false

# Strip surrounding whitespace from the rendered document.
trim_output: true

# Append a section for commits made after the latest tag.
unreleased: false

# Only tags matching this pattern become releases. Empty matches all tags.
tag_pattern: ""

# Labels that mark a commit as a breaking change.
breaking_labels:
  - breaking-change
  - breaking

# Display order and headings. Groups without commits are omitted.
groups:
  - tag: breaking-change
    title: Breaking changes
  - tag: features
    title: Features
  - tag: bug-fixes
    title: Bug fixes
  - tag: performance
    title: Performance
  - tag: documentation
    title: Documentation
  - tag: refactoring
    title: Refactoring
  - tag: testing
    title: Testing
  - tag: other
    title: Other changes

# Ordered classification rules. The first matching rule wins and the
# final rule must be a catch-all so every commit lands in a group.
group_rules:
  - field: label
    pattern: (?i)^breaking([-_ ]change)?$
    group: breaking-change
  - field: message
    pattern: ^feat
    group: features
  - field: message
    pattern: ^fix
    group: bug-fixes
  - field: message
    pattern: ^perf
    group: performance
  - field: message
    pattern: ^docs
    group: documentation
  - field: message
    pattern: ^refactor
    group: refactoring
  - field: message
    pattern: ^test
    group: testing
  - field: message
    pattern: .*
    group: other
`
}

// GetDefaults returns the built-in configuration values.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"header":          "# Changelog\n\nAll notable changes to this project are documented in this file.\n",
		"footer":          "",
		"repo_url":        "",
		"date_format":     "2006-01-02",
		"sort_order":      changelog.SortOldest,
		"filter_commits":  false,
		"split_commits":   false,
		"trim_output":     true,
		"unreleased":      false,
		"tag_pattern":     "",
		"breaking_labels": []string{"breaking-change", "breaking"},
		"parallelism":     4,
		"groups":          DefaultGroups(),
		"group_rules":     DefaultRules(),
	}
}

// DefaultRules classifies conventional commit types into the default groups.
func DefaultRules() []RuleConfig {
	return []RuleConfig{
		{Field: changelog.FieldLabel, Pattern: `(?i)^breaking([-_ ]change)?$`, Group: "breaking-change"},
		{Field: changelog.FieldMessage, Pattern: `^feat`, Group: "features"},
		{Field: changelog.FieldMessage, Pattern: `^fix`, Group: "bug-fixes"},
		{Field: changelog.FieldMessage, Pattern: `^perf`, Group: "performance"},
		{Field: changelog.FieldMessage, Pattern: `^docs`, Group: "documentation"},
		{Field: changelog.FieldMessage, Pattern: `^refactor`, Group: "refactoring"},
		{Field: changelog.FieldMessage, Pattern: `^test`, Group: "testing"},
		{Field: changelog.FieldMessage, Pattern: `.*`, Group: "other"},
	}
}

// DefaultGroups fixes the display order and headings of the default groups.
func DefaultGroups() []GroupConfig {
	return []GroupConfig{
		{Tag: "breaking-change", Title: "Breaking changes"},
		{Tag: "features", Title: "Features"},
		{Tag: "bug-fixes", Title: "Bug fixes"},
		{Tag: "performance", Title: "Performance"},
		{Tag: "documentation", Title: "Documentation"},
		{Tag: "refactoring", Title: "Refactoring"},
		{Tag: "testing", Title: "Testing"},
		{Tag: "other", Title: "Other changes"},
	}
}

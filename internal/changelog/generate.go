package changelog

import (
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Commit batches below this size are parsed sequentially.
const parseParallelThreshold = 32

// Options configures a Generator. Zero values fall back to oldest-first
// ordering, the default date layout, and a parallelism of four.
type Options struct {
	// Rules is the ordered classification rule list. The last rule must
	// be a catch-all.
	Rules []Rule

	// Groups fixes the display order and headings of known groups.
	Groups []GroupTitle

	// SortOrder is SortOldest or SortNewest, applied within each group.
	SortOrder string

	// FilterCommits drops commits only the catch-all rule matched.
	FilterCommits bool

	// SplitCommits treats every non-empty message line as its own record.
	SplitCommits bool

	// TrimOutput strips surrounding whitespace from the final document,
	// leaving a single trailing newline.
	TrimOutput bool

	// Header and Footer are emitted verbatim around the release sections.
	Header string
	Footer string

	// RepoURL is the base URL pull-request references resolve against.
	// Empty disables the link-reference block.
	RepoURL string

	// DateLayout formats release timestamps in headings.
	DateLayout string

	// BreakingLabels marks labelled commits as breaking changes.
	BreakingLabels []string

	// Parallelism bounds concurrent commit parsing.
	Parallelism int
}

// Generator renders changelog documents from raw commit history. It is
// safe for concurrent use once constructed; all configuration is validated
// up front and read-only afterward.
type Generator struct {
	opts    Options
	rules   *RuleSet
	section *Template
}

// NewGenerator validates the configuration and builds a generator.
// Configuration errors (bad rule patterns, a missing terminal catch-all,
// an unknown sort order) are reported here, before any commit is touched.
func NewGenerator(opts Options) (*Generator, error) {
	rules, err := NewRuleSet(opts.Rules)
	if err != nil {
		return nil, err
	}

	switch opts.SortOrder {
	case "":
		opts.SortOrder = SortOldest
	case SortOldest, SortNewest:
	default:
		return nil, fmt.Errorf("unknown sort order %q (want %q or %q)", opts.SortOrder, SortOldest, SortNewest)
	}

	if opts.DateLayout == "" {
		opts.DateLayout = DefaultDateLayout
	}
	if opts.Parallelism <= 0 {
		opts.Parallelism = 4
	}

	return &Generator{
		opts:    opts,
		rules:   rules,
		section: sectionTemplate(opts.DateLayout),
	}, nil
}

// Generate renders the changelog document for the given releases, in the
// order supplied. Commits within each release are expected oldest first.
// A release without commits still renders its version heading.
func (g *Generator) Generate(releases []ReleaseInput) string {
	var sb strings.Builder
	sb.WriteString(g.opts.Header)
	for _, in := range releases {
		sb.WriteString(g.section.Render(g.buildData(in)))
	}
	sb.WriteString(g.opts.Footer)

	out := sb.String()
	if g.opts.TrimOutput {
		out = strings.TrimSpace(out) + "\n"
	}
	return out
}

// buildData runs one release through the pipeline: parse, classify,
// filter, aggregate, and link extraction. Every stage preserves the
// original commit order.
func (g *Generator) buildData(in ReleaseInput) Data {
	commits := g.rules.Apply(g.parse(in.Commits))
	if g.opts.FilterCommits {
		commits = filterCatchAll(commits, g.rules.CatchAllIndex())
	}

	groups := Aggregate(commits, AggregateOptions{
		SortOrder: g.opts.SortOrder,
		Titles:    g.opts.Groups,
	})

	return Data{
		Release: Release{
			Version:         in.Version,
			PreviousVersion: in.PreviousVersion,
			Time:            in.Time,
			Groups:          groups,
		},
		Links: Links(commits, g.opts.RepoURL),
	}
}

// parse expands raw commits into changelog records, fanning out across
// workers for large batches. Results are merged back in input order, so
// the outcome is identical to sequential parsing.
func (g *Generator) parse(raw []RawCommit) []Commit {
	popts := ParseOptions{
		SplitLines:     g.opts.SplitCommits,
		BreakingLabels: g.opts.BreakingLabels,
	}

	if len(raw) < parseParallelThreshold || g.opts.Parallelism == 1 {
		var commits []Commit
		for _, rc := range raw {
			commits = append(commits, Parse(rc, popts)...)
		}
		return commits
	}

	results := make([][]Commit, len(raw))
	var eg errgroup.Group
	eg.SetLimit(g.opts.Parallelism)
	for i, rc := range raw {
		i, rc := i, rc
		eg.Go(func() error {
			results[i] = Parse(rc, popts)
			return nil
		})
	}
	_ = eg.Wait()

	var commits []Commit
	for _, r := range results {
		commits = append(commits, r...)
	}
	return commits
}

package changelog

import (
	"slices"
	"strings"
)

// Sort directions for commits within a group.
const (
	SortOldest = "oldest"
	SortNewest = "newest"
)

// AggregateOptions controls group ordering and in-group commit order.
type AggregateOptions struct {
	// SortOrder is SortOldest or SortNewest. It applies within each
	// group; group order itself never changes.
	SortOrder string

	// Titles pre-seeds the group display order and headings. Groups not
	// listed here are appended in order of first appearance and get a
	// title derived from their tag.
	Titles []GroupTitle
}

// Aggregate buckets classified commits into ordered groups in a single
// pass. Commits keep their input order within a bucket, reversed at the
// end when SortNewest is requested. Buckets that receive no commits are
// omitted from the result.
func Aggregate(commits []Commit, opts AggregateOptions) []Group {
	order := make([]string, 0, len(opts.Titles))
	titles := make(map[string]string, len(opts.Titles))
	buckets := make(map[string][]Commit)

	for _, t := range opts.Titles {
		if _, ok := titles[t.Tag]; ok {
			continue
		}
		title := t.Title
		if title == "" {
			title = titleFromTag(t.Tag)
		}
		order = append(order, t.Tag)
		titles[t.Tag] = title
	}

	for _, c := range commits {
		if _, ok := titles[c.Group]; !ok {
			order = append(order, c.Group)
			titles[c.Group] = titleFromTag(c.Group)
		}
		buckets[c.Group] = append(buckets[c.Group], c)
	}

	groups := make([]Group, 0, len(order))
	for _, tag := range order {
		bucket := buckets[tag]
		if len(bucket) == 0 {
			continue
		}
		if opts.SortOrder == SortNewest {
			slices.Reverse(bucket)
		}
		groups = append(groups, Group{Tag: tag, Title: titles[tag], Commits: bucket})
	}
	return groups
}

// filterCatchAll drops commits whose only match was the terminal
// catch-all rule.
func filterCatchAll(commits []Commit, catchAll int) []Commit {
	kept := make([]Commit, 0, len(commits))
	for _, c := range commits {
		if c.rule == catchAll {
			continue
		}
		kept = append(kept, c)
	}
	return kept
}

// titleFromTag derives a heading for groups discovered outside the
// configured list, e.g. "bug-fixes" becomes "Bug fixes".
func titleFromTag(tag string) string {
	return Capitalize(strings.NewReplacer("-", " ", "_", " ").Replace(tag))
}

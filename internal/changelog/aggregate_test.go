package changelog

import (
	"testing"
)

func TestAggregateSeededGroupOrder(t *testing.T) {
	commits := []Commit{
		{Subject: "update readme", Group: "other"},
		{Subject: "fix: overflow", Group: "bug-fixes"},
		{Subject: "feat: watch mode", Group: "features"},
	}

	groups := Aggregate(commits, AggregateOptions{
		Titles: []GroupTitle{
			{Tag: "features", Title: "Features"},
			{Tag: "bug-fixes", Title: "Bug fixes"},
			{Tag: "other", Title: "Other changes"},
		},
	})

	want := []string{"features", "bug-fixes", "other"}
	if len(groups) != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), len(groups))
	}
	for i, tag := range want {
		if groups[i].Tag != tag {
			t.Errorf("group %d = %q, want %q", i, groups[i].Tag, tag)
		}
	}
}

func TestAggregateFirstAppearanceOrder(t *testing.T) {
	commits := []Commit{
		{Subject: "docs: flags", Group: "documentation"},
		{Subject: "feat: watch", Group: "features"},
		{Subject: "docs: config", Group: "documentation"},
	}

	groups := Aggregate(commits, AggregateOptions{})

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Tag != "documentation" || groups[1].Tag != "features" {
		t.Errorf("group order = %q, %q; want documentation, features", groups[0].Tag, groups[1].Tag)
	}
	if len(groups[0].Commits) != 2 {
		t.Errorf("documentation bucket has %d commits, want 2", len(groups[0].Commits))
	}
}

func TestAggregateUnseededAfterSeeded(t *testing.T) {
	commits := []Commit{
		{Subject: "ci: pin runners", Group: "ci"},
		{Subject: "feat: watch", Group: "features"},
	}

	groups := Aggregate(commits, AggregateOptions{
		Titles: []GroupTitle{{Tag: "features", Title: "Features"}},
	})

	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Tag != "features" {
		t.Errorf("seeded group should come first, got %q", groups[0].Tag)
	}
	if groups[1].Tag != "ci" {
		t.Errorf("unseeded group should follow, got %q", groups[1].Tag)
	}
}

func TestAggregateOmitsEmptyGroups(t *testing.T) {
	commits := []Commit{
		{Subject: "feat: watch", Group: "features"},
	}

	groups := Aggregate(commits, AggregateOptions{
		Titles: []GroupTitle{
			{Tag: "breaking-change", Title: "Breaking changes"},
			{Tag: "features", Title: "Features"},
			{Tag: "bug-fixes", Title: "Bug fixes"},
		},
	})

	if len(groups) != 1 {
		t.Fatalf("expected only the non-empty group, got %d groups", len(groups))
	}
	if groups[0].Tag != "features" {
		t.Errorf("got group %q, want features", groups[0].Tag)
	}
}

func TestAggregateSortOrder(t *testing.T) {
	commits := []Commit{
		{Subject: "feat: older", Group: "features"},
		{Subject: "fix: older", Group: "bug-fixes"},
		{Subject: "feat: newer", Group: "features"},
		{Subject: "fix: newer", Group: "bug-fixes"},
	}

	tests := map[string]struct {
		sortOrder string
		wantFeat  []string
		wantFix   []string
	}{
		"oldest keeps insertion order": {
			sortOrder: SortOldest,
			wantFeat:  []string{"feat: older", "feat: newer"},
			wantFix:   []string{"fix: older", "fix: newer"},
		},
		"newest reverses within each group": {
			sortOrder: SortNewest,
			wantFeat:  []string{"feat: newer", "feat: older"},
			wantFix:   []string{"fix: newer", "fix: older"},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			input := make([]Commit, len(commits))
			copy(input, commits)

			groups := Aggregate(input, AggregateOptions{
				SortOrder: tt.sortOrder,
				Titles: []GroupTitle{
					{Tag: "features", Title: "Features"},
					{Tag: "bug-fixes", Title: "Bug fixes"},
				},
			})

			if len(groups) != 2 {
				t.Fatalf("expected 2 groups, got %d", len(groups))
			}
			// Group order never changes with sort order.
			if groups[0].Tag != "features" || groups[1].Tag != "bug-fixes" {
				t.Fatalf("group order changed: %q, %q", groups[0].Tag, groups[1].Tag)
			}
			assertSubjects(t, groups[0].Commits, tt.wantFeat)
			assertSubjects(t, groups[1].Commits, tt.wantFix)
		})
	}
}

func TestAggregateTitleFallback(t *testing.T) {
	tests := map[string]struct {
		tag  string
		want string
	}{
		"hyphenated tag":  {tag: "bug-fixes", want: "Bug fixes"},
		"underscored tag": {tag: "breaking_changes", want: "Breaking changes"},
		"single word":     {tag: "docs", want: "Docs"},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			groups := Aggregate([]Commit{{Subject: "x", Group: tt.tag}}, AggregateOptions{})
			if len(groups) != 1 {
				t.Fatalf("expected 1 group, got %d", len(groups))
			}
			if groups[0].Title != tt.want {
				t.Errorf("title = %q, want %q", groups[0].Title, tt.want)
			}
		})
	}
}

func TestFilterCatchAllDropsOnlyCatchAllMatches(t *testing.T) {
	rs, err := NewRuleSet(testRules())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	commits := rs.Apply([]Commit{
		{Subject: "feat: watch"},
		{Subject: "update readme"},
		{Subject: "fix: overflow"},
	})

	kept := filterCatchAll(commits, rs.CatchAllIndex())
	assertSubjects(t, kept, []string{"feat: watch", "fix: overflow"})
}

func assertSubjects(t *testing.T, commits []Commit, want []string) {
	t.Helper()
	if len(commits) != len(want) {
		t.Fatalf("expected %d commits, got %d", len(want), len(commits))
	}
	for i, w := range want {
		if commits[i].Subject != w {
			t.Errorf("commit %d = %q, want %q", i, commits[i].Subject, w)
		}
	}
}

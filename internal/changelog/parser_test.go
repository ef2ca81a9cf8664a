package changelog

import (
	"testing"
	"time"
)

func TestParseConventionalShapes(t *testing.T) {
	tests := map[string]struct {
		message     string
		wantType    string
		wantScope   string
		wantDesc    string
		wantSubject string
	}{
		"type with scope": {
			message:     "feat(parser): add split mode",
			wantType:    "feat",
			wantScope:   "parser",
			wantDesc:    "add split mode",
			wantSubject: "feat(parser): add split mode",
		},
		"type without scope": {
			message:     "fix: handle overflow",
			wantType:    "fix",
			wantScope:   "",
			wantDesc:    "handle overflow",
			wantSubject: "fix: handle overflow",
		},
		"empty scope parens": {
			message:     "docs(): describe flags",
			wantType:    "docs",
			wantScope:   "",
			wantDesc:    "describe flags",
			wantSubject: "docs(): describe flags",
		},
		"no conventional prefix": {
			message:     "update readme",
			wantType:    "",
			wantScope:   "",
			wantDesc:    "update readme",
			wantSubject: "update readme",
		},
		"merge commit": {
			message:     "Merge branch 'main' into develop",
			wantType:    "",
			wantScope:   "",
			wantDesc:    "Merge branch 'main' into develop",
			wantSubject: "Merge branch 'main' into develop",
		},
		"colon without type shape": {
			message:     "spaced out: not conventional",
			wantType:    "",
			wantScope:   "",
			wantDesc:    "spaced out: not conventional",
			wantSubject: "spaced out: not conventional",
		},
		"body ignored without split": {
			message:     "feat(api): add pagination\n\nlong explanation here",
			wantType:    "feat",
			wantScope:   "api",
			wantDesc:    "add pagination",
			wantSubject: "feat(api): add pagination",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			commits := Parse(RawCommit{Hash: "abc", Message: tt.message}, ParseOptions{})
			if len(commits) != 1 {
				t.Fatalf("expected exactly one record, got %d", len(commits))
			}
			c := commits[0]
			if c.Type != tt.wantType {
				t.Errorf("type = %q, want %q", c.Type, tt.wantType)
			}
			if c.Scope != tt.wantScope {
				t.Errorf("scope = %q, want %q", c.Scope, tt.wantScope)
			}
			if c.Description != tt.wantDesc {
				t.Errorf("description = %q, want %q", c.Description, tt.wantDesc)
			}
			if c.Subject != tt.wantSubject {
				t.Errorf("subject = %q, want %q", c.Subject, tt.wantSubject)
			}
			if c.Raw != tt.message {
				t.Errorf("raw = %q, want original message", c.Raw)
			}
		})
	}
}

func TestParseNeverRejects(t *testing.T) {
	messages := []string{
		"",
		":",
		"!!!",
		"(#12)",
		"feat",
		"   leading spaces",
	}

	for _, message := range messages {
		commits := Parse(RawCommit{Message: message}, ParseOptions{})
		if len(commits) != 1 {
			t.Fatalf("message %q: expected one degraded record, got %d", message, len(commits))
		}
		if commits[0].Type != "" {
			t.Errorf("message %q: expected empty type, got %q", message, commits[0].Type)
		}
	}
}

func TestParseBreakingDetection(t *testing.T) {
	tests := map[string]struct {
		message      string
		labels       []string
		breakingOpts []string
		want         bool
	}{
		"bang marker": {
			message: "feat!: drop legacy flags",
			want:    true,
		},
		"bang marker with scope": {
			message: "feat(api)!: remove v1 endpoints",
			want:    true,
		},
		"footer token": {
			message: "feat: rework config\n\nBREAKING CHANGE: keys renamed",
			want:    true,
		},
		"hyphenated footer token": {
			message: "feat: rework config\n\nBREAKING-CHANGE: keys renamed",
			want:    true,
		},
		"footer token mid body line": {
			message: "feat: rework config\n\nthis mentions BREAKING CHANGE: in passing",
			want:    false,
		},
		"breaking label case-insensitive": {
			message:      "feat: rework config",
			labels:       []string{"Breaking-Change"},
			breakingOpts: []string{"breaking-change"},
			want:         true,
		},
		"unrelated label": {
			message:      "feat: rework config",
			labels:       []string{"documentation"},
			breakingOpts: []string{"breaking-change"},
			want:         false,
		},
		"plain feature": {
			message: "feat: add pagination",
			want:    false,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			commits := Parse(
				RawCommit{Message: tt.message, Labels: tt.labels},
				ParseOptions{BreakingLabels: tt.breakingOpts},
			)
			if len(commits) != 1 {
				t.Fatalf("expected one record, got %d", len(commits))
			}
			if commits[0].Breaking != tt.want {
				t.Errorf("breaking = %v, want %v", commits[0].Breaking, tt.want)
			}
		})
	}
}

func TestParseSplitLines(t *testing.T) {
	raw := RawCommit{
		Hash:    "abc123",
		Time:    time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		Message: "feat(cli): add watch flag\n\nfix: debounce events\n\nupdate docs\n",
		Labels:  []string{"breaking-change"},
	}

	commits := Parse(raw, ParseOptions{
		SplitLines:     true,
		BreakingLabels: []string{"breaking-change"},
	})

	if len(commits) != 3 {
		t.Fatalf("expected 3 records, got %d", len(commits))
	}

	subjects := []string{"feat(cli): add watch flag", "fix: debounce events", "update docs"}
	for i, want := range subjects {
		if commits[i].Subject != want {
			t.Errorf("record %d subject = %q, want %q", i, commits[i].Subject, want)
		}
	}

	if commits[0].Type != "feat" || commits[1].Type != "fix" || commits[2].Type != "" {
		t.Errorf("types = %q/%q/%q, want feat/fix/empty",
			commits[0].Type, commits[1].Type, commits[2].Type)
	}

	// Label-derived flags apply to every record of the commit.
	for i, c := range commits {
		if !c.Breaking {
			t.Errorf("record %d: expected breaking flag from label", i)
		}
		if c.Hash != raw.Hash {
			t.Errorf("record %d: hash = %q, want %q", i, c.Hash, raw.Hash)
		}
		if !c.Time.Equal(raw.Time) {
			t.Errorf("record %d: time = %v, want %v", i, c.Time, raw.Time)
		}
	}
}

func TestParseSplitSkipsBlankLines(t *testing.T) {
	commits := Parse(RawCommit{Message: "feat: one\n\n   \n\nfix: two"}, ParseOptions{SplitLines: true})
	if len(commits) != 2 {
		t.Fatalf("expected 2 records, got %d", len(commits))
	}
}

package changelog

import (
	"regexp"
	"strings"
)

var (
	// subjectPattern decomposes a conventional-commit subject line into
	// type, optional scope, optional breaking bang, and description.
	subjectPattern = regexp.MustCompile(`^(\w+)(?:\(([^)]*)\))?(!)?:\s*(.*)$`)

	// breakingFooterPattern recognizes a breaking-change footer at the
	// start of any message line.
	breakingFooterPattern = regexp.MustCompile(`(?m)^BREAKING[ -]CHANGE:`)
)

// ParseOptions controls how raw commit messages become changelog records.
type ParseOptions struct {
	// SplitLines treats every non-empty line of the message as an
	// independent record instead of using the subject line only.
	SplitLines bool

	// BreakingLabels marks a commit as breaking when it carries one of
	// these labels. Comparison is case-insensitive.
	BreakingLabels []string
}

// Parse turns one raw commit into one or more changelog records. It never
// fails: a line that does not follow the type(scope): description shape
// degrades to a record holding the whole line as its description. A
// breaking-change footer or label marks every record derived from the
// commit as breaking.
func Parse(raw RawCommit, opts ParseOptions) []Commit {
	breaking := breakingFooterPattern.MatchString(raw.Message) ||
		hasBreakingLabel(raw.Labels, opts.BreakingLabels)

	var lines []string
	if opts.SplitLines {
		lines = nonEmptyLines(raw.Message)
	} else {
		lines = []string{subjectLine(raw.Message)}
	}

	commits := make([]Commit, 0, len(lines))
	for _, line := range lines {
		c := Commit{
			Hash:     raw.Hash,
			Time:     raw.Time,
			Raw:      raw.Message,
			Subject:  line,
			Breaking: breaking,
			Labels:   raw.Labels,
		}
		if m := subjectPattern.FindStringSubmatch(line); m != nil {
			c.Type = m[1]
			c.Scope = m[2]
			c.Description = m[4]
			if m[3] == "!" {
				c.Breaking = true
			}
		} else {
			c.Description = line
		}
		commits = append(commits, c)
	}
	return commits
}

// subjectLine returns the first line of a message with surrounding
// whitespace removed.
func subjectLine(message string) string {
	if i := strings.IndexByte(message, '\n'); i >= 0 {
		message = message[:i]
	}
	return strings.TrimSpace(message)
}

func nonEmptyLines(message string) []string {
	var lines []string
	for _, line := range strings.Split(message, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func hasBreakingLabel(labels, breaking []string) bool {
	for _, label := range labels {
		for _, b := range breaking {
			if strings.EqualFold(label, b) {
				return true
			}
		}
	}
	return false
}

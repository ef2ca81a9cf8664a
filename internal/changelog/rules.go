package changelog

import (
	"fmt"
	"regexp"
	"strings"
)

// Fields a classification rule can match against.
const (
	// FieldMessage matches the rule pattern against the commit subject.
	FieldMessage = "message"
	// FieldLabel matches the rule pattern against each commit label.
	FieldLabel = "label"
)

// Rule assigns commits matching a regular expression to a named group.
type Rule struct {
	Field   string
	Pattern string
	Group   string
}

type compiledRule struct {
	field   string
	pattern *regexp.Regexp
	group   string
}

// RuleSet is an ordered list of compiled classification rules. Rules are
// evaluated top to bottom and the first match wins; declaration order is
// the only tie-break between overlapping patterns.
type RuleSet struct {
	rules []compiledRule
}

// NewRuleSet compiles rules in declaration order. It fails when a pattern
// does not compile, when a field name is unknown, or when the terminal
// catch-all guarantee is broken: the last rule must match every message
// and no earlier rule may be a catch-all.
func NewRuleSet(rules []Rule) (*RuleSet, error) {
	if len(rules) == 0 {
		return nil, fmt.Errorf("no group rules configured")
	}

	compiled := make([]compiledRule, 0, len(rules))
	for i, r := range rules {
		switch r.Field {
		case FieldMessage, FieldLabel:
		default:
			return nil, fmt.Errorf("group rule %d (group %q): unknown match field %q", i+1, r.Group, r.Field)
		}
		re, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, fmt.Errorf("group rule %d (group %q): invalid pattern: %w", i+1, r.Group, err)
		}
		if isCatchAll(r) && i != len(rules)-1 {
			return nil, fmt.Errorf("group rule %d (group %q): catch-all pattern must be the last rule", i+1, r.Group)
		}
		compiled = append(compiled, compiledRule{field: r.Field, pattern: re, group: r.Group})
	}

	if last := rules[len(rules)-1]; !isCatchAll(last) {
		return nil, fmt.Errorf("last group rule (group %q) must be a catch-all matching every message, got pattern %q",
			last.Group, last.Pattern)
	}

	return &RuleSet{rules: compiled}, nil
}

// isCatchAll reports whether a rule matches every commit message.
func isCatchAll(r Rule) bool {
	if r.Field != FieldMessage {
		return false
	}
	p := strings.TrimSuffix(strings.TrimPrefix(r.Pattern, "^"), "$")
	return p == "" || p == ".*"
}

// Classify returns the group of the first rule matching the commit along
// with that rule's position. The catch-all guarantee means it always
// matches; a commit is never left unclassified.
func (rs *RuleSet) Classify(c Commit) (group string, index int) {
	for i, r := range rs.rules {
		if r.matches(c) {
			return r.group, i
		}
	}
	last := len(rs.rules) - 1
	return rs.rules[last].group, last
}

// Apply classifies every commit, stamping the group tag and matched rule
// position on each record. Input order is preserved.
func (rs *RuleSet) Apply(commits []Commit) []Commit {
	out := make([]Commit, len(commits))
	for i, c := range commits {
		c.Group, c.rule = rs.Classify(c)
		out[i] = c
	}
	return out
}

// CatchAllIndex is the position of the terminal catch-all rule.
func (rs *RuleSet) CatchAllIndex() int {
	return len(rs.rules) - 1
}

// Len returns the number of rules in the set.
func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

func (r compiledRule) matches(c Commit) bool {
	if r.field == FieldLabel {
		for _, label := range c.Labels {
			if r.pattern.MatchString(label) {
				return true
			}
		}
		return false
	}
	return r.pattern.MatchString(c.Subject)
}

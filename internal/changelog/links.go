package changelog

import (
	"regexp"
	"strings"
)

// refPattern recognizes a pull-request reference such as (#42).
var refPattern = regexp.MustCompile(`\(#(\d+)\)`)

// Links extracts pull-request references from commit subjects and resolves
// them against the repository URL. When a subject carries several
// references only the last one counts. Each number appears once, in the
// order it was first seen across the commit stream. An empty repoURL
// yields no links; a commit without a reference contributes none.
func Links(commits []Commit, repoURL string) []LinkEntry {
	if repoURL == "" {
		return nil
	}
	base := strings.TrimSuffix(repoURL, "/")

	var links []LinkEntry
	seen := make(map[string]bool)
	for _, c := range commits {
		matches := refPattern.FindAllStringSubmatch(c.Subject, -1)
		if len(matches) == 0 {
			continue
		}
		number := matches[len(matches)-1][1]
		if seen[number] {
			continue
		}
		seen[number] = true
		links = append(links, LinkEntry{Number: number, URL: base + "/pull/" + number})
	}
	return links
}

package changelog

import "time"

// RawCommit is a commit as it comes out of the repository walk, before any
// parsing. Labels carry optional annotations such as pull-request labels.
type RawCommit struct {
	Hash    string
	Time    time.Time
	Message string
	Labels  []string
}

// Commit is one parsed changelog record. A commit message that does not
// follow the conventional type(scope): description shape keeps its whole
// subject line as Description and an empty Type. Group is assigned exactly
// once by rule classification and never changes afterward.
type Commit struct {
	Hash        string
	Time        time.Time
	Raw         string
	Subject     string
	Type        string
	Scope       string
	Description string
	Breaking    bool
	Labels      []string
	Group       string

	// rule is the position of the classification rule that matched.
	rule int
}

// GroupTitle maps a group tag to the heading it renders under.
type GroupTitle struct {
	Tag   string
	Title string
}

// Group is an ordered bucket of commits rendered under one heading.
type Group struct {
	Tag     string
	Title   string
	Commits []Commit
}

// Release is the fully aggregated data for one changelog section.
type Release struct {
	Version         string
	PreviousVersion string
	Time            time.Time
	Groups          []Group
}

// ReleaseInput names a version and the raw commits that belong to it.
// Commits are expected oldest first.
type ReleaseInput struct {
	Version         string
	PreviousVersion string
	Time            time.Time
	Commits         []RawCommit
}

// LinkEntry resolves one pull-request reference number to its URL.
type LinkEntry struct {
	Number string
	URL    string
}

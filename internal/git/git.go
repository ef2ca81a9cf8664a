// Package git reads release history out of a local repository. It uses the
// go-git library exclusively, so relog works without a git binary installed.
package git

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/storage/filesystem"

	"github.com/ariel-frischer/relog/internal/changelog"
)

// debugLogger is a function that logs debug messages when debug mode is
// enabled. By default it's a no-op. Set it via SetDebugLogger.
var debugLogger func(format string, args ...any)

// SetDebugLogger configures the debug logger for git operations.
// Pass nil to disable debug logging. The logger function should format
// and output the message (similar to log.Printf signature).
func SetDebugLogger(logger func(format string, args ...any)) {
	debugLogger = logger
}

// logDebug logs a debug message if the debug logger is set.
func logDebug(format string, args ...any) {
	if debugLogger != nil {
		debugLogger(format, args...)
	}
}

// Repository wraps an opened git repository.
type Repository struct {
	repo *git.Repository
	path string
}

// Open opens the repository at the specified path or the current working
// directory. It uses go-git's PlainOpenWithOptions with DetectDotGit enabled
// to traverse up the directory tree to find the repository root.
func Open(path string) (*Repository, error) {
	if path == "" {
		var err error
		path, err = os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("getting current directory: %w", err)
		}
	}

	logDebug("[git] opening repository at %s", path)

	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{
		DetectDotGit: true,
	})
	if err != nil {
		return nil, fmt.Errorf("opening repository at %s: %w", path, err)
	}

	logDebug("[git] repository opened successfully")
	return &Repository{repo: repo, path: path}, nil
}

// Root returns the absolute path to the repository worktree root.
func (r *Repository) Root() (string, error) {
	worktree, err := r.repo.Worktree()
	if err != nil {
		return "", fmt.Errorf("getting worktree: %w", err)
	}
	return worktree.Filesystem.Root(), nil
}

// GitDir returns the on-disk path of the .git directory. Watch mode observes
// this directory for new commits and tags.
func (r *Repository) GitDir() (string, error) {
	storage, ok := r.repo.Storer.(*filesystem.Storage)
	if !ok {
		return "", fmt.Errorf("repository storage is not on disk")
	}
	return storage.Filesystem().Root(), nil
}

// Tag is a release tag resolved to the commit it points at. Annotated tags
// are dereferenced, so Hash is always a commit hash.
type Tag struct {
	Name string
	Hash plumbing.Hash
	Time time.Time
}

// Tags returns all tags matching pattern, ordered oldest to newest by the
// tagged commit's committer time. An empty pattern matches every tag.
func (r *Repository) Tags(pattern string) ([]Tag, error) {
	var re *regexp.Regexp
	if pattern != "" {
		var err error
		re, err = regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("compiling tag pattern %q: %w", pattern, err)
		}
	}

	iter, err := r.repo.Tags()
	if err != nil {
		return nil, fmt.Errorf("listing tags: %w", err)
	}

	var tags []Tag
	err = iter.ForEach(func(ref *plumbing.Reference) error {
		name := ref.Name().Short()
		if re != nil && !re.MatchString(name) {
			return nil
		}

		commit, err := r.resolveTag(ref)
		if err != nil {
			return fmt.Errorf("resolving tag %s: %w", name, err)
		}

		tags = append(tags, Tag{
			Name: name,
			Hash: commit.Hash,
			Time: commit.Committer.When,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(tags, func(i, j int) bool {
		if tags[i].Time.Equal(tags[j].Time) {
			return tags[i].Name < tags[j].Name
		}
		return tags[i].Time.Before(tags[j].Time)
	})

	logDebug("[git] found %d tags matching %q", len(tags), pattern)
	return tags, nil
}

// resolveTag returns the commit a tag reference points at, dereferencing
// annotated tag objects.
func (r *Repository) resolveTag(ref *plumbing.Reference) (*object.Commit, error) {
	tag, err := r.repo.TagObject(ref.Hash())
	switch err {
	case nil:
		return tag.Commit()
	case plumbing.ErrObjectNotFound:
		return r.repo.CommitObject(ref.Hash())
	default:
		return nil, err
	}
}

// RemoteURL returns the origin remote rewritten as an https base URL with
// any .git suffix removed, suitable for building pull request links.
// Returns the empty string when no origin remote is configured.
func (r *Repository) RemoteURL() (string, error) {
	remote, err := r.repo.Remote("origin")
	if err == git.ErrRemoteNotFound {
		logDebug("[git] no origin remote configured")
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading origin remote: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", nil
	}

	url := normalizeRemoteURL(urls[0])
	logDebug("[git] origin remote resolved to %s", url)
	return url, nil
}

var (
	sshURLPattern = regexp.MustCompile(`^(?:git\+ssh|ssh)://(?:[^@/]+@)?([^:/]+)(?::\d+)?/(.+)$`)
	scpURLPattern = regexp.MustCompile(`^(?:[^@/]+@)([^:/]+):(.+)$`)
)

// normalizeRemoteURL rewrites ssh and scp style remote URLs to https and
// strips .git suffixes, so every remote form yields the same link base.
func normalizeRemoteURL(url string) string {
	url = strings.TrimSpace(url)
	url = strings.TrimSuffix(url, "/")
	url = strings.TrimSuffix(url, ".git")
	if m := sshURLPattern.FindStringSubmatch(url); m != nil {
		return "https://" + m[1] + "/" + m[2]
	}
	if m := scpURLPattern.FindStringSubmatch(url); m != nil {
		return "https://" + m[1] + "/" + m[2]
	}
	return url
}

// HistoryOptions controls how ReleaseHistory slices the commit graph.
type HistoryOptions struct {
	// TagPattern limits which tags become releases. Empty matches all tags.
	TagPattern string
	// Unreleased appends a pseudo release for commits made after the
	// newest tag. Its version is "Unreleased" and its time is the
	// committer time of the newest commit it contains.
	Unreleased bool
}

// UnreleasedVersion names the pseudo release holding untagged commits.
const UnreleasedVersion = "Unreleased"

// ReleaseHistory slices the commit graph into one release per tag, newest
// release first. Each release holds the commits reachable from its tag but
// not from the previous tag, oldest commit first. A repository without tags
// or commits yields an empty history and no error.
func (r *Repository) ReleaseHistory(opts HistoryOptions) ([]changelog.ReleaseInput, error) {
	tags, err := r.Tags(opts.TagPattern)
	if err != nil {
		return nil, err
	}

	var releases []changelog.ReleaseInput
	var prev plumbing.Hash
	var prevName string

	for _, tag := range tags {
		commits, err := r.commitsBetween(prev, tag.Hash)
		if err != nil {
			return nil, err
		}
		releases = append(releases, changelog.ReleaseInput{
			Version:         tag.Name,
			PreviousVersion: prevName,
			Time:            tag.Time,
			Commits:         commits,
		})
		prev = tag.Hash
		prevName = tag.Name
	}

	if opts.Unreleased {
		release, err := r.unreleased(prev, prevName)
		if err != nil {
			return nil, err
		}
		if release != nil {
			releases = append(releases, *release)
		}
	}

	// Newest release renders first.
	for i, j := 0, len(releases)-1; i < j; i, j = i+1, j-1 {
		releases[i], releases[j] = releases[j], releases[i]
	}

	logDebug("[git] built history with %d releases", len(releases))
	return releases, nil
}

// unreleased collects the commits made after the newest tag. Returns nil
// when HEAD is unborn or no commits follow the tag.
func (r *Repository) unreleased(prev plumbing.Hash, prevName string) (*changelog.ReleaseInput, error) {
	head, err := r.repo.Head()
	if err == plumbing.ErrReferenceNotFound {
		logDebug("[git] HEAD is unborn, skipping unreleased section")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting HEAD reference: %w", err)
	}

	commits, err := r.commitsBetween(prev, head.Hash())
	if err != nil {
		return nil, err
	}
	if len(commits) == 0 {
		return nil, nil
	}

	return &changelog.ReleaseInput{
		Version:         UnreleasedVersion,
		PreviousVersion: prevName,
		Time:            commits[len(commits)-1].Time,
		Commits:         commits,
	}, nil
}

// commitsBetween returns the commits reachable from to but not from from,
// oldest first. A zero from hash excludes nothing.
func (r *Repository) commitsBetween(from, to plumbing.Hash) ([]changelog.RawCommit, error) {
	exclude := make(map[plumbing.Hash]bool)
	if !from.IsZero() {
		iter, err := r.repo.Log(&git.LogOptions{From: from})
		if err != nil {
			return nil, fmt.Errorf("walking history from %s: %w", from, err)
		}
		err = iter.ForEach(func(c *object.Commit) error {
			exclude[c.Hash] = true
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walking history from %s: %w", from, err)
		}
	}

	iter, err := r.repo.Log(&git.LogOptions{From: to, Order: git.LogOrderCommitterTime})
	if err != nil {
		return nil, fmt.Errorf("walking history from %s: %w", to, err)
	}

	var commits []changelog.RawCommit
	err = iter.ForEach(func(c *object.Commit) error {
		if exclude[c.Hash] {
			return nil
		}
		commits = append(commits, changelog.RawCommit{
			Hash:    c.Hash.String(),
			Time:    c.Committer.When,
			Message: c.Message,
			Labels:  commitLabels(c.Message),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking history from %s: %w", to, err)
	}

	// The log walk yields newest first.
	for i, j := 0, len(commits)-1; i < j; i, j = i+1, j-1 {
		commits[i], commits[j] = commits[j], commits[i]
	}
	return commits, nil
}

var labelTrailerPattern = regexp.MustCompile(`(?mi)^labels?:\s*(.+)$`)

// commitLabels extracts labels from Label: and Labels: trailer lines in the
// commit message. Multiple labels on one line are comma separated.
func commitLabels(message string) []string {
	var labels []string
	for _, m := range labelTrailerPattern.FindAllStringSubmatch(message, -1) {
		for _, part := range strings.Split(m[1], ",") {
			if part = strings.TrimSpace(part); part != "" {
				labels = append(labels, part)
			}
		}
	}
	return labels
}

// Package testutil provides test helpers for building throwaway git
// repositories.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GitRepo builds a real repository under a temp directory. Every commit
// advances a fixed clock by one minute, so committer times are deterministic
// and strictly ordered.
type GitRepo struct {
	t    *testing.T
	dir  string
	repo *git.Repository
	now  time.Time
	seq  int
}

// NewGitRepo initializes an empty repository. The directory is removed when
// the test finishes.
func NewGitRepo(t *testing.T) *GitRepo {
	t.Helper()
	return NewGitRepoAt(t, t.TempDir())
}

// NewGitRepoAt initializes an empty repository in an existing directory.
func NewGitRepoAt(t *testing.T, dir string) *GitRepo {
	t.Helper()
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("init repository in %s: %v", dir, err)
	}
	return &GitRepo{
		t:    t,
		dir:  dir,
		repo: repo,
		now:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Dir returns the worktree root.
func (r *GitRepo) Dir() string {
	return r.dir
}

// Commit writes a unique file and commits it with the given message.
func (r *GitRepo) Commit(message string) plumbing.Hash {
	r.t.Helper()
	r.now = r.now.Add(time.Minute)
	r.seq++

	wt, err := r.repo.Worktree()
	if err != nil {
		r.t.Fatalf("get worktree: %v", err)
	}

	name := fmt.Sprintf("file-%03d.txt", r.seq)
	path := filepath.Join(r.dir, name)
	if err := os.WriteFile(path, []byte(message+"\n"), 0o644); err != nil {
		r.t.Fatalf("write %s: %v", name, err)
	}
	if _, err := wt.Add(name); err != nil {
		r.t.Fatalf("stage %s: %v", name, err)
	}

	sig := r.signature()
	hash, err := wt.Commit(message, &git.CommitOptions{Author: &sig, Committer: &sig})
	if err != nil {
		r.t.Fatalf("commit %q: %v", message, err)
	}
	return hash
}

// Tag creates a lightweight tag pointing at the given commit.
func (r *GitRepo) Tag(name string, hash plumbing.Hash) {
	r.t.Helper()
	if _, err := r.repo.CreateTag(name, hash, nil); err != nil {
		r.t.Fatalf("create tag %s: %v", name, err)
	}
}

// AnnotatedTag creates an annotated tag object pointing at the given commit.
func (r *GitRepo) AnnotatedTag(name string, hash plumbing.Hash, message string) {
	r.t.Helper()
	r.now = r.now.Add(time.Minute)
	sig := r.signature()
	_, err := r.repo.CreateTag(name, hash, &git.CreateTagOptions{
		Tagger:  &sig,
		Message: message,
	})
	if err != nil {
		r.t.Fatalf("create annotated tag %s: %v", name, err)
	}
}

// SetRemote configures the origin remote with the given URL.
func (r *GitRepo) SetRemote(url string) {
	r.t.Helper()
	_, err := r.repo.CreateRemote(&config.RemoteConfig{
		Name: "origin",
		URLs: []string{url},
	})
	if err != nil {
		r.t.Fatalf("create origin remote: %v", err)
	}
}

func (r *GitRepo) signature() object.Signature {
	return object.Signature{
		Name:  "Test Author",
		Email: "author@example.com",
		When:  r.now,
	}
}

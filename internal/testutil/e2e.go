package testutil

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"testing"
	"time"
)

var (
	// relogBinaryPath caches the built relog binary path.
	relogBinaryPath string
	relogBuildOnce  sync.Once
	relogBuildErr   error
)

// E2EEnv provides an isolated environment for end-to-end tests. Each test
// gets its own temp directory used as HOME and working directory, so config
// discovery never picks up files from the developer's machine.
type E2EEnv struct {
	t       *testing.T
	tempDir string
}

// CommandResult captures the result of running a relog command.
type CommandResult struct {
	ExitCode int
	Stdout   string
	Stderr   string
	Duration time.Duration
}

// NewE2EEnv creates an isolated test environment and builds the relog
// binary on first use. The binary is built once per test session.
func NewE2EEnv(t *testing.T) *E2EEnv {
	t.Helper()

	env := &E2EEnv{
		t:       t,
		tempDir: t.TempDir(),
	}
	env.buildRelog()
	return env
}

func (e *E2EEnv) buildRelog() {
	e.t.Helper()

	relogBuildOnce.Do(func() {
		relogBinaryPath, relogBuildErr = buildRelogBinary()
	})
	if relogBuildErr != nil {
		e.t.Fatalf("building relog: %v", relogBuildErr)
	}
}

func buildRelogBinary() (string, error) {
	_, currentFile, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("determining current file location")
	}
	repoRoot := filepath.Join(filepath.Dir(currentFile), "..", "..")

	tmpDir, err := os.MkdirTemp("", "relog-build-*")
	if err != nil {
		return "", fmt.Errorf("creating temp dir for build: %w", err)
	}
	binaryPath := filepath.Join(tmpDir, "relog")

	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/relog")
	cmd.Dir = repoRoot
	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", fmt.Errorf("building relog: %w\nOutput: %s", err, output)
	}
	return binaryPath, nil
}

// TempDir returns the isolated directory commands run in.
func (e *E2EEnv) TempDir() string {
	return e.tempDir
}

// InitRepo creates a git repository in a subdirectory of the environment
// and returns it.
func (e *E2EEnv) InitRepo(name string) *GitRepo {
	e.t.Helper()

	dir := filepath.Join(e.tempDir, name)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		e.t.Fatalf("creating repo directory: %v", err)
	}
	return NewGitRepoAt(e.t, dir)
}

// WriteFile writes a file relative to the environment directory and
// returns its absolute path.
func (e *E2EEnv) WriteFile(relPath, content string) string {
	e.t.Helper()

	path := filepath.Join(e.tempDir, relPath)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		e.t.Fatalf("creating directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		e.t.Fatalf("writing %s: %v", relPath, err)
	}
	return path
}

// ReadFile reads a file relative to the environment directory.
func (e *E2EEnv) ReadFile(relPath string) string {
	e.t.Helper()

	data, err := os.ReadFile(filepath.Join(e.tempDir, relPath))
	if err != nil {
		e.t.Fatalf("reading %s: %v", relPath, err)
	}
	return string(data)
}

// Run executes relog with the given args inside the environment directory.
func (e *E2EEnv) Run(args ...string) CommandResult {
	return e.RunIn(e.tempDir, args...)
}

// RunIn executes relog with the given args in the given working directory.
func (e *E2EEnv) RunIn(dir string, args ...string) CommandResult {
	e.t.Helper()

	start := time.Now()

	cmd := exec.Command(relogBinaryPath, args...)
	cmd.Dir = dir
	cmd.Env = e.isolatedEnv()

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result := CommandResult{
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
		Duration: time.Since(start),
	}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 1
		}
	}
	return result
}

// isolatedEnv keeps PATH for standard utilities but points HOME at the
// temp directory and strips NO_COLOR and RELOG_* overrides so tests see
// deterministic defaults.
func (e *E2EEnv) isolatedEnv() []string {
	env := []string{
		"PATH=" + os.Getenv("PATH"),
		"HOME=" + e.tempDir,
	}
	for _, key := range []string{"TERM", "LANG", "LC_ALL", "TMPDIR"} {
		if val, ok := os.LookupEnv(key); ok {
			env = append(env, key+"="+val)
		}
	}
	return env
}

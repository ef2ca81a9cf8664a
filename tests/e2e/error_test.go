//go:build e2e

package e2e

import (
	"path/filepath"
	"testing"

	"github.com/ariel-frischer/relog/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestE2E_ErrorScenarios(t *testing.T) {
	tests := map[string]struct {
		setup         func(env *testutil.E2EEnv) string
		args          []string
		wantExitCode  int
		wantStderrSub string
	}{
		"no repository is a runtime failure": {
			setup:         func(env *testutil.E2EEnv) string { return env.TempDir() },
			wantExitCode:  1,
			wantStderrSub: "no git repository",
		},
		"watch without output is an argument failure": {
			setup: func(env *testutil.E2EEnv) string {
				repo := env.InitRepo("widget")
				head := repo.Commit("feat: something")
				repo.Tag("v1.0.0", head)
				return repo.Dir()
			},
			args:          []string{"--watch"},
			wantExitCode:  3,
			wantStderrSub: "invalid flag combination",
		},
		"invalid rule pattern is a configuration failure": {
			setup: func(env *testutil.E2EEnv) string {
				repo := env.InitRepo("widget")
				head := repo.Commit("feat: something")
				repo.Tag("v1.0.0", head)
				env.WriteFile(filepath.Join("widget", ".relog.yml"),
					"group_rules:\n"+
						"  - field: message\n"+
						"    pattern: '('\n"+
						"    group: broken\n"+
						"  - field: message\n"+
						"    pattern: .*\n"+
						"    group: other\n")
				return repo.Dir()
			},
			wantExitCode:  2,
			wantStderrSub: "invalid pattern",
		},
		"unwritable output path is a runtime failure": {
			setup: func(env *testutil.E2EEnv) string {
				repo := env.InitRepo("widget")
				head := repo.Commit("feat: something")
				repo.Tag("v1.0.0", head)
				return repo.Dir()
			},
			args:          []string{"--output", "no-such-dir/CHANGELOG.md"},
			wantExitCode:  1,
			wantStderrSub: "cannot write changelog",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			env := testutil.NewE2EEnv(t)
			dir := tt.setup(env)

			result := env.RunIn(dir, tt.args...)

			require.Equal(t, tt.wantExitCode, result.ExitCode,
				"unexpected exit code\nstdout: %s\nstderr: %s",
				result.Stdout, result.Stderr)
			assert.Contains(t, result.Stderr, tt.wantStderrSub)
		})
	}
}

// The error path must not leak a partial document to stdout.
func TestE2E_NoPartialOutputOnFailure(t *testing.T) {
	env := testutil.NewE2EEnv(t)

	result := env.Run()

	require.Equal(t, 1, result.ExitCode)
	assert.Empty(t, result.Stdout)
}

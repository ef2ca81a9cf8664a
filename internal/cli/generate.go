package cli

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ariel-frischer/relog/internal/changelog"
	"github.com/ariel-frischer/relog/internal/config"
	clierrors "github.com/ariel-frischer/relog/internal/errors"
	"github.com/ariel-frischer/relog/internal/git"
	"github.com/ariel-frischer/relog/internal/output"
	"github.com/ariel-frischer/relog/internal/watch"
)

func runGenerate(cmd *cobra.Command, args []string) error {
	outputPath, _ := cmd.Flags().GetString("output")
	watchMode, _ := cmd.Flags().GetBool("watch")
	quiet, _ := cmd.Flags().GetBool("quiet")

	if watchMode && outputPath == "" {
		return clierrors.InvalidFlagCombination("--watch without --output",
			"Watch mode rewrites a file in place, pass --output to name it")
	}

	printer := output.NewPrinterTo(cmd.ErrOrStderr(), quiet, output.DetectCapabilities(os.Stderr))

	repoPath, _ := cmd.Flags().GetString("repo-path")
	repo, err := git.Open(repoPath)
	if err != nil {
		return clierrors.NotARepository(displayPath(repoPath))
	}

	cfg, err := loadConfig(cmd, repoDir(repo, repoPath))
	if err != nil {
		return err
	}

	opts := cfg.EngineOptions()
	if opts.RepoURL == "" {
		url, err := repo.RemoteURL()
		if err != nil {
			return clierrors.Wrap(err, clierrors.Runtime)
		}
		if url == "" {
			printer.Warnf("no repo_url configured and no origin remote, pull request links are disabled")
		}
		opts.RepoURL = url
	}

	gen, err := changelog.NewGenerator(opts)
	if err != nil {
		return clierrors.ConfigInvalid(err)
	}

	unreleased := cfg.Unreleased
	if cmd.Flags().Changed("unreleased") {
		unreleased, _ = cmd.Flags().GetBool("unreleased")
	}
	histOpts := git.HistoryOptions{
		TagPattern: cfg.TagPattern,
		Unreleased: unreleased,
	}

	generate := func() error {
		history, err := repo.ReleaseHistory(histOpts)
		if err != nil {
			return clierrors.WrapWithMessage(err, clierrors.Runtime, "reading repository history")
		}
		doc := gen.Generate(history)
		return writeDocument(cmd, printer, outputPath, doc, len(history))
	}

	progress := printer.StartProgress("Generating changelog")
	err = generate()
	progress.Stop()
	if err != nil {
		return err
	}

	if !watchMode {
		return nil
	}
	return runWatch(cmd, printer, repo, generate)
}

// runWatch blocks, regenerating the output file whenever the repository
// history changes, until interrupted.
func runWatch(cmd *cobra.Command, printer *output.Printer, repo *git.Repository, generate func() error) error {
	gitDir, err := repo.GitDir()
	if err != nil {
		return clierrors.Wrap(err, clierrors.Runtime)
	}

	w, err := watch.New(gitDir, 0)
	if err != nil {
		return clierrors.WrapWithMessage(err, clierrors.Runtime, "starting watch mode")
	}
	defer w.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	printer.Infof("watching for new commits and tags, Ctrl+C to stop")
	return w.Run(ctx, generate)
}

// loadConfig resolves the configuration from --config or discovery in dir.
func loadConfig(cmd *cobra.Command, dir string) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, clierrors.ConfigFileNotFound(path)
		}
		cfg, err := config.Load(path)
		if err != nil {
			return nil, configError(err)
		}
		return cfg, nil
	}

	cfg, err := config.LoadWithOptions(config.LoadOptions{Dir: dir})
	if err != nil {
		return nil, configError(err)
	}
	return cfg, nil
}

// configError maps config load failures onto CLI error categories. Errors
// carrying a line number are syntax problems, the rest failed validation.
func configError(err error) error {
	var verr *config.ValidationError
	if errors.As(err, &verr) {
		if verr.Line > 0 {
			return clierrors.ConfigParseError(verr.FilePath, verr)
		}
		return clierrors.ConfigInvalid(verr)
	}
	return clierrors.ConfigInvalid(err)
}

func writeDocument(cmd *cobra.Command, printer *output.Printer, path, doc string, releases int) error {
	if path == "" {
		fmt.Fprint(cmd.OutOrStdout(), doc)
		return nil
	}
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		return clierrors.OutputNotWritable(path, err)
	}
	printer.Successf("wrote %s (%s)", path, releaseCount(releases))
	return nil
}

func releaseCount(n int) string {
	if n == 1 {
		return "1 release"
	}
	return fmt.Sprintf("%d releases", n)
}

// repoDir returns the repository root, falling back to the flag value or
// the current directory.
func repoDir(repo *git.Repository, repoPath string) string {
	if root, err := repo.Root(); err == nil {
		return root
	}
	return displayPath(repoPath)
}

func displayPath(path string) string {
	if path != "" {
		return path
	}
	if wd, err := os.Getwd(); err == nil {
		return wd
	}
	return "."
}

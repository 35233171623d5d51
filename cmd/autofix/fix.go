package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/autofix-dev/autofix/internal/autofix"
	"github.com/autofix-dev/autofix/internal/branch"
	"github.com/autofix-dev/autofix/internal/config"
	"github.com/autofix-dev/autofix/internal/git"
	"github.com/autofix-dev/autofix/internal/github"
)

func runFix(cmd *cobra.Command, args []string) {
	issueNumber, err := strconv.Atoi(args[0])
	if err != nil || issueNumber <= 0 {
		FatalError("invalid issue number %q: expected a positive integer", args[0])
	}

	ctx, cancel := signalContext()
	defer cancel()

	repo, err := git.Open(ctx, repoDir)
	if err != nil {
		FatalErrorWithHint(err.Error(), "Run autofix from inside the repository, or pass -C <dir>")
	}

	cfg, err := config.Load(workDir())
	if err != nil {
		FatalError("%v", err)
	}
	if len(args) == 2 {
		cfg.BaseBranch = args[1]
	}

	if cfg.Owner == "" || cfg.Repo == "" {
		url, err := repo.RemoteURL(ctx, cfg.Remote)
		if err != nil {
			FatalErrorWithHint(fmt.Sprintf("cannot determine repository: %v", err),
				"Set owner and repo in "+config.FileName+" or add a "+cfg.Remote+" remote")
		}
		owner, name, ok := config.ParseRemote(url)
		if !ok {
			FatalErrorWithHint(fmt.Sprintf("cannot parse remote URL %q", url),
				"Set owner and repo in "+config.FileName)
		}
		cfg.Owner, cfg.Repo = owner, name
	}

	if cfg.Token == "" {
		FatalErrorWithHint("no GitHub token configured",
			"Set "+config.EnvToken+" or "+config.EnvGitHubToken)
	}

	client := github.NewClient(cfg.Token, cfg.Owner, cfg.Repo)
	if cfg.APIURL != "" {
		client = client.WithBaseURL(cfg.APIURL)
	}

	pipeline := &autofix.Pipeline{
		Tracker:    autofix.NewGitHubTracker(client),
		Inspector:  repo,
		Git:        repo,
		Dispatcher: autofix.NewGitHubDispatcher(client, cfg.Workflow),
	}
	if verbose {
		pipeline.Logf = func(format string, a ...any) {
			fmt.Fprintf(os.Stderr, format+"\n", a...)
		}
	}

	res, err := pipeline.Run(ctx, autofix.Options{
		IssueNumber: issueNumber,
		BaseBranch:  cfg.BaseBranch,
		Remote:      cfg.Remote,
		Confirm:     reuseConfirm(cfg.Remote),
		DryRun:      dryRun,
	})
	if err != nil {
		if errors.Is(err, autofix.ErrAuthRequired) {
			FatalErrorWithHint(err.Error(), "Check that your token is valid and has repo scope")
		}
		if errors.Is(err, autofix.ErrRefConflict) {
			FatalErrorWithHint(err.Error(),
				"Delete or rename the local branch, or push it to the remote, then re-run")
		}
		if errors.Is(err, autofix.ErrDispatchFailed) {
			printDispatchFailure(res, err)
			os.Exit(1)
		}
		FatalError("%v", err)
	}

	if jsonOutput {
		outputJSON(res)
		return
	}
	printSummary(res, cfg.Remote)
}

// workDir returns the directory config is loaded from.
func workDir() string {
	if repoDir != "" {
		return repoDir
	}
	return "."
}

// reuseConfirm builds the operator's reuse decision callback. Reconciliation
// itself is pure; this is the single place terminal interaction happens.
//
//   - --reuse answers yes without prompting.
//   - --no-input, or a non-interactive stdin, answers no (abort).
//   - Otherwise the operator is prompted.
func reuseConfirm(remote string) branch.ConfirmFunc {
	if reuseFlag {
		return func(branch.Name) (bool, error) { return true, nil }
	}
	if noInput || !term.IsTerminal(int(os.Stdin.Fd())) {
		return nil
	}

	return func(name branch.Name) (bool, error) {
		reuse := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Branch %s already exists on %s. Reuse it?", name, remote)).
			Affirmative("Reuse").
			Negative("Abort").
			Value(&reuse).
			Run()
		if err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return false, nil
			}
			return false, err
		}
		return reuse, nil
	}
}

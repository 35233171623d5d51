// Command autofix automates the lifecycle of a fix branch for a tracked
// issue: it resolves the issue, derives a deterministic branch name,
// reconciles local and remote branch state, and dispatches the remote
// automated-fix workflow against the branch.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	repoDir    string
	jsonOutput bool
	verbose    bool
	dryRun     bool
	reuseFlag  bool
	noInput    bool
)

var rootCmd = &cobra.Command{
	Use:   "autofix <issue-number> [base-branch]",
	Short: "Create a fix branch for an issue and dispatch the automated-fix workflow",
	Long: `autofix turns a tracked issue into a running automated-fix job with one
command. It looks the issue up, derives a deterministic branch name
(fix/<number>-<slug>), decides whether to create that branch from the base
branch or reuse the one already on the remote, and dispatches the
repository's automated-fix workflow against it.

The branch name is a pure function of the issue number and title, so
re-running the tool against the same issue always targets the same branch.

Running the tool twice concurrently for the same issue may race on remote
branch creation; it performs no locking.`,
	Args: cobra.RangeArgs(1, 2),
	Run:  runFix,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&repoDir, "dir", "C", "", "Repository directory (default: current directory)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose step tracing")

	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Compute the plan but perform no branch mutation and no dispatch")
	rootCmd.Flags().BoolVar(&reuseFlag, "reuse", false, "Reuse an existing remote branch without prompting")
	rootCmd.Flags().BoolVar(&noInput, "no-input", false, "Never prompt; an existing remote branch aborts the run")

	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

// signalContext returns a context cancelled by SIGINT/SIGTERM so a hung
// remote call dies cleanly.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

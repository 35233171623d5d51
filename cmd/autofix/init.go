package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/autofix-dev/autofix/internal/config"
	"github.com/autofix-dev/autofix/internal/git"
	"github.com/autofix-dev/autofix/internal/ui"
)

var (
	initOwner      string
	initRepo       string
	initWorkflow   string
	initBaseBranch string
	initForce      bool
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a " + config.FileName + " for this repository",
	Long: `Write a ` + config.FileName + ` config file in the repository root.

Owner and repo default to values parsed from the origin remote URL; pass
--owner/--repo to override, for example when dispatch should target a fork's
upstream.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signalContext()
		defer cancel()

		dir := workDir()
		path := filepath.Join(dir, config.FileName)
		if _, err := os.Stat(path); err == nil && !initForce {
			FatalErrorWithHint(config.FileName+" already exists", "Pass --force to overwrite it")
		}

		cfg := config.Default()
		if initWorkflow != "" {
			cfg.Workflow = initWorkflow
		}
		if initBaseBranch != "" {
			cfg.BaseBranch = initBaseBranch
		}

		cfg.Owner, cfg.Repo = initOwner, initRepo
		if cfg.Owner == "" || cfg.Repo == "" {
			// Discovery failing only degrades the file, not the tool: a
			// config without owner/repo falls back to run-time discovery
			// from the remote.
			owner, name, err := remoteOwnerRepo(ctx, cfg.Remote)
			if err != nil {
				WarnError("%v; leaving owner/repo unset, they will be discovered from the %s remote at run time", err, cfg.Remote)
			} else {
				if cfg.Owner == "" {
					cfg.Owner = owner
				}
				if cfg.Repo == "" {
					cfg.Repo = name
				}
			}
		}

		if err := cfg.Write(dir); err != nil {
			FatalError("%v", err)
		}

		if cfg.Owner != "" && cfg.Repo != "" {
			fmt.Printf("%s wrote %s for %s/%s\n",
				ui.RenderPass(ui.IconPass), path, cfg.Owner, cfg.Repo)
		} else {
			fmt.Printf("%s wrote %s\n", ui.RenderPass(ui.IconPass), path)
		}
	},
}

// remoteOwnerRepo parses owner and repo out of the remote's configured URL.
func remoteOwnerRepo(ctx context.Context, remote string) (string, string, error) {
	repo, err := git.Open(ctx, repoDir)
	if err != nil {
		return "", "", err
	}
	url, err := repo.RemoteURL(ctx, remote)
	if err != nil {
		return "", "", fmt.Errorf("cannot determine repository: %w", err)
	}
	owner, name, ok := config.ParseRemote(url)
	if !ok {
		return "", "", fmt.Errorf("cannot parse remote URL %q", url)
	}
	return owner, name, nil
}

func init() {
	initCmd.Flags().StringVar(&initOwner, "owner", "", "Repository owner (default: parsed from remote URL)")
	initCmd.Flags().StringVar(&initRepo, "repo", "", "Repository name (default: parsed from remote URL)")
	initCmd.Flags().StringVar(&initWorkflow, "workflow", "", "Workflow file to dispatch (default: autofix.yaml)")
	initCmd.Flags().StringVar(&initBaseBranch, "base-branch", "", "Base branch for new fix branches (default: dev)")
	initCmd.Flags().BoolVar(&initForce, "force", false, "Overwrite an existing config file")
}

package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/autofix-dev/autofix/internal/autofix"
	"github.com/autofix-dev/autofix/internal/ui"
)

// outputJSON prints v as indented JSON on stdout.
func outputJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		FatalError("encoding JSON output: %v", err)
	}
	fmt.Println(string(data))
}

// printSummary renders the human-readable outcome of a run.
func printSummary(res *autofix.Result, remote string) {
	fmt.Printf("%s issue #%d: %s\n", ui.RenderPass(ui.IconPass), res.Issue.Number, res.Issue.Title)

	switch {
	case res.Aborted:
		fmt.Printf("%s branch %s already exists on %s\n",
			ui.RenderWarn(ui.IconWarn), ui.RenderAccent(res.Branch.Short()), remote)
		fmt.Println(ui.RenderMuted("Aborted. Nothing was changed and no workflow was dispatched."))
		return

	case res.DryRun:
		fmt.Printf("%s plan: %s branch %s (base %s via %s)\n",
			ui.RenderMuted(ui.IconSkip), res.Action, ui.RenderAccent(res.Branch.Short()),
			color.New(color.Bold).Sprint(res.BaseBranch), remote)
		fmt.Println(ui.RenderMuted("Dry run. Nothing was changed and no workflow was dispatched."))
		return

	case res.Created:
		fmt.Printf("%s created and published %s\n",
			ui.RenderPass(ui.IconPass), ui.RenderAccent(res.Branch.Short()))

	default:
		fmt.Printf("%s reusing existing %s\n",
			ui.RenderPass(ui.IconPass), ui.RenderAccent(res.Branch.Short()))
	}

	if res.Dispatched && res.Run != nil {
		fmt.Printf("%s dispatched %s on %s\n",
			ui.RenderPass(ui.IconPass), res.Run.Workflow, ui.RenderAccent(res.Run.Ref))
		fmt.Printf("  %s\n", ui.RenderMuted(res.Run.URL))
	}
}

// printDispatchFailure explains the recovery path after a failed dispatch:
// the branch stays put and the next run reuses it.
func printDispatchFailure(res *autofix.Result, err error) {
	fmt.Fprintf(os.Stderr, "%s %v\n", ui.RenderFail(ui.IconFail), err)
	if res != nil && res.Published {
		fmt.Fprintf(os.Stderr, "%s\n", ui.RenderMuted(
			fmt.Sprintf("Branch %s was published and is left in place; re-run to reuse it.", res.Branch)))
	}
}

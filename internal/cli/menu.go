package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/wpsite/internal/model"
	"github.com/mmr-tortoise/wpsite/internal/prompt"
)

// menuAction is one entry of the interactive menu.
type menuAction struct {
	label string
	run   func(cmd *cobra.Command) error
}

// menuActions lists the menu entries in display order. A nil run quits.
func menuActions() []menuAction {
	return []menuAction{
		{"Create a new site", func(cmd *cobra.Command) error { return runNew(cmd, &newFlags{}) }},
		{"List sites", func(cmd *cobra.Command) error { return runList(cmd, &listFlags{status: true}) }},
		{"Show site details", func(cmd *cobra.Command) error { return runInfo(cmd, nil) }},
		{"Define SSH details for a site", func(cmd *cobra.Command) error { return runIntegrateSite(cmd, nil) }},
		{"Remove a site", func(cmd *cobra.Command) error { return runRemove(cmd, nil, &removeFlags{}) }},
		{"Import a site", func(cmd *cobra.Command) error {
			return runTransfer(cmd, nil, "Which site details would you like to download",
				func(name string) error { return newRepository().Download(name) })
		}},
		{"Export a site", func(cmd *cobra.Command) error {
			return runTransfer(cmd, nil, "Which site details would you like to upload to remote server",
				func(name string) error { return newRepository().Upload(name) })
		}},
		{"Quit", nil},
	}
}

// NewMenuCommand creates the "menu" cobra command.
func NewMenuCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "menu",
		Short: "Interactive menu",
		Long: `Show the existing sites and a numbered list of actions, run the chosen
action and start over until Quit is chosen or input ends.

This is also what wpsite does when run without a command.`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runMenu(cmd)
		},
	}
}

// runMenu is the interactive loop. Errors of an action are reported and the
// loop continues; end of input leaves the loop.
func runMenu(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	p := newPrompter(cmd)
	actions := menuActions()

	labels := make([]string, len(actions))
	for i, a := range actions {
		labels[i] = a.label
	}

	for {
		fmt.Fprintln(out)
		if names, err := newRepository().Names(); err == nil && len(names) > 0 {
			fmt.Fprintln(out, "Sites:")
			prompt.PrintNumbered(out, names)
			fmt.Fprintln(out)
		}

		idx, err := p.Choose("What would you like to do?", labels)
		if err != nil {
			if errors.Is(err, model.ErrCancelled) {
				return nil
			}
			printError(cmd.ErrOrStderr(), err.Error(), nil)
			continue
		}

		action := actions[idx]
		if action.run == nil {
			return nil
		}

		if err := action.run(cmd); err != nil {
			if errors.Is(err, model.ErrCancelled) {
				return nil
			}
			reportMenuError(cmd, err)
		}
	}
}

// reportMenuError prints an action's error the way Execute would, without
// exiting.
func reportMenuError(cmd *cobra.Command, err error) {
	var cliErr *model.CLIError
	if errors.As(err, &cliErr) {
		printError(cmd.ErrOrStderr(), cliErr.Message, cliErr.Err)
		return
	}
	printError(cmd.ErrOrStderr(), err.Error(), nil)
}

package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/wpsite/internal/model"
)

// removeFlags holds the flag values for the remove command.
type removeFlags struct {
	force bool // --force: skip confirmation prompt
}

// NewRemoveCommand creates the "remove" cobra command.
func NewRemoveCommand() *cobra.Command {
	flags := &removeFlags{}

	cmd := &cobra.Command{
		Use:   "remove [site-name]",
		Short: "Remove an existing site",
		Long: `Remove a site directory and everything in it.

Without a site name, a numbered list of sites is shown to pick from.
Containers of the site are not touched: take them down first with
"docker compose down" in the site directory.

Examples:
  wpsite remove blog
  wpsite remove --force blog
  wpsite remove`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd, args, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Skip confirmation prompt")

	return cmd
}

// runRemove selects, confirms and removes a site.
func runRemove(cmd *cobra.Command, args []string, flags *removeFlags) error {
	repo := newRepository()

	name, err := selectSite(cmd, repo, args, "Which site would you like to remove")
	if err != nil {
		return model.WrapError("failed to select site", err)
	}

	s, err := repo.Load(name)
	if err != nil {
		return model.WrapError("failed to load site", err)
	}

	if !flags.force {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "About to remove site %q:\n", s.Name)
		fmt.Fprintf(out, "  - %s and everything in it will be deleted\n", s.Path)
		fmt.Fprintln(out)

		confirmed, err := newPrompter(cmd).Confirm("Continue?", false)
		if err != nil {
			return model.WrapError("failed to read confirmation", err)
		}
		if !confirmed {
			return model.NewCLIError(model.ExitUserCancelled, "operation cancelled by user")
		}
	}

	if err := repo.Remove(s.Name); err != nil {
		return model.WrapError("failed to remove site", err)
	}

	return printRemoveResult(cmd.OutOrStdout(), s)
}

// printRemoveResult outputs the remove command result in text or JSON format.
func printRemoveResult(w io.Writer, s *model.Site) error {
	if IsJSONOutput() {
		return printJSON(w, map[string]interface{}{
			"name":   s.Name,
			"action": "removed",
			"path":   s.Path,
		})
	}

	fmt.Fprintf(w, "Removed site %q\n", s.Name)
	return nil
}

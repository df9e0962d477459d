package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/wpsite/internal/model"
)

// listFlags holds the flag values for the list command.
type listFlags struct {
	// status enables the Docker status probe.
	status bool
}

// NewListCommand creates the "list" cobra command.
func NewListCommand() *cobra.Command {
	flags := &listFlags{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all sites",
		Long: `List all sites with their allocated ports.

With --status, the container status of each site is shown as well:
running, stopped, absent (no containers) or unknown (Docker unreachable).

Examples:
  wpsite list
  wpsite list --status
  wpsite list --json`,

		Args: cobra.NoArgs,

		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.status, "status", false, "Show container status (requires Docker)")

	return cmd
}

// runList loads every site and prints them.
func runList(cmd *cobra.Command, flags *listFlags) error {
	sites, err := newRepository().List()
	if err != nil {
		return model.WrapError("failed to list sites", err)
	}
	VerboseLog("Found %d sites", len(sites))

	if flags.status {
		probeStatuses(cmd.Context(), sites)
	}

	return printListResult(cmd.OutOrStdout(), sites, flags.status)
}

// printListResult outputs the list of sites in text or JSON format,
// depending on the global --json flag.
func printListResult(w io.Writer, sites []*model.Site, withStatus bool) error {
	if IsJSONOutput() {
		return printListResultJSON(w, sites, withStatus)
	}
	printListResultText(w, sites, withStatus)
	return nil
}

// printListResultJSON outputs the sites as a JSON array.
func printListResultJSON(w io.Writer, sites []*model.Site, withStatus bool) error {
	type siteJSON struct {
		Name   string         `json:"name"`
		Path   string         `json:"path"`
		Ports  model.PortPair `json:"ports"`
		Status string         `json:"status,omitempty"`
	}

	result := make([]siteJSON, 0, len(sites))
	for _, s := range sites {
		entry := siteJSON{Name: s.Name, Path: s.Path, Ports: s.Ports}
		if withStatus {
			entry.Status = s.Status.String()
		}
		result = append(result, entry)
	}
	return printJSON(w, result)
}

// printListResultText outputs the sites as a numbered list, the numbering
// used by every command that asks the user to pick a site.
func printListResultText(w io.Writer, sites []*model.Site, withStatus bool) {
	if len(sites) == 0 {
		fmt.Fprintln(w, "No sites found.")
		return
	}

	for i, s := range sites {
		line := fmt.Sprintf("%d. %-24s wordpress=%-5s phpmyadmin=%-5s",
			i+1, s.Name, FormatPort(s.Ports.WordPress), FormatPort(s.Ports.PhpMyAdmin))
		if withStatus {
			line += "  " + s.Status.String()
		}
		fmt.Fprintln(w, line)
	}
}

// FormatPort renders a port number, or "-" for an unknown (zero) port.
func FormatPort(p int) string {
	if p == 0 {
		return "-"
	}
	return strconv.Itoa(p)
}

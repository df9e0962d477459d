package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/wpsite/internal/docker"
	"github.com/mmr-tortoise/wpsite/internal/model"
	"github.com/mmr-tortoise/wpsite/internal/port"
	"github.com/mmr-tortoise/wpsite/internal/siteconfig"
)

// siteInfo is everything the info command reports about one site.
type siteInfo struct {
	Site       *model.Site                 `json:"site"`
	Services   []siteconfig.ComposeService `json:"services"`
	BusyPorts  []int                       `json:"busyPorts"`
	Containers []model.ContainerInfo       `json:"containers,omitempty"`
}

// NewInfoCommand creates the "info" cobra command.
func NewInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [site-name]",
		Short: "Show details of a site",
		Long: `Show the ports, files, compose services and container status of a site.

Without a site name, a numbered list of sites is shown to pick from.

Examples:
  wpsite info blog
  wpsite info --json blog`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(cmd, args)
		},
	}
}

// runInfo gathers and prints the details of one site.
func runInfo(cmd *cobra.Command, args []string) error {
	repo := newRepository()

	name, err := selectSite(cmd, repo, args, "Which site would you like to inspect")
	if err != nil {
		return model.WrapError("failed to select site", err)
	}

	s, err := repo.Load(name)
	if err != nil {
		return model.WrapError("failed to load site", err)
	}

	info := &siteInfo{Site: s}

	info.Services, err = siteconfig.ComposeServices(s.ComposePath())
	if err != nil {
		return model.WrapError("failed to read compose file", err)
	}

	if !s.Ports.IsZero() {
		info.BusyPorts = port.NewScanner().BusyPorts(s.Ports.WordPress, s.Ports.PhpMyAdmin)
	}

	ctx := cmd.Context()
	withDocker(ctx, func(c *docker.Client) error {
		containers, err := docker.SiteContainers(ctx, c.Inner(), s.Name)
		if err != nil {
			return err
		}
		info.Containers = containers
		s.Status = docker.DetermineStatus(containers)
		return nil
	})

	return printInfoResult(cmd.OutOrStdout(), info)
}

// printInfoResult outputs the site details in text or JSON format.
func printInfoResult(w io.Writer, info *siteInfo) error {
	if IsJSONOutput() {
		return printJSON(w, info)
	}

	s := info.Site
	fmt.Fprintf(w, "Site %q\n", s.Name)
	fmt.Fprintf(w, "  Path:        %s\n", s.Path)
	fmt.Fprintf(w, "  Compose:     %s\n", s.ComposePath())
	fmt.Fprintf(w, "  Env:         %s\n", s.EnvPath())
	fmt.Fprintf(w, "  WordPress:   %s\n", FormatPort(s.Ports.WordPress))
	fmt.Fprintf(w, "  phpMyAdmin:  %s\n", FormatPort(s.Ports.PhpMyAdmin))
	fmt.Fprintf(w, "  Status:      %s\n", s.Status)

	if len(info.BusyPorts) > 0 {
		busy := make([]string, 0, len(info.BusyPorts))
		for _, p := range info.BusyPorts {
			busy = append(busy, FormatPort(p))
		}
		fmt.Fprintf(w, "  In use:      %s\n", strings.Join(busy, ","))
	}

	if len(info.Services) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "  Services:")
		for _, svc := range info.Services {
			ports := "-"
			if len(svc.Ports) > 0 {
				ports = strings.Join(svc.Ports, ",")
			}
			fmt.Fprintf(w, "    %-12s %-28s %s\n", svc.Name, svc.ContainerName, ports)
		}
	}
	return nil
}

package cli

import (
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/wpsite/internal/model"
	"github.com/mmr-tortoise/wpsite/internal/port"
)

// newFlags holds the flag values for the new command.
type newFlags struct {
	name string // --name: site name, prompted for when empty
	url  string // --url: public site URL stored as SITE_URL
}

// NewNewCommand creates the "new" cobra command.
func NewNewCommand() *cobra.Command {
	flags := &newFlags{}

	cmd := &cobra.Command{
		Use:   "new [site-name]",
		Short: "Create a new site",
		Long: `Create a new WordPress site from the site template.

The command:
  - Sanitizes the name (spaces become "-"; ".", "/", "\", "?" and ":" are dropped)
  - Allocates a WordPress/phpMyAdmin port pair unused by any other site
  - Copies the template and fills in docker-compose.yml and .env

Examples:
  wpsite new blog
  wpsite new -n "my blog" --url https://blog.example.com/
  wpsite new`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				flags.name = args[0]
			}
			return runNew(cmd, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.name, "name", "n", "", "Site name (prompted for when omitted)")
	cmd.Flags().StringVarP(&flags.url, "url", "u", "", "Site URL, stored as SITE_URL in .env")

	return cmd
}

// runNew creates the site and prints the result.
func runNew(cmd *cobra.Command, flags *newFlags) error {
	if flags.url != "" {
		if err := model.ValidateURL(flags.url); err != nil {
			return model.WrapError("invalid --url", err)
		}
	}

	name := flags.name
	if name == "" {
		var err error
		name, err = newPrompter(cmd).Ask("Enter your site's name")
		if err != nil {
			return model.WrapError("failed to read site name", err)
		}
	}

	repo := newRepository()
	VerboseLog("Sites directory: %s", repo.SitesDir())

	s, err := repo.Create(name)
	if err != nil {
		return model.WrapError("failed to create site", err)
	}

	if flags.url != "" {
		if err := repo.SetURL(s.Name, flags.url); err != nil {
			return model.WrapError("site created, but failed to store URL", err)
		}
	}

	busy := port.NewScanner().BusyPorts(s.Ports.WordPress, s.Ports.PhpMyAdmin)
	for _, p := range busy {
		log.WithFields(log.Fields{"site": s.Name, "port": p}).
			Warn("Allocated port is already in use on this host; the site will not start until it is freed")
	}

	return printNewResult(cmd.OutOrStdout(), s, flags.url, busy)
}

// printNewResult outputs the new command result in text or JSON format.
func printNewResult(w io.Writer, s *model.Site, url string, busy []int) error {
	if IsJSONOutput() {
		return printJSON(w, map[string]interface{}{
			"name":      s.Name,
			"path":      s.Path,
			"ports":     s.Ports,
			"url":       url,
			"busyPorts": busy,
		})
	}

	fmt.Fprintf(w, "Site created: %s\n", s.Name)
	fmt.Fprintf(w, "  Path:        %s\n", s.Path)
	fmt.Fprintf(w, "  WordPress:   http://localhost:%d\n", s.Ports.WordPress)
	fmt.Fprintf(w, "  phpMyAdmin:  http://localhost:%d\n", s.Ports.PhpMyAdmin)
	if url != "" {
		fmt.Fprintf(w, "  URL:         %s\n", url)
	}
	fmt.Fprintf(w, "\nStart it with: docker compose --project-directory %s up -d\n", s.Path)
	return nil
}

package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/wpsite/internal/model"
	"github.com/mmr-tortoise/wpsite/internal/prompt"
	"github.com/mmr-tortoise/wpsite/internal/site"
	"github.com/mmr-tortoise/wpsite/internal/siteconfig"
)

// NewIntegrateSiteCommand creates the "integrate-site" cobra command.
func NewIntegrateSiteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "integrate-site [site-name]",
		Short: "Define SSH details for an existing site",
		Long: `Ask for the SSH user, domain and password of the server a site is
deployed to, and store them in the site's .env file as SSH_USER,
SSH_DOMAIN and SSH_PASSWORD. Existing values are replaced; the current
user and domain are offered as defaults.

The password is read without echo when running in a terminal.

Examples:
  wpsite integrate-site blog
  wpsite integrate-site`,

		Args: cobra.MaximumNArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			return runIntegrateSite(cmd, args)
		},
	}
}

// runIntegrateSite prompts for SSH details and writes them to the site.
func runIntegrateSite(cmd *cobra.Command, args []string) error {
	repo := newRepository()

	name, err := selectSite(cmd, repo, args, "Which site would you like to integrate")
	if err != nil {
		return model.WrapError("failed to select site", err)
	}
	s, err := repo.Load(name)
	if err != nil {
		return model.WrapError("failed to load site", err)
	}
	current, err := siteconfig.ReadEnvFile(s.EnvPath())
	if err != nil {
		return model.WrapError("failed to read site env file", err)
	}

	p := newPrompter(cmd)
	user, err := askWithCurrent(p, "Enter SSH username", current[site.VarSSHUser])
	if err != nil {
		return model.WrapError("failed to read SSH username", err)
	}
	domain, err := askWithCurrent(p, "Enter your domain", current[site.VarSSHDomain])
	if err != nil {
		return model.WrapError("failed to read domain", err)
	}
	password, err := p.Password("Enter your password")
	if err != nil {
		return model.WrapError("failed to read password", err)
	}

	if err := repo.SetSSHDetails(s.Name, user, domain, password); err != nil {
		return model.WrapError("failed to store SSH details", err)
	}

	out := cmd.OutOrStdout()
	if IsJSONOutput() {
		return printJSON(out, map[string]interface{}{
			"name":   name,
			"action": "integrated",
			"user":   user,
			"domain": domain,
		})
	}
	fmt.Fprintf(out, "SSH details stored for site %q (%s@%s)\n", s.Name, user, domain)
	return nil
}

// askWithCurrent asks label, offering current as the default when set.
func askWithCurrent(p *prompt.Prompter, label, current string) (string, error) {
	if current == "" {
		return p.Ask(label)
	}
	return p.AskDefault(label, current)
}

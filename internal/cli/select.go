package cli

import (
	"context"
	"fmt"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/mmr-tortoise/wpsite/internal/docker"
	"github.com/mmr-tortoise/wpsite/internal/model"
	"github.com/mmr-tortoise/wpsite/internal/site"
)

// selectSite returns the site named in args, or asks the user to pick one
// from the numbered list of existing sites.
func selectSite(cmd *cobra.Command, repo *site.Repository, args []string, question string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}

	names, err := repo.Names()
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", fmt.Errorf("%w: no sites in %s", model.ErrNotFound, repo.SitesDir())
	}

	idx, err := newPrompter(cmd).Choose(question, names)
	if err != nil {
		return "", err
	}
	return names[idx], nil
}

// withDocker connects to Docker and calls fn with the client. It reports
// false when Docker status is disabled or the daemon cannot be reached, in
// which case fn is not called.
func withDocker(ctx context.Context, fn func(c *docker.Client) error) bool {
	if settings.Docker.DisableStatus {
		return false
	}

	c, err := docker.NewClient(settings.Docker.Host)
	if err != nil {
		log.WithError(err).Debug("Docker status unavailable")
		return false
	}
	defer func() { _ = c.Close() }()

	if err := c.Ping(ctx); err != nil {
		log.WithError(err).Debug("Docker status unavailable")
		return false
	}

	if err := fn(c); err != nil {
		log.WithError(err).Debug("Docker status unavailable")
		return false
	}
	return true
}

// probeStatuses sets the container status of each site. Sites whose status
// cannot be determined are marked unknown.
func probeStatuses(ctx context.Context, sites []*model.Site) {
	names := make([]string, 0, len(sites))
	for _, s := range sites {
		s.Status = model.StatusUnknown
		names = append(names, s.Name)
	}

	withDocker(ctx, func(c *docker.Client) error {
		statuses, err := docker.SiteStatuses(ctx, c.Inner(), names)
		if err != nil {
			return err
		}
		for _, s := range sites {
			s.Status = statuses[s.Name]
		}
		return nil
	})
}

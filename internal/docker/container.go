package docker

import (
	"context"
	"fmt"
	"strings"

	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/filters"

	"github.com/mmr-tortoise/wpsite/internal/model"
)

// Labels Docker Compose sets on every container it creates.
const (
	LabelComposeProject = "com.docker.compose.project"
	LabelComposeService = "com.docker.compose.service"
)

// ContainerLister is the part of the Docker API the status probe needs.
// *client.Client satisfies it.
type ContainerLister interface {
	ContainerList(ctx context.Context, options container.ListOptions) ([]container.Summary, error)
}

// ListComposeContainers returns every container, stopped ones included,
// that belongs to a Docker Compose project. Docker does the filtering
// server-side.
func ListComposeContainers(ctx context.Context, lister ContainerLister) ([]model.ContainerInfo, error) {
	filterArgs := filters.NewArgs(
		filters.Arg("label", LabelComposeProject),
	)

	containers, err := lister.ContainerList(ctx, container.ListOptions{
		All:     true,
		Filters: filterArgs,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to list containers: %v", ErrUnavailable, err)
	}

	result := make([]model.ContainerInfo, 0, len(containers))
	for _, c := range containers {
		result = append(result, containerToInfo(c))
	}
	return result, nil
}

// containerToInfo converts a Docker API container summary to
// model.ContainerInfo. The API returns names with a leading "/", which is
// stripped.
func containerToInfo(c container.Summary) model.ContainerInfo {
	name := ""
	if len(c.Names) > 0 {
		name = strings.TrimPrefix(c.Names[0], "/")
	}

	return model.ContainerInfo{
		ContainerID:   c.ID,
		ContainerName: name,
		Project:       c.Labels[LabelComposeProject],
		ServiceName:   c.Labels[LabelComposeService],
		Status:        string(c.State),
	}
}

// GroupContainersByProject groups containers by Compose project name.
// Containers without a project are skipped.
func GroupContainersByProject(containers []model.ContainerInfo) map[string][]model.ContainerInfo {
	groups := make(map[string][]model.ContainerInfo)
	for _, c := range containers {
		if c.Project == "" {
			continue
		}
		groups[c.Project] = append(groups[c.Project], c)
	}
	return groups
}

// ProjectName returns the Compose project name Docker Compose derives from a
// site directory name: lowercased, with every character outside
// [a-z0-9_-] removed, and leading "_" or "-" trimmed.
func ProjectName(siteName string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(siteName) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-' {
			sb.WriteRune(r)
		}
	}
	return strings.TrimLeft(sb.String(), "_-")
}

// DetermineStatus derives a site status from its containers:
//   - no containers: absent (never started, or taken down)
//   - at least one running: running
//   - otherwise: stopped
func DetermineStatus(containers []model.ContainerInfo) model.SiteStatus {
	if len(containers) == 0 {
		return model.StatusAbsent
	}
	for _, c := range containers {
		if c.Status == "running" {
			return model.StatusRunning
		}
	}
	return model.StatusStopped
}

// SiteStatuses resolves the status of each named site with a single
// container listing.
func SiteStatuses(ctx context.Context, lister ContainerLister, siteNames []string) (map[string]model.SiteStatus, error) {
	containers, err := ListComposeContainers(ctx, lister)
	if err != nil {
		return nil, err
	}

	groups := GroupContainersByProject(containers)
	statuses := make(map[string]model.SiteStatus, len(siteNames))
	for _, name := range siteNames {
		statuses[name] = DetermineStatus(groups[ProjectName(name)])
	}
	return statuses, nil
}

// SiteContainers returns the containers of one site.
func SiteContainers(ctx context.Context, lister ContainerLister, siteName string) ([]model.ContainerInfo, error) {
	containers, err := ListComposeContainers(ctx, lister)
	if err != nil {
		return nil, err
	}
	return GroupContainersByProject(containers)[ProjectName(siteName)], nil
}

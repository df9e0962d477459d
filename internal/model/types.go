package model

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// SiteStatus represents the container state of a site as observed through
// Docker. It is informational only: wpsite never starts or stops containers.
type SiteStatus string

const (
	// StatusRunning indicates at least one container of the site is running.
	StatusRunning SiteStatus = "running"

	// StatusStopped indicates containers exist but none is running.
	StatusStopped SiteStatus = "stopped"

	// StatusAbsent indicates no container belongs to the site yet
	// (the compose project was never brought up).
	StatusAbsent SiteStatus = "absent"

	// StatusUnknown indicates Docker could not be queried.
	StatusUnknown SiteStatus = "unknown"
)

// String returns the string representation of SiteStatus.
func (s SiteStatus) String() string {
	return string(s)
}

// IsValid checks whether the SiteStatus value is one of the
// predefined valid states.
func (s SiteStatus) IsValid() bool {
	switch s {
	case StatusRunning, StatusStopped, StatusAbsent, StatusUnknown:
		return true
	default:
		return false
	}
}

// ParseSiteStatus converts a string to a SiteStatus.
// Returns an error if the string does not match any valid status.
func ParseSiteStatus(s string) (SiteStatus, error) {
	status := SiteStatus(strings.ToLower(s))
	if !status.IsValid() {
		return "", fmt.Errorf("%w: invalid site status %q (valid: running, stopped, absent, unknown)", ErrInvalidArgument, s)
	}
	return status, nil
}

// File names every site directory contains.
const (
	ComposeFileName = "docker-compose.yml"
	EnvFileName     = ".env"
)

// Site is one provisioned WordPress + MySQL + phpMyAdmin environment,
// represented as a directory holding a compose file and an env file.
type Site struct {
	// Name is the sanitized site name; it is also the directory name.
	Name string `json:"name"`

	// Path is the absolute or sites-root-relative directory of the site.
	Path string `json:"path"`

	// Ports holds the allocated host ports. Zero when they could not be
	// read back from the env file.
	Ports PortPair `json:"ports"`

	// Status is the observed container status, filled in by the CLI.
	Status SiteStatus `json:"status,omitempty"`
}

// ComposePath returns the path of the site's docker-compose.yml.
func (s *Site) ComposePath() string {
	return filepath.Join(s.Path, ComposeFileName)
}

// EnvPath returns the path of the site's .env file.
func (s *Site) EnvPath() string {
	return filepath.Join(s.Path, EnvFileName)
}

// PortPair is the (wordpress, phpmyadmin) host port tuple of a site.
// The allocator always produces PhpMyAdmin = WordPress + 1000.
type PortPair struct {
	WordPress  int `json:"wordpress"`
	PhpMyAdmin int `json:"phpmyadmin"`
}

// IsZero reports whether no port of the pair is set.
func (p PortPair) IsZero() bool {
	return p.WordPress == 0 && p.PhpMyAdmin == 0
}

// String returns "wordpress=8000 phpmyadmin=9000".
func (p PortPair) String() string {
	return fmt.Sprintf("wordpress=%d phpmyadmin=%d", p.WordPress, p.PhpMyAdmin)
}

// Var is a single named value, e.g. one KEY=VALUE line of an env file.
type Var struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Vars is an ordered mapping of variable names to values. Order matters:
// it decides the order in which unmatched keys are appended to env files.
type Vars []Var

// Get returns the value of name and whether it is present.
func (v Vars) Get(name string) (string, bool) {
	for _, kv := range v {
		if kv.Name == name {
			return kv.Value, true
		}
	}
	return "", false
}

// Names returns the variable names in order.
func (v Vars) Names() []string {
	names := make([]string, 0, len(v))
	for _, kv := range v {
		names = append(names, kv.Name)
	}
	return names
}

// Map returns the variables as a plain map. Order is lost.
func (v Vars) Map() map[string]string {
	m := make(map[string]string, len(v))
	for _, kv := range v {
		m[kv.Name] = kv.Value
	}
	return m
}

// ContainerInfo holds runtime information about a Docker container.
// This data is fetched dynamically from the Docker API, not persisted.
type ContainerInfo struct {
	// ContainerID is the unique Docker container identifier.
	ContainerID string `json:"containerId"`

	// ContainerName is the human-readable Docker container name.
	ContainerName string `json:"containerName"`

	// Project is the Docker Compose project name. Compose derives it from
	// the directory name, so it equals the site name.
	Project string `json:"project,omitempty"`

	// ServiceName is the Docker Compose service name.
	ServiceName string `json:"serviceName,omitempty"`

	// Status is the Docker container state (e.g., "running", "exited").
	Status string `json:"status"`
}

// siteNameReplacer implements the sanitization rules for site names:
// spaces become hyphens; dots, slashes, backslashes, question marks and
// colons are dropped.
var siteNameReplacer = strings.NewReplacer(
	" ", "-",
	".", "",
	"/", "",
	"\\", "",
	"?", "",
	":", "",
)

// SanitizeSiteName converts user input into a site name that is safe to use
// as a directory name and as a substitution value.
func SanitizeSiteName(name string) string {
	return siteNameReplacer.Replace(name)
}

// ValidateSiteName checks that a sanitized name is usable as a site.
func ValidateSiteName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("%w: site name must not be empty", ErrInvalidArgument)
	}
	return nil
}

// ValidateURL checks that raw has a scheme, a host and a path. Nothing else
// about the URL is verified.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: invalid URL: %v", ErrInvalidArgument, err)
	}
	if u.Scheme == "" {
		return fmt.Errorf("%w: invalid URL: missing scheme", ErrInvalidArgument)
	}
	if u.Host == "" {
		return fmt.Errorf("%w: invalid URL: missing host", ErrInvalidArgument)
	}
	if u.Path == "" {
		return fmt.Errorf("%w: invalid URL: missing path", ErrInvalidArgument)
	}
	return nil
}

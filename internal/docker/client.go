package docker

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/docker/docker/client"
)

// pingTimeout bounds the daemon health check. Five seconds is generous
// enough for Docker Desktop on macOS, whose VM answers more slowly than a
// native Linux daemon, while keeping list and info responsive when the
// daemon is down.
const pingTimeout = 5 * time.Second

// windowsPipe is the Docker Desktop engine pipe on Windows.
const windowsPipe = `//./pipe/docker_engine`

// ErrUnavailable reports that no Docker daemon could be reached. Status
// probing treats it as "status unknown", never as a command failure.
var ErrUnavailable = errors.New("docker unavailable")

// Client is a read-only handle on the Docker daemon used to look up the
// containers of a site.
//
// wpsite never starts or stops containers; that is left to
// "docker compose" in the site directory. The client only lists containers
// and their compose labels, so a failure anywhere here degrades the
// reported status to unknown instead of failing the command.
//
// Usage:
//
//	c, err := docker.NewClient(cfg.Docker.Host)
//	if err != nil { /* status unknown */ }
//	defer c.Close() // always close to release the connection
//	if err := c.Ping(ctx); err != nil { /* daemon not running */ }
type Client struct {
	// inner is the SDK client. It is wrapped rather than embedded so the
	// rest of wpsite only sees the calls it needs.
	inner *client.Client
}

// NewClient connects to the daemon at host.
//
// The address is chosen in this order:
//  1. host, when non-empty (the docker.host config key or
//     WPSITE_DOCKER_HOST);
//  2. the DOCKER_HOST environment variable, used as-is so that remote and
//     rootless daemons work the same way they do for the docker CLI;
//  3. the platform's default socket (see detectDockerHost).
//
// API version negotiation is enabled so that an older daemon does not
// reject requests from the newer SDK. Creating the client does not contact
// the daemon; call Ping for that. Errors wrap ErrUnavailable.
func NewClient(host string) (*Client, error) {
	if host == "" {
		host = os.Getenv("DOCKER_HOST")
	}
	if host == "" {
		detected, err := detectDockerHost()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		host = detected
	}

	c, err := client.NewClientWithOpts(
		client.WithHost(host),
		client.WithAPIVersionNegotiation(),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot use Docker host %q: %v", ErrUnavailable, host, err)
	}
	return &Client{inner: c}, nil
}

// socketCandidates lists the unix socket paths probed on goos, in order.
// Docker Desktop on macOS may only provide the per-user socket under
// ~/.docker/run when the system-wide /var/run symlink was not installed.
func socketCandidates(goos, home string) []string {
	candidates := []string{"/var/run/docker.sock"}
	if goos == "darwin" && home != "" {
		candidates = append(candidates, filepath.Join(home, ".docker", "run", "docker.sock"))
	}
	return candidates
}

// detectDockerHost returns the host URI of the local daemon socket.
//
// It only checks that a socket or pipe exists. Whether a daemon is actually
// listening behind it is left to Ping, which can report a timeout instead
// of failing here with a vaguer error.
func detectDockerHost() (string, error) {
	switch runtime.GOOS {
	case "linux", "darwin":
		home, _ := os.UserHomeDir()
		return detectUnixSocket(socketCandidates(runtime.GOOS, home))
	case "windows":
		// Named pipes cannot be stat'ed.
		conn, err := net.DialTimeout("pipe", windowsPipe, time.Second)
		if err != nil {
			return "", fmt.Errorf("no Docker engine pipe at %s: %w", windowsPipe, err)
		}
		_ = conn.Close()
		return "npipe://" + windowsPipe, nil
	default:
		return "", fmt.Errorf("no Docker socket known for %s", runtime.GOOS)
	}
}

// detectUnixSocket returns "unix://" plus the first existing path.
func detectUnixSocket(paths []string) (string, error) {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return "unix://" + path, nil
		}
	}
	return "", fmt.Errorf("no Docker socket at %v", paths)
}

// Ping checks that the daemon answers within pingTimeout. Errors wrap
// ErrUnavailable.
func (c *Client) Ping(ctx context.Context) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if _, err := c.inner.Ping(pingCtx); err != nil {
		return fmt.Errorf("%w: daemon is not responding: %v", ErrUnavailable, err)
	}
	return nil
}

// Close releases the connection. A zero Client closes without error.
func (c *Client) Close() error {
	if c.inner != nil {
		return c.inner.Close()
	}
	return nil
}

// Inner returns the SDK client, which satisfies ContainerLister.
func (c *Client) Inner() *client.Client {
	return c.inner
}

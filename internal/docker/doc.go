// Package docker reports the container status of WordPress sites.
//
// Sites are brought up with "docker compose" from their own directory, so
// Compose names the project after the directory and labels every container
// with it. This package lists those containers through the Docker Engine
// API and folds them into a running/stopped/absent status per site. It never
// starts, stops or removes containers.
//
// The package uses github.com/docker/docker/client as the underlying
// Docker SDK, with version negotiation enabled for broad compatibility.
package docker

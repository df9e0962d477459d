// Package port implements port allocation and host port probing for
// WordPress sites.
//
// Every site gets a pair of host ports:
//
//	wordpress  = w        with w in [8000, 8999]
//	phpmyadmin = w + 1000
//
// The Allocator picks the smallest w whose pair does not collide with the
// ports recorded in the .env files of existing sites. The Scanner checks,
// via net.Listen, whether a port is also free on the host, which the env
// files alone cannot tell.
package port

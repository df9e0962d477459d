// Package site manages WordPress site directories under a sites root.
//
// Each site lives in <sites-root>/<name> and holds a docker-compose.yml and
// a .env file copied from a template (a configured directory or the
// template embedded in the binary). The Repository creates sites, lists
// and loads them, stores SSH details and the site URL in .env, and removes
// them. Commands that modify a site hold an advisory lock file inside the
// site directory for their duration.
package site

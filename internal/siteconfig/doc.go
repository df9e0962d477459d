// Package siteconfig renders and patches the two configuration files every
// site directory carries.
//
// It owns three pieces:
//
//   - The substitution table: the fixed, ordered list of template variables
//     (MYSQL_CONTAINER_NAME, WORDPRESS_PORT, ...) whose values are derived
//     from the site name and its port pair.
//   - The compose rewrite: strict ${VAR} substitution of docker-compose.yml.
//     The file is treated as text, never re-serialized, so comments and
//     formatting survive; yaml.v3 is only used to check the result.
//   - The env rewrite: a line-oriented, order-preserving patch of .env that
//     replaces known keys in place and appends the rest.
package siteconfig

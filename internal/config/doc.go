// Package config loads wpsite settings from defaults, an optional TOML or
// JSONC file and WPSITE_* environment variables.
package config

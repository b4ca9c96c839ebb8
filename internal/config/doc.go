// Package config loads, validates, and defaults the TOML configuration that
// drives the caption burn-in pipeline.
package config

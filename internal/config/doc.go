// Package config loads, normalizes, and validates the TOML configuration
// for the dubbing pipeline. Paths are expanded to absolute form during
// load and provider presets fill in connection defaults, so consumers can
// use the returned Config without further resolution.
package config

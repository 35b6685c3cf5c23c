// Package config loads, normalizes, and validates the TOML configuration
// that drives track analysis.
//
// Load applies defaults first, then overlays the file when one exists, so a
// missing config file still yields a fully usable configuration. All path
// fields are expanded (tilde shortcuts and relative paths) before validation
// runs, and downstream code receives sanitized paths and canonical log
// formats.
package config

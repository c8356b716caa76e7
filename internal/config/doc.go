// Package config loads, normalizes, and validates musort's TOML
// configuration. Configuration problems are the only fatal errors in the
// program; they abort the run before any filesystem mutation.
package config

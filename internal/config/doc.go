// Package config holds the run configuration for userscan.
//
// Configuration is populated from CLI flags (optionally seeded from a
// .userscan YAML file) and passed through the application via dependency
// injection rather than global state. Validate() is called once after flag
// parsing, before any scanning begins, so invalid configurations fail fast
// with a specific error.
package config

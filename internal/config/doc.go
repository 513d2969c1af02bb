// Package config holds the harvester's runtime configuration: CLI-driven
// options with safe defaults, XDG directory resolution, and the YAML
// sources-file loader for user-defined sources.
package config

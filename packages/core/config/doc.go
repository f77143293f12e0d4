// Package config handles configuration loading for httpcase.
//
// It provides functionality for:
//   - Loading configuration from .httpcase.json or .httpcase.yml files
//   - Default configuration values
//   - Merging file settings with command-line overrides
package config

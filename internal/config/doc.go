// Package config handles configuration loading and merging for scalafo.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (--root, --source-root, --theme, --format, --debug)
//  2. Environment variables (SCALAFO_ROOT, SCALAFO_SOURCE_ROOT, SCALAFO_THEME,
//     SCALAFO_FORMAT, SCALAFO_DEBUG, NO_COLOR)
//  3. Config file, read only when named by --config or SCALAFO_CONFIG
//  4. Hardcoded defaults
//
// When a higher-priority source sets a value, it overrides any lower-priority values.
//
// # Config Files
//
// Files ending in .yaml or .yml are decoded with gopkg.in/yaml.v3, files
// ending in .toml with github.com/BurntSushi/toml. Both use the same keys:
//
//	project_root = "."
//	source_root  = "src/main/scala/"
//	theme        = "orca"
//	format       = "llm"
//	debug        = false
//	no_color     = false
//
// There is no implicit discovery: a config file is never picked up from the
// working directory or the user's config dir.
//
// # Environment Variables
//
//   - NO_COLOR: any non-empty value forces the mono theme
//   - SCALAFO_DEBUG: "true" or "1" enables debug logging
package config

// Package config loads and validates prehook configuration.
//
// Two kinds of configuration live here:
//
//   - Settings: prehook's own tool settings (parallelism, cache directory,
//     color), managed with Viper and overridable via PREHOOK_* environment
//     variables.
//
//   - Config: the declarative hook configuration (.prehook.yaml, or
//     .pre-commit-config.yaml for compatibility) that names hook source
//     repositories, pinned revisions, and the hooks to run. This is parsed
//     with gopkg.in/yaml.v3 and validated by Validate.
package config

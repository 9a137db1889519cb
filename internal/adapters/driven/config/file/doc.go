// Package file provides file-based configuration for the verdict CLI.
//
// Adapters:
//   - Load / Parse / Save: TOML (or YAML) configuration into domain.Config
//   - PromptStore: user-editable LLM prompts
package file

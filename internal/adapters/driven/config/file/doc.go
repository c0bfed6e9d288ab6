// Package file provides file-based implementations of driven port interfaces.
//
// Adapters:
//   - ConfigStore: TOML configuration at ~/.gengpt/config.toml
//   - PromptStore: user-editable prompt templates in ~/.gengpt/prompts
//
// LoadSettings turns a ConfigStore into domain.AppSettings.
package file

// Package file provides file-based implementations of driven port interfaces.
// These adapters persist data to the local filesystem under ~/.pickles.
//
// Adapters:
//   - ConfigStore: TOML-based configuration storage
//   - PromptStore: user-editable prompt templates, with a directory watcher
//   - Validator: settings validation
package file

// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - WorkspaceSource: Structured and unstructured record access (Notion)
//   - DocumentSource: A single shared document with dated sections (Google Docs)
//   - ModelBackend: Invokes a language model and returns its raw response
//   - RunStore: Analysis run and delivery record-keeping
//   - Deliverer: Ships a rendered report (console, file, email)
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - HistoryStore: Past analyses folded into new conversations
//   - PromptStore: User-editable prompt templates. Built-in templates are used without it.
//   - Observer: Pipeline events. Events are dropped without it.
//   - SettingsValidator: Settings validation beyond type checks.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven

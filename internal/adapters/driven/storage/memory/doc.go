// Package memory provides in-memory implementations of the storage ports.
// They back tests and the --no-store CLI mode; nothing survives the process.
package memory

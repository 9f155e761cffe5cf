// Package mcp exposes journal fetching and analysis as Model Context
// Protocol tools, so assistants can read and analyze a Pickles journal.
package mcp

import "errors"

// ErrMissingReconciler is returned when the reconciler is not provided.
var ErrMissingReconciler = errors.New("mcp: document reconciler is required")

// Package notion reads journal records from a Notion workspace.
//
// The workspace may hold a database of dated entries (the structured
// container) alongside free-standing pages. Source exposes both through
// driven.WorkspaceSource; the reconciler decides which to use.
//
// # Authentication
//
// An internal integration token (NOTION_API_KEY). Pages and databases must
// be shared with the integration to be visible.
//
// # Rate Limits
//
// Notion allows an average of three requests per second per integration.
// Requests are paced with a token bucket and 429 responses are retried by
// the client.
package notion

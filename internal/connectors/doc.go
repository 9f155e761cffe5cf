// Package connectors holds the document sources the reconciler reads:
// a Notion workspace and a single Google Doc journal. Each subpackage
// implements one of the driven source ports.
package connectors

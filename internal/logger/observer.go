package logger

import (
	"sort"

	"github.com/ephemere-io/pickles/internal/core/domain"
	"github.com/ephemere-io/pickles/internal/core/ports/driven"
)

// Verify interface compliance.
var _ driven.Observer = Observer{}

// Observer forwards core pipeline events to the process logger.
type Observer struct{}

// Notify logs the event at its level, prefixed with the stage name.
func (Observer) Notify(e domain.Event) {
	msg := e.Message
	if e.Stage != "" {
		msg = e.Stage + ": " + msg
	}
	With(string(e.Level), msg, e.Fields)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

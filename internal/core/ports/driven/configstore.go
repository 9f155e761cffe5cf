package driven

// ConfigStore is the persisted key/value settings file. Keys are dotted
// ("analysis.language"). Typed getters return the zero value for a missing
// key or a value of another type.
type ConfigStore interface {
	// Get returns the raw value and whether the key is present.
	Get(key string) (any, bool)

	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool

	// GetStringSlice also accepts a comma separated string.
	GetStringSlice(key string) []string

	// Set stores and persists a value.
	Set(key string, value any) error

	// Path returns the file backing the store.
	Path() string
}

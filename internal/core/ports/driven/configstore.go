package driven

// ConfigStore is a flat key/value view of the config file. Keys are dotted
// ("llm.provider"). Typed getters return the zero value for a missing key
// or a value of the wrong type.
type ConfigStore interface {
	// Get returns the raw value and whether the key is set.
	Get(key string) (any, bool)

	GetString(key string) string

	// GetInt accepts int and int64 values.
	GetInt(key string) int

	// GetFloat accepts float and integer values.
	GetFloat(key string) float64

	GetBool(key string) bool

	// Set changes a value in memory. Call Save to persist it.
	Set(key string, value any) error

	Save() error

	// Load replaces the in-memory values with the stored ones.
	Load() error

	// Path is the backing file, or a placeholder for stores without one.
	Path() string
}

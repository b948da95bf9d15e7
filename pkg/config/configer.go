package config

// Configer is a source of configuration values, keyed by the Key* names.
type Configer interface {
	Load() error
	LoadFromPath(path string) error

	// Lookup returns the value of key. Blank values count as missing.
	Lookup(key string) (string, bool)
}

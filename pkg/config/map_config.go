package config

import (
	"github.com/pkg/errors"
)

// MapConfig serves fixed values, tests use it in place of the environment.
type MapConfig struct {
	values map[string]string
}

func NewMapConfig(entries map[string]string) *MapConfig {
	values := make(map[string]string, len(entries))
	for key, entry := range entries {
		values[key] = entry
	}

	return &MapConfig{values: values}
}

func (c *MapConfig) LoadFromPath(path string) error {
	return errors.Errorf("MapConfig cannot load %s", path)
}

func (c *MapConfig) Load() error {
	return nil
}

func (c *MapConfig) Lookup(key string) (string, bool) {
	val, ok := c.values[key]
	return val, ok && val != ""
}

package config

import (
	"os"

	"github.com/subosito/gotenv"
)

// DotenvConfig reads the process environment, optionally loaded from a
// dotenv file first. Variables already set win over the file.
type DotenvConfig struct {
	DotenvPath string
}

func NewDotenvConfig(path string) *DotenvConfig {
	return &DotenvConfig{DotenvPath: path}
}

func (c *DotenvConfig) LoadFromPath(path string) error {
	c.DotenvPath = path
	return c.Load()
}

func (c *DotenvConfig) Load() error {
	if c.DotenvPath == "" {
		return nil
	}

	return gotenv.Load(c.DotenvPath)
}

func (c *DotenvConfig) Lookup(key string) (string, bool) {
	val, ok := os.LookupEnv(key)
	return val, ok && val != ""
}

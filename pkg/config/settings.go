package config

import (
	"os"

	"github.com/mitchellh/go-homedir"
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const DefaultSettingsFile = "~/.mccrud.yaml"

// Settings describe how the crud service is mounted. They live in a yaml
// (or any format viper understands) settings file.
type Settings struct {
	URI          string `mapstructure:"uri"`
	Dashboard    bool   `mapstructure:"dashboard"`
	Menu         []any  `mapstructure:"menu"`
	APIKeyHeader string `mapstructure:"api_key_header"`
}

func defaultSettings(v *viper.Viper) {
	v.SetDefault("uri", "/crud")
	v.SetDefault("dashboard", true)
	v.SetDefault("api_key_header", "X-API-KEY")
}

// LoadSettings reads the settings file at path, an empty path reads
// DefaultSettingsFile. A missing default file yields the defaults, a missing
// explicit file is an error.
func LoadSettings(path string) (*Settings, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultSettingsFile
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to expand settings path %s", path)
	}

	v := viper.New()
	defaultSettings(v)
	v.SetConfigFile(expanded)

	if _, err := os.Stat(expanded); explicit || err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "unable to read settings %s", expanded)
		}
	}

	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, errors.Wrapf(err, "invalid settings %s", expanded)
	}

	return &s, nil
}

package config

import (
	"os"
	"strconv"
)

var configer Configer = &DotenvConfig{}

func SetConfig(c Configer) {
	configer = c
}

func GetConfig() Configer {
	return configer
}

// LoadDotenv loads CRUD_ENV_FILE (default .env) when it exists.
func LoadDotenv() error {
	path := GetKeyWithDefault(KeyCrudEnvFile, DefaultEnvFile)
	if _, err := os.Stat(path); err != nil {
		return nil
	}

	return configer.LoadFromPath(path)
}

func GetKey(key string) string {
	val, _ := configer.Lookup(key)
	return val
}

func GetKeyWithDefault(key, defaultValue string) string {
	if val, ok := configer.Lookup(key); ok {
		return val
	}

	return defaultValue
}

// GetIntKeyWithDefault returns defaultValue when key is missing or not an int.
func GetIntKeyWithDefault(key string, defaultValue int) int {
	val, ok := configer.Lookup(key)
	if !ok {
		return defaultValue
	}

	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}

	return intVal
}

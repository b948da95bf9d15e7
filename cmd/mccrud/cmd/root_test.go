package cmd

import (
	"testing"

	"github.com/materials-commons/mccrud/pkg/config"
	"github.com/stretchr/testify/assert"
)

func TestBaseURLAndKey(t *testing.T) {
	old := config.GetConfig()
	t.Cleanup(func() {
		config.SetConfig(old)
		serverURL, apiKey = "", ""
	})

	settings := &config.Settings{URI: "/admin"}

	config.SetConfig(config.NewMapConfig(map[string]string{config.KeyCrudPort: "8080"}))
	assert.Equal(t, "http://localhost:8080/admin", baseURL(settings))
	assert.Equal(t, "", key())

	config.SetConfig(config.NewMapConfig(map[string]string{
		config.KeyCrudURL:    "http://crud.example.com/crud",
		config.KeyCrudAPIKey: "from-env",
	}))
	assert.Equal(t, "http://crud.example.com/crud", baseURL(settings))
	assert.Equal(t, "from-env", key())

	serverURL, apiKey = "http://flag/crud", "from-flag"
	assert.Equal(t, "http://flag/crud", baseURL(settings))
	assert.Equal(t, "from-flag", key())
}

package cmd

import (
	"fmt"
	"os"

	"github.com/apex/log"
	"github.com/materials-commons/mccrud/pkg/config"
	"github.com/materials-commons/mccrud/pkg/crud/client"
	"github.com/spf13/cobra"
)

var (
	serverURL    string
	apiKey       string
	settingsFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mccrud",
	Short: "Query a mccrud server",
	Long: `Query a mccrud server: show entity schemas, list records and run exports.
The server url and api key default to CRUD_URL and CRUD_API_KEY.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "url", "", "Base url of the crud service, for example http://localhost:1360/crud (default CRUD_URL)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "API key sent with every request (default CRUD_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "settings file (default is $HOME/.mccrud.yaml)")
}

// newClient builds the client from the flags, falling back to CRUD_URL and
// CRUD_API_KEY. The api key header and the default url path come from the
// settings file.
func newClient() *client.Client {
	if err := config.LoadDotenv(); err != nil {
		log.Fatalf("Failed loading configuration: %s", err)
	}

	settings, err := config.LoadSettings(settingsFile)
	if err != nil {
		log.Fatalf("Unable to load settings: %s", err)
	}

	return client.NewClient(baseURL(settings)).WithAPIKey(settings.APIKeyHeader, key())
}

func baseURL(settings *config.Settings) string {
	if serverURL != "" {
		return serverURL
	}

	return config.GetKeyWithDefault(config.KeyCrudURL, fmt.Sprintf("http://localhost:%d%s", config.CrudPort(), settings.URI))
}

func key() string {
	if apiKey != "" {
		return apiKey
	}

	return config.GetKey(config.KeyCrudAPIKey)
}

package cmd

import (
	"os"

	"github.com/apex/log"
	"github.com/materials-commons/mccrud/pkg/clog"
	"github.com/materials-commons/mccrud/pkg/config"
	"github.com/spf13/cobra"
)

var settingsFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mccrudd",
	Short: "Run the mccrud admin server",
	Long: `Run the mccrud admin server. Without a sub command the server is started,
serving the schema and records of the registered entities.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := config.LoadDotenv(); err != nil {
			log.Fatalf("Failed loading configuration: %s", err)
		}

		level := config.LogLevel()
		if err := clog.SetGlobalLoggerLevelFromString(level); err != nil {
			log.Fatalf("Invalid %s '%s': %s", config.KeyLogLevel, level, err)
		}
		log.SetLevelFromString(level)
	},
	Run: func(cmd *cobra.Command, args []string) {
		serve(cmd)
	},
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
	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "settings file (default is $HOME/.mccrud.yaml)")
	addServeFlags(rootCmd)
}

func mustLoadSettings() *config.Settings {
	settings, err := config.LoadSettings(settingsFile)
	if err != nil {
		log.Fatalf("Unable to load settings: %s", err)
	}

	return settings
}

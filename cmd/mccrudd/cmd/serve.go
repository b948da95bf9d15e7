package cmd

import (
	"strconv"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/materials-commons/mccrud/pkg/config"
	"github.com/materials-commons/mccrud/pkg/crud/jsfunc"
	"github.com/materials-commons/mccrud/pkg/mcdb"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the server (the default command)",
	Run: func(cmd *cobra.Command, args []string) {
		serve(cmd)
	},
}

func init() {
	addServeFlags(serveCmd)
	rootCmd.AddCommand(serveCmd)
}

func addServeFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("migrate", false, "Run the database migrations before serving")
	cmd.Flags().Int("port", 0, "Port to listen on (default CRUD_PORT or 1360)")
}

func serve(cmd *cobra.Command) {
	settings := mustLoadSettings()
	db := mcdb.MustConnectToDB()

	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if err := mcdb.RunMigrations(db); err != nil {
			log.Fatalf("Migrations failed: %s", err)
		}
	}

	if jsDir := config.JSDir(); jsDir != "" {
		if err := jsfunc.RegisterFilesFromDir(jsDir, 0); err != nil {
			log.Fatalf("Unable to register javascript functions from %s: %s", jsDir, err)
		}
	}

	service, err := newService(settings, db)
	if err != nil {
		log.Fatalf("Unable to create crud service: %s", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	if err := setupRoutes(e, RouteOpts{
		service:  service,
		db:       db,
		settings: settings,
	}); err != nil {
		log.Fatalf("Unable to setup routes: %s", err)
	}

	port, _ := cmd.Flags().GetInt("port")
	if port == 0 {
		port = config.CrudPort()
	}

	log.Infof("Serving %s on port %d", service.URI, port)
	if err := e.Start(":" + strconv.Itoa(port)); err != nil {
		log.Fatalf("Unable to start server: %v", err)
	}
}

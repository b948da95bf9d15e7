package cmd

import (
	"github.com/apex/log"
	"github.com/materials-commons/mccrud/pkg/mcdb"
	"github.com/materials-commons/mccrud/pkg/mcdb/mcmodel"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	Run: func(cmd *cobra.Command, args []string) {
		db := mcdb.MustConnectToDB()
		if err := mcdb.RunMigrations(db); err != nil {
			log.Fatalf("Migrations failed: %s", err)
		}
		log.Infof("Migrated %d tables", len(mcdb.Models()))

		email, _ := cmd.Flags().GetString("admin-email")
		password, _ := cmd.Flags().GetString("admin-password")
		if email == "" {
			return
		}

		if err := seedAdmin(db, email, password); err != nil {
			log.Fatalf("Unable to create admin %s: %s", email, err)
		}
		log.Infof("Admin user %s ready", email)
	},
}

func init() {
	migrateCmd.Flags().String("admin-email", "", "Create an admin user with this email")
	migrateCmd.Flags().String("admin-password", "", "Password of the admin user")
	rootCmd.AddCommand(migrateCmd)
}

// seedAdmin creates the admin user unless a user with email exists.
func seedAdmin(db *gorm.DB, email, password string) error {
	var count int64
	if err := db.Model(&mcmodel.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return err
	}

	if count != 0 {
		return nil
	}

	return mcdb.WithTxRetry(db, func(tx *gorm.DB) error {
		return tx.Create(&mcmodel.User{
			Name:          "Admin",
			Email:         email,
			IsAdmin:       true,
			PlainPassword: password,
		}).Error
	})
}

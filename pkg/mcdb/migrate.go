package mcdb

import (
	"github.com/materials-commons/mccrud/pkg/mcdb/mcmodel"
	"gorm.io/gorm"
)

// Models are the tables managed by RunMigrations, in creation order.
func Models() []any {
	return []any{
		&mcmodel.User{},
		&mcmodel.Project{},
	}
}

func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

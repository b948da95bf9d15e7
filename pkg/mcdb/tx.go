package mcdb

import (
	"github.com/materials-commons/mccrud/pkg/config"
	"gorm.io/gorm"
)

// WithTxRetry runs fn in a transaction, retrying it up to CRUD_TX_RETRY times.
func WithTxRetry(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	var err error

	for i := 0; i < config.TxRetry(); i++ {
		err = db.Transaction(fn)
		if err == nil {
			break
		}

		if ctx := db.Statement.Context; ctx != nil && ctx.Err() != nil {
			break
		}
	}

	return err
}

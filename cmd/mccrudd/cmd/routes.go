package cmd

import (
	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/materials-commons/mccrud/pkg/clog"
	"github.com/materials-commons/mccrud/pkg/config"
	"github.com/materials-commons/mccrud/pkg/crud"
	"github.com/materials-commons/mccrud/pkg/crud/webapi"
	"github.com/materials-commons/mccrud/pkg/crud/webapi/apimiddleware"
	"github.com/materials-commons/mccrud/pkg/mcdb/mcmodel"
	"gorm.io/gorm"
)

type RouteOpts struct {
	service  *crud.Service
	db       *gorm.DB
	settings *config.Settings
}

func setupRoutes(e *echo.Echo, opts RouteOpts) error {
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			entry := clog.Global().WithFields(log.Fields{
				"method":  v.Method,
				"uri":     v.URI,
				"status":  v.Status,
				"latency": v.Latency,
			})
			if v.Error != nil {
				entry.WithError(v.Error).Warn("request")
			} else {
				entry.Info("request")
			}
			return nil
		},
	}))

	views, err := webapi.NewViews()
	if err != nil {
		return err
	}

	var m []echo.MiddlewareFunc
	if keys := config.CrudAPIKeys(); keys != "" {
		cache := apimiddleware.NewAPIKeyCache(apiKeyOwner(opts.db))
		cache.AddStaticKeys(keys)
		if err := forgetDeletedUserKeys(opts.db, cache); err != nil {
			return err
		}
		m = append(m, apimiddleware.APIKeyAuth(apimiddleware.APIKeyConfig{
			Skipper:          middleware.DefaultSkipper,
			Keyname:          opts.settings.APIKeyHeader,
			GetOwnerByAPIKey: cache.GetOwnerByAPIKey,
		}))
	}

	webapi.RegisterRoutes(e, opts.service, views, m...)

	return nil
}

// apiKeyOwner looks keys up in the api tokens of the users.
func apiKeyOwner(db *gorm.DB) apimiddleware.GetOwnerByAPIKeyFN {
	return func(apikey string) (string, error) {
		var user mcmodel.User
		if err := db.Where("api_token = ?", apikey).First(&user).Error; err != nil {
			return "", err
		}

		return user.Email, nil
	}
}

// forgetDeletedUserKeys drops the cached api token of every deleted user so
// it stops authenticating.
func forgetDeletedUserKeys(db *gorm.DB, cache *apimiddleware.APIKeyCache) error {
	return db.Callback().Delete().After("gorm:delete").Register("mccrud:forget_api_key", func(tx *gorm.DB) {
		if tx.Error != nil {
			return
		}

		if user, ok := tx.Statement.Dest.(*mcmodel.User); ok && user.ApiToken != "" {
			cache.DeleteAPIKey(user.ApiToken)
		}
	})
}

package apimiddleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/materials-commons/mccrud/pkg/crud"
	"github.com/pkg/errors"
)

// OwnerCtxKey is the echo context key holding the owner of the request api key.
const OwnerCtxKey = "apikey_owner"

// GetOwnerByAPIKeyFN returns who the api key belongs to, or an error when
// the key is unknown.
type GetOwnerByAPIKeyFN func(apikey string) (string, error)

type APIKeyConfig struct {
	Skipper          middleware.Skipper
	Keyname          string
	GetOwnerByAPIKey GetOwnerByAPIKeyFN
}

// APIKeyAuth accepts requests carrying a known api key in the Keyname header
// or query param. The query param is reserved so it never filters records.
func APIKeyAuth(config APIKeyConfig) echo.MiddlewareFunc {
	if config.Skipper == nil {
		config.Skipper = middleware.DefaultSkipper
	}

	crud.ReserveParams(config.Keyname)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if config.Skipper(c) {
				return next(c)
			}

			value, err := getAPIKeyFromRequest(config.Keyname, c)
			if err != nil {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}

			owner, err := config.GetOwnerByAPIKey(value)
			switch {
			case err != nil:
				return echo.ErrUnauthorized
			case owner == "":
				return echo.ErrUnauthorized
			default:
				c.Set(OwnerCtxKey, owner)
				return next(c)
			}
		}
	}
}

func getAPIKeyFromRequest(key string, c echo.Context) (string, error) {
	if value, err := keyFromHeader(key, c); err == nil {
		return value, nil
	}

	if value, err := keyFromQuery(key, c); err == nil {
		return value, nil
	}

	return "", errors.Errorf("no apikey '%s' as query param or header", key)
}

func keyFromHeader(key string, c echo.Context) (string, error) {
	value := c.Request().Header.Get(key)
	if value == "" {
		return "", errors.Errorf("no apikey '%s' as header", key)
	}
	return value, nil
}

func keyFromQuery(key string, c echo.Context) (string, error) {
	value := c.QueryParam(key)
	if value == "" {
		return "", errors.Errorf("no apikey '%s' as query param", key)
	}
	return value, nil
}

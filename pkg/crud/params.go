package crud

import (
	"net/http"
	"sync"

	"github.com/labstack/echo/v4"
)

var (
	reservedMu sync.RWMutex

	// Request params that carry options of the request and never filter records.
	reservedParams = map[string]bool{
		"page":     true,
		"size":     true,
		"sort":     true,
		"order":    true,
		"fields":   true,
		"include":  true,
		"limit":    true,
		"download": true,
		"callback": true,
	}
)

// ReserveParams adds names to the request params that are never used as
// filters, for example the query param carrying the api key.
func ReserveParams(names ...string) {
	reservedMu.Lock()
	defer reservedMu.Unlock()

	for _, name := range names {
		if name != "" {
			reservedParams[name] = true
		}
	}
}

// IsReservedParam is true for request params that never filter records.
func IsReservedParam(name string) bool {
	reservedMu.RLock()
	defer reservedMu.RUnlock()

	return reservedParams[name]
}

// FilterParams returns a copy of params without the reserved ones.
func FilterParams(params map[string]string) map[string]string {
	filters := make(map[string]string, len(params))
	for key, value := range params {
		if !IsReservedParam(key) {
			filters[key] = value
		}
	}

	return filters
}

// RequestParams flattens the query string, and the form body of non GET
// requests, to the first value of every key. Query values win.
func RequestParams(c echo.Context) map[string]string {
	params := make(map[string]string)

	if c.Request().Method != http.MethodGet && c.Request().Method != http.MethodHead {
		if form, err := c.FormParams(); err == nil {
			for key, values := range form {
				if len(values) != 0 {
					params[key] = values[0]
				}
			}
		}
	}

	for key, values := range c.QueryParams() {
		if len(values) != 0 {
			params[key] = values[0]
		}
	}

	return params
}

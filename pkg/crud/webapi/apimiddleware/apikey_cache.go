package apimiddleware

import (
	"strings"
	"sync"

	"github.com/pkg/errors"
)

var ErrUnknownAPIKey = errors.New("unknown api key")

// APIKeyCache remembers the owners of the api keys it has seen. Keys it does
// not know are looked up with lookup, when set.
type APIKeyCache struct {
	apikeyCacheMu sync.RWMutex
	cache         map[string]string
	lookup        GetOwnerByAPIKeyFN
}

func NewAPIKeyCache(lookup GetOwnerByAPIKeyFN) *APIKeyCache {
	return &APIKeyCache{
		cache:  make(map[string]string),
		lookup: lookup,
	}
}

// AddStaticKeys caches a comma separated list of keys, as found in
// CRUD_API_KEYS. Their owner is the key name "static".
func (c *APIKeyCache) AddStaticKeys(keys string) {
	c.apikeyCacheMu.Lock()
	defer c.apikeyCacheMu.Unlock()

	for _, key := range strings.Split(keys, ",") {
		if key = strings.TrimSpace(key); key != "" {
			c.cache[key] = "static"
		}
	}
}

func (c *APIKeyCache) GetOwnerByAPIKey(apikey string) (string, error) {
	c.apikeyCacheMu.RLock()

	if owner, ok := c.cache[apikey]; ok {
		c.apikeyCacheMu.RUnlock()
		return owner, nil
	}

	// Need to upgrade to a Write Lock
	c.apikeyCacheMu.RUnlock()
	c.apikeyCacheMu.Lock()
	defer c.apikeyCacheMu.Unlock()

	// Another request may have cached the key between the two locks.
	if owner, ok := c.cache[apikey]; ok {
		return owner, nil
	}

	if c.lookup == nil {
		return "", ErrUnknownAPIKey
	}

	owner, err := c.lookup(apikey)
	if err != nil {
		return "", err
	}

	c.cache[apikey] = owner
	return owner, nil
}

func (c *APIKeyCache) DeleteAPIKey(apikey string) {
	c.apikeyCacheMu.Lock()
	defer c.apikeyCacheMu.Unlock()
	delete(c.cache, apikey)
}

package crud

import (
	"os"
	"sync"

	"github.com/apex/log"
	"github.com/labstack/echo/v4"
	"github.com/materials-commons/mccrud/pkg/clog"
	"github.com/pkg/errors"
)

// Service is the registry of entities served under URI.
type Service struct {
	URI       string
	Dashboard bool

	menu     []MenuEntry
	mu       sync.RWMutex
	entities map[string]*Entity
}

func NewService(uri string, dashboard bool, menu ...MenuEntry) *Service {
	return &Service{
		URI:       uri,
		Dashboard: dashboard,
		menu:      menu,
		entities:  make(map[string]*Entity),
	}
}

// Register adds entities by resource name. Entities must be fully described
// before they are registered, they are shared by all requests.
func (s *Service) Register(entities ...*Entity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range entities {
		resource := e.ResourceName()
		if resource == "" {
			return errors.New("entity has no name")
		}

		if _, ok := s.entities[resource]; ok {
			return errors.Errorf("entity '%s' already registered", resource)
		}

		e.uri = s.URI
		s.entities[resource] = e
		clog.EnsureLoggingContext(resource, os.Stdout)
		clog.UsingCtx(resource).WithField("uri", e.ResourceURI()).Debug("registered entity")
	}

	return nil
}

func (s *Service) Entity(resource string) (*Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entities[resource]
	if !ok {
		return nil, errors.Wrapf(ErrEntityNotFound, "'%s'", resource)
	}

	return e, nil
}

// Entities returns the registered entities ordered by resource name.
func (s *Service) Entities() []*Entity {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return sortedEntities(s.entities)
}

// Menu builds the menu of the frontend router. Top level entries that end
// up without a path are dropped.
func (s *Service) Menu() []MenuItem {
	items := make([]MenuItem, 0, len(s.menu))
	for _, entry := range s.menu {
		item := makeMenuItem(entry, s.URI)
		if item.Path == "" {
			continue
		}
		items = append(items, item)
	}

	return items
}

// ExecuteAction runs a custom action of the entity.
func (s *Service) ExecuteAction(c echo.Context, resource, action, id string) error {
	e, err := s.Entity(resource)
	if err != nil {
		return err
	}

	handler, ok := e.Actions[action]
	if !ok || handler == nil {
		return &ActionNotFoundError{Action: action, Resource: resource}
	}

	clog.UsingCtx(resource).WithFields(log.Fields{"action": action, "id": id}).Debug("executing custom action")

	return handler(c, e, id)
}

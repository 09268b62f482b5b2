// Package settings serves the namespaced settings written by settings:// authorities.
package settings

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/paramset/paramset/internal/config"
	"github.com/paramset/paramset/internal/db/models"
	"github.com/paramset/paramset/internal/fault"
	"github.com/paramset/paramset/internal/store"
	"github.com/paramset/paramset/internal/web/handler"
)

// Path is the path of the settings collection.
const Path = "/api/settings"

// ErrSystemNamespace is returned when the application's own namespace is requested.
var ErrSystemNamespace = errors.New("namespace is reserved")

// Service is the settings handler service.
type Service struct {
	handler.Service
	cfg   *config.Config
	store *store.Store
}

// Handler is the settings handler.
var Handler = Service{}

// Item is one setting of a namespace.
type Item struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Init initializes the settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.store = deps.Store

	app.Get(Path+"/:namespace", s.List)

	return nil
}

// List returns the settings of a namespace ordered by name. The system
// namespace holds credentials and is not served.
func (s *Service) List(c *fiber.Ctx) error {
	namespace := c.Params("namespace")
	if namespace == models.SystemNamespace {
		return handler.SendError(c, fault.AccessDenied("list settings", ErrSystemNamespace))
	}

	rows, err := s.store.ListSettings(c.UserContext(), namespace)
	if err != nil {
		return handler.SendError(c, err)
	}

	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, Item{Name: row.Name, Value: string(row.Value)})
	}

	return c.JSON(items)
}

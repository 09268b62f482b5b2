// Package keyvalues serves the key/values of a config.
package keyvalues

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/paramset/paramset/internal/command"
	"github.com/paramset/paramset/internal/config"
	"github.com/paramset/paramset/internal/db/models"
	"github.com/paramset/paramset/internal/store"
	"github.com/paramset/paramset/internal/web/handler"
	"github.com/paramset/paramset/internal/web/navigation"
)

// Service is the key/values handler service.
type Service struct {
	handler.Service
	cfg     *config.Config
	store   *store.Store
	surface *command.Surface
}

// Handler is the key/values handler.
var Handler = Service{}

// Request is the body of a key/value create or edit.
type Request struct {
	Key   string `json:"key"   validate:"required,max=255"`
	Value string `json:"value"`
}

// Item is a key/value with its location.
type Item struct {
	models.KeyValue
	Href string `json:"href"`
}

// Init initializes the key/values handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.store = deps.Store
	s.surface = deps.Surface

	app.Route(navigation.ConfigsPath+"/:id/values", func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.List)
		router.Post(handler.RouterRootPath, s.Add)
	})

	app.Route(navigation.ValuesPath, func(router fiber.Router) {
		router.Get("/:id", s.Get)
		router.Put("/:id", s.Edit)
		router.Delete("/:id", s.Delete)
	})

	return nil
}

// List returns the key/values of a config in fetch order.
func (s *Service) List(c *fiber.Ctx) error {
	configID, err := handler.ParseID(c, "id")
	if err != nil {
		return handler.SendError(c, err)
	}

	ctx := c.UserContext()

	if _, err = s.store.GetConfig(ctx, configID); err != nil {
		return handler.SendError(c, err)
	}

	kvs, err := s.store.ListKeyValues(ctx, configID)
	if err != nil {
		return handler.SendError(c, err)
	}

	items := make([]Item, 0, len(kvs))
	for _, kv := range kvs {
		href, err := s.href(kv)
		if err != nil {
			return handler.SendError(c, err)
		}

		items = append(items, Item{KeyValue: kv, Href: href})
	}

	return c.JSON(items)
}

// Add inserts a key/value into a config.
func (s *Service) Add(c *fiber.Ctx) error {
	configID, err := handler.ParseID(c, "id")
	if err != nil {
		return handler.SendError(c, err)
	}

	var req Request
	if err = handler.Bind(c, &req); err != nil {
		return handler.SendError(c, err)
	}

	ctx := c.UserContext()

	if err = s.surface.OnAddKeyValueClicked(configID); err != nil {
		return handler.SendError(c, err)
	}

	if _, err = s.store.GetConfig(ctx, configID); err != nil {
		return handler.SendError(c, err)
	}

	id, err := s.surface.OnStoreKeyValue(ctx, models.NewKeyValue{
		ConfigID: configID,
		Key:      req.Key,
		Value:    req.Value,
	}).Wait(ctx)
	if err != nil {
		return handler.SendError(c, err)
	}

	kv := models.KeyValue{ID: id, ConfigID: configID, Key: req.Key, Value: req.Value}

	href, err := s.href(kv)
	if err != nil {
		return handler.SendError(c, err)
	}

	c.Location(href)

	return c.Status(fiber.StatusCreated).JSON(Item{KeyValue: kv, Href: href})
}

// Get returns one key/value.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return handler.SendError(c, err)
	}

	kv, err := s.store.GetKeyValue(c.UserContext(), id)
	if err != nil {
		return handler.SendError(c, err)
	}

	return c.JSON(kv)
}

// Edit updates a key/value in place.
func (s *Service) Edit(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return handler.SendError(c, err)
	}

	var req Request
	if err = handler.Bind(c, &req); err != nil {
		return handler.SendError(c, err)
	}

	ctx := c.UserContext()

	kv, err := s.store.GetKeyValue(ctx, id)
	if err != nil {
		return handler.SendError(c, err)
	}

	_, err = s.surface.OnStoreKeyValue(ctx, models.ExistingKeyValue{ID: id, Key: req.Key, Value: req.Value}).Wait(ctx)
	if err != nil {
		return handler.SendError(c, err)
	}

	kv.Key, kv.Value = req.Key, req.Value

	return c.JSON(kv)
}

// Delete removes a key/value. A missing one is not an error.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return handler.SendError(c, err)
	}

	ctx := c.UserContext()

	if _, err = s.surface.OnDeleteKeyValue(ctx, id).Wait(ctx); err != nil {
		return handler.SendError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (s *Service) href(kv models.KeyValue) (string, error) {
	rec := navigation.NewRecorder()
	if err := s.surface.WithNavigator(rec).OnKeyValueClicked(kv); err != nil {
		return "", err
	}

	return rec.Location(), nil
}

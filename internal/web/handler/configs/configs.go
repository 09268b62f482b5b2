// Package configs serves the config list, config details, clone, delete and
// execute commands.
package configs

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/paramset/paramset/internal/command"
	"github.com/paramset/paramset/internal/config"
	"github.com/paramset/paramset/internal/db/models"
	"github.com/paramset/paramset/internal/store"
	"github.com/paramset/paramset/internal/web/handler"
	"github.com/paramset/paramset/internal/web/navigation"
)

// Service is the configs handler service.
type Service struct {
	handler.Service
	cfg     *config.Config
	store   *store.Store
	surface *command.Surface
}

// Handler is the configs handler.
var Handler = Service{}

// ListItem is one row of the config list.
type ListItem struct {
	models.ConfigListEntry
	Href string `json:"href"`
}

// UpdateRequest changes the name and/or the authority of a config.
type UpdateRequest struct {
	Name      *string `json:"name"      validate:"omitempty,max=255"`
	Authority *string `json:"authority" validate:"omitempty,max=255"`
}

// CloneRequest names a clone. An empty name means "<source> (copy)".
type CloneRequest struct {
	Name string `json:"name" validate:"max=255"`
}

// IDResponse carries the id of a created config.
type IDResponse struct {
	ID uint64 `json:"id"`
}

// Init initializes the configs handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.store = deps.Store
	s.surface = deps.Surface

	app.Route(navigation.ConfigsPath, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.List)
		router.Post(handler.RouterRootPath, s.Add)
		router.Get("/stream", s.Stream)
		router.Post("/execute", s.ExecuteAll)
		router.Get("/:id", s.Get)
		router.Patch("/:id", s.Update)
		router.Delete("/:id", s.Delete)
		router.Post("/:id/clone", s.Clone)
		router.Post("/:id/execute", s.Execute)
		router.Get("/:id/results", s.Results)
	})

	return nil
}

// List returns every config with its latest execution result.
func (s *Service) List(c *fiber.Ctx) error {
	entries, err := s.store.ListConfigEntries(c.UserContext())
	if err != nil {
		return handler.SendError(c, err)
	}

	items, err := s.listItems(entries)
	if err != nil {
		return handler.SendError(c, err)
	}

	return c.JSON(items)
}

// listItems links every entry to its details. An entry without an id fails
// the whole list.
func (s *Service) listItems(entries []models.ConfigListEntry) ([]ListItem, error) {
	items := make([]ListItem, 0, len(entries))
	for _, entry := range entries {
		rec := navigation.NewRecorder()
		if err := s.surface.WithNavigator(rec).OnEntryClicked(entry); err != nil {
			return nil, err
		}

		items = append(items, ListItem{ConfigListEntry: entry, Href: rec.Location()})
	}

	return items, nil
}

// Add creates an empty config.
func (s *Service) Add(c *fiber.Ctx) error {
	rec := navigation.NewRecorder()

	id, err := s.surface.WithNavigator(rec).OnAddConfigClicked(c.UserContext()).Wait(c.UserContext())
	if err != nil {
		return handler.SendError(c, err)
	}

	c.Location(rec.Location())

	return c.Status(fiber.StatusCreated).JSON(IDResponse{ID: id})
}

// Get returns a config with its key/values.
func (s *Service) Get(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return handler.SendError(c, err)
	}

	entry, err := s.store.GetConfigEntry(c.UserContext(), id)
	if err != nil {
		return handler.SendError(c, err)
	}

	return c.JSON(entry)
}

// Update renames and/or retargets a config. A missing config is left alone.
func (s *Service) Update(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return handler.SendError(c, err)
	}

	var req UpdateRequest
	if err = handler.Bind(c, &req); err != nil {
		return handler.SendError(c, err)
	}

	ctx := c.UserContext()

	if req.Name != nil {
		if _, err = s.surface.OnRenameConfig(ctx, id, *req.Name).Wait(ctx); err != nil {
			return handler.SendError(c, err)
		}
	}

	if req.Authority != nil {
		if _, err = s.surface.OnAuthorityChanged(ctx, id, *req.Authority).Wait(ctx); err != nil {
			return handler.SendError(c, err)
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Delete removes a config with its key/values and results.
func (s *Service) Delete(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return handler.SendError(c, err)
	}

	ctx := c.UserContext()

	entry, err := s.store.GetConfigEntry(ctx, id)
	if err != nil {
		return handler.SendError(c, err)
	}

	if _, err = s.surface.OnDeleteClicked(ctx, *entry).Wait(ctx); err != nil {
		return handler.SendError(c, err)
	}

	log.Info().Uint64("config_id", id).Msg("config deleted")

	return c.SendStatus(fiber.StatusNoContent)
}

// Clone copies a config and its key/values without results.
func (s *Service) Clone(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return handler.SendError(c, err)
	}

	var req CloneRequest
	if len(c.Body()) > 0 {
		if err = handler.Bind(c, &req); err != nil {
			return handler.SendError(c, err)
		}
	}

	ctx := c.UserContext()

	entry, err := s.store.GetConfigEntry(ctx, id)
	if err != nil {
		return handler.SendError(c, err)
	}

	cloneID, err := s.surface.OnCloneClicked(ctx, *entry, req.Name).Wait(ctx)
	if err != nil {
		return handler.SendError(c, err)
	}

	c.Location(navigation.ConfigPath(cloneID))

	return c.Status(fiber.StatusCreated).JSON(IDResponse{ID: cloneID})
}

// Execute applies a config and returns the recorded result. Failures of the
// update call are results too; only a missing config is an error.
func (s *Service) Execute(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return handler.SendError(c, err)
	}

	rec := navigation.NewRecorder()
	ctx := c.UserContext()

	r, err := s.surface.WithNavigator(rec).OnDetailExecuteClicked(ctx, id).Wait(ctx)
	if err != nil {
		return handler.SendError(c, err)
	}

	return c.JSON(r)
}

// ExecuteAll applies every listed config and returns the recorded results
// in list order.
func (s *Service) ExecuteAll(c *fiber.Ctx) error {
	ctx := c.UserContext()

	entries, err := s.store.ListConfigEntries(ctx)
	if err != nil {
		return handler.SendError(c, err)
	}

	results, err := s.surface.WithNavigator(navigation.NewRecorder()).ExecuteListed(ctx, s.store, entries)
	if err != nil {
		return handler.SendError(c, err)
	}

	return c.JSON(results)
}

// Results returns the execution results of a config, newest first.
func (s *Service) Results(c *fiber.Ctx) error {
	id, err := handler.ParseID(c, "id")
	if err != nil {
		return handler.SendError(c, err)
	}

	ctx := c.UserContext()

	if _, err = s.store.GetConfig(ctx, id); err != nil {
		return handler.SendError(c, err)
	}

	results, err := s.store.ListExecutionResults(ctx, id)
	if err != nil {
		return handler.SendError(c, err)
	}

	return c.JSON(results)
}

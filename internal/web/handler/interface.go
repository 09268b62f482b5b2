package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/paramset/paramset/internal/command"
	"github.com/paramset/paramset/internal/config"
	"github.com/paramset/paramset/internal/powerdns"
	"github.com/paramset/paramset/internal/store"
)

// Deps are the collaborators shared by all handlers.
type Deps struct {
	Store   *store.Store
	Surface *command.Surface
	PDNS    *powerdns.Updater
}

// Service is the interface for a web handler service.
type Service interface {
	Init(app *fiber.App, cfg *config.Config, deps *Deps) error
}

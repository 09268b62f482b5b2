// Package pdnsserver serves the PowerDNS server settings used by pdns:// authorities.
package pdnsserver

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/paramset/paramset/internal/config"
	controller "github.com/paramset/paramset/internal/db/controller/pdnsserver"
	"github.com/paramset/paramset/internal/db/controller/setting"
	"github.com/paramset/paramset/internal/fault"
	"github.com/paramset/paramset/internal/powerdns"
	"github.com/paramset/paramset/internal/store"
	"github.com/paramset/paramset/internal/web/handler"
)

const (
	// Path is the path of the pdns-server settings.
	Path = "/api/pdns-server"

	maskedAPIKey = "********"
)

// Service is the pdns-server settings handler service.
type Service struct {
	handler.Service
	cfg       *config.Config
	store     *store.Store
	pdns      *powerdns.Updater
	validator *validator.Validate
}

// Handler is the pdns-server settings handler.
var Handler = Service{}

// TestResponse reports a successful connection test.
type TestResponse struct {
	Zones int `json:"zones"`
}

// Init initializes the pdns-server settings handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, deps *handler.Deps) error {
	if app == nil || cfg == nil || deps == nil {
		return errors.New(handler.ErrNilACDFatalLogMsg)
	}

	s.cfg = cfg
	s.store = deps.Store
	s.pdns = deps.PDNS
	s.validator = validator.New()

	// register routes
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RouterRootPath, s.Get)
		router.Put(handler.RouterRootPath, s.Put)
		router.Post("/test", s.Test)
	})

	return nil
}

// Get returns the stored settings with the API key masked.
func (s *Service) Get(c *fiber.Ctx) error {
	settings, err := s.store.PDNSServerSettings(c.UserContext())
	if err != nil {
		if errors.Is(err, setting.ErrSettingNotFound) {
			return handler.SendError(c, fault.NotFound("get pdns server settings", err))
		}

		log.Error().Err(err).Msg("failed to load PDNS server settings")
		return handler.SendError(c, err)
	}

	settings.APIKey = maskedAPIKey

	return c.JSON(settings)
}

// Put validates and stores the settings.
func (s *Service) Put(c *fiber.Ctx) error {
	settings := controller.Settings{}
	if err := c.BodyParser(&settings); err != nil {
		log.Error().Err(err).Msg("failed to parse PDNS server settings")
		return handler.SendError(c, handler.ErrInvalidBody)
	}

	if err := s.validator.Struct(&settings); err != nil {
		log.Error().Err(err).Msg("validation failed for PDNS server settings")
		return handler.SendError(c, err)
	}

	if err := s.store.SavePDNSServerSettings(c.UserContext(), settings); err != nil {
		log.Error().Err(err).Msg("failed to save PDNS server settings")
		return handler.SendError(c, err)
	}

	log.Info().
		Str("api_server_url", settings.APIServerURL).
		Str("vhost", settings.VHost).
		Msg("PDNS server settings saved successfully")

	settings.APIKey = maskedAPIKey

	return c.JSON(settings)
}

// Test checks the connection to the PowerDNS API.
func (s *Service) Test(c *fiber.Ctx) error {
	if s.pdns == nil {
		return handler.SendError(c, fault.NotFound("test pdns server", powerdns.ErrClientNotInitialized))
	}

	zones, err := s.pdns.Test(c.UserContext())
	if err != nil {
		if errors.Is(err, powerdns.ErrClientNotInitialized) {
			return handler.SendError(c, fault.NotFound("test pdns server", err))
		}

		log.Error().Err(err).Msg("failed to connect to PowerDNS API")
		return handler.SendError(c, fault.ExternalFailure("test pdns server", err))
	}

	return c.JSON(TestResponse{Zones: zones})
}

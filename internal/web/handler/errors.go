package handler

import (
	"errors"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/paramset/paramset/internal/fault"
	"github.com/paramset/paramset/internal/updater"
)

var (
	// ErrInvalidID is returned for a path id that is not a positive integer.
	ErrInvalidID = errors.New("invalid id")
	// ErrInvalidBody is returned for a request body that cannot be parsed.
	ErrInvalidBody = errors.New("invalid request body")
)

var validate = validator.New()

// ErrorResponse is the body of every failed API call.
type ErrorResponse struct {
	Error  string   `json:"error"`
	Fields []string `json:"fields,omitempty"`
}

// Status maps err onto an HTTP status code.
func Status(err error) int {
	var validationErrors validator.ValidationErrors

	switch {
	case errors.As(err, &validationErrors), errors.Is(err, ErrInvalidID), errors.Is(err, ErrInvalidBody):
		return fiber.StatusBadRequest
	case errors.Is(err, fault.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, fault.ErrAccessDenied), errors.Is(err, updater.ErrPermissionDenied):
		return fiber.StatusForbidden
	case errors.Is(err, fault.ErrExternalFailure):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// SendError writes err as JSON with the status Status picks.
func SendError(c *fiber.Ctx, err error) error {
	status := Status(err)
	resp := ErrorResponse{Error: err.Error()}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		resp.Error = "validation failed"
		for _, ve := range validationErrors {
			resp.Fields = append(resp.Fields, "Field '"+ve.Field()+"' failed validation tag '"+ve.Tag()+"'")
		}
	}

	if status >= fiber.StatusInternalServerError {
		log.Error().Err(err).Str("severity", fault.SeverityOf(err).String()).
			Str("path", c.Path()).Msg("request failed")
	}

	return c.Status(status).JSON(resp)
}

// ParseID reads the positive integer path parameter name.
func ParseID(c *fiber.Ctx, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || id == 0 {
		return 0, ErrInvalidID
	}

	return id, nil
}

// Bind parses the JSON body of c into v and validates it.
func Bind(c *fiber.Ctx, v any) error {
	if err := c.BodyParser(v); err != nil {
		return ErrInvalidBody
	}

	return validate.Struct(v)
}

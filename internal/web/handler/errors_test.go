package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramset/paramset/internal/fault"
	"github.com/paramset/paramset/internal/updater"
)

func TestStatus(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want int
	}{
		{name: "not found", err: fault.NotFound("get", errors.New("gone")), want: fiber.StatusNotFound},
		{name: "access denied fault", err: fault.AccessDenied("update", errors.New("no")), want: fiber.StatusForbidden},
		{name: "permission denied", err: fmt.Errorf("pdns: %w", updater.ErrPermissionDenied), want: fiber.StatusForbidden},
		{name: "external failure", err: fault.ExternalFailure("test", errors.New("down")), want: fiber.StatusBadGateway},
		{name: "terminal", err: fault.Invariant("entry", "id missing"), want: fiber.StatusInternalServerError},
		{name: "invalid id", err: ErrInvalidID, want: fiber.StatusBadRequest},
		{name: "plain", err: errors.New("plain"), want: fiber.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Status(tc.err))
		})
	}
}

type bindRequest struct {
	Key string `json:"key" validate:"required"`
}

func TestBindAndParseID(t *testing.T) {
	app := fiber.New()
	app.Post("/items/:id", func(c *fiber.Ctx) error {
		if _, err := ParseID(c, "id"); err != nil {
			return SendError(c, err)
		}

		var req bindRequest
		if err := Bind(c, &req); err != nil {
			return SendError(c, err)
		}

		return c.SendString(req.Key)
	})

	testCases := []struct {
		name   string
		path   string
		body   string
		status int
		want   string
	}{
		{name: "ok", path: "/items/1", body: `{"key":"a"}`, status: fiber.StatusOK, want: "a"},
		{name: "zero id", path: "/items/0", body: `{"key":"a"}`, status: fiber.StatusBadRequest, want: "invalid id"},
		{name: "word id", path: "/items/x", body: `{"key":"a"}`, status: fiber.StatusBadRequest, want: "invalid id"},
		{name: "missing key", path: "/items/1", body: `{}`, status: fiber.StatusBadRequest, want: "failed validation tag 'required'"},
		{name: "bad json", path: "/items/1", body: `{`, status: fiber.StatusBadRequest, want: "invalid request body"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodPost, tc.path, strings.NewReader(tc.body))
			req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)

			resp, err := app.Test(req)
			require.NoError(t, err)
			defer func() {
				_ = resp.Body.Close()
			}()

			body, err := io.ReadAll(resp.Body)
			require.NoError(t, err)

			assert.Equal(t, tc.status, resp.StatusCode)
			assert.Contains(t, string(body), tc.want)
		})
	}
}

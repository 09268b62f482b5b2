package fiber_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	adapter "github.com/paramset/paramset/internal/logger/adapter/fiber"

	"github.com/paramset/paramset/internal/logger"
)

// accessLine is the subset of the access log json that is asserted on.
type accessLine struct {
	Status int    `json:"status"`
	URI    string `json:"URI"`
	Method string `json:"method"`
	Host   string `json:"host"`
	Error  string `json:"error"`
}

func consoleConfig() adapter.Config {
	return adapter.Config{
		Config: logger.Log{
			EnableAccessLogToConsole: true,
			DisableCheckAlive:        true,
			Console:                  logger.Console{Enabled: true},
		},
		CheckAliveURI: "/checkalive",
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name       string
		config     adapter.Config
		method     string
		targetPath string
		want       *accessLine
	}{
		{
			name:       "no writer no output",
			config:     adapter.Config{},
			method:     fiber.MethodGet,
			targetPath: "/api/configs",
		},
		{
			name:       "get with query",
			config:     consoleConfig(),
			method:     fiber.MethodGet,
			targetPath: "/api/configs?limit=1",
			want:       &accessLine{Status: 200, URI: "/api/configs?limit=1", Method: fiber.MethodGet, Host: "example.com"},
		},
		{
			name:       "failing handler logs error",
			config:     consoleConfig(),
			method:     fiber.MethodPost,
			targetPath: "/api/configs/1/execute",
			want: &accessLine{
				Status: 502,
				URI:    "/api/configs/1/execute",
				Method: fiber.MethodPost,
				Host:   "example.com",
				Error:  "Bad Gateway",
			},
		},
		{
			name:       "unknown route",
			config:     consoleConfig(),
			method:     fiber.MethodGet,
			targetPath: "/nope",
			want:       &accessLine{Status: 404, URI: "/nope", Method: fiber.MethodGet, Host: "example.com", Error: "Cannot GET /nope"},
		},
		{
			name:       "checkalive is not logged",
			config:     consoleConfig(),
			method:     fiber.MethodGet,
			targetPath: "/checkalive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output := serve(t, tt.config, tt.method, tt.targetPath)

			if tt.want == nil {
				assert.Empty(t, output)
				return
			}

			var got accessLine
			require.NoError(t, json.Unmarshal([]byte(output), &got), output)
			assert.Equal(t, *tt.want, got)
		})
	}
}

func serve(t *testing.T, cfg adapter.Config, method, target string) string {
	t.Helper()

	stdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	app := fiber.New()
	app.Use(adapter.New(cfg))

	app.Get("/api/configs", func(ctx *fiber.Ctx) error {
		return ctx.JSON([]string{})
	})
	app.Post("/api/configs/:id/execute", func(_ *fiber.Ctx) error {
		return fiber.ErrBadGateway
	})
	app.Get("/checkalive", func(ctx *fiber.Ctx) error {
		return ctx.SendString("OK")
	})

	_, err = app.Test(httptest.NewRequest(method, target, nil), -1)

	outC := make(chan string)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		outC <- buf.String()
	}()

	_ = w.Close()
	os.Stdout = stdout
	out := <-outC

	require.NoError(t, err)

	return out
}

func TestNew_RequestID(t *testing.T) {
	app := fiber.New()
	app.Use(adapter.New(adapter.Config{}))
	app.Get("/api/configs", func(ctx *fiber.Ctx) error {
		return ctx.SendString(adapter.RequestID(ctx))
	})

	req := httptest.NewRequest(fiber.MethodGet, "/api/configs", nil)
	req.Header.Set(adapter.HeaderRequestID, "run-42")
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, "run-42", resp.Header.Get(adapter.HeaderRequestID))

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "run-42", string(body))

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/api/configs", nil), -1)
	require.NoError(t, err)
	assert.Len(t, resp.Header.Get(adapter.HeaderRequestID), 36)
}

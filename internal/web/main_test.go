package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/paramset/paramset/internal/command"
	"github.com/paramset/paramset/internal/config"
	"github.com/paramset/paramset/internal/db/models"
	"github.com/paramset/paramset/internal/executor"
	"github.com/paramset/paramset/internal/powerdns"
	"github.com/paramset/paramset/internal/store"
	"github.com/paramset/paramset/internal/updater"
	"github.com/paramset/paramset/internal/updater/local"
	"github.com/paramset/paramset/internal/web/handler"
	"github.com/paramset/paramset/internal/worker"
)

func setupService(t *testing.T) (*Service, *store.Store) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))

	s, err := store.New(db)
	require.NoError(t, err)

	mux := updater.NewMux("settings")
	mux.Handle("settings", local.New(s, []string{"app"}))
	mux.Handle("fail", updater.Func(func(context.Context, string, map[string]string) (int, error) {
		return 0, io.ErrUnexpectedEOF
	}))

	pool := worker.New(2, 8)
	t.Cleanup(pool.Close)

	surface := command.New(s, executor.New(s, mux), pool)

	svc := New(&config.Config{}, &handler.Deps{Store: s, Surface: surface, PDNS: powerdns.New(nil, s)})

	return svc, s
}

func do(t *testing.T, app *fiber.App, method, path, body string) (int, string, string) {
	t.Helper()

	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(data), resp.Header.Get(fiber.HeaderLocation)
}

func TestCheckAlive(t *testing.T) {
	svc, _ := setupService(t)

	status, body, _ := do(t, svc.App, fiber.MethodGet, CheckAlivePath, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "OK", body)

	svc.alive.Store(false)

	status, _, _ = do(t, svc.App, fiber.MethodGet, CheckAlivePath, "")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

func TestMetrics(t *testing.T) {
	svc, _ := setupService(t)

	status, body, _ := do(t, svc.App, fiber.MethodGet, MetricsPath, "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, "go_goroutines")
}

func TestConfigLifecycle(t *testing.T) {
	svc, s := setupService(t)
	app := svc.App

	status, body, location := do(t, app, fiber.MethodPost, "/api/configs", "")
	require.Equal(t, fiber.StatusCreated, status, body)

	var created struct {
		ID uint64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal([]byte(body), &created))
	assert.Equal(t, "/api/configs/1", location)

	status, body, _ = do(t, app, fiber.MethodPatch, location, `{"name":"billing","authority":"settings://app"}`)
	require.Equal(t, fiber.StatusNoContent, status, body)

	status, body, location = do(t, app, fiber.MethodPost, location+"/values", `{"key":"timeout","value":"30"}`)
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Equal(t, "/api/values/1", location)

	status, body, _ = do(t, app, fiber.MethodPut, location, `{"key":"timeout","value":"60"}`)
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Contains(t, body, `"value":"60"`)

	status, body, _ = do(t, app, fiber.MethodPost, "/api/configs/1/execute", "")
	require.Equal(t, fiber.StatusOK, status, body)
	assert.Contains(t, body, `"resultType":"SUCCESS"`)
	assert.Contains(t, body, `"valuesCount":1`)

	status, body, _ = do(t, app, fiber.MethodGet, "/api/settings/app", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[{"name":"timeout","value":"60"}]`, body)

	status, body, _ = do(t, app, fiber.MethodGet, "/api/configs", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"href":"/api/configs/1"`)
	assert.Contains(t, body, `"latestResult"`)

	status, body, location = do(t, app, fiber.MethodPost, "/api/configs/1/clone", "")
	require.Equal(t, fiber.StatusCreated, status, body)
	assert.Equal(t, "/api/configs/2", location)

	status, body, _ = do(t, app, fiber.MethodGet, location, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"name":"billing (copy)"`)
	assert.Contains(t, body, `"key":"timeout"`)

	status, body, _ = do(t, app, fiber.MethodGet, "/api/configs/2/results", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.JSONEq(t, `[]`, body)

	status, _, _ = do(t, app, fiber.MethodDelete, "/api/configs/1", "")
	require.Equal(t, fiber.StatusNoContent, status)

	status, _, _ = do(t, app, fiber.MethodGet, "/api/configs/1", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	list, err := s.ListConfigEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestExecute_Outcomes(t *testing.T) {
	svc, s := setupService(t)
	app := svc.App
	ctx := context.Background()

	testCases := []struct {
		name      string
		authority string
		status    int
		want      string
	}{
		{name: "missing config", status: fiber.StatusNotFound, want: "not found"},
		{name: "namespace not allowed", authority: "settings://other", status: fiber.StatusOK, want: `"resultType":"ACCESS_DENIED"`},
		{name: "failing target", authority: "fail://x", status: fiber.StatusOK, want: `"resultType":"EXCEPTION"`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			path := "/api/configs/999/execute"
			if tc.authority != "" {
				id, err := s.InsertEmptyConfig(ctx)
				require.NoError(t, err)
				require.NoError(t, s.UpdateConfigAuthority(ctx, tc.authority, id))
				path = "/api/configs/" + jsonID(id) + "/execute"
			}

			status, body, _ := do(t, app, fiber.MethodPost, path, "")
			assert.Equal(t, tc.status, status, body)
			assert.Contains(t, body, tc.want)
		})
	}
}

func TestExecuteAll(t *testing.T) {
	svc, s := setupService(t)
	ctx := context.Background()

	for _, authority := range []string{"settings://app", "fail://x"} {
		id, err := s.InsertEmptyConfig(ctx)
		require.NoError(t, err)
		require.NoError(t, s.UpdateConfigAuthority(ctx, authority, id))
	}

	status, body, _ := do(t, svc.App, fiber.MethodPost, "/api/configs/execute", "")
	require.Equal(t, fiber.StatusOK, status, body)

	var results []models.ExecutionResult
	require.NoError(t, json.Unmarshal([]byte(body), &results))
	require.Len(t, results, 2)
	assert.Equal(t, models.ResultSuccess, results[0].ResultType)
	assert.Equal(t, models.ResultException, results[1].ResultType)
}

func TestKeyValues_Errors(t *testing.T) {
	svc, _ := setupService(t)
	app := svc.App

	status, _, _ := do(t, app, fiber.MethodPost, "/api/configs/5/values", `{"key":"a","value":"b"}`)
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _, _ = do(t, app, fiber.MethodPost, "/api/configs/x/values", `{"key":"a"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _, _ = do(t, app, fiber.MethodGet, "/api/values/5", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _, _ = do(t, app, fiber.MethodDelete, "/api/values/5", "")
	assert.Equal(t, fiber.StatusNoContent, status)
}

func TestSettings_SystemNamespaceDenied(t *testing.T) {
	svc, _ := setupService(t)

	status, _, _ := do(t, svc.App, fiber.MethodGet, "/api/settings/"+models.SystemNamespace, "")
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestPDNSServer(t *testing.T) {
	svc, _ := setupService(t)
	app := svc.App

	status, _, _ := do(t, app, fiber.MethodGet, "/api/pdns-server", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, _, _ = do(t, app, fiber.MethodPost, "/api/pdns-server/test", "")
	assert.Equal(t, fiber.StatusNotFound, status)

	status, body, _ := do(t, app, fiber.MethodPut, "/api/pdns-server", `{"apiServerUrl":"http://127.0.0.1:8081","apiKey":"short","vhost":"localhost"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Contains(t, body, "APIKey")

	status, body, _ = do(t, app, fiber.MethodPut, "/api/pdns-server", `{"apiServerUrl":"http://127.0.0.1:8081","apiKey":"secret-key","vhost":"localhost"}`)
	require.Equal(t, fiber.StatusOK, status, body)

	status, body, _ = do(t, app, fiber.MethodGet, "/api/pdns-server", "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Contains(t, body, `"apiServerUrl":"http://127.0.0.1:8081"`)
	assert.NotContains(t, body, "secret-key")
}

func jsonID(id uint64) string {
	data, _ := json.Marshal(id)
	return string(data)
}

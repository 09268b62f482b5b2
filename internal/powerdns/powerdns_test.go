package powerdns

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paramset/paramset/internal/db/controller/pdnsserver"
	"github.com/paramset/paramset/internal/updater"
)

const testAPIKey = "secret-key"

type patchBody struct {
	RRsets []struct {
		Name       string `json:"name"`
		Type       string `json:"type"`
		TTL        uint32 `json:"ttl"`
		ChangeType string `json:"changetype"`
		Records    []struct {
			Content string `json:"content"`
		} `json:"records"`
	} `json:"rrsets"`
}

type fakePDNS struct {
	mu     sync.Mutex
	status int
	zone   string
	body   patchBody
	apiKey string
}

func (f *fakePDNS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	const prefix = "/api/v1/servers/localhost/zones"

	if r.Method == http.MethodGet && strings.HasPrefix(r.URL.Path, prefix) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"example.org.","name":"example.org."}]`))
		return
	}

	if r.Method != http.MethodPatch || !strings.HasPrefix(r.URL.Path, prefix+"/") {
		w.WriteHeader(http.StatusNotFound)
		return
	}

	f.apiKey = r.Header.Get("X-API-Key")
	f.zone = strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, prefix+"/"), ".")
	_ = json.NewDecoder(r.Body).Decode(&f.body)

	if f.status != 0 && f.status != http.StatusNoContent {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":"` + http.StatusText(f.status) + `"}`))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func newTestUpdater(t *testing.T, status int) (*Updater, *fakePDNS) {
	t.Helper()

	fake := &fakePDNS{status: status}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	return New(&pdnsserver.Settings{APIServerURL: srv.URL, APIKey: testAPIKey, VHost: "localhost", TTL: 120}, nil), fake
}

func TestUpdater_Update(t *testing.T) {
	u, fake := newTestUpdater(t, http.StatusNoContent)

	n, err := u.Update(context.Background(), "example.org", map[string]string{
		"@":     "v=spf1 -all",
		"www/A": "192.0.2.1",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	assert.Equal(t, "example.org", fake.zone)
	assert.Equal(t, testAPIKey, fake.apiKey)
	require.Len(t, fake.body.RRsets, 2)
	assert.Equal(t, "example.org.", fake.body.RRsets[0].Name)
	assert.Equal(t, "TXT", fake.body.RRsets[0].Type)
	assert.Equal(t, "REPLACE", fake.body.RRsets[0].ChangeType)
	assert.Equal(t, uint32(120), fake.body.RRsets[0].TTL)
	assert.Equal(t, `"v=spf1 -all"`, fake.body.RRsets[0].Records[0].Content)
	assert.Equal(t, "www.example.org.", fake.body.RRsets[1].Name)
}

func TestUpdater_UpdateClassifiesErrors(t *testing.T) {
	tests := []struct {
		name           string
		status         int
		wantPermission bool
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, wantPermission: true},
		{name: "forbidden", status: http.StatusForbidden, wantPermission: true},
		{name: "zone not found", status: http.StatusNotFound},
		{name: "unprocessable", status: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, _ := newTestUpdater(t, tt.status)

			n, err := u.Update(context.Background(), "example.org", map[string]string{"@": "x"})
			require.Error(t, err)
			assert.Zero(t, n)
			assert.Equal(t, tt.wantPermission, errors.Is(err, updater.ErrPermissionDenied), err.Error())
		})
	}
}

func TestUpdater_EmptyParams(t *testing.T) {
	u, fake := newTestUpdater(t, http.StatusNoContent)

	n, err := u.Update(context.Background(), "example.org", nil)
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, fake.zone, "no request for an empty parameter set")
}

type fakeLoader struct {
	settings *pdnsserver.Settings
	err      error
}

func (f fakeLoader) PDNSServerSettings(context.Context) (*pdnsserver.Settings, error) {
	return f.settings, f.err
}

func TestUpdater_Settings(t *testing.T) {
	fake := &fakePDNS{}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	stored := &pdnsserver.Settings{APIServerURL: srv.URL, APIKey: "stored-key", VHost: "localhost"}

	u := New(&pdnsserver.Settings{}, fakeLoader{settings: stored})
	_, err := u.Update(context.Background(), "example.org", map[string]string{"@": "x"})
	require.NoError(t, err)
	assert.Equal(t, "stored-key", fake.apiKey)

	u = New(nil, fakeLoader{err: errors.New("setting not found")})
	_, err = u.Update(context.Background(), "example.org", map[string]string{"@": "x"})
	require.ErrorIs(t, err, ErrClientNotInitialized)

	u = New(nil, nil)
	_, err = u.Test(context.Background())
	require.ErrorIs(t, err, ErrClientNotInitialized)
}

func TestUpdater_Test(t *testing.T) {
	u, _ := newTestUpdater(t, 0)

	n, err := u.Test(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

// Package powerdns applies configs to a PowerDNS zone through the HTTP API.
// The authority target is the zone name, every parameter becomes one RRset.
package powerdns

import (
	"context"
	"fmt"
	"time"

	"github.com/joeig/go-powerdns/v3"
	"github.com/rs/zerolog/log"

	"github.com/paramset/paramset/internal/db/controller/pdnsserver"
	"github.com/paramset/paramset/internal/updater"
)

const (
	defaultTimeout = 30 * time.Second
	defaultTTL     = 300
)

// SettingsLoader provides the PowerDNS server settings stored in the database.
type SettingsLoader interface {
	PDNSServerSettings(ctx context.Context) (*pdnsserver.Settings, error)
}

// Updater patches zones on a PowerDNS server.
type Updater struct {
	static *pdnsserver.Settings
	loader SettingsLoader
}

// New returns an Updater. static, when non-nil, takes precedence over the
// settings loader consults on every call.
func New(static *pdnsserver.Settings, loader SettingsLoader) *Updater {
	return &Updater{static: static, loader: loader}
}

func (u *Updater) settings(ctx context.Context) (*pdnsserver.Settings, error) {
	if u.static != nil && u.static.APIServerURL != "" {
		return u.static, nil
	}

	if u.loader == nil {
		return nil, ErrClientNotInitialized
	}

	s, err := u.loader.PDNSServerSettings(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrClientNotInitialized, err)
	}

	return s, nil
}

func (u *Updater) client(ctx context.Context) (*powerdns.Client, *pdnsserver.Settings, error) {
	s, err := u.settings(ctx)
	if err != nil {
		return nil, nil, err
	}

	return powerdns.New(s.APIServerURL, s.VHost, powerdns.WithAPIKey(s.APIKey)), s, nil
}

// Update replaces one RRset per parameter in zone and returns the number of
// RRsets patched. HTTP 401 and 403 wrap updater.ErrPermissionDenied.
func (u *Updater) Update(ctx context.Context, zone string, params map[string]string) (int, error) {
	c, s, err := u.client(ctx)
	if err != nil {
		return 0, err
	}

	ttl := s.TTL
	if ttl == 0 {
		ttl = defaultTTL
	}

	sets, err := buildRRsets(zone, params, ttl)
	if err != nil {
		return 0, err
	}

	if len(sets) == 0 {
		return 0, nil
	}

	if err = c.Records.Patch(ctx, canonical(zone), &powerdns.RRsets{Sets: sets}); err != nil {
		if isPermissionError(err) {
			return 0, fmt.Errorf("%w: %w", updater.ErrPermissionDenied, err)
		}

		return 0, err
	}

	log.Debug().Str("zone", zone).Int("rrsets", len(sets)).Msg("PowerDNS zone patched")

	return len(sets), nil
}

// Test checks the API connection and returns the number of zones visible.
func (u *Updater) Test(ctx context.Context) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	c, _, err := u.client(ctx)
	if err != nil {
		return 0, err
	}

	zones, err := c.Zones.List(ctx)
	if err != nil {
		return 0, err
	}

	log.Info().Int("zone_count", len(zones)).Msg("PowerDNS API connection test successful")

	return len(zones), nil
}

package daemon

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/paramset/paramset/internal/config"
	"github.com/paramset/paramset/internal/db/controller/setting"
	"github.com/paramset/paramset/internal/store"
)

// seed stores the configured PowerDNS server when none is stored yet, so the
// API reports the connection actually in use.
func seed(ctx context.Context, cfg *config.Config, s *store.Store) {
	p := staticPDNS(cfg.Updater.PowerDNS)
	if p == nil {
		return
	}

	_, err := s.PDNSServerSettings(ctx)
	if err == nil {
		return
	}

	if !errors.Is(err, setting.ErrSettingNotFound) {
		log.Error().Err(err).Msg("failed to load PDNS server settings")
		return
	}

	if err = s.SavePDNSServerSettings(ctx, *p); err != nil {
		log.Warn().Err(err).Msg("configured PDNS server settings not stored")
		return
	}

	log.Info().Str("api_server_url", p.APIServerURL).Msg("seeded PDNS server settings from config")
}

package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/paramset/paramset/internal/db/controller/pdnsserver"
	"github.com/paramset/paramset/internal/db/controller/setting"
	"github.com/paramset/paramset/internal/db/models"
	"github.com/paramset/paramset/internal/live"
)

// SetSettings upserts values into namespace and returns the number of rows written.
func (s *Store) SetSettings(ctx context.Context, namespace string, values map[string]string) (int, error) {
	var written int

	err := s.write(ctx, "set settings", 0, []string{live.TableSettings}, func(tx *gorm.DB) error {
		var err error
		written, err = setting.SetMany(tx, namespace, values)
		return err
	})

	return written, err
}

// ListSettings returns the settings of namespace ordered by name.
func (s *Store) ListSettings(ctx context.Context, namespace string) ([]models.Setting, error) {
	return setting.List(s.read(ctx), namespace)
}

// PDNSServerSettings loads the stored PowerDNS connection.
func (s *Store) PDNSServerSettings(ctx context.Context) (*pdnsserver.Settings, error) {
	var p pdnsserver.Settings
	if err := p.Load(s.read(ctx)); err != nil {
		return nil, err
	}

	return &p, nil
}

// SavePDNSServerSettings validates and stores the PowerDNS connection.
func (s *Store) SavePDNSServerSettings(ctx context.Context, p pdnsserver.Settings) error {
	return s.write(ctx, "save pdns server settings", 0, []string{live.TableSettings}, func(tx *gorm.DB) error {
		return p.Save(tx)
	})
}

// Package pdnsserver persists the PowerDNS connection used by the pdns updater.
package pdnsserver

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"github.com/paramset/paramset/internal/db/controller/setting"
	"github.com/paramset/paramset/internal/db/models"
)

const (
	// SettingKeyPDNSServer is the key used to store PDNS server settings in the database.
	SettingKeyPDNSServer = "pdns_server"
)

type (
	// Settings represents PowerDNS server configuration.
	Settings struct {
		APIServerURL string `json:"apiServerUrl" validate:"required,url"`
		APIKey       string `json:"apiKey"       validate:"required,min=8"`
		VHost        string `json:"vhost"        validate:"required"`
		TTL          uint32 `json:"ttl"          validate:"omitempty,min=1"`
	}
)

var validate = validator.New()

// Validate checks the settings against their struct tags.
func (p *Settings) Validate() error {
	return validate.Struct(p)
}

// Load loads the PDNS server settings from the database.
func (p *Settings) Load(db *gorm.DB) error {
	s, err := setting.Get(db, models.SystemNamespace, SettingKeyPDNSServer)
	if err != nil {
		return err
	}

	return json.Unmarshal(s.Value, p)
}

// Save validates and saves the PDNS server settings to the database.
func (p *Settings) Save(db *gorm.DB) error {
	if err := p.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return err
	}

	_, err = setting.Set(db, models.SystemNamespace, SettingKeyPDNSServer, data)

	return err
}

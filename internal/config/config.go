// Package config handles input from etc/*.toml files
package config

import (
	"bytes"
	"encoding/json"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// EnvConfigJSON names the environment variable holding a JSON override of the whole config.
const EnvConfigJSON = "PARAMSET_CONFIG_JSON"

// Defaults applied by validate.
const (
	DefaultWorkers       = 4
	DefaultQueueSize     = 64
	DefaultShutDownTime  = 5
	DefaultUpdaterScheme = "settings"
	DefaultEventsSubject = "paramset.tables.changed"
)

// ReadConfig from config file.
func ReadConfig(path string) (Config, error) {
	var (
		c             Config
		JSONConfigEnv string
		err           error
	)

	if path == "" {
		path = "./etc/"
	}

	if _, err = toml.DecodeFile(path+"main.toml", &c); err != nil {
		return Config{}, errors.Wrap(err, "failed to read main config file")
	}

	JSONConfigEnv = os.Getenv(EnvConfigJSON)

	if JSONConfigEnv != "" {
		c, err = decodeAndMergeConfig(c, JSONConfigEnv)
		if err != nil {
			return c, err
		}
	}

	return validate(c)
}

func decodeAndMergeConfig(c Config, configAsJSON string) (Config, error) {
	err := json.Unmarshal([]byte(configAsJSON), &c)
	if err != nil {
		return Config{}, errors.Wrap(err, "failed to decode "+EnvConfigJSON)
	}

	return c, nil
}

// DumpConfig config as TOML String.
func DumpConfig(c Config) (string, error) {
	var buffer bytes.Buffer
	t := toml.NewEncoder(&buffer)

	if err := t.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// DumpConfigJSON config as JSON String.
func DumpConfigJSON(c Config) (string, error) {
	var buffer bytes.Buffer
	j := json.NewEncoder(&buffer)
	j.SetIndent("", "  ")

	if err := j.Encode(c); err != nil {
		return "", err //nolint: wrapcheck
	}

	return buffer.String(), nil
}

// validate checks the settings paramset cannot start without and fills in defaults.
func validate(c Config) (Config, error) {
	invalidErrMessage := "invalid config"

	if c.Webserver.Port <= 0 {
		return c, errors.Wrap(ErrWebServerPortInvalid, invalidErrMessage)
	}

	if c.Webserver.URL == "" {
		return c, errors.Wrap(ErrEmptyURL, invalidErrMessage)
	}

	switch c.DB.Engine {
	case "":
		return c, errors.Wrap(ErrDBEngineEmpty, invalidErrMessage)
	case EngineSQLite:
		if c.DB.Path == "" {
			return c, errors.Wrap(ErrDBPathEmpty, invalidErrMessage)
		}
	case EngineMySQL, EnginePostgres:
	default:
		return c, errors.Wrapf(ErrDBEngineUnknown, "%s: %q", invalidErrMessage, c.DB.Engine)
	}

	if c.Webserver.ShutDownTime <= 0 {
		c.Webserver.ShutDownTime = DefaultShutDownTime
	}

	if c.Executor.Workers <= 0 {
		c.Executor.Workers = DefaultWorkers
	}

	if c.Executor.QueueSize <= 0 {
		c.Executor.QueueSize = DefaultQueueSize
	}

	if c.Updater.DefaultScheme == "" {
		c.Updater.DefaultScheme = DefaultUpdaterScheme
	}

	if c.Events.Subject == "" {
		c.Events.Subject = DefaultEventsSubject
	}

	return c, nil
}

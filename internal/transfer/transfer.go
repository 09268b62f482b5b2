// Package transfer moves configs between stores as YAML documents.
// Execution results are never exported.
package transfer

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"github.com/paramset/paramset/internal/db/models"
	"github.com/paramset/paramset/internal/fault"
)

// Version is the document version written by Export.
const Version = 1

var (
	// ErrUnsupportedVersion is returned for a document of another version.
	ErrUnsupportedVersion = errors.New("unsupported document version")
	// ErrEmptyKey is returned for a value without a key.
	ErrEmptyKey = errors.New("key is empty")
)

// Document is the YAML layout of an export.
type Document struct {
	Version int      `yaml:"version"`
	Configs []Config `yaml:"configs"`
}

// Config is one exported config. Values keep their store order, duplicates included.
type Config struct {
	Name      string  `yaml:"name"`
	Authority string  `yaml:"authority"`
	Values    []Value `yaml:"values,omitempty"`
}

// Value is one key/value of a Config.
type Value struct {
	Key   string `yaml:"key"`
	Value string `yaml:"value"`
}

// Source lists the configs to export.
type Source interface {
	ListConfigEntries(ctx context.Context) ([]models.ConfigListEntry, error)
	GetConfigEntry(ctx context.Context, id uint64) (*models.ConfigEntry, error)
}

// Sink stores imported configs.
type Sink interface {
	CloneConfigEntryWithoutResults(ctx context.Context, source models.ConfigEntry, newName string) (uint64, error)
}

// Export writes every config of src to w. A config deleted while the export
// runs is left out.
func Export(ctx context.Context, src Source, w io.Writer) error {
	list, err := src.ListConfigEntries(ctx)
	if err != nil {
		return err
	}

	doc := Document{Version: Version, Configs: make([]Config, 0, len(list))}
	for _, item := range list {
		entry, err := src.GetConfigEntry(ctx, item.Config.ID)
		if errors.Is(err, fault.ErrNotFound) {
			log.Debug().Uint64("config_id", item.Config.ID).Msg("config deleted during export, skipped")
			continue
		}
		if err != nil {
			return fmt.Errorf("export config %d: %w", item.Config.ID, err)
		}

		doc.Configs = append(doc.Configs, fromEntry(*entry))
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err = enc.Encode(doc); err != nil {
		return err
	}

	return enc.Close()
}

// Import reads a document from r and adds each config to dst as a new
// config. Each config is stored atomically; a failure stops the import and
// keeps the configs stored so far. It returns the ids of the new configs.
func Import(ctx context.Context, dst Sink, r io.Reader) ([]uint64, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode document: %w", err)
	}

	if doc.Version != Version {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	for i, c := range doc.Configs {
		for _, v := range c.Values {
			if v.Key == "" {
				return nil, fmt.Errorf("config %d (%q): %w", i, c.Name, ErrEmptyKey)
			}
		}
	}

	ids := make([]uint64, 0, len(doc.Configs))
	for _, c := range doc.Configs {
		id, err := dst.CloneConfigEntryWithoutResults(ctx, c.entry(), c.Name)
		if err != nil {
			return ids, fmt.Errorf("import config %q: %w", c.Name, err)
		}

		ids = append(ids, id)
	}

	return ids, nil
}

func fromEntry(entry models.ConfigEntry) Config {
	c := Config{Name: entry.Config.Name, Authority: entry.Config.Authority}
	for _, kv := range entry.KeyValues {
		c.Values = append(c.Values, Value{Key: kv.Key, Value: kv.Value})
	}

	return c
}

func (c Config) entry() models.ConfigEntry {
	entry := models.ConfigEntry{Config: models.Config{Name: c.Name, Authority: c.Authority}}
	for _, v := range c.Values {
		entry.KeyValues = append(entry.KeyValues, models.KeyValue{Key: v.Key, Value: v.Value})
	}

	return entry
}

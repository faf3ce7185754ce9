package runs

import (
	"errors"

	"github.com/kilianp07/kelheim/core/factory"
)

var storeRegistry = factory.NewRegistry[RunStore]()

// RegisterStore adds a run store factory identified by name.
func RegisterStore(name string, f factory.Factory[RunStore]) error {
	return storeRegistry.Register(name, f)
}

// NewStore creates a RunStore from the provided configuration.
func NewStore(cfg factory.ModuleConfig) (RunStore, error) {
	return storeRegistry.Create(cfg)
}

type fileConf struct {
	Path       string `json:"path"`
	MaxSizeMB  int    `json:"max_size_mb"`
	MaxBackups int    `json:"max_backups"`
	MaxAgeDays int    `json:"max_age_days"`
}

func decodeFileConf(conf map[string]any) (fileConf, error) {
	var c fileConf
	if err := factory.Decode(conf, &c); err != nil {
		return c, err
	}
	if c.Path == "" {
		return c, errors.New("run store path is required")
	}
	return c, nil
}

func init() {
	storeRegistry.MustRegister("jsonl", func(conf map[string]any) (RunStore, error) {
		c, err := decodeFileConf(conf)
		if err != nil {
			return nil, err
		}
		return NewJSONLStore(c.Path)
	})
	storeRegistry.MustRegister("rotating", func(conf map[string]any) (RunStore, error) {
		c, err := decodeFileConf(conf)
		if err != nil {
			return nil, err
		}
		return NewRotatingJSONLStore(c.Path, c.MaxSizeMB, c.MaxBackups, c.MaxAgeDays)
	})
	storeRegistry.MustRegister("sqlite", func(conf map[string]any) (RunStore, error) {
		c, err := decodeFileConf(conf)
		if err != nil {
			return nil, err
		}
		return NewSQLiteStore(c.Path)
	})
}

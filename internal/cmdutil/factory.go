package cmdutil

import (
	"cosbackup/internal/config"
	"cosbackup/internal/service"
	"cosbackup/internal/storage"
)

// Factory carries the root flags and builds the pieces commands need lazily, so
// that commands like "config init" work before any configuration exists.
type Factory struct {
	ConfigPath string
	EnvFile    string

	// NewStorage defaults to storage.NewObjectStorage. Tests replace it.
	NewStorage func(cfg config.Config) (storage.Storage, error)
}

func NewFactory() *Factory {
	return &Factory{
		NewStorage: func(cfg config.Config) (storage.Storage, error) {
			return storage.NewObjectStorage(cfg.StorageCredentials())
		},
	}
}

// Config loads and validates the merged configuration.
func (f *Factory) Config() (config.Config, error) {
	cfg, err := config.Load(config.Options{
		Path:    f.ConfigPath,
		EnvFile: f.EnvFile,
	})
	if err != nil {
		return cfg, err
	}

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// BackupService validates the configuration and builds the storage client.
func (f *Factory) BackupService() (service.BackupService, config.Config, error) {
	cfg, err := f.Config()
	if err != nil {
		return nil, cfg, err
	}

	st, err := f.NewStorage(cfg)
	if err != nil {
		return nil, cfg, err
	}
	return service.NewBackupService(st, cfg), cfg, nil
}

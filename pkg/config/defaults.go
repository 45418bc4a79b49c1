package config

import (
	"fmt"
	"os"
	"time"
)

// Default values applied where the config file and environment are silent.
const (
	DefaultLogLevel          = "INFO"
	DefaultLogFormat         = "text"
	DefaultLogOutput         = "stdout"
	DefaultChunkSize         = 64 << 10
	DefaultContentType       = "audio/mpeg"
	DefaultPort              = 8080
	DefaultReadHeaderTimeout = 10 * time.Second
	DefaultIdleTimeout       = 2 * time.Minute
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultLibraryRoot       = "/var/lib/jukecast/library"
)

// ApplyDefaults fills in default values for any zero-valued fields.
func ApplyDefaults(cfg *Config) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLogLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLogFormat
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = DefaultLogOutput
	}

	if cfg.Library.Root == "" {
		cfg.Library.Root = DefaultLibraryRoot
	}

	if cfg.Stream.ChunkSize == 0 {
		cfg.Stream.ChunkSize = DefaultChunkSize
	}
	if cfg.Stream.ContentType == "" {
		cfg.Stream.ContentType = DefaultContentType
	}

	if cfg.Server.Port == 0 {
		cfg.Server.Port = DefaultPort
	}
	if cfg.Server.ReadHeaderTimeout == 0 {
		cfg.Server.ReadHeaderTimeout = DefaultReadHeaderTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
}

// GetDefaultConfig returns a configuration with all defaults applied and
// metrics enabled.
func GetDefaultConfig() *Config {
	cfg := &Config{
		Metrics: MetricsConfig{Enabled: true},
	}
	ApplyDefaults(cfg)
	return cfg
}

// InitConfig writes a sample configuration file to the default location.
// Returns the path written.
func InitConfig(force bool) (string, error) {
	return GetDefaultConfigPath(), InitConfigToPath(GetDefaultConfigPath(), force)
}

// InitConfigToPath writes a sample configuration file to the given path.
func InitConfigToPath(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("config file already exists: %s (use --force to overwrite)", path)
		}
	}

	return SaveConfig(GetDefaultConfig(), path)
}

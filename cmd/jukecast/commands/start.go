package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/jukecast/jukecast/internal/logger"
	"github.com/jukecast/jukecast/pkg/api"
	"github.com/jukecast/jukecast/pkg/config"
	"github.com/jukecast/jukecast/pkg/library"
	"github.com/jukecast/jukecast/pkg/metrics"
	jukeprom "github.com/jukecast/jukecast/pkg/metrics/prometheus"
	"github.com/jukecast/jukecast/pkg/registry"
	"github.com/jukecast/jukecast/pkg/stream"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the jukecast server",
	Long: `Start the jukecast server with the specified configuration.

Use --config to specify a custom configuration file, or it will use the
default location at $XDG_CONFIG_HOME/jukecast/config.yaml.

Examples:
  # Start with default config location
  jukecast start

  # Start with custom config file
  jukecast start --config /etc/jukecast/config.yaml

  # Start with environment variable overrides
  JUKECAST_LOGGING_LEVEL=DEBUG jukecast start`,
	RunE: runStart,
}

func runStart(cmd *cobra.Command, args []string) error {
	cfg, err := config.MustLoad(GetConfigFile())
	if err != nil {
		return err
	}

	if err := InitLogger(cfg); err != nil {
		return err
	}

	logger.Info("configuration loaded", "source", getConfigSource(GetConfigFile()))

	lib, err := library.New(library.Config{
		Root:      cfg.Library.Root,
		CreateDir: cfg.Library.CreateDir,
	})
	if err != nil {
		return fmt.Errorf("failed to open library: %w", err)
	}
	logger.Info("library opened", "root", lib.Root())

	// Metrics are optional end to end: nil interfaces disable collection.
	var (
		promReg       *prometheus.Registry
		streamMetrics metrics.StreamMetrics
		queueMetrics  metrics.QueueMetrics
	)
	if cfg.Metrics.Enabled {
		promReg = prometheus.NewRegistry()
		promReg.MustRegister(collectors.NewGoCollector())
		promReg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		streamMetrics = jukeprom.NewStreamMetrics(promReg)
		queueMetrics = jukeprom.NewQueueMetrics(promReg)
		logger.Info("metrics enabled", "endpoint", "/metrics")
	} else {
		logger.Info("metrics collection disabled")
	}

	reg := registry.NewRegistry()

	streamer := stream.New(lib, stream.Config{
		ChunkSize: cfg.Stream.ChunkSize,
		FailFast:  cfg.Stream.FailFast,
	}, streamMetrics)

	router := api.NewRouter(api.RouterConfig{
		Registry:     reg,
		Streamer:     streamer,
		LibraryRoot:  lib.Root(),
		ContentType:  cfg.Stream.ContentType,
		QueueMetrics: queueMetrics,
		PromRegistry: promReg,
	})

	server := api.NewServer(api.ServerConfig{
		Port:              cfg.Server.Port,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
		ShutdownTimeout:   cfg.Server.ShutdownTimeout,
	}, router)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	serverDone := make(chan error, 1)
	go func() {
		serverDone <- server.Start(ctx)
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	logger.Info("server is running, press Ctrl+C to stop", "port", cfg.Server.Port)

	select {
	case <-sigChan:
		signal.Stop(sigChan)
		logger.Info("shutdown signal received, initiating graceful shutdown")
		cancel()

		if err := <-serverDone; err != nil {
			logger.Error("server shutdown error", "error", err)
			return err
		}
		logger.Info("server stopped gracefully")

	case err := <-serverDone:
		signal.Stop(sigChan)
		if err != nil {
			logger.Error("server error", "error", err)
			return err
		}
		logger.Info("server stopped")
	}

	return nil
}

// getConfigSource returns a description of where the config was loaded from.
func getConfigSource(configFile string) string {
	if configFile != "" {
		return configFile
	}
	if config.DefaultConfigExists() {
		return config.GetDefaultConfigPath()
	}
	return "defaults"
}

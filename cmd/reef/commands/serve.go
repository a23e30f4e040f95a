package commands

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/datareef/reef/ai/provider"
	"github.com/datareef/reef/conf"
	"github.com/datareef/reef/ingest"
	"github.com/datareef/reef/logger"
	"github.com/datareef/reef/pipeline"
	"github.com/datareef/reef/rules"
	"github.com/datareef/reef/server"
	"github.com/datareef/reef/walrus"
)

// ServeCmd starts the Reef API server
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the Reef API server",
	Long: `Start the Reef HTTP API server.

Serves blob reads, dataset uploads and ruleset execution. The AI
provider is selected once at startup: Anthropic if an API key is
configured, AWS Bedrock if credentials resolve, mock otherwise.

Configuration is read from reef.toml (searched upward from the working
directory) and REEF_* environment variables. The config file is watched
and reloaded on change.`,
	RunE: runServe,
}

func init() {
	ServeCmd.Flags().IntP("port", "p", 0, "Port to listen on (overrides config)")
	ServeCmd.Flags().String("provider", "auto", "AI provider: anthropic, bedrock, mock, auto")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := conf.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	port := cfg.Server.Port
	if flagPort, _ := cmd.Flags().GetInt("port"); flagPort > 0 {
		port = flagPort
	}
	if port == 0 {
		port = conf.DefaultServerPort
	}

	variantFlag, _ := cmd.Flags().GetString("provider")
	variant, err := provider.ParseVariant(variantFlag)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store := walrus.NewClient(walrus.Config{
		PublisherURL:  cfg.Walrus.PublisherURL,
		AggregatorURL: cfg.Walrus.AggregatorURL,
	})

	aiProvider := provider.NewWithVariant(ctx, cfg, variant)

	maxTokens := rules.DefaultMaxTokens
	if cfg.Anthropic.MaxTokens != nil {
		maxTokens = *cfg.Anthropic.MaxTokens
	}
	temperature := rules.DefaultTemperature
	if cfg.Anthropic.Temperature != nil {
		temperature = *cfg.Anthropic.Temperature
	}
	engine := rules.NewEngineWithDefaults(aiProvider, maxTokens, temperature)

	uploader := ingest.NewUploader(store, cfg.Walrus.Epochs)
	executor := pipeline.NewExecutor(store, engine, cfg.Walrus.Epochs)
	srv := server.New(cfg, store, uploader, executor)

	// Hot-reload the config file so origin and upload-key changes
	// apply without a restart. Endpoint and epochs changes still
	// need one; the uploader and executor bind epochs at startup.
	if configPath := conf.ConfigPath(); configPath != "" {
		watcher, err := conf.NewWatcher(configPath)
		if err != nil {
			logger.Warnw("Config watcher unavailable", logger.FieldError, err)
		} else {
			watcher.OnReload(func(newCfg *conf.Config) error {
				next := *cfg
				next.Server.AllowedOrigins = newCfg.Server.AllowedOrigins
				next.Upload.SuiPrivateKey = newCfg.Upload.SuiPrivateKey
				srv.Reload(&next)
				logger.Infow("Configuration reloaded", "path", configPath)
				return nil
			})
			watcher.Start()
			defer watcher.Stop()
		}
	}

	addr := fmt.Sprintf(":%d", port)
	logger.Infow("Starting Reef",
		"addr", addr,
		logger.FieldProvider, aiProvider.Name(),
		"publisher", cfg.Walrus.PublisherURL,
		"aggregator", cfg.Walrus.AggregatorURL)

	return srv.Start(ctx, addr)
}

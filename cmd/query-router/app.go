// cmd/query-router/app.go
package main

import (
	"context"
	"fmt"

	"nft-query-router/internal/clients/analytics"
	"nft-query-router/internal/clients/chat"
	"nft-query-router/internal/common/config"
	"nft-query-router/internal/common/logger"
	"nft-query-router/internal/common/observability"
	smartquery "nft-query-router/internal/workers/query-routing/smart-query"
	"nft-query-router/pkg/registry"

	"go.uber.org/zap"
)

// app holds the process-wide dependencies shared by every subcommand.
type app struct {
	cfg       *config.Config
	zap       *zap.Logger
	log       logger.Logger
	obs       *observability.Observability
	analytics *analytics.Client
	pipeline  *smartquery.Pipeline
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadFromFile(configPath)
	}
	return config.Load()
}

func newApp(ctx context.Context, withTelemetry bool) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("config load failed: %w", err)
	}

	zapLog := logger.Build(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	log := logger.NewZapAdapter(zapLog)

	obs := observability.NewNoop()
	if withTelemetry {
		obs, err = observability.New(cfg.Telemetry.ServiceName, cfg.Telemetry.JaegerEndpoint)
		if err != nil {
			log.Warn("telemetry disabled", map[string]interface{}{"error": err.Error()})
		}
	}

	reg := registry.Default()
	if cfg.Pipeline.RegistryPath != "" {
		reg, err = registry.LoadRegistry(cfg.Pipeline.RegistryPath)
		if err != nil {
			return nil, fmt.Errorf("intent registry load failed: %w", err)
		}
	}

	completer, err := chat.New(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("chat client init failed: %w", err)
	}

	source := analytics.NewClient(cfg.Analytics, log)
	pipeline, err := smartquery.Build(smartquery.FromAppConfig(cfg), reg, source, completer, obs, log)
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		zap:       zapLog,
		log:       log,
		obs:       obs,
		analytics: source,
		pipeline:  pipeline,
	}, nil
}

func (a *app) close() {
	a.obs.Shutdown()
	_ = a.zap.Sync()
}

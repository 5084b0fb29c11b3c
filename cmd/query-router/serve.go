// cmd/query-router/serve.go
package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"nft-query-router/internal/api"
	"nft-query-router/internal/common/camunda"
	"nft-query-router/internal/profiles"
	smartquery "nft-query-router/internal/workers/query-routing/smart-query"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the optional zeebe worker",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, true)
	if err != nil {
		return err
	}
	defer a.close()

	a.log.Info("starting query router", map[string]interface{}{
		"environment": a.cfg.App.Environment,
		"version":     a.cfg.App.Version,
	})

	var store profiles.Store
	err = retryWithBackoff(ctx, func() error {
		var err error
		store, err = profiles.New(ctx, a.cfg)
		return err
	}, 5, 2*time.Second, a, "profile store connection")
	if err != nil {
		return err
	}
	defer store.Close()

	if a.cfg.Camunda.Enabled {
		zc, err := camunda.NewClientWithConfig(camunda.FromConfig(a.cfg.Camunda))
		if err != nil {
			return fmt.Errorf("zeebe client failed: %w", err)
		}
		defer zc.Close()

		handler := smartquery.NewHandler(smartquery.FromAppConfig(a.cfg), a.pipeline, a.log)
		w := camunda.NewWorker(zc.GetClient(), smartquery.TaskType, a.cfg.Camunda.MaxJobsActive, handler, a.log)
		w.Start()
		defer w.Stop(context.Background())
	}

	server := api.NewServer(a.cfg.Server, a.pipeline, a.analytics, store, a.log)
	if err := server.Run(ctx); err != nil {
		return fmt.Errorf("http server failed: %w", err)
	}
	a.log.Info("query router stopped", nil)
	return nil
}

// retryWithBackoff attempts operation up to maxRetries times, doubling the delay.
func retryWithBackoff(ctx context.Context, operation func() error, maxRetries int, initialDelay time.Duration, a *app, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		if err = operation(); err == nil {
			return nil
		}
		if i == maxRetries-1 {
			break
		}
		a.log.Warn(operationName+" failed, retrying", map[string]interface{}{
			"error":       err.Error(),
			"attempt":     i + 1,
			"nextRetryIn": delay.String(),
		})
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}
	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

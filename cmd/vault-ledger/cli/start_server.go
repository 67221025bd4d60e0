package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/babylonlabs-io/token-vault-ledger/internal/api"
	"github.com/babylonlabs-io/token-vault-ledger/internal/config"
	dbmodel "github.com/babylonlabs-io/token-vault-ledger/internal/db/model"
	"github.com/babylonlabs-io/token-vault-ledger/internal/feed"
	"github.com/babylonlabs-io/token-vault-ledger/internal/observability/metrics"
	"github.com/babylonlabs-io/token-vault-ledger/internal/observability/tracing"
	"github.com/babylonlabs-io/token-vault-ledger/internal/queue"
	"github.com/babylonlabs-io/token-vault-ledger/internal/services"
)

const shutdownTimeout = 15 * time.Second

func StartServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start-server",
		Short: "Starts the vault ledger api server",
		Args:  cobra.ExactArgs(0),
		RunE:  startServer,
	}

	return cmd
}

func startServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx = tracing.InjectTraceID(ctx)
	log := log.Ctx(ctx)

	// load config
	cfgPath := GetConfigPath()
	cfg, err := config.New(cfgPath)
	if err != nil {
		return fmt.Errorf("error while loading config file %s: %w", cfgPath, err)
	}

	if cfg.Db.Backend == config.DbBackendMongo {
		if err := dbmodel.Setup(ctx, &cfg.Db); err != nil {
			return fmt.Errorf("error while setting up vault db model: %w", err)
		}
	}

	dbClient, closeDb, err := newDbClient(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeDb(context.Background()); err != nil {
			log.Error().Err(err).Msg("error while closing db client")
		}
	}()

	tokenClient, err := newTokenClient(cfg)
	if err != nil {
		return err
	}

	// Create a basic zap logger for the broker clients
	zapLogger, err := zap.NewProduction()
	if err != nil {
		return fmt.Errorf("error while creating zap logger: %w", err)
	}
	defer func() {
		_ = zapLogger.Sync()
	}()

	queueManager, err := queue.NewQueueManager(&cfg.Queue, zapLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize queue manager: %w", err)
	}
	defer func() {
		if err := queueManager.Close(); err != nil {
			log.Error().Err(err).Msg("error while closing queue manager")
		}
	}()

	hub := feed.NewHub()
	service := services.NewService(cfg, dbClient, tokenClient, queueManager, hub)

	// initialize metrics with the metrics port from config
	metrics.Init(cfg.Metrics.GetMetricsPort())

	invariantPoller := service.StartInvariantPoller(ctx)
	defer invariantPoller.Stop()

	server := api.New(cfg, service, hub)

	var (
		wg       conc.WaitGroup
		serveErr = make(chan error, 1)
	)
	wg.Go(func() {
		serveErr <- server.Start()
	})

	select {
	case <-ctx.Done():
		log.Info().Msg("Shutting down vault ledger")
	case err = <-serveErr:
		if err != nil {
			log.Error().Err(err).Msg("api server stopped")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error while shutting down api server")
	}
	wg.Wait()

	return err
}

package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"freightdash/internal/config"
	"freightdash/internal/database"
	"freightdash/internal/handler"
	"freightdash/internal/loader"
	"freightdash/internal/metrics"
	"freightdash/internal/model"
	"freightdash/internal/service"
	"freightdash/internal/session"
	"freightdash/internal/source"
	"freightdash/internal/worker"
)

func newServeCmd() *cobra.Command {
	v := viper.New()
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the dashboard HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(v, cfgFile)
			if err != nil {
				return err
			}
			setupLogger(cfg.LogLevel)
			return serve(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&cfgFile, "config", "", "config file (yaml, toml or json)")
	cmd.Flags().StringP("address", "a", "localhost:8080", "address to listen on")
	cmd.Flags().String("source", "", "orders workbook: file path or s3://bucket/key")
	cmd.Flags().String("database-uri", "", "postgres URI with additional customer accounts")
	cmd.Flags().String("log-level", "info", "debug, info, warn or error")

	_ = v.BindPFlag("run_address", cmd.Flags().Lookup("address"))
	_ = v.BindPFlag("source", cmd.Flags().Lookup("source"))
	_ = v.BindPFlag("database_uri", cmd.Flags().Lookup("database-uri"))
	_ = v.BindPFlag("log_level", cmd.Flags().Lookup("log-level"))
	return cmd
}

func serve(parent context.Context, cfg *config.Config) error {
	if parent == nil {
		parent = context.Background()
	}
	if cfg.SessionSecret == config.DefaultSessionSecret {
		slog.Warn("using the default session secret; set SESSION_SECRET outside of demos")
	}

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	src, err := source.New(ctx, cfg.Source, cfg.AWSRegion)
	if err != nil {
		return fmt.Errorf("orders source: %w", err)
	}

	accounts, err := loadAccounts(ctx, cfg)
	if err != nil {
		return err
	}

	// Services
	authSvc, err := service.NewAuthService(accounts)
	if err != nil {
		return err
	}
	cache := loader.NewCache(src)
	orderSvc := service.NewOrderService(cache)
	metrics.Register(prometheus.DefaultRegisterer)

	// Worker
	var watchPath string
	if fs, ok := src.(*source.FileSource); ok {
		watchPath = fs.Path()
	}
	refreshWorker := worker.NewRefreshWorker(cache, cfg.RefreshInterval, watchPath)

	srv := &http.Server{
		Addr: cfg.RunAddress,
		Handler: handler.NewRouter(handler.Deps{
			Auth:   authSvc,
			Orders: orderSvc,
			Codec:  session.NewCodec(cfg.SessionSecret, cfg.SessionTTL),
		}),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go refreshWorker.Start(ctx)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)
	slog.Info("starting server", "addr", cfg.RunAddress, "source", src.String(), "accounts", authSvc.Len())

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-quit:
	case <-ctx.Done():
	case err := <-serveErr:
		if err != nil {
			cancel()
			<-refreshWorker.Done()
			return fmt.Errorf("server failed: %w", err)
		}
	}
	slog.Info("shutting down...")

	cancel() // stop worker
	ctxShut, cancelShut := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShut()

	if err := srv.Shutdown(ctxShut); err != nil {
		slog.Error("server shutdown failed", "error", err)
	}
	<-refreshWorker.Done()

	slog.Info("server stopped")
	return nil
}

// loadAccounts merges the configured accounts with the ones stored in
// postgres, when a database is configured.
func loadAccounts(ctx context.Context, cfg *config.Config) ([]model.Account, error) {
	accounts := mergeAccounts(cfg.Accounts, nil)
	if cfg.DatabaseURI == "" {
		return accounts, nil
	}

	db, err := database.NewDB(ctx, cfg.DatabaseURI)
	if err != nil {
		return nil, fmt.Errorf("connect to DB: %w", err)
	}
	defer database.CloseDB(db)

	stored, err := listStoredAccounts(ctx, db)
	if err != nil {
		return nil, err
	}
	slog.Info("accounts loaded from database", "count", len(stored))
	return mergeAccounts(accounts, stored), nil
}

// mergeAccounts appends the stored accounts after the configured ones. An
// account id present in both is left duplicated so NewAuthService rejects it.
func mergeAccounts(configured, stored []model.Account) []model.Account {
	out := make([]model.Account, 0, len(configured)+len(stored))
	out = append(out, configured...)
	return append(out, stored...)
}

func listStoredAccounts(ctx context.Context, db *sql.DB) ([]model.Account, error) {
	if err := database.InitSchema(ctx, db); err != nil {
		return nil, fmt.Errorf("init DB schema: %w", err)
	}
	return service.NewAccountStore(db).List(ctx)
}

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DhavalSuthar-24/profiles/config"
	_ "github.com/DhavalSuthar-24/profiles/docs"
	"github.com/DhavalSuthar-24/profiles/internal/store"
	"github.com/DhavalSuthar-24/profiles/internal/store/gormstore"
	"github.com/DhavalSuthar-24/profiles/internal/store/memstore"
	"github.com/DhavalSuthar-24/profiles/internal/user"
	"github.com/DhavalSuthar-24/profiles/pkg/logger"
	"github.com/DhavalSuthar-24/profiles/pkg/validator"
	"github.com/DhavalSuthar-24/profiles/routes"
)

// @title Profiles REST API
// @version 1.0
// @description User profiles with a shared catalog of interests and skills.
// @host localhost:8088
// @BasePath /api
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	svc := user.NewService(st, validator.New())
	r := routes.SetupRoutes(cfg, log, st, svc)

	srv := &http.Server{
		Addr:              ":" + cfg.App.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", slog.String("port", cfg.App.Port), slog.String("env", cfg.App.Env),
			slog.String("db_driver", cfg.DB.Driver))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func openStore(ctx context.Context, cfg *config.Config, log *slog.Logger) (store.Store, error) {
	if cfg.DB.Driver == config.DriverMemory {
		log.Info("using in-memory store")
		return memstore.New(), nil
	}

	db, err := config.ConnectDB(cfg, log)
	if err != nil {
		return nil, err
	}
	st := gormstore.New(db)
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info("migrations applied")
	return st, nil
}

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/pmarczak/zloty-bank-go/internal/bank"
	"github.com/pmarczak/zloty-bank-go/internal/cli"
	"github.com/pmarczak/zloty-bank-go/internal/config"
	"github.com/pmarczak/zloty-bank-go/internal/domain"
	"github.com/pmarczak/zloty-bank-go/internal/handler"
	"github.com/pmarczak/zloty-bank-go/internal/infra/observability"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	// --- Load .env file (for local development) ---
	_ = config.LoadDotEnv(".env")

	// --- Config ---
	cfg := config.Load()

	// --- Logger ---
	logger := observability.NewLogger(cfg.LogLevel)
	defer logger.Sync()

	sessionID := uuid.NewString()
	logger = logger.With(zap.String("session_id", sessionID))

	logger.Info("configuration loaded",
		zap.String("data_dir", cfg.DataDir),
		zap.String("log_level", cfg.LogLevel),
		zap.String("admin_addr", cfg.AdminAddr),
	)

	// --- Tracing ---
	shutdown, err := observability.InitTracer(cfg.OTLPEndpoint, "zloty-bank")
	if err != nil {
		logger.Fatal("failed to init tracer", zap.Error(err))
	}
	defer shutdown(context.Background())

	// --- Metrics ---
	metrics := observability.NewMetrics()

	// --- Bank ---
	zlotyBank, err := bank.New(cfg.DataDir, metrics, logger)
	if err != nil {
		logger.Fatal("failed to open data directory", zap.Error(err))
	}

	ctx := context.Background()
	if err := zlotyBank.LoadAll(ctx); err != nil {
		logger.Fatal("failed to load bank state", zap.Error(err))
	}
	if err := zlotyBank.HandleIncomingExternalTransfers(ctx); err != nil {
		logger.Fatal("failed to settle incoming transfers", zap.Error(err))
	}

	// --- Operational listener ---
	var srv *http.Server
	if cfg.AdminAddr != "" {
		srv = &http.Server{
			Addr: cfg.AdminAddr,
			Handler: handler.NewAdminRouter(func() handler.Status {
				snapshot := zlotyBank.Snapshot()
				return handler.Status{
					Status:      "ok",
					BankBalance: snapshot.Balance.String(),
					Clients:     snapshot.Clients,
					Accounts:    snapshot.Accounts,
				}
			}, metrics, logger),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		}
	}

	// --- Run ---
	group, groupCtx := errgroup.WithContext(ctx)

	if srv != nil {
		group.Go(func() error {
			logger.Info("admin listener starting", zap.String("addr", cfg.AdminAddr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	group.Go(func() error {
		defer func() {
			if srv != nil {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				srv.Shutdown(shutdownCtx)
			}
		}()

		menu := cli.NewMenu(zlotyBank, os.Stdin, os.Stdout, logger)
		return menu.Run(groupCtx)
	})

	runErr := group.Wait()

	var bankrupt *domain.ErrBankruptcy
	if errors.As(runErr, &bankrupt) {
		fmt.Fprintln(os.Stderr, bankrupt.Error())
	} else if runErr != nil && !errors.Is(runErr, context.Canceled) {
		logger.Error("session ended with error", zap.Error(runErr))
	}

	if err := zlotyBank.SaveAll(ctx); err != nil {
		logger.Fatal("failed to save bank state", zap.Error(err))
	}
	logger.Info("bank state saved")
}

package app

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/go-redis/redis/v8"

	"vendorpay/internal/app/config"
	"vendorpay/internal/app/logger"
	"vendorpay/internal/app/notify"
	"vendorpay/internal/app/service/autoreject"
	"vendorpay/internal/app/service/ledger"
	"vendorpay/internal/app/service/taskflow"
	"vendorpay/internal/app/storage"
	"vendorpay/internal/app/storage/postgres"
)

type App struct {
	config   config.Config
	logger   logger.Logger
	wallets  storage.WalletRepository
	units    storage.WorkUnitRepository
	ledger   *ledger.Service
	taskflow *taskflow.Service
	sweeper  *autoreject.Service
	stopCh   chan struct{}
}

func New(cfg config.Config, logger logger.Logger, e embed.FS) (*App, error) {
	db, err := sql.Open("postgres", cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("db open: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("db ping: %w", err)
	}

	if err := applyMigrations(e, db); err != nil {
		return nil, fmt.Errorf("db migrate: %w", err)
	}

	wallets, err := postgres.NewWalletRepository(db)
	if err != nil {
		return nil, fmt.Errorf("wallet repository init: %w", err)
	}

	units, err := postgres.NewWorkUnitRepository(db)
	if err != nil {
		return nil, fmt.Errorf("work unit repository init: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	dispatcher := notify.NewRedis(rdb, cfg.Redis.NotifyChannel)

	ledgerSvc := ledger.New(wallets, cfg.Ledger)
	flow := taskflow.New(units, ledgerSvc, dispatcher, cfg.Ledger, cfg.Scheduler)
	sweeper := autoreject.New(units, ledgerSvc, dispatcher, cfg.Scheduler.SweepInterval, cfg.Ledger.AutoRejectPenaltyAmount())
	sweeper.Start()

	a := &App{
		config:   cfg,
		logger:   logger,
		stopCh:   make(chan struct{}),
		wallets:  wallets,
		units:    units,
		ledger:   ledgerSvc,
		taskflow: flow,
		sweeper:  sweeper,
	}

	go func() {
		<-a.stopCh
		a.logger.Info().Msg("Shutting down application")
	}()

	return a, nil
}

func (a *App) Stop() {
	a.sweeper.Stop()
	close(a.stopCh)
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/wongtawee/booking-hotel/internal/app"
	"github.com/wongtawee/booking-hotel/internal/clock"
	"github.com/wongtawee/booking-hotel/internal/config"
	"github.com/wongtawee/booking-hotel/internal/scheduler"
	"github.com/wongtawee/booking-hotel/internal/storage/postgres"
	"github.com/wongtawee/booking-hotel/migrations"
)

const startupTimeout = 5 * time.Second

func main() {
	bootLog := zerolog.New(os.Stderr)
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		bootLog.Warn().Err(err).Msg("failed to load .env")
	}

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal().Err(err).Msg("invalid configuration")
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := zerolog.New(os.Stderr).Level(level).With().Timestamp().Logger()

	startupCtx, cancel := context.WithTimeout(context.Background(), startupTimeout)
	defer cancel()

	pool, err := pgxpool.New(startupCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("connect to db")
	}
	defer pool.Close()

	if err := pool.Ping(startupCtx); err != nil {
		log.Fatal().Err(err).Msg("db ping")
	}
	if err := migrations.Apply(startupCtx, pool); err != nil {
		log.Fatal().Err(err).Msg("apply migrations")
	}

	sweeper := app.NewSweeper(postgres.NewSweepRepository(pool))
	sched := scheduler.New(sweeper, clock.NewSystem(), cfg.SweepInterval, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sched.Run(ctx)
	log.Info().Msg("sweeper stopped")
}

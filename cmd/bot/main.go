// Package main is the entry point for the casino bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"telegram-casino-bot/internal/bot"
	"telegram-casino-bot/internal/config"
	"telegram-casino-bot/internal/engine"
	"telegram-casino-bot/internal/game"
	"telegram-casino-bot/internal/game/basketball"
	"telegram-casino-bot/internal/game/chance"
	"telegram-casino-bot/internal/game/coin"
	"telegram-casino-bot/internal/game/darts"
	"telegram-casino-bot/internal/game/football"
	"telegram-casino-bot/internal/game/roulette"
	"telegram-casino-bot/internal/game/rps"
	"telegram-casino-bot/internal/payout"
	"telegram-casino-bot/internal/pkg/db"
	"telegram-casino-bot/internal/pkg/lock"
	"telegram-casino-bot/internal/pkg/random"
	"telegram-casino-bot/internal/pkg/ratelimit"
	"telegram-casino-bot/internal/repository"
	"telegram-casino-bot/internal/service"
	"telegram-casino-bot/internal/session"
)

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	log.Info().Msg("Configuration loaded")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Storage and ledger
	accountRepo := repository.NewAccountRepository(dbPool.Pool)
	ledgerRepo := repository.NewLedgerRepository(dbPool.Pool)
	userLock := lock.NewUserLock()
	ledgerService := service.NewLedgerService(accountRepo, ledgerRepo, userLock)
	accountService := service.NewAccountService(accountRepo, ledgerRepo, ledgerService, cfg.Account.InitialBalance)
	rankingService := service.NewRankingService(accountRepo)
	adminService := service.NewAdminService(accountRepo, ledgerService, userLock)

	// Session games
	tables, err := payout.NewRegistry()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build payout tables")
	}
	sessions := session.NewRegistry()
	settlement := engine.NewSettlement(ledgerService, sessions)

	engCfg := engine.Config{
		MinStake:         cfg.Bets.Min,
		MaxStake:         cfg.Bets.Max,
		BalloonPopChance: cfg.Balloon.PopChance,
	}
	growthCfg := engine.GrowthConfig{
		HouseEdge:     cfg.Crash.HouseEdge,
		TickInterval:  cfg.Crash.TickInterval,
		Step:          cfg.Crash.Step,
		MaxMultiplier: cfg.Crash.MaxMultiplier,
	}

	boardRNG := random.NewPRNG(time.Now().UnixNano())
	stepEngine := engine.NewStepReveal(engCfg, tables, ledgerService, sessions, settlement, boardRNG)
	growthEngine := engine.NewGrowth(engCfg, growthCfg, ledgerService, sessions, settlement, random.Crypto())
	coordinator := engine.NewCoordinator(stepEngine, growthEngine, sessions, ledgerService)

	// Single-shot games. Fairness-critical head-to-head outcomes (coin,
	// RPS, roulette) draw from the crypto source; the dice-style rolls
	// from the seeded generator.
	gameRegistry := game.NewRegistry()
	for _, g := range []game.Game{
		coin.New(random.Crypto()),
		chance.New(boardRNG),
		rps.New(random.Crypto()),
		roulette.New(random.Crypto()),
		basketball.New(boardRNG),
		football.New(boardRNG),
		darts.New(boardRNG),
	} {
		if err := gameRegistry.Register(g); err != nil {
			log.Fatal().Err(err).Str("game", g.Command()).Msg("Failed to register game")
		}
	}
	runner := game.NewRunner(gameRegistry, ledgerService, cfg.Bets.Min, cfg.Bets.Max)

	log.Info().
		Int("game_count", gameRegistry.Count()).
		Strs("games", gameRegistry.Commands()).
		Msg("Games registered")

	limiter := ratelimit.New(cfg.RateLimit.Interval)

	telegramBot, err := bot.New(&bot.Dependencies{
		Ctx:            ctx,
		Config:         cfg,
		Coordinator:    coordinator,
		Runner:         runner,
		AccountService: accountService,
		RankingService: rankingService,
		AdminService:   adminService,
		Limiter:        limiter,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go telegramBot.Start()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	// Cancel first so running crash rounds resolve before the poller and
	// the pool go away.
	cancel()
	telegramBot.Stop()
	log.Info().Msg("Bot stopped")
}

// runMigrations applies the schema. Idempotent, runs on every start.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations")

	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS accounts (
			telegram_id BIGINT PRIMARY KEY,
			display_name VARCHAR(255) NOT NULL,
			balance BIGINT NOT NULL DEFAULT 0,
			level INT NOT NULL DEFAULT 1,
			cumulative_deposit BIGINT NOT NULL DEFAULT 0,
			cumulative_turnover BIGINT NOT NULL DEFAULT 0,
			cumulative_wins BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_accounts_deposit ON accounts(cumulative_deposit DESC);
		CREATE INDEX IF NOT EXISTS idx_accounts_turnover ON accounts(cumulative_turnover DESC);
		CREATE INDEX IF NOT EXISTS idx_accounts_wins ON accounts(cumulative_wins DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: accounts table ready")

	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS ledger_entries (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES accounts(telegram_id) ON DELETE CASCADE,
			amount BIGINT NOT NULL,
			type VARCHAR(50) NOT NULL,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_ledger_user_time ON ledger_entries(user_id, created_at DESC);
		CREATE INDEX IF NOT EXISTS idx_ledger_type_time ON ledger_entries(type, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: ledger_entries table ready")

	return nil
}

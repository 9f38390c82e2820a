package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/questforge/progression-engine/internal/admin"
	"github.com/questforge/progression-engine/internal/config"
	"github.com/questforge/progression-engine/internal/engine"
	"github.com/questforge/progression-engine/internal/engine/classifier"
	"github.com/questforge/progression-engine/internal/engine/dedup"
	"github.com/questforge/progression-engine/internal/engine/generator"
	"github.com/questforge/progression-engine/internal/engine/matcher"
	"github.com/questforge/progression-engine/internal/engine/progression"
	"github.com/questforge/progression-engine/internal/engine/reward"
	"github.com/questforge/progression-engine/internal/engine/tournament"
	"github.com/questforge/progression-engine/internal/issuer"
	"github.com/questforge/progression-engine/internal/metrics"
	"github.com/questforge/progression-engine/internal/randomness"
	"github.com/questforge/progression-engine/internal/store/postgres"
	"github.com/questforge/progression-engine/internal/store/redisstream"
	"github.com/questforge/progression-engine/internal/tracing"
)

func main() {
	if err := run(); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("engine exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logger := newLogger(cfg.Log.Level)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, tracing.Config{
		ServiceName: "progression-engine",
		Endpoint:    cfg.Tracing.Endpoint,
		Insecure:    cfg.Tracing.Insecure,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown failed", "error", err)
		}
	}()

	db, err := postgres.New(postgres.Config{
		URL:             cfg.DB.URL,
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxIdleConns,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer db.Close()
	if err := db.RunMigrations(cfg.DB.MigrationsDir); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("postgres ready")

	stream, err := redisstream.NewStream(cfg.Redis.URL)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer stream.Close()
	logger.Info("redis ready", "stream", cfg.Redis.StreamName)

	fingerprints := postgres.NewFingerprintRepo(db)
	quests := postgres.NewQuestRepo(db)
	completions := postgres.NewCompletionRepo(db)
	achievements := postgres.NewAchievementRepo(db)
	progressions := postgres.NewProgressionRepo(db)
	tournaments := postgres.NewTournamentRepo(db)
	outbox := postgres.NewOutboxRepo(db)

	catalog := matcher.NewCatalog(quests, achievements, logger)
	match := matcher.New(catalog, completions)
	deduper := dedup.New(fingerprints, cfg.Engine.DedupBucketSpan, logger,
		dedup.WithCacheSize(cfg.Engine.DedupCacheCapacity),
		dedup.WithCacheTTL(cfg.Engine.DedupCacheTTL))
	calc := reward.New(reward.WithAmountCap(cfg.Engine.AmountMultCap))

	aggregator := tournament.NewAggregator(tournaments, logger)
	settler := tournament.NewSettler(aggregator, outbox,
		tournament.WithRaffle(randomness.NewLocalSource(logger), 5))

	applier := progression.New(db, deduper, match, calc,
		quests, completions, achievements, progressions, outbox, logger,
		progression.WithEngagement(cfg.Engine.EngagementDefault),
		progression.WithRetry(cfg.Engine.RetryMaxAttempts, cfg.Engine.RetryDelayInitial, cfg.Engine.RetryDelayMax),
		progression.WithScoreRouter(aggregator),
	)

	var gen *generator.Generator
	if cfg.Generator.Enabled {
		gen = generator.New(quests, logger,
			generator.WithTriggers(cfg.Generator.VolatilityTrigger, cfg.Generator.ActivityTrigger),
			generator.WithWindowHours(cfg.Generator.WindowHours),
			generator.WithBaseRewardFloor(cfg.Generator.BaseRewardFloor),
			generator.WithRateLimit(rate.Every(cfg.Generator.EvalInterval), cfg.Generator.MaxPerEval),
		)
	}

	engineOpts := []engine.Option{
		engine.WithWorkers(cfg.Engine.ApplyWorkers),
		engine.WithBufferSize(cfg.Engine.ChannelBufferSize),
	}
	if gen != nil {
		engineOpts = append(engineOpts, engine.WithGenerator(gen))
	}
	checkpointKey := fmt.Sprintf("%s:checkpoint:%s:%s",
		cfg.Redis.StreamNamespace, cfg.Redis.StreamName, cfg.Redis.SessionID)
	eng := engine.New(stream, classifier.New(), applier,
		cfg.Redis.StreamName, checkpointKey, cfg.Engine.AllowedSources, logger, engineOpts...)

	var issueClient issuer.Client
	if cfg.Issuer.Endpoint != "" {
		issueClient = issuer.NewHTTPClient(cfg.Issuer.Endpoint, cfg.Issuer.AuthToken, cfg.Issuer.Timeout, logger)
	} else {
		issueClient = issuer.NewNoopClient(logger)
	}
	dispatcher := issuer.New(outbox, issueClient, logger,
		issuer.WithInterval(cfg.Issuer.DispatchInterval),
		issuer.WithBatchSize(cfg.Issuer.DispatchBatch),
		issuer.WithMaxAttempts(cfg.Issuer.MaxAttempts),
		issuer.WithRateLimit(cfg.Issuer.RatePerSec, cfg.Issuer.Burst),
	)

	adminServer := admin.NewServer(cfg.Server.AdminPort, cfg.Server.AdminToken, admin.Deps{
		Quests:       quests,
		Achievements: achievements,
		Progressions: progressions,
		Completions:  completions,
		Tournaments:  tournaments,
		Outbox:       outbox,
		DB:           db,
		Aggregator:   aggregator,
		Settler:      settler,
		Generator:    gen,
		Health:       eng.HealthState(),
	}, logger)

	if err := catalog.Refresh(ctx); err != nil {
		logger.Warn("initial catalog load failed, continuing with empty index", "error", err)
	}
	if err := aggregator.RefreshActive(ctx); err != nil {
		logger.Warn("initial tournament load failed", "error", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return eng.Run(ctx) })
	g.Go(func() error { return dispatcher.Run(ctx) })
	g.Go(func() error { return catalog.RunRefresh(ctx, cfg.Engine.CatalogRefreshInterval) })
	g.Go(func() error { return settler.RunSweep(ctx, db, cfg.Engine.TournamentSweepInterval) })
	g.Go(func() error { return deduper.RunPrune(ctx, time.Hour, cfg.Engine.DedupRetainBuckets) })
	g.Go(func() error { return adminServer.Run(ctx) })
	g.Go(func() error { return samplePool(ctx, db) })
	if gen != nil {
		g.Go(func() error { return gen.Run(ctx, cfg.Generator.EvalInterval) })
	}

	logger.Info("progression engine running",
		"workers", cfg.Engine.ApplyWorkers,
		"admin_port", cfg.Server.AdminPort,
		"generator", cfg.Generator.Enabled)

	return g.Wait()
}

func samplePool(ctx context.Context, db *postgres.DB) error {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			stats := db.Stats()
			metrics.DBPoolOpen.Set(float64(stats.OpenConnections))
			metrics.DBPoolInUse.Set(float64(stats.InUse))
			metrics.DBPoolIdle.Set(float64(stats.Idle))
		}
	}
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}

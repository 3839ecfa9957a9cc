package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"kequity/internal/audit"
	"kequity/internal/contribution"
	contributionhandler "kequity/internal/contribution/handler"
	"kequity/internal/jwtauth"
	"kequity/internal/leaderboard"
	leaderboardhandler "kequity/internal/leaderboard/handler"
	ledgerhandler "kequity/internal/ledger/handler"
	"kequity/internal/platform/config"
	"kequity/internal/platform/httpserver"
	"kequity/internal/platform/logger"
	"kequity/internal/platform/metrics"
	"kequity/internal/platform/postgres"
	platformredis "kequity/internal/platform/redis"
	reviewhandler "kequity/internal/review/handler"
	reviewmetrics "kequity/internal/review/metrics"
	reviewservice "kequity/internal/review/service"
	"kequity/internal/storage"
	"kequity/internal/taxonomy"
	httptransport "kequity/internal/transport/http"
)

const auditBufferSize = 256

// main wires dependencies and owns the process lifecycle. Business logic
// lives in the internal services.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("postgres connection failed", "error", err.Error())
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	// Empty DATABASE_URL selects the in-memory backend; useful for local
	// development and demos.
	var (
		store    storage.Store
		reviewTx reviewservice.StoreTx
	)
	if db != nil {
		store = storage.NewPostgres(db)
		reviewTx = newReviewPostgresTx(db)
		log.Info("storage backend", "backend", "postgres")
	} else {
		memStore := storage.NewInMemoryStore()
		store = memStore
		reviewTx = storage.NewInMemoryTx(memStore)
		log.Info("storage backend", "backend", "memory")
	}

	redisClient, err := platformredis.New(cfg.RedisURL)
	if err != nil {
		log.Error("redis connection failed", "error", err.Error())
		os.Exit(1)
	}
	var ranker *leaderboard.Store
	if redisClient != nil {
		defer redisClient.Close()
		ranker = leaderboard.NewStore(redisClient.Client)
		log.Info("leaderboard backend", "backend", "redis")
	} else {
		log.Info("leaderboard backend", "backend", "disabled")
	}

	auditStore := audit.NewInMemoryStore()
	auditChannel := audit.NewChannelStore(auditStore, auditBufferSize)
	auditor := audit.NewPublisher(auditChannel)
	auditWorker := audit.NewWorker(auditStore, auditChannel.Inbox())

	appMetrics := metrics.New()
	submissionMetrics := reviewmetrics.New()

	jwtService := jwtauth.NewService(cfg.JWTSigningKey, "kequity", "kequity-api")
	jwtValidator := jwtauth.NewAdapter(jwtService)

	domains := taxonomy.New()
	contributionService := contribution.NewService(store, domains)

	reviewOpts := []reviewservice.Option{
		reviewservice.WithMetrics(submissionMetrics),
		reviewservice.WithAuditor(auditor),
	}
	if ranker != nil {
		reviewOpts = append(reviewOpts, reviewservice.WithLeaderboard(ranker))
	}
	reviewService := reviewservice.New(store, reviewTx, log, reviewOpts...)

	router := httptransport.NewRouter(log, appMetrics, 30*time.Second,
		contributionhandler.New(contributionService, log, appMetrics, jwtValidator),
		reviewhandler.New(reviewService, log, jwtValidator),
		ledgerhandler.New(store, log),
		leaderboardhandler.New(rankerOrNil(ranker), domains, log),
	)

	srv := httpserver.New(cfg.Addr, router)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info("starting kequity", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		if err := auditWorker.Run(gctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
	log.Info("shutdown complete")
}

// rankerOrNil keeps the typed-nil *leaderboard.Store from masquerading as a
// non-nil interface inside the handler.
func rankerOrNil(s *leaderboard.Store) leaderboardhandler.Ranker {
	if s == nil {
		return nil
	}
	return s
}

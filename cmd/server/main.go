package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"nosticpos/backend/internal/cache"
	"nosticpos/backend/internal/cart"
	"nosticpos/backend/internal/config"
	"nosticpos/backend/internal/httpapi"
	"nosticpos/backend/internal/service"
	"nosticpos/backend/internal/store"
	"nosticpos/backend/internal/store/memory"
	pgstore "nosticpos/backend/internal/store/postgres"
	"nosticpos/backend/internal/summary"
)

func main() {
	cfg := config.Load()
	if err := validateSecurityConfig(cfg); err != nil {
		log.Fatalf("invalid security configuration: %v", err)
	}

	startCtx, startCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer startCancel()

	var repo store.Repository
	closers := make([]func() error, 0, 2)

	if cfg.DatabaseURL != "" {
		pg, err := pgstore.New(startCtx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("postgres unavailable (%v) and DATABASE_URL is set; refusing to start with in-memory fallback", err)
		}
		repo = pg
		closers = append(closers, pg.Close)
		log.Println("repository: postgres")
	} else {
		repo = memory.NewSeeded()
		log.Println("repository: in-memory")
	}

	summaries := cache.SummaryCache(cache.NoopSummaryCache{})
	denylist := cache.TokenDenylist(cache.NoopTokenDenylist{})
	if cfg.RedisAddr != "" {
		redisCache := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := redisCache.Ping(startCtx); err != nil {
			log.Printf("redis unavailable (%v), using noop cache", err)
		} else {
			summaries = redisCache
			denylist = redisCache
			closers = append(closers, redisCache.Close)
			log.Println("cache: redis")
		}
	} else {
		log.Println("cache: noop")
	}

	svc := service.New(repo, cart.NewManager(), summaries)
	auth := httpapi.NewAuthManager(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute, repo, denylist)
	api := httpapi.New(svc, auth, cfg.AllowedOrigin, cfg.LoginRatePerMinute)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	poller := summary.NewPoller(svc, time.Duration(cfg.SummaryIntervalSeconds)*time.Second)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Printf("POS backend listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		err := poller.Run(groupCtx)
		if err == context.Canceled {
			return nil
		}
		return err
	})
	group.Go(func() error {
		<-groupCtx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Printf("run error: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("server stopped")
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	return nil
}

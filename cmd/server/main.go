package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"terranova/internal/audit"
	"terranova/internal/identity/service"
	"terranova/internal/identity/store"
	identitypg "terranova/internal/identity/store/postgres"
	refreshtoken "terranova/internal/identity/store/refresh-token"
	"terranova/internal/identity/store/revocation"
	"terranova/internal/identity/store/role"
	"terranova/internal/identity/store/user"
	"terranova/internal/identity/store/verification"
	"terranova/internal/platform/clock"
	"terranova/internal/platform/config"
	"terranova/internal/platform/httpserver"
	"terranova/internal/platform/logger"
	"terranova/internal/platform/metrics"
	"terranova/internal/platform/postgres"
	platformredis "terranova/internal/platform/redis"
	"terranova/pkg/passwords"
)

const auditBuffer = 256

func main() {
	log := logger.New()
	cfg := config.FromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		users         store.UserStore
		tokens        store.RefreshTokenStore
		verifications store.VerificationStore
		roles         store.RoleStore
	)
	if cfg.PostgresDSN != "" {
		pool, err := postgres.NewPool(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pool.Close()
		users = identitypg.NewUserStore(pool)
		tokens = identitypg.NewRefreshTokenStore(pool)
		verifications = identitypg.NewVerificationStore(pool)
		roles = identitypg.NewRoleStore(pool)
		log.Println("using postgres stores")
	} else {
		users = user.New()
		tokens = refreshtoken.New()
		verifications = verification.New()
		roles = role.New()
		log.Println("using in-memory stores")
	}

	sink := audit.NewChannelSink(auditBuffer)
	auditStore := audit.NewInMemoryStore()
	worker := audit.NewWorker(auditStore, sink.Inbox())

	svc := service.New(
		users, tokens, verifications, roles,
		passwords.Argon2{}, clock.System{}, metrics.New(), sink,
		service.Options{
			RefreshTokenTTL: cfg.RefreshTokenTTL,
			VerificationTTL: cfg.VerificationTTL,
			CodeLength:      cfg.CodeLength,
		},
	)

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Fatalf("redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
		svc.UseRevocationList(revocation.NewRedisTRL(redisClient.Client))
		log.Println("token revocation list backed by redis")
	}

	router := chi.NewRouter()
	router.Use(chimw.Recoverer)
	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if redisClient != nil {
			if err := redisClient.Health(r.Context()); err != nil {
				http.Error(w, "redis unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	})
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return worker.Run(groupCtx)
	})
	group.Go(func() error {
		log.Printf("listening on %s", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("server: %v", err)
	}
	log.Println("shutdown complete")
}

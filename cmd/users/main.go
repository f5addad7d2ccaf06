package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/cs121-teamhub/teamhub-backend/config"
	httpapi "github.com/cs121-teamhub/teamhub-backend/internal/api/http"
	"github.com/cs121-teamhub/teamhub-backend/internal/bootstrap"
	"github.com/cs121-teamhub/teamhub-backend/internal/users/identity"
	"github.com/cs121-teamhub/teamhub-backend/internal/users/repository"
	"github.com/cs121-teamhub/teamhub-backend/internal/users/service"
	"github.com/cs121-teamhub/teamhub-backend/internal/users/session"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := cfg.ValidateUsers(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()
	checks := map[string]httpapi.CheckFunc{}

	var sessions session.Store
	switch cfg.Users.SessionStore {
	case config.SessionStoreRedis:
		client, err := bootstrap.OpenRedis(ctx, &cfg.Redis)
		if err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		defer client.Close()
		redisStore := session.NewRedisStore(client)
		checks["redis"] = redisStore.Ping
		sessions = redisStore
		log.Printf("Using redis session store (%s)", cfg.Redis.Addr)
	default:
		sessions = session.NewTable()
		log.Println("Using in-memory session store")
	}

	var verifier service.TokenVerifier
	if cfg.Users.VerifyIDTokens {
		app, err := bootstrap.NewFirebaseApp(ctx, &cfg.Firebase)
		if err != nil {
			return fmt.Errorf("firebase: %w", err)
		}
		authClient, err := bootstrap.NewAuthClient(ctx, app)
		if err != nil {
			return fmt.Errorf("firebase: %w", err)
		}
		verifier = authClient
		log.Println("ID token verification enabled")
	}

	provider, closeProvider, err := bootstrap.NewFirestoreProvider(ctx, &cfg.Firebase)
	if err != nil {
		return fmt.Errorf("firestore: %w", err)
	}
	defer func() { _ = closeProvider() }()

	users := service.NewUsersService(
		sessions,
		identity.NewPasswordAuthenticator(cfg.Firebase.AuthURL, cfg.Firebase.APIKey),
		verifier,
		repository.NewDirectory(provider),
		cfg.Users.SchoolID,
	)

	reporter := session.NewReporter(sessions, cfg.Users.SessionReportSchedule)
	if err := reporter.Start(); err != nil {
		log.Printf("Warning: session report disabled: %v", err)
	}
	defer reporter.Stop()

	r := bootstrap.BuildUsersRouter(bootstrap.UsersRouterDeps{
		ServiceName:    "users-service",
		Version:        cfg.App.Version,
		CORSOrigins:    cfg.Server.CORSOrigins,
		Users:          users,
		LoginRateLimit: cfg.Users.LoginRateLimit,
		LoginBurst:     cfg.Users.LoginBurst,
		Checks:         checks,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return bootstrap.Serve(ctx, srv, 10*time.Second)
}

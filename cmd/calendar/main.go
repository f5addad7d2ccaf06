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
	"github.com/cs121-teamhub/teamhub-backend/internal/bootstrap"
	"github.com/cs121-teamhub/teamhub-backend/internal/calendar/identity"
	"github.com/cs121-teamhub/teamhub-backend/internal/calendar/repository"
	"github.com/cs121-teamhub/teamhub-backend/internal/calendar/service"
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
	if err := cfg.ValidateCalendar(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx := context.Background()

	var store repository.EventStore
	switch cfg.Calendar.EventStore {
	case config.EventStoreMemory:
		log.Println("Using in-memory event store")
		store = repository.NewMemoryStore()
	default:
		provider, closeProvider, err := bootstrap.NewFirestoreProvider(ctx, &cfg.Firebase)
		if err != nil {
			return fmt.Errorf("firestore: %w", err)
		}
		defer func() { _ = closeProvider() }()
		log.Printf("Using Firestore event store (project=%s mode=%s)", cfg.Firebase.ProjectID, cfg.Firebase.FirestoreMode)
		store = repository.NewFirestoreStore(provider)
	}

	users := identity.NewClient(cfg.Calendar.UsersServiceURL, cfg.Calendar.IdentityTimeout)
	calendar := service.NewCalendarService(users, store)

	r := bootstrap.BuildCalendarRouter(bootstrap.CalendarRouterDeps{
		ServiceName: "calendar-service",
		Version:     cfg.App.Version,
		CORSOrigins: cfg.Server.CORSOrigins,
		Calendar:    calendar,
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

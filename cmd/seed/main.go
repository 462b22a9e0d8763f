// Package main seeds a KeepUp database with a demo account, a few tasks and
// some tagged media.
//
// It reads the same flags and environment as the server. The account is
// taken from SEED_USERNAME and SEED_PASSWORD.
//
// Usage:
//
//	DATA_PATH=~/KeepUp/data go run ./cmd/seed
//	DB_DRIVER=postgres DB_DSN=postgres://... go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/samber/do/v2"

	"github.com/keepupapp/keepup-server/internal/di"
	"github.com/keepupapp/keepup-server/internal/di/providers"
	"github.com/keepupapp/keepup-server/internal/domain"
	domainerrors "github.com/keepupapp/keepup-server/internal/errors"
	"github.com/keepupapp/keepup-server/internal/logger"
	"github.com/keepupapp/keepup-server/internal/service"
)

type seedMedia struct {
	name     string
	category string
	status   string
	progress int
	rating   *int
	tags     []string
}

func main() {
	// Providers are lazy: invoking services here never starts the HTTP server.
	injector := di.NewContainer()

	err := run(context.Background(), injector)

	var log *slog.Logger
	if l, invokeErr := do.Invoke[*logger.Logger](injector); invokeErr == nil {
		log = l.Logger
	} else {
		log = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	clean := shutdown(injector, log)

	if err != nil {
		fmt.Fprintf(os.Stderr, "seed failed: %v\n", err)
		os.Exit(1)
	}
	if !clean {
		os.Exit(1)
	}
}

// shutdown closes every service in the container and reports whether it
// went cleanly.
func shutdown(injector *do.RootScope, log *slog.Logger) bool {
	if err := injector.Shutdown(); err != nil {
		log.Error("Shutdown error", "error", err)
		return false
	}
	return true
}

func run(ctx context.Context, injector do.Injector) error {
	log, err := do.Invoke[*logger.Logger](injector)
	if err != nil {
		return err
	}
	storeHandle, err := do.Invoke[*providers.StoreHandle](injector)
	if err != nil {
		return err
	}
	authService := do.MustInvoke[*service.AuthService](injector)
	taskService := do.MustInvoke[*service.TaskService](injector)
	mediaService := do.MustInvoke[*service.MediaService](injector)

	username := envOr("SEED_USERNAME", "demo")
	password := envOr("SEED_PASSWORD", "demo-password")

	user, err := authService.Register(ctx, service.RegisterRequest{Username: username, Password: password})
	switch {
	case errors.Is(err, domainerrors.ErrDuplicateUsername):
		user, err = storeHandle.GetUserByUsername(ctx, username)
		if err != nil {
			return fmt.Errorf("load existing user: %w", err)
		}
		log.Info("Seeding existing user", "username", username, "user_id", user.ID)
	case err != nil:
		return fmt.Errorf("register %s: %w", username, err)
	default:
		log.Info("Created user", "username", username, "user_id", user.ID)
	}

	if err := seedTasks(ctx, taskService, user); err != nil {
		return err
	}
	if err := seedMediaItems(ctx, mediaService, user); err != nil {
		return err
	}

	log.Info("Seed complete", "username", username)
	return nil
}

func seedTasks(ctx context.Context, tasks *service.TaskService, user *domain.User) error {
	strPtr := func(v string) *string { return &v }
	intPtr := func(v int) *int { return &v }

	reqs := []service.CreateTaskRequest{
		{Title: "Buy milk", Description: strPtr("Semi-skimmed, two litres"), PriorityScore: intPtr(1)},
		{Title: "Renew passport", PriorityScore: intPtr(5)},
		{Title: "Book dentist visit", Description: strPtr("Ask about the Tuesday slot")},
	}
	for _, req := range reqs {
		if _, err := tasks.Create(ctx, user.ID, req); err != nil {
			return fmt.Errorf("create task %q: %w", req.Title, err)
		}
	}
	return nil
}

func seedMediaItems(ctx context.Context, media *service.MediaService, user *domain.User) error {
	rating := func(v int) *int { return &v }

	items := []seedMedia{
		{name: "Dune", category: "book", status: "completed", progress: 100, rating: rating(18), tags: []string{"Sci-Fi", "classic"}},
		{name: "The Expanse", category: "series", status: "watching", progress: 23, tags: []string{"sci-fi", "Space  Opera"}},
		{name: "Hades", category: "game", status: "playing", progress: 40, rating: rating(19), tags: []string{"roguelike"}},
		{name: "Spirited Away", category: "film", status: "planned"},
	}

	for _, it := range items {
		req := service.CreateMediaRequest{
			Name:     it.name,
			Category: it.category,
			Status:   it.status,
			Progress: it.progress,
			Rating:   it.rating,
		}
		for _, t := range it.tags {
			req.Tags = append(req.Tags, service.TagInput{Name: t})
		}
		if _, err := media.Create(ctx, user.ID, req); err != nil {
			return fmt.Errorf("create media %q: %w", it.name, err)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

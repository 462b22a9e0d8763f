// Package di provides dependency injection configuration for the KeepUp server.
package di

import (
	"fmt"

	"github.com/samber/do/v2"

	"github.com/keepupapp/keepup-server/internal/auth"
	"github.com/keepupapp/keepup-server/internal/config"
	"github.com/keepupapp/keepup-server/internal/di/providers"
	"github.com/keepupapp/keepup-server/internal/logger"
	"github.com/keepupapp/keepup-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideValidator)
	do.Provide(injector, providers.ProvideOwnershipPolicy)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideTagService)
	do.Provide(injector, providers.ProvideTaskService)
	do.Provide(injector, providers.ProvideMediaService)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services. Errors from providers are returned
// instead of panicking so main can report them cleanly.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if _, err := do.Invoke[*logger.Logger](injector); err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return fmt.Errorf("store: %w", err)
	}
	if _, err := do.Invoke[*auth.TokenService](injector); err != nil {
		return fmt.Errorf("token service: %w", err)
	}

	// Business services
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.TagService](injector)
	_ = do.MustInvoke[*service.TaskService](injector)
	_ = do.MustInvoke[*service.MediaService](injector)

	// Server
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	return nil
}

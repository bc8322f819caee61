// Package di provides dependency injection configuration for the Placar server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/placarapp/placar-server/internal/auth"
	"github.com/placarapp/placar-server/internal/config"
	"github.com/placarapp/placar-server/internal/di/providers"
	"github.com/placarapp/placar-server/internal/game"
	"github.com/placarapp/placar-server/internal/logger"
	"github.com/placarapp/placar-server/internal/metrics"
	"github.com/placarapp/placar-server/internal/service"
	"github.com/placarapp/placar-server/internal/validation"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideAuthKey)
	do.Provide(injector, providers.ProvideMetrics)
	do.Provide(injector, providers.ProvideValidator)

	// Database layer
	do.Provide(injector, providers.ProvideStore)

	// Auth layer
	do.Provide(injector, providers.ProvideTokenService)

	// Business services
	do.Provide(injector, providers.ProvideSessionService)
	do.Provide(injector, providers.ProvideAuthService)
	do.Provide(injector, providers.ProvideScoreService)
	do.Provide(injector, providers.ProvideGameManager)
	do.Provide(injector, providers.ProvideGameService)

	// Workers
	do.Provide(injector, providers.ProvideGameSweeperJob)
	do.Provide(injector, providers.ProvideSessionCleanupJob)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	if _, err := do.Invoke[*providers.StoreHandle](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[providers.AuthKey](injector)
	_ = do.MustInvoke[*metrics.Metrics](injector)
	_ = do.MustInvoke[*validation.Validator](injector)
	_ = do.MustInvoke[*auth.TokenService](injector)

	// Business services
	_ = do.MustInvoke[*service.SessionService](injector)
	_ = do.MustInvoke[*service.AuthService](injector)
	_ = do.MustInvoke[*service.ScoreService](injector)
	_ = do.MustInvoke[*game.Manager](injector)
	_ = do.MustInvoke[*service.GameService](injector)

	// Workers
	_ = do.MustInvoke[*providers.GameSweeperJob](injector)
	_ = do.MustInvoke[*providers.SessionCleanupJob](injector)

	// Server
	if _, err := do.Invoke[*providers.HTTPServerHandle](injector); err != nil {
		return err
	}

	return nil
}

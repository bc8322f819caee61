package providers

import (
	"github.com/samber/do/v2"

	"github.com/placarapp/placar-server/internal/auth"
	"github.com/placarapp/placar-server/internal/config"
	"github.com/placarapp/placar-server/internal/game"
	"github.com/placarapp/placar-server/internal/logger"
	"github.com/placarapp/placar-server/internal/metrics"
	"github.com/placarapp/placar-server/internal/service"
	"github.com/placarapp/placar-server/internal/validation"
)

// ProvideSessionService provides the auth session service.
func ProvideSessionService(i do.Injector) (*service.SessionService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSessionService(storeHandle.Store, tokenService, log.Logger), nil
}

// ProvideAuthService provides the authentication service.
func ProvideAuthService(i do.Injector) (*service.AuthService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	tokenService := do.MustInvoke[*auth.TokenService](i)
	sessionService := do.MustInvoke[*service.SessionService](i)
	validator := do.MustInvoke[*validation.Validator](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewAuthService(storeHandle.Store, tokenService, sessionService, validator, log.Logger), nil
}

// ProvideScoreService provides the score recording and ranking service.
func ProvideScoreService(i do.Injector) (*service.ScoreService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewScoreService(storeHandle.Store, m, log.Logger), nil
}

// ProvideGameManager provides the in-memory play session registry.
func ProvideGameManager(i do.Injector) (*game.Manager, error) {
	cfg := do.MustInvoke[*config.Config](i)
	scores := do.MustInvoke[*service.ScoreService](i)

	return game.NewManager(scores.ForGame, cfg.Games.SessionTTL), nil
}

// ProvideGameService provides the play session service.
func ProvideGameService(i do.Injector) (*service.GameService, error) {
	manager := do.MustInvoke[*game.Manager](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGameService(manager, m, log.Logger), nil
}

package api

import "github.com/placarapp/placar-server/internal/service"

// Services groups the business logic services used by the API server.
type Services struct {
	Auth   *service.AuthService
	Scores *service.ScoreService
	Games  *service.GameService
}

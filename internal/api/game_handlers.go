package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/placarapp/placar-server/internal/domain"
	"github.com/placarapp/placar-server/internal/game"
)

func (s *Server) registerGameRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "startGame",
		Method:        http.MethodPost,
		Path:          "/api/v1/games",
		Summary:       "Start a game",
		Description:   "Opens a clicker or survival play session",
		Tags:          []string{"Games"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, s.handleStartGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGame",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/{id}",
		Summary:     "Get game state",
		Tags:        []string{"Games"},
		Security:    bearerSecurity,
	}, s.handleGetGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "clickGame",
		Method:      http.MethodPost,
		Path:        "/api/v1/games/{id}/clicks",
		Summary:     "Click",
		Description: "Scores one click in a running clicker session",
		Tags:        []string{"Games"},
		Security:    bearerSecurity,
	}, s.handleClickGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "finishGame",
		Method:      http.MethodPost,
		Path:        "/api/v1/games/{id}/finish",
		Summary:     "Finish a game",
		Description: "Ends the session and records its score exactly once",
		Tags:        []string{"Games"},
		Security:    bearerSecurity,
	}, s.handleFinishGame)
}

// === DTOs ===

// StartGameRequest is the request body for starting a session.
type StartGameRequest struct {
	Kind       string `json:"kind" validate:"required,game_kind" doc:"Game to play (clicker, survival)"`
	Platform   string `json:"platform,omitempty" validate:"omitempty,platform" doc:"Survival control scheme (pc, mobile)"`
	PlayerName string `json:"player_name,omitempty" validate:"omitempty,max=32" doc:"Name shown in the survival arena"`
}

// StartGameInput wraps the start request for Huma.
type StartGameInput struct {
	Body StartGameRequest
}

// GameIDInput identifies a session in the path.
type GameIDInput struct {
	ID string `path:"id" doc:"Game session ID"`
}

// GameStateResponse is a snapshot of a play session.
type GameStateResponse struct {
	ID          string    `json:"id" doc:"Game session ID"`
	Kind        string    `json:"kind" doc:"Game being played"`
	Platform    string    `json:"platform,omitempty" doc:"Survival control scheme"`
	PlayerName  string    `json:"player_name,omitempty" doc:"Survival player name"`
	StartedAt   time.Time `json:"started_at" doc:"Session start time"`
	Score       int       `json:"score" doc:"Current score"`
	RemainingMs int64     `json:"remaining_ms" doc:"Play time left in milliseconds"`
	Over        bool      `json:"over" doc:"Whether play time has run out"`
	Finished    bool      `json:"finished" doc:"Whether the result has been recorded"`
}

// GameStateOutput wraps a game state for Huma.
type GameStateOutput struct {
	Body GameStateResponse
}

// === Handlers ===

func (s *Server) handleStartGame(ctx context.Context, input *StartGameInput) (*GameStateOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.validator.Validate(input.Body); err != nil {
		return nil, err
	}

	state, err := s.services.Games.Start(ctx, userID, domain.GameKind(input.Body.Kind), game.Options{
		Platform:   domain.Platform(input.Body.Platform),
		PlayerName: input.Body.PlayerName,
	})
	if err != nil {
		return nil, err
	}
	return &GameStateOutput{Body: mapGameState(state)}, nil
}

func (s *Server) handleGetGame(ctx context.Context, input *GameIDInput) (*GameStateOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	state, err := s.services.Games.State(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &GameStateOutput{Body: mapGameState(state)}, nil
}

func (s *Server) handleClickGame(ctx context.Context, input *GameIDInput) (*GameStateOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	state, err := s.services.Games.Click(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &GameStateOutput{Body: mapGameState(state)}, nil
}

func (s *Server) handleFinishGame(ctx context.Context, input *GameIDInput) (*SessionResultOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.allowScore(userID); err != nil {
		return nil, err
	}

	result, err := s.services.Games.Finish(ctx, userID, input.ID)
	if err != nil {
		return nil, err
	}
	return &SessionResultOutput{Body: mapSessionResult(ctx, result)}, nil
}

func mapGameState(st domain.GameSessionState) GameStateResponse {
	return GameStateResponse{
		ID:          st.ID,
		Kind:        string(st.Kind),
		Platform:    string(st.Platform),
		PlayerName:  st.PlayerName,
		StartedAt:   st.StartedAt,
		Score:       st.Score,
		RemainingMs: st.Remaining.Milliseconds(),
		Over:        st.Over,
		Finished:    st.Finished,
	}
}

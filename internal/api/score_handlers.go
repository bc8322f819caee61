package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/placarapp/placar-server/internal/domain"
	"github.com/placarapp/placar-server/internal/i18n"
)

func (s *Server) registerScoreRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "submitScore",
		Method:        http.MethodPost,
		Path:          "/api/v1/scores",
		Summary:       "Submit a score",
		Description:   "Records the result of a finished play session for the signed-in player",
		Tags:          []string{"Scores"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, s.handleSubmitScore)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBestScore",
		Method:      http.MethodGet,
		Path:        "/api/v1/scores/best",
		Summary:     "Best score",
		Description: "Returns the signed-in player's best score, 0 when they have not played",
		Tags:        []string{"Scores"},
		Security:    bearerSecurity,
	}, s.handleGetBestScore)
}

// === DTOs ===

// SubmitScoreRequest is the request body for score submission.
type SubmitScoreRequest struct {
	Score int `json:"score" doc:"Final score of the session"`
}

// SubmitScoreInput wraps the score submission for Huma.
type SubmitScoreInput struct {
	Body SubmitScoreRequest
}

// SessionResultResponse describes a recorded session result.
type SessionResultResponse struct {
	Score        int       `json:"score" doc:"Recorded score"`
	RecordID     int64     `json:"record_id" doc:"Score record ID"`
	CreatedAt    time.Time `json:"created_at" doc:"When the score was recorded"`
	PreviousBest int       `json:"previous_best" doc:"Best score before this session"`
	IsNewRecord  bool      `json:"is_new_record" doc:"Whether the score beat the previous best"`
	Message      string    `json:"message" doc:"Localized game over message"`
}

// SessionResultOutput wraps a session result for Huma.
type SessionResultOutput struct {
	Body SessionResultResponse
}

// BestScoreResponse contains the player's best score.
type BestScoreResponse struct {
	BestScore int `json:"best_score" doc:"Best score, 0 when the player has no records"`
}

// BestScoreOutput wraps the best score for Huma.
type BestScoreOutput struct {
	Body BestScoreResponse
}

// === Handlers ===

func (s *Server) handleSubmitScore(ctx context.Context, input *SubmitScoreInput) (*SessionResultOutput, error) {
	userID, err := optionalUserID(ctx)
	if err != nil {
		return nil, err
	}

	// An anonymous submission goes through to the service so it is counted.
	if userID != "" {
		if err := s.allowScore(userID); err != nil {
			return nil, err
		}
	}

	result, err := s.services.Scores.Submit(ctx, userID, input.Body.Score)
	if err != nil {
		return nil, err
	}
	return &SessionResultOutput{Body: mapSessionResult(ctx, result)}, nil
}

func (s *Server) handleGetBestScore(ctx context.Context, _ *struct{}) (*BestScoreOutput, error) {
	userID, err := GetUserID(ctx)
	if err != nil {
		return nil, err
	}

	best, err := s.services.Scores.BestScore(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &BestScoreOutput{Body: BestScoreResponse{BestScore: best}}, nil
}

func mapSessionResult(ctx context.Context, r *domain.SessionResult) SessionResultResponse {
	resp := SessionResultResponse{
		Score:        r.Score,
		PreviousBest: r.PreviousBest,
		IsNewRecord:  r.IsNewRecord,
	}
	if r.Record != nil {
		resp.RecordID = r.Record.ID
		resp.CreatedAt = r.Record.CreatedAt
	}
	if r.IsNewRecord {
		resp.Message = localized(ctx, i18n.KeyNewRecord, r.Score)
	} else {
		resp.Message = localized(ctx, i18n.KeyGameOver, r.Score)
	}
	return resp
}

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/placarapp/placar-server/internal/domain"
)

const scoreColumns = `id, user_id, score, created_at`

// InsertScore appends a score record.
// Returns store.ErrInvalidInput when the user does not exist or the score is negative.
// Inserts from this process are serialized; replicas sharing a database only
// agree on order up to their clock skew.
func (s *Store) InsertScore(ctx context.Context, userID string, score int) (*domain.ScoreRecord, error) {
	s.scoreMu.Lock()
	defer s.scoreMu.Unlock()

	record := &domain.ScoreRecord{
		UserID:    userID,
		Score:     score,
		CreatedAt: s.clock.Now(),
	}

	err := s.pool.QueryRow(ctx,
		`INSERT INTO scores (user_id, score, created_at) VALUES ($1, $2, $3) RETURNING id`,
		userID, score, record.CreatedAt).Scan(&record.ID)
	if err != nil {
		return nil, translate(err)
	}
	return record, nil
}

// ListScores returns every score record, best first, ties by insertion order.
func (s *Store) ListScores(ctx context.Context) ([]domain.ScoreRecord, error) {
	return s.queryScores(ctx,
		`SELECT `+scoreColumns+` FROM scores ORDER BY score DESC, id ASC`)
}

// ListScoresByUser returns one user's score records, best first.
func (s *Store) ListScoresByUser(ctx context.Context, userID string) ([]domain.ScoreRecord, error) {
	return s.queryScores(ctx,
		`SELECT `+scoreColumns+` FROM scores WHERE user_id = $1 ORDER BY score DESC, id ASC`, userID)
}

// BestScore returns the user's highest score, or 0 if they have none.
func (s *Store) BestScore(ctx context.Context, userID string) (int, error) {
	var best int
	err := s.pool.QueryRow(ctx,
		`SELECT COALESCE(MAX(score), 0) FROM scores WHERE user_id = $1`, userID).Scan(&best)
	return best, err
}

// CountScores returns the total number of score records.
func (s *Store) CountScores(ctx context.Context) (int, error) {
	var n int
	err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM scores`).Scan(&n)
	return n, err
}

func (s *Store) queryScores(ctx context.Context, query string, args ...any) ([]domain.ScoreRecord, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.ScoreRecord, error) {
		var r domain.ScoreRecord
		err := row.Scan(&r.ID, &r.UserID, &r.Score, &r.CreatedAt)
		r.CreatedAt = r.CreatedAt.UTC()
		return r, err
	})
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []domain.ScoreRecord{}
	}
	return records, nil
}

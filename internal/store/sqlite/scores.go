package sqlite

import (
	"context"
	"database/sql"

	"github.com/placarapp/placar-server/internal/domain"
	"github.com/placarapp/placar-server/internal/store"
)

const scoreColumns = `id, user_id, score, created_at`

func scanScore(scanner interface{ Scan(dest ...any) error }) (domain.ScoreRecord, error) {
	var (
		r         domain.ScoreRecord
		createdAt string
	)
	if err := scanner.Scan(&r.ID, &r.UserID, &r.Score, &createdAt); err != nil {
		return r, err
	}
	var err error
	r.CreatedAt, err = parseTime(createdAt)
	return r, err
}

// InsertScore appends a score record. Returns store.ErrInvalidInput when the
// user does not exist or the score is negative.
func (s *Store) InsertScore(ctx context.Context, userID string, score int) (*domain.ScoreRecord, error) {
	s.scoreMu.Lock()
	defer s.scoreMu.Unlock()

	createdAt := s.clock.Now()

	result, err := s.db.ExecContext(ctx,
		`INSERT INTO scores (user_id, score, created_at) VALUES (?, ?, ?)`,
		userID, score, formatTime(createdAt))
	if isConstraintViolation(err) {
		return nil, store.ErrInvalidInput.WithCause(err)
	}
	if err != nil {
		return nil, err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, err
	}

	return &domain.ScoreRecord{
		ID:        id,
		UserID:    userID,
		Score:     score,
		CreatedAt: createdAt,
	}, nil
}

// ListScores returns every score record, best first, ties by insertion order.
func (s *Store) ListScores(ctx context.Context) ([]domain.ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+scoreColumns+` FROM scores ORDER BY score DESC, id ASC`)
	if err != nil {
		return nil, err
	}
	return collectScores(rows)
}

// ListScoresByUser returns one user's score records, best first.
func (s *Store) ListScoresByUser(ctx context.Context, userID string) ([]domain.ScoreRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+scoreColumns+` FROM scores WHERE user_id = ? ORDER BY score DESC, id ASC`, userID)
	if err != nil {
		return nil, err
	}
	return collectScores(rows)
}

// BestScore returns the user's highest score, or 0 if they have none.
func (s *Store) BestScore(ctx context.Context, userID string) (int, error) {
	var best sql.NullInt64
	err := s.db.QueryRowContext(ctx,
		`SELECT MAX(score) FROM scores WHERE user_id = ?`, userID).Scan(&best)
	if err != nil {
		return 0, err
	}
	return int(best.Int64), nil
}

// CountScores returns the total number of score records.
func (s *Store) CountScores(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM scores`).Scan(&n)
	return n, err
}

func collectScores(rows *sql.Rows) ([]domain.ScoreRecord, error) {
	defer rows.Close()

	records := []domain.ScoreRecord{}
	for rows.Next() {
		r, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

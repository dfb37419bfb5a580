package postgres

import (
	"context"
	"fmt"

	"mahjong-quiz-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// AttemptStore keeps verified answers in Postgres.
type AttemptStore struct {
	pool *pgxpool.Pool
}

func NewAttemptStore(pool *pgxpool.Pool) *AttemptStore {
	return &AttemptStore{pool: pool}
}

func (s *AttemptStore) Record(ctx context.Context, a domain.Attempt) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO answer_attempts
			(session_id, quiz_id, is_dealer, is_draw, fu, han, pay_for_start_player, pay_for_other, correct, answered_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		a.SessionID, a.Quiz.ID, a.Quiz.IsDealer, a.Quiz.IsDraw, a.Quiz.Fu, a.Quiz.Han,
		a.Answer.PayForStartPlayer, a.Answer.PayForOther, a.Correct, a.AnsweredAt,
	)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

func (s *AttemptStore) Stats(ctx context.Context, sessionID string) (domain.Stats, error) {
	stats := domain.Stats{SessionID: sessionID}
	err := s.pool.QueryRow(ctx,
		`SELECT count(*), count(*) FILTER (WHERE correct) FROM answer_attempts WHERE session_id=$1`,
		sessionID,
	).Scan(&stats.Total, &stats.Correct)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("load stats: %w", err)
	}
	return stats, nil
}

package memory

import (
	"context"
	"sync"

	"mahjong-quiz-service/internal/domain"
)

// AttemptLog keeps verified answers in process memory.
type AttemptLog struct {
	mu       sync.RWMutex
	attempts map[string][]domain.Attempt
}

func NewAttemptLog() *AttemptLog {
	return &AttemptLog{attempts: make(map[string][]domain.Attempt)}
}

func (l *AttemptLog) Record(_ context.Context, attempt domain.Attempt) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.attempts[attempt.SessionID] = append(l.attempts[attempt.SessionID], attempt)
	return nil
}

func (l *AttemptLog) Stats(_ context.Context, sessionID string) (domain.Stats, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	stats := domain.Stats{SessionID: sessionID}
	for _, attempt := range l.attempts[sessionID] {
		stats.Total++
		if attempt.Correct {
			stats.Correct++
		}
	}
	return stats, nil
}

// Attempts returns a copy of the attempts of a session in answer order.
func (l *AttemptLog) Attempts(sessionID string) []domain.Attempt {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]domain.Attempt(nil), l.attempts[sessionID]...)
}

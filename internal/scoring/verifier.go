package scoring

import (
	"context"

	"mahjong-quiz-service/internal/domain"
)

// ChartVerifier accepts exactly the payment the chart yields for the quiz.
type ChartVerifier struct{}

func (ChartVerifier) Verify(_ context.Context, q domain.Quiz, answer domain.AnswerSubmission) (bool, error) {
	expected, err := Expected(q)
	if err != nil {
		return false, err
	}
	return expected == answer, nil
}

// TableVerifier accepts any payment listed for the quiz's dealer/draw pair.
type TableVerifier struct{}

func (TableVerifier) Verify(_ context.Context, q domain.Quiz, answer domain.AnswerSubmission) (bool, error) {
	_, ok := Find(q.IsDealer, q.IsDraw, answer)
	return ok, nil
}

package quiz

import (
	"context"
	"testing"

	"mahjong-quiz-service/internal/domain"
	"mahjong-quiz-service/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReduceAnswerCycle(t *testing.T) {
	q := domain.Quiz{ID: "q1", IsDealer: true, IsDraw: true, Fu: 30, Han: 1}

	s, effect, err := Reduce(State{}, QuizGenerated{Quiz: q})
	require.NoError(t, err)
	assert.Equal(t, EffectNone, effect)
	assert.Equal(t, uint64(1), s.Round)
	assert.Equal(t, domain.PhasePresenting, s.Phase)
	require.Len(t, s.Options, 21)
	assert.Equal(t, "500all", s.Options[0].Label)
	assert.Equal(t, "16000all", s.Options[20].Label)

	answer := SubmissionFromOption(s.Options[0])
	s, effect, err = Reduce(s, AnswerSubmitted{Answer: answer})
	require.NoError(t, err)
	assert.Equal(t, EffectVerify, effect)
	assert.Equal(t, domain.PhaseAwaitingResult, s.Phase)

	_, effect, err = Reduce(s, AnswerSubmitted{Answer: answer})
	assert.ErrorIs(t, err, domain.ErrAlreadyAnswered)
	assert.Equal(t, EffectNone, effect)

	correct, err := scoring.TableVerifier{}.Verify(context.Background(), s.Quiz, *s.Answer)
	require.NoError(t, err)
	assert.True(t, correct)

	s, effect, err = Reduce(s, VerificationResult{Round: s.Round, Correct: correct})
	require.NoError(t, err)
	assert.Equal(t, EffectScheduleReset, effect)
	assert.Equal(t, domain.VerdictCorrect, s.Verdict)

	_, effect, _ = Reduce(s, ResetTimerFired{Round: s.Round})
	assert.Equal(t, EffectGenerate, effect)
}

func TestReduceIgnoresStaleEvents(t *testing.T) {
	s, _, _ := Reduce(State{}, QuizGenerated{Quiz: domain.Quiz{Fu: 30, Han: 2}})
	s, _, _ = Reduce(s, AnswerSubmitted{})
	s, _, _ = Reduce(s, QuizGenerated{Quiz: domain.Quiz{Fu: 40, Han: 2}})

	next, effect, err := Reduce(s, VerificationResult{Round: 1, Correct: true})
	require.NoError(t, err)
	assert.Equal(t, EffectNone, effect)
	assert.Equal(t, s, next)

	_, effect, _ = Reduce(s, ResetTimerFired{Round: 1})
	assert.Equal(t, EffectNone, effect)

	// The timer of the current round only counts once the result is showing.
	_, effect, _ = Reduce(s, ResetTimerFired{Round: s.Round})
	assert.Equal(t, EffectNone, effect)
}

func TestReduceRejectsAnswerBeforeQuiz(t *testing.T) {
	_, _, err := Reduce(State{}, AnswerSubmitted{})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

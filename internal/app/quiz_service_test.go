package app_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"mahjong-quiz-service/internal/app"
	"mahjong-quiz-service/internal/domain"
	"mahjong-quiz-service/internal/infra/memory"
	"mahjong-quiz-service/internal/scoring"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"
)

func TestJoinPresentsDealerDrawTable(t *testing.T) {
	service, _ := newTestService(t, scoring.TableVerifier{})

	view, err := service.Join(context.Background(), "watch-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), view.Round)
	assert.Equal(t, domain.PhasePresenting, view.Phase)
	assert.Equal(t, domain.VerdictUnknown, view.Verdict)
	assert.Equal(t, "親 30符1翻 ツモ", view.Prompt)
	require.Len(t, view.Options, 21)
	assert.Equal(t, "500all", view.Options[0].Label)
	assert.Equal(t, "16000all", view.Options[20].Label)

	again, err := service.Join(context.Background(), "watch-1")
	require.NoError(t, err)
	assert.Equal(t, view.Quiz.ID, again.Quiz.ID, "rejoining keeps the current quiz")
}

func TestOptionAnswerIsVerifiedThenReset(t *testing.T) {
	ctx := context.Background()
	service, attempts := newTestService(t, scoring.TableVerifier{})

	_, err := service.Join(ctx, "watch-1")
	require.NoError(t, err)
	updates, cancel, err := service.Subscribe(ctx, "watch-1")
	require.NoError(t, err)
	defer cancel()

	view, err := service.SubmitOption(ctx, "watch-1", 0)
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseAwaitingResult, view.Phase)
	assert.True(t, view.HasAnswered())
	assert.Equal(t, &domain.AnswerSubmission{PayForStartPlayer: 0, PayForOther: 500}, view.Answer)

	result := waitFor(t, updates, func(v domain.SessionView) bool { return v.Phase == domain.PhaseShowingResult })
	assert.Equal(t, domain.VerdictCorrect, result.Verdict)

	next := waitFor(t, updates, func(v domain.SessionView) bool { return v.Round == 2 })
	assert.Equal(t, domain.PhasePresenting, next.Phase)
	assert.Equal(t, domain.VerdictUnknown, next.Verdict)
	assert.Nil(t, next.Answer)

	stats, err := service.Stats(ctx, "watch-1")
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Total)
	assert.Equal(t, 1, stats.Correct)
	assert.Len(t, attempts.Attempts("watch-1"), 1)
}

func TestSpeechAnswerUsesChart(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, scoring.ChartVerifier{})
	_, _ = service.Join(ctx, "watch-1")
	updates, cancel, _ := service.Subscribe(ctx, "watch-1")
	defer cancel()

	_, err := service.SubmitSpeech(ctx, "watch-1", "12")
	assert.ErrorIs(t, err, domain.ErrUnparseableAnswer)
	current, err := service.Current(ctx, "watch-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PhasePresenting, current.Phase, "a bad transcript keeps the quiz open")

	view, err := service.SubmitSpeech(ctx, "watch-1", "500オール")
	require.NoError(t, err)
	assert.Equal(t, &domain.AnswerSubmission{PayForOther: 500}, view.Answer)

	result := waitFor(t, updates, func(v domain.SessionView) bool { return v.Phase == domain.PhaseShowingResult })
	assert.Equal(t, domain.VerdictCorrect, result.Verdict)
}

func TestVerifierFailureFailsClosed(t *testing.T) {
	ctx := context.Background()
	service, attempts := newTestService(t, failingVerifier{})
	_, _ = service.Join(ctx, "watch-1")
	updates, cancel, _ := service.Subscribe(ctx, "watch-1")
	defer cancel()

	_, err := service.SubmitOption(ctx, "watch-1", 0)
	require.NoError(t, err)

	result := waitFor(t, updates, func(v domain.SessionView) bool { return v.Phase == domain.PhaseShowingResult })
	assert.Equal(t, domain.VerdictIncorrect, result.Verdict)
	waitFor(t, updates, func(v domain.SessionView) bool { return v.Round == 2 })

	recorded := attempts.Attempts("watch-1")
	require.Len(t, recorded, 1)
	assert.False(t, recorded[0].Correct)
}

func TestSecondAnswerIsRejectedWhilePending(t *testing.T) {
	ctx := context.Background()
	gate := &gatedVerifier{release: make(chan struct{})}
	service, _ := newTestService(t, gate)
	_, _ = service.Join(ctx, "watch-1")

	_, err := service.SubmitOption(ctx, "watch-1", 1)
	require.NoError(t, err)

	_, err = service.SubmitOption(ctx, "watch-1", 2)
	assert.ErrorIs(t, err, domain.ErrAlreadyAnswered)
	_, err = service.SubmitSpeech(ctx, "watch-1", "700オール")
	assert.ErrorIs(t, err, domain.ErrAlreadyAnswered)
	_, err = service.NextQuiz(ctx, "watch-1")
	assert.ErrorIs(t, err, domain.ErrVerificationPending)

	close(gate.release)
	service.Wait()
	view, err := service.Current(ctx, "watch-1")
	require.NoError(t, err)
	assert.Equal(t, domain.PhaseShowingResult, view.Phase)
	assert.Equal(t, domain.VerdictIncorrect, view.Verdict)
	assert.Equal(t, 1, gate.count())
}

func TestNextQuizCancelsPendingReset(t *testing.T) {
	ctx := context.Background()
	const delay = 200 * time.Millisecond
	service, _ := newTestServiceWithDelay(t, scoring.TableVerifier{}, delay)
	_, _ = service.Join(ctx, "watch-1")

	_, err := service.SubmitOption(ctx, "watch-1", 0)
	require.NoError(t, err)
	service.Wait()

	view, err := service.NextQuiz(ctx, "watch-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), view.Round)

	time.Sleep(2 * delay)
	view, err = service.Current(ctx, "watch-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(2), view.Round, "the old timer must not generate another quiz")
}

func TestSubscribeStartsWithCurrentView(t *testing.T) {
	service, _ := newTestService(t, scoring.ChartVerifier{})
	ctx := context.Background()
	_, err := service.Join(ctx, "watch-1")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 50; i++ {
			_, _ = service.NextQuiz(ctx, "watch-1")
		}
	}()

	updates, cancel, err := service.Subscribe(ctx, "watch-1")
	require.NoError(t, err)
	<-done
	cancel()

	var last uint64
	for view := range updates {
		assert.GreaterOrEqual(t, view.Round, last, "views arrive in round order")
		last = view.Round
	}
	current, err := service.Current(ctx, "watch-1")
	require.NoError(t, err)
	assert.Equal(t, current.Round, last)
}

func TestInvalidOptionIndex(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, scoring.TableVerifier{})
	_, _ = service.Join(ctx, "watch-1")

	_, err := service.SubmitOption(ctx, "watch-1", 21)
	assert.ErrorIs(t, err, domain.ErrOptionNotFound)
	_, err = service.SubmitOption(ctx, "watch-1", -1)
	assert.ErrorIs(t, err, domain.ErrOptionNotFound)
}

func TestSubmitRequiresSession(t *testing.T) {
	ctx := context.Background()
	service, _ := newTestService(t, scoring.TableVerifier{})

	_, err := service.SubmitOption(ctx, "unknown", 0)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = service.NextQuiz(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, _, err = service.Subscribe(ctx, "unknown")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestLeaveDropsIdleSession(t *testing.T) {
	ctx := context.Background()
	store := memory.NewSessionStore()
	service := app.NewQuizService(store, &sequenceGenerator{quizzes: []domain.Quiz{dealerDraw}}, scoring.TableVerifier{}, nil, app.Options{})
	_, _ = service.Join(ctx, "watch-1")

	_, cancel, err := service.Subscribe(ctx, "watch-1")
	require.NoError(t, err)
	service.Leave(ctx, "watch-1")
	assert.Equal(t, 1, store.Len(), "a watched session stays")

	cancel()
	service.Leave(ctx, "watch-1")
	assert.Zero(t, store.Len())
}

const testResetDelay = 30 * time.Millisecond

var dealerDraw = domain.Quiz{IsDealer: true, IsDraw: true, Fu: 30, Han: 1}

func newTestService(t *testing.T, verifier app.Verifier) (*app.QuizService, *memory.AttemptLog) {
	t.Helper()
	return newTestServiceWithDelay(t, verifier, testResetDelay)
}

func newTestServiceWithDelay(t *testing.T, verifier app.Verifier, delay time.Duration) (*app.QuizService, *memory.AttemptLog) {
	t.Helper()
	attempts := memory.NewAttemptLog()
	service := app.NewQuizService(
		memory.NewSessionStore(),
		&sequenceGenerator{quizzes: []domain.Quiz{dealerDraw, {Fu: 40, Han: 2}}},
		verifier,
		attempts,
		app.Options{
			ResetDelay:    delay,
			VerifyTimeout: time.Second,
			Logger:        zaptest.NewLogger(t, zaptest.Level(zapcore.InfoLevel)),
		},
	)
	t.Cleanup(service.Wait)
	return service, attempts
}

func waitFor(t *testing.T, updates <-chan domain.SessionView, match func(domain.SessionView) bool) domain.SessionView {
	t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case view, ok := <-updates:
			if !ok {
				t.Fatalf("subscription closed")
			}
			if match(view) {
				return view
			}
		case <-timeout:
			t.Fatalf("timed out waiting for session view")
		}
	}
}

type sequenceGenerator struct {
	mu      sync.Mutex
	quizzes []domain.Quiz
	n       int
}

func (g *sequenceGenerator) Generate() domain.Quiz {
	g.mu.Lock()
	defer g.mu.Unlock()
	q := g.quizzes[g.n%len(g.quizzes)]
	q.ID = fmt.Sprintf("quiz-%d", g.n)
	g.n++
	return q
}

type failingVerifier struct{}

func (failingVerifier) Verify(context.Context, domain.Quiz, domain.AnswerSubmission) (bool, error) {
	return false, errors.New("connection refused")
}

type gatedVerifier struct {
	release chan struct{}

	mu    sync.Mutex
	calls int
}

func (v *gatedVerifier) Verify(ctx context.Context, _ domain.Quiz, _ domain.AnswerSubmission) (bool, error) {
	v.mu.Lock()
	v.calls++
	v.mu.Unlock()
	select {
	case <-v.release:
		return false, nil
	case <-ctx.Done():
		return false, ctx.Err()
	}
}

func (v *gatedVerifier) count() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.calls
}

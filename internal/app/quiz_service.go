package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"mahjong-quiz-service/internal/domain"
	"mahjong-quiz-service/internal/quiz"

	"go.uber.org/zap"
)

// SessionRepository abstracts how quiz sessions are stored (in-memory, Redis, etc).
type SessionRepository interface {
	GetOrCreate(sessionID string) *Session
	Get(sessionID string) (*Session, bool)
	DeleteIfIdle(sessionID string)
}

// Verifier decides whether an answer is the correct payment for a quiz.
type Verifier interface {
	Verify(ctx context.Context, q domain.Quiz, answer domain.AnswerSubmission) (bool, error)
}

// QuizGenerator produces the next quiz of a session.
type QuizGenerator interface {
	Generate() domain.Quiz
}

// AttemptRecorder keeps verified answers.
type AttemptRecorder interface {
	Record(ctx context.Context, attempt domain.Attempt) error
	Stats(ctx context.Context, sessionID string) (domain.Stats, error)
}

const (
	DefaultResetDelay    = 3 * time.Second
	DefaultVerifyTimeout = 5 * time.Second
)

type Options struct {
	// ResetDelay is how long a verdict stays on screen before the next quiz.
	ResetDelay    time.Duration
	VerifyTimeout time.Duration
	Logger        *zap.Logger
}

// QuizService contains the core quiz use cases.
type QuizService struct {
	sessions  SessionRepository
	generator QuizGenerator
	verifier  Verifier
	attempts  AttemptRecorder

	resetDelay    time.Duration
	verifyTimeout time.Duration
	logger        *zap.Logger

	inflight sync.WaitGroup
}

func NewQuizService(store SessionRepository, generator QuizGenerator, verifier Verifier, attempts AttemptRecorder, opts Options) *QuizService {
	if opts.ResetDelay <= 0 {
		opts.ResetDelay = DefaultResetDelay
	}
	if opts.VerifyTimeout <= 0 {
		opts.VerifyTimeout = DefaultVerifyTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &QuizService{
		sessions:      store,
		generator:     generator,
		verifier:      verifier,
		attempts:      attempts,
		resetDelay:    opts.ResetDelay,
		verifyTimeout: opts.VerifyTimeout,
		logger:        opts.Logger,
	}
}

// NewSession is exported for infrastructure layers that need to seed sessions.
func NewSession(id string) *Session {
	return newSession(id)
}

// NewSessionWithClock is test-only for deterministic timestamps.
func NewSessionWithClock(id string, now func() time.Time) *Session {
	return newSessionWithClock(id, now)
}

// Join opens or resumes a session and makes sure it has a quiz to show.
func (s *QuizService) Join(_ context.Context, sessionID string) (domain.SessionView, error) {
	session := s.sessions.GetOrCreate(sessionID)
	view, generated := session.start(s.generator)
	if generated {
		s.logger.Debug("quiz generated", zap.String("session", sessionID), zap.String("quiz", view.Quiz.ID))
	}
	return view, nil
}

// Current returns the latest view of a session.
func (s *QuizService) Current(_ context.Context, sessionID string) (domain.SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionView{}, domain.ErrSessionNotFound
	}
	return session.View(), nil
}

// SubmitOption answers with the option at index in the current candidate list.
func (s *QuizService) SubmitOption(ctx context.Context, sessionID string, index int) (domain.SessionView, error) {
	return s.submit(ctx, sessionID, func(state quiz.State) (domain.AnswerSubmission, error) {
		if index < 0 || index >= len(state.Options) {
			return domain.AnswerSubmission{}, domain.ErrOptionNotFound
		}
		return quiz.SubmissionFromOption(state.Options[index]), nil
	})
}

// SubmitSpeech answers with a speech transcript. Unparseable transcripts leave
// the quiz untouched so the player can try again.
func (s *QuizService) SubmitSpeech(ctx context.Context, sessionID, transcript string) (domain.SessionView, error) {
	payment, err := quiz.ParseSpeech(transcript)
	if err != nil {
		s.logger.Debug("speech rejected", zap.String("session", sessionID), zap.Error(err))
		return domain.SessionView{}, err
	}
	return s.submit(ctx, sessionID, func(state quiz.State) (domain.AnswerSubmission, error) {
		return quiz.SubmissionFromSpeech(state.Quiz, payment), nil
	})
}

// Submit answers with an explicit payment pair.
func (s *QuizService) Submit(ctx context.Context, sessionID string, answer domain.AnswerSubmission) (domain.SessionView, error) {
	return s.submit(ctx, sessionID, func(quiz.State) (domain.AnswerSubmission, error) {
		return answer, nil
	})
}

func (s *QuizService) submit(_ context.Context, sessionID string, build func(quiz.State) (domain.AnswerSubmission, error)) (domain.SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionView{}, domain.ErrSessionNotFound
	}

	view, err := session.submit(build)
	if err != nil {
		return domain.SessionView{}, err
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		s.verify(session, view.Round, view.Quiz, *view.Answer)
	}()
	return view, nil
}

// verify never leaves a session waiting: any verifier failure counts as a wrong answer.
func (s *QuizService) verify(session *Session, round uint64, q domain.Quiz, answer domain.AnswerSubmission) {
	ctx, cancel := context.WithTimeout(context.Background(), s.verifyTimeout)
	defer cancel()

	correct, err := s.verifier.Verify(ctx, q, answer)
	if err != nil {
		level := zap.WarnLevel
		if errors.Is(err, domain.ErrInvalidQuiz) {
			level = zap.ErrorLevel
		}
		s.logger.Log(level, "answer verification failed",
			zap.String("session", session.ID()),
			zap.String("quiz", q.ID),
			zap.Error(err))
		correct = false
	}

	if s.attempts != nil {
		attempt := domain.Attempt{
			SessionID:  session.ID(),
			Quiz:       q,
			Answer:     answer,
			Correct:    correct,
			AnsweredAt: time.Now(),
		}
		recordCtx, cancelRecord := context.WithTimeout(context.Background(), s.verifyTimeout)
		err := s.attempts.Record(recordCtx, attempt)
		cancelRecord()
		if err != nil {
			s.logger.Warn("record attempt failed", zap.String("session", session.ID()), zap.Error(err))
		}
	}

	s.logger.Info("answer verified",
		zap.String("session", session.ID()),
		zap.String("quiz", q.ID),
		zap.String("prompt", q.Prompt()),
		zap.Int("payForStartPlayer", answer.PayForStartPlayer),
		zap.Int("payForOther", answer.PayForOther),
		zap.Bool("correct", correct))

	session.resolve(round, correct, s.resetDelay, func() {
		s.reset(session, round)
	})
}

func (s *QuizService) reset(session *Session, round uint64) {
	if view, ok := session.fireReset(round, s.generator); ok {
		s.logger.Debug("quiz generated", zap.String("session", session.ID()), zap.String("quiz", view.Quiz.ID))
	}
}

// NextQuiz skips to a fresh quiz. It is refused while a verdict is pending.
func (s *QuizService) NextQuiz(_ context.Context, sessionID string) (domain.SessionView, error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return domain.SessionView{}, domain.ErrSessionNotFound
	}
	return session.skip(s.generator)
}

// Subscribe returns a channel that receives session views.
// The caller must invoke the returned cancel function to avoid leaks.
func (s *QuizService) Subscribe(_ context.Context, sessionID string) (<-chan domain.SessionView, func(), error) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return nil, nil, domain.ErrSessionNotFound
	}
	ch, cancel := session.subscribe()
	return ch, cancel, nil
}

// Leave drops the session once nobody is watching it.
func (s *QuizService) Leave(_ context.Context, sessionID string) {
	session, ok := s.sessions.Get(sessionID)
	if !ok {
		return
	}
	if session.IsIdle() {
		s.sessions.DeleteIfIdle(sessionID)
	}
}

// Stats returns the answer record of a session.
func (s *QuizService) Stats(ctx context.Context, sessionID string) (domain.Stats, error) {
	if s.attempts == nil {
		return domain.Stats{SessionID: sessionID}, nil
	}
	return s.attempts.Stats(ctx, sessionID)
}

// Wait blocks until in-flight verifications have finished.
func (s *QuizService) Wait() {
	s.inflight.Wait()
}

package app

import (
	"sync"
	"time"

	"mahjong-quiz-service/internal/domain"
	"mahjong-quiz-service/internal/quiz"
)

// Session is the in-memory state of one player's quiz cycle. All transitions
// go through quiz.Reduce under mu.
type Session struct {
	id          string
	now         func() time.Time
	mu          sync.Mutex
	state       quiz.State
	updatedAt   time.Time
	timer       *time.Timer
	closed      bool
	subscribers map[chan domain.SessionView]struct{}
}

func newSession(id string) *Session {
	return newSessionWithClock(id, time.Now)
}

// newSessionWithClock allows deterministic timestamps in tests.
func newSessionWithClock(id string, now func() time.Time) *Session {
	return &Session{
		id:          id,
		updatedAt:   now(),
		now:         now,
		subscribers: make(map[chan domain.SessionView]struct{}),
	}
}

func (s *Session) ID() string {
	return s.id
}

// View returns the current snapshot.
func (s *Session) View() domain.SessionView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Session) start(gen QuizGenerator) (domain.SessionView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Started() {
		return s.snapshotLocked(), false
	}
	s.applyLocked(quiz.QuizGenerated{Quiz: gen.Generate()})
	return s.broadcastLocked(), true
}

func (s *Session) submit(build func(quiz.State) (domain.AnswerSubmission, error)) (domain.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.state.Started() {
		return domain.SessionView{}, domain.ErrSessionNotFound
	}
	if s.state.Phase != domain.PhasePresenting {
		return domain.SessionView{}, domain.ErrAlreadyAnswered
	}
	answer, err := build(s.state)
	if err != nil {
		return domain.SessionView{}, err
	}
	if _, err := s.applyLocked(quiz.AnswerSubmitted{Answer: answer}); err != nil {
		return domain.SessionView{}, err
	}
	return s.broadcastLocked(), nil
}

// resolve records the verdict for round and arms the one-shot reset timer.
func (s *Session) resolve(round uint64, correct bool, delay time.Duration, onReset func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	effect, _ := s.applyLocked(quiz.VerificationResult{Round: round, Correct: correct})
	if effect != quiz.EffectScheduleReset {
		return
	}
	s.broadcastLocked()
	if s.closed {
		return
	}
	s.stopTimerLocked()
	s.timer = time.AfterFunc(delay, onReset)
}

func (s *Session) fireReset(round uint64, gen QuizGenerator) (domain.SessionView, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	effect, _ := s.applyLocked(quiz.ResetTimerFired{Round: round})
	if effect != quiz.EffectGenerate {
		return domain.SessionView{}, false
	}
	s.timer = nil
	s.applyLocked(quiz.QuizGenerated{Quiz: gen.Generate()})
	return s.broadcastLocked(), true
}

func (s *Session) skip(gen QuizGenerator) (domain.SessionView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state.Phase == domain.PhaseAwaitingResult {
		return domain.SessionView{}, domain.ErrVerificationPending
	}
	s.stopTimerLocked()
	s.applyLocked(quiz.QuizGenerated{Quiz: gen.Generate()})
	return s.broadcastLocked(), nil
}

func (s *Session) applyLocked(ev quiz.Event) (quiz.Effect, error) {
	next, effect, err := quiz.Reduce(s.state, ev)
	if err != nil {
		return quiz.EffectNone, err
	}
	s.state = next
	s.updatedAt = s.now()
	return effect, nil
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// Close stops a pending reset. The session keeps its last state.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopTimerLocked()
}

// IsIdle reports whether nobody is subscribed to the session.
func (s *Session) IsIdle() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subscribers) == 0
}

func (s *Session) subscribe() (<-chan domain.SessionView, func()) {
	ch := make(chan domain.SessionView, 8)

	s.mu.Lock()
	s.subscribers[ch] = struct{}{}
	ch <- s.snapshotLocked()
	s.mu.Unlock()

	cancel := func() {
		s.mu.Lock()
		if _, ok := s.subscribers[ch]; ok {
			delete(s.subscribers, ch)
			close(ch)
		}
		s.mu.Unlock()
	}
	return ch, cancel
}

func (s *Session) broadcastLocked() domain.SessionView {
	view := s.snapshotLocked()
	for ch := range s.subscribers {
		select {
		case ch <- view:
		default:
			// Drop the oldest view so a slow reader never blocks the session.
			select {
			case <-ch:
			default:
			}
			ch <- view
		}
	}
	return view
}

func (s *Session) snapshotLocked() domain.SessionView {
	view := domain.SessionView{
		SessionID: s.id,
		Round:     s.state.Round,
		Quiz:      s.state.Quiz,
		Options:   s.state.Options,
		Phase:     s.state.Phase,
		Verdict:   s.state.Verdict,
		UpdatedAt: s.updatedAt,
	}
	if s.state.Started() {
		view.Prompt = s.state.Quiz.Prompt()
	}
	if s.state.Answer != nil {
		answer := *s.state.Answer
		view.Answer = &answer
	}
	return view
}

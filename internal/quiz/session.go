package quiz

import (
	"mahjong-quiz-service/internal/domain"
	"mahjong-quiz-service/internal/scoring"
)

// State is the value a session moves through. Round increases with every quiz
// so late verdicts and timer firings from an earlier quiz can be told apart.
type State struct {
	Round   uint64
	Quiz    domain.Quiz
	Options []domain.PaymentOption
	Phase   domain.Phase
	Verdict domain.Verdict
	Answer  *domain.AnswerSubmission
}

// Started reports whether a quiz has been installed.
func (s State) Started() bool {
	return s.Round > 0
}

// Event is an input to Reduce.
type Event interface {
	event()
}

// QuizGenerated installs a new quiz.
type QuizGenerated struct {
	Quiz domain.Quiz
}

// AnswerSubmitted carries the player's answer to the current quiz.
type AnswerSubmitted struct {
	Answer domain.AnswerSubmission
}

// VerificationResult carries the verdict for the answer given in Round.
type VerificationResult struct {
	Round   uint64
	Correct bool
}

// ResetTimerFired signals that the result of Round has been shown long enough.
type ResetTimerFired struct {
	Round uint64
}

func (QuizGenerated) event()      {}
func (AnswerSubmitted) event()    {}
func (VerificationResult) event() {}
func (ResetTimerFired) event()    {}

// Effect is the work the caller has to start after a transition.
type Effect int

const (
	EffectNone Effect = iota
	EffectVerify
	EffectScheduleReset
	EffectGenerate
)

// Reduce applies ev to s. Events that do not apply to the current round or
// phase leave the state untouched with EffectNone; a second answer is an error.
func Reduce(s State, ev Event) (State, Effect, error) {
	switch ev := ev.(type) {
	case QuizGenerated:
		return State{
			Round:   s.Round + 1,
			Quiz:    ev.Quiz,
			Options: scoring.Lookup(ev.Quiz.IsDealer, ev.Quiz.IsDraw),
			Phase:   domain.PhasePresenting,
			Verdict: domain.VerdictUnknown,
		}, EffectNone, nil

	case AnswerSubmitted:
		if !s.Started() {
			return s, EffectNone, domain.ErrSessionNotFound
		}
		if s.Phase != domain.PhasePresenting {
			return s, EffectNone, domain.ErrAlreadyAnswered
		}
		answer := ev.Answer
		s.Answer = &answer
		s.Phase = domain.PhaseAwaitingResult
		return s, EffectVerify, nil

	case VerificationResult:
		if ev.Round != s.Round || s.Phase != domain.PhaseAwaitingResult {
			return s, EffectNone, nil
		}
		s.Phase = domain.PhaseShowingResult
		s.Verdict = domain.VerdictOf(ev.Correct)
		return s, EffectScheduleReset, nil

	case ResetTimerFired:
		if ev.Round != s.Round || s.Phase != domain.PhaseShowingResult {
			return s, EffectNone, nil
		}
		return s, EffectGenerate, nil
	}
	return s, EffectNone, nil
}

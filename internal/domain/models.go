package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	MinFu  = 20
	MaxFu  = 110
	MinHan = 1
	MaxHan = 13
)

// Quiz is one scoring scenario. IsDealer marks the winner as the start player.
type Quiz struct {
	ID       string `json:"id"`
	IsDealer bool   `json:"isDealer"`
	Fu       int    `json:"fu"`
	Han      int    `json:"han"`
	IsDraw   bool   `json:"isDraw"`
}

// Validate reports whether the quiz can be scored.
func (q Quiz) Validate() error {
	if q.Fu < MinFu || q.Fu > MaxFu || q.Fu%10 != 0 {
		return fmt.Errorf("%w: fu %d", ErrInvalidQuiz, q.Fu)
	}
	if q.Han < MinHan || q.Han > MaxHan {
		return fmt.Errorf("%w: han %d", ErrInvalidQuiz, q.Han)
	}
	if q.Fu == MinFu && q.Han == MinHan {
		return fmt.Errorf("%w: %d fu %d han is not a winning hand", ErrInvalidQuiz, q.Fu, q.Han)
	}
	return nil
}

// Prompt renders the quiz the way the watch face shows it, e.g. "子 30符2翻 ロン".
// Fu is irrelevant from mangan upwards and is left out.
func (q Quiz) Prompt() string {
	seat := "子"
	if q.IsDealer {
		seat = "親"
	}
	win := "ロン"
	if q.IsDraw {
		win = "ツモ"
	}
	if q.Han > 4 {
		return fmt.Sprintf("%s %d翻 %s", seat, q.Han, win)
	}
	return fmt.Sprintf("%s %d符%d翻 %s", seat, q.Fu, q.Han, win)
}

// PaymentOption is one legal payment from the score chart.
// FromDealer is zero when the dealer is the winner.
type PaymentOption struct {
	Label         string `json:"label"`
	FromNonDealer int    `json:"fromNonDealer"`
	FromDealer    int    `json:"fromDealer"`
}

// Total is the sum collected by the winner (three payers on a draw).
func (o PaymentOption) Total(isDealer, isDraw bool) int {
	switch {
	case !isDraw:
		return o.FromNonDealer
	case isDealer:
		return 3 * o.FromNonDealer
	default:
		return 2*o.FromNonDealer + o.FromDealer
	}
}

// AnswerSubmission is the payment pair a player claims.
type AnswerSubmission struct {
	PayForStartPlayer int `json:"payForStartPlayer"`
	PayForOther       int `json:"payForOther"`
}

// Phase is the position of a session in the answer cycle.
type Phase int

const (
	PhasePresenting Phase = iota
	PhaseAwaitingResult
	PhaseShowingResult
)

var phaseNames = map[Phase]string{
	PhasePresenting:     "presenting",
	PhaseAwaitingResult: "awaiting_result",
	PhaseShowingResult:  "showing_result",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// Verdict is the tri-state outcome of the current answer.
type Verdict int

const (
	VerdictUnknown Verdict = iota
	VerdictCorrect
	VerdictIncorrect
)

func VerdictOf(correct bool) Verdict {
	if correct {
		return VerdictCorrect
	}
	return VerdictIncorrect
}

func (v Verdict) String() string {
	switch v {
	case VerdictCorrect:
		return "correct"
	case VerdictIncorrect:
		return "incorrect"
	default:
		return "unknown"
	}
}

func (v Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// SessionView is the snapshot published to hosts after every transition.
type SessionView struct {
	SessionID string            `json:"sessionId"`
	Round     uint64            `json:"round"`
	Quiz      Quiz              `json:"quiz"`
	Prompt    string            `json:"prompt"`
	Options   []PaymentOption   `json:"options"`
	Phase     Phase             `json:"phase"`
	Verdict   Verdict           `json:"verdict"`
	Answer    *AnswerSubmission `json:"answer,omitempty"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// HasAnswered gates the answer controls of the host.
func (v SessionView) HasAnswered() bool {
	return v.Phase != PhasePresenting
}

// Attempt is a verified answer kept for statistics.
type Attempt struct {
	SessionID  string           `json:"sessionId"`
	Quiz       Quiz             `json:"quiz"`
	Answer     AnswerSubmission `json:"answer"`
	Correct    bool             `json:"correct"`
	AnsweredAt time.Time        `json:"answeredAt"`
}

// Stats summarizes the attempts of one session.
type Stats struct {
	SessionID string `json:"sessionId"`
	Total     int    `json:"total"`
	Correct   int    `json:"correct"`
}

// VerdictKey identifies a (question, answer) pair independent of the quiz ID.
func VerdictKey(q Quiz, a AnswerSubmission) string {
	return fmt.Sprintf("%t:%t:%d:%d:%d:%d", q.IsDealer, q.IsDraw, q.Fu, q.Han, a.PayForStartPlayer, a.PayForOther)
}

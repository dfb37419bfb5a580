package quiz

import (
	"fmt"
	"strconv"
	"strings"

	"mahjong-quiz-service/internal/domain"

	"golang.org/x/text/width"
)

const allSuffix = "オール"

// Payment is the pair read from a transcript before it is bound to a quiz.
type Payment struct {
	StartPlayer int
	Other       int
}

// ParseSpeech reads a recognized transcript such as "500オール", "300500" or "1000".
// Six or more digits are two amounts spoken back to back, non-dealer share first.
func ParseSpeech(text string) (Payment, error) {
	input := width.Fold.String(strings.TrimSpace(text))

	switch {
	case strings.HasSuffix(input, allSuffix):
		n, err := parseAmount(strings.TrimSuffix(input, allSuffix))
		if err != nil {
			return Payment{}, unparseable(text)
		}
		return Payment{StartPlayer: n, Other: n}, nil
	case len(input) >= 6 && isDigits(input):
		mid := len(input) / 2
		other, err := parseAmount(input[:mid])
		if err != nil {
			return Payment{}, unparseable(text)
		}
		start, err := parseAmount(input[mid:])
		if err != nil {
			return Payment{}, unparseable(text)
		}
		return Payment{StartPlayer: start, Other: other}, nil
	case len(input) >= 3 && isDigits(input):
		n, err := parseAmount(input)
		if err != nil {
			return Payment{}, unparseable(text)
		}
		return Payment{StartPlayer: n, Other: n}, nil
	}
	return Payment{}, unparseable(text)
}

// SubmissionFromSpeech binds a parsed payment to q. A winning dealer is paid
// by nobody in the start seat.
func SubmissionFromSpeech(q domain.Quiz, p Payment) domain.AnswerSubmission {
	if q.IsDealer {
		return domain.AnswerSubmission{PayForOther: p.Other}
	}
	return domain.AnswerSubmission{PayForStartPlayer: p.StartPlayer, PayForOther: p.Other}
}

// SubmissionFromOption turns a chart entry into the pair it stands for.
func SubmissionFromOption(opt domain.PaymentOption) domain.AnswerSubmission {
	return domain.AnswerSubmission{PayForStartPlayer: opt.FromDealer, PayForOther: opt.FromNonDealer}
}

func parseAmount(s string) (int, error) {
	if !isDigits(s) {
		return 0, strconv.ErrSyntax
	}
	return strconv.Atoi(s)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func unparseable(text string) error {
	return fmt.Errorf("%w: %q", domain.ErrUnparseableAnswer, text)
}

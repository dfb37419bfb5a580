package scoring

import "mahjong-quiz-service/internal/domain"

const manganBase = 2000

// BasePoints returns the base points of a hand before seat multipliers.
func BasePoints(fu, han int) int {
	switch {
	case han >= 13:
		return 4 * manganBase
	case han >= 11:
		return 3 * manganBase
	case han >= 8:
		return 2 * manganBase
	case han >= 6:
		return manganBase * 3 / 2
	case han == 5:
		return manganBase
	}
	base := fu << (han + 2)
	if base > manganBase {
		return manganBase
	}
	return base
}

// LimitName names the limit reached by a hand, or "" below mangan.
func LimitName(fu, han int) string {
	switch {
	case han >= 13:
		return "yakuman"
	case han >= 11:
		return "sanbaiman"
	case han >= 8:
		return "baiman"
	case han >= 6:
		return "haneman"
	case BasePoints(fu, han) >= manganBase:
		return "mangan"
	}
	return ""
}

// Expected returns the payment pair the winner of q collects.
func Expected(q domain.Quiz) (domain.AnswerSubmission, error) {
	if err := q.Validate(); err != nil {
		return domain.AnswerSubmission{}, err
	}
	base := BasePoints(q.Fu, q.Han)
	switch {
	case q.IsDealer && q.IsDraw:
		return domain.AnswerSubmission{PayForOther: roundUp(2 * base)}, nil
	case q.IsDealer:
		return domain.AnswerSubmission{PayForOther: roundUp(6 * base)}, nil
	case q.IsDraw:
		return domain.AnswerSubmission{
			PayForStartPlayer: roundUp(2 * base),
			PayForOther:       roundUp(base),
		}, nil
	default:
		pay := roundUp(4 * base)
		return domain.AnswerSubmission{PayForStartPlayer: pay, PayForOther: pay}, nil
	}
}

// ExpectedOption returns the chart entry for q.
func ExpectedOption(q domain.Quiz) (domain.PaymentOption, error) {
	answer, err := Expected(q)
	if err != nil {
		return domain.PaymentOption{}, err
	}
	opt, ok := Find(q.IsDealer, q.IsDraw, answer)
	if !ok {
		return domain.PaymentOption{}, domain.ErrInvalidQuiz
	}
	return opt, nil
}

func roundUp(points int) int {
	return (points + 99) / 100 * 100
}

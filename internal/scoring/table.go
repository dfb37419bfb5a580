package scoring

import "mahjong-quiz-service/internal/domain"

type tableKey struct {
	dealer bool
	draw   bool
}

// Payments are the distinct values of the standard chart for 20-110 fu and 1-13 han.
// 20 fu 1 han cannot be won and is not listed.
var tables = map[tableKey][]domain.PaymentOption{
	{dealer: true, draw: true}:   dealerDraw,
	{dealer: true, draw: false}:  dealerDiscard,
	{dealer: false, draw: true}:  nonDealerDraw,
	{dealer: false, draw: false}: nonDealerDiscard,
}

// Lookup returns the payment options for a dealer/draw pair in chart order.
// The returned slice is a copy and may be modified by the caller.
func Lookup(isDealer, isDraw bool) []domain.PaymentOption {
	table := tables[tableKey{dealer: isDealer, draw: isDraw}]
	options := make([]domain.PaymentOption, len(table))
	copy(options, table)
	return options
}

// Find returns the option whose payments match the submission.
func Find(isDealer, isDraw bool, answer domain.AnswerSubmission) (domain.PaymentOption, bool) {
	for _, opt := range tables[tableKey{dealer: isDealer, draw: isDraw}] {
		if opt.FromDealer == answer.PayForStartPlayer && opt.FromNonDealer == answer.PayForOther {
			return opt, true
		}
	}
	return domain.PaymentOption{}, false
}

// dealerDraw is paid by each of the three non-dealers.
var dealerDraw = []domain.PaymentOption{
	{Label: "500all", FromNonDealer: 500},
	{Label: "700all", FromNonDealer: 700},
	{Label: "800all", FromNonDealer: 800},
	{Label: "1000all", FromNonDealer: 1000},
	{Label: "1200all", FromNonDealer: 1200},
	{Label: "1300all", FromNonDealer: 1300},
	{Label: "1500all", FromNonDealer: 1500},
	{Label: "1600all", FromNonDealer: 1600},
	{Label: "1800all", FromNonDealer: 1800},
	{Label: "2000all", FromNonDealer: 2000},
	{Label: "2300all", FromNonDealer: 2300},
	{Label: "2600all", FromNonDealer: 2600},
	{Label: "2900all", FromNonDealer: 2900},
	{Label: "3200all", FromNonDealer: 3200},
	{Label: "3600all", FromNonDealer: 3600},
	{Label: "3900all", FromNonDealer: 3900},
	{Label: "4000all", FromNonDealer: 4000},
	{Label: "6000all", FromNonDealer: 6000},
	{Label: "8000all", FromNonDealer: 8000},
	{Label: "12000all", FromNonDealer: 12000},
	{Label: "16000all", FromNonDealer: 16000},
}

// dealerDiscard is paid by the discarding non-dealer.
var dealerDiscard = []domain.PaymentOption{
	{Label: "1500", FromNonDealer: 1500},
	{Label: "2000", FromNonDealer: 2000},
	{Label: "2400", FromNonDealer: 2400},
	{Label: "2900", FromNonDealer: 2900},
	{Label: "3400", FromNonDealer: 3400},
	{Label: "3900", FromNonDealer: 3900},
	{Label: "4400", FromNonDealer: 4400},
	{Label: "4800", FromNonDealer: 4800},
	{Label: "5300", FromNonDealer: 5300},
	{Label: "5800", FromNonDealer: 5800},
	{Label: "6800", FromNonDealer: 6800},
	{Label: "7700", FromNonDealer: 7700},
	{Label: "8700", FromNonDealer: 8700},
	{Label: "9600", FromNonDealer: 9600},
	{Label: "10600", FromNonDealer: 10600},
	{Label: "11600", FromNonDealer: 11600},
	{Label: "12000", FromNonDealer: 12000},
	{Label: "18000", FromNonDealer: 18000},
	{Label: "24000", FromNonDealer: 24000},
	{Label: "36000", FromNonDealer: 36000},
	{Label: "48000", FromNonDealer: 48000},
}

var nonDealerDraw = []domain.PaymentOption{
	{Label: "300-500", FromNonDealer: 300, FromDealer: 500},
	{Label: "400-700", FromNonDealer: 400, FromDealer: 700},
	{Label: "400-800", FromNonDealer: 400, FromDealer: 800},
	{Label: "500-1000", FromNonDealer: 500, FromDealer: 1000},
	{Label: "600-1200", FromNonDealer: 600, FromDealer: 1200},
	{Label: "700-1300", FromNonDealer: 700, FromDealer: 1300},
	{Label: "800-1500", FromNonDealer: 800, FromDealer: 1500},
	{Label: "800-1600", FromNonDealer: 800, FromDealer: 1600},
	{Label: "900-1800", FromNonDealer: 900, FromDealer: 1800},
	{Label: "1000-2000", FromNonDealer: 1000, FromDealer: 2000},
	{Label: "1200-2300", FromNonDealer: 1200, FromDealer: 2300},
	{Label: "1300-2600", FromNonDealer: 1300, FromDealer: 2600},
	{Label: "1500-2900", FromNonDealer: 1500, FromDealer: 2900},
	{Label: "1600-3200", FromNonDealer: 1600, FromDealer: 3200},
	{Label: "1800-3600", FromNonDealer: 1800, FromDealer: 3600},
	{Label: "2000-3900", FromNonDealer: 2000, FromDealer: 3900},
	{Label: "2000-4000", FromNonDealer: 2000, FromDealer: 4000},
	{Label: "3000-6000", FromNonDealer: 3000, FromDealer: 6000},
	{Label: "4000-8000", FromNonDealer: 4000, FromDealer: 8000},
	{Label: "6000-12000", FromNonDealer: 6000, FromDealer: 12000},
	{Label: "8000-16000", FromNonDealer: 8000, FromDealer: 16000},
}

var nonDealerDiscard = []domain.PaymentOption{
	{Label: "1000", FromNonDealer: 1000, FromDealer: 1000},
	{Label: "1300", FromNonDealer: 1300, FromDealer: 1300},
	{Label: "1600", FromNonDealer: 1600, FromDealer: 1600},
	{Label: "2000", FromNonDealer: 2000, FromDealer: 2000},
	{Label: "2300", FromNonDealer: 2300, FromDealer: 2300},
	{Label: "2600", FromNonDealer: 2600, FromDealer: 2600},
	{Label: "2900", FromNonDealer: 2900, FromDealer: 2900},
	{Label: "3200", FromNonDealer: 3200, FromDealer: 3200},
	{Label: "3600", FromNonDealer: 3600, FromDealer: 3600},
	{Label: "3900", FromNonDealer: 3900, FromDealer: 3900},
	{Label: "4500", FromNonDealer: 4500, FromDealer: 4500},
	{Label: "5200", FromNonDealer: 5200, FromDealer: 5200},
	{Label: "5800", FromNonDealer: 5800, FromDealer: 5800},
	{Label: "6400", FromNonDealer: 6400, FromDealer: 6400},
	{Label: "7100", FromNonDealer: 7100, FromDealer: 7100},
	{Label: "7700", FromNonDealer: 7700, FromDealer: 7700},
	{Label: "8000", FromNonDealer: 8000, FromDealer: 8000},
	{Label: "12000", FromNonDealer: 12000, FromDealer: 12000},
	{Label: "16000", FromNonDealer: 16000, FromDealer: 16000},
	{Label: "24000", FromNonDealer: 24000, FromDealer: 24000},
	{Label: "32000", FromNonDealer: 32000, FromDealer: 32000},
}

package oracle

import "mahjong-quiz-service/internal/domain"

// AnswerRequest is the body of POST /scores/answer.
type AnswerRequest struct {
	Question Question `json:"question"`
	Answer   Answer   `json:"answer"`
}

type Question struct {
	IsStartPlayer bool `json:"isStartPlayer"`
	IsDraw        bool `json:"isDraw"`
	SymbolCount   int  `json:"symbolCount"`
	FanCount      int  `json:"fanCount"`
}

type Answer struct {
	Score Score `json:"score"`
}

type Score struct {
	StartPlayer int `json:"startPlayer"`
	Other       int `json:"other"`
}

// AnswerResponse is the verdict returned by the oracle.
type AnswerResponse struct {
	IsCorrect *bool `json:"isCorrect"`
}

func NewAnswerRequest(q domain.Quiz, a domain.AnswerSubmission) AnswerRequest {
	return AnswerRequest{
		Question: Question{
			IsStartPlayer: q.IsDealer,
			IsDraw:        q.IsDraw,
			SymbolCount:   q.Fu,
			FanCount:      q.Han,
		},
		Answer: Answer{Score: Score{StartPlayer: a.PayForStartPlayer, Other: a.PayForOther}},
	}
}

// Quiz and Submission map the request back onto the domain.
func (r AnswerRequest) Quiz() domain.Quiz {
	return domain.Quiz{
		IsDealer: r.Question.IsStartPlayer,
		IsDraw:   r.Question.IsDraw,
		Fu:       r.Question.SymbolCount,
		Han:      r.Question.FanCount,
	}
}

func (r AnswerRequest) Submission() domain.AnswerSubmission {
	return domain.AnswerSubmission{
		PayForStartPlayer: r.Answer.Score.StartPlayer,
		PayForOther:       r.Answer.Score.Other,
	}
}

package http

import (
	"errors"
	"net/http"
	"strconv"

	"mahjong-quiz-service/internal/app"
	"mahjong-quiz-service/internal/domain"
	"mahjong-quiz-service/internal/oracle"
	"mahjong-quiz-service/internal/scoring"
	"go.uber.org/zap"
)

// ScoresHandler serves the scoring API that remote quiz hosts verify against.
type ScoresHandler struct {
	verifier app.Verifier
	logger   *zap.Logger
}

func NewScoresHandler(verifier app.Verifier, logger *zap.Logger) *ScoresHandler {
	return &ScoresHandler{verifier: verifier, logger: logger}
}

// Answer handles POST /scores/answer.
func (h *ScoresHandler) Answer(w http.ResponseWriter, r *http.Request) {
	var req oracle.AnswerRequest
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid answer request")
		return
	}

	q := req.Quiz()
	correct, err := h.verifier.Verify(r.Context(), q, req.Submission())
	if errors.Is(err, domain.ErrInvalidQuiz) {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		h.logger.Error("score verification failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "verification failed")
		return
	}
	writeJSON(w, http.StatusOK, oracle.AnswerResponse{IsCorrect: &correct})
}

type tableResponse struct {
	IsDealer bool                   `json:"isDealer"`
	IsDraw   bool                   `json:"isDraw"`
	Options  []domain.PaymentOption `json:"options"`
}

// Table handles GET /scores/table?dealer=true&draw=false.
func (h *ScoresHandler) Table(w http.ResponseWriter, r *http.Request) {
	dealer, err := queryBool(r, "dealer")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	draw, err := queryBool(r, "draw")
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, tableResponse{
		IsDealer: dealer,
		IsDraw:   draw,
		Options:  scoring.Lookup(dealer, draw),
	})
}

func queryBool(r *http.Request, name string) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errors.New("invalid " + name + " parameter")
	}
	return v, nil
}

package http

import (
	"errors"
	"net/http"

	"mahjong-quiz-service/internal/app"
	"mahjong-quiz-service/internal/domain"
	"github.com/go-chi/chi/v5"
)

type SessionsHandler struct {
	service *app.QuizService
}

func NewSessionsHandler(service *app.QuizService) *SessionsHandler {
	return &SessionsHandler{service: service}
}

func (h *SessionsHandler) Current(w http.ResponseWriter, r *http.Request) {
	view, err := h.service.Current(r.Context(), chi.URLParam(r, "sessionID"))
	if errors.Is(err, domain.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, view)
}

func (h *SessionsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "stats unavailable")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

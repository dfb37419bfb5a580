package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"mahjong-quiz-service/internal/app"
	"mahjong-quiz-service/internal/domain"
	"mahjong-quiz-service/internal/scoring"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

type WSHandler struct {
	service  *app.QuizService
	logger   *zap.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.QuizService, logger *zap.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		logger:  logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type optionPayload struct {
	OptionIndex *int `json:"optionIndex"`
}

type speechPayload struct {
	Transcript string `json:"transcript"`
}

type resultPayload struct {
	QuizID   string                   `json:"quizId"`
	Verdict  domain.Verdict           `json:"verdict"`
	Answer   *domain.AnswerSubmission `json:"answer,omitempty"`
	Expected string                   `json:"expected,omitempty"`
	Stats    domain.Stats             `json:"stats"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

// ServeWS upgrades HTTP requests to websockets and wires them into the quiz use cases.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("sessionId")
	if sessionID == "" {
		http.Error(w, "missing sessionId", http.StatusBadRequest)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("ws upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ctx := r.Context()
	joined, err := h.service.Join(ctx, sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}

	updates, cancel, err := h.service.Subscribe(ctx, sessionID)
	if err != nil {
		_ = conn.WriteJSON(outboundMessage[errorPayload]{Type: "error", Payload: errorPayload{Message: err.Error()}})
		return
	}
	defer h.service.Leave(context.Background(), sessionID)
	defer cancel()
	if initial := <-updates; initial.Round != joined.Round || initial.Phase != joined.Phase {
		joined = initial
	}

	send := make(chan outboundMessage[any], 16)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})
	updatesDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			if err := conn.WriteJSON(msg); err != nil {
				h.logger.Debug("ws write error", zap.Error(err))
				return
			}
		}
	}()

	go func() {
		defer close(updatesDone)
		for {
			select {
			case view, ok := <-updates:
				if !ok {
					return
				}
				msgs := []outboundMessage[any]{{Type: "session", Payload: view}}
				if view.Phase == domain.PhaseShowingResult {
					msgs = append(msgs, outboundMessage[any]{Type: "result", Payload: h.result(ctx, view)})
				}
				for _, msg := range msgs {
					select {
					case send <- msg:
					case <-closeSignals:
						return
					case <-writerDone:
						return
					}
				}
			case <-closeSignals:
				return
			}
		}
	}()

	reply := func(msg outboundMessage[any]) bool {
		select {
		case send <- msg:
			return true
		case <-writerDone:
			return false
		}
	}

	if reply(outboundMessage[any]{Type: "joined", Payload: joined}) {
		for {
			var inbound inboundMessage
			if err := conn.ReadJSON(&inbound); err != nil {
				break
			}
			if msg, ok := h.handle(ctx, sessionID, inbound); ok && !reply(msg) {
				break
			}
		}
	}

	close(closeSignals)
	<-updatesDone
	close(send)
	<-writerDone
}

// handle runs one inbound command. Successful commands answer through the
// session stream, so only failures produce a direct reply.
func (h *WSHandler) handle(ctx context.Context, sessionID string, inbound inboundMessage) (outboundMessage[any], bool) {
	var err error
	switch inbound.Type {
	case "answer":
		var payload optionPayload
		if jsonErr := json.Unmarshal(inbound.Payload, &payload); jsonErr != nil || payload.OptionIndex == nil {
			return errorMessage("invalid answer payload"), true
		}
		_, err = h.service.SubmitOption(ctx, sessionID, *payload.OptionIndex)
	case "speech":
		var payload speechPayload
		if jsonErr := json.Unmarshal(inbound.Payload, &payload); jsonErr != nil {
			return errorMessage("invalid speech payload"), true
		}
		_, err = h.service.SubmitSpeech(ctx, sessionID, payload.Transcript)
	case "next":
		_, err = h.service.NextQuiz(ctx, sessionID)
	default:
		return errorMessage("unsupported message type"), true
	}

	switch {
	case err == nil:
		return outboundMessage[any]{}, false
	case errors.Is(err, domain.ErrUnparseableAnswer):
		return outboundMessage[any]{Type: "retry", Payload: errorPayload{Message: "answer not recognized, please answer again"}}, true
	default:
		return errorMessage(err.Error()), true
	}
}

func (h *WSHandler) result(ctx context.Context, view domain.SessionView) resultPayload {
	out := resultPayload{QuizID: view.Quiz.ID, Verdict: view.Verdict, Answer: view.Answer}
	if opt, err := scoring.ExpectedOption(view.Quiz); err == nil {
		out.Expected = opt.Label
	}
	stats, err := h.service.Stats(ctx, view.SessionID)
	if err != nil {
		h.logger.Warn("load stats failed", zap.String("session", view.SessionID), zap.Error(err))
	}
	out.Stats = stats
	return out
}

func errorMessage(msg string) outboundMessage[any] {
	return outboundMessage[any]{Type: "error", Payload: errorPayload{Message: msg}}
}

package http

import (
	"net/http"
	"time"

	"mahjong-quiz-service/internal/app"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// NewRouter wires the session, oracle and chart endpoints. oracle answers
// POST /scores/answer and should not itself call back into this service.
func NewRouter(service *app.QuizService, oracle app.Verifier, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/ws", NewWSHandler(service, logger).ServeWS)

	scores := NewScoresHandler(oracle, logger)
	r.Route("/scores", func(r chi.Router) {
		r.Post("/answer", scores.Answer)
		r.Get("/table", scores.Table)
	})

	sessions := NewSessionsHandler(service)
	r.Route("/sessions/{sessionID}", func(r chi.Router) {
		r.Get("/", sessions.Current)
		r.Get("/stats", sessions.Stats)
	})
	return r
}

func requestLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("duration", time.Since(start)),
				zap.String("requestId", middleware.GetReqID(r.Context())))
		})
	}
}

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"mahjong-quiz-service/internal/domain"
	"mahjong-quiz-service/internal/oracle"
	"mahjong-quiz-service/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScoresAnswer(t *testing.T) {
	router := NewRouter(newTestService(t), scoring.ChartVerifier{}, zap.NewNop())

	cases := []struct {
		name    string
		quiz    domain.Quiz
		answer  domain.AnswerSubmission
		correct bool
	}{
		{"non-dealer draw", domain.Quiz{IsDraw: true, Fu: 30, Han: 2}, domain.AnswerSubmission{PayForStartPlayer: 1000, PayForOther: 500}, true},
		{"swapped shares", domain.Quiz{IsDraw: true, Fu: 30, Han: 2}, domain.AnswerSubmission{PayForStartPlayer: 500, PayForOther: 1000}, false},
		{"dealer ron", domain.Quiz{IsDealer: true, Fu: 40, Han: 3}, domain.AnswerSubmission{PayForOther: 7700}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := postAnswer(t, router, oracle.NewAnswerRequest(tc.quiz, tc.answer))
			require.Equal(t, http.StatusOK, rec.Code)

			var resp oracle.AnswerResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			require.NotNil(t, resp.IsCorrect)
			assert.Equal(t, tc.correct, *resp.IsCorrect)
		})
	}
}

func TestScoresAnswerRejectsBadRequests(t *testing.T) {
	router := NewRouter(newTestService(t), scoring.ChartVerifier{}, zap.NewNop())

	rec := postAnswer(t, router, oracle.NewAnswerRequest(domain.Quiz{Fu: 15, Han: 1}, domain.AnswerSubmission{}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postAnswer(t, router, oracle.NewAnswerRequest(domain.Quiz{IsDealer: true, IsDraw: true, Fu: 20, Han: 1}, domain.AnswerSubmission{PayForOther: 400}))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/scores/answer", bytes.NewBufferString("{"))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScoresTable(t *testing.T) {
	router := NewRouter(newTestService(t), scoring.ChartVerifier{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/scores/table?dealer=false&draw=true", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp tableResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.IsDraw)
	require.Len(t, resp.Options, 21)
	assert.Equal(t, "300-500", resp.Options[0].Label)

	req = httptest.NewRequest(http.MethodGet, "/scores/table?dealer=maybe", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionEndpoints(t *testing.T) {
	service := newTestService(t)
	router := NewRouter(service, scoring.ChartVerifier{}, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/sessions/nobody", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	_, err := service.Join(context.Background(), "watch-9")
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/sessions/watch-9", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var view sessionView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "presenting", view.Phase)

	req = httptest.NewRequest(http.MethodGet, "/sessions/watch-9/stats", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats domain.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, "watch-9", stats.SessionID)
	assert.Zero(t, stats.Total)
}

func postAnswer(t *testing.T, router http.Handler, body oracle.AnswerRequest) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/scores/answer", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

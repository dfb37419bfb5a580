package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"mahjong-quiz-service/internal/domain"
)

const answerPath = "/scores/answer"

var (
	// ErrUnexpectedStatus is returned for non-2xx oracle responses.
	ErrUnexpectedStatus = errors.New("unexpected oracle status")
	// ErrMalformedResponse is returned when the oracle body has no verdict.
	ErrMalformedResponse = errors.New("malformed oracle response")
)

// Client asks a remote scoring API whether an answer is correct.
type Client struct {
	apiRoot string
	http    *http.Client
}

func NewClient(apiRoot string, timeout time.Duration) *Client {
	return NewClientWithHTTP(apiRoot, &http.Client{Timeout: timeout})
}

func NewClientWithHTTP(apiRoot string, httpClient *http.Client) *Client {
	return &Client{apiRoot: strings.TrimRight(apiRoot, "/"), http: httpClient}
}

func (c *Client) Verify(ctx context.Context, q domain.Quiz, answer domain.AnswerSubmission) (bool, error) {
	body, err := json.Marshal(NewAnswerRequest(q, answer))
	if err != nil {
		return false, fmt.Errorf("encode answer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiRoot+answerPath, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("build oracle request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("call oracle: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return false, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var out AnswerResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return false, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if out.IsCorrect == nil {
		return false, fmt.Errorf("%w: missing isCorrect", ErrMalformedResponse)
	}
	return *out.IsCorrect, nil
}

package domain

import "errors"

var (
	// ErrSessionNotFound is returned when a quiz session has not been initialized.
	ErrSessionNotFound = errors.New("quiz session not found")
	// ErrInvalidQuiz indicates quiz parameters outside the scoring chart.
	ErrInvalidQuiz = errors.New("invalid quiz")
	// ErrOptionNotFound indicates a submitted option index is invalid.
	ErrOptionNotFound = errors.New("payment option not found")
	// ErrUnparseableAnswer is returned for speech transcripts that match no answer form.
	ErrUnparseableAnswer = errors.New("answer could not be parsed")
	// ErrAlreadyAnswered is returned when the current quiz already has an answer.
	ErrAlreadyAnswered = errors.New("quiz already answered")
	// ErrVerificationPending is returned when an action has to wait for the verdict.
	ErrVerificationPending = errors.New("answer verification pending")
)

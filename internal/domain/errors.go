package domain

import "errors"

var (
	// ErrStageNotFound is returned when a stage id does not exist.
	ErrStageNotFound = errors.New("stage not found")
	// ErrStageNotUnlocked is returned when the preceding stage has not been cleared.
	ErrStageNotUnlocked = errors.New("stage not unlocked")
	// ErrNoQuestionsFound is returned when a stage has no assigned questions.
	ErrNoQuestionsFound = errors.New("no questions found for stage")
	// ErrSessionNotFound is returned when a live session id is unknown.
	ErrSessionNotFound = errors.New("game session not found")
	// ErrQuestionNotFound is returned when an answered question is not part of the session.
	ErrQuestionNotFound = errors.New("question not found")
	// ErrUserNotFound is returned when a user id does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrInvalidAnswer is reserved for answer payloads that cannot be evaluated.
	ErrInvalidAnswer = errors.New("invalid answer")
)

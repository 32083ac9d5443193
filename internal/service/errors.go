package service

import "errors"

// Sentinel errors returned by services; controllers translate them into HTTP
// statuses with errors.Is.
var (
	ErrNotFound         = errors.New("resource not found")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrAlreadySubmitted = errors.New("exam already submitted")
	ErrScoreTooLow      = errors.New("exam score is insufficient for certificate")
	ErrUpstream         = errors.New("content generation failed")
)

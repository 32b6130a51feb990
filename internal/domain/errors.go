package domain

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrAlreadyActive = errors.New("session already active")
	ErrNotActive     = errors.New("no active session")
	ErrStorage       = errors.New("storage failure")
	ErrDataIntegrity = errors.New("stored session data is inconsistent")
)

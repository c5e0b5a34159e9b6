package usecase

import "errors"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrInternal     = errors.New("internal error")
	ErrInvalidInput = errors.New("invalid input")

	ErrProfileNotFound = errors.New("profile not found")
	ErrTargetNotFound  = errors.New("target user not found")

	ErrSelfMatch       = errors.New("cannot match with yourself")
	ErrMatchExists     = errors.New("a match already exists between these users")
	ErrMatchInProgress = errors.New("a match request between these users is in progress")
	ErrMatchNotFound   = errors.New("match not found")
	ErrNotRecipient    = errors.New("only the recipient can answer this match")
	ErrMatchNotPending = errors.New("match is no longer pending")
)

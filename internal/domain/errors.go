package domain

import "errors"

// Expected business-rule violations. Services return these (possibly
// wrapped); the HTTP layer maps them to status codes with errors.Is.
// Anything else bubbling out of a service is a storage failure.
var (
	ErrNotFound        = errors.New("not found")
	ErrAlreadyResolved = errors.New("match already resolved")
	ErrNotEditable     = errors.New("completed match cannot be edited")
	ErrInvalidWinner   = errors.New("winner is not a participant of the match")
	ErrShowIncomplete  = errors.New("show has unresolved matches")
	ErrIncompleteTeams = errors.New("every team slot must be filled")
	ErrInvalidAmount   = errors.New("amount must be positive")
	ErrInvalidWeeks    = errors.New("renewal weeks must be positive")
	ErrContractExpired = errors.New("wrestler contract has expired")
	ErrTitleRequired   = errors.New("title match requires a title")
	ErrTitleMismatch   = errors.New("title does not fit this booking")
	ErrValidation      = errors.New("validation failed")
)

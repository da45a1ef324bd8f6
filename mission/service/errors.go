package service

import "errors"

// Errors shared by the session, config and transport layers
var (
	ErrSessionNotFound  = errors.New("session not found")
	ErrScenarioNotFound = errors.New("scenario not found")
	ErrInvalidScenario  = errors.New("invalid scenario")
	ErrInvalidRequest   = errors.New("invalid request")
)

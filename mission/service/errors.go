package service

import "errors"

var (
	ErrSessionNotFound      = errors.New("session not found")
	ErrSessionAlreadyExists = errors.New("session already exists")
	ErrScenarioNotFound     = errors.New("scenario not found")
	ErrInvalidScenario      = errors.New("invalid scenario")
	ErrMissionNotFound      = errors.New("mission not found")
	ErrMissionLogDisabled   = errors.New("mission log is disabled")
)

package sync

import "errors"

var (
	// ErrSkillNotFound is returned when an operation needs a skill the hub
	// does not have.
	ErrSkillNotFound = errors.New("skill not found")

	// ErrToolNotFound is returned when no adapter is registered for a tool
	// or its skills directory cannot be resolved.
	ErrToolNotFound = errors.New("tool not found")

	// ErrInvalidStrategy is returned for strategies other than auto, link
	// or copy.
	ErrInvalidStrategy = errors.New("invalid strategy")
)

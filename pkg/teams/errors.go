package teams

import (
	"errors"
	"fmt"
)

// Sentinel errors for config and template state. Callers match these with
// errors.Is after unwrapping.
var (
	// ErrConfigExists is returned by create when a configuration already
	// exists for the team.
	ErrConfigExists = errors.New("team configuration already exists")

	// ErrConfigNotFound is returned by update/remove and by the store when
	// no configuration file exists for the team.
	ErrConfigNotFound = errors.New("team configuration not found")

	// ErrConfigInvalid is returned when an on-disk document is missing its
	// top-level teams section or cannot be parsed.
	ErrConfigInvalid = errors.New("team configuration invalid")

	// ErrTemplateNotFound is returned when the default team template file
	// is missing.
	ErrTemplateNotFound = errors.New("team template not found")

	// ErrTemplateInvalid is returned when the template exists but lacks its
	// top-level teams section.
	ErrTemplateInvalid = errors.New("team template invalid")
)

// ConfigCreationError wraps any failure while building a new team
// configuration from the default template.
type ConfigCreationError struct {
	TeamName string
	Cause    error
}

func (e *ConfigCreationError) Error() string {
	return fmt.Sprintf("failed to create configuration for team %q: %v", e.TeamName, e.Cause)
}

func (e *ConfigCreationError) Unwrap() error {
	return e.Cause
}

// PersistenceError wraps a failed save of a team configuration. Save
// failures are reported to the requester, not propagated as panics.
type PersistenceError struct {
	TeamName string
	Cause    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to save configuration for team %q: %v", e.TeamName, e.Cause)
}

func (e *PersistenceError) Unwrap() error {
	return e.Cause
}

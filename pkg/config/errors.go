package config

import "errors"

// Common errors returned by the config package.
var (
	// ErrConfigNotFound is returned when an explicitly named config file
	// does not exist.
	ErrConfigNotFound = errors.New("config file not found")

	// ErrInvalidYAML is returned when the config file cannot be parsed.
	ErrInvalidYAML = errors.New("invalid YAML in config file")

	// ErrNoDataDirs is returned when no data directories are configured.
	ErrNoDataDirs = errors.New("at least one data directory is required")

	// ErrInvalidWorkers is returned when the worker count is not positive.
	ErrInvalidWorkers = errors.New("workers must be greater than zero")

	// ErrInvalidCostMode is returned for an unrecognized cost mode.
	ErrInvalidCostMode = errors.New("cost_mode must be auto, calculate, or display")

	// ErrInvalidGroupBy is returned for an unrecognized grouping dimension.
	ErrInvalidGroupBy = errors.New("group_by must be day, week, month, session, model, or project")
)

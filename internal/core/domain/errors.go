package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidChamber indicates an unknown chamber name.
	ErrInvalidChamber = errors.New("invalid chamber")

	// ErrInvalidDate indicates a date string that could not be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrMalformedResponse indicates an upstream payload did not have the expected shape.
	// Callers degrade to an empty result rather than failing.
	ErrMalformedResponse = errors.New("malformed upstream response")

	// ErrInvalidRecord indicates a proceeding without an external identifier or title.
	ErrInvalidRecord = errors.New("invalid proceeding record")

	// ErrRegistryUnavailable indicates the member registry could not be reached.
	ErrRegistryUnavailable = errors.New("member registry unavailable")

	// ErrInvalidSchedule indicates a cron expression that cannot be parsed
	// or that never fires.
	ErrInvalidSchedule = errors.New("invalid schedule")

	// ErrUpstreamUnavailable indicates the upstream service is not configured.
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
)

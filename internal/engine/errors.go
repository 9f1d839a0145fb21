package engine

import "errors"

var (
	// ErrNoSites is returned when the catalog has no sites to probe.
	ErrNoSites = errors.New("no sites to probe: catalog is empty")

	// ErrNoUsernames is returned when no usernames were supplied.
	ErrNoUsernames = errors.New("no usernames to probe")

	// ErrDuplicateResult is returned when a task slot is completed twice.
	// This guards a scheduler invariant; seeing it means a bug.
	ErrDuplicateResult = errors.New("task slot already has a verdict")

	// ErrSlotOutOfRange is returned for a slot index outside the run.
	ErrSlotOutOfRange = errors.New("task slot out of range")
)

// Package engine schedules probe tasks and aggregates their verdicts.
//
// A run enumerates one task per (username, site) pair in a fixed order:
// usernames as given, catalog order within each username. Tasks execute
// concurrently up to the configured limit, but every task owns a report
// slot assigned at enumeration time, so the final report always lists
// results in enumeration order no matter how completion interleaves.
//
// Cancellation never loses tasks: whatever did not run is reported as
// Skipped, and the partial report contains every verdict that completed.
package engine

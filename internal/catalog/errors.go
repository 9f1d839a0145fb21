package catalog

import "errors"

// Catalog loading errors.
//
// Design decision: We use package-level sentinel errors so callers can use
// errors.Is() for programmatic handling while still getting readable
// messages. Per-descriptor validation failures are NOT errors at this
// level; they are attached to the Descriptor so the run can continue.
var (
	// ErrEmptyCatalog is returned when the catalog file contains no
	// sites. An empty catalog means no task can be constructed, which is
	// a startup failure rather than a reportable per-task condition.
	ErrEmptyCatalog = errors.New("catalog contains no sites")

	// ErrUnsupportedFormat is returned for catalog files whose extension
	// is neither .json nor .yaml/.yml.
	ErrUnsupportedFormat = errors.New("unsupported catalog format: use .json, .yaml, or .yml")

	// ErrDuplicateSite is returned when two descriptors share a name.
	// Names key report rows, so duplicates would make reports ambiguous.
	ErrDuplicateSite = errors.New("duplicate site name in catalog")
)

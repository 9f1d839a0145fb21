package probe

import "errors"

// ErrEmptyURL is folded into the outcome when a request has no URL.
// Descriptors are validated at load time, so hitting this means a
// programming error rather than bad catalog data.
var ErrEmptyURL = errors.New("probe request has no URL")

// Package variation generates plausible alternate spellings of a username.
//
// People register near-misses of their preferred handle when it is taken:
// trailing years, "official"/"real" markers, separator insertions. The
// generator enumerates those forms in a fixed order so two runs over the
// same base always probe the same variations.
package variation

// Package catalog loads and validates site descriptor catalogs.
//
// A catalog file (JSON or YAML, selected by extension) lists the sites to
// probe and how to interpret their responses. Patterns are compiled exactly
// once at load time; the engine and classifier only apply them.
//
// Malformed entries are kept in the catalog with their validation error
// attached instead of failing the whole load, so a single broken descriptor
// surfaces as a Skipped verdict in the report rather than aborting the run.
// The lint command uses the same validation to report defects offline.
package catalog

// Package model defines the core data types shared across the scanner:
// probe tasks, raw probe outcomes, classified verdicts, and the run report.
//
// All types in this package are plain data. They carry no behavior beyond
// construction, summarization, and serialization, so every other package can
// depend on model without import cycles.
package model

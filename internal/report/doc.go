// Package report renders scan results for humans and tools.
//
// Every writer consumes the same finalized RunReport and implements the
// Writer interface, so the CLI composes console output, JSON, CSV, and
// Markdown freely (including writing several formats at once through
// MultiWriter).
package report

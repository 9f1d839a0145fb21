// Package probe issues the HTTP requests that test whether a username
// exists on a site.
//
// The client enforces two independent limits: the engine bounds how many
// probe tasks run at once, while this package's connection pool bounds how
// many HTTP connections are open across the whole run. When the engine's
// concurrency is raised above the pool size, excess probes wait for a free
// connection instead of failing.
//
// Probes never fail with an error at the API level: network problems are
// folded into the returned outcome so the classifier can turn them into an
// Error verdict alongside every other result.
package probe

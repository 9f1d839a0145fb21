// Package classify turns raw probe outcomes into verdicts.
//
// Classification is a pure function of the site descriptor and the probe
// outcome: no network access, no clock, no shared state. The same inputs
// always produce the same verdict, which keeps the decision table directly
// testable without any HTTP machinery.
package classify

// Package cli constructs the gitmaster command-line interface, wiring the
// Cobra command hierarchy, configuration loader, structured logging, the audit
// log and the action dispatcher. Run executes the application against explicit
// streams so the whole program can be driven from tests.
package cli

// Package auditlog records every user action and git invocation in an
// append-only, human-readable log file.
package auditlog

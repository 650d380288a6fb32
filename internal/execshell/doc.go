// Package execshell provides structured helpers for invoking external tools.
//
// It wraps os/exec with logging via ShellExecutor, exposes OSCommandRunner for
// default process execution, and offers ProcessRunner, which turns a single
// argument string into an ActionResult so callers never handle exec errors
// directly. Lifecycle events are published to CommandEventObserver values such
// as the audit log.
package execshell
